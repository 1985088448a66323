package config

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"charscan/internal/dsid"
)

var (
	facetNamePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)
)

// Reserved template placeholders. They take precedence over facet names.
const (
	PlaceholderProject      = "project"
	PlaceholderDatasetID    = "ds_id"
	PlaceholderGroupedID    = "grouped_ds_id"
	placeholderOutputDirRaw = "output_dir"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateProjects(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.FileExtension == "." {
		return fmt.Errorf("%w: scan.file_extension must not be empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Scan.FileExtension, `/\*?[`) {
		return fmt.Errorf("%w: scan.file_extension %q must be a plain extension", ErrInvalidConfig, c.Scan.FileExtension)
	}
	if c.Scan.GroupingLevel < 1 {
		return fmt.Errorf("%w: scan.grouping_level: %w: %d must be positive", ErrInvalidConfig, dsid.ErrInvalidGroupingLevel, c.Scan.GroupingLevel)
	}
	return nil
}

func (c *Config) validateProjects() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("%w: at least one project must be configured", ErrInvalidConfig)
	}
	folded := make(map[string]string, len(c.Projects))
	for _, name := range c.ProjectNames() {
		if name == "" {
			return fmt.Errorf("%w: project names must not be empty", ErrInvalidConfig)
		}
		key := cases.Fold().String(name)
		if other, dup := folded[key]; dup {
			return fmt.Errorf("%w: projects %q and %q differ only by case", ErrInvalidConfig, other, name)
		}
		folded[key] = name
		if err := validateProject(name, c.Projects[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateProject(name string, p Project) error {
	prefix := "projects." + name
	if strings.TrimSpace(p.BaseDir) == "" {
		return fmt.Errorf("%w: %s.base_dir must be set", ErrInvalidConfig, prefix)
	}
	if len(p.Facets) == 0 {
		return fmt.Errorf("%w: %s.facets must not be empty", ErrInvalidConfig, prefix)
	}
	seen := make(map[string]struct{}, len(p.Facets))
	for _, facet := range p.Facets {
		if !facetNamePattern.MatchString(facet) {
			return fmt.Errorf("%w: %s.facets: invalid facet name %q", ErrInvalidConfig, prefix, facet)
		}
		if _, dup := seen[facet]; dup {
			return fmt.Errorf("%w: %s.facets: duplicate facet %q", ErrInvalidConfig, prefix, facet)
		}
		seen[facet] = struct{}{}
	}
	if _, ok := seen[p.VariableFacet]; !ok {
		return fmt.Errorf("%w: %s.variable_facet %q is not one of the project facets", ErrInvalidConfig, prefix, p.VariableFacet)
	}
	if p.IDPrefix != "" && strings.ContainsAny(p.IDPrefix, `./\*?[]`) {
		return fmt.Errorf("%w: %s.id_prefix %q must be a plain facet value", ErrInvalidConfig, prefix, p.IDPrefix)
	}
	if err := dsid.ValidateGroupingLevel(p.GroupingLevel, len(p.Facets)); err != nil {
		return fmt.Errorf("%w: %s.grouping_level: %w", ErrInvalidConfig, prefix, err)
	}
	return validateOutputs(prefix+".outputs", p.Outputs, seen)
}

func validateOutputs(prefix string, outputs Outputs, facets map[string]struct{}) error {
	templates := []struct {
		key   string
		value string
	}{
		{"json", outputs.JSON},
		{"success", outputs.Success},
		{"no_files", outputs.NoFiles},
		{"extract_error", outputs.ExtractError},
		{"write_error", outputs.WriteError},
		{"batch", outputs.Batch},
	}
	used := make(map[string]string, len(templates))
	for _, tmpl := range templates {
		if strings.TrimSpace(tmpl.value) == "" {
			return fmt.Errorf("%w: %s.%s must be set", ErrInvalidConfig, prefix, tmpl.key)
		}
		if other, dup := used[tmpl.value]; dup {
			return fmt.Errorf("%w: %s.%s and %s.%s resolve to the same template", ErrInvalidConfig, prefix, other, prefix, tmpl.key)
		}
		used[tmpl.value] = tmpl.key
		if err := validateTemplate(tmpl.value, facets); err != nil {
			return fmt.Errorf("%w: %s.%s: %w", ErrInvalidConfig, prefix, tmpl.key, err)
		}
	}
	return nil
}

func validateTemplate(value string, facets map[string]struct{}) error {
	identifying := false
	for _, match := range placeholderPattern.FindAllStringSubmatch(value, -1) {
		switch name := match[1]; name {
		case PlaceholderDatasetID, PlaceholderGroupedID:
			identifying = true
		case PlaceholderProject:
		case placeholderOutputDirRaw:
			return fmt.Errorf("{output_dir} was not resolved in %q", value)
		default:
			if _, ok := facets[name]; !ok {
				return fmt.Errorf("unknown placeholder {%s} in %q", name, value)
			}
		}
	}
	if !identifying {
		return fmt.Errorf("template %q must reference {ds_id} or {grouped_ds_id}", value)
	}
	return nil
}
