package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeScan()
	c.normalizeExtractor()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	return c.normalizeProjects()
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		if value, ok := os.LookupEnv("CHARSCAN_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.OutputDir = value
		} else {
			c.Paths.OutputDir = defaultOutputDir
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeScan() {
	ext := strings.TrimSpace(c.Scan.FileExtension)
	if ext == "" {
		ext = defaultFileExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Scan.FileExtension = ext
	if c.Scan.GroupingLevel == 0 {
		c.Scan.GroupingLevel = defaultGroupingLevel
	}
}

func (c *Config) normalizeExtractor() {
	c.Extractor.Command = strings.TrimSpace(c.Extractor.Command)
	if c.Extractor.Command == "" {
		c.Extractor.Command = defaultExtractor
	}
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = filepath.Join(c.Paths.LogDir, defaultJournalName)
		return nil
	}
	var err error
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

// normalizeProjects fills fields a config file left unset from the built-in
// project of the same name, then from the global defaults.
func (c *Config) normalizeProjects() error {
	builtins := BuiltinProjects()
	defaults := DefaultOutputs()
	normalized := make(map[string]Project, len(c.Projects))
	for rawName, project := range c.Projects {
		name := strings.TrimSpace(rawName)
		builtin, known := builtins[name]
		if known {
			if strings.TrimSpace(project.BaseDir) == "" {
				project.BaseDir = builtin.BaseDir
			}
			if len(project.Facets) == 0 {
				project.Facets = append([]string(nil), builtin.Facets...)
			}
			if strings.TrimSpace(project.VariableFacet) == "" {
				project.VariableFacet = builtin.VariableFacet
			}
			if strings.TrimSpace(project.IDPrefix) == "" {
				project.IDPrefix = builtin.IDPrefix
			}
		}
		project.IDPrefix = strings.TrimSpace(project.IDPrefix)
		for i, facet := range project.Facets {
			project.Facets[i] = strings.TrimSpace(facet)
		}
		project.VariableFacet = strings.TrimSpace(project.VariableFacet)
		if project.GroupingLevel == 0 {
			project.GroupingLevel = c.Scan.GroupingLevel
		}

		if strings.TrimSpace(project.BaseDir) != "" {
			var err error
			if project.BaseDir, err = expandPath(strings.TrimSpace(project.BaseDir)); err != nil {
				return fmt.Errorf("projects.%s.base_dir: %w", name, err)
			}
		}

		project.Outputs = Outputs{
			JSON:         c.resolveTemplate(project.Outputs.JSON, defaults.JSON),
			Success:      c.resolveTemplate(project.Outputs.Success, defaults.Success),
			NoFiles:      c.resolveTemplate(project.Outputs.NoFiles, defaults.NoFiles),
			ExtractError: c.resolveTemplate(project.Outputs.ExtractError, defaults.ExtractError),
			WriteError:   c.resolveTemplate(project.Outputs.WriteError, defaults.WriteError),
			Batch:        c.resolveTemplate(project.Outputs.Batch, defaults.Batch),
		}
		normalized[name] = project
	}
	c.Projects = normalized
	return nil
}

func (c *Config) resolveTemplate(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	return strings.ReplaceAll(value, "{output_dir}", c.Paths.OutputDir)
}

// Normalize applies the same defaulting and path expansion Load performs. It
// is exposed for callers that assemble a Config in code.
func (c *Config) Normalize() error {
	return c.normalize()
}
