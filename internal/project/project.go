package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"charscan/internal/config"
	"charscan/internal/dsid"
)

// Templates holds the resolved output path templates of a project.
type Templates struct {
	JSON         string
	Success      string
	NoFiles      string
	ExtractError string
	WriteError   string
	Batch        string
}

// Project is the immutable description of one archive.
type Project struct {
	name          string
	baseDir       string
	schema        Schema
	variableFacet string
	groupingLevel int
	idPrefix      string
	templates     Templates
}

// New builds a Project from its configuration entry.
func New(name string, cfg config.Project) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}
	schema, err := NewSchema(cfg.Facets)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", name, err)
	}
	if !schema.Has(cfg.VariableFacet) {
		return nil, fmt.Errorf("project %s: variable facet %q not in schema", name, cfg.VariableFacet)
	}
	if err := dsid.ValidateGroupingLevel(cfg.GroupingLevel, schema.Len()); err != nil {
		return nil, fmt.Errorf("project %s: %w", name, err)
	}
	idPrefix := strings.TrimSpace(cfg.IDPrefix)
	if strings.ContainsAny(idPrefix, `./\*?[]`) {
		return nil, fmt.Errorf("project %s: id prefix %q must be a plain facet value", name, idPrefix)
	}
	baseDir := strings.TrimSpace(cfg.BaseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("project %s: base directory must be set", name)
	}
	return &Project{
		name:          name,
		baseDir:       filepath.Clean(baseDir),
		schema:        schema,
		variableFacet: cfg.VariableFacet,
		groupingLevel: cfg.GroupingLevel,
		idPrefix:      idPrefix,
		templates: Templates{
			JSON:         cfg.Outputs.JSON,
			Success:      cfg.Outputs.Success,
			NoFiles:      cfg.Outputs.NoFiles,
			ExtractError: cfg.Outputs.ExtractError,
			WriteError:   cfg.Outputs.WriteError,
			Batch:        cfg.Outputs.Batch,
		},
	}, nil
}

func (p *Project) Name() string          { return p.name }
func (p *Project) BaseDir() string       { return p.baseDir }
func (p *Project) Schema() Schema        { return p.schema }
func (p *Project) VariableFacet() string { return p.variableFacet }
func (p *Project) GroupingLevel() int    { return p.groupingLevel }
func (p *Project) Templates() Templates  { return p.templates }
func (p *Project) IDPrefix() string      { return p.idPrefix }

// ParseIdentifier parses value and checks it against the facet schema. It
// never touches the filesystem.
func (p *Project) ParseIdentifier(value string) (dsid.Identifier, error) {
	id, err := dsid.Parse(value)
	if err != nil {
		return dsid.Identifier{}, err
	}
	if id.Len() != p.schema.Len() {
		return dsid.Identifier{}, fmt.Errorf("%w: %q has %d facets, project %s expects %d",
			ErrFacetCountMismatch, value, id.Len(), p.name, p.schema.Len())
	}
	if err := p.checkPrefix(id); err != nil {
		return dsid.Identifier{}, err
	}
	return id, nil
}

// checkPrefix rejects identifiers whose first facet is not the project prefix.
func (p *Project) checkPrefix(id dsid.Identifier) error {
	if p.idPrefix == "" {
		return nil
	}
	if first := id.Tokens()[0]; first != p.idPrefix {
		return fmt.Errorf("%w: %s starts with %q, project %s expects %q",
			ErrForeignIdentifier, id, first, p.name, p.idPrefix)
	}
	return nil
}

// Facets returns the schema-ordered facet values of id.
func (p *Project) Facets(id dsid.Identifier) (dsid.Facets, error) {
	return p.schema.Zip(id)
}

// Variable returns the value of the project's variable facet for id.
func (p *Project) Variable(id dsid.Identifier) (string, error) {
	facets, err := p.Facets(id)
	if err != nil {
		return "", err
	}
	value, _ := facets.Get(p.variableFacet)
	return value, nil
}

// Path joins the base directory with the identifier tokens as nested segments.
func (p *Project) Path(id dsid.Identifier) string {
	return filepath.Join(append([]string{p.baseDir}, id.Tokens()...)...)
}

// Identifier inverts Path: it strips the base directory and joins the
// remaining segments with the identifier separator.
func (p *Project) Identifier(dir string) (dsid.Identifier, error) {
	rel, err := filepath.Rel(p.baseDir, filepath.Clean(dir))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dsid.Identifier{}, fmt.Errorf("%w: %s is not under %s", ErrPathOutsideBaseDir, dir, p.baseDir)
	}
	id, err := dsid.FromTokens(strings.Split(filepath.ToSlash(rel), "/"))
	if err != nil {
		return dsid.Identifier{}, err
	}
	if err := p.checkPrefix(id); err != nil {
		return dsid.Identifier{}, err
	}
	return id, nil
}

// Group returns the grouped output-path fragment of id at the project grouping level.
func (p *Project) Group(id dsid.Identifier) (string, error) {
	return dsid.Group(id, p.groupingLevel)
}

// GlobPattern returns a pattern rooted at the base directory with one segment
// per facet: the filter value when given, otherwise a single-level wildcard.
// The first segment is always the project prefix when one is set.
func (p *Project) GlobPattern(filter dsid.Filter) (string, error) {
	for _, key := range filter.Keys() {
		if !p.schema.Has(key) {
			return "", fmt.Errorf("%w: %q is not a %s facet (known: %s)", ErrUnknownFacet, key, p.name, strings.Join(p.schema.names, ", "))
		}
		if value := filter[key]; value == "" || strings.ContainsAny(value, `/\`) {
			return "", fmt.Errorf("%w: facet %s has invalid value %q", dsid.ErrMalformedFilter, key, value)
		}
	}
	first := p.schema.names[0]
	if value, ok := filter[first]; ok && p.idPrefix != "" {
		if matched, err := filepath.Match(value, p.idPrefix); err != nil || !matched {
			return "", fmt.Errorf("%w: facet %s=%q excludes project prefix %q", ErrForeignIdentifier, first, value, p.idPrefix)
		}
	}
	segments := make([]string, 0, p.schema.Len()+1)
	segments = append(segments, p.baseDir)
	for _, name := range p.schema.names {
		value, ok := filter[name]
		switch {
		case name == first && p.idPrefix != "":
			value = p.idPrefix
		case !ok:
			value = dsid.Wildcard
		}
		segments = append(segments, value)
	}
	return filepath.Join(segments...), nil
}
