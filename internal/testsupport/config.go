package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"charscan/internal/config"
	"charscan/internal/project"
)

// ToyProject is a small six-facet project available in every test config.
const ToyProject = "toy"

// ToyFacets is the facet schema of ToyProject.
var ToyFacets = []string{"activity", "model", "experiment", "ensemble", "version", "variable"}

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a normalized, validated config seeded with unique temp
// directories per test. The archive root for every project lives under
// BaseDir(cfg)/archive/<project>. The journal is disabled unless WithJournal
// is given.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "outputs")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Journal.Enabled = false
	cfgVal.Extractor.Command = "char-extract"

	projects := config.BuiltinProjects()
	for name, p := range projects {
		p.BaseDir = filepath.Join(base, "archive", name)
		projects[name] = p
	}
	projects[ToyProject] = config.Project{
		BaseDir:       filepath.Join(base, "archive", ToyProject),
		Facets:        append([]string(nil), ToyFacets...),
		VariableFacet: "variable",
		GroupingLevel: 3,
		IDPrefix:      ToyProject,
	}
	cfgVal.Projects = projects

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	return builder.cfg
}

// WithJournal enables the scan journal inside the test log directory.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
		b.cfg.Journal.Path = filepath.Join(b.baseDir, "logs", "journal.db")
	}
}

// WithProject adds or replaces a project entry.
func WithProject(name string, p config.Project) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Projects[name] = p
	}
}

// WithSharedBaseDir points every named project at one archive root,
// BaseDir(cfg)/archive/shared, the way c3s-cmip5 and c3s-cordex share one
// volume in production.
func WithSharedBaseDir(names ...string) ConfigOption {
	return func(b *configBuilder) {
		shared := filepath.Join(b.baseDir, "archive", "shared")
		for _, name := range names {
			p := b.cfg.Projects[name]
			p.BaseDir = shared
			b.cfg.Projects[name] = p
		}
	}
}

// WithStubbedExtractor writes an executable shell script acting as the
// character extractor, prepends its directory to PATH, and points the config
// at it. The script receives "--var <variable> -- <files...>".
func WithStubbedExtractor(script string) ConfigOption {
	return func(b *configBuilder) {
		const name = "char-extract-stub"
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		body := []byte("#!/bin/sh\n" + script + "\n")
		if err := os.WriteFile(filepath.Join(binDir, name), body, 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
		b.cfg.Extractor.Command = name
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}

// MustRegistry builds a project registry from cfg.
func MustRegistry(t testing.TB, cfg *config.Config) *project.Registry {
	t.Helper()

	registry, err := project.NewRegistry(cfg)
	if err != nil {
		t.Fatalf("project.NewRegistry: %v", err)
	}
	return registry
}

// MustProject looks up name in a registry built from cfg.
func MustProject(t testing.TB, cfg *config.Config, name string) *project.Project {
	t.Helper()

	p, err := MustRegistry(t, cfg).Lookup(name)
	if err != nil {
		t.Fatalf("lookup project %s: %v", name, err)
	}
	return p
}
