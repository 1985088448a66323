package outputs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charscan/internal/config"
	"charscan/internal/dsid"
	"charscan/internal/project"
)

// Paths is the resolved output layout of one dataset.
type Paths struct {
	JSON         string
	Success      string
	NoFiles      string
	ExtractError string
	WriteError   string
	Batch        string
}

// FailureMarkers returns the no-files, extract-error and write-error markers.
func (p Paths) FailureMarkers() []string {
	return []string{p.NoFiles, p.ExtractError, p.WriteError}
}

// Markers returns every terminal-state marker including success.
func (p Paths) Markers() []string {
	return append(p.FailureMarkers(), p.Success)
}

// All returns every path in the layout in a stable order.
func (p Paths) All() []string {
	return []string{p.JSON, p.Success, p.NoFiles, p.ExtractError, p.WriteError, p.Batch}
}

// Layout computes the output paths of id without touching the filesystem.
func Layout(p *project.Project, id dsid.Identifier) (Paths, error) {
	if p == nil {
		return Paths{}, fmt.Errorf("layout requires a project")
	}
	facets, err := p.Facets(id)
	if err != nil {
		return Paths{}, err
	}
	grouped, err := p.Group(id)
	if err != nil {
		return Paths{}, err
	}

	pairs := []string{
		"{" + config.PlaceholderProject + "}", p.Name(),
		"{" + config.PlaceholderGroupedID + "}", grouped,
		"{" + config.PlaceholderDatasetID + "}", id.String(),
	}
	for _, facet := range facets {
		pairs = append(pairs, "{"+facet.Name+"}", facet.Value)
	}
	replacer := strings.NewReplacer(pairs...)
	expand := func(template string) string {
		return filepath.Clean(replacer.Replace(template))
	}

	tpl := p.Templates()
	return Paths{
		JSON:         expand(tpl.JSON),
		Success:      expand(tpl.Success),
		NoFiles:      expand(tpl.NoFiles),
		ExtractError: expand(tpl.ExtractError),
		WriteError:   expand(tpl.WriteError),
		Batch:        expand(tpl.Batch),
	}, nil
}

// Resolve computes the layout of id and creates every missing parent
// directory. Calling it repeatedly leaves the filesystem unchanged after the
// first call.
func Resolve(p *project.Project, id dsid.Identifier) (Paths, error) {
	paths, err := Layout(p, id)
	if err != nil {
		return Paths{}, err
	}
	for _, path := range paths.All() {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return paths, nil
}
