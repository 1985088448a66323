package locator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"charscan/internal/logging"
	"charscan/internal/project"
)

// Locator resolves selections against the archive filesystem.
type Locator struct {
	logger *slog.Logger
}

// New constructs a Locator. A nil logger discards output.
func New(logger *slog.Logger) *Locator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Locator{logger: logger.With(logging.String(logging.FieldComponent, "locator"))}
}

// Locate returns the datasets named by sel. Malformed identifiers, unknown
// facets and directories outside the project base directory are returned as
// errors before any dataset is scanned. Facet discovery silently skips
// directories that do not map back to a schema-conformant identifier.
func (l *Locator) Locate(ctx context.Context, p *project.Project, sel Selection) (*Datasets, error) {
	if p == nil {
		return nil, fmt.Errorf("locate requires a project")
	}
	mode, err := sel.Mode()
	if err != nil {
		return nil, err
	}
	excludes, err := compileExcludes(sel.Exclude)
	if err != nil {
		return nil, err
	}

	logger := l.logger.With(logging.String(logging.FieldProject, p.Name()), logging.String("mode", string(mode)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Dataset
	switch mode {
	case ModeDatasetIDs:
		candidates, err = l.fromIdentifiers(p, sel.DatasetIDs)
	case ModeFacets:
		candidates, err = l.fromFacets(logger, p, sel)
	case ModePaths:
		candidates, err = l.fromPaths(p, sel.Paths)
	}
	if err != nil {
		return nil, err
	}

	result := NewDatasets()
	skipped := 0
	for _, ds := range candidates {
		if excluded(ds.Dir, excludes) {
			skipped++
			logger.Debug("dataset excluded", logging.String(logging.FieldDatasetID, ds.ID.String()))
			continue
		}
		result.Add(ds)
	}
	logger.Info("datasets located",
		logging.Int("count", result.Len()),
		logging.Int("excluded", skipped),
	)
	return result, nil
}

func (l *Locator) fromIdentifiers(p *project.Project, values []string) ([]Dataset, error) {
	out := make([]Dataset, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		id, err := p.ParseIdentifier(value)
		if err != nil {
			return nil, err
		}
		out = append(out, Dataset{ID: id, Dir: p.Path(id)})
	}
	return out, nil
}

func (l *Locator) fromFacets(logger *slog.Logger, p *project.Project, sel Selection) ([]Dataset, error) {
	pattern, err := p.GlobPattern(sel.Facets)
	if err != nil {
		return nil, err
	}
	logger.Debug("globbing archive", logging.String("pattern", pattern))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	out := make([]Dataset, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.IsDir() {
			continue
		}
		id, err := p.Identifier(match)
		if err != nil {
			logger.Debug("skipping unmappable directory", logging.String("dir", match), logging.Error(err))
			continue
		}
		if id.Len() != p.Schema().Len() {
			continue
		}
		out = append(out, Dataset{ID: id, Dir: match})
	}
	return out, nil
}

func (l *Locator) fromPaths(p *project.Project, dirs []string) ([]Dataset, error) {
	out := make([]Dataset, 0, len(dirs))
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", dir, err)
		}
		id, err := p.Identifier(abs)
		if err != nil {
			return nil, err
		}
		if _, err := p.ParseIdentifier(id.String()); err != nil {
			return nil, err
		}
		out = append(out, Dataset{ID: id, Dir: p.Path(id)})
	}
	return out, nil
}
