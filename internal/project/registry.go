package project

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"charscan/internal/config"
)

// Registry holds every configured project. It is read-only after construction.
type Registry struct {
	projects map[string]*Project
	names    []string
}

// NewRegistry builds projects for every entry in cfg.Projects.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("registry requires a config")
	}
	r := &Registry{projects: make(map[string]*Project, len(cfg.Projects))}
	for _, name := range cfg.ProjectNames() {
		p, err := New(name, cfg.Projects[name])
		if err != nil {
			return nil, err
		}
		key := foldName(name)
		if _, dup := r.projects[key]; dup {
			return nil, fmt.Errorf("project %q registered twice", name)
		}
		r.projects[key] = p
		r.names = append(r.names, p.Name())
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup returns the project registered under name, ignoring case.
func (r *Registry) Lookup(name string) (*Project, error) {
	if r != nil {
		if p, ok := r.projects[foldName(name)]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (must be one of: %s)", ErrUnknownProject, name, strings.Join(r.Names(), ", "))
}

// Names returns the registered project names sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	cp := make([]string, len(r.names))
	copy(cp, r.names)
	return cp
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
