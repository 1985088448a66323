package project

import (
	"fmt"
	"strings"

	"charscan/internal/dsid"
)

// Schema is the ordered list of facet names making up a project's identifiers.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema validates and copies the facet names.
func NewSchema(names []string) (Schema, error) {
	if len(names) == 0 {
		return Schema{}, fmt.Errorf("facet schema must not be empty")
	}
	s := Schema{names: make([]string, len(names)), index: make(map[string]int, len(names))}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return Schema{}, fmt.Errorf("facet %d has an empty name", i+1)
		}
		if _, dup := s.index[name]; dup {
			return Schema{}, fmt.Errorf("duplicate facet %q", name)
		}
		s.names[i] = name
		s.index[name] = i
	}
	return s, nil
}

// Names returns a copy of the facet names in order.
func (s Schema) Names() []string {
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

// Len returns the number of facets.
func (s Schema) Len() int {
	return len(s.names)
}

// Has reports whether name is one of the schema facets.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Zip pairs the schema with an identifier's tokens positionally.
func (s Schema) Zip(id dsid.Identifier) (dsid.Facets, error) {
	if id.Len() != s.Len() {
		return nil, fmt.Errorf("%w: %q has %d facets, schema expects %d", ErrFacetCountMismatch, id.String(), id.Len(), s.Len())
	}
	tokens := id.Tokens()
	facets := make(dsid.Facets, len(s.names))
	for i, name := range s.names {
		facets[i] = dsid.Facet{Name: name, Value: tokens[i]}
	}
	return facets, nil
}
