package dsid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Wildcard matches any single facet value during discovery.
const Wildcard = "*"

// ErrMalformedFilter reports a facet filter that cannot be parsed or applied.
var ErrMalformedFilter = errors.New("malformed facet filter")

// Facet pairs a schema facet name with its value.
type Facet struct {
	Name  string
	Value string
}

// Facets is an ordered facet-name to value mapping in schema order.
type Facets []Facet

// Get returns the value recorded for name.
func (f Facets) Get(name string) (string, bool) {
	for _, facet := range f {
		if facet.Name == name {
			return facet.Value, true
		}
	}
	return "", false
}

// Names returns the facet names in order.
func (f Facets) Names() []string {
	names := make([]string, len(f))
	for i, facet := range f {
		names[i] = facet.Name
	}
	return names
}

// Filter maps facet names to the values discovery should match. Absent facets
// match anything. Values may carry glob metacharacters.
type Filter map[string]string

// Keys returns the filter's facet names sorted.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseFilter reads the command-line form "x=hello,y=2,z=bye".
func ParseFilter(value string) (Filter, error) {
	filter := Filter{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, facetValue, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		facetValue = strings.TrimSpace(facetValue)
		if !ok || name == "" || facetValue == "" {
			return nil, fmt.Errorf("%w: %q is not name=value", ErrMalformedFilter, part)
		}
		if _, dup := filter[name]; dup {
			return nil, fmt.Errorf("%w: facet %q given more than once", ErrMalformedFilter, name)
		}
		filter[name] = facetValue
	}
	if len(filter) == 0 {
		return nil, fmt.Errorf("%w: no facets in %q", ErrMalformedFilter, value)
	}
	return filter, nil
}
