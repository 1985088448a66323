package dsid

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins facet values inside an identifier.
const Separator = "."

var (
	// ErrMalformedIdentifier reports an identifier with empty or invalid tokens.
	ErrMalformedIdentifier = errors.New("malformed dataset identifier")
	// ErrInvalidGroupingLevel reports a grouping level outside 1..facet count.
	ErrInvalidGroupingLevel = errors.New("invalid grouping level")
)

// Identifier is an ordered sequence of facet values.
type Identifier struct {
	tokens []string
}

// Parse splits a dot-separated identifier into its tokens.
func Parse(value string) (Identifier, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Identifier{}, fmt.Errorf("%w: empty identifier", ErrMalformedIdentifier)
	}
	return FromTokens(strings.Split(trimmed, Separator))
}

// FromTokens builds an identifier from already separated facet values.
func FromTokens(tokens []string) (Identifier, error) {
	if len(tokens) == 0 {
		return Identifier{}, fmt.Errorf("%w: no tokens", ErrMalformedIdentifier)
	}
	cp := make([]string, len(tokens))
	for i, token := range tokens {
		if token == "" {
			return Identifier{}, fmt.Errorf("%w: token %d is empty in %q", ErrMalformedIdentifier, i+1, strings.Join(tokens, Separator))
		}
		if strings.Contains(token, Separator) {
			return Identifier{}, fmt.Errorf("%w: token %q contains %q", ErrMalformedIdentifier, token, Separator)
		}
		cp[i] = token
	}
	return Identifier{tokens: cp}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(value string) Identifier {
	id, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the dot-joined identifier.
func (id Identifier) String() string {
	return strings.Join(id.tokens, Separator)
}

// Tokens returns a copy of the facet values in order.
func (id Identifier) Tokens() []string {
	cp := make([]string, len(id.tokens))
	copy(cp, id.tokens)
	return cp
}

// Len reports the number of facet values.
func (id Identifier) Len() int {
	return len(id.tokens)
}

// IsZero reports whether the identifier was never constructed.
func (id Identifier) IsZero() bool {
	return len(id.tokens) == 0
}

// Equal reports whether both identifiers carry the same tokens.
func (id Identifier) Equal(other Identifier) bool {
	if len(id.tokens) != len(other.tokens) {
		return false
	}
	for i := range id.tokens {
		if id.tokens[i] != other.tokens[i] {
			return false
		}
	}
	return true
}

// ValidateGroupingLevel checks that level trailing facets can be grouped out of
// facetCount facets.
func ValidateGroupingLevel(level, facetCount int) error {
	if level < 1 || level > facetCount {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidGroupingLevel, level, facetCount)
	}
	return nil
}

// Group splits the identifier level tokens from the end. Leading tokens become
// slash-separated directory segments and the trailing tokens stay dot-joined
// as the final segment, e.g. with level 4:
//
//	c3s-cmip5/output1/MOHC/HadGEM2-ES/rcp85/mon/atmos/Amon.r1i1p1.tas.latest
func Group(id Identifier, level int) (string, error) {
	if err := ValidateGroupingLevel(level, id.Len()); err != nil {
		return "", err
	}
	boundary := id.Len() - level
	segments := make([]string, 0, boundary+1)
	segments = append(segments, id.tokens[:boundary]...)
	segments = append(segments, strings.Join(id.tokens[boundary:], Separator))
	return strings.Join(segments, "/"), nil
}
