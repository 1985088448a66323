package character

import (
	"errors"
	"sort"
)

// ErrExtraction reports that the extractor could not produce a record.
var ErrExtraction = errors.New("character extraction failed")

// Record is the extracted metadata of one dataset: variable attributes,
// coordinate ranges, calendar, shape and global attributes.
type Record map[string]any

// Keys returns the top-level keys sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
