package locator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"charscan/internal/dsid"
)

var (
	// ErrNoSelectionCriteria reports a selection naming no datasets at all.
	ErrNoSelectionCriteria = errors.New("no selection criteria")
	// ErrConflictingSelection reports a selection mixing more than one mode.
	ErrConflictingSelection = errors.New("conflicting selection criteria")
	// ErrInvalidExcludePattern reports an exclusion regex that does not compile.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")
)

// Mode identifies how a selection names its datasets.
type Mode string

const (
	ModeDatasetIDs Mode = "ds_ids"
	ModeFacets     Mode = "facets"
	ModePaths      Mode = "paths"
)

// Selection describes which datasets of a project to locate. Exactly one of
// DatasetIDs, Facets or Paths must be set. Exclude holds regular expressions
// matched against each candidate directory.
type Selection struct {
	DatasetIDs []string
	Facets     dsid.Filter
	Paths      []string
	Exclude    []string
}

// Mode reports which selection mode is in use.
func (s Selection) Mode() (Mode, error) {
	var modes []Mode
	if len(s.DatasetIDs) > 0 {
		modes = append(modes, ModeDatasetIDs)
	}
	if len(s.Facets) > 0 {
		modes = append(modes, ModeFacets)
	}
	if len(s.Paths) > 0 {
		modes = append(modes, ModePaths)
	}
	switch len(modes) {
	case 0:
		return "", fmt.Errorf("%w: provide dataset ids, facets or paths", ErrNoSelectionCriteria)
	case 1:
		return modes[0], nil
	default:
		names := make([]string, len(modes))
		for i, mode := range modes {
			names[i] = string(mode)
		}
		return "", fmt.Errorf("%w: %s are mutually exclusive", ErrConflictingSelection, strings.Join(names, " and "))
	}
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExcludePattern, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func excluded(dir string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(dir) {
			return true
		}
	}
	return false
}
