package project

import "errors"

var (
	// ErrUnknownProject reports a project name with no registered configuration.
	ErrUnknownProject = errors.New("unknown project")
	// ErrPathOutsideBaseDir reports a directory not rooted under the project base directory.
	ErrPathOutsideBaseDir = errors.New("path outside project base directory")
	// ErrFacetCountMismatch reports an identifier whose token count differs from the schema length.
	ErrFacetCountMismatch = errors.New("facet count mismatch")
	// ErrUnknownFacet reports a facet filter key that is not part of the schema.
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrForeignIdentifier reports an identifier whose leading facet names a different project.
	ErrForeignIdentifier = errors.New("identifier belongs to another project")
)
