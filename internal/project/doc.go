// Package project turns configuration into immutable project descriptions and
// implements the identifier/path codec and facet resolution on top of them.
//
// A Registry is built once from a validated config.Config and handed to every
// component that needs project knowledge. Project lookups are
// case-insensitive. A Project maps identifiers onto its archive directory tree
// (Path, Identifier), zips identifiers with its facet schema (Facets), and
// builds discovery glob patterns from facet filters (GlobPattern).
package project
