// Package dsid models dataset identifiers: dot-separated, ordered tuples of
// facet values such as
//
//	cmip5.output1.MOHC.HadGEM2-ES.historical.mon.land.Lmon.r1i1p1.v20111128.rh
//
// Identifier values are immutable once constructed. The package also owns the
// grouped output-path form of an identifier (Group), the ordered facet-value
// pairs derived from a schema (Facets), and the facet filters accepted by
// discovery (Filter, ParseFilter).
//
// Nothing here touches the filesystem; mapping identifiers onto a project's
// directory tree lives in the project package.
package dsid
