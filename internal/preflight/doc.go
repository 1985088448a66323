// Package preflight provides readiness checks for the filesystem paths and
// external programs charscan depends on.
//
// The CLI "charscan check" command runs RunAll and prints one line per check.
// The scan command runs the same checks before a batch so a read-only output
// tree or a missing extractor fails fast instead of producing a marker per
// dataset.
package preflight
