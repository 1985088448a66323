// Package character wraps the collaborators that turn a dataset's data files
// into a character record and persist it: an external extractor command that
// prints the record as JSON, and a writer that stores it with sorted keys.
package character
