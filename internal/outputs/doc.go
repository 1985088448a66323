// Package outputs derives the output-tree layout of a dataset: the JSON
// artifact, the success marker, one marker per failure kind, and the batch
// submission path. Every path is a deterministic function of the project and
// identifier, and Resolve creates the parent directories so later writes never
// have to distinguish a missing directory from a failed write.
package outputs
