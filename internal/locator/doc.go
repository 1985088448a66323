// Package locator turns a selection (explicit dataset identifiers, a partial
// facet filter, or raw archive directories) into the ordered set of datasets a
// batch should scan.
package locator
