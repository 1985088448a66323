// Package scan drives the per-dataset state machine. A dataset either already
// carries a success marker and is skipped, or it is scanned afresh: stale
// failure markers are cleared, data files are enumerated, the character is
// extracted and written, and exactly one terminal marker records the outcome.
//
// Per-dataset failures are returned as Result values rather than errors so the
// batch driver can count them and move on. ScanOne only returns an error for
// conditions that make the whole batch meaningless, such as an unknown project
// or an output tree that cannot be written.
package scan
