// Package batch runs the scan state machine over every dataset a selection
// locates and summarizes the outcome counts.
package batch
