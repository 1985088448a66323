package scan

import (
	"fmt"
	"strings"

	"charscan/internal/dsid"
	"charscan/internal/outputs"
)

// Outcome is the terminal state of one ScanOne invocation.
type Outcome string

const (
	AlreadyDone   Outcome = "already-successful"
	Succeeded     Outcome = "success"
	NoFiles       Outcome = "no-files"
	ExtractFailed Outcome = "extract-error"
	WriteFailed   Outcome = "write-error"
)

// outcomes lists every outcome in state-machine order.
var outcomes = []Outcome{AlreadyDone, Succeeded, NoFiles, ExtractFailed, WriteFailed}

// Failed reports whether the outcome counts against the batch.
func (o Outcome) Failed() bool {
	switch o {
	case NoFiles, ExtractFailed, WriteFailed:
		return true
	default:
		return false
	}
}

func (o Outcome) String() string { return string(o) }

// ParseOutcome converts a stored outcome string back into an Outcome.
func ParseOutcome(value string) (Outcome, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, o := range outcomes {
		if string(o) == value {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown scan outcome %q", value)
}

// Result describes what ScanOne did for one dataset.
type Result struct {
	DatasetID dsid.Identifier
	Outcome   Outcome
	// Reason is the human-readable failure reason, also written to the marker.
	Reason string
	Files  []string
	Paths  outputs.Paths
}
