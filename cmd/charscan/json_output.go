package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// datasetJSON is the machine-readable form of a located dataset.
type datasetJSON struct {
	DatasetID    string `json:"ds_id"`
	Dir          string `json:"dir"`
	Outcome      string `json:"outcome,omitempty"`
	Reason       string `json:"reason,omitempty"`
	// LastRecorded is when the journal last saw the dataset.
	LastRecorded string `json:"last_recorded,omitempty"`
}

// runJSON is the machine-readable form of a journal run.
type runJSON struct {
	RunID        string         `json:"run_id"`
	Project      string         `json:"project"`
	StartedAt    string         `json:"started_at"`
	FinishedAt   string         `json:"finished_at,omitempty"`
	Count        int            `json:"count"`
	FailureCount int            `json:"failure_count"`
	Outcomes     map[string]int `json:"outcomes,omitempty"`
}
