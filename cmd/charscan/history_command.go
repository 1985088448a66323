package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"charscan/internal/journal"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded scan runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			if store == nil {
				return errors.New("scan journal is disabled (journal.enabled = false)")
			}
			defer store.Close()

			if runID != "" {
				return showRun(cmd, store, runID, jsonOutput)
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				items := make([]runJSON, 0, len(runs))
				for _, run := range runs {
					items = append(items, toRunJSON(run, nil))
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.Project,
					formatHistoryTime(run.StartedAt),
					formatHistoryTime(run.FinishedAt),
					strconv.Itoa(run.Count),
					strconv.Itoa(run.FailureCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{col("Run"), col("Project"), col("Started"), col("Finished"), numCol("Datasets"), numCol("Failures")},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-dataset results of one run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func showRun(cmd *cobra.Command, store *journal.Store, runID string, jsonOutput bool) error {
	run, err := store.Run(cmd.Context(), runID)
	if err != nil {
		return err
	}
	entries, err := store.Results(cmd.Context(), runID)
	if err != nil {
		return err
	}

	if jsonOutput {
		payload := struct {
			runJSON
			Results []datasetJSON `json:"results"`
		}{runJSON: toRunJSON(run, entries)}
		for _, entry := range entries {
			payload.Results = append(payload.Results, datasetJSON{
				DatasetID: entry.DatasetID,
				Outcome:   entry.Outcome.String(),
				Reason:    entry.Reason,
			})
		}
		return writeJSON(cmd, payload)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Project:  %s\n", run.Project)
	fmt.Fprintf(out, "Started:  %s\n", formatHistoryTime(run.StartedAt))
	fmt.Fprintf(out, "Finished: %s\n", formatHistoryTime(run.FinishedAt))
	if len(entries) == 0 {
		fmt.Fprintln(out, "No results recorded")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.DatasetID, entry.Outcome.String(), entry.Reason})
	}
	fmt.Fprintln(out, renderTable([]tableColumn{col("Dataset"), col("Outcome"), wrapCol("Reason", 60)}, rows))
	return nil
}

func toRunJSON(run journal.Run, entries []journal.Entry) runJSON {
	item := runJSON{
		RunID:        run.ID,
		Project:      run.Project,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
		Count:        run.Count,
		FailureCount: run.FailureCount,
	}
	if run.Finished() {
		item.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	if len(entries) > 0 {
		item.Outcomes = make(map[string]int)
		for _, entry := range entries {
			item.Outcomes[entry.Outcome.String()]++
		}
	}
	return item
}

func formatHistoryTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(historyTimeLayout)
}
