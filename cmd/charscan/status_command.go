package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"charscan/internal/locator"
	"charscan/internal/logging"
	"charscan/internal/outputs"
	"charscan/internal/scan"
)

const pendingLabel = "pending"

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the marker state of the selected datasets",
		Long: `Report which datasets have been scanned and how, by reading the marker
files of each located dataset. Nothing is scanned and no directories are
created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.lookupProject(flags.project)
			if err != nil {
				return err
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue(cmd.ErrOrStderr())
			datasets, err := locator.New(logger).Locate(cmd.Context(), p, sel)
			if err != nil {
				return err
			}

			// The journal only adds when each dataset was last scanned.
			store, err := ctx.openJournal()
			switch {
			case err != nil:
				logger.Debug("scan journal unavailable", logging.Error(err))
			case store != nil:
				defer store.Close()
			}

			items := make([]datasetJSON, 0, datasets.Len())
			counts := make(map[string]int)
			for _, ds := range datasets.All() {
				paths, err := outputs.Layout(p, ds.ID)
				if err != nil {
					return err
				}
				outcome, reason, ok, err := scan.Inspect(paths)
				if err != nil {
					return err
				}
				label := pendingLabel
				if ok {
					label = outcome.String()
				}
				counts[label]++
				item := datasetJSON{DatasetID: ds.ID.String(), Dir: ds.Dir, Outcome: label, Reason: reason}
				if store != nil {
					if entry, found, err := store.LatestOutcome(cmd.Context(), item.DatasetID); err == nil && found {
						item.LastRecorded = formatHistoryTime(entry.RecordedAt)
					}
				}
				items = append(items, item)
			}

			if jsonOutput {
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No datasets found")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				last := item.LastRecorded
				if last == "" {
					last = "-"
				}
				rows = append(rows, []string{item.DatasetID, item.Outcome, last, item.Reason})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{col("Dataset"), col("State"), col("Last scanned"), wrapCol("Reason", 60)}, rows))

			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Totals", colorize) {
				fmt.Fprintln(out, line)
			}
			labels := make([]string, 0, len(counts))
			for label := range counts {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, label := range labels {
				kind := statusInfo
				if label != pendingLabel {
					kind = outcomeKind(scan.Outcome(label))
				}
				fmt.Fprintln(out, renderStatusLine(label, kind, fmt.Sprintf("%d", counts[label]), colorize))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
