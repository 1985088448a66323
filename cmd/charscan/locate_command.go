package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charscan/internal/locator"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "List the datasets a selection resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.lookupProject(flags.project)
			if err != nil {
				return err
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}
			datasets, err := locator.New(ctx.loggerValue(cmd.ErrOrStderr())).Locate(cmd.Context(), p, sel)
			if err != nil {
				return err
			}

			if jsonOutput {
				items := make([]datasetJSON, 0, datasets.Len())
				for _, ds := range datasets.All() {
					items = append(items, datasetJSON{DatasetID: ds.ID.String(), Dir: ds.Dir})
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if datasets.Len() == 0 {
				fmt.Fprintln(out, "No datasets found")
				return nil
			}
			rows := make([][]string, 0, datasets.Len())
			for _, ds := range datasets.All() {
				rows = append(rows, []string{ds.ID.String(), ds.Dir})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{col("Dataset"), col("Directory")}, rows))
			fmt.Fprintf(out, "%d datasets\n", datasets.Len())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
