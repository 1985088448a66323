package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the configured projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(registry.Names()))
			for _, name := range registry.Names() {
				p, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					p.Name(),
					p.BaseDir(),
					strconv.Itoa(p.Schema().Len()),
					strconv.Itoa(p.GroupingLevel()),
					p.VariableFacet(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]tableColumn{col("Project"), col("Base directory"), numCol("Facets"), numCol("Grouping"), col("Variable")},
				rows,
			))
			return nil
		},
	}
}
