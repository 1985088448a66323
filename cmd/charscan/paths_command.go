package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charscan/internal/outputs"
)

func newPathsCommand(ctx *commandContext) *cobra.Command {
	var projectName string
	var create bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "paths <ds_id>",
		Short: "Show the output paths of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.lookupProject(projectName)
			if err != nil {
				return err
			}
			id, err := p.ParseIdentifier(args[0])
			if err != nil {
				return err
			}

			resolve := outputs.Layout
			if create {
				resolve = outputs.Resolve
			}
			paths, err := resolve(p, id)
			if err != nil {
				return err
			}

			entries := [][]string{
				{"json", paths.JSON},
				{"success", paths.Success},
				{"no_files", paths.NoFiles},
				{"extract_error", paths.ExtractError},
				{"write_error", paths.WriteError},
				{"batch", paths.Batch},
			}
			if jsonOutput {
				payload := make(map[string]string, len(entries)+1)
				payload["ds_id"] = id.String()
				payload["dir"] = p.Path(id)
				for _, entry := range entries {
					payload[entry[0]] = entry[1]
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dataset:   %s\n", id)
			fmt.Fprintf(out, "Directory: %s\n", p.Path(id))
			fmt.Fprintln(out, renderTable([]tableColumn{col("Output"), col("Path")}, entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectName, "project", "p", "", "Project name (required)")
	cmd.Flags().BoolVar(&create, "create", false, "Create the parent directories of every path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
