package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"charscan/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var projectName string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify archive access, the output directory, and the extractor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var scope []string
			if projectName != "" {
				p, err := ctx.lookupProject(projectName)
				if err != nil {
					return err
				}
				scope = append(scope, p.Name())
			}

			results := preflight.RunAll(cfg, scope...)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				fmt.Fprintln(out, renderStatusLine(result.Name, checkKind(result), result.Detail, colorize))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d required checks failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectName, "project", "p", "", "Only check this project's archive (and require it)")
	return cmd
}
