package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"charscan/internal/batch"
	"charscan/internal/character"
	"charscan/internal/locator"
	"charscan/internal/logging"
	"charscan/internal/preflight"
	"charscan/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags selectionFlags
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Extract characteristics for the selected datasets",
		Long: `Scan every selected dataset of a project, writing a characteristics JSON
record and a marker file per dataset. Datasets with a success marker are
skipped. Per-dataset failures are recorded as markers and do not change the
exit status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, err := ctx.lookupProject(flags.project)
			if err != nil {
				return err
			}
			sel, err := flags.selection()
			if err != nil {
				return err
			}

			if !skipPreflight {
				if failed := preflight.Failed(preflight.RunAll(cfg, p.Name())); len(failed) > 0 {
					names := make([]string, len(failed))
					for i, r := range failed {
						names[i] = fmt.Sprintf("%s (%s)", r.Name, r.Detail)
					}
					return fmt.Errorf("preflight failed: %s", strings.Join(names, "; "))
				}
			}

			logger := ctx.loggerValue(cmd.ErrOrStderr())
			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			scanner, err := scan.New(scan.Options{
				Registry:      registry,
				Extractor:     character.NewCommandExtractor(cfg.Extractor.Command, cfg.Extractor.Args...),
				Writer:        character.NewJSONWriter(),
				FileExtension: cfg.Scan.FileExtension,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			opts := batch.Options{
				Registry: registry,
				Locator:  locator.New(logger),
				Scanner:  scanner,
				Logger:   logger,
			}
			store, err := ctx.openJournal()
			if err != nil {
				logging.WarnWithContext(logger, "scan journal unavailable", "journal_open_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check journal.path or set journal.enabled = false"),
					logging.String(logging.FieldImpact, "run history is not recorded"),
				)
			} else if store != nil {
				defer store.Close()
				opts.Recorder = store
			}

			driver, err := batch.NewDriver(opts)
			if err != nil {
				return err
			}
			summary, err := driver.Run(cmd.Context(), p.Name(), sel)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip directory and extractor checks")
	return cmd
}
