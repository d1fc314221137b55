package main

import (
	"github.com/spf13/cobra"

	"boilerstrip/internal/cleaner"
	"boilerstrip/internal/report"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags cleaningFlags
	var showPages bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <input-dir>",
		Short: "Show detected header and footer patterns without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts, err := cleaner.OptionsFromConfig(cfg, args[0])
			if err != nil {
				return err
			}
			opts.DryRun = true

			res, err := cleaner.Run(cmd.Context(), opts, logger)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, newJSONResult(res))
			}
			out := cmd.OutOrStdout()
			renderOpts := report.OptionsFor(out)
			if err := report.Patterns(out, res.Patterns, renderOpts); err != nil {
				return err
			}
			if !showPages {
				return nil
			}
			if _, err := out.Write([]byte("\n")); err != nil {
				return err
			}
			return report.Summary(out, res.Report(), renderOpts)
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&showPages, "pages", false, "Also show the planned removal for every page")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit patterns and plans as JSON")
	return cmd
}
