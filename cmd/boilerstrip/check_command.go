package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boilerstrip/internal/preflight"
	"boilerstrip/internal/report"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "check <input-dir>",
		Short: "Verify the input, output, log, and history locations for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			local := *cfg
			if cmd.Flags().Changed("output") {
				local.Output.Dir = outputDir
			}
			in, err := expandArg(args[0])
			if err != nil {
				return err
			}
			out, err := local.OutputDirFor(in)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}

			w := cmd.OutOrStdout()
			opts := report.OptionsFor(w)
			for _, line := range report.SectionHeader("preflight", opts) {
				fmt.Fprintln(w, line)
			}
			results := preflight.RunAll(&local, in, out)
			for _, r := range results {
				fmt.Fprintln(w, report.StatusLine(r.Name, r.Passed, r.Detail, opts))
			}
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, using defaults)"
			}
			fmt.Fprintln(w, report.StatusLine("Config", true, configDetail, opts))
			if failed, ok := preflight.FirstFatal(results); ok {
				return fmt.Errorf("%s check failed: %s", failed.Name, failed.Detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory to check (default <input-dir>_cleaned)")
	return cmd
}
