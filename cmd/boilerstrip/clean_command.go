package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/cleaner"
	"boilerstrip/internal/config"
	"boilerstrip/internal/history"
	"boilerstrip/internal/logging"
	"boilerstrip/internal/preflight"
	"boilerstrip/internal/report"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var flags cleaningFlags
	var outputDir string
	var noCombined bool
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "clean <input-dir>",
		Short: "Strip recurring headers and footers from every page in a directory",
		Long: "Detect lines that recur at the same position near the top or bottom of most pages,\n" +
			"then write a cleaned copy of each page plus a combined file to the output directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output.Dir = outputDir
			}
			if noCombined {
				cfg.Output.WriteCombined = false
			}
			return runClean(cmd, cfg, args[0], dryRun, jsonOutput)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default <input-dir>_cleaned)")
	cmd.Flags().BoolVar(&noCombined, "no-combined", false, "Skip writing the combined output file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Detect patterns and plan removals without writing anything")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run result as JSON")
	return cmd
}

func runClean(cmd *cobra.Command, cfg *config.Config, inputDir string, dryRun, jsonOutput bool) error {
	opts, err := cleaner.OptionsFromConfig(cfg, inputDir)
	if err != nil {
		return err
	}
	opts.DryRun = dryRun
	opts.RunID = uuid.NewString()

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if !dryRun {
		results := preflight.RunAll(cfg, opts.InputDir, opts.OutputDir)
		if failed, ok := preflight.FirstFatal(results); ok {
			return fmt.Errorf("preflight %s: %s", failed.Name, failed.Detail)
		}
		for _, r := range results {
			if !r.Passed {
				logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", r.Name),
					logging.String("detail", r.Detail),
					logging.String(logging.FieldImpact, "writes under this location may fail"),
				)
			}
		}
		var closeLog func()
		logger, closeLog = attachRunLog(cfg, logger, opts.RunID)
		defer closeLog()
	}

	out := cmd.OutOrStdout()
	renderOpts := report.OptionsFor(out)
	if !jsonOutput {
		opts.OnPatterns = func(p boilerplate.Patterns) error {
			if err := report.Patterns(out, p, renderOpts); err != nil {
				return err
			}
			_, err := fmt.Fprintln(out)
			return err
		}
	}

	res, err := cleaner.Run(cmd.Context(), opts, logger)
	if err != nil {
		return err
	}

	if !dryRun && cfg.History.Enabled {
		recordHistory(cmd.Context(), cfg, res, logger)
	}

	if jsonOutput {
		return writeJSON(cmd, newJSONResult(res))
	}
	if err := report.Summary(out, res.Report(), renderOpts); err != nil {
		return err
	}
	for _, path := range res.Reports {
		fmt.Fprintln(out, report.StatusLine("Report", true, path, renderOpts))
	}
	return nil
}

// attachRunLog tees logger into a per-run JSON file when run logs are enabled
// and prunes expired ones. The returned func closes the file.
func attachRunLog(cfg *config.Config, logger *slog.Logger, runID string) (*slog.Logger, func()) {
	if !cfg.Logging.RunLogs || cfg.Paths.LogDir == "" {
		return logger, func() {}
	}
	runLog, err := logging.OpenRunLog(cfg.Paths.LogDir, runID, time.Now())
	if err != nil {
		logging.WarnWithContext(logger, "run log unavailable", "run_log_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.log_dir permissions"),
			logging.String(logging.FieldImpact, "this run is logged to the console only"),
		)
		return logger, func() {}
	}
	console := logger
	logger = runLog.Attach(logger)
	if _, err := logging.PruneRunLogs(logger, cfg.Paths.LogDir, logging.RetentionAge(cfg.Logging.RetentionDays), runLog.Path); err != nil {
		logger.Debug("run log retention skipped", logging.Error(err))
	}
	logger.Debug("run log opened", logging.String("path", runLog.Path))
	return logger, func() {
		if err := runLog.Close(); err != nil {
			console.Warn("close run log failed", logging.Error(err))
		}
	}
}

// recordHistory stores the run and applies history.keep_runs. Failures are
// logged; the cleaned output is already on disk.
func recordHistory(ctx context.Context, cfg *config.Config, res *cleaner.Result, logger *slog.Logger) {
	warn := func(msg string, err error) {
		logging.WarnWithContext(logger, msg, "history_failed",
			logging.Error(err),
			logging.String("history_db", cfg.Paths.HistoryDB),
			logging.String(logging.FieldErrorHint, "run boilerstrip check to verify the history directory"),
			logging.String(logging.FieldImpact, "this run is missing from boilerstrip history"),
		)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		warn("history directory unavailable", err)
		return
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		warn("open history failed", err)
		return
	}
	defer store.Close()

	if err := store.RecordRun(ctx, res.History()); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		warn("record run failed", err)
		return
	}
	logger.Debug("run recorded", logging.String("history_db", store.Path()))

	if cfg.History.KeepRuns > 0 {
		removed, err := store.Prune(ctx, cfg.History.KeepRuns)
		if err != nil {
			warn("prune history failed", err)
			return
		}
		if removed > 0 {
			logger.Info("history pruned",
				logging.Int("removed", int(removed)),
				logging.Int("keep_runs", cfg.History.KeepRuns),
			)
		}
	}
}
