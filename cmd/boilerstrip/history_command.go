package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"boilerstrip/internal/history"
	"boilerstrip/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect previously recorded cleaning runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled (set history.enabled = true)")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return history.Open(cfg.Paths.HistoryDB)
}

type historyRunJSON struct {
	ID             string    `json:"id"`
	InputDir       string    `json:"input_dir"`
	OutputDir      string    `json:"output_dir"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Threshold      float64   `json:"threshold"`
	HeaderWindow   int       `json:"header_window"`
	FooterWindow   int       `json:"footer_window"`
	MinOccurrences int       `json:"min_occurrences"`
	PagesTotal     int       `json:"pages_total"`
	PagesCleaned   int       `json:"pages_cleaned"`
	PagesSkipped   int       `json:"pages_skipped"`
	WriteFailures  int       `json:"write_failures"`
	LinesStripped  int       `json:"lines_stripped"`

	Patterns []history.Pattern     `json:"patterns,omitempty"`
	Pages    []history.PageOutcome `json:"pages,omitempty"`
}

func newHistoryRunJSON(run history.Run) historyRunJSON {
	return historyRunJSON{
		ID:             run.ID,
		InputDir:       run.InputDir,
		OutputDir:      run.OutputDir,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		Threshold:      run.Threshold,
		HeaderWindow:   run.HeaderWindow,
		FooterWindow:   run.FooterWindow,
		MinOccurrences: run.MinOccurrences,
		PagesTotal:     run.PagesTotal,
		PagesCleaned:   run.PagesCleaned,
		PagesSkipped:   run.PagesSkipped,
		WriteFailures:  run.WriteFailures,
		LinesStripped:  run.LinesStripped,
		Patterns:       run.Patterns,
		Pages:          run.Pages,
	}
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				items := make([]historyRunJSON, 0, len(runs))
				for _, run := range runs {
					items = append(items, newHistoryRunJSON(run))
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
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.InputDir,
					strconv.Itoa(run.PagesCleaned) + "/" + strconv.Itoa(run.PagesTotal),
					strconv.Itoa(run.LinesStripped),
					strconv.Itoa(run.WriteFailures),
				})
			}
			fmt.Fprint(out, report.Table(
				[]string{"Run", "Started", "Input", "Cleaned", "Lines stripped", "Failures"},
				rows, 3, 4, 5,
			))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run's patterns and per-page outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, newHistoryRunJSON(*run))
			}

			out := cmd.OutOrStdout()
			opts := report.OptionsFor(out)
			for _, line := range report.SectionHeader("run "+shortID(run.ID), opts) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "ID:              %s\n", run.ID)
			fmt.Fprintf(out, "Input:           %s\n", run.InputDir)
			fmt.Fprintf(out, "Output:          %s\n", run.OutputDir)
			fmt.Fprintf(out, "Started:         %s\n", run.StartedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Duration:        %s\n", run.Duration().Round(time.Millisecond))
			fmt.Fprintf(out, "Threshold:       %s (min %d page(s))\n",
				strconv.FormatFloat(run.Threshold, 'f', -1, 64), run.MinOccurrences)
			fmt.Fprintf(out, "Windows:         header %d, footer %d\n", run.HeaderWindow, run.FooterWindow)
			fmt.Fprintf(out, "Pages:           %d cleaned of %d, %d skipped, %d failed\n",
				run.PagesCleaned, run.PagesTotal, run.PagesSkipped, run.WriteFailures)
			fmt.Fprintf(out, "Lines stripped:  %d\n", run.LinesStripped)

			fmt.Fprintln(out)
			for _, line := range report.SectionHeader("patterns", opts) {
				fmt.Fprintln(out, line)
			}
			if len(run.Patterns) == 0 {
				fmt.Fprintln(out, "  (none)")
			} else {
				rows := make([][]string, 0, len(run.Patterns))
				for _, p := range run.Patterns {
					rows = append(rows, []string{p.Side, strconv.Itoa(p.Position), p.Text})
				}
				fmt.Fprintln(out, report.Table([]string{"Side", "Position", "Text"}, rows, 1))
			}

			if len(run.Pages) > 0 {
				fmt.Fprintln(out)
				for _, line := range report.SectionHeader("pages", opts) {
					fmt.Fprintln(out, line)
				}
				rows := make([][]string, 0, len(run.Pages))
				for _, p := range run.Pages {
					status := p.OutputPath
					if p.Error != "" {
						status = "error: " + p.Error
					}
					rows = append(rows, []string{
						strconv.Itoa(p.Page),
						strconv.Itoa(p.StripStart),
						strconv.Itoa(p.StripEnd),
						status,
					})
				}
				fmt.Fprintln(out, report.Table([]string{"Page", "Strip start", "Strip end", "Output"}, rows, 0, 1, 2))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
