package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"boilerstrip/internal/config"
)

// cleaningFlags are the detection overrides shared by clean and scan.
type cleaningFlags struct {
	threshold        float64
	headerWindow     int
	footerWindow     int
	workers          int
	minPatternLength int
}

func (f *cleaningFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&f.threshold, "threshold", 0, "Fraction of pages a line must recur on, in (0,1] (overrides cleaning.threshold)")
	flags.IntVar(&f.headerWindow, "header-window", 0, "Lines scanned from the top of each page")
	flags.IntVar(&f.footerWindow, "footer-window", 0, "Lines scanned from the bottom of each page")
	flags.IntVar(&f.workers, "workers", 0, "Concurrent page workers (0 = one per CPU)")
	flags.IntVar(&f.minPatternLength, "min-pattern-length", 0, "Ignore accepted patterns shorter than this many characters")
}

// apply returns a copy of cfg with every explicitly set flag applied.
func (f *cleaningFlags) apply(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	local := *cfg
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		local.Cleaning.Threshold = f.threshold
	}
	if flags.Changed("header-window") {
		local.Cleaning.HeaderWindow = f.headerWindow
	}
	if flags.Changed("footer-window") {
		local.Cleaning.FooterWindow = f.footerWindow
	}
	if flags.Changed("workers") {
		local.Cleaning.Workers = f.workers
		if local.Cleaning.Workers <= 0 {
			local.Cleaning.Workers = runtime.NumCPU()
		}
	}
	if flags.Changed("min-pattern-length") {
		local.Cleaning.MinPatternLength = max(f.minPatternLength, 0)
	}
	if err := local.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return &local, nil
}

func expandArg(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return expanded, nil
}
