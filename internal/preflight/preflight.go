package preflight

import (
	"path/filepath"

	"boilerstrip/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Fatal marks checks whose failure must abort a run.
	Fatal bool
}

// RunAll executes the checks relevant to cleaning inputDir into outputDir.
// Log and history directories are only checked when the features that use
// them are enabled.
func RunAll(cfg *config.Config, inputDir, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckInputDir(inputDir),
		CheckPageFiles(inputDir, cfg.Input.Glob),
		CheckOutputDir(outputDir),
	}

	if cfg.Logging.RunLogs && cfg.Paths.LogDir != "" {
		results = append(results, CheckOutputDirNamed("Log directory", cfg.Paths.LogDir))
	}
	if cfg.History.Enabled && cfg.Paths.HistoryDB != "" {
		results = append(results, CheckOutputDirNamed("History directory", filepath.Dir(cfg.Paths.HistoryDB)))
	}

	return results
}

// FirstFatal returns the first failed check marked fatal.
func FirstFatal(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed && r.Fatal {
			return r, true
		}
	}
	return Result{}, false
}
