// Package logging assembles the structured slog loggers used by boilerstrip.
//
// It owns the console and JSON handlers, level parsing, the per-run JSON log
// file written under the configured log directory, and retention of old run
// logs. Context helpers tag log lines with the run identifier so console
// output, run logs, and history rows can be correlated.
package logging
