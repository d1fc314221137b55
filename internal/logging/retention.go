package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneRunLogs deletes run logs in dir whose modification time is older than
// maxAge, never touching keep (normally the log of the current run). A
// non-positive maxAge disables pruning. Removal failures are logged and
// counted out; only an unreadable directory is returned as an error.
func PruneRunLogs(logger *slog.Logger, dir string, maxAge time.Duration, keep string) (int, error) {
	if maxAge <= 0 || dir == "" {
		return 0, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, RunLogPattern))
	if err != nil {
		return 0, fmt.Errorf("list run logs: %w", err)
	}
	if keep != "" {
		keep = filepath.Clean(keep)
	}
	cutoff := time.Now().Add(-maxAge)

	removed := 0
	for _, path := range matches {
		if path == keep {
			continue
		}
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "run log prune failed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check ownership of paths.log_dir"),
				String(FieldImpact, "expired run log stays on disk"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Debug("expired run logs pruned", Int("count", removed), String(FieldEventType, "log_pruned"))
	}
	return removed, nil
}

// RetentionAge converts logging.retention_days into a prune age.
func RetentionAge(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
