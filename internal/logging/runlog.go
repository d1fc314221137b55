package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunLogPattern matches the file names produced by OpenRunLog.
const RunLogPattern = "run-*.log"

// RunLog is a JSON log file capturing every record of a single run at debug
// level, independent of the console level.
type RunLog struct {
	Path    string
	file    *os.File
	handler slog.Handler
}

// OpenRunLog creates dir/run-<timestamp>-<id>.log.
func OpenRunLog(dir, runID string, now time.Time) (*RunLog, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("open run log: empty log directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("run-%s-%s.log", now.UTC().Format("20060102T150405Z"), short)
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	return &RunLog{
		Path:    path,
		file:    file,
		handler: newJSONHandler(file, slog.LevelDebug, false),
	}, nil
}

// Handler returns the JSON handler writing to the run log.
func (r *RunLog) Handler() slog.Handler {
	if r == nil {
		return nil
	}
	return r.handler
}

// Attach returns base duplicated into the run log.
func (r *RunLog) Attach(base *slog.Logger) *slog.Logger {
	if r == nil {
		return base
	}
	return TeeLogger(base, r.handler)
}

// Close flushes and closes the file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	if err := r.file.Sync(); err != nil {
		r.file.Close()
		return fmt.Errorf("sync run log: %w", err)
	}
	return r.file.Close()
}
