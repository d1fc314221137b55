package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}

// OutputDirFor returns output.dir, or inputDir with a "_cleaned" suffix
// when none is configured.
func (c *Config) OutputDirFor(inputDir string) (string, error) {
	if dir := strings.TrimSpace(c.Output.Dir); dir != "" {
		return expandPath(dir)
	}
	in, err := expandPath(inputDir)
	if err != nil {
		return "", err
	}
	return in + defaultOutputSuffix, nil
}

// EnsureDirectories creates paths.log_dir and, with history enabled, the
// directory holding the history database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.History.Enabled && c.Paths.HistoryDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}
