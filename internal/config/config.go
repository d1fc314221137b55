package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Cleaning contains the boilerplate detection parameters.
type Cleaning struct {
	Threshold        float64 `toml:"threshold"`
	HeaderWindow     int     `toml:"header_window"`
	FooterWindow     int     `toml:"footer_window"`
	MinPatternLength int     `toml:"min_pattern_length"`
	// Workers bounds concurrent page reads and writes. Zero means one per CPU.
	Workers int `toml:"workers"`
}

// Input describes the page file naming convention and decoding.
type Input struct {
	Glob             string `toml:"glob"`
	PagePattern      string `toml:"page_pattern"`
	FallbackEncoding string `toml:"fallback_encoding"`
}

// Output describes where and how cleaned pages are written.
type Output struct {
	Dir           string `toml:"dir"`
	PageTemplate  string `toml:"page_template"`
	CombinedName  string `toml:"combined_name"`
	WriteCombined bool   `toml:"write_combined"`
	WriteReport   bool   `toml:"write_report"`
	ReportHTML    bool   `toml:"report_html"`
}

// Paths contains directories used by the tool itself.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// History controls the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
	// KeepRuns prunes all but the newest runs after each recorded run. 0 keeps every run.
	KeepRuns int `toml:"keep_runs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RunLogs writes a JSON log per clean run into paths.log_dir.
	RunLogs bool `toml:"run_logs"`
	// RetentionDays prunes run logs older than this. 0 keeps them forever.
	RetentionDays int `toml:"retention_days"`
}

// Config encapsulates all configuration values for boilerstrip.
type Config struct {
	Cleaning Cleaning `toml:"cleaning"`
	Input    Input    `toml:"input"`
	Output   Output   `toml:"output"`
	Paths    Paths    `toml:"paths"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// Load reads the configuration at path, or the first existing default
// location when path is empty, on top of Default and the BOILERSTRIP_THRESHOLD
// environment fallback. It returns the resolved path and whether a file was
// found; a missing file is not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := cfg.decodeFile(resolved); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) decodeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	dec := toml.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv lets BOILERSTRIP_THRESHOLD stand in for cleaning.threshold. A
// value in the file still wins.
func (c *Config) applyEnv() error {
	raw := strings.TrimSpace(os.Getenv("BOILERSTRIP_THRESHOLD"))
	if raw == "" {
		return nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("BOILERSTRIP_THRESHOLD: %w", err)
	}
	c.Cleaning.Threshold = threshold
	return nil
}

// locate resolves an explicit path as-is. Without one it tries the user
// config file, then ./boilerstrip.toml, and reports the user path when
// neither exists.
func locate(path string) (string, bool, error) {
	var candidates []string
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		candidates = []string{expanded}
	} else {
		user, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		local, err := filepath.Abs(projectConfigName)
		if err != nil {
			return "", false, err
		}
		candidates = []string{user, local}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, true, nil
		case err == nil:
			return "", false, fmt.Errorf("config path %s is a directory", candidate)
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return candidates[0], false, nil
}
