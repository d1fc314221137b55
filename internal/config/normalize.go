package config

import (
	"fmt"
	"runtime"
	"strings"

	"boilerstrip/internal/corpus"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCleaning()
	c.normalizeInput()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if strings.TrimSpace(c.Output.Dir) != "" {
		if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
			return fmt.Errorf("output.dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCleaning() {
	if c.Cleaning.Workers <= 0 {
		c.Cleaning.Workers = runtime.NumCPU()
	}
	if c.Cleaning.MinPatternLength < 0 {
		c.Cleaning.MinPatternLength = 0
	}
}

func (c *Config) normalizeInput() {
	c.Input.Glob = strings.TrimSpace(c.Input.Glob)
	if c.Input.Glob == "" {
		c.Input.Glob = defaultGlob
	}
	if strings.TrimSpace(c.Input.PagePattern) == "" {
		c.Input.PagePattern = defaultPagePattern
	}
	if normalized := corpus.NormalizeEncoding(c.Input.FallbackEncoding); normalized != "" {
		c.Input.FallbackEncoding = normalized
	}
}

func (c *Config) normalizeOutput() {
	c.Output.PageTemplate = strings.TrimSpace(c.Output.PageTemplate)
	if c.Output.PageTemplate == "" {
		c.Output.PageTemplate = defaultPageTemplate
	}
	c.Output.CombinedName = strings.TrimSpace(c.Output.CombinedName)
	if c.Output.CombinedName == "" {
		c.Output.CombinedName = defaultCombinedName
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
