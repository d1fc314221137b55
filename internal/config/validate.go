package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/corpus"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCleaning(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCleaning() error {
	if err := boilerplate.ValidateThreshold(c.Cleaning.Threshold); err != nil {
		return fmt.Errorf("cleaning.threshold %v: %w", c.Cleaning.Threshold, err)
	}
	if c.Cleaning.HeaderWindow < 0 {
		return errors.New("cleaning.header_window must be >= 0")
	}
	if c.Cleaning.FooterWindow < 0 {
		return errors.New("cleaning.footer_window must be >= 0")
	}
	if c.Cleaning.HeaderWindow == 0 && c.Cleaning.FooterWindow == 0 {
		return errors.New("cleaning.header_window and cleaning.footer_window cannot both be 0")
	}
	if c.Cleaning.Workers <= 0 {
		return errors.New("cleaning.workers must be positive")
	}
	return nil
}

func (c *Config) validateInput() error {
	if _, err := filepath.Match(c.Input.Glob, ""); err != nil {
		return fmt.Errorf("input.glob %q: %w", c.Input.Glob, err)
	}
	if _, err := corpus.CompilePagePattern(c.Input.PagePattern); err != nil {
		return fmt.Errorf("input.page_pattern: %w", err)
	}
	if corpus.NormalizeEncoding(c.Input.FallbackEncoding) == "" {
		return fmt.Errorf("input.fallback_encoding %q is not supported (use latin-1, windows-1252, iso-8859-15, or none)", c.Input.FallbackEncoding)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.Count(c.Output.PageTemplate, "%d") != 1 || strings.Count(c.Output.PageTemplate, "%") != 1 {
		return fmt.Errorf("output.page_template %q must contain exactly one %%d verb", c.Output.PageTemplate)
	}
	for key, name := range map[string]string{
		"output.page_template": c.Output.PageTemplate,
		"output.combined_name": c.Output.CombinedName,
	} {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s %q must be a file name, not a path", key, name)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.KeepRuns < 0 {
		return errors.New("history.keep_runs must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
