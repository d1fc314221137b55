package testsupport

import (
	"path/filepath"
	"testing"

	"boilerstrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Workers are pinned to 2 so tests exercise the concurrent paths
// deterministically regardless of the host CPU count.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Cleaning.Workers = 2
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithThreshold overrides cleaning.threshold.
func WithThreshold(threshold float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleaning.Threshold = threshold
	}
}

// WithWindows overrides the header and footer windows.
func WithWindows(header, footer int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleaning.HeaderWindow = header
		b.cfg.Cleaning.FooterWindow = footer
	}
}

// WithOutputDir places cleaned output under the test's base directory.
func WithOutputDir(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Dir = filepath.Join(b.baseDir, name)
	}
}

// WithoutHistory disables the history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
