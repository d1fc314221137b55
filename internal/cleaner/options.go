package cleaner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/config"
	"boilerstrip/internal/corpus"
)

const (
	LockFileName   = ".boilerstrip.lock"
	ReportMarkdown = "report.md"
	ReportHTML     = "report.html"
)

// Options configures one run.
type Options struct {
	InputDir  string
	OutputDir string

	Load             corpus.Options
	Windows          boilerplate.Windows
	Threshold        float64
	MinPatternLength int
	Workers          int

	PageTemplate  string
	CombinedName  string
	WriteCombined bool
	WriteReport   bool
	ReportHTML    bool

	// DryRun stops after planning; nothing is written and no lock is taken.
	DryRun bool
	// RunID identifies the run in logs and history. Generated when empty.
	RunID string
	// OnPatterns is called once voting finishes and before any output is
	// written. Returning an error aborts the run.
	OnPatterns func(boilerplate.Patterns) error

	now func() time.Time
}

// OptionsFromConfig builds run options for inputDir from cfg.
func OptionsFromConfig(cfg *config.Config, inputDir string) (Options, error) {
	if cfg == nil {
		return Options{}, errors.New("nil config")
	}
	outputDir, err := cfg.OutputDirFor(inputDir)
	if err != nil {
		return Options{}, fmt.Errorf("resolve output directory: %w", err)
	}
	in, err := config.ExpandPath(inputDir)
	if err != nil {
		return Options{}, fmt.Errorf("resolve input directory: %w", err)
	}
	return Options{
		InputDir:  in,
		OutputDir: outputDir,
		Load: corpus.Options{
			Glob:        cfg.Input.Glob,
			PagePattern: cfg.Input.PagePattern,
			Fallback:    cfg.Input.FallbackEncoding,
			Workers:     cfg.Cleaning.Workers,
		},
		Windows: boilerplate.Windows{
			Header: cfg.Cleaning.HeaderWindow,
			Footer: cfg.Cleaning.FooterWindow,
		},
		Threshold:        cfg.Cleaning.Threshold,
		MinPatternLength: cfg.Cleaning.MinPatternLength,
		Workers:          cfg.Cleaning.Workers,
		PageTemplate:     cfg.Output.PageTemplate,
		CombinedName:     cfg.Output.CombinedName,
		WriteCombined:    cfg.Output.WriteCombined,
		WriteReport:      cfg.Output.WriteReport,
		ReportHTML:       cfg.Output.ReportHTML,
	}, nil
}

func (o *Options) validate() error {
	if strings.TrimSpace(o.InputDir) == "" {
		return errors.New("input directory is required")
	}
	if !o.DryRun && strings.TrimSpace(o.OutputDir) == "" {
		return errors.New("output directory is required")
	}
	if err := o.Windows.Validate(); err != nil {
		return err
	}
	if err := boilerplate.ValidateThreshold(o.Threshold); err != nil {
		return err
	}
	if o.PageTemplate == "" {
		o.PageTemplate = "page_%d_cleaned.txt"
	}
	if o.CombinedName == "" {
		o.CombinedName = "all_cleaned.txt"
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Load.Workers < 1 {
		o.Load.Workers = o.Workers
	}
	if o.now == nil {
		o.now = time.Now
	}
	return nil
}

func (o Options) pageFileName(number int) string {
	return fmt.Sprintf(o.PageTemplate, number)
}
