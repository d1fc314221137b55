package cleaner

import (
	"errors"
	"time"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/corpus"
	"boilerstrip/internal/history"
	"boilerstrip/internal/report"
)

// PageResult is the outcome for one loaded page.
type PageResult struct {
	Number   int
	Source   string
	Encoding string
	Plan     boilerplate.Plan
	LinesIn  int
	LinesOut int
	// Output is the written file; empty on dry runs and failed writes.
	Output string
	SHA256 string
}

// Result describes a finished run.
type Result struct {
	RunID      string
	InputDir   string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	Windows  boilerplate.Windows
	Patterns boilerplate.Patterns

	Matched  int
	Pages    []PageResult
	Skips    []corpus.Skip
	Failures []WriteFailure

	Combined string
	Reports  []string
}

// Duration reports the wall time of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// LinesStripped totals removed lines across pages.
func (r *Result) LinesStripped() int {
	total := 0
	for _, p := range r.Pages {
		total += p.LinesIn - p.LinesOut
	}
	return total
}

func (r *Result) pageFailure(number int) *WriteFailure {
	for i := range r.Failures {
		if r.Failures[i].Page == number {
			return &r.Failures[i]
		}
	}
	return nil
}

// Report converts the result into the report renderer's model.
func (r *Result) Report() report.Run {
	run := report.Run{
		ID:        r.RunID,
		InputDir:  r.InputDir,
		OutputDir: r.OutputDir,
		StartedAt: r.StartedAt,
		Duration:  r.Duration(),
		DryRun:    r.DryRun,
		Windows:   r.Windows,
		Patterns:  r.Patterns,
		Combined:  r.Combined,
	}
	for _, p := range r.Pages {
		page := report.Page{
			Number:     p.Number,
			StripStart: p.Plan.StripStart,
			StripEnd:   p.Plan.StripEnd,
			LinesIn:    p.LinesIn,
			LinesOut:   p.LinesOut,
			Output:     p.Output,
		}
		if f := r.pageFailure(p.Number); f != nil {
			page.Error = f.Err.Error()
		}
		run.Pages = append(run.Pages, page)
	}
	for _, s := range r.Skips {
		detail := ""
		if s.Err != nil {
			detail = s.Err.Error()
		}
		run.Skips = append(run.Skips, report.Skip{Path: s.Path, Page: s.Page, Reason: s.Reason(), Detail: detail})
	}
	return run
}

// History converts the result into a history record.
func (r *Result) History() history.Run {
	run := history.Run{
		ID:             r.RunID,
		InputDir:       r.InputDir,
		OutputDir:      r.OutputDir,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Threshold:      r.Patterns.Threshold,
		HeaderWindow:   r.Windows.Header,
		FooterWindow:   r.Windows.Footer,
		MinOccurrences: r.Patterns.MinOccurrences,
		PagesTotal:     len(r.Pages),
		PagesSkipped:   len(r.Skips),
		LinesStripped:  r.LinesStripped(),
		Patterns:       history.PatternsFrom(r.Patterns),
	}
	for _, f := range r.Failures {
		if f.Page >= 0 {
			run.WriteFailures++
		}
	}
	for _, p := range r.Pages {
		outcome := history.PageOutcome{
			Page:       p.Number,
			StripStart: p.Plan.StripStart,
			StripEnd:   p.Plan.StripEnd,
			OutputPath: p.Output,
			SHA256:     p.SHA256,
		}
		if f := r.pageFailure(p.Number); f != nil {
			outcome.Error = f.Err.Error()
		} else {
			run.PagesCleaned++
		}
		run.Pages = append(run.Pages, outcome)
	}
	return run
}

// HasFailures reports whether any output could not be written.
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// FailureErr joins every write failure, or returns nil.
func (r *Result) FailureErr() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
