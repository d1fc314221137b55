package cleaner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/corpus"
	"boilerstrip/internal/fileutil"
	"boilerstrip/internal/logging"
	"boilerstrip/internal/report"
)

// Run executes the pipeline described by opts. On fatal errors the returned
// Result may still be non-nil and carries whatever was learned (for example
// the skips that left no usable pages).
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, opts.RunID)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "cleaner"))

	res := &Result{
		RunID:     opts.RunID,
		InputDir:  opts.InputDir,
		OutputDir: opts.OutputDir,
		StartedAt: opts.now(),
		DryRun:    opts.DryRun,
		Windows:   opts.Windows,
	}
	defer func() { res.FinishedAt = opts.now() }()

	if !opts.DryRun {
		unlock, err := lockOutput(opts.OutputDir)
		if err != nil {
			return res, err
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Warn("release output lock failed", logging.Error(err))
			}
		}()
	}

	c, err := corpus.Load(ctx, opts.InputDir, opts.Load)
	if c != nil {
		res.Matched = c.Matched
		res.Skips = c.Skips
		logSkips(logger, c.Skips)
	}
	if err != nil {
		return res, err
	}
	logger.Info("loaded pages",
		logging.Int("pages", len(c.Pages)),
		logging.Int("matched", c.Matched),
		logging.Int("skipped", len(c.Skips)),
	)

	texts := c.Texts()
	candidates, err := boilerplate.Index(ctx, texts, opts.Windows, opts.Workers)
	if err != nil {
		return res, err
	}
	patterns, err := boilerplate.Vote(candidates, opts.Threshold)
	if err != nil {
		return res, err
	}
	res.Patterns = patterns
	logPatterns(logger, patterns)

	if opts.OnPatterns != nil {
		if err := opts.OnPatterns(patterns); err != nil {
			return res, err
		}
	}

	resolver := &boilerplate.Resolver{Patterns: patterns, MinPatternLength: opts.MinPatternLength}
	cleaned, err := processPages(ctx, c.Pages, resolver, opts, res, logger)
	if err != nil {
		return res, err
	}

	if !opts.DryRun {
		if opts.WriteCombined {
			writeCombined(cleaned, opts, res, logger)
		}
		if opts.WriteReport {
			res.FinishedAt = opts.now()
			writeReports(opts, res, logger)
		}
	}

	logger.Info("run complete",
		logging.Int("pages", len(res.Pages)),
		logging.Int("lines_stripped", res.LinesStripped()),
		logging.Int("write_failures", len(res.Failures)),
		logging.Bool("dry_run", opts.DryRun),
	)
	return res, nil
}

func lockOutput(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return lock.Unlock, nil
}

// processPages plans every page and, unless dry-running, writes it. It
// returns the cleaned texts in page order.
func processPages(
	ctx context.Context,
	pages []corpus.Page,
	resolver *boilerplate.Resolver,
	opts Options,
	res *Result,
	logger *slog.Logger,
) ([]string, error) {
	results := make([]PageResult, len(pages))
	cleaned := make([]string, len(pages))
	failures := make([]*WriteFailure, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines := boilerplate.SplitLines(page.Text)
			plan := resolver.Plan(lines)
			kept := boilerplate.Apply(lines, plan)
			cleaned[i] = strings.Join(kept, "\n")
			results[i] = PageResult{
				Number:   page.Number,
				Source:   page.Source,
				Encoding: page.Encoding,
				Plan:     plan,
				LinesIn:  len(lines),
				LinesOut: len(kept),
			}
			logger.Debug("page plan",
				logging.Page(page.Number),
				logging.Int("strip_start", plan.StripStart),
				logging.Int("strip_end", plan.StripEnd),
			)
			if opts.DryRun {
				return nil
			}

			path := filepath.Join(opts.OutputDir, opts.pageFileName(page.Number))
			written, err := fileutil.WriteFileAtomic(path, []byte(cleaned[i]), 0o644)
			if err != nil {
				failures[i] = &WriteFailure{Page: page.Number, Path: path, Err: fmt.Errorf("%w: %w", ErrOutputWrite, err)}
				logging.WarnWithContext(logger, "cleaned page not written", "page_write_failed",
					logging.Page(page.Number),
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check free space and permissions on the output directory"),
					logging.String(logging.FieldImpact, "page missing from output directory"),
				)
				return nil
			}
			results[i].Output = written.Path
			results[i].SHA256 = written.SHA256
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Pages = results
	for _, f := range failures {
		if f != nil {
			res.Failures = append(res.Failures, *f)
		}
	}
	return cleaned, nil
}

func writeCombined(cleaned []string, opts Options, res *Result, logger *slog.Logger) {
	path := filepath.Join(opts.OutputDir, opts.CombinedName)
	if _, err := fileutil.WriteFileAtomic(path, []byte(strings.Join(cleaned, "")), 0o644); err != nil {
		res.Failures = append(res.Failures, WriteFailure{Page: -1, Path: path, Err: fmt.Errorf("%w: %w", ErrOutputWrite, err)})
		logging.WarnWithContext(logger, "combined output not written", "combined_write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "per-page output is still available"),
		)
		return
	}
	res.Combined = path
}

func writeReports(opts Options, res *Result, logger *slog.Logger) {
	type output struct {
		name   string
		render func() ([]byte, error)
	}
	outputs := []output{{
		name:   ReportMarkdown,
		render: func() ([]byte, error) { return []byte(report.Markdown(res.Report())), nil },
	}}
	if opts.ReportHTML {
		outputs = append(outputs, output{
			name:   ReportHTML,
			render: func() ([]byte, error) { return report.HTML(res.Report()) },
		})
	}

	for _, out := range outputs {
		path := filepath.Join(opts.OutputDir, out.name)
		data, err := out.render()
		if err == nil {
			_, err = fileutil.WriteFileAtomic(path, data, 0o644)
		}
		if err != nil {
			res.Failures = append(res.Failures, WriteFailure{Page: -1, Path: path, Err: fmt.Errorf("%w: %w", ErrOutputWrite, err)})
			logging.WarnWithContext(logger, "run report not written", "report_write_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "cleaned pages are unaffected"),
			)
			continue
		}
		res.Reports = append(res.Reports, path)
	}
}

func logSkips(logger *slog.Logger, skips []corpus.Skip) {
	for _, s := range skips {
		attrs := []logging.Attr{
			logging.String("path", s.Path),
			logging.String("reason", s.Reason()),
			logging.Error(s.Err),
			logging.String(logging.FieldImpact, "file left out of detection and output"),
		}
		if s.Page >= 0 {
			attrs = append(attrs, logging.Page(s.Page))
		}
		switch {
		case errors.Is(s.Err, corpus.ErrPageDecode):
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "set input.fallback_encoding to the file's encoding"))
		case errors.Is(s.Err, corpus.ErrPageNumberParse):
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "rename the file or adjust input.page_pattern"))
		}
		logging.WarnWithContext(logger, "page skipped", "page_skipped", attrs...)
	}
}

func logPatterns(logger *slog.Logger, p boilerplate.Patterns) {
	logger.Info("patterns detected",
		logging.Int("header_patterns", p.Header.Count()),
		logging.Int("footer_patterns", p.Footer.Count()),
		logging.Int("min_occurrences", p.MinOccurrences),
		logging.Float64("threshold", p.Threshold),
	)
	for _, side := range []boilerplate.Side{boilerplate.Header, boilerplate.Footer} {
		table := p.Table(side)
		for _, pos := range table.Positions() {
			for _, text := range table.Texts(pos) {
				logger.Debug("pattern accepted",
					logging.String(logging.FieldSide, side.String()),
					logging.Int(logging.FieldPosition, pos),
					logging.String("text", text),
				)
			}
		}
	}
}
