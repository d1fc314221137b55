package cleaner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/cleaner"
	"boilerstrip/internal/corpus"
	"boilerstrip/internal/logging"
	"boilerstrip/internal/testsupport"
)

func bookOptions(t *testing.T, pages int, opts ...testsupport.ConfigOption) cleaner.Options {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	input := testsupport.WritePages(t, filepath.Join(testsupport.BaseDir(cfg), "book"), testsupport.BookPages(pages))
	runOpts, err := cleaner.OptionsFromConfig(cfg, input)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	return runOpts
}

func TestRunCleansBookEndToEnd(t *testing.T) {
	opts := bookOptions(t, 10)

	res, err := cleaner.Run(context.Background(), opts, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected generated run id")
	}
	if opts.OutputDir != opts.InputDir+"_cleaned" {
		t.Fatalf("unexpected default output dir %q", opts.OutputDir)
	}
	if got := res.Patterns.Header.Texts(0); len(got) != 1 || got[0] != "TITLE HEADER" {
		t.Fatalf("header patterns = %v", res.Patterns.Header)
	}
	if got := res.Patterns.Footer.Texts(0); len(got) != 1 || got[0] != "FOOTER TEXT" {
		t.Fatalf("footer patterns = %v", res.Patterns.Footer)
	}

	var combined strings.Builder
	for n := 1; n <= 10; n++ {
		path := filepath.Join(opts.OutputDir, "page_"+strconv.Itoa(n)+"_cleaned.txt")
		got := testsupport.ReadFile(t, path)
		if want := testsupport.BookCleaned(n); got != want {
			t.Fatalf("page %d:\n got %q\nwant %q", n, got, want)
		}
		combined.WriteString(got)
	}
	if got := testsupport.ReadFile(t, filepath.Join(opts.OutputDir, "all_cleaned.txt")); got != combined.String() {
		t.Fatal("combined output is not the concatenation of cleaned pages")
	}
	if res.LinesStripped() != 20 {
		t.Fatalf("LinesStripped = %d, want 20", res.LinesStripped())
	}
	if len(res.Reports) != 1 || filepath.Base(res.Reports[0]) != cleaner.ReportMarkdown {
		t.Fatalf("reports = %v", res.Reports)
	}
	if md := testsupport.ReadFile(t, res.Reports[0]); !strings.Contains(md, "TITLE HEADER") {
		t.Fatalf("report missing pattern:\n%s", md)
	}
	for i, p := range res.Pages {
		if p.Number != i+1 {
			t.Fatalf("pages out of order: %+v", res.Pages)
		}
		if p.SHA256 == "" || p.Output == "" {
			t.Fatalf("page %d missing output metadata: %+v", p.Number, p)
		}
	}
	if res.HasFailures() || res.FailureErr() != nil {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	if res.FinishedAt.Before(res.StartedAt) {
		t.Fatal("finish time precedes start time")
	}
}

func TestOnPatternsRunsBeforeAnyWrite(t *testing.T) {
	opts := bookOptions(t, 5)
	called := false
	opts.OnPatterns = func(p boilerplate.Patterns) error {
		called = true
		matches, _ := filepath.Glob(filepath.Join(opts.OutputDir, "page_*"))
		if len(matches) != 0 {
			t.Errorf("pages written before pattern hook: %v", matches)
		}
		if p.Header.Count() == 0 {
			t.Error("hook received empty patterns")
		}
		return nil
	}
	if _, err := cleaner.Run(context.Background(), opts, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Fatal("OnPatterns not called")
	}
}

func TestOnPatternsErrorAbortsBeforeWriting(t *testing.T) {
	opts := bookOptions(t, 5)
	stop := errors.New("operator declined")
	opts.OnPatterns = func(boilerplate.Patterns) error { return stop }

	_, err := cleaner.Run(context.Background(), opts, nil)
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want hook error", err)
	}
	if matches, _ := filepath.Glob(filepath.Join(opts.OutputDir, "*.txt")); len(matches) != 0 {
		t.Fatalf("unexpected output: %v", matches)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	opts := bookOptions(t, 10)
	opts.DryRun = true

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(opts.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("dry run created output dir: %v", err)
	}
	if len(res.Pages) != 10 {
		t.Fatalf("expected plans for 10 pages, got %d", len(res.Pages))
	}
	for _, p := range res.Pages {
		if p.Plan != (boilerplate.Plan{StripStart: 1, StripEnd: 1}) {
			t.Fatalf("page %d plan = %+v", p.Number, p.Plan)
		}
		if p.Output != "" {
			t.Fatalf("dry run page has output %q", p.Output)
		}
	}
}

func TestRunWithoutCombinedOrReport(t *testing.T) {
	opts := bookOptions(t, 4)
	opts.WriteCombined = false
	opts.WriteReport = false

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Combined != "" || len(res.Reports) != 0 {
		t.Fatalf("unexpected extra outputs: %q %v", res.Combined, res.Reports)
	}
	for _, name := range []string{"all_cleaned.txt", cleaner.ReportMarkdown} {
		if _, err := os.Stat(filepath.Join(opts.OutputDir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should not exist", name)
		}
	}
}

func TestRunWritesHTMLReport(t *testing.T) {
	opts := bookOptions(t, 4)
	opts.ReportHTML = true

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Reports) != 2 {
		t.Fatalf("reports = %v", res.Reports)
	}
	html := testsupport.ReadFile(t, filepath.Join(opts.OutputDir, cleaner.ReportHTML))
	if !strings.Contains(html, "<table>") {
		t.Fatalf("html report missing table:\n%s", html)
	}
}

func TestRunFailsWhenOutputLocked(t *testing.T) {
	opts := bookOptions(t, 3)
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(opts.OutputDir, cleaner.LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = cleaner.Run(context.Background(), opts, nil)
	if !errors.Is(err, cleaner.ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
}

func TestPageWriteFailureIsNotFatal(t *testing.T) {
	opts := bookOptions(t, 10)
	blocker := filepath.Join(opts.OutputDir, "page_2_cleaned.txt")
	if err := os.MkdirAll(filepath.Join(blocker, "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Page != 2 {
		t.Fatalf("failures = %+v", res.Failures)
	}
	if !errors.Is(res.Failures[0], cleaner.ErrOutputWrite) || !errors.Is(res.FailureErr(), cleaner.ErrOutputWrite) {
		t.Fatalf("failure does not wrap ErrOutputWrite: %v", res.Failures[0])
	}
	if got := testsupport.ReadFile(t, filepath.Join(opts.OutputDir, "page_3_cleaned.txt")); got != testsupport.BookCleaned(3) {
		t.Fatalf("page 3 = %q", got)
	}
	combined := testsupport.ReadFile(t, filepath.Join(opts.OutputDir, "all_cleaned.txt"))
	if !strings.Contains(combined, testsupport.BookCleaned(2)) {
		t.Fatal("combined output should still include the page whose write failed")
	}

	rec := res.History()
	if rec.WriteFailures != 1 || rec.PagesCleaned != 9 || rec.PagesTotal != 10 {
		t.Fatalf("history record = %+v", rec)
	}
	rep := res.Report()
	if rep.Totals().Failed != 1 {
		t.Fatalf("report totals = %+v", rep.Totals())
	}
}

func TestRunRecordsSkips(t *testing.T) {
	opts := bookOptions(t, 10)
	if err := os.WriteFile(filepath.Join(opts.InputDir, "pageX.txt"), []byte("stray"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Skips) != 1 || !errors.Is(res.Skips[0], corpus.ErrPageNumberParse) {
		t.Fatalf("skips = %v", res.Skips)
	}
	if res.Matched != 11 || len(res.Pages) != 10 {
		t.Fatalf("matched=%d pages=%d", res.Matched, len(res.Pages))
	}
}

func TestRunNoUsablePages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := filepath.Join(testsupport.BaseDir(cfg), "bad")
	if err := os.MkdirAll(input, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(input, "pageA.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := cleaner.OptionsFromConfig(cfg, input)
	if err != nil {
		t.Fatal(err)
	}

	res, err := cleaner.Run(context.Background(), opts, nil)
	if !errors.Is(err, corpus.ErrNoUsablePages) {
		t.Fatalf("err = %v, want ErrNoUsablePages", err)
	}
	if res == nil || len(res.Skips) != 1 {
		t.Fatalf("expected skips in partial result, got %+v", res)
	}
}

func TestRunWithoutCommonLinesLeavesPagesIntact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	pages := []string{"alpha\nbeta", "gamma\ndelta", "epsilon\nzeta"}
	input := testsupport.WritePages(t, filepath.Join(testsupport.BaseDir(cfg), "plain"), pages)
	opts, err := cleaner.OptionsFromConfig(cfg, input)
	if err != nil {
		t.Fatal(err)
	}

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Patterns.Empty() {
		t.Fatalf("expected no patterns, got %+v", res.Patterns)
	}
	for i, want := range pages {
		got := testsupport.ReadFile(t, filepath.Join(opts.OutputDir, "page_"+strconv.Itoa(i+1)+"_cleaned.txt"))
		if got != want {
			t.Fatalf("page %d changed: %q", i+1, got)
		}
	}
}

func TestRunUsesProvidedRunIDAndTemplate(t *testing.T) {
	opts := bookOptions(t, 3)
	opts.RunID = "fixed-run"
	opts.PageTemplate = "clean-%03d.txt"

	res, err := cleaner.Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID != "fixed-run" {
		t.Fatalf("RunID = %q", res.RunID)
	}
	if _, err := os.Stat(filepath.Join(opts.OutputDir, "clean-002.txt")); err != nil {
		t.Fatalf("templated output missing: %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	opts := bookOptions(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cleaner.Run(ctx, opts, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunRejectsInvalidThreshold(t *testing.T) {
	opts := bookOptions(t, 3)
	opts.Threshold = 0
	if _, err := cleaner.Run(context.Background(), opts, nil); !errors.Is(err, boilerplate.ErrInvalidThreshold) {
		t.Fatalf("err = %v, want ErrInvalidThreshold", err)
	}
}
