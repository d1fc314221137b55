package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"boilerstrip/internal/boilerplate"
	"boilerstrip/internal/history"
	"boilerstrip/internal/testsupport"
)

func sampleRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:             id,
		InputDir:       "/data/book",
		OutputDir:      "/data/book_cleaned",
		StartedAt:      started,
		FinishedAt:     started.Add(1500 * time.Millisecond),
		Threshold:      0.7,
		HeaderWindow:   5,
		FooterWindow:   5,
		MinOccurrences: 7,
		PagesTotal:     10,
		PagesCleaned:   9,
		PagesSkipped:   1,
		WriteFailures:  1,
		LinesStripped:  18,
		Patterns: []history.Pattern{
			{Side: "footer", Position: 0, Text: "FOOTER TEXT"},
			{Side: "header", Position: 0, Text: "TITLE HEADER"},
		},
		Pages: []history.PageOutcome{
			{Page: 2, StripStart: 1, StripEnd: 1, OutputPath: "/data/book_cleaned/page_2_cleaned.txt", SHA256: "bb"},
			{Page: 1, StripStart: 1, StripEnd: 1, OutputPath: "/data/book_cleaned/page_1_cleaned.txt", SHA256: "aa"},
			{Page: 3, StripStart: 1, StripEnd: 0, Error: "permission denied"},
		},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	if err := store.RecordRun(ctx, sampleRun("6f1c2d3e-0000-4000-8000-000000000001", started)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	run, err := store.GetRun(ctx, "6f1c2d3e-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.PagesTotal != 10 || run.LinesStripped != 18 || run.Threshold != 0.7 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if !run.StartedAt.Equal(started) || run.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected timing: %v %v", run.StartedAt, run.Duration())
	}
	if len(run.Patterns) != 2 || run.Patterns[0].Side != "header" {
		t.Fatalf("expected header patterns first, got %+v", run.Patterns)
	}
	if len(run.Pages) != 3 || run.Pages[0].Page != 1 || run.Pages[0].SHA256 != "aa" {
		t.Fatalf("expected pages ordered by number, got %+v", run.Pages)
	}
	if run.Pages[2].Error != "permission denied" || run.Pages[2].OutputPath != "" {
		t.Fatalf("unexpected failed page: %+v", run.Pages[2])
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"abc11111-run", "abc22222-run"} {
		if err := store.RecordRun(ctx, sampleRun(id, now)); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	run, err := store.GetRun(ctx, "abc2")
	if err != nil {
		t.Fatalf("GetRun prefix: %v", err)
	}
	if run.ID != "abc22222-run" {
		t.Fatalf("got %s", run.ID)
	}
	if _, err := store.GetRun(ctx, "abc"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	if _, err := store.GetRun(ctx, "zzz"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.RecordRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("RecordRun %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[0].Patterns != nil {
		t.Fatal("ListRuns should not load patterns")
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run := sampleRun("dup", time.Now())
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.RecordRun(ctx, run); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	if err := store.RecordRun(ctx, history.Run{}); err == nil {
		t.Fatal("expected empty run id to fail")
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 4 {
		id := string(rune('a'+i)) + "-run"
		if err := store.RecordRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}
	removed, err := store.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	patterns, err := store.RunPatterns(ctx, "a-run")
	if err != nil {
		t.Fatalf("RunPatterns: %v", err)
	}
	if len(patterns) != 0 {
		t.Fatalf("expected cascade delete of patterns, got %+v", patterns)
	}
	if _, err := store.GetRun(ctx, "d-run"); err != nil {
		t.Fatalf("newest run missing: %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestPatternsFromOrdersHeaderThenFooter(t *testing.T) {
	p := boilerplate.Patterns{
		Header: boilerplate.PatternTable{1: {"B", "A"}, 0: {"Title"}},
		Footer: boilerplate.PatternTable{0: {"Footer"}},
	}
	got := history.PatternsFrom(p)
	want := []history.Pattern{
		{Side: "header", Position: 0, Text: "Title"},
		{Side: "header", Position: 1, Text: "B"},
		{Side: "header", Position: 1, Text: "A"},
		{Side: "footer", Position: 0, Text: "Footer"},
	}
	if len(got) != len(want) {
		t.Fatalf("PatternsFrom = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PatternsFrom[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
