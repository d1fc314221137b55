package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"boilerstrip/internal/config"
)

func TestCheckInputDir_OK(t *testing.T) {
	result := CheckInputDir(t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckInputDir_NotExist(t *testing.T) {
	result := CheckInputDir(filepath.Join(t.TempDir(), "nope"))
	if result.Passed || !result.Fatal {
		t.Fatalf("expected fatal failure for missing dir, got %+v", result)
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckInputDir_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckInputDir(f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckPageFiles(t *testing.T) {
	dir := t.TempDir()
	if result := CheckPageFiles(dir, "page*.txt"); result.Passed {
		t.Fatal("expected failure for empty dir")
	}
	for _, name := range []string{"page1.txt", "page2.txt", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "page3.txt"), 0o755); err != nil {
		t.Fatal(err)
	}
	result := CheckPageFiles(dir, "page*.txt")
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if !strings.HasPrefix(result.Detail, "2 file(s)") {
		t.Fatalf("expected directories to be ignored, got %s", result.Detail)
	}
}

func TestCheckOutputDir_ExistingAndMissing(t *testing.T) {
	dir := t.TempDir()
	if result := CheckOutputDir(dir); !result.Passed {
		t.Fatalf("expected pass for existing dir, got %s", result.Detail)
	}
	missing := filepath.Join(dir, "a", "b")
	result := CheckOutputDir(missing)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable result, got %+v", result)
	}
	if result.Fatal {
		t.Fatal("output checks are not fatal")
	}
}

func TestCheckOutputDir_File(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckOutputDir(f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil, "in", "out"); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "page1.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Logging.RunLogs = false
	cfg.History.Enabled = false

	results := RunAll(&cfg, in, in+"_cleaned")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if _, ok := FirstFatal(results); ok {
		t.Fatal("expected no fatal failure")
	}
}

func TestRunAll_IncludesHistoryAndLogs(t *testing.T) {
	in := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Paths.HistoryDB = filepath.Join(t.TempDir(), "db", "history.db")

	results := RunAll(&cfg, in, in+"_cleaned")
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	if !names["Log directory"] || !names["History directory"] {
		t.Fatalf("expected log and history checks, got %v", names)
	}
	fatal, ok := FirstFatal(results)
	if !ok || fatal.Name != "Page files" {
		t.Fatalf("expected page files fatal failure, got %+v", fatal)
	}
}
