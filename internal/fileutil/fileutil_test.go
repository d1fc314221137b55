package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "page_1_cleaned.txt")

	w, err := WriteFileAtomic(dst, []byte("hello world"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if w.Bytes != 11 || w.Path != dst {
		t.Fatalf("unexpected result: %+v", w)
	}
	sum, err := FileSHA256(dst)
	if err != nil {
		t.Fatal(err)
	}
	if sum != w.SHA256 {
		t.Fatalf("checksum mismatch: %s vs %s", sum, w.SHA256)
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(dst, []byte("old content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteFileAtomic(dst, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteFileAtomicEmptyData(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "empty.txt")
	w, err := WriteFileAtomic(dst, nil, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 || w.Bytes != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestWriteFileAtomicMissingDirLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "missing", "out.txt")
	if _, err := WriteFileAtomic(dst, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomicRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	// A directory at the destination makes the rename fail.
	dst := filepath.Join(dir, "taken")
	if err := os.Mkdir(dst, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dst, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteFileAtomic(dst, []byte("data"), 0o644); err == nil {
		t.Fatal("expected rename error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the blocking directory, found %d entries", len(entries))
	}
}

func TestFileSHA256Missing(t *testing.T) {
	if _, err := FileSHA256(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
