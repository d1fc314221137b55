package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WritePages writes pages[i] to dir/page<i+1>.txt and returns dir. The
// directory is created when missing.
func WritePages(t testing.TB, dir string, pages []string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for i, text := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page%d.txt", i+1))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

// BookPages builds n pages sharing a running title and footer, each with a
// page number line and body lines unique to the page.
func BookPages(n int) []string {
	pages := make([]string, n)
	for i := range pages {
		lines := []string{"TITLE HEADER"}
		for j := 1; j <= 8; j++ {
			lines = append(lines, fmt.Sprintf("Body line %d of page %d", j, i+1))
		}
		lines = append(lines, fmt.Sprintf("Page %d", i+1), "FOOTER TEXT")
		pages[i] = strings.Join(lines, "\n")
	}
	return pages
}

// BookBody returns the body lines BookPages produced for page (1-based).
func BookBody(page int) string {
	lines := make([]string, 0, 8)
	for j := 1; j <= 8; j++ {
		lines = append(lines, fmt.Sprintf("Body line %d of page %d", j, page))
	}
	return strings.Join(lines, "\n")
}

// ReadFile returns the contents of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// BookCleaned is the expected cleaned text of a BookPages page: the running
// title and footer removed, the varying page number line kept.
func BookCleaned(page int) string {
	return BookBody(page) + fmt.Sprintf("\nPage %d", page)
}
