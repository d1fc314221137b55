package boilerplate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Side identifies which end of a page a candidate or pattern belongs to.
type Side int

const (
	Header Side = iota
	Footer
)

func (s Side) String() string {
	if s == Header {
		return "header"
	}
	return "footer"
}

// Candidate is a trimmed, non-empty line observed at a fixed offset from the
// top (headers) or bottom (footers) of a page.
type Candidate struct {
	Position int
	Text     string
}

// Windows bounds how many lines are scanned from each end of a page.
type Windows struct {
	Header int
	Footer int
}

// DefaultWindows matches the scanner defaults used by the CLI.
func DefaultWindows() Windows {
	return Windows{Header: 5, Footer: 5}
}

// Validate rejects negative windows.
func (w Windows) Validate() error {
	if w.Header < 0 {
		return fmt.Errorf("header %w", ErrInvalidWindow)
	}
	if w.Footer < 0 {
		return fmt.Errorf("footer %w", ErrInvalidWindow)
	}
	return nil
}

// Candidates is the corpus-wide accumulator produced by Index and consumed by
// Vote. Pages counts every indexed page, including pages without candidates.
type Candidates struct {
	Pages  int
	Header []Candidate
	Footer []Candidate
}

// SplitLines splits page text on newlines. A trailing newline produces a final
// empty line so that joining the result with "\n" reproduces the input.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// IndexPage extracts header candidates from the first min(w.Header, n) lines
// and footer candidates from the last min(w.Footer, n) lines. Blank lines keep
// their offset but are never recorded.
func IndexPage(lines []string, w Windows) (header, footer []Candidate) {
	n := len(lines)
	for pos := 0; pos < min(w.Header, n); pos++ {
		if text := strings.TrimSpace(lines[pos]); text != "" {
			header = append(header, Candidate{Position: pos, Text: text})
		}
	}
	for pos := 0; pos < min(w.Footer, n); pos++ {
		if text := strings.TrimSpace(lines[n-1-pos]); text != "" {
			footer = append(footer, Candidate{Position: pos, Text: text})
		}
	}
	return header, footer
}

// Index runs IndexPage over every page text. Pages are indexed concurrently
// when workers > 1; results are merged in input order so the accumulator is
// identical regardless of scheduling.
func Index(ctx context.Context, pages []string, w Windows, workers int) (Candidates, error) {
	if err := w.Validate(); err != nil {
		return Candidates{}, err
	}

	type pageCandidates struct {
		header []Candidate
		footer []Candidate
	}
	perPage := make([]pageCandidates, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, text := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, f := IndexPage(SplitLines(text), w)
			perPage[i] = pageCandidates{header: h, footer: f}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Candidates{}, err
	}

	out := Candidates{Pages: len(pages)}
	for _, pc := range perPage {
		out.Header = append(out.Header, pc.header...)
		out.Footer = append(out.Footer, pc.footer...)
	}
	return out, nil
}
