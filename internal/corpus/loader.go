package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultGlob        = "page*.txt"
	DefaultPagePattern = `page_?(\d+)`
	DefaultFallback    = "latin-1"
)

// Options controls which files are loaded and how they are decoded.
type Options struct {
	// Glob selects candidate files by name within the input directory.
	Glob string
	// PagePattern is matched against the filename stem; its first capture
	// group must be the decimal page number.
	PagePattern string
	// Fallback names the single-byte encoding tried when UTF-8 fails.
	Fallback string
	// Workers bounds concurrent file reads. Values below 1 mean serial.
	Workers int
}

// DefaultOptions returns the stock page naming convention.
func DefaultOptions() Options {
	return Options{
		Glob:        DefaultGlob,
		PagePattern: DefaultPagePattern,
		Fallback:    DefaultFallback,
		Workers:     1,
	}
}

// CompilePagePattern validates a page-number pattern.
func CompilePagePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile page pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("page pattern %q must contain a capture group for the page number", pattern)
	}
	return re, nil
}

// Page is one loaded input file.
type Page struct {
	Number   int
	Text     string
	Source   string
	Encoding string
}

// Corpus holds loaded pages in ascending page order plus the files that were
// left out.
type Corpus struct {
	Dir     string
	Pages   []Page
	Skips   []Skip
	Matched int
}

// Texts returns page texts in page order.
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.Pages))
	for i, p := range c.Pages {
		texts[i] = p.Text
	}
	return texts
}

// Numbers returns page numbers in ascending order.
func (c *Corpus) Numbers() []int {
	numbers := make([]int, len(c.Pages))
	for i, p := range c.Pages {
		numbers[i] = p.Number
	}
	return numbers
}

// Load reads every page file in dir. Per-file failures become Skips; the
// call fails only when nothing matches (ErrInputNotFound) or nothing loads
// (ErrNoUsablePages).
func Load(ctx context.Context, dir string, opts Options) (*Corpus, error) {
	if strings.TrimSpace(opts.Glob) == "" {
		opts.Glob = DefaultGlob
	}
	if strings.TrimSpace(opts.PagePattern) == "" {
		opts.PagePattern = DefaultPagePattern
	}
	re, err := CompilePagePattern(opts.PagePattern)
	if err != nil {
		return nil, err
	}
	if _, err := filepath.Match(opts.Glob, ""); err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", opts.Glob, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(opts.Glob, entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s has no files matching %q", ErrInputNotFound, dir, opts.Glob)
	}
	slices.Sort(names)

	out := &Corpus{Dir: dir, Matched: len(names)}

	type pending struct {
		number int
		path   string
	}
	var queue []pending
	seen := make(map[int]string, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		number, ok := pageNumber(re, name)
		if !ok {
			out.Skips = append(out.Skips, Skip{Path: path, Page: -1, Err: ErrPageNumberParse})
			continue
		}
		if first, dup := seen[number]; dup {
			out.Skips = append(out.Skips, Skip{
				Path: path,
				Page: number,
				Err:  fmt.Errorf("%w: already loaded from %s", ErrDuplicatePage, filepath.Base(first)),
			})
			continue
		}
		seen[number] = path
		queue = append(queue, pending{number: number, path: path})
	}

	type loaded struct {
		page Page
		skip *Skip
	}
	results := make([]loaded, len(queue))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, item := range queue {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := readPage(item.path, item.number, opts.Fallback)
			if err != nil {
				results[i] = loaded{skip: &Skip{Path: item.path, Page: item.number, Err: err}}
				return nil
			}
			results[i] = loaded{page: page}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.skip != nil {
			out.Skips = append(out.Skips, *r.skip)
			continue
		}
		out.Pages = append(out.Pages, r.page)
	}
	slices.SortFunc(out.Pages, func(a, b Page) int { return a.Number - b.Number })

	if len(out.Pages) == 0 {
		return out, fmt.Errorf("%w: %d file(s) matched in %s, none loaded", ErrNoUsablePages, out.Matched, dir)
	}
	return out, nil
}

func pageNumber(re *regexp.Regexp, name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	match := re.FindStringSubmatch(stem)
	if len(match) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func readPage(path string, number int, fallback string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrPageRead, err)
	}
	text, enc, err := Decode(data, fallback)
	if err != nil {
		return Page{}, err
	}
	return Page{Number: number, Text: text, Source: path, Encoding: enc}, nil
}

// IsFatal reports whether err aborts a run rather than skipping a page.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputNotFound) || errors.Is(err, ErrNoUsablePages)
}
