package main

import (
	"boilerstrip/internal/cleaner"
)

type jsonPattern struct {
	Position int      `json:"position"`
	Texts    []string `json:"texts"`
}

type jsonPatterns struct {
	Threshold      float64       `json:"threshold"`
	MinOccurrences int           `json:"min_occurrences"`
	Pages          int           `json:"pages"`
	Header         []jsonPattern `json:"header"`
	Footer         []jsonPattern `json:"footer"`
}

type jsonPage struct {
	Page       int    `json:"page"`
	StripStart int    `json:"strip_start"`
	StripEnd   int    `json:"strip_end"`
	LinesIn    int    `json:"lines_in"`
	LinesOut   int    `json:"lines_out"`
	Encoding   string `json:"encoding"`
	Output     string `json:"output,omitempty"`
	SHA256     string `json:"sha256,omitempty"`
}

type jsonIssue struct {
	Path   string `json:"path"`
	Page   int    `json:"page"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error"`
}

type jsonResult struct {
	RunID      string       `json:"run_id"`
	InputDir   string       `json:"input_dir"`
	OutputDir  string       `json:"output_dir,omitempty"`
	DryRun     bool         `json:"dry_run"`
	DurationMS int64        `json:"duration_ms"`
	Patterns   jsonPatterns `json:"patterns"`
	Pages      []jsonPage   `json:"pages"`
	Skipped    []jsonIssue  `json:"skipped"`
	Failures   []jsonIssue  `json:"failures"`
	Combined   string       `json:"combined,omitempty"`
	Reports    []string     `json:"reports,omitempty"`
}

func newJSONResult(res *cleaner.Result) jsonResult {
	out := jsonResult{
		RunID:      res.RunID,
		InputDir:   res.InputDir,
		DryRun:     res.DryRun,
		DurationMS: res.Duration().Milliseconds(),
		Patterns: jsonPatterns{
			Threshold:      res.Patterns.Threshold,
			MinOccurrences: res.Patterns.MinOccurrences,
			Pages:          res.Patterns.Pages,
			Header:         []jsonPattern{},
			Footer:         []jsonPattern{},
		},
		Pages:    []jsonPage{},
		Skipped:  []jsonIssue{},
		Failures: []jsonIssue{},
		Combined: res.Combined,
		Reports:  res.Reports,
	}
	if !res.DryRun {
		out.OutputDir = res.OutputDir
	}
	for _, pos := range res.Patterns.Header.Positions() {
		out.Patterns.Header = append(out.Patterns.Header, jsonPattern{Position: pos, Texts: res.Patterns.Header.Texts(pos)})
	}
	for _, pos := range res.Patterns.Footer.Positions() {
		out.Patterns.Footer = append(out.Patterns.Footer, jsonPattern{Position: pos, Texts: res.Patterns.Footer.Texts(pos)})
	}
	for _, p := range res.Pages {
		out.Pages = append(out.Pages, jsonPage{
			Page:       p.Number,
			StripStart: p.Plan.StripStart,
			StripEnd:   p.Plan.StripEnd,
			LinesIn:    p.LinesIn,
			LinesOut:   p.LinesOut,
			Encoding:   p.Encoding,
			Output:     p.Output,
			SHA256:     p.SHA256,
		})
	}
	for _, s := range res.Skips {
		out.Skipped = append(out.Skipped, jsonIssue{Path: s.Path, Page: s.Page, Reason: s.Reason(), Error: errString(s.Err)})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, jsonIssue{Path: f.Path, Page: f.Page, Error: errString(f.Err)})
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
