package history

import (
	"time"

	"boilerstrip/internal/boilerplate"
)

// Run is one persisted cleaning run.
type Run struct {
	ID             string
	InputDir       string
	OutputDir      string
	StartedAt      time.Time
	FinishedAt     time.Time
	Threshold      float64
	HeaderWindow   int
	FooterWindow   int
	MinOccurrences int
	PagesTotal     int
	PagesCleaned   int
	PagesSkipped   int
	WriteFailures  int
	LinesStripped  int

	Patterns []Pattern
	Pages    []PageOutcome
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Pattern is one accepted (side, position, text) triple.
type Pattern struct {
	Side     string `json:"side"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// PageOutcome records the plan applied to one page and where it landed.
type PageOutcome struct {
	Page       int    `json:"page"`
	StripStart int    `json:"strip_start"`
	StripEnd   int    `json:"strip_end"`
	OutputPath string `json:"output_path,omitempty"`
	SHA256     string `json:"sha256,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PatternsFrom flattens both pattern tables in side, position, text order.
func PatternsFrom(p boilerplate.Patterns) []Pattern {
	var out []Pattern
	for _, side := range []boilerplate.Side{boilerplate.Header, boilerplate.Footer} {
		table := p.Table(side)
		for _, pos := range table.Positions() {
			for _, text := range table.Texts(pos) {
				out = append(out, Pattern{Side: side.String(), Position: pos, Text: text})
			}
		}
	}
	return out
}
