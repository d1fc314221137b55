package report

import (
	"time"

	"boilerstrip/internal/boilerplate"
)

// Run is the renderer's view of one cleaning run.
type Run struct {
	ID        string
	InputDir  string
	OutputDir string
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool
	Windows   boilerplate.Windows
	Patterns  boilerplate.Patterns
	Pages     []Page
	Skips     []Skip
	Combined  string
}

// Page is one processed page.
type Page struct {
	Number     int
	StripStart int
	StripEnd   int
	LinesIn    int
	LinesOut   int
	Output     string
	Error      string
}

// Skip is one input file left out of the corpus.
type Skip struct {
	Path   string
	Page   int
	Reason string
	Detail string
}

// Totals summarizes page outcomes.
type Totals struct {
	Processed     int
	Changed       int
	Failed        int
	Skipped       int
	LinesStripped int
}

// Totals counts page outcomes.
func (r Run) Totals() Totals {
	t := Totals{Processed: len(r.Pages), Skipped: len(r.Skips)}
	for _, p := range r.Pages {
		if p.Error != "" {
			t.Failed++
		}
		if p.StripStart+p.StripEnd > 0 {
			t.Changed++
		}
		t.LinesStripped += p.LinesIn - p.LinesOut
	}
	return t
}
