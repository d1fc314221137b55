package boilerplate

import (
	"strings"
	"unicode/utf8"
)

// Plan is the number of lines to drop from each end of one page.
type Plan struct {
	StripStart int
	StripEnd   int
}

// Zero reports whether the plan removes nothing.
func (p Plan) Zero() bool {
	return p.StripStart == 0 && p.StripEnd == 0
}

// Resolver applies finalized Patterns to individual pages. It is read-only
// after construction and safe for concurrent use.
type Resolver struct {
	Patterns Patterns
	// MinPatternLength skips accepted texts shorter than this many runes when
	// matching. Zero keeps every accepted text.
	MinPatternLength int
}

// NewResolver returns a Resolver with no length guard.
func NewResolver(p Patterns) *Resolver {
	return &Resolver{Patterns: p}
}

// Matches reports whether line and pattern contain one another.
func Matches(line, pattern string) bool {
	return strings.Contains(line, pattern) || strings.Contains(pattern, line)
}

// Plan computes how many leading and trailing lines of a page are
// boilerplate. Every known position is evaluated; the furthest matching
// position on each side wins.
func (r *Resolver) Plan(lines []string) Plan {
	n := len(lines)
	var plan Plan
	for _, pos := range r.Patterns.Header.Positions() {
		if pos >= n {
			continue
		}
		if r.matchAny(strings.TrimSpace(lines[pos]), r.Patterns.Header.Texts(pos)) {
			plan.StripStart = max(plan.StripStart, pos+1)
		}
	}
	for _, pos := range r.Patterns.Footer.Positions() {
		if pos >= n {
			continue
		}
		if r.matchAny(strings.TrimSpace(lines[n-1-pos]), r.Patterns.Footer.Texts(pos)) {
			plan.StripEnd = max(plan.StripEnd, pos+1)
		}
	}
	return plan
}

func (r *Resolver) matchAny(line string, patterns []string) bool {
	for _, pattern := range patterns {
		if r.MinPatternLength > 0 && utf8.RuneCountInString(pattern) < r.MinPatternLength {
			continue
		}
		if Matches(line, pattern) {
			return true
		}
	}
	return false
}

// Clean strips boilerplate from page text and returns the kept text together
// with the plan that produced it.
func (r *Resolver) Clean(text string) (string, Plan) {
	lines := SplitLines(text)
	plan := r.Plan(lines)
	return strings.Join(Apply(lines, plan), "\n"), plan
}

// Resolve computes the plan for lines using p without a length guard.
func Resolve(lines []string, p Patterns) Plan {
	return NewResolver(p).Plan(lines)
}

// Clean strips boilerplate from text using p without a length guard.
func Clean(text string, p Patterns) (string, Plan) {
	return NewResolver(p).Clean(text)
}

// Apply keeps lines[StripStart : len-StripEnd]. A StripEnd of zero leaves the
// end untouched, and overlapping cuts yield an empty page rather than a
// negative range.
func Apply(lines []string, plan Plan) []string {
	n := len(lines)
	start := min(max(plan.StripStart, 0), n)
	end := n
	if plan.StripEnd > 0 {
		end = max(n-plan.StripEnd, 0)
	}
	if start >= end {
		return []string{}
	}
	return lines[start:end]
}
