package boilerplate

import (
	"math"
	"slices"
)

// thresholdEpsilon absorbs float error in threshold*pages so that 0.7*10
// requires 7 occurrences rather than 8.
const thresholdEpsilon = 1e-9

// PatternTable maps a line position to the distinct texts accepted as
// boilerplate at that position. Texts are kept sorted.
type PatternTable map[int][]string

// Positions returns the table's positions in ascending order.
func (t PatternTable) Positions() []int {
	positions := make([]int, 0, len(t))
	for pos := range t {
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	return positions
}

// Texts returns the accepted texts at pos.
func (t PatternTable) Texts(pos int) []string {
	return t[pos]
}

// Count returns the number of accepted (position, text) pairs.
func (t PatternTable) Count() int {
	total := 0
	for _, texts := range t {
		total += len(texts)
	}
	return total
}

// Patterns bundles the header and footer tables built by one vote together
// with the parameters that produced them.
type Patterns struct {
	Header         PatternTable
	Footer         PatternTable
	Threshold      float64
	MinOccurrences int
	Pages          int
}

// Table returns the table for side.
func (p Patterns) Table(side Side) PatternTable {
	if side == Header {
		return p.Header
	}
	return p.Footer
}

// Empty reports whether no pattern was accepted on either side.
func (p Patterns) Empty() bool {
	return len(p.Header) == 0 && len(p.Footer) == 0
}

// MinOccurrences returns ceil(threshold*pages), never less than one for a
// non-empty corpus.
func MinOccurrences(threshold float64, pages int) int {
	if pages <= 0 {
		return 0
	}
	n := int(math.Ceil(threshold*float64(pages) - thresholdEpsilon))
	return max(n, 1)
}

// ValidateThreshold rejects thresholds outside (0, 1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
		return ErrInvalidThreshold
	}
	return nil
}

// Vote counts identical (position, text) pairs across the corpus and promotes
// every pair that occurs at least MinOccurrences times. Several texts may be
// promoted at one position.
func Vote(c Candidates, threshold float64) (Patterns, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Patterns{}, err
	}
	minCount := MinOccurrences(threshold, c.Pages)
	return Patterns{
		Header:         promote(c.Header, minCount),
		Footer:         promote(c.Footer, minCount),
		Threshold:      threshold,
		MinOccurrences: minCount,
		Pages:          c.Pages,
	}, nil
}

func promote(candidates []Candidate, minCount int) PatternTable {
	counts := make(map[Candidate]int, len(candidates))
	for _, c := range candidates {
		counts[c]++
	}
	table := make(PatternTable)
	if minCount <= 0 {
		return table
	}
	for c, n := range counts {
		if n >= minCount {
			table[c.Position] = append(table[c.Position], c.Text)
		}
	}
	for pos := range table {
		slices.Sort(table[pos])
	}
	return table
}
