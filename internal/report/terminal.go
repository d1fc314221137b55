package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"boilerstrip/internal/boilerplate"
)

// Options controls terminal rendering.
type Options struct {
	Colorize bool
}

// OptionsFor enables colour when w is a terminal.
func OptionsFor(w io.Writer) Options {
	return Options{Colorize: ShouldColorize(w)}
}

// ShouldColorize reports whether w is an interactive terminal.
func ShouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

type level int

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelError
)

var levelStyles = [...]struct {
	tag   string
	color string
}{
	levelInfo:  {"INFO", ansiBlue},
	levelOK:    {"OK", ansiGreen},
	levelWarn:  {"WARN", ansiYellow},
	levelError: {"ERROR", ansiRed},
}

// sheet accumulates one block of terminal output.
type sheet struct {
	strings.Builder
	color bool
}

func (s *sheet) paint(color, line string) string {
	if !s.color || color == "" {
		return line
	}
	return color + line + ansiReset
}

func (s *sheet) heading(title string) {
	for _, line := range sectionHeader(title, s.color) {
		s.WriteString(line)
		s.WriteByte('\n')
	}
}

func (s *sheet) status(label string, lvl level, message string) {
	s.WriteString(statusLine(label, lvl, message, s.color))
	s.WriteByte('\n')
}

func (s *sheet) table(headers []string, rows [][]string, right ...int) {
	s.WriteString(Table(headers, rows, right...))
	s.WriteByte('\n')
}

func (s *sheet) flush(w io.Writer) error {
	_, err := io.WriteString(w, s.String())
	return err
}

// Patterns writes the header and footer pattern tables.
func Patterns(w io.Writer, p boilerplate.Patterns, opts Options) error {
	s := &sheet{color: opts.Colorize}
	fmt.Fprintf(s, "Threshold %s over %d page(s): a line must recur on at least %d page(s).\n",
		strconv.FormatFloat(p.Threshold, 'f', -1, 64), p.Pages, p.MinOccurrences)

	for _, side := range []boilerplate.Side{boilerplate.Header, boilerplate.Footer} {
		s.WriteByte('\n')
		s.heading(side.String() + " patterns")
		rows := patternRows(p.Table(side))
		if len(rows) == 0 {
			s.WriteString("  (none)\n")
			continue
		}
		s.table([]string{"Position", "Text"}, rows, 0)
	}
	return s.flush(w)
}

// Summary writes per-page plans, skips and totals.
func Summary(w io.Writer, run Run, opts Options) error {
	s := &sheet{color: opts.Colorize}
	if run.DryRun {
		s.heading("dry run summary")
	} else {
		s.heading("cleaning summary")
	}

	if len(run.Pages) > 0 {
		rows := make([][]string, len(run.Pages))
		for i, p := range run.Pages {
			rows[i] = []string{
				strconv.Itoa(p.Number),
				strconv.Itoa(p.StripStart),
				strconv.Itoa(p.StripEnd),
				fmt.Sprintf("%d → %d", p.LinesIn, p.LinesOut),
				pageStatus(p, run.DryRun),
			}
		}
		s.table([]string{"Page", "Strip start", "Strip end", "Lines", "Status"}, rows, 0, 1, 2, 3)
	}

	if len(run.Skips) > 0 {
		s.WriteByte('\n')
		s.heading("skipped files")
		for _, skip := range run.Skips {
			s.status(skip.Path, levelWarn, skip.Reason+": "+skip.Detail)
		}
	}

	totals := run.Totals()
	pagesLevel := levelOK
	if totals.Failed > 0 || totals.Skipped > 0 {
		pagesLevel = levelWarn
	}
	s.WriteByte('\n')
	s.status("Pages", pagesLevel, fmt.Sprintf("%d processed, %d changed, %d failed, %d skipped",
		totals.Processed, totals.Changed, totals.Failed, totals.Skipped))
	s.status("Lines stripped", levelInfo, strconv.Itoa(totals.LinesStripped))
	if run.OutputDir != "" && !run.DryRun {
		s.status("Output", levelInfo, run.OutputDir)
	}
	if run.ID != "" {
		s.status("Run", levelInfo, run.ID)
	}
	return s.flush(w)
}

func patternRows(t boilerplate.PatternTable) [][]string {
	var rows [][]string
	for _, pos := range t.Positions() {
		for _, txt := range t.Texts(pos) {
			rows = append(rows, []string{strconv.Itoa(pos), txt})
		}
	}
	return rows
}

func pageStatus(p Page, dryRun bool) string {
	switch {
	case p.Error != "":
		return "write failed"
	case dryRun:
		return "planned"
	case p.StripStart+p.StripEnd == 0:
		return "unchanged"
	default:
		return "ok"
	}
}

// StatusLine renders "  Label:   [OK] message", red when passed is false.
func StatusLine(label string, passed bool, message string, opts Options) string {
	lvl := levelOK
	if !passed {
		lvl = levelError
	}
	return statusLine(label, lvl, message, opts.Colorize)
}

func statusLine(label string, lvl level, message string, color bool) string {
	style := levelStyles[lvl]
	line := fmt.Sprintf("  %-20s [%s]", label+":", style.tag)
	if message != "" {
		line += " " + message
	}
	return (&sheet{color: color}).paint(style.color, line)
}

// titleCase builds a Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// SectionHeader returns a title-cased "== Title ==" heading and its rule.
func SectionHeader(title string, opts Options) []string {
	return sectionHeader(title, opts.Colorize)
}

func sectionHeader(title string, color bool) []string {
	line := "== " + titleCase(strings.TrimSpace(title)) + " =="
	s := &sheet{color: color}
	return []string{s.paint(ansiBlue, line), s.paint(ansiBlue, strings.Repeat("-", len(line)))}
}

// Table renders rows under headers in a rounded box. Columns listed in
// rightAligned are right aligned; short rows are padded.
func Table(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}
	toRow := func(cells []string) table.Row {
		row := make(table.Row, len(headers))
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		return row
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers))
	for _, r := range rows {
		tw.AppendRow(toRow(r))
	}
	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, idx := range rightAligned {
		if idx >= 0 && idx < len(headers) {
			configs = append(configs, table.ColumnConfig{Number: idx + 1, Align: text.AlignRight, AlignHeader: text.AlignLeft})
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
