package report

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"boilerstrip/internal/boilerplate"
)

// Markdown renders the persisted run report.
func Markdown(run Run) string {
	var b strings.Builder
	totals := run.Totals()

	b.WriteString("# Boilerplate Report\n\n")
	if run.ID != "" {
		fmt.Fprintf(&b, "- Run: `%s`\n", run.ID)
	}
	if !run.StartedAt.IsZero() {
		fmt.Fprintf(&b, "- Started: %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	}
	if run.Duration > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", run.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(&b, "- Input: `%s`\n", run.InputDir)
	if run.OutputDir != "" {
		fmt.Fprintf(&b, "- Output: `%s`\n", run.OutputDir)
	}
	fmt.Fprintf(&b, "- Threshold: %s (at least %d of %d pages)\n",
		strconv.FormatFloat(run.Patterns.Threshold, 'f', -1, 64), run.Patterns.MinOccurrences, run.Patterns.Pages)
	fmt.Fprintf(&b, "- Windows: header %d, footer %d\n", run.Windows.Header, run.Windows.Footer)
	fmt.Fprintf(&b, "- Pages: %d processed, %d changed, %d failed, %d skipped\n",
		totals.Processed, totals.Changed, totals.Failed, totals.Skipped)
	fmt.Fprintf(&b, "- Lines stripped: %d\n", totals.LinesStripped)

	for _, side := range []boilerplate.Side{boilerplate.Header, boilerplate.Footer} {
		fmt.Fprintf(&b, "\n## %s Patterns\n\n", titleCase(side.String()))
		rows := patternRows(run.Patterns.Table(side))
		if len(rows) == 0 {
			b.WriteString("None detected.\n")
			continue
		}
		b.WriteString("| Position | Text |\n| ---: | --- |\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", row[0], markdownCell(row[1]))
		}
	}

	if len(run.Pages) > 0 {
		b.WriteString("\n## Pages\n\n")
		b.WriteString("| Page | Strip start | Strip end | Lines in | Lines out | Note |\n")
		b.WriteString("| ---: | ---: | ---: | ---: | ---: | --- |\n")
		for _, p := range run.Pages {
			fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %s |\n",
				p.Number, p.StripStart, p.StripEnd, p.LinesIn, p.LinesOut, markdownCell(p.Error))
		}
	}

	if len(run.Skips) > 0 {
		b.WriteString("\n## Skipped Files\n\n")
		b.WriteString("| File | Reason | Detail |\n| --- | --- | --- |\n")
		for _, s := range run.Skips {
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", s.Path, s.Reason, markdownCell(s.Detail))
		}
	}

	if run.Combined != "" {
		fmt.Fprintf(&b, "\nCombined output: `%s`\n", run.Combined)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

func markdownCell(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML converts the Markdown report into a standalone HTML page.
func HTML(run Run) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(run)), &body); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}

	title := "Boilerplate Report"
	if run.ID != "" {
		title += " " + run.ID
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto}" +
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25rem .5rem}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
