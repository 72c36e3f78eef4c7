// Package goldmark renders task instructions and result verdicts, written as
// markdown, to ANSI-styled terminal text. Parsing is done by goldmark and
// styling by lipgloss.
package goldmark

import (
	"fmt"
	"strings"

	"github.com/fwojciec/mindlab"
)

// DefaultWidth is used when the terminal width is not known yet.
const DefaultWidth = 72

// Render parses markdown source and returns styled terminal output.
// Paragraphs and list items are word-wrapped to width.
func Render(source string, width int, theme mindlab.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}

// ReportMarkdown lays a report out as markdown: the verdict label as a
// heading, its message, then one bullet per metric.
func ReportMarkdown(rep mindlab.Report) string {
	var b strings.Builder
	if rep.Verdict.Label != "" {
		fmt.Fprintf(&b, "## %s\n\n", rep.Verdict.Label)
	}
	if rep.Verdict.Message != "" {
		b.WriteString(rep.Verdict.Message)
		b.WriteString("\n\n")
	}
	for _, m := range rep.Metrics {
		fmt.Fprintf(&b, "- **%s:** %s\n", m.Label, m.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderReport renders the results screen body for a finished run.
func RenderReport(rep mindlab.Report, width int, theme mindlab.Theme) string {
	return Render(ReportMarkdown(rep), width, theme)
}
