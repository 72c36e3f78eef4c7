package goldmark_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/goldmark"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Force ANSI output so styled elements produce escape codes.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := mindlab.DefaultTheme()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", goldmark.Render("", 80, theme))
	})

	t.Run("heading is styled", func(t *testing.T) {
		t.Parallel()
		heading := goldmark.Render("# Focus & Control", 80, theme)
		plain := goldmark.Render("Focus & Control", 80, theme)
		assert.Contains(t, stripANSI(heading), "Focus & Control")
		assert.NotEqual(t, heading, plain)
	})

	t.Run("subheadings are upper-cased", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("## How to play", 80, theme)), "HOW TO PLAY")
	})

	t.Run("code spans render as keys", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(goldmark.Render("Press `#` to submit.", 80, theme))
		assert.Contains(t, got, "Press [#] to submit.")
	})

	t.Run("emphasis keeps text", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(goldmark.Render("do **not** press on *three*", 80, theme))
		assert.Contains(t, got, "do not press on three")
	})

	t.Run("bullets and ordered lists", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(goldmark.Render("- one\n- two\n\n1. first\n2. second", 80, theme))
		assert.Contains(t, got, "• one")
		assert.Contains(t, got, "• two")
		assert.Contains(t, got, "1. first")
		assert.Contains(t, got, "2. second")
	})

	t.Run("nested list", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(goldmark.Render("- outer\n  - inner one\n  - inner two", 80, theme))
		assert.Contains(t, got, "• outer")
		assert.Contains(t, got, "  • inner one")
	})

	t.Run("list continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and keep its continuation lines indented"
		lines := strings.Split(stripANSI(goldmark.Render(src, 30, theme)), "\n")
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[0], "• "))
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("blockquote gets a bar", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(goldmark.Render("> Keep your eyes on the box.", 80, theme))
		assert.Contains(t, got, "┃ Keep your eyes on the box.")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		got := goldmark.Render(long, 30, theme)
		assert.Contains(t, stripANSI(got), "word12")
		assert.Greater(t, len(strings.Split(got, "\n")), 1)
	})

	t.Run("paragraphs separated by a blank line", func(t *testing.T) {
		t.Parallel()
		lines := strings.Split(stripANSI(goldmark.Render("first\n\nsecond", 20, theme)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "", strings.TrimSpace(lines[1]))
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("above\n\n---\n\nbelow", 80, theme)), "───")
	})

	t.Run("zero width uses default", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(goldmark.Render("hello world", 0, theme)), "hello world")
	})

	t.Run("instructions of every theme render", func(t *testing.T) {
		t.Parallel()
		for _, name := range mindlab.ThemeNames() {
			th, _ := mindlab.ThemeByName(name)
			assert.Contains(t, stripANSI(goldmark.Render("# Title\n\nbody", 40, th)), "body", name)
		}
	})
}

func TestReportMarkdown(t *testing.T) {
	t.Parallel()

	rep := mindlab.Report{
		Verdict: mindlab.Verdict{Label: "Fast Reflexes", Message: "Well above average."},
		Metrics: []mindlab.Metric{
			{Label: "Average", Value: "312 ms"},
			{Label: "Accuracy", Value: "95%"},
		},
	}

	assert.Equal(t, "## Fast Reflexes\n\nWell above average.\n\n- **Average:** 312 ms\n- **Accuracy:** 95%", goldmark.ReportMarkdown(rep))

	got := stripANSI(goldmark.RenderReport(rep, 60, mindlab.DefaultTheme()))
	assert.Contains(t, got, "FAST REFLEXES")
	assert.Contains(t, got, "• Average: 312 ms")
	assert.Contains(t, got, "• Accuracy: 95%")
}
