package bubbletea

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/mindlab"
	"github.com/mattn/go-runewidth"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Title    lipgloss.Style
	Stimulus lipgloss.Style
	Box      lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Player   lipgloss.Style
	Obstacle lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t mindlab.Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Stimulus: lipgloss.NewStyle().Foreground(ansiColor(t.Stimulus)).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ansiColor(t.Border)).
			Padding(1, 2),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Warning:  lipgloss.NewStyle().Foreground(ansiColor(t.Warning)),
		Player:   lipgloss.NewStyle().Foreground(ansiColor(t.Success)).Bold(true),
		Obstacle: lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// center pads s with spaces to width terminal cells.
func center(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
