package bubbletea

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Center exports center for testing.
func Center(s string, width int) string { return center(s, width) }

// CountdownMsg returns one get-ready tick.
func CountdownMsg() tea.Msg { return countdownMsg{} }

// FrameMsg returns a frame tick stamped at t.
func FrameMsg(t time.Time) tea.Msg { return frameMsg(t) }

// Running reports whether the model is in the live run phase.
func Running(m Model) bool { return m.phase == phaseRunning }

// Playing reports whether the dodger is in play.
func Playing(m DodgerModel) bool { return m.phase == dodgerPlaying }

// EnteringName reports whether the dodger is asking for a high score name.
func EnteringName(m DodgerModel) bool { return m.phase == dodgerNameEntry }
