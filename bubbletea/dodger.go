package bubbletea

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/dodger"
)

var _ tea.Model = DodgerModel{}

// Field geometry in terminal cells. Each cell covers cellW×cellH world units.
const (
	FieldCols = 40
	FieldRows = 20
	cellW     = dodger.Width / FieldCols
	cellH     = dodger.Height / FieldRows
)

// DefaultFrameRate matches a typical display refresh.
const DefaultFrameRate = time.Second / 60

// maxFrameStep bounds one simulation step after a stall.
const maxFrameStep = 100 * time.Millisecond

type dodgerPhase int

const (
	dodgerPlaying dodgerPhase = iota
	dodgerNameEntry
	dodgerOver
)

type highScoreMsg struct {
	record mindlab.HighScore
	err    error
}

type savedMsg struct {
	record  mindlab.HighScore
	changed bool
	err     error
}

// DodgerOption configures a DodgerModel.
type DodgerOption func(*DodgerModel)

// WithDodgerClock sets the clock used for frame timing and record dates.
func WithDodgerClock(c mindlab.Clock) DodgerOption {
	return func(m *DodgerModel) { m.clock = c }
}

// WithDodgerDevice sets the initial device status.
func WithDodgerDevice(d DeviceMsg) DodgerOption {
	return func(m *DodgerModel) { m.device = d }
}

// WithFrameRate sets the simulation tick interval.
func WithFrameRate(d time.Duration) DodgerOption {
	return func(m *DodgerModel) { m.rate = d }
}

// DodgerModel plays the obstacle dodger and records high scores.
type DodgerModel struct {
	ctx    context.Context
	game   *dodger.Game
	store  mindlab.HighScoreStore
	clock  mindlab.Clock
	styles Styles
	rate   time.Duration

	Name textinput.Model // exported for test access

	phase     dodgerPhase
	best      mindlab.HighScore
	newRecord bool
	lastFrame time.Time
	device    DeviceMsg
	err       error
}

// NewDodger returns a model playing game. store may be nil, in which case
// high scores are neither loaded nor saved.
func NewDodger(ctx context.Context, game *dodger.Game, store mindlab.HighScoreStore, theme mindlab.Theme, opts ...DodgerOption) DodgerModel {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = dodger.MaxNameLength
	ti.Prompt = "> "

	m := DodgerModel{
		ctx:    ctx,
		game:   game,
		store:  store,
		styles: NewStyles(theme),
		rate:   DefaultFrameRate,
		Name:   ti,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Game returns the simulation.
func (m DodgerModel) Game() *dodger.Game { return m.game }

// Best returns the high score in effect.
func (m DodgerModel) Best() mindlab.HighScore { return m.best }

// Err returns the last storage error, if any.
func (m DodgerModel) Err() error { return m.err }

// Init implements tea.Model.
func (m DodgerModel) Init() tea.Cmd {
	return tea.Batch(m.loadHighScore(), frameTick(m.rate))
}

func (m DodgerModel) loadHighScore() tea.Cmd {
	if m.store == nil {
		return nil
	}
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		h, err := store.Load(ctx)
		return highScoreMsg{record: h, err: err}
	}
}

func (m DodgerModel) saveHighScore(name string) tea.Cmd {
	ctx, store, best, score, now := m.ctx, m.store, m.best, m.game.Score, m.now()
	return func() tea.Msg {
		h, changed, err := dodger.SaveHighScore(ctx, store, best, score, name, now)
		return savedMsg{record: h, changed: changed, err: err}
	}
}

func (m DodgerModel) now() time.Time {
	if m.clock != nil {
		return m.clock.Now()
	}
	return time.Now()
}

// Update implements tea.Model.
func (m DodgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		return m.step(time.Time(msg))

	case highScoreMsg:
		m.best, m.err = msg.record, msg.err
		return m, nil

	case savedMsg:
		m.best, m.err = msg.record, msg.err
		m.newRecord = msg.changed
		m.phase = dodgerOver
		m.Name.Blur()
		return m, nil

	case DistanceMsg:
		m.game.Distance(msg.CM)
		return m, nil

	case KeypadMsg:
		if strings.EqualFold(msg.Key, "a") && m.device.Connected {
			return m.restart()
		}
		return m, nil

	case DeviceMsg:
		m.device = msg
		if !msg.Connected && m.game.Mode == dodger.ModeDistance {
			m.game.SetMode(dodger.ModeKeyboard)
		}
		return m, nil
	}

	if m.phase == dodgerNameEntry {
		var cmd tea.Cmd
		m.Name, cmd = m.Name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DodgerModel) step(at time.Time) (tea.Model, tea.Cmd) {
	if m.phase != dodgerPlaying {
		return m, nil
	}
	dt := m.rate
	if !m.lastFrame.IsZero() {
		dt = min(max(at.Sub(m.lastFrame), 0), maxFrameStep)
	}
	m.lastFrame = at

	if !m.game.Step(dt) {
		return m, frameTick(m.rate)
	}
	if m.store != nil && m.best.Beats(m.game.Score) {
		m.phase = dodgerNameEntry
		m.Name.SetValue("")
		cmd := m.Name.Focus()
		return m, cmd
	}
	m.phase = dodgerOver
	return m, nil
}

func (m DodgerModel) restart() (tea.Model, tea.Cmd) {
	m.game.Reset()
	m.phase = dodgerPlaying
	m.newRecord = false
	m.lastFrame = time.Time{}
	m.Name.Blur()
	return m, frameTick(m.rate)
}

func (m DodgerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.phase == dodgerNameEntry {
		switch key {
		case "enter":
			name := dodger.NormalizeName(m.Name.Value())
			if name == "" {
				return m, nil
			}
			return m, m.saveHighScore(name)
		case "esc":
			m.phase = dodgerOver
			m.Name.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.Name, cmd = m.Name.Update(msg)
		return m, cmd
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.game.Move(-1)
	case "right", "l":
		m.game.Move(1)
	case "+", "=":
		m.game.SetSensitivity(m.game.Sensitivity() + 1)
	case "-":
		m.game.SetSensitivity(m.game.Sensitivity() - 1)
	case "m":
		if m.game.Mode == dodger.ModeKeyboard && m.device.Connected {
			m.game.SetMode(dodger.ModeDistance)
		} else {
			m.game.SetMode(dodger.ModeKeyboard)
		}
	case "a", "A":
		if m.device.Connected {
			return m.restart()
		}
	case "enter", "r":
		if m.phase == dodgerOver {
			return m.restart()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m DodgerModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Obstacle Dodger"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Score %d · Best %d (%s) · %s · Sensitivity %d\n",
		m.game.Score, m.best.Score, m.best.Holder(), m.game.Mode, m.game.Sensitivity())
	b.WriteString(m.renderField())
	b.WriteString("\n")

	switch m.phase {
	case dodgerNameEntry:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("New high score: %d! Enter your name:", m.game.Score)))
		b.WriteString("\n")
		b.WriteString(m.Name.View())
	case dodgerOver:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Game over. Score %d.", m.game.Score)))
		if m.newRecord {
			b.WriteString(" " + m.styles.Success.Render("Saved as the new record."))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("enter play again · q quit"))
	default:
		if m.game.Status != "" {
			b.WriteString(m.styles.Warning.Render(m.game.Status))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Muted.Render("←/→ move · m mode · +/- sensitivity · q quit"))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return b.String()
}

// renderField draws the world scaled to FieldCols×FieldRows cells inside a
// border.
func (m DodgerModel) renderField() string {
	grid := make([][]rune, FieldRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", FieldCols))
	}
	for _, o := range m.game.Obstacles {
		fill(grid, o.Rect, '█')
	}
	fill(grid, m.game.Player, '▀')

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", FieldCols) + "┐\n")
	for _, row := range grid {
		b.WriteString("│")
		for _, c := range row {
			switch c {
			case '█':
				b.WriteString(m.styles.Obstacle.Render(string(c)))
			case '▀':
				b.WriteString(m.styles.Player.Render(string(c)))
			default:
				b.WriteRune(c)
			}
		}
		b.WriteString("│\n")
	}
	b.WriteString("└" + strings.Repeat("─", FieldCols) + "┘")
	return b.String()
}

// fill marks every cell rect overlaps.
func fill(grid [][]rune, rect dodger.Rect, c rune) {
	for r := range grid {
		top := float64(r * cellH)
		if rect.Y+rect.H <= top || rect.Y >= top+cellH {
			continue
		}
		for col := range grid[r] {
			left := float64(col * cellW)
			if rect.X+rect.W <= left || rect.X >= left+cellW {
				continue
			}
			grid[r][col] = c
		}
	}
}
