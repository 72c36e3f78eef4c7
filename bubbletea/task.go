package bubbletea

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/goldmark"
)

var _ tea.Model = Model{}

type phase int

const (
	phaseIntro phase = iota
	phaseCountdown
	phaseRunning
	phaseResults
)

// DefaultFrameInterval is how often a running task redraws its stimulus.
const DefaultFrameInterval = 50 * time.Millisecond

// feedbacker is implemented by tasks that comment on each answer.
type feedbacker interface {
	Feedback(o mindlab.Outcome) string
}

// legend is implemented by tasks that show a reference key while running.
type legend interface {
	Key() string
}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the clock used to compute how long a stimulus has been on
// screen.
func WithClock(c mindlab.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithCountdown sets the number of get-ready seconds. Zero starts at once.
func WithCountdown(n int) Option {
	return func(m *Model) { m.countFrom = max(0, n) }
}

// WithDevice sets the initial device status.
func WithDevice(d DeviceMsg) Option {
	return func(m *Model) { m.device = d }
}

// WithFrameInterval sets the redraw interval while a run is live.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) { m.frame = d }
}

// Model runs one cognitive task: instructions, a get-ready countdown, the
// live run and the results screen.
type Model struct {
	ctx    context.Context
	task   mindlab.Task
	runner mindlab.Runner
	events <-chan mindlab.Event
	clock  mindlab.Clock
	theme  mindlab.Theme
	styles Styles
	frame  time.Duration

	width, height int

	phase     phase
	countFrom int
	countdown int

	trial    int
	stimulus *mindlab.Stimulus
	onset    time.Time
	entry    string
	feedback string
	lastOK   bool
	outcomes []mindlab.Outcome
	report   mindlab.Report
	reason   mindlab.CompleteReason

	device DeviceMsg
	err    error
}

// New returns a Model for task driven by runner. events delivers the
// runner's events, usually Events.C.
func New(ctx context.Context, task mindlab.Task, runner mindlab.Runner, events <-chan mindlab.Event, theme mindlab.Theme, opts ...Option) Model {
	m := Model{
		ctx:       ctx,
		task:      task,
		runner:    runner,
		events:    events,
		theme:     theme,
		styles:    NewStyles(theme),
		frame:     DefaultFrameInterval,
		countFrom: 3,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Outcomes returns the outcomes of the last completed run.
func (m Model) Outcomes() []mindlab.Outcome { return m.outcomes }

// Report returns the report of the last completed run.
func (m Model) Report() mindlab.Report { return m.report }

// Reason returns why the last run completed.
func (m Model) Reason() mindlab.CompleteReason { return m.reason }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listenForEvent(m.events)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m = m.processEvent(msg.Event)
		return m, listenForEvent(m.events)

	case DeviceMsg:
		m.device = msg
		return m, nil

	case countdownMsg:
		if m.phase != phaseCountdown {
			return m, nil
		}
		m.countdown--
		if m.countdown <= 0 {
			return m.startRun()
		}
		return m, countdownTick()

	case frameMsg:
		if m.phase == phaseRunning {
			return m, frameTick(m.frame)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.phase == phaseRunning {
			m.runner.Abort()
		}
		return m, tea.Quit

	case "esc":
		switch m.phase {
		case phaseRunning:
			m.runner.Abort()
		case phaseCountdown:
			m.phase = phaseIntro
		}
		return m, nil

	case "enter":
		if m.phase == phaseIntro || m.phase == phaseResults {
			return m.beginCountdown()
		}
		return m, nil
	}

	if m.phase == phaseRunning && msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			m.runner.Submit(string(r))
		}
	}
	return m, nil
}

func (m Model) beginCountdown() (tea.Model, tea.Cmd) {
	m.err = nil
	if m.countFrom == 0 {
		return m.startRun()
	}
	m.phase = phaseCountdown
	m.countdown = m.countFrom
	return m, countdownTick()
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	spec, err := m.task.Spec()
	if err == nil {
		err = m.runner.Start(m.ctx, spec)
	}
	if err != nil {
		m.err = err
		m.phase = phaseIntro
		return m, nil
	}
	m.phase = phaseRunning
	m.trial = 0
	m.stimulus = nil
	m.entry = ""
	m.feedback = ""
	m.outcomes = nil
	m.report = mindlab.Report{}
	m.reason = ""
	return m, frameTick(m.frame)
}

func (m Model) processEvent(ev mindlab.Event) Model {
	switch e := ev.(type) {
	case mindlab.EventStimulusShown:
		s := e.Stimulus
		m.stimulus = &s
		m.onset = e.At
		m.trial = e.Trial
		m.entry = ""
		m.feedback = ""
	case mindlab.EventEntry:
		m.entry = e.Text
	case mindlab.EventOutcome:
		m.outcomes = append(m.outcomes, e.Outcome)
		m.stimulus = nil
		if f, ok := m.task.(feedbacker); ok {
			m.feedback = f.Feedback(e.Outcome)
			m.lastOK = e.Outcome.Correct
		}
	case mindlab.EventRunComplete:
		m.outcomes = e.Outcomes
		m.report = m.task.Report(e.Outcomes)
		m.reason = e.Reason
		m.stimulus = nil
		m.phase = phaseResults
	}
	return m
}

func (m Model) now() time.Time {
	if m.clock != nil {
		return m.clock.Now()
	}
	return time.Now()
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return goldmark.DefaultWidth
	}
	return max(20, min(m.width-4, 100))
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.task.Title()))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseIntro:
		b.WriteString(goldmark.Render(m.task.Instructions(), m.contentWidth(), m.theme))
	case phaseCountdown:
		b.WriteString(m.styles.Accent.Render(fmt.Sprintf("Get ready... %d", m.countdown)))
	case phaseRunning:
		b.WriteString(m.runningView())
	case phaseResults:
		b.WriteString(m.resultsView())
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	return b.String()
}

const boxWidth = 24

func (m Model) runningView() string {
	var text string
	if m.stimulus != nil {
		text = m.task.Present(*m.stimulus, m.now().Sub(m.onset))
	}
	box := m.styles.Box.Render(m.styles.Stimulus.Render(center(text, boxWidth)))

	parts := []string{box}
	if m.entry != "" {
		parts = append(parts, "Answer: "+m.styles.Accent.Render(m.entry))
	}
	if m.feedback != "" {
		style := m.styles.Error
		if m.lastOK {
			style = m.styles.Success
		}
		parts = append(parts, style.Render(m.feedback))
	}
	if l, ok := m.task.(legend); ok {
		parts = append(parts, m.styles.Muted.Render(l.Key()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) resultsView() string {
	var b strings.Builder
	switch m.reason {
	case mindlab.CompleteAborted:
		b.WriteString(m.styles.Warning.Render("Test aborted."))
		b.WriteString("\n\n")
	case mindlab.CompleteTimeUp:
		b.WriteString(m.styles.Warning.Render("Time's up!"))
		b.WriteString("\n\n")
	}
	b.WriteString(goldmark.RenderReport(m.report, m.contentWidth(), m.theme))
	return b.String()
}

func (m Model) statusLine() string {
	var keys string
	switch m.phase {
	case phaseIntro:
		keys = "enter start · q quit"
	case phaseCountdown:
		keys = "esc back · q quit"
	case phaseRunning:
		keys = fmt.Sprintf("trial %d · esc abort · q quit", m.trial+1)
	case phaseResults:
		keys = "enter retry · q quit"
	}
	return m.styles.Muted.Render(keys) + "  " + m.deviceStatus()
}

func (m Model) deviceStatus() string {
	switch {
	case m.device.Connected:
		return m.styles.Success.Render("● " + m.device.Port)
	case m.device.Err != nil:
		return m.styles.Warning.Render("○ device unavailable, keyboard only")
	default:
		return m.styles.Muted.Render("○ keyboard")
	}
}
