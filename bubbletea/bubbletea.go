// Package bubbletea provides the Bubble Tea terminal UI for mindlab tasks
// and the obstacle dodger.
package bubbletea

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/mindlab"
)

// Run runs model as a full-screen program until it quits or ctx is done.
// Messages received on msgs, such as device status or distance readings, are
// forwarded into the program. msgs may be nil.
func Run(ctx context.Context, model tea.Model, msgs <-chan tea.Msg, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					msgs = nil
					continue
				}
				p.Send(msg)
			case <-ctx.Done():
				p.Quit()
				return
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}

// EventMsg delivers a Runner event to a task model.
type EventMsg struct {
	Event mindlab.Event
}

// DeviceMsg reports the external input device status.
type DeviceMsg struct {
	Port      string
	Connected bool
	Err       error // why the device is unavailable, if known
}

// DistanceMsg carries a distance sensor reading in centimeters.
type DistanceMsg struct {
	CM float64
}

// KeypadMsg carries a key pressed on the device keypad.
type KeypadMsg struct {
	Key string
}

type frameMsg time.Time

type countdownMsg struct{}

// Events buffers Runner events for a model. Handle has the signature an
// engine event handler needs; it blocks while the buffer is full until Close
// is called, after which events are dropped.
type Events struct {
	ch        chan mindlab.Event
	done      chan struct{}
	closeOnce sync.Once
}

// DefaultEventBuffer sizes the buffer so a burst of trial events never
// stalls the engine while the UI redraws.
const DefaultEventBuffer = 256

// NewEvents returns an event buffer of the given size.
func NewEvents(size int) *Events {
	if size <= 0 {
		size = DefaultEventBuffer
	}
	return &Events{ch: make(chan mindlab.Event, size), done: make(chan struct{})}
}

// Handle enqueues ev.
func (e *Events) Handle(ev mindlab.Event) {
	select {
	case e.ch <- ev:
	case <-e.done:
	}
}

// C returns the receive side of the buffer.
func (e *Events) C() <-chan mindlab.Event { return e.ch }

// Close stops accepting events. It is safe to call more than once.
func (e *Events) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

// listenForEvent waits for the next event. It returns nil once the model
// has no event source.
func listenForEvent(ch <-chan mindlab.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

func frameTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return countdownMsg{} })
}
