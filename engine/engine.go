// Package engine runs timed stimulus/response trials.
//
// One Engine owns one RunState. Input sources call Submit from any
// goroutine; tokens are stamped with the engine clock and passed to the run
// goroutine over a channel, which alone decides what qualifies.
package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ mindlab.Runner = (*Engine)(nil)

const defaultQueueSize = 64

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Defaults to SystemClock.
func WithClock(c mindlab.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithEventHandler sets a callback that receives every event of every run.
// It is called synchronously from the run goroutine, so it must not block
// for long or trial timing drifts.
func WithEventHandler(h func(mindlab.Event)) Option {
	return func(e *Engine) {
		e.onEvent = h
	}
}

// WithQueueSize sets how many submitted tokens may wait for the run
// goroutine. Tokens beyond that are dropped.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queueSize = n
		}
	}
}

// Engine implements mindlab.Runner.
type Engine struct {
	clock     mindlab.Clock
	logger    *zap.Logger
	onEvent   func(mindlab.Event)
	queueSize int

	mu        sync.Mutex
	state     mindlab.State
	runID     string
	trial     int
	stimulus  *mindlab.Stimulus
	onset     time.Time
	startedAt time.Time
	outcomes  []mindlab.Outcome
	run       *run
}

// run is the per-Start plumbing. A goroutine only writes RunState while its
// run is still the engine's current run and has not finished.
type run struct {
	id       string
	inputs   chan input
	abort    chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	finished bool // guarded by Engine.mu
}

func (r *run) stop() {
	r.stopOnce.Do(func() { close(r.abort) })
}

type input struct {
	token string
	at    time.Time
}

// New creates an Idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:     SystemClock{},
		logger:    zap.NewNop(),
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start validates spec, resets the run state and begins the first trial in
// a new goroutine. The run ends when the sequence stops, the time limit
// expires, Abort is called or ctx is cancelled.
func (e *Engine) Start(ctx context.Context, spec mindlab.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if !spec.Sequence.Continue(nil) {
		return fmt.Errorf("sequence yields no trials: %w", mindlab.ErrInvalidConfiguration)
	}

	e.mu.Lock()
	if e.state.Live() {
		e.mu.Unlock()
		return mindlab.ErrRunInProgress
	}
	r := &run{
		id:     uuid.NewString(),
		inputs: make(chan input, e.queueSize),
		abort:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	now := e.clock.Now()
	e.run = r
	e.runID = r.id
	e.state = mindlab.StateArmed
	e.trial = 0
	e.stimulus = nil
	e.onset = time.Time{}
	e.startedAt = now
	e.outcomes = nil
	e.mu.Unlock()

	e.logger.Info("run started", zap.String("run_id", r.id))
	e.emit(mindlab.EventRunStarted{RunID: r.id, At: now})

	go e.loop(ctx, spec, r)
	return nil
}

// Submit stamps token with the engine clock and queues it for the current
// run. It reports false when no run is live or the queue is full. Whether
// the token qualifies is decided later by the run goroutine.
func (e *Engine) Submit(token string) bool {
	e.mu.Lock()
	r := e.run
	live := e.state.Live() && r != nil && !r.finished
	e.mu.Unlock()
	if !live {
		return false
	}

	in := input{token: token, at: e.clock.Now()}
	select {
	case r.inputs <- in:
		return true
	default:
		e.logger.Warn("input queue full, token dropped", zap.String("run_id", r.id), zap.String("token", token))
		return false
	}
}

// Abort ends the current run immediately with the outcomes recorded so far.
// The in-flight trial is discarded. From Idle it moves straight to Complete
// with no outcomes. Calling Abort on a Complete engine has no effect.
func (e *Engine) Abort() {
	e.mu.Lock()
	switch {
	case e.state == mindlab.StateComplete:
		e.mu.Unlock()
		return
	case e.run == nil:
		e.state = mindlab.StateComplete
		e.outcomes = nil
		e.mu.Unlock()
		return
	}
	r := e.run
	e.mu.Unlock()
	e.finish(r, mindlab.CompleteAborted)
}

// Results returns the outcomes of a completed run.
func (e *Engine) Results() ([]mindlab.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != mindlab.StateComplete {
		return nil, mindlab.ErrNotFinished
	}
	return slices.Clone(e.outcomes), nil
}

// Snapshot returns the current presentation state.
func (e *Engine) Snapshot() mindlab.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := mindlab.Snapshot{
		State:     e.state,
		RunID:     e.runID,
		Trial:     e.trial,
		Onset:     e.onset,
		StartedAt: e.startedAt,
		Outcomes:  len(e.outcomes),
	}
	if e.stimulus != nil {
		stim := *e.stimulus
		s.Stimulus = &stim
	}
	return s
}

// Wait blocks until the current run's goroutine has exited or ctx is done.
// It returns nil immediately when no run was ever started.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	r := e.run
	e.mu.Unlock()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) emit(ev mindlab.Event) {
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}

// current reports whether r may still write RunState. Callers hold e.mu.
func (e *Engine) current(r *run) bool {
	return e.run == r && !r.finished
}

// emitFor emits ev only while r is current.
func (e *Engine) emitFor(r *run, ev mindlab.Event) {
	e.mu.Lock()
	ok := e.current(r)
	e.mu.Unlock()
	if ok {
		e.emit(ev)
	}
}

// finish moves r to Complete exactly once.
func (e *Engine) finish(r *run, reason mindlab.CompleteReason) {
	e.mu.Lock()
	if !e.current(r) {
		e.mu.Unlock()
		return
	}
	r.finished = true
	e.state = mindlab.StateComplete
	e.stimulus = nil
	outcomes := slices.Clone(e.outcomes)
	e.mu.Unlock()

	r.stop()
	e.logger.Info("run complete",
		zap.String("run_id", r.id),
		zap.String("reason", string(reason)),
		zap.Int("outcomes", len(outcomes)),
	)
	e.emit(mindlab.EventRunComplete{RunID: r.id, Reason: reason, Outcomes: outcomes})
}
