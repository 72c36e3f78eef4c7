package engine

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/mindlab"
	"go.uber.org/zap"
)

func (e *Engine) loop(ctx context.Context, spec mindlab.Spec, r *run) {
	defer close(r.done)

	var deadline <-chan time.Time
	if spec.TimeLimit > 0 {
		deadline = e.clock.After(spec.TimeLimit)
	}

	var outcomes []mindlab.Outcome
	for trial := 0; spec.Sequence.Continue(outcomes); trial++ {
		stim := spec.Sequence.Next(outcomes)
		o, reason, ok := e.runTrial(ctx, spec, r, trial, stim, deadline)
		if !ok {
			e.finish(r, reason)
			return
		}
		outcomes = append(outcomes, o)
		if !e.record(r, o) {
			return
		}
		e.emitFor(r, mindlab.EventOutcome{Outcome: o})
	}
	e.finish(r, mindlab.CompleteFinished)
}

// record appends o to RunState and re-arms for the next trial.
func (e *Engine) record(r *run, o mindlab.Outcome) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(r) {
		return false
	}
	e.outcomes = append(e.outcomes, o)
	e.state = mindlab.StateArmed
	e.stimulus = nil
	return true
}

func (e *Engine) arm(r *run, trial int, stim *mindlab.Stimulus, onset time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(r) {
		return
	}
	e.state = mindlab.StateArmed
	e.trial = trial
	e.stimulus = stim
	e.onset = onset
}

func (e *Engine) scoring(r *run) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current(r) {
		e.state = mindlab.StateScoring
	}
}

// interrupt reports why a trial was cut short.
func interrupt(ctx context.Context, r *run, deadline <-chan time.Time) (mindlab.CompleteReason, bool) {
	select {
	case <-r.abort:
		return mindlab.CompleteAborted, true
	case <-ctx.Done():
		return mindlab.CompleteAborted, true
	case <-deadline:
		return mindlab.CompleteTimeUp, true
	default:
		return "", false
	}
}

// runTrial presents stim and collects at most one response. ok is false
// when the run ends mid-trial; the trial is then discarded.
func (e *Engine) runTrial(ctx context.Context, spec mindlab.Spec, r *run, trial int, stim mindlab.Stimulus, deadline <-chan time.Time) (mindlab.Outcome, mindlab.CompleteReason, bool) {
	e.arm(r, trial, nil, time.Time{})

	if stim.Delay > 0 {
		wait := e.clock.After(stim.Delay)
	foreperiod:
		for {
			select {
			case <-r.abort:
				return mindlab.Outcome{}, mindlab.CompleteAborted, false
			case <-ctx.Done():
				return mindlab.Outcome{}, mindlab.CompleteAborted, false
			case <-deadline:
				return mindlab.Outcome{}, mindlab.CompleteTimeUp, false
			case in := <-r.inputs:
				e.ignore(r, trial, in, "foreperiod")
			case <-wait:
				break foreperiod
			}
		}
	}

	onset := e.clock.Now()
	e.arm(r, trial, &stim, onset)
	e.emitFor(r, mindlab.EventStimulusShown{Trial: trial, Stimulus: stim, At: onset})

	shown := stim.Duration
	if shown <= 0 {
		shown = spec.StimulusDuration
	}
	offset := e.clock.After(shown)
	window := e.clock.After(spec.ResponseWindow)

	c := collector{
		engine:   e,
		spec:     spec,
		run:      r,
		trial:    trial,
		onset:    onset,
		offsetAt: onset.Add(shown),
		closeAt:  onset.Add(spec.ResponseWindow),
	}

collect:
	for {
		select {
		case <-r.abort:
			return mindlab.Outcome{}, mindlab.CompleteAborted, false
		case <-ctx.Done():
			return mindlab.Outcome{}, mindlab.CompleteAborted, false
		case <-deadline:
			return mindlab.Outcome{}, mindlab.CompleteTimeUp, false
		case <-offset:
			offset = nil
			e.emitFor(r, mindlab.EventStimulusHidden{Trial: trial})
		case in := <-r.inputs:
			if c.accept(in) {
				break collect
			}
		case <-window:
			c.drain()
			break collect
		}
	}
	// A deadline or abort racing the window close wins.
	if reason, stopped := interrupt(ctx, r, deadline); stopped {
		return mindlab.Outcome{}, reason, false
	}
	if offset != nil {
		e.emitFor(r, mindlab.EventStimulusHidden{Trial: trial})
	}

	e.scoring(r)
	o := spec.Scorer(stim, c.response)
	o.Trial = trial
	o.Stimulus = stim
	o.Response = c.response
	return o, "", true
}

func (e *Engine) ignore(r *run, trial int, in input, why string) {
	e.logger.Debug("token ignored",
		zap.String("run_id", r.id),
		zap.Int("trial", trial),
		zap.String("token", in.token),
		zap.String("reason", why),
	)
}

// collector applies the qualifying rules for one trial.
type collector struct {
	engine   *Engine
	spec     mindlab.Spec
	run      *run
	trial    int
	onset    time.Time
	offsetAt time.Time
	closeAt  time.Time
	entry    strings.Builder
	response *mindlab.Response
}

// accept consumes one token and reports whether the window should close.
func (c *collector) accept(in input) bool {
	switch {
	case c.response != nil:
		c.engine.ignore(c.run, c.trial, in, "already responded")
		return false
	case in.at.Before(c.onset):
		c.engine.ignore(c.run, c.trial, in, "before onset")
		return false
	case !in.at.Before(c.closeAt):
		c.engine.ignore(c.run, c.trial, in, "after window")
		return false
	case c.spec.InputAfterOffset && in.at.Before(c.offsetAt):
		c.engine.ignore(c.run, c.trial, in, "during presentation")
		return false
	case !c.spec.Alphabet.Contains(in.token):
		c.engine.ignore(c.run, c.trial, in, "not in alphabet")
		return false
	}

	if c.spec.Terminator == "" {
		c.respond(in.token, in.at)
		return c.spec.CloseOnResponse
	}
	if in.token == c.spec.Terminator {
		c.respond(c.entry.String(), in.at)
		return true
	}
	c.entry.WriteString(in.token)
	c.engine.emitFor(c.run, mindlab.EventEntry{Trial: c.trial, Text: c.entry.String()})
	return false
}

func (c *collector) respond(token string, at time.Time) {
	rt := at.Sub(c.onset) - c.spec.Latency
	if rt < 0 {
		rt = 0
	}
	c.response = &mindlab.Response{Token: token, At: at, RT: rt}
}

// drain accepts tokens that were stamped before the window closed but not
// yet received.
func (c *collector) drain() {
	for {
		select {
		case in := <-c.run.inputs:
			c.accept(in)
		default:
			return
		}
	}
}
