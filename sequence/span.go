package sequence

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/mindlab"
)

// SpanConfig controls the adaptive span staircase.
type SpanConfig struct {
	StartLength int // digits in the first sequence
	Attempts    int // tries granted per length
	MaxRounds   int // levels attempted before the run stops
	ItemTime    time.Duration
	GapTime     time.Duration
}

// DefaultSpanConfig returns the staircase used by the memory span test.
func DefaultSpanConfig() SpanConfig {
	return SpanConfig{
		StartLength: 3,
		Attempts:    2,
		MaxRounds:   5,
		ItemTime:    900 * time.Millisecond,
		GapTime:     250 * time.Millisecond,
	}
}

// Span is an adaptive forward digit span. It starts at StartLength and
// grants Attempts tries per length. A correct recall advances the length by
// one and counts as a round. The run stops when every attempt at one length
// fails or after MaxRounds rounds.
//
// Span keeps no state of its own; the position is replayed from the
// outcomes on every call.
type Span struct {
	cfg SpanConfig
	rng *rand.Rand
}

// NewSpan returns an adaptive span sequence drawing digits from rng.
// Non-positive config fields take their defaults.
func NewSpan(cfg SpanConfig, rng *rand.Rand) *Span {
	def := DefaultSpanConfig()
	if cfg.StartLength <= 0 {
		cfg.StartLength = def.StartLength
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = def.MaxRounds
	}
	if cfg.ItemTime <= 0 {
		cfg.ItemTime = def.ItemTime
	}
	if cfg.GapTime <= 0 {
		cfg.GapTime = def.GapTime
	}
	return &Span{cfg: cfg, rng: rng}
}

type spanState struct {
	length, failures, rounds int
	done                     bool
}

func (s *Span) replay(outcomes []mindlab.Outcome) spanState {
	st := spanState{length: s.cfg.StartLength}
	for _, o := range outcomes {
		if o.Correct {
			st.rounds++
			st.length++
			st.failures = 0
			continue
		}
		st.failures++
		if st.failures >= s.cfg.Attempts {
			st.rounds++
			st.done = true
			break
		}
	}
	if st.rounds >= s.cfg.MaxRounds {
		st.done = true
	}
	return st
}

// Continue reports whether another attempt is due.
func (s *Span) Continue(outcomes []mindlab.Outcome) bool {
	return !s.replay(outcomes).done
}

// Next draws a fresh random digit string at the current length. Its Duration
// covers the whole presentation of every digit.
func (s *Span) Next(outcomes []mindlab.Outcome) mindlab.Stimulus {
	length := s.replay(outcomes).length
	var b strings.Builder
	for range length {
		b.WriteString(strconv.Itoa(s.rng.IntN(10)))
	}
	digits := b.String()
	return mindlab.Stimulus{
		Value:    digits,
		Target:   digits,
		Level:    length,
		Duration: s.PresentationTime(length),
	}
}

// PresentationTime is how long a sequence of n digits stays on screen.
func (s *Span) PresentationTime(n int) time.Duration {
	return time.Duration(n) * (s.cfg.ItemTime + s.cfg.GapTime)
}

// Config returns the effective configuration.
func (s *Span) Config() SpanConfig { return s.cfg }

// BestSpan returns the longest length recalled correctly, or 0.
func BestSpan(outcomes []mindlab.Outcome) int {
	best := 0
	for _, o := range outcomes {
		if o.Correct && o.Stimulus.Level > best {
			best = o.Stimulus.Level
		}
	}
	return best
}
