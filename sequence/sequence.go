// Package sequence provides mindlab.Sequence implementations: fixed and
// shuffled trial lists, function adapters and the adaptive digit span.
package sequence

import (
	"math/rand/v2"
	"slices"

	"github.com/fwojciec/mindlab"
)

// Interface compliance checks.
var (
	_ mindlab.Sequence = (*Fixed)(nil)
	_ mindlab.Sequence = Funcs{}
	_ mindlab.Sequence = (*Span)(nil)
)

// Fixed presents a predetermined list of stimuli in order.
type Fixed struct {
	items []mindlab.Stimulus
}

// NewFixed returns a sequence of items in the given order.
func NewFixed(items ...mindlab.Stimulus) *Fixed {
	return &Fixed{items: slices.Clone(items)}
}

// Shuffled returns a Fixed sequence of items in random order. The caller's
// slice is left untouched.
func Shuffled(rng *rand.Rand, items []mindlab.Stimulus) *Fixed {
	shuffled := slices.Clone(items)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &Fixed{items: shuffled}
}

// Continue reports whether items remain.
func (f *Fixed) Continue(outcomes []mindlab.Outcome) bool {
	return len(outcomes) < len(f.items)
}

// Next returns the stimulus for the next trial.
func (f *Fixed) Next(outcomes []mindlab.Outcome) mindlab.Stimulus {
	return f.items[len(outcomes)]
}

// Len returns the number of trials.
func (f *Fixed) Len() int { return len(f.items) }

// Items returns a copy of the trial list.
func (f *Fixed) Items() []mindlab.Stimulus { return slices.Clone(f.items) }

// Funcs adapts plain functions to mindlab.Sequence. A nil ContinueFn never
// stops, so the run ends only by abort or time limit.
type Funcs struct {
	ContinueFn func(outcomes []mindlab.Outcome) bool
	NextFn     func(outcomes []mindlab.Outcome) mindlab.Stimulus
}

// Continue delegates to ContinueFn.
func (f Funcs) Continue(outcomes []mindlab.Outcome) bool {
	if f.ContinueFn == nil {
		return true
	}
	return f.ContinueFn(outcomes)
}

// Next delegates to NextFn.
func (f Funcs) Next(outcomes []mindlab.Outcome) mindlab.Stimulus {
	return f.NextFn(outcomes)
}
