package mindlab

import (
	"slices"
	"strconv"
	"time"
)

// Stimulus is what a single trial presents.
type Stimulus struct {
	Value  string // presented to the participant
	Target string // expected response; empty means withhold (no-go)
	Level  int    // difficulty level for adaptive sequences, e.g. span length

	// Delay is the foreperiod waited before onset. Inputs during the delay
	// never qualify.
	Delay time.Duration

	// Duration overrides Spec.StimulusDuration for this trial when positive.
	Duration time.Duration
}

// Go reports whether the trial requires a response.
func (s Stimulus) Go() bool { return s.Target != "" }

// Response is the first qualifying input of a trial.
type Response struct {
	Token string
	At    time.Time     // arrival, stamped by the engine clock
	RT    time.Duration // latency from onset, never negative
}

// Category classifies a trial outcome.
type Category string

const (
	CategoryHit        Category = "hit"
	CategoryMiss       Category = "miss"        // omission: no qualifying response
	CategoryFalseAlarm Category = "false_alarm" // commission: responded on a no-go
	CategoryError      Category = "error"       // responded with the wrong token
)

// Outcome is the immutable record of one completed trial.
type Outcome struct {
	Trial    int
	Stimulus Stimulus
	Response *Response // nil when nothing qualified before the window closed
	Correct  bool
	Category Category
}

// ReactionTime returns the recorded latency and whether one exists.
func (o Outcome) ReactionTime() (time.Duration, bool) {
	if o.Response == nil {
		return 0, false
	}
	return o.Response.RT, true
}

// Sequence decides which stimulus comes next given the outcomes recorded so
// far. Continue is consulted before every trial, so fixed-length and
// adaptive, early-terminating tests share one engine.
type Sequence interface {
	Continue(outcomes []Outcome) bool
	Next(outcomes []Outcome) Stimulus
}

// Scorer turns a stimulus and the qualifying response (nil if none) into an
// Outcome. The engine overwrites Trial, Stimulus and Response on the result.
type Scorer func(s Stimulus, r *Response) Outcome

// Alphabet is the set of tokens that may qualify as a response.
type Alphabet struct {
	tokens map[string]struct{}
}

// NewAlphabet returns an alphabet of the given tokens.
func NewAlphabet(tokens ...string) Alphabet {
	a := Alphabet{tokens: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		a.tokens[t] = struct{}{}
	}
	return a
}

// Digits returns the alphabet of single decimal digits lo..hi inclusive.
func Digits(lo, hi int) Alphabet {
	var tokens []string
	for d := lo; d <= hi; d++ {
		tokens = append(tokens, strconv.Itoa(d))
	}
	return NewAlphabet(tokens...)
}

// Contains reports whether token is in the alphabet.
func (a Alphabet) Contains(token string) bool {
	_, ok := a.tokens[token]
	return ok
}

// Len returns the number of tokens.
func (a Alphabet) Len() int { return len(a.tokens) }

// Union returns a new alphabet holding the tokens of a plus extra.
func (a Alphabet) Union(extra ...string) Alphabet {
	return NewAlphabet(append(a.Tokens(), extra...)...)
}

// Tokens returns the tokens in sorted order.
func (a Alphabet) Tokens() []string {
	out := make([]string, 0, len(a.tokens))
	for t := range a.tokens {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Spec configures one test run. It is not mutated while the run is live.
type Spec struct {
	StimulusDuration time.Duration
	ResponseWindow   time.Duration // anchored to stimulus onset
	Alphabet         Alphabet
	Sequence         Sequence
	Scorer           Scorer

	// Latency is an estimated device/render delay subtracted from every
	// reaction time. Results are clamped at zero.
	Latency time.Duration

	// CloseOnResponse closes the window as soon as a response qualifies.
	CloseOnResponse bool

	// Terminator enables free-text entry: alphabet tokens accumulate until
	// the terminator arrives and the accumulated text becomes the response.
	Terminator string

	// InputAfterOffset ignores tokens that arrive while the stimulus is
	// still being presented.
	InputAfterOffset bool

	// TimeLimit bounds the whole run when positive. When it expires the run
	// completes with the outcomes recorded so far.
	TimeLimit time.Duration
}
