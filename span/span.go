// Package span implements the forward Memory Span test.
package span

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/sequence"
)

var _ mindlab.Task = (*Task)(nil)

// Terminator submits a typed sequence.
const Terminator = "#"

// Placeholder is shown between digits.
const Placeholder = "•"

// Config controls the staircase and the time allowed for typing.
type Config struct {
	Span       sequence.SpanConfig
	EntryLimit time.Duration // time to type an answer once presentation ends
}

// DefaultConfig starts at three digits, shows each for 900ms with a 250ms
// gap, and allows a minute to type.
func DefaultConfig() Config {
	return Config{
		Span:       sequence.DefaultSpanConfig(),
		EntryLimit: time.Minute,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Span.StartLength < 1 || c.Span.Attempts < 1 || c.Span.MaxRounds < 1 {
		return fmt.Errorf("span: start length, attempts and rounds must be positive: %w", mindlab.ErrValidation)
	}
	if c.Span.ItemTime <= 0 || c.EntryLimit <= 0 {
		return fmt.Errorf("span: durations must be positive: %w", mindlab.ErrValidation)
	}
	return nil
}

// Task is the memory span test.
type Task struct {
	cfg Config
	rng *rand.Rand
}

// New creates the task. A nil rng uses a randomly seeded source.
func New(cfg Config, rng *rand.Rand) *Task {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Task{cfg: cfg, rng: rng}
}

// Name returns the command name.
func (t *Task) Name() string { return "span" }

// Title returns the display title.
func (t *Task) Title() string { return "Memory Span Challenge" }

// Instructions returns the intro text as markdown.
func (t *Task) Instructions() string {
	return fmt.Sprintf(`# Memory Span

Digits flash one at a time. When they stop, type them back **in the same
order** and press **#**.

- the first sequence has %d digits
- you get %d tries at each length
- a correct answer makes the next sequence one digit longer

Press **enter** to begin.`, t.cfg.Span.StartLength, t.cfg.Span.Attempts)
}

// Spec builds an adaptive run. The response window covers the longest
// presentation plus the entry limit.
func (t *Task) Spec() (mindlab.Spec, error) {
	if err := t.cfg.Validate(); err != nil {
		return mindlab.Spec{}, err
	}
	seq := sequence.NewSpan(t.cfg.Span, t.rng)
	longest := t.cfg.Span.StartLength + t.cfg.Span.MaxRounds
	return mindlab.Spec{
		StimulusDuration: t.cfg.Span.ItemTime,
		ResponseWindow:   seq.PresentationTime(longest) + t.cfg.EntryLimit,
		Alphabet:         mindlab.Digits(0, 9).Union(Terminator),
		Terminator:       Terminator,
		InputAfterOffset: true,
		Sequence:         seq,
		Scorer:           Score,
	}, nil
}

// Present returns the digit on screen elapsed into the presentation, the
// placeholder during gaps, and "" once every digit has been shown.
func (t *Task) Present(s mindlab.Stimulus, elapsed time.Duration) string {
	cycle := t.cfg.Span.ItemTime + t.cfg.Span.GapTime
	if elapsed < 0 || cycle <= 0 {
		return Placeholder
	}
	i := int(elapsed / cycle)
	if i >= len(s.Value) {
		return ""
	}
	if elapsed%cycle < t.cfg.Span.ItemTime {
		return s.Value[i : i+1]
	}
	return Placeholder
}

// Score compares the typed digits with the sequence shown.
func Score(s mindlab.Stimulus, r *mindlab.Response) mindlab.Outcome {
	switch {
	case r == nil:
		return mindlab.Outcome{Category: mindlab.CategoryMiss}
	case r.Token == s.Target:
		return mindlab.Outcome{Correct: true, Category: mindlab.CategoryHit}
	default:
		return mindlab.Outcome{Category: mindlab.CategoryError}
	}
}

// Report shows the longest sequence recalled.
func (t *Task) Report(outcomes []mindlab.Outcome) mindlab.Report {
	best := sequence.BestSpan(outcomes)
	stats := mindlab.Summarize(outcomes)
	return mindlab.Report{
		Stats:   stats,
		Verdict: Classify(best),
		Metrics: []mindlab.Metric{
			{Label: "Forward span", Value: strconv.Itoa(best)},
			{Label: "Attempts", Value: strconv.Itoa(stats.Trials)},
		},
	}
}

// Classify maps the best span to a verdict.
func Classify(best int) mindlab.Verdict {
	switch {
	case best >= 6:
		return mindlab.Verdict{
			Label:   "Exceptional Memory",
			Message: "Outstanding! An exceptional ability to recall information is a key sign of a powerful working memory.",
		}
	case best == 5:
		return mindlab.Verdict{
			Label:   "Strong Memory",
			Message: "A strong and healthy memory capacity, in the upper end of the typical range for adults.",
		}
	case best == 4:
		return mindlab.Verdict{
			Label:   "Average Memory",
			Message: "A solid result within the normal range for most adults.",
		}
	default:
		return mindlab.Verdict{
			Label: "Below Average Memory",
			Message: "A bit below the typical range. Fatigue, stress or lack of focus can significantly impact memory. " +
				"Try again when you're feeling fresh. This is a single snapshot, not a diagnosis.",
		}
	}
}
