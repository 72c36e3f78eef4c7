// Package reflex implements the Visual Reflex test: after a random
// foreperiod a digit appears and the participant presses the same digit as
// fast as possible.
package reflex

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/sequence"
)

var _ mindlab.Task = (*Task)(nil)

// Round limits.
const (
	MinRounds = 5
	MaxRounds = 50
)

// Config controls a reflex run.
type Config struct {
	Rounds   int
	MinDelay time.Duration // shortest foreperiod
	MaxDelay time.Duration // longest foreperiod
	Window   time.Duration // how long a digit waits for a press

	// Latency is the device delay subtracted from every reaction time,
	// usually measured with Calibrate.
	Latency time.Duration
}

// DefaultConfig returns 20 rounds with a 1-3 second foreperiod.
func DefaultConfig() Config {
	return Config{
		Rounds:   20,
		MinDelay: 1 * time.Second,
		MaxDelay: 3 * time.Second,
		Window:   10 * time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Rounds < MinRounds || c.Rounds > MaxRounds {
		return fmt.Errorf("reflex: rounds must be between %d and %d, got %d: %w", MinRounds, MaxRounds, c.Rounds, mindlab.ErrValidation)
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("reflex: invalid foreperiod range %s-%s: %w", c.MinDelay, c.MaxDelay, mindlab.ErrValidation)
	}
	if c.Window <= 0 {
		return fmt.Errorf("reflex: window must be positive: %w", mindlab.ErrValidation)
	}
	return nil
}

// Task is the visual reflex test.
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

// SetLatency replaces the device delay correction used by later runs.
func (t *Task) SetLatency(d time.Duration) { t.cfg.Latency = d }

// Name returns the command name.
func (t *Task) Name() string { return "reflex" }

// Title returns the display title.
func (t *Task) Title() string { return "Visual Reflex Test" }

// Instructions returns the intro text as markdown.
func (t *Task) Instructions() string {
	return fmt.Sprintf(`# Visual Reflex

Watch the dot. After a short random wait a digit from **1** to **9**
replaces it. Press **that digit** as fast as you can.

- %d rounds
- pressing before the digit appears does not count
- only correct presses count toward your average time

Press **enter** to begin.`, t.cfg.Rounds)
}

// Spec builds a run whose rounds each wait for one press.
func (t *Task) Spec() (mindlab.Spec, error) {
	if err := t.cfg.Validate(); err != nil {
		return mindlab.Spec{}, err
	}
	rounds := t.cfg.Rounds
	return mindlab.Spec{
		StimulusDuration: t.cfg.Window,
		ResponseWindow:   t.cfg.Window,
		Alphabet:         mindlab.Digits(1, 9),
		CloseOnResponse:  true,
		Latency:          t.cfg.Latency,
		Scorer:           Score,
		Sequence: sequence.Funcs{
			ContinueFn: func(o []mindlab.Outcome) bool { return len(o) < rounds },
			NextFn:     func([]mindlab.Outcome) mindlab.Stimulus { return t.next() },
		},
	}, nil
}

func (t *Task) next() mindlab.Stimulus {
	d := strconv.Itoa(t.rng.IntN(9) + 1)
	delay := t.cfg.MinDelay
	if spread := t.cfg.MaxDelay - t.cfg.MinDelay; spread > 0 {
		// Millisecond resolution, both ends inclusive.
		delay += time.Duration(t.rng.Int64N(int64(spread/time.Millisecond)+1)) * time.Millisecond
	}
	return mindlab.Stimulus{Value: d, Target: d, Delay: delay}
}

// Present shows the digit for as long as it waits for a press.
func (t *Task) Present(s mindlab.Stimulus, elapsed time.Duration) string {
	return s.Value
}

// Score requires the pressed digit to match the one shown.
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

// Report shows the mean reaction time over correct presses and accuracy.
func (t *Task) Report(outcomes []mindlab.Outcome) mindlab.Report {
	stats := mindlab.Summarize(outcomes)
	avg := int(stats.MeanRT / time.Millisecond)
	return mindlab.Report{
		Stats:   stats,
		Verdict: Classify(avg, stats.Accuracy),
		Metrics: []mindlab.Metric{
			{Label: "Average time", Value: fmt.Sprintf("%d ms", avg)},
			{Label: "Accuracy", Value: fmt.Sprintf("%d%%", stats.Accuracy)},
			{Label: "Correct", Value: fmt.Sprintf("%d / %d", stats.Correct, stats.Trials)},
		},
	}
}

// Classify maps mean reaction time in milliseconds and accuracy percent to
// a verdict. Below 90% accuracy the time is not trusted.
func Classify(avgMS, accuracy int) mindlab.Verdict {
	switch {
	case accuracy < 90:
		return mindlab.Verdict{
			Label: "Inconclusive",
			Message: "Your accuracy was below 90%. This can happen if you're distracted or rushing, and the " +
				"reaction time isn't reliable without high accuracy.\n\nPlease try again, focusing on pressing the **correct** key.",
		}
	case avgMS < 300 && accuracy >= 95:
		return mindlab.Verdict{
			Label:   "Exceptional Reflexes",
			Message: "Outstanding! Your visual reflexes are extremely fast and precise. You're in the top tier.",
		}
	case avgMS >= 300 && avgMS < 450 && accuracy >= 95:
		return mindlab.Verdict{
			Label:   "Fast Reflexes",
			Message: "Great job! You have fast and reliable reflexes, a strong link between what you see and how you respond.",
		}
	case avgMS >= 450 && avgMS <= 600:
		return mindlab.Verdict{
			Label:   "Average Reflexes",
			Message: "A solid performance. Your reaction time falls within the typical range for most people.",
		}
	case avgMS > 600:
		return mindlab.Verdict{
			Label:   "Slower Than Average",
			Message: "A bit slower than the typical average. Fatigue, distraction or a relaxed day all influence this score. Try again when you're fresh.",
		}
	default:
		return mindlab.Verdict{Label: "Result"}
	}
}
