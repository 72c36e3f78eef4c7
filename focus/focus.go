// Package focus implements the Focus & Control go/no-go test.
//
// Digits are shown one at a time. The participant presses any key for every
// digit except the no-go digit, which must be withheld. Pressing on the
// no-go digit is a commission error; staying silent on a go digit is an
// omission error.
package focus

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/sequence"
)

var _ mindlab.Task = (*Task)(nil)

// Config controls the trial mix and timing.
type Config struct {
	GoDigits         []int
	NoGoDigit        int
	GoTrials         int
	NoGoTrials       int
	StimulusDuration time.Duration
	ResponseWindow   time.Duration
}

// DefaultConfig returns 30 go and 10 no-go trials shown for one second with
// a 1.5 second response window.
func DefaultConfig() Config {
	return Config{
		GoDigits:         []int{1, 2, 4, 5, 6, 7, 8, 9},
		NoGoDigit:        3,
		GoTrials:         30,
		NoGoTrials:       10,
		StimulusDuration: 1000 * time.Millisecond,
		ResponseWindow:   1500 * time.Millisecond,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if len(c.GoDigits) == 0 {
		return fmt.Errorf("focus: go digits are required: %w", mindlab.ErrValidation)
	}
	if slices.Contains(c.GoDigits, c.NoGoDigit) {
		return fmt.Errorf("focus: no-go digit %d is also a go digit: %w", c.NoGoDigit, mindlab.ErrValidation)
	}
	for _, d := range append(slices.Clone(c.GoDigits), c.NoGoDigit) {
		if d < 1 || d > 9 {
			return fmt.Errorf("focus: digit %d outside 1-9: %w", d, mindlab.ErrValidation)
		}
	}
	if c.GoTrials < 0 || c.NoGoTrials < 0 || c.GoTrials+c.NoGoTrials == 0 {
		return fmt.Errorf("focus: need at least one trial: %w", mindlab.ErrValidation)
	}
	if c.StimulusDuration <= 0 || c.ResponseWindow <= 0 {
		return fmt.Errorf("focus: durations must be positive: %w", mindlab.ErrValidation)
	}
	return nil
}

// Task is the go/no-go test.
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
func (t *Task) Name() string { return "focus" }

// Title returns the display title.
func (t *Task) Title() string { return "Focus & Control Challenge" }

// Instructions returns the intro text as markdown.
func (t *Task) Instructions() string {
	return fmt.Sprintf(`# Focus & Control

Digits appear one at a time. Press **any digit key** as soon as you see a
number, *except* when the number is **%d**. Then do nothing.

- %d trials, each shown for %s
- respond within %s of the number appearing
- speed matters, but holding back on **%d** matters more

Press **enter** to begin.`,
		t.cfg.NoGoDigit,
		t.cfg.GoTrials+t.cfg.NoGoTrials,
		t.cfg.StimulusDuration,
		t.cfg.ResponseWindow,
		t.cfg.NoGoDigit,
	)
}

// Spec builds a freshly shuffled run.
func (t *Task) Spec() (mindlab.Spec, error) {
	if err := t.cfg.Validate(); err != nil {
		return mindlab.Spec{}, err
	}
	items := make([]mindlab.Stimulus, 0, t.cfg.GoTrials+t.cfg.NoGoTrials)
	for range t.cfg.GoTrials {
		d := strconv.Itoa(t.cfg.GoDigits[t.rng.IntN(len(t.cfg.GoDigits))])
		items = append(items, mindlab.Stimulus{Value: d, Target: d})
	}
	for range t.cfg.NoGoTrials {
		items = append(items, mindlab.Stimulus{Value: strconv.Itoa(t.cfg.NoGoDigit)})
	}
	return mindlab.Spec{
		StimulusDuration: t.cfg.StimulusDuration,
		ResponseWindow:   t.cfg.ResponseWindow,
		Alphabet:         mindlab.Digits(1, 9),
		Sequence:         sequence.Shuffled(t.rng, items),
		Scorer:           Score,
	}, nil
}

// Present shows the digit until offset and a dot for the rest of the window.
func (t *Task) Present(s mindlab.Stimulus, elapsed time.Duration) string {
	if elapsed < t.cfg.StimulusDuration {
		return s.Value
	}
	return "•"
}

// Score treats any response on a go trial as a hit; the digit pressed is not
// compared with the one shown.
func Score(s mindlab.Stimulus, r *mindlab.Response) mindlab.Outcome {
	switch {
	case s.Go() && r != nil:
		return mindlab.Outcome{Correct: true, Category: mindlab.CategoryHit}
	case s.Go():
		return mindlab.Outcome{Category: mindlab.CategoryMiss}
	case r != nil:
		return mindlab.Outcome{Category: mindlab.CategoryFalseAlarm}
	default:
		return mindlab.Outcome{Correct: true, Category: mindlab.CategoryMiss}
	}
}

// Report counts commission and omission errors.
func (t *Task) Report(outcomes []mindlab.Outcome) mindlab.Report {
	stats := mindlab.Summarize(outcomes)
	return mindlab.Report{
		Stats:   stats,
		Verdict: Classify(stats.FalseAlarms, stats.OmissionErrors),
		Metrics: []mindlab.Metric{
			{Label: "Commission errors", Value: strconv.Itoa(stats.FalseAlarms)},
			{Label: "Omission errors", Value: strconv.Itoa(stats.OmissionErrors)},
			{Label: "Accuracy", Value: fmt.Sprintf("%d%%", stats.Accuracy)},
		},
	}
}

// Classify maps error counts to a verdict.
func Classify(commission, omission int) mindlab.Verdict {
	switch {
	case commission == 0 && omission <= 1:
		return mindlab.Verdict{
			Label:   "Excellent Focus & Control",
			Message: "Outstanding! You demonstrated exceptional focus and self-control. Your ability to inhibit automatic responses is highly developed.",
		}
	case commission == 1 && omission <= 2:
		return mindlab.Verdict{
			Label:   "Good Focus & Control",
			Message: "Great performance! You have strong inhibitory control and a reliable ability to maintain focus, with only minor lapses.",
		}
	case commission == 2 && omission <= 3:
		return mindlab.Verdict{
			Label:   "Average Focus & Control",
			Message: "A solid result. Your ability to manage impulses and maintain attention falls within the typical range.",
		}
	case commission >= 3 || omission >= 4:
		return mindlab.Verdict{
			Label: "Below Average Focus & Control",
			Message: "Your score shows some difficulty with either *response control* (pressing when you shouldn't) or " +
				"*sustained attention* (not pressing when you should). Fatigue, stress or a wandering mind can greatly " +
				"affect this skill. This is a single snapshot, not a diagnosis.",
		}
	default:
		return mindlab.Verdict{Label: "Result"}
	}
}
