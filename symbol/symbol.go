// Package symbol implements the Symbol Match test: a symbol appears and the
// participant presses its digit from the key. The run lasts a fixed time
// and the score is the number of correct matches.
package symbol

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/sequence"
)

var _ mindlab.Task = (*Task)(nil)

// Pair maps a symbol to its digit.
type Pair struct {
	Symbol string
	Digit  int
}

// DefaultPairs is the standard key.
var DefaultPairs = []Pair{
	{"▲", 1}, {"●", 2}, {"■", 3},
	{"★", 4}, {"♦", 5}, {"+", 6},
	{"♥", 7}, {"~", 8}, {"○", 9},
}

// Config controls a symbol match run.
type Config struct {
	Duration time.Duration
	Pairs    []Pair
}

// DefaultConfig returns a 90 second run with the standard key.
func DefaultConfig() Config {
	return Config{Duration: 90 * time.Second, Pairs: DefaultPairs}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("symbol: duration must be positive: %w", mindlab.ErrValidation)
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("symbol: key is empty: %w", mindlab.ErrValidation)
	}
	for _, p := range c.Pairs {
		if p.Digit < 1 || p.Digit > 9 {
			return fmt.Errorf("symbol: digit %d for %q outside 1-9: %w", p.Digit, p.Symbol, mindlab.ErrValidation)
		}
	}
	return nil
}

// Task is the symbol match test.
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
func (t *Task) Name() string { return "symbol" }

// Title returns the display title.
func (t *Task) Title() string { return "Symbol Match Challenge" }

// Key renders the symbol key on one line.
func (t *Task) Key() string {
	parts := make([]string, len(t.cfg.Pairs))
	for i, p := range t.cfg.Pairs {
		parts[i] = p.Symbol + " " + strconv.Itoa(p.Digit)
	}
	return strings.Join(parts, "   ")
}

// Instructions returns the intro text as markdown.
func (t *Task) Instructions() string {
	return fmt.Sprintf(`# Symbol Match

A symbol appears in the box. Press the **digit** that belongs to it.

%s

- you have **%d seconds**
- every correct match scores a point
- a wrong key moves on without a point

Press **enter** to begin.`, "`"+t.Key()+"`", int(t.cfg.Duration/time.Second))
}

// Spec builds an endless run bounded by the configured duration.
func (t *Task) Spec() (mindlab.Spec, error) {
	if err := t.cfg.Validate(); err != nil {
		return mindlab.Spec{}, err
	}
	pairs := t.cfg.Pairs
	return mindlab.Spec{
		StimulusDuration: t.cfg.Duration,
		ResponseWindow:   t.cfg.Duration,
		TimeLimit:        t.cfg.Duration,
		CloseOnResponse:  true,
		Alphabet:         mindlab.Digits(1, 9),
		Scorer:           Score,
		Sequence: sequence.Funcs{
			NextFn: func([]mindlab.Outcome) mindlab.Stimulus {
				p := pairs[t.rng.IntN(len(pairs))]
				return mindlab.Stimulus{Value: p.Symbol, Target: strconv.Itoa(p.Digit)}
			},
		},
	}, nil
}

// Present always shows the symbol.
func (t *Task) Present(s mindlab.Stimulus, elapsed time.Duration) string {
	return s.Value
}

// Score requires the digit that belongs to the symbol.
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

// Report shows the number of correct matches.
func (t *Task) Report(outcomes []mindlab.Outcome) mindlab.Report {
	stats := mindlab.Summarize(outcomes)
	return mindlab.Report{
		Stats:   stats,
		Verdict: Classify(stats.Hits),
		Metrics: []mindlab.Metric{
			{Label: "Score", Value: strconv.Itoa(stats.Hits)},
			{Label: "Mistakes", Value: strconv.Itoa(stats.Errors)},
		},
	}
}

// Classify maps the score to a verdict.
func Classify(score int) mindlab.Verdict {
	switch {
	case score >= 60:
		return mindlab.Verdict{
			Label:   "Exceptional Processing Speed",
			Message: "Outstanding! Your ability to process visual information and apply rules is exceptionally fast.",
		}
	case score >= 45:
		return mindlab.Verdict{
			Label:   "Fast Processing Speed",
			Message: "Great job. A fast and efficient processing speed lets you learn and react to new information quickly.",
		}
	case score >= 30:
		return mindlab.Verdict{
			Label:   "Average Processing Speed",
			Message: "A solid performance within the typical range for most adults.",
		}
	default:
		return mindlab.Verdict{
			Label:   "Below Average Processing Speed",
			Message: "A bit below the typical average. Processing speed is influenced by fatigue and distraction.",
		}
	}
}
