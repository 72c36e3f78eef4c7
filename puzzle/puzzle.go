// Package puzzle implements the Sequence Solver test: complete as many
// number sequences as possible before the clock runs out.
package puzzle

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

// Terminator submits a typed answer.
const Terminator = "#"

// Puzzle is one number sequence and the value that continues it.
type Puzzle struct {
	Seq    []int
	Answer string
	Hint   string
}

// Display renders the sequence with a blank for the answer.
func (p Puzzle) Display() string {
	parts := make([]string, 0, len(p.Seq)+1)
	for _, n := range p.Seq {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(append(parts, "_"), ", ")
}

// DefaultPuzzles are presented in order.
var DefaultPuzzles = []Puzzle{
	{Seq: []int{2, 4, 6, 8}, Answer: "10"},
	{Seq: []int{15, 13, 11, 9}, Answer: "7"},
	{Seq: []int{5, 6, 8, 11}, Answer: "15", Hint: "+1, +2, +3, ..."},
	{Seq: []int{2, 8, 3, 8, 4}, Answer: "8", Hint: "Alternating pattern"},
	{Seq: []int{1, 4, 9, 16}, Answer: "25", Hint: "Squares"},
	{Seq: []int{2, 3, 5, 7}, Answer: "11", Hint: "Primes"},
	{Seq: []int{1, 1, 2, 3}, Answer: "5", Hint: "Fibonacci-like"},
	{Seq: []int{3, 6, 12, 24}, Answer: "48", Hint: "Doubling"},
	{Seq: []int{4, 9, 16, 25}, Answer: "36", Hint: "Squares"},
	{Seq: []int{2, 5, 10, 17}, Answer: "26", Hint: "+3, +5, +7, ..."},
	{Seq: []int{1, 2, 4, 7}, Answer: "11", Hint: "+1, +2, +3, ..."},
	{Seq: []int{2, 2, 2, 2}, Answer: "2", Hint: "Constant"},
	{Seq: []int{1, 3, 6, 10}, Answer: "15", Hint: "Triangular numbers"},
	{Seq: []int{2, 5, 11, 23}, Answer: "47", Hint: "Differences double"},
	{Seq: []int{9, 7, 5, 3}, Answer: "1", Hint: "Subtract 2"},
	{Seq: []int{5, 10, 20, 40}, Answer: "80", Hint: "Multiply by 2"},
	{Seq: []int{3, 5, 9, 17}, Answer: "33", Hint: "Differences double"},
	{Seq: []int{2, 4, 8, 14}, Answer: "22", Hint: "+2, +4, +6, ..."},
	{Seq: []int{1, 8, 27, 64}, Answer: "125", Hint: "Cubes"},
	{Seq: []int{2, 6, 12, 20}, Answer: "30", Hint: "+4, +6, +8, ..."},
}

// Config controls a sequence solver run.
type Config struct {
	TimeLimit   time.Duration // for the whole run
	FeedbackGap time.Duration // pause after each answer
	Puzzles     []Puzzle
}

// DefaultConfig returns the 20 standard puzzles with 25 seconds in total.
func DefaultConfig() Config {
	return Config{
		TimeLimit:   25 * time.Second,
		FeedbackGap: 600 * time.Millisecond,
		Puzzles:     DefaultPuzzles,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TimeLimit <= 0 {
		return fmt.Errorf("puzzle: time limit must be positive: %w", mindlab.ErrValidation)
	}
	if c.FeedbackGap < 0 {
		return fmt.Errorf("puzzle: feedback gap must be non-negative: %w", mindlab.ErrValidation)
	}
	if len(c.Puzzles) == 0 {
		return fmt.Errorf("puzzle: no puzzles: %w", mindlab.ErrValidation)
	}
	for i, p := range c.Puzzles {
		if _, err := strconv.Atoi(p.Answer); err != nil {
			return fmt.Errorf("puzzle %d: answer %q is not a number: %w", i+1, p.Answer, mindlab.ErrValidation)
		}
	}
	return nil
}

// Task is the sequence solver.
type Task struct {
	cfg Config
}

// New creates the task. Puzzles are presented in order, so rng is unused
// and may be nil; it is accepted to match the other tasks.
func New(cfg Config, _ *rand.Rand) *Task {
	return &Task{cfg: cfg}
}

// Name returns the command name.
func (t *Task) Name() string { return "puzzle" }

// Title returns the display title.
func (t *Task) Title() string { return "Sequence Solver Challenge" }

// Instructions returns the intro text as markdown.
func (t *Task) Instructions() string {
	return fmt.Sprintf(`# Sequence Solver

Each puzzle is a short run of numbers with a blank at the end. Work out the
rule, type the **next number** and press **#**.

- %d puzzles
- **%d seconds** for all of them
- the clock does not stop between puzzles

Press **enter** to begin.`, len(t.cfg.Puzzles), int(t.cfg.TimeLimit/time.Second))
}

// Spec builds the puzzle run. Every puzzle after the first waits for the
// feedback gap before it appears.
func (t *Task) Spec() (mindlab.Spec, error) {
	if err := t.cfg.Validate(); err != nil {
		return mindlab.Spec{}, err
	}
	items := make([]mindlab.Stimulus, len(t.cfg.Puzzles))
	for i, p := range t.cfg.Puzzles {
		items[i] = mindlab.Stimulus{Value: p.Display(), Target: p.Answer, Level: i}
		if i > 0 {
			items[i].Delay = t.cfg.FeedbackGap
		}
	}
	return mindlab.Spec{
		StimulusDuration: t.cfg.TimeLimit,
		ResponseWindow:   t.cfg.TimeLimit,
		TimeLimit:        t.cfg.TimeLimit,
		Alphabet:         mindlab.Digits(0, 9).Union(Terminator),
		Terminator:       Terminator,
		Sequence:         sequence.NewFixed(items...),
		Scorer:           Score,
	}, nil
}

// Present shows the sequence.
func (t *Task) Present(s mindlab.Stimulus, elapsed time.Duration) string {
	return s.Value
}

// Score compares the typed answer with the expected number.
func Score(s mindlab.Stimulus, r *mindlab.Response) mindlab.Outcome {
	switch {
	case r == nil:
		return mindlab.Outcome{Category: mindlab.CategoryMiss}
	case strings.TrimSpace(r.Token) == s.Target:
		return mindlab.Outcome{Correct: true, Category: mindlab.CategoryHit}
	default:
		return mindlab.Outcome{Category: mindlab.CategoryError}
	}
}

// Feedback returns the line shown after an answer.
func Feedback(o mindlab.Outcome) string {
	if o.Correct {
		return "Correct!"
	}
	return fmt.Sprintf("Incorrect (%s)", o.Stimulus.Target)
}

// Feedback returns the line shown after an answer.
func (t *Task) Feedback(o mindlab.Outcome) string { return Feedback(o) }

// Report shows the number of puzzles solved.
func (t *Task) Report(outcomes []mindlab.Outcome) mindlab.Report {
	stats := mindlab.Summarize(outcomes)
	return mindlab.Report{
		Stats:   stats,
		Verdict: Classify(stats.Hits, len(t.cfg.Puzzles)),
		Metrics: []mindlab.Metric{
			{Label: "Solved", Value: fmt.Sprintf("%d / %d", stats.Hits, len(t.cfg.Puzzles))},
		},
	}
}

// Classify maps the score out of total to a verdict.
func Classify(score, total int) mindlab.Verdict {
	switch {
	case total > 0 && score == total:
		return mindlab.Verdict{
			Label:   "Genius-Level Reasoning",
			Message: "Amazing! You solved every puzzle within the time limit. Exceptional pattern recognition and speed.",
		}
	case score >= 12:
		return mindlab.Verdict{
			Label:   "Exceptional Logical Reasoning",
			Message: "Excellent performance. Very strong problem-solving skills and rapid pattern detection.",
		}
	case score > 5:
		return mindlab.Verdict{
			Label:   "Above Average Reasoning",
			Message: "A strong result. Your ability to see patterns is above average for this task.",
		}
	case score == 5:
		return mindlab.Verdict{
			Label:   "Average Reasoning",
			Message: "A solid, average performance. Five puzzles is the expected result under this tight time limit.",
		}
	default:
		return mindlab.Verdict{
			Label:   "Below Average Reasoning",
			Message: "Below average for this task. Practice with pattern recognition and timed puzzles to improve.",
		}
	}
}
