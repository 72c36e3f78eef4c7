package symbol_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Spec(t *testing.T) {
	t.Parallel()

	task := symbol.New(symbol.DefaultConfig(), rand.New(rand.NewPCG(5, 5)))
	spec, err := task.Spec()
	require.NoError(t, err)
	require.NoError(t, spec.Validate())

	assert.Equal(t, 90*time.Second, spec.TimeLimit)
	assert.True(t, spec.CloseOnResponse)
	assert.True(t, spec.Sequence.Continue(make([]mindlab.Outcome, 500)))

	digits := map[string]string{}
	for _, p := range symbol.DefaultPairs {
		digits[p.Symbol] = string(rune('0' + p.Digit))
	}
	for range 50 {
		s := spec.Sequence.Next(nil)
		assert.Equal(t, digits[s.Value], s.Target, "symbol %q", s.Value)
		assert.Equal(t, s.Value, task.Present(s, time.Hour))
	}
}

func TestTask_Key(t *testing.T) {
	t.Parallel()
	task := symbol.New(symbol.DefaultConfig(), nil)
	assert.Equal(t, "▲ 1   ● 2   ■ 3   ★ 4   ♦ 5   + 6   ♥ 7   ~ 8   ○ 9", task.Key())
	assert.Contains(t, task.Instructions(), "90 seconds")
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		75: "Exceptional Processing Speed",
		60: "Exceptional Processing Speed",
		59: "Fast Processing Speed",
		45: "Fast Processing Speed",
		44: "Average Processing Speed",
		30: "Average Processing Speed",
		29: "Below Average Processing Speed",
		0:  "Below Average Processing Speed",
	}
	for score, want := range tests {
		assert.Equal(t, want, symbol.Classify(score).Label, "score=%d", score)
	}
}

func TestTask_Report(t *testing.T) {
	t.Parallel()

	outcomes := []mindlab.Outcome{
		symbolOutcome("■", "3", "3"),
		symbolOutcome("♥", "7", "1"),
		symbolOutcome("~", "8", "8"),
	}
	r := symbol.New(symbol.DefaultConfig(), nil).Report(outcomes)
	assert.Equal(t, []mindlab.Metric{{Label: "Score", Value: "2"}, {Label: "Mistakes", Value: "1"}}, r.Metrics)
}

func symbolOutcome(sym, target, pressed string) mindlab.Outcome {
	s := mindlab.Stimulus{Value: sym, Target: target}
	o := symbol.Score(s, &mindlab.Response{Token: pressed})
	o.Stimulus = s
	return o
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := symbol.DefaultConfig()
	cfg.Pairs = []symbol.Pair{{"?", 0}}
	assert.ErrorIs(t, cfg.Validate(), mindlab.ErrValidation)

	cfg = symbol.DefaultConfig()
	cfg.Duration = 0
	assert.ErrorIs(t, cfg.Validate(), mindlab.ErrValidation)
}
