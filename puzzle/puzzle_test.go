package puzzle_test

import (
	"testing"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPuzzles(t *testing.T) {
	t.Parallel()
	require.Len(t, puzzle.DefaultPuzzles, 20)
	assert.Equal(t, "2, 4, 6, 8, _", puzzle.DefaultPuzzles[0].Display())
	assert.NoError(t, puzzle.DefaultConfig().Validate())
}

func TestTask_Spec(t *testing.T) {
	t.Parallel()

	spec, err := puzzle.New(puzzle.DefaultConfig(), nil).Spec()
	require.NoError(t, err)
	require.NoError(t, spec.Validate())
	assert.Equal(t, 25*time.Second, spec.TimeLimit)
	assert.Equal(t, "#", spec.Terminator)

	var outcomes []mindlab.Outcome
	for spec.Sequence.Continue(outcomes) {
		s := spec.Sequence.Next(outcomes)
		if len(outcomes) == 0 {
			assert.Zero(t, s.Delay)
		} else {
			assert.Equal(t, 600*time.Millisecond, s.Delay)
		}
		outcomes = append(outcomes, mindlab.Outcome{Stimulus: s})
	}
	assert.Len(t, outcomes, 20)
	assert.Equal(t, "125", outcomes[18].Stimulus.Target)
}

func TestScore(t *testing.T) {
	t.Parallel()

	s := mindlab.Stimulus{Value: "1, 8, 27, 64, _", Target: "125"}
	ok := puzzle.Score(s, &mindlab.Response{Token: "125"})
	assert.True(t, ok.Correct)

	wrong := puzzle.Score(s, &mindlab.Response{Token: "100"})
	wrong.Stimulus = s
	assert.Equal(t, mindlab.CategoryError, wrong.Category)
	assert.Equal(t, "Incorrect (125)", puzzle.Feedback(wrong))

	assert.Equal(t, mindlab.CategoryMiss, puzzle.Score(s, nil).Category)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Genius-Level Reasoning", puzzle.Classify(20, 20).Label)
	assert.Equal(t, "Exceptional Logical Reasoning", puzzle.Classify(19, 20).Label)
	assert.Equal(t, "Exceptional Logical Reasoning", puzzle.Classify(12, 20).Label)
	assert.Equal(t, "Above Average Reasoning", puzzle.Classify(6, 20).Label)
	assert.Equal(t, "Average Reasoning", puzzle.Classify(5, 20).Label)
	assert.Equal(t, "Below Average Reasoning", puzzle.Classify(4, 20).Label)
	assert.Equal(t, "Below Average Reasoning", puzzle.Classify(0, 0).Label)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := puzzle.DefaultConfig()
	cfg.Puzzles = []puzzle.Puzzle{{Seq: []int{1}, Answer: "x"}}
	assert.ErrorIs(t, cfg.Validate(), mindlab.ErrValidation)
}
