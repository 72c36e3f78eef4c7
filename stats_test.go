package mindlab_test

import (
	"testing"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty run", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, mindlab.Stats{}, mindlab.Summarize(nil))
	})

	t.Run("go no-go counts", func(t *testing.T) {
		t.Parallel()

		outcomes := []mindlab.Outcome{
			{Trial: 0, Stimulus: mindlab.Stimulus{Value: "5", Target: "5"}, Response: &mindlab.Response{Token: "5", RT: 500 * time.Millisecond}, Correct: true, Category: mindlab.CategoryHit},
			{Trial: 1, Stimulus: mindlab.Stimulus{Value: "3"}, Correct: true, Category: mindlab.CategoryMiss},
			{Trial: 2, Stimulus: mindlab.Stimulus{Value: "7", Target: "7"}, Response: &mindlab.Response{Token: "7", RT: 201 * time.Millisecond}, Correct: true, Category: mindlab.CategoryHit},
			{Trial: 3, Stimulus: mindlab.Stimulus{Value: "3"}, Response: &mindlab.Response{Token: "3", RT: 100 * time.Millisecond}, Category: mindlab.CategoryFalseAlarm},
			{Trial: 4, Stimulus: mindlab.Stimulus{Value: "8", Target: "8"}, Category: mindlab.CategoryMiss},
		}

		s := mindlab.Summarize(outcomes)

		assert.Equal(t, 5, s.Trials)
		assert.Equal(t, 3, s.Correct)
		assert.Equal(t, 2, s.Hits)
		assert.Equal(t, 2, s.Misses)
		assert.Equal(t, 1, s.OmissionErrors)
		assert.Equal(t, 1, s.FalseAlarms)
		assert.Equal(t, 0, s.Errors)
		assert.Equal(t, 60, s.Accuracy)
		// (500 + 201) / 2 = 350.5 rounds up.
		assert.Equal(t, 351*time.Millisecond, s.MeanRT)
	})

	t.Run("wrong token counts as error and is excluded from mean", func(t *testing.T) {
		t.Parallel()

		outcomes := []mindlab.Outcome{
			{Stimulus: mindlab.Stimulus{Target: "4"}, Response: &mindlab.Response{Token: "7", RT: 90 * time.Millisecond}, Category: mindlab.CategoryError},
			{Stimulus: mindlab.Stimulus{Target: "2"}, Response: &mindlab.Response{Token: "2", RT: 300 * time.Millisecond}, Correct: true, Category: mindlab.CategoryHit},
		}

		s := mindlab.Summarize(outcomes)

		assert.Equal(t, 1, s.Errors)
		assert.Equal(t, 300*time.Millisecond, s.MeanRT)
		assert.Equal(t, 50, s.Accuracy)
	})
}
