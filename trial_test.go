package mindlab_test

import (
	"testing"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/stretchr/testify/assert"
)

func TestAlphabet(t *testing.T) {
	t.Parallel()

	t.Run("digits", func(t *testing.T) {
		t.Parallel()
		a := mindlab.Digits(1, 9)
		assert.Equal(t, 9, a.Len())
		assert.True(t, a.Contains("1"))
		assert.True(t, a.Contains("9"))
		assert.False(t, a.Contains("0"))
		assert.False(t, a.Contains("10"))
	})

	t.Run("union leaves receiver untouched", func(t *testing.T) {
		t.Parallel()
		a := mindlab.NewAlphabet("a", "b")
		b := a.Union("#")
		assert.Equal(t, []string{"a", "b"}, a.Tokens())
		assert.Equal(t, []string{"#", "a", "b"}, b.Tokens())
	})

	t.Run("zero value is empty", func(t *testing.T) {
		t.Parallel()
		var a mindlab.Alphabet
		assert.Equal(t, 0, a.Len())
		assert.False(t, a.Contains("1"))
	})
}

func TestStimulus_Go(t *testing.T) {
	t.Parallel()
	assert.True(t, mindlab.Stimulus{Value: "5", Target: "5"}.Go())
	assert.False(t, mindlab.Stimulus{Value: "3"}.Go())
}

func TestOutcome_ReactionTime(t *testing.T) {
	t.Parallel()

	rt, ok := mindlab.Outcome{}.ReactionTime()
	assert.False(t, ok)
	assert.Zero(t, rt)

	rt, ok = mindlab.Outcome{Response: &mindlab.Response{RT: 42 * time.Millisecond}}.ReactionTime()
	assert.True(t, ok)
	assert.Equal(t, 42*time.Millisecond, rt)
}

func TestMessage_HasChannel(t *testing.T) {
	t.Parallel()
	assert.True(t, mindlab.Message{Channel: "Keypad", Value: "7"}.HasChannel())
	assert.False(t, mindlab.Message{Value: "OK"}.HasChannel())
}

func TestState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state mindlab.State
		name  string
		live  bool
	}{
		{mindlab.StateIdle, "idle", false},
		{mindlab.StateArmed, "armed", true},
		{mindlab.StateScoring, "scoring", true},
		{mindlab.StateComplete, "complete", false},
		{mindlab.State(42), "unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.live, tt.state.Live())
		})
	}
}
