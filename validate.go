package mindlab

import "fmt"

// Validate checks the constraints a Spec must satisfy before a run starts.
// The engine additionally rejects a Sequence that yields zero trials.
func (s Spec) Validate() error {
	if s.Alphabet.Len() == 0 {
		return fmt.Errorf("input alphabet is empty: %w", ErrInvalidConfiguration)
	}
	if s.StimulusDuration <= 0 {
		return fmt.Errorf("stimulus duration must be positive, got %s: %w", s.StimulusDuration, ErrInvalidConfiguration)
	}
	if s.ResponseWindow <= 0 {
		return fmt.Errorf("response window must be positive, got %s: %w", s.ResponseWindow, ErrInvalidConfiguration)
	}
	if s.TimeLimit < 0 {
		return fmt.Errorf("time limit must be non-negative, got %s: %w", s.TimeLimit, ErrInvalidConfiguration)
	}
	if s.Latency < 0 {
		return fmt.Errorf("latency correction must be non-negative, got %s: %w", s.Latency, ErrInvalidConfiguration)
	}
	if s.Sequence == nil {
		return fmt.Errorf("sequence is required: %w", ErrInvalidConfiguration)
	}
	if s.Scorer == nil {
		return fmt.Errorf("scorer is required: %w", ErrInvalidConfiguration)
	}
	if s.Terminator != "" && !s.Alphabet.Contains(s.Terminator) {
		return fmt.Errorf("terminator %q is not in the input alphabet: %w", s.Terminator, ErrInvalidConfiguration)
	}
	return nil
}

// Validate checks a high score record before it is persisted.
func (h HighScore) Validate() error {
	if h.Score < 0 {
		return fmt.Errorf("score must be non-negative, got %d: %w", h.Score, ErrValidation)
	}
	if h.Name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if h.Date.IsZero() {
		return fmt.Errorf("date is required: %w", ErrValidation)
	}
	return nil
}
