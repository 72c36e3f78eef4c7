package mindlab

import "time"

// HighScoreKey names the one persisted record.
const HighScoreKey = "dodger.high_score"

// HighScore is the obstacle dodger's best run.
type HighScore struct {
	Score int
	Name  string
	Date  time.Time
}

// Holder returns the display name of the record holder.
func (h HighScore) Holder() string {
	if h.Name == "" {
		return "No one yet"
	}
	return h.Name
}

// Beats reports whether score sets a new record.
func (h HighScore) Beats(score int) bool { return score > h.Score }
