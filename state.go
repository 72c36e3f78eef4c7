package mindlab

import "time"

// State is the phase of a Runner's state machine.
type State int

const (
	StateIdle     State = iota // Before Start is ever called.
	StateArmed                 // Stimulus shown, response window open (or foreperiod).
	StateScoring               // Window closed, outcome being recorded.
	StateComplete              // Terminal; outcomes available.
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateScoring:
		return "scoring"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Live reports whether a run is in progress.
func (s State) Live() bool { return s == StateArmed || s == StateScoring }

// Snapshot is the presentation view of a run: current trial index and
// stimulus while live, counts once complete.
type Snapshot struct {
	State     State
	RunID     string
	Trial     int
	Stimulus  *Stimulus // nil during the foreperiod and outside a run
	Onset     time.Time
	StartedAt time.Time
	Outcomes  int
}
