package mindlab

import "time"

// Event is a sealed interface for what a Runner reports while a run is live.
// Handlers observe events; they never drive the state machine.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventRunStarted is emitted once the run state has been reset.
type EventRunStarted struct {
	RunID string
	At    time.Time
}

func (EventRunStarted) event() {}

// EventStimulusShown marks stimulus onset. The response window opens here.
type EventStimulusShown struct {
	Trial    int
	Stimulus Stimulus
	At       time.Time
}

func (EventStimulusShown) event() {}

// EventStimulusHidden marks stimulus offset. The window may still be open.
type EventStimulusHidden struct {
	Trial int
}

func (EventStimulusHidden) event() {}

// EventEntry reports the text typed so far in free-text entry trials.
type EventEntry struct {
	Trial int
	Text  string
}

func (EventEntry) event() {}

// EventOutcome is emitted when a trial is scored.
type EventOutcome struct {
	Outcome Outcome
}

func (EventOutcome) event() {}

// CompleteReason explains why a run reached Complete.
type CompleteReason string

const (
	CompleteFinished CompleteReason = "finished" // sequence stopped
	CompleteAborted  CompleteReason = "aborted"  // Abort or context cancellation
	CompleteTimeUp   CompleteReason = "time_up"  // Spec.TimeLimit expired
)

// EventRunComplete is the last event of a run.
type EventRunComplete struct {
	RunID    string
	Reason   CompleteReason
	Outcomes []Outcome
}

func (EventRunComplete) event() {}

// Interface compliance checks.
var (
	_ Event = EventRunStarted{}
	_ Event = EventStimulusShown{}
	_ Event = EventStimulusHidden{}
	_ Event = EventEntry{}
	_ Event = EventOutcome{}
	_ Event = EventRunComplete{}
)
