package mindlab

import (
	"context"
	"io"
	"time"
)

// Clock abstracts wall time so trial timing can be driven by tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// Runner drives timed trials. It is safe for concurrent use: input sources
// call Submit from their own goroutines while the Runner's transition logic
// remains the single writer of run state.
//
// Lifecycle:
//   - Start validates the Spec and moves Idle (or Complete) to Armed.
//   - Submit enqueues a raw token; it reports false when no run is live.
//   - Abort is idempotent; it moves any non-Complete state to Complete.
//   - Results returns ErrNotFinished unless the state is Complete.
//   - Wait blocks until the current run's goroutine has exited.
type Runner interface {
	Start(ctx context.Context, spec Spec) error
	Submit(token string) bool
	Abort()
	Results() ([]Outcome, error)
	Snapshot() Snapshot
	Wait(ctx context.Context) error
}

// Task is one cognitive test: its instructions, a fresh Spec per run, how a
// stimulus is displayed over time, and how a finished run is classified.
type Task interface {
	Name() string
	Title() string
	Instructions() string // markdown
	Spec() (Spec, error)
	Present(s Stimulus, elapsed time.Duration) string
	Report(outcomes []Outcome) Report
}

// Transport opens the byte stream an external input device writes to.
type Transport interface {
	Open(ctx context.Context) (io.ReadWriteCloser, error)
}

// HighScoreStore persists the single high score record. Load returns the
// zero HighScore and a nil error when nothing has been saved yet.
type HighScoreStore interface {
	Load(ctx context.Context) (HighScore, error)
	Save(ctx context.Context, h HighScore) error
}
