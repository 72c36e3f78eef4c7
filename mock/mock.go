// Package mock provides test doubles for mindlab interfaces using function
// fields.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/mindlab"
)

// Interface compliance checks.
var (
	_ mindlab.Runner         = (*Runner)(nil)
	_ mindlab.Transport      = (*Transport)(nil)
	_ mindlab.HighScoreStore = (*HighScoreStore)(nil)
	_ mindlab.Clock          = (*Clock)(nil)
)

// Runner is a test double for mindlab.Runner.
// Set the function fields for the methods you need. SubmitFn, AbortFn and
// SnapshotFn are optional.
type Runner struct {
	StartFn    func(ctx context.Context, spec mindlab.Spec) error
	SubmitFn   func(token string) bool
	AbortFn    func()
	ResultsFn  func() ([]mindlab.Outcome, error)
	SnapshotFn func() mindlab.Snapshot
	WaitFn     func(ctx context.Context) error
}

// Start delegates to StartFn.
func (r *Runner) Start(ctx context.Context, spec mindlab.Spec) error {
	return r.StartFn(ctx, spec)
}

// Submit delegates to SubmitFn. Returns false if SubmitFn is nil.
func (r *Runner) Submit(token string) bool {
	if r.SubmitFn == nil {
		return false
	}
	return r.SubmitFn(token)
}

// Abort delegates to AbortFn. No-op if AbortFn is nil.
func (r *Runner) Abort() {
	if r.AbortFn != nil {
		r.AbortFn()
	}
}

// Results delegates to ResultsFn.
func (r *Runner) Results() ([]mindlab.Outcome, error) {
	return r.ResultsFn()
}

// Snapshot delegates to SnapshotFn. Returns an Idle snapshot if SnapshotFn
// is nil.
func (r *Runner) Snapshot() mindlab.Snapshot {
	if r.SnapshotFn == nil {
		return mindlab.Snapshot{State: mindlab.StateIdle}
	}
	return r.SnapshotFn()
}

// Wait delegates to WaitFn.
func (r *Runner) Wait(ctx context.Context) error {
	return r.WaitFn(ctx)
}

// Transport is a test double for mindlab.Transport.
// Set OpenFn before calling Open.
type Transport struct {
	OpenFn func(ctx context.Context) (io.ReadWriteCloser, error)
}

// Open delegates to OpenFn.
func (t *Transport) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	return t.OpenFn(ctx)
}

// HighScoreStore is a test double for mindlab.HighScoreStore.
type HighScoreStore struct {
	LoadFn func(ctx context.Context) (mindlab.HighScore, error)
	SaveFn func(ctx context.Context, h mindlab.HighScore) error
}

// Load delegates to LoadFn.
func (s *HighScoreStore) Load(ctx context.Context) (mindlab.HighScore, error) {
	return s.LoadFn(ctx)
}

// Save delegates to SaveFn.
func (s *HighScoreStore) Save(ctx context.Context, h mindlab.HighScore) error {
	return s.SaveFn(ctx, h)
}
