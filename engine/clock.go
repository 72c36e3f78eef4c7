package engine

import (
	"time"

	"github.com/fwojciec/mindlab"
)

var _ mindlab.Clock = SystemClock{}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// After returns time.After.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
