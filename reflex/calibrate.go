package reflex

import (
	"context"
	"time"

	"github.com/fwojciec/mindlab"
)

// CalibrationSamples is how many scheduling hops Calibrate measures.
const CalibrationSamples = 6

// Pinger measures one round trip to the input device. ok is false when the
// device did not answer in time.
type Pinger func(ctx context.Context) (rtt time.Duration, ok bool, err error)

// Calibrate estimates the delay between a stimulus being scheduled and a
// press being stamped that is not the participant's. It takes the fastest
// of CalibrationSamples goroutine hops and, when ping is non-nil and the
// device answers, adds half of the serial round trip. The result is rounded
// to the millisecond. A failing ping only drops the serial share.
func Calibrate(ctx context.Context, clock mindlab.Clock, ping Pinger) time.Duration {
	sched := time.Duration(-1)
	for range CalibrationSamples {
		if ctx.Err() != nil {
			break
		}
		start := clock.Now()
		hop := make(chan time.Time, 1)
		go func() { hop <- clock.Now() }()
		if d := (<-hop).Sub(start); sched < 0 || d < sched {
			sched = d
		}
	}
	if sched < 0 {
		sched = 0
	}

	var serial time.Duration
	if ping != nil && ctx.Err() == nil {
		if rtt, ok, err := ping(ctx); err == nil && ok && rtt > 0 {
			serial = rtt / 2
		}
	}
	return (sched + serial).Round(time.Millisecond)
}
