package frame

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/mindlab"
)

// DefaultPingTimeout bounds how long Ping waits for the device to answer.
const DefaultPingTimeout = 300 * time.Millisecond

// Ping writes "PING:<id>\n" to w and measures the time until the router
// dispatches the next line. It reports false when no line arrives within
// timeout or ctx is done. Write errors are returned.
func Ping(ctx context.Context, w io.Writer, r *Router, clock mindlab.Clock, id int64, timeout time.Duration) (time.Duration, bool, error) {
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	reply, cancel := r.Intercept()
	defer cancel()

	start := clock.Now()
	if _, err := fmt.Fprintf(w, "PING:%d\n", id); err != nil {
		return 0, false, fmt.Errorf("write ping: %w", err)
	}

	deadline := clock.After(timeout)
	select {
	case <-reply:
		return clock.Now().Sub(start), true, nil
	case <-deadline:
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}
