package aws

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollTimeout is returned by Poll when the condition does not hold before
// the timeout elapses.
var ErrPollTimeout = errors.New("polling timed out")

// Poll invokes check immediately and then once per interval until it reports
// done, the timeout elapses, or ctx is cancelled. A check error aborts the
// poll and is returned as-is.
func Poll(ctx context.Context, interval, timeout time.Duration, check func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)

	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if time.Now().Add(interval).After(deadline) {
			return fmt.Errorf("%w after %s", ErrPollTimeout, timeout)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("polling cancelled: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
