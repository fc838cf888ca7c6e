package retry

import (
	"context"
	"fmt"
	"time"
)

// Operation is a single attempt. It should honor ctx so in-flight work is
// abandoned when the caller's deadline fires.
type Operation func(ctx context.Context) error

// Do runs op up to attempts times with a fixed delay between failures.
// Cancellation of ctx stops the loop immediately, including mid-backoff.
func Do(ctx context.Context, attempts int, delay time.Duration, op Operation) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("retry aborted after %d attempts: %w", attempt-1, ctx.Err())
			}
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt-1, err)
		}

		if err := op(ctx); err != nil {
			lastErr = err
			continue
		}

		return nil
	}

	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
