package utils

import (
	"context"
	"time"
)

// WaitFor blocks for the given duration or until the context is cancelled.
// Scrape loops use it between page fetches so a long run stays cancellable.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
