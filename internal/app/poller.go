package app

import (
	"context"
	"time"
)

const defaultPollInterval = 2 * time.Second

// Refresher is the part of the Sync Cache the poller drives.
type Refresher interface {
	Refresh(ctx context.Context)
}

// StartPoller launches a background goroutine that refreshes the cache
// immediately and then at a fixed cadence until ctx is cancelled. It returns
// immediately. Failures are recorded by the cache; the cadence never changes.
func StartPoller(ctx context.Context, cache Refresher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			cache.Refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
