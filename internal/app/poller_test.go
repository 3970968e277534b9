package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingCache struct {
	calls atomic.Int32
	seen  chan struct{}
}

func (c *countingCache) Refresh(context.Context) {
	c.calls.Add(1)
	select {
	case c.seen <- struct{}{}:
	default:
	}
}

func waitForRefresh(t *testing.T, c *countingCache) {
	t.Helper()
	select {
	case <-c.seen:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not refresh in time (calls=%d)", c.calls.Load())
	}
}

func TestStartPoller_RefreshesImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := &countingCache{seen: make(chan struct{}, 1)}
	StartPoller(ctx, cache, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		waitForRefresh(t, cache)
	}
	if got := cache.calls.Load(); got < 3 {
		t.Fatalf("calls = %d, want at least 3", got)
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cache := &countingCache{seen: make(chan struct{}, 1)}
	StartPoller(ctx, cache, 5*time.Millisecond)
	waitForRefresh(t, cache)

	cancel()
	// Allow any in-flight tick to drain.
	time.Sleep(30 * time.Millisecond)
	stopped := cache.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := cache.calls.Load(); got > stopped+1 {
		t.Fatalf("calls grew from %d to %d after cancel", stopped, got)
	}
}

func TestStartPoller_DefaultInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := &countingCache{seen: make(chan struct{}, 1)}
	StartPoller(ctx, cache, 0)
	waitForRefresh(t, cache)
	if got := cache.calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want exactly the initial refresh", got)
	}
}
