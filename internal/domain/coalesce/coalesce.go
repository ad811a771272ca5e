// Package coalesce collapses redundant standings recompute triggers.
//
// Every ingest (snapshot, roster change, trade) invalidates the cached
// standings, but only one recompute per key needs to be in flight. A
// trigger arriving while a recompute runs marks the key dirty; when the
// run finishes the key is recomputed once more instead of once per
// trigger.
package coalesce

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker coalesces concurrent recompute triggers per key.
type Tracker interface {
	// Begin atomically claims key for a recompute run.
	// Returns true if the caller should enqueue a job, false if a run
	// is already pending and this trigger was folded into it.
	Begin(ctx context.Context, key string) bool

	// Finish marks the run for key complete.
	// Returns true if triggers arrived during the run and the caller
	// must run again; the key stays claimed in that case.
	Finish(ctx context.Context, key string) bool

	// Size returns the number of keys with a pending run.
	Size() int64
}

// inMemoryTracker implements Tracker with a map of pending keys. The
// value records whether the key went dirty while its run was in flight.
type inMemoryTracker struct {
	mu      sync.Mutex
	pending map[string]bool
	size    atomic.Int64
}

// NewInMemoryTracker creates an empty tracker.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin atomically claims key for a recompute run.
func (t *inMemoryTracker) Begin(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, inFlight := t.pending[key]; inFlight {
		t.pending[key] = true
		return false
	}

	t.pending[key] = false
	t.size.Add(1)
	return true
}

// Finish marks the run for key complete.
func (t *inMemoryTracker) Finish(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	dirty, inFlight := t.pending[key]
	if !inFlight {
		return false
	}

	if dirty {
		// Re-arm for the follow-up run; the key stays claimed so new
		// triggers keep folding into it.
		t.pending[key] = false
		return true
	}

	delete(t.pending, key)
	t.size.Add(-1)
	return false
}

// Size returns the number of keys with a pending run.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
