package coalesce

// Option applies a configuration option to the tracker.
type Option func(*inMemoryTracker)

// WithCapacityHint pre-sizes the pending map.
func WithCapacityHint(n int) Option {
	return func(t *inMemoryTracker) {
		if n > 0 {
			t.pending = make(map[string]bool, n)
		}
	}
}
