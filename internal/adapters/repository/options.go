package repository

import "github.com/okian/shinny/internal/domain/model"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithSnapshotCapacity pre-sizes the snapshot map for a known season length.
func WithSnapshotCapacity(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.snapshots = make(map[model.Day]model.DailySnapshot, n)
		}
	}
}
