// Package repository defines the snapshot store interface and errors.
package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMaxLimit caps how many rankings TopN may return in one call.
func WithMaxLimit(limit int) Option {
	return func(s *SnapshotStore) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}
