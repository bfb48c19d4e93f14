// Package dedupe provides a bounded seen-set used to flag duplicate join
// keys (policy numbers) while scanning the input relations.
package dedupe

import (
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 500_000

// Tracker records seen keys and reports repeats.
type Tracker interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true if key was already seen.
	SeenAndRecord(key string) bool

	// Reset drops all recorded keys so the tracker can serve a new scan.
	Reset()

	// Size returns the current number of recorded keys.
	Size() int64
}

// Option applies a configuration option to the tracker.
type Option func(*ringTracker)

// WithMaxSize bounds the number of keys kept in memory. Sizes <= 0 mean
// unbounded.
func WithMaxSize(maxSize int) Option {
	return func(t *ringTracker) {
		t.maxSize = maxSize
	}
}

// ringTracker implements Tracker with a map plus a ring of insertion order
// for eviction in bounded mode.
type ringTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewTracker creates a tracker with the given options.
func NewTracker(opts ...Option) Tracker {
	t := &ringTracker{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[string]struct{})
	if t.maxSize > 0 {
		t.ring = make([]string, t.maxSize)
	}
	return t
}

func (t *ringTracker) SeenAndRecord(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[key]; ok {
		return true
	}

	if t.maxSize > 0 {
		// Evict the oldest slot once the ring wraps.
		if old := t.ring[t.next]; old != "" {
			delete(t.seen, old)
			t.size.Add(-1)
		}
		t.ring[t.next] = key
		t.next = (t.next + 1) % t.maxSize
	}
	t.seen[key] = struct{}{}
	t.size.Add(1)
	return false
}

func (t *ringTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen = make(map[string]struct{})
	if t.maxSize > 0 {
		t.ring = make([]string, t.maxSize)
	}
	t.next = 0
	t.size.Store(0)
}

func (t *ringTracker) Size() int64 {
	return t.size.Load()
}
