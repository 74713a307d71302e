// Package memory provides an in-process Store implementation. It is the
// default backend and the one used throughout the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/memtoken"
	"github.com/xraph/memtoken/event"
	"github.com/xraph/memtoken/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store keeps the journal and snapshots in process memory.
type Store struct {
	mu sync.RWMutex

	events    []*event.Event
	snapshots []*store.Snapshot
	closed    bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		events: make([]*event.Event, 0),
	}
}

// AppendEvents adds a batch of events to the journal.
func (s *Store) AppendEvents(_ context.Context, events []*event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return memtoken.ErrStoreClosed
	}
	s.events = append(s.events, events...)
	return nil
}

// QueryEvents returns journal events matching the filter, oldest first.
func (s *Store) QueryEvents(_ context.Context, opts event.QueryOpts) ([]*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, memtoken.ErrStoreClosed
	}

	result := make([]*event.Event, 0)
	skipped := 0
	for _, e := range s.events {
		if !opts.Match(e) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		result = append(result, e)
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}
	return result, nil
}

// PurgeEvents drops journal events older than the cutoff and reports how
// many were removed.
func (s *Store) PurgeEvents(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, memtoken.ErrStoreClosed
	}

	kept := s.events[:0]
	var purged int64
	for _, e := range s.events {
		if e.At.Before(before) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return purged, nil
}

// SaveSnapshot stores a state snapshot.
func (s *Store) SaveSnapshot(_ context.Context, snap *store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return memtoken.ErrStoreClosed
	}

	s.snapshots = append(s.snapshots, snap)
	sort.SliceStable(s.snapshots, func(i, j int) bool {
		return s.snapshots[i].TakenAt.Before(s.snapshots[j].TakenAt)
	})
	return nil
}

// LoadLatestSnapshot returns the most recent snapshot, or ErrNotFound if
// none has been saved.
func (s *Store) LoadLatestSnapshot(_ context.Context) (*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, memtoken.ErrStoreClosed
	}
	if len(s.snapshots) == 0 {
		return nil, memtoken.ErrNotFound
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports whether the store is usable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return memtoken.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed. Further operations fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// EventCount returns the number of journaled events. Test helper.
func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
