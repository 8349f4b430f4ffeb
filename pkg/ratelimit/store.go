package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Record is the per-key window state.
type Record struct {
	Count         int
	WindowResetAt time.Time
}

// Expired reports whether now is past the window reset time.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.WindowResetAt)
}

// Store holds limiter records. Implementations must be safe for concurrent
// use, including use by several Limiters or processes sharing one backend.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Set(ctx context.Context, key string, rec Record) error
	Delete(ctx context.Context, key string) error

	// Increment counts one request for key as a single atomic step. A missing
	// or expired record starts a new window ending at now+window with a count
	// of one. The stored record after the increment is returned.
	Increment(ctx context.Context, key string, now time.Time, window time.Duration) (Record, error)

	// Decrement gives back one request for key, but only while the stored
	// window still ends at windowResetAt and the count is above zero.
	Decrement(ctx context.Context, key string, windowResetAt time.Time) error

	// Sweep deletes every record whose WindowResetAt is before olderThan and
	// returns how many were removed.
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
}

// MemoryStore is an in-process Store. It owns a Sweeper which is started on
// construction and stopped by Close.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record

	sweeper *Sweeper
}

// NewMemoryStore creates a MemoryStore and starts its eviction sweeper.
func NewMemoryStore(cfg SweeperConfig) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record)}
	s.sweeper = NewSweeper(s, cfg)
	s.sweeper.Start()
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = rec
	return nil
}

func (s *MemoryStore) Increment(_ context.Context, key string, now time.Time, window time.Duration) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || rec.Expired(now) {
		rec = Record{WindowResetAt: now.Add(window)}
	}
	rec.Count++
	s.records[key] = rec
	return rec, nil
}

func (s *MemoryStore) Decrement(_ context.Context, key string, windowResetAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || rec.Count == 0 || !rec.WindowResetAt.Equal(windowResetAt) {
		return nil
	}
	rec.Count--
	s.records[key] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if rec.WindowResetAt.Before(olderThan) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.sweeper.Stop()
	return nil
}
