package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
)

// RateLimitStore adapts Store.RateLimits to ratelimit.Store so limiter state
// can be shared by every process using the same database. Increments and
// refunds run as single statements in the database, so limiters in separate
// processes never overwrite each other's counts. It owns a sweeper that
// starts on construction and stops on Close.
type RateLimitStore struct {
	store   Store
	sweeper *ratelimit.Sweeper
}

var _ ratelimit.Store = (*RateLimitStore)(nil)

// NewRateLimitStore creates the adapter and starts its sweeper.
func NewRateLimitStore(s Store, cfg ratelimit.SweeperConfig) *RateLimitStore {
	rs := &RateLimitStore{store: s}
	rs.sweeper = ratelimit.NewSweeper(rs, cfg)
	rs.sweeper.Start()
	return rs
}

func (a *RateLimitStore) Get(ctx context.Context, key string) (ratelimit.Record, bool, error) {
	rec, err := a.store.RateLimits().GetRateLimit(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return ratelimit.Record{}, false, nil
	}
	if err != nil {
		return ratelimit.Record{}, false, err
	}
	return ratelimit.Record{Count: rec.Count, WindowResetAt: rec.WindowResetAt}, true, nil
}

func (a *RateLimitStore) Set(ctx context.Context, key string, rec ratelimit.Record) error {
	return a.store.RateLimits().UpsertRateLimit(ctx, RateLimitRecord{
		Key:           key,
		Count:         rec.Count,
		WindowResetAt: rec.WindowResetAt,
	})
}

func (a *RateLimitStore) Increment(ctx context.Context, key string, now time.Time, window time.Duration) (ratelimit.Record, error) {
	rec, err := a.store.RateLimits().IncrementRateLimit(ctx, key, now, now.Add(window))
	if err != nil {
		return ratelimit.Record{}, err
	}
	return ratelimit.Record{Count: rec.Count, WindowResetAt: rec.WindowResetAt}, nil
}

func (a *RateLimitStore) Decrement(ctx context.Context, key string, windowResetAt time.Time) error {
	return a.store.RateLimits().DecrementRateLimit(ctx, key, windowResetAt)
}

func (a *RateLimitStore) Delete(ctx context.Context, key string) error {
	return a.store.RateLimits().DeleteRateLimit(ctx, key)
}

func (a *RateLimitStore) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	return a.store.RateLimits().DeleteRateLimitsBefore(ctx, olderThan)
}

// Close stops the sweeper. The underlying Store is left open.
func (a *RateLimitStore) Close() error {
	a.sweeper.Stop()
	return nil
}
