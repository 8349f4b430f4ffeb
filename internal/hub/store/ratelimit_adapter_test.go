package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store/drivers/sqlite"
	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "hub.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRateLimitStoreDrivesLimiter(t *testing.T) {
	db := newSQLite(t)
	rs := store.NewRateLimitStore(db, ratelimit.SweeperConfig{Interval: time.Hour})
	t.Cleanup(func() { _ = rs.Close() })

	l := ratelimit.New(rs, ratelimit.Options{Window: time.Second, MaxRequests: 2})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.True(t, l.CheckAndRecord(ctx, "10.0.0.1", now).Allowed)
	require.True(t, l.CheckAndRecord(ctx, "10.0.0.1", now).Allowed)

	res := l.CheckAndRecord(ctx, "10.0.0.1", now)
	require.False(t, res.Allowed)
	require.NotNil(t, res.RetryAfterSeconds)
	require.Equal(t, 1, *res.RetryAfterSeconds)

	// A second limiter over the same database sees the same window.
	rs2 := store.NewRateLimitStore(db, ratelimit.SweeperConfig{Interval: time.Hour})
	t.Cleanup(func() { _ = rs2.Close() })
	other := ratelimit.New(rs2, ratelimit.Options{Window: time.Second, MaxRequests: 2})
	require.False(t, other.CheckAndRecord(ctx, "10.0.0.1", now).Allowed)

	require.True(t, l.CheckAndRecord(ctx, "10.0.0.1", now.Add(1001*time.Millisecond)).Allowed)
}

func TestRateLimitStoreSharedAcrossProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.db")
	const (
		processes = 4
		requests  = 40
	)

	limiters := make([]*ratelimit.Limiter, processes)
	for i := range processes {
		db, err := sqlite.NewStore(sqlite.DSN(path))
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, db.ApplyMigrations())
		}
		rs := store.NewRateLimitStore(db, ratelimit.SweeperConfig{Interval: time.Hour})
		t.Cleanup(func() {
			_ = rs.Close()
			_ = db.Close()
		})
		limiters[i] = ratelimit.New(rs, ratelimit.Options{Window: time.Minute, MaxRequests: requests - 1})
	}

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	var (
		allowed, denied atomic.Int32
		wg              sync.WaitGroup
	)
	for i := range requests {
		wg.Add(1)
		go func(l *ratelimit.Limiter) {
			defer wg.Done()
			if l.CheckAndRecord(ctx, "10.0.0.1", now).Allowed {
				allowed.Add(1)
			} else {
				denied.Add(1)
			}
		}(limiters[i%processes])
	}
	wg.Wait()

	require.Equal(t, int32(requests-1), allowed.Load())
	require.Equal(t, int32(1), denied.Load())
}

func TestRateLimitStoreRefundIsWindowScoped(t *testing.T) {
	db := newSQLite(t)
	rs := store.NewRateLimitStore(db, ratelimit.SweeperConfig{Interval: time.Hour})
	t.Cleanup(func() { _ = rs.Close() })

	l := ratelimit.New(rs, ratelimit.Options{Window: time.Minute, MaxRequests: 1})
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first := l.CheckAndRecord(ctx, "10.0.0.1", t0)
	require.True(t, first.Allowed)
	l.Refund(ctx, "10.0.0.1", first.ResetAt)
	second := l.CheckAndRecord(ctx, "10.0.0.1", t0)
	require.True(t, second.Allowed)

	later := t0.Add(time.Minute + time.Second)
	require.True(t, l.CheckAndRecord(ctx, "10.0.0.1", later).Allowed)

	// A refund for the previous window must not free a slot in the new one.
	l.Refund(ctx, "10.0.0.1", second.ResetAt)
	require.False(t, l.CheckAndRecord(ctx, "10.0.0.1", later).Allowed)

	rec, ok, err := rs.Get(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, rec.Count)
	require.True(t, later.Add(time.Minute).Equal(rec.WindowResetAt))
}

func TestRateLimitStoreSweep(t *testing.T) {
	db := newSQLite(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	rs := store.NewRateLimitStore(db, ratelimit.SweeperConfig{Interval: time.Hour})
	t.Cleanup(func() { _ = rs.Close() })

	ctx := context.Background()
	require.NoError(t, rs.Set(ctx, "stale", ratelimit.Record{Count: 3, WindowResetAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, rs.Set(ctx, "fresh", ratelimit.Record{Count: 1, WindowResetAt: now.Add(-time.Minute)}))

	sw := ratelimit.NewSweeper(rs, ratelimit.SweeperConfig{Grace: time.Hour, Now: func() time.Time { return now }})
	require.Equal(t, 1, sw.SweepOnce(ctx))

	_, ok, err := rs.Get(ctx, "stale")
	require.NoError(t, err)
	require.False(t, ok)

	rec, ok, err := rs.Get(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, rec.Count)

	require.NoError(t, rs.Delete(ctx, "fresh"))
	_, ok, err = rs.Get(ctx, "fresh")
	require.NoError(t, err)
	require.False(t, ok)
}
