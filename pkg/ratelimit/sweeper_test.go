package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMemoryStore(t)

	require.NoError(t, store.Set(ctx, "stale", ratelimit.Record{Count: 4, WindowResetAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Set(ctx, "recent", ratelimit.Record{Count: 1, WindowResetAt: now.Add(-10 * time.Minute)}))
	require.NoError(t, store.Set(ctx, "live", ratelimit.Record{Count: 1, WindowResetAt: now.Add(5 * time.Minute)}))

	removed, err := store.Sweep(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 2, store.Len())

	_, ok, _ := store.Get(ctx, "stale")
	require.False(t, ok)
}

func TestSweeperSweepOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMemoryStore(t)

	require.NoError(t, store.Set(ctx, "old", ratelimit.Record{WindowResetAt: now.Add(-61 * time.Minute)}))
	require.NoError(t, store.Set(ctx, "young", ratelimit.Record{WindowResetAt: now.Add(-59 * time.Minute)}))

	var reported int
	sw := ratelimit.NewSweeper(store, ratelimit.SweeperConfig{
		Interval: time.Hour,
		Now:      func() time.Time { return now },
		OnSweep:  func(removed int, _ error) { reported = removed },
	})

	require.Equal(t, 1, sw.SweepOnce(ctx))
	require.Equal(t, 1, reported)
	require.Equal(t, 1, store.Len())
}

func TestSweeperBackgroundLoop(t *testing.T) {
	store := newMemoryStore(t)
	require.NoError(t, store.Set(context.Background(), "old", ratelimit.Record{
		WindowResetAt: time.Now().Add(-3 * time.Hour),
	}))

	sw := ratelimit.NewSweeper(store, ratelimit.SweeperConfig{Interval: 10 * time.Millisecond})
	sw.Start()
	defer sw.Stop()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

type failingSweepStore struct{ ratelimit.Store }

func (failingSweepStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, errors.New("disk full")
}

func TestSweeperSwallowsErrors(t *testing.T) {
	var gotErr error
	sw := ratelimit.NewSweeper(failingSweepStore{}, ratelimit.SweeperConfig{
		OnSweep: func(_ int, err error) { gotErr = err },
	})

	require.NotPanics(t, func() { sw.SweepOnce(context.Background()) })
	require.Error(t, gotErr)

	// A second Stop is a no-op.
	sw.Start()
	sw.Stop()
	sw.Stop()
}
