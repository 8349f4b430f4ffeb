package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultSweepInterval is how often stale records are evicted.
	DefaultSweepInterval = time.Minute

	// DefaultGrace is how long past its reset a record is kept before eviction.
	DefaultGrace = time.Hour
)

// SweeperConfig configures the background eviction of stale records.
type SweeperConfig struct {
	Interval time.Duration
	Grace    time.Duration
	Logger   *slog.Logger
	Now      func() time.Time

	// OnSweep, if set, is called after every pass with the number of removed
	// records and the error (if any).
	OnSweep func(removed int, err error)
}

// Sweeper periodically removes records from a Store whose window reset more
// than Grace ago. It runs on its own goroutine and never touches the
// request path.
type Sweeper struct {
	store Store
	cfg   SweeperConfig

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a sweeper for store. Zero values in cfg fall back to
// the package defaults.
func NewSweeper(store Store, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultGrace
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Sweeper{
		store:  store,
		cfg:    cfg,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the background loop. Non-blocking.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop signals the loop to exit and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// SweepOnce runs a single eviction pass. Failures are logged and swallowed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	cutoff := s.cfg.Now().Add(-s.cfg.Grace)

	removed, err := s.store.Sweep(ctx, cutoff)
	if s.cfg.OnSweep != nil {
		s.cfg.OnSweep(removed, err)
	}
	if err != nil {
		s.cfg.Logger.Error("rate limit sweep failed", "error", err)
		return 0
	}

	if removed > 0 {
		s.cfg.Logger.Debug("rate limit sweep completed", "removed", removed)
	}
	return removed
}
