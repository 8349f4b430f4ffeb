// Package ratelimit implements a fixed-window request limiter keyed by an
// arbitrary client identity. Window state lives behind the Store interface so
// the in-process map can be swapped for a shared store without touching the
// algorithm.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultWindow is the window length used when Options.Window is zero.
	DefaultWindow = 15 * time.Minute

	// DefaultMaxRequests is the per-window budget used when Options.MaxRequests is zero.
	DefaultMaxRequests = 100
)

// Options configures a Limiter.
type Options struct {
	// Window is the length of a counting window.
	Window time.Duration

	// MaxRequests is the number of requests allowed per key per window.
	MaxRequests int

	// SkipSuccessfulRequests tells callers to Refund requests that end up
	// succeeding. The Limiter itself only records the flag.
	SkipSuccessfulRequests bool

	Logger *slog.Logger
}

// Result is the outcome of a single CheckAndRecord call. The metadata is
// populated whether or not the request was allowed.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfterSeconds is only set on denial.
	RetryAfterSeconds *int
}

// Limiter counts requests per key in fixed windows. The window for a key
// starts on its first request and is reset lazily by the first request that
// arrives after it has elapsed.
type Limiter struct {
	store Store
	opts  Options
}

// New creates a Limiter over store. Zero-valued options use the defaults.
func New(store Store, opts Options) *Limiter {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.MaxRequests <= 0 {
		opts.MaxRequests = DefaultMaxRequests
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Limiter{store: store, opts: opts}
}

// Options returns the effective configuration.
func (l *Limiter) Options() Options { return l.opts }

// CheckAndRecord counts a request for key at time now and reports whether it
// is within budget. The count is advanced by Store.Increment, so limiters in
// other goroutines or processes sharing the store never lose an increment.
//
// A failing store never blocks traffic: the request is allowed and the error
// is logged.
func (l *Limiter) CheckAndRecord(ctx context.Context, key string, now time.Time) Result {
	rec, err := l.store.Increment(ctx, key, now, l.opts.Window)
	if err != nil {
		l.opts.Logger.Error("rate limit store increment failed, allowing request", "key", key, "error", err)
		return l.degraded(now)
	}

	res := Result{
		Limit:   l.opts.MaxRequests,
		ResetAt: rec.WindowResetAt,
	}

	if rec.Count > l.opts.MaxRequests {
		retry := retryAfterSeconds(rec.WindowResetAt, now)
		res.Allowed = false
		res.Remaining = 0
		res.RetryAfterSeconds = &retry
		return res
	}

	res.Allowed = true
	res.Remaining = max(0, l.opts.MaxRequests-rec.Count)
	return res
}

// Refund gives back one request for key. windowResetAt is the ResetAt of the
// Result being refunded; if the key has since rolled into a new window the
// refund is dropped. Used when SkipSuccessfulRequests is enabled and the
// request succeeded.
func (l *Limiter) Refund(ctx context.Context, key string, windowResetAt time.Time) {
	if err := l.store.Decrement(ctx, key, windowResetAt); err != nil {
		l.opts.Logger.Error("rate limit refund failed", "key", key, "error", err)
	}
}

func (l *Limiter) degraded(now time.Time) Result {
	return Result{
		Allowed:   true,
		Limit:     l.opts.MaxRequests,
		Remaining: l.opts.MaxRequests,
		ResetAt:   now.Add(l.opts.Window),
	}
}

// retryAfterSeconds is ceil((resetAt - now) / 1s).
func retryAfterSeconds(resetAt, now time.Time) int {
	d := resetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
