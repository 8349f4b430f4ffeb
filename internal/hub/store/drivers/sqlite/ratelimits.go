package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
)

// Window reset times are stored as unix nanoseconds so Retry-After math is
// exact across a round trip.
type rateLimitsRepo struct {
	q querier
}

func (r *rateLimitsRepo) GetRateLimit(ctx context.Context, key string) (store.RateLimitRecord, error) {
	var (
		rec     = store.RateLimitRecord{Key: key}
		resetNs int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT count, window_reset_at FROM rate_limits WHERE key = ?`, key,
	).Scan(&rec.Count, &resetNs)
	if err != nil {
		return store.RateLimitRecord{}, mapNotFound(err)
	}
	rec.WindowResetAt = time.Unix(0, resetNs).UTC()
	return rec, nil
}

func (r *rateLimitsRepo) UpsertRateLimit(ctx context.Context, rec store.RateLimitRecord) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO rate_limits (key, count, window_reset_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET count = excluded.count, window_reset_at = excluded.window_reset_at`,
		rec.Key, rec.Count, rec.WindowResetAt.UnixNano(),
	)
	return err
}

func (r *rateLimitsRepo) IncrementRateLimit(ctx context.Context, key string, now, resetAt time.Time) (store.RateLimitRecord, error) {
	var (
		rec     = store.RateLimitRecord{Key: key}
		resetNs int64
	)
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO rate_limits (key, count, window_reset_at) VALUES (?1, 1, ?3)
		 ON CONFLICT (key) DO UPDATE SET
		   count = CASE WHEN rate_limits.window_reset_at < ?2 THEN 1 ELSE rate_limits.count + 1 END,
		   window_reset_at = CASE WHEN rate_limits.window_reset_at < ?2 THEN ?3 ELSE rate_limits.window_reset_at END
		 RETURNING count, window_reset_at`,
		key, now.UnixNano(), resetAt.UnixNano(),
	).Scan(&rec.Count, &resetNs)
	if err != nil {
		return store.RateLimitRecord{}, err
	}
	rec.WindowResetAt = time.Unix(0, resetNs).UTC()
	return rec, nil
}

func (r *rateLimitsRepo) DecrementRateLimit(ctx context.Context, key string, windowResetAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE rate_limits SET count = count - 1
		 WHERE key = ? AND window_reset_at = ? AND count > 0`,
		key, windowResetAt.UnixNano(),
	)
	return err
}

func (r *rateLimitsRepo) DeleteRateLimit(ctx context.Context, key string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM rate_limits WHERE key = ?`, key)
	return err
}

func (r *rateLimitsRepo) DeleteRateLimitsBefore(ctx context.Context, t time.Time) (int, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM rate_limits WHERE window_reset_at < ?`, t.UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
