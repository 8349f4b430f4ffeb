package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// RateLimitExceededBody is the 429 response body.
type RateLimitExceededBody struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	RetryAfter int    `json:"retryAfter"`
	Limit      int    `json:"limit"`
	WindowMs   int64  `json:"windowMs"`
}

// RateLimitOptions configures RateLimit.
type RateLimitOptions struct {
	// KeyFunc defaults to IPKeyExtractor.
	KeyFunc KeyExtractor

	// Now defaults to time.Now.
	Now func() time.Time

	// OnDecision, if set, observes every limiter result.
	OnDecision func(ratelimit.Result)
}

// RateLimit counts every request against l and short-circuits with 429 once
// the key's window budget is spent. Limit headers are set on every response
// the limiter governs.
func RateLimit(l *ratelimit.Limiter, opts RateLimitOptions) Middleware {
	keyFunc := opts.KeyFunc
	if keyFunc == nil {
		keyFunc = IPKeyExtractor
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lopts := l.Options()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyFunc(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			res := l.CheckAndRecord(ctx, key, now())
			if opts.OnDecision != nil {
				opts.OnDecision(res)
			}
			setRateLimitHeaders(w, res)

			if !res.Allowed {
				retry := 0
				if res.RetryAfterSeconds != nil {
					retry = *res.RetryAfterSeconds
				}
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(retry))

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retry,
				)

				WriteJSON(w, http.StatusTooManyRequests, RateLimitExceededBody{
					Error:      "RateLimitExceeded",
					Message:    "Too many requests, please try again later.",
					StatusCode: http.StatusTooManyRequests,
					RetryAfter: retry,
					Limit:      res.Limit,
					WindowMs:   lopts.Window.Milliseconds(),
				})
				return
			}

			if !lopts.SkipSuccessfulRequests {
				next.ServeHTTP(w, r)
				return
			}

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			if rec.status < http.StatusBadRequest {
				l.Refund(ctx, key, res.ResetAt)
			}
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, res ratelimit.Result) {
	h := w.Header()
	h.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
	h.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
	h.Set(HeaderRateLimitReset, res.ResetAt.UTC().Format(time.RFC3339))
}
