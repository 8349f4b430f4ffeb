package httpx

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
	"golang.org/x/time/rate"
)

// BurstConfig defines token-bucket parameters for BurstGuard.
type BurstConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// LoginBurst is the default guard for credential endpoints: 5 attempts a
// minute per key, all available at once.
var LoginBurst = BurstConfig{
	RequestsPerWindow: 5,
	Window:            time.Minute,
	Burst:             5,
}

// BurstGuard is a per-key token bucket. It complements the fixed-window
// limiter on endpoints that need a tighter, smoother limit such as login.
type BurstGuard struct {
	cfg     BurstConfig
	keyFunc KeyExtractor
	now     func() time.Time

	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewBurstGuard builds a guard keyed by keyFunc.
func NewBurstGuard(cfg BurstConfig, keyFunc KeyExtractor) *BurstGuard {
	if cfg.RequestsPerWindow <= 0 {
		cfg.RequestsPerWindow = LoginBurst.RequestsPerWindow
	}
	if cfg.Window <= 0 {
		cfg.Window = LoginBurst.Window
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerWindow
	}
	return &BurstGuard{
		cfg:         cfg,
		keyFunc:     keyFunc,
		now:         time.Now,
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether key may proceed at now, and if not, how long until
// a token frees up.
func (g *BurstGuard) Allow(key string, now time.Time) (bool, time.Duration) {
	limiter := g.limiterFor(key, now)

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, g.cfg.Window
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// limiterFor retrieves or creates the limiter for key.
func (g *BurstGuard) limiterFor(key string, now time.Time) *rate.Limiter {
	if limiter, ok := g.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := g.limiters.LoadOrStore(key, rate.NewLimiter(g.rate, g.cfg.Burst))
	g.maybeCleanup(now)
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket has refilled, which means the key
// has been idle.
func (g *BurstGuard) maybeCleanup(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.lastCleanup) < 5*time.Minute {
		return
	}
	g.lastCleanup = now

	g.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(g.cfg.Burst) {
			g.limiters.Delete(key)
		}
		return true
	})
}

// Middleware returns the guard as a Middleware.
func (g *BurstGuard) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := g.keyFunc(r)
			if key == "" {
				log.Warn("burst guard: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, delay := g.Allow(key, g.now())
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retry := max(int((delay+time.Second-1)/time.Second), 1)
			w.Header().Set(HeaderRetryAfter, strconv.Itoa(retry))

			log.Warn("burst limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retry,
			)

			WriteJSON(w, http.StatusTooManyRequests, RateLimitExceededBody{
				Error:      "RateLimitExceeded",
				Message:    "Too many attempts, please slow down.",
				StatusCode: http.StatusTooManyRequests,
				RetryAfter: retry,
				Limit:      g.cfg.RequestsPerWindow,
				WindowMs:   g.cfg.Window.Milliseconds(),
			})
		})
	}
}

// LoginGuard limits by client IP plus the "email" field of a JSON body.
// ipKey resolves the client IP and defaults to IPKeyExtractor.
func LoginGuard(cfg BurstConfig, ipKey KeyExtractor) *BurstGuard {
	if ipKey == nil {
		ipKey = IPKeyExtractor
	}
	return NewBurstGuard(cfg, CompositeKeyExtractor(":",
		ipKey,
		JSONFieldKeyExtractor("email"),
	))
}
