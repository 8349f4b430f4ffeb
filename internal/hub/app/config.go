package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/httpx"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/caarlos0/env/v11"
)

const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreSQLite = "sqlite"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"8080"`
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"campaignhub.db"`
	PepperFile   string `env:"PEPPER_FILE" envDefault:"pepper"`

	// TokenSecret is base64 (std or raw url) or plain text of at least 32
	// bytes. Empty is only accepted in dev, where a secret is generated.
	TokenSecret     string        `env:"TOKEN_SECRET"`
	TokenIssuer     string        `env:"TOKEN_ISSUER" envDefault:"campaignhub"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	RateLimitWindow         time.Duration `env:"RATELIMIT_WINDOW" envDefault:"15m"`
	RateLimitMaxRequests    int           `env:"RATELIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitSkipSuccessful bool          `env:"RATELIMIT_SKIP_SUCCESSFUL" envDefault:"false"`
	RateLimitStore          string        `env:"RATELIMIT_STORE" envDefault:"memory"`
	RateLimitSweepInterval  time.Duration `env:"RATELIMIT_SWEEP_INTERVAL" envDefault:"1m"`
	RateLimitGrace          time.Duration `env:"RATELIMIT_GRACE" envDefault:"1h"`

	// TrustedProxies lists CIDRs or addresses of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers identify the client. Empty means
	// clients are keyed by the connected peer only.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	LoginBurstRequests int           `env:"LOGIN_BURST_REQUESTS" envDefault:"5"`
	LoginBurstWindow   time.Duration `env:"LOGIN_BURST_WINDOW" envDefault:"1m"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	BootstrapAdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool { return c.Env == "dev" }

// Validate checks cross-field constraints the env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.TokenSecret == "" && !c.IsDev() {
		errs = append(errs, errors.New("TOKEN_SECRET is required outside dev"))
	}
	if c.TokenSecret != "" {
		if _, err := c.SecretBytes(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATELIMIT_WINDOW must be positive"))
	}
	if c.RateLimitMaxRequests <= 0 {
		errs = append(errs, errors.New("RATELIMIT_MAX_REQUESTS must be positive"))
	}
	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("RATELIMIT_STORE must be %q or %q, got %q",
			RateLimitStoreMemory, RateLimitStoreSQLite, c.RateLimitStore))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}
	if (c.BootstrapAdminEmail == "") != (c.BootstrapAdminPassword == "") {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}

	return errors.Join(errs...)
}

// ClientKeyExtractor picks how rate limiters identify a client. Forwarding
// headers are only honoured when TrustedProxies is set.
func (c Config) ClientKeyExtractor() (httpx.KeyExtractor, error) {
	prefixes, err := httpx.ParseTrustedProxies(c.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if len(prefixes) == 0 {
		return httpx.IPKeyExtractor, nil
	}
	return httpx.TrustedProxyKeyExtractor(prefixes), nil
}

// SecretBytes decodes TokenSecret. Base64 forms are tried first so a secret
// produced by `openssl rand -base64 32` works as is.
func (c Config) SecretBytes() ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(c.TokenSecret); err == nil && len(b) >= jwtx.MinSecretSize {
			return b, nil
		}
	}
	if len(c.TokenSecret) >= jwtx.MinSecretSize {
		return []byte(c.TokenSecret), nil
	}
	return nil, fmt.Errorf("TOKEN_SECRET must be at least %d bytes", jwtx.MinSecretSize)
}
