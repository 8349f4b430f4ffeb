package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/cryptox"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "root@campaignhub.test"
	testAdminPassword = "admin-password-123"
	testPassword      = "correct-horse-battery"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Port:                   8080,
		Env:                    "test",
		LogLevel:               "error",
		LogFormat:              "text",
		DatabaseFile:           filepath.Join(dir, "hub.db"),
		PepperFile:             filepath.Join(dir, "pepper"),
		TokenSecret:            "0123456789abcdef0123456789abcdef",
		TokenIssuer:            "campaignhub-test",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTL:        24 * time.Hour,
		RateLimitWindow:        15 * time.Minute,
		RateLimitMaxRequests:   100,
		RateLimitStore:         RateLimitStoreMemory,
		RateLimitSweepInterval: time.Minute,
		RateLimitGrace:         time.Hour,
		LoginBurstRequests:     5,
		LoginBurstWindow:       time.Minute,
		ShutdownGracePeriod:    time.Second,
		BootstrapAdminEmail:    testAdminEmail,
		BootstrapAdminPassword: testAdminPassword,
	}
}

// startApp builds an Application from cfg and serves it on an httptest
// server. Password hashing is made cheap after construction.
func startApp(t *testing.T, cfg Config) (*Application, *hubsdk.Client) {
	t.Helper()

	a, err := NewWithLogger(cfg, slogx.Discard())
	require.NoError(t, err)
	a.hasher.Params = cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 8}

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = a.closeResources()
	})

	return a, hubsdk.NewClient(srv.URL)
}

func loginAs(t *testing.T, c *hubsdk.Client, email, password string) *hubsdk.Client {
	t.Helper()
	tok, err := c.Login(context.Background(), hubsdk.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	return c.WithToken(tok.AccessToken)
}

func register(t *testing.T, c *hubsdk.Client, email, role string) (hubsdk.TokenResponse, *hubsdk.Client) {
	t.Helper()
	tok, err := c.Register(context.Background(), hubsdk.RegisterRequest{
		Email:    email,
		Name:     "Test User",
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)
	return tok, c.WithToken(tok.AccessToken)
}

// brandManager registers a user, has the bootstrap admin promote them and
// returns a client carrying a token with the new role.
func brandManager(t *testing.T, c *hubsdk.Client, email string) (string, *hubsdk.Client) {
	t.Helper()
	ctx := context.Background()

	tok, _ := register(t, c, email, "")
	admin := loginAs(t, c, testAdminEmail, testAdminPassword)

	_, err := admin.ChangeRole(ctx, tok.User.ID, hubsdk.RoleBrandManager)
	require.NoError(t, err)

	return tok.User.ID, loginAs(t, c, email, testPassword)
}
