package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// TestRateLimitWindow sends three requests inside a one second window with a
// budget of two. The third is rejected with a one second retry hint.
func TestRateLimitWindow(t *testing.T) {
	for _, backend := range []string{RateLimitStoreMemory, RateLimitStoreSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.RateLimitWindow = time.Second
			cfg.RateLimitMaxRequests = 2
			cfg.RateLimitStore = backend
			_, c := startApp(t, cfg)
			ctx := context.Background()

			_, err := c.Livez(ctx)
			require.NoError(t, err)
			_, err = c.Livez(ctx)
			require.NoError(t, err)

			_, err = c.Livez(ctx)
			require.True(t, hubsdk.IsRateLimited(err), "third request should be limited: %v", err)

			apiErr := err.(*hubsdk.APIError)
			require.Equal(t, hubsdk.CodeRateLimitExceeded, apiErr.Body.Error)
			require.Equal(t, 1, apiErr.RetryAfter)
			require.Equal(t, 1, apiErr.Body.RetryAfter)
			require.Equal(t, 2, apiErr.Body.Limit)
			require.Equal(t, int64(1000), apiErr.Body.WindowMs)
		})
	}
}

func TestRateLimitHeaders(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitMaxRequests = 3
	a, _ := startApp(t, cfg)

	srvReq, err := http.NewRequest(http.MethodGet, "/livez", nil)
	require.NoError(t, err)
	srvReq.RemoteAddr = "203.0.113.9:5555"

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, srvReq)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitClientKey(t *testing.T) {
	livez := func(a *Application, remote, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("forwarding headers ignored by default", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RateLimitMaxRequests = 2
		a, _ := startApp(t, cfg)

		allowed := 0
		for i := range 50 {
			if livez(a, "198.51.100.7:5555", fmt.Sprintf("10.9.9.%d", i)) == http.StatusOK {
				allowed++
			}
		}
		require.Equal(t, 2, allowed)
	})

	t.Run("trusted proxy forwards the client", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.RateLimitMaxRequests = 1
		cfg.TrustedProxies = []string{"10.0.0.0/8"}
		a, _ := startApp(t, cfg)

		require.Equal(t, http.StatusOK, livez(a, "10.0.0.1:5555", "203.0.113.1"))
		require.Equal(t, http.StatusOK, livez(a, "10.0.0.1:5555", "203.0.113.2"))
		require.Equal(t, http.StatusTooManyRequests, livez(a, "10.0.0.1:5555", "203.0.113.1"))
	})

	t.Run("bad proxy list fails startup", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.TrustedProxies = []string{"not-a-cidr/8"}
		_, err := NewWithLogger(cfg, slogx.Discard())
		require.ErrorContains(t, err, "trusted proxies")
	})
}

// TestExpiredAccessToken presents a token minted sixteen minutes ago with the
// default fifteen minute lifetime.
func TestExpiredAccessToken(t *testing.T) {
	a, c := startApp(t, testConfig(t))
	ctx := context.Background()

	tok, _ := register(t, c, "late@campaignhub.test", "")

	a.tokens.Now = func() time.Time { return time.Now().Add(-16 * time.Minute) }
	stale, err := a.tokens.IssuePair(tok.User.ID, tok.User.Role)
	a.tokens.Now = nil
	require.NoError(t, err)

	_, err = c.WithToken(stale.AccessToken).Me(ctx)
	require.True(t, hubsdk.IsTokenExpired(err), "expected expired token error, got %v", err)
	require.Contains(t, err.(*hubsdk.APIError).Body.Message, "re-authenticate")

	// The refresh token from the same pair is still valid.
	fresh, err := c.Refresh(ctx, stale.RefreshToken)
	require.NoError(t, err)

	me, err := c.WithToken(fresh.AccessToken).Me(ctx)
	require.NoError(t, err)
	require.Equal(t, tok.User.ID, me.ID)
}

func TestMissingToken(t *testing.T) {
	_, c := startApp(t, testConfig(t))

	_, err := c.Me(context.Background())
	require.Equal(t, http.StatusUnauthorized, hubsdk.StatusOf(err))
	require.Equal(t, hubsdk.CodeAuthRequired, err.(*hubsdk.APIError).Body.Error)
}

// TestPauseThenComplete pauses an active campaign and then tries to complete
// it, which the lifecycle does not allow from paused.
func TestPauseThenComplete(t *testing.T) {
	_, c := startApp(t, testConfig(t))
	ctx := context.Background()

	_, brand := brandManager(t, c, "brand@campaignhub.test")

	camp, err := brand.CreateCampaign(ctx, hubsdk.CreateCampaignRequest{Title: "Winter launch", Budget: 5000})
	require.NoError(t, err)
	require.Equal(t, "draft", camp.Status)

	camp, err = brand.CampaignAction(ctx, camp.ID, "activate")
	require.NoError(t, err)
	require.Equal(t, "active", camp.Status)

	camp, err = brand.CampaignAction(ctx, camp.ID, "pause")
	require.NoError(t, err)
	require.Equal(t, "paused", camp.Status)

	_, err = brand.CampaignAction(ctx, camp.ID, "complete")
	require.Equal(t, http.StatusBadRequest, hubsdk.StatusOf(err))
	apiErr := err.(*hubsdk.APIError)
	require.False(t, apiErr.Body.Success)
	require.Equal(t, "Cannot complete campaign with status paused", apiErr.Body.Error)

	got, err := brand.GetCampaign(ctx, camp.ID)
	require.NoError(t, err)
	require.Equal(t, "paused", got.Status)
}

// TestRoleGate calls an admin-only route as a plain user.
func TestRoleGate(t *testing.T) {
	_, c := startApp(t, testConfig(t))
	ctx := context.Background()

	_, user := register(t, c, "plain@campaignhub.test", "")

	_, err := user.ListUsers(ctx)
	require.Equal(t, http.StatusForbidden, hubsdk.StatusOf(err))
	require.Equal(t, hubsdk.CodeForbidden, err.(*hubsdk.APIError).Body.Error)

	_, err = user.CreateCampaign(ctx, hubsdk.CreateCampaignRequest{Title: "Nope"})
	require.Equal(t, http.StatusForbidden, hubsdk.StatusOf(err))

	admin := loginAs(t, c, testAdminEmail, testAdminPassword)
	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestCollaborationFlow(t *testing.T) {
	_, c := startApp(t, testConfig(t))
	ctx := context.Background()

	_, brand := brandManager(t, c, "brand@campaignhub.test")
	inf, influencer := register(t, c, "creator@campaignhub.test", hubsdk.RoleInfluencer)

	camp, err := brand.CreateCampaign(ctx, hubsdk.CreateCampaignRequest{Title: "Spring drop"})
	require.NoError(t, err)
	_, err = brand.CampaignAction(ctx, camp.ID, "activate")
	require.NoError(t, err)

	col, err := brand.Invite(ctx, camp.ID, hubsdk.InviteRequest{InfluencerID: inf.User.ID, Message: "Keen?"})
	require.NoError(t, err)
	require.Equal(t, "invited", col.Status)

	_, err = brand.Invite(ctx, camp.ID, hubsdk.InviteRequest{InfluencerID: inf.User.ID})
	require.Equal(t, http.StatusConflict, hubsdk.StatusOf(err))

	// Only the invitee may accept.
	_, err = brand.CollaborationAction(ctx, col.ID, "accept")
	require.Equal(t, http.StatusForbidden, hubsdk.StatusOf(err))

	col, err = influencer.CollaborationAction(ctx, col.ID, "accept")
	require.NoError(t, err)
	require.Equal(t, "accepted", col.Status)

	col, err = brand.CollaborationAction(ctx, col.ID, "start")
	require.NoError(t, err)
	require.Equal(t, "active", col.Status)

	_, err = influencer.CollaborationAction(ctx, col.ID, "decline")
	require.Equal(t, http.StatusBadRequest, hubsdk.StatusOf(err))
	require.Equal(t, "Cannot decline collaboration with status active", err.(*hubsdk.APIError).Body.Error)

	list, err := influencer.ListCollaborations(ctx, camp.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAnonymousBrowsing(t *testing.T) {
	_, c := startApp(t, testConfig(t))
	ctx := context.Background()

	_, brand := brandManager(t, c, "brand@campaignhub.test")

	draft, err := brand.CreateCampaign(ctx, hubsdk.CreateCampaignRequest{Title: "Secret"})
	require.NoError(t, err)
	live, err := brand.CreateCampaign(ctx, hubsdk.CreateCampaignRequest{Title: "Public"})
	require.NoError(t, err)
	_, err = brand.CampaignAction(ctx, live.ID, "activate")
	require.NoError(t, err)

	list, err := c.ListCampaigns(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, live.ID, list[0].ID)

	_, err = c.GetCampaign(ctx, draft.ID)
	require.Equal(t, http.StatusNotFound, hubsdk.StatusOf(err))

	mine, err := brand.ListCampaigns(ctx, "draft")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestTickets(t *testing.T) {
	_, c := startApp(t, testConfig(t))
	ctx := context.Background()

	_, alice := register(t, c, "alice@campaignhub.test", "")
	_, bob := register(t, c, "bob@campaignhub.test", "")

	tk, err := alice.CreateTicket(ctx, hubsdk.CreateTicketRequest{Subject: "Payout", Body: "Where is my payout?"})
	require.NoError(t, err)

	_, err = bob.GetTicket(ctx, tk.ID)
	require.Equal(t, http.StatusForbidden, hubsdk.StatusOf(err))

	admin := loginAs(t, c, testAdminEmail, testAdminPassword)
	all, err := admin.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, alice.DeleteTicket(ctx, tk.ID))
	_, err = alice.GetTicket(ctx, tk.ID)
	require.Equal(t, http.StatusNotFound, hubsdk.StatusOf(err))
}

func TestValidationDetails(t *testing.T) {
	_, c := startApp(t, testConfig(t))

	_, err := c.Register(context.Background(), hubsdk.RegisterRequest{Email: "not-an-email", Password: "short"})
	require.Equal(t, http.StatusBadRequest, hubsdk.StatusOf(err))

	body := err.(*hubsdk.APIError).Body
	require.Equal(t, hubsdk.CodeValidation, body.Error)
	require.Contains(t, body.Details, "email")
	require.Contains(t, body.Details, "password")
}

func TestReadyz(t *testing.T) {
	_, c := startApp(t, testConfig(t))

	h, err := c.Readyz(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", h.Status)
	require.NotNil(t, h.Checks)
	require.Equal(t, "ok", h.Checks.Database)
	require.Equal(t, BuildVersion, h.Version)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	a, _ := startApp(t, cfg)

	created, err := a.authService.BootstrapAdmin(context.Background(), "other@campaignhub.test", testAdminPassword)
	require.NoError(t, err)
	require.False(t, created)
}
