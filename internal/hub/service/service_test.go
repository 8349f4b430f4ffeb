package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store/drivers/sqlite"
	"github.com/aussiebroadwan/campaignhub/pkg/cryptox"
	"github.com/aussiebroadwan/campaignhub/pkg/idx"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var cheapArgon = cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 8}

type transition struct {
	entity, action, outcome string
}

type harness struct {
	store  *sqlite.Store
	tokens *jwtx.TokenService
	now    time.Time

	auth           *service.AuthService
	campaigns      *service.CampaignService
	collaborations *service.CollaborationService
	tickets        *service.TicketService
	users          *service.UserService

	mu       sync.Mutex
	observed []transition
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "hub.db")))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	h := &harness{store: st, now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return h.now }

	tokens, err := jwtx.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), "campaignhub-test")
	require.NoError(t, err)
	tokens.Now = clock
	h.tokens = tokens

	hasher := cryptox.NewPasswordHasher("pepper")
	hasher.Params = cheapArgon

	observe := func(entity, action, outcome string) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.observed = append(h.observed, transition{entity, action, outcome})
	}

	h.auth = &service.AuthService{Store: st, Tokens: tokens, Hasher: hasher, Now: clock}
	h.campaigns = &service.CampaignService{Store: st, Now: clock, Observe: observe}
	h.collaborations = &service.CollaborationService{Store: st, Now: clock, Observe: observe}
	h.tickets = &service.TicketService{Store: st, Now: clock}
	h.users = &service.UserService{Store: st, Now: clock}
	return h
}

// seedUser inserts a user with role directly and returns the matching actor.
func (h *harness) seedUser(t *testing.T, role domain.Role) service.Actor {
	t.Helper()
	id := idx.New()
	require.NoError(t, h.store.Users().CreateUser(context.Background(), domain.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         string(role),
		PasswordHash: "unused",
		Role:         role,
		CreatedAt:    h.now,
		UpdatedAt:    h.now,
	}))
	return service.Actor{ID: id, Role: role}
}

func (h *harness) lastObserved(t *testing.T) transition {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.observed)
	return h.observed[len(h.observed)-1]
}
