package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/stretchr/testify/require"
)

func TestCollaborationFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bm := h.seedUser(t, domain.RoleBrandManager)
	inf := h.seedUser(t, domain.RoleInfluencer)
	other := h.seedUser(t, domain.RoleInfluencer)

	c, err := h.campaigns.Create(ctx, bm, service.CampaignInput{Title: "Launch"})
	require.NoError(t, err)

	col, err := h.collaborations.Invite(ctx, bm, c.ID, inf.ID, "join us")
	require.NoError(t, err)
	require.Equal(t, domain.CollabInvited, col.Status)
	require.Equal(t, bm.ID, col.InvitedBy)

	_, err = h.collaborations.Invite(ctx, bm, c.ID, inf.ID, "again")
	require.ErrorIs(t, err, service.ErrConflict)

	// Only the invitee accepts.
	_, err = h.collaborations.Transition(ctx, other, col.ID, domain.ActionAccept)
	require.ErrorIs(t, err, service.ErrForbidden)
	_, err = h.collaborations.Transition(ctx, bm, col.ID, domain.ActionAccept)
	require.ErrorIs(t, err, service.ErrForbidden)

	accepted, err := h.collaborations.Transition(ctx, inf, col.ID, domain.ActionAccept)
	require.NoError(t, err)
	require.Equal(t, domain.CollabAccepted, accepted.Status)

	// Only managers start.
	_, err = h.collaborations.Transition(ctx, inf, col.ID, domain.ActionStart)
	require.ErrorIs(t, err, service.ErrForbidden)

	started, err := h.collaborations.Transition(ctx, bm, col.ID, domain.ActionStart)
	require.NoError(t, err)
	require.Equal(t, domain.CollabActive, started.Status)

	done, err := h.collaborations.Transition(ctx, bm, col.ID, domain.ActionComplete)
	require.NoError(t, err)
	require.Equal(t, domain.CollabCompleted, done.Status)

	_, err = h.collaborations.Transition(ctx, bm, col.ID, domain.ActionCancel)
	require.ErrorIs(t, err, service.ErrInvalidTransition)
	require.EqualError(t, err, "Cannot cancel collaboration with status completed")
	require.Equal(t, transition{"collaboration", "cancel", "rejected"}, h.lastObserved(t))
}

func TestCollaborationDeclineIsTerminal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bm := h.seedUser(t, domain.RoleBrandManager)
	inf := h.seedUser(t, domain.RoleInfluencer)

	c, err := h.campaigns.Create(ctx, bm, service.CampaignInput{Title: "Decline"})
	require.NoError(t, err)
	col, err := h.collaborations.Invite(ctx, bm, c.ID, inf.ID, "")
	require.NoError(t, err)

	_, err = h.collaborations.Transition(ctx, inf, col.ID, domain.ActionDecline)
	require.NoError(t, err)

	_, err = h.collaborations.Transition(ctx, inf, col.ID, domain.ActionAccept)
	require.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestCollaborationInviteValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bm := h.seedUser(t, domain.RoleBrandManager)
	rival := h.seedUser(t, domain.RoleBrandManager)
	plain := h.seedUser(t, domain.RoleUser)
	inf := h.seedUser(t, domain.RoleInfluencer)

	c, err := h.campaigns.Create(ctx, bm, service.CampaignInput{Title: "Checks"})
	require.NoError(t, err)

	_, err = h.collaborations.Invite(ctx, bm, c.ID, plain.ID, "")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = h.collaborations.Invite(ctx, bm, c.ID, "ghost", "")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = h.collaborations.Invite(ctx, rival, c.ID, inf.ID, "")
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = h.collaborations.Invite(ctx, bm, "missing", inf.ID, "")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = h.campaigns.Transition(ctx, bm, c.ID, domain.ActionCancel)
	require.NoError(t, err)

	_, err = h.collaborations.Invite(ctx, bm, c.ID, inf.ID, "")
	require.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestCollaborationVisibility(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bm := h.seedUser(t, domain.RoleBrandManager)
	rival := h.seedUser(t, domain.RoleBrandManager)
	admin := h.seedUser(t, domain.RoleAdmin)
	plain := h.seedUser(t, domain.RoleUser)
	a := h.seedUser(t, domain.RoleInfluencer)
	b := h.seedUser(t, domain.RoleInfluencer)

	c, err := h.campaigns.Create(ctx, bm, service.CampaignInput{Title: "Visibility"})
	require.NoError(t, err)
	colA, err := h.collaborations.Invite(ctx, bm, c.ID, a.ID, "")
	require.NoError(t, err)
	_, err = h.collaborations.Invite(ctx, bm, c.ID, b.ID, "")
	require.NoError(t, err)

	list, err := h.collaborations.List(ctx, bm, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = h.collaborations.List(ctx, admin, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = h.collaborations.List(ctx, a, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].InfluencerID)

	_, err = h.collaborations.List(ctx, rival, c.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = h.collaborations.List(ctx, plain, c.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	got, err := h.collaborations.Get(ctx, a, colA.ID)
	require.NoError(t, err)
	require.Equal(t, colA.ID, got.ID)

	_, err = h.collaborations.Get(ctx, b, colA.ID)
	require.ErrorIs(t, err, service.ErrForbidden)
}
