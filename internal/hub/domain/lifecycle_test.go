package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/stretchr/testify/require"
)

var campaignStatuses = []domain.CampaignStatus{
	domain.CampaignDraft, domain.CampaignActive, domain.CampaignPaused,
	domain.CampaignCompleted, domain.CampaignCancelled,
}

var collabStatuses = []domain.CollaborationStatus{
	domain.CollabInvited, domain.CollabAccepted, domain.CollabDeclined,
	domain.CollabActive, domain.CollabCompleted, domain.CollabCancelled,
}

func TestCampaignTable(t *testing.T) {
	require.True(t, domain.CanTransition(domain.KindCampaign, "draft", "active"))
	require.False(t, domain.CanTransition(domain.KindCampaign, "draft", "paused"))

	tests := []struct {
		from string
		to   []string
	}{
		{"draft", []string{"active", "cancelled"}},
		{"active", []string{"paused", "completed", "cancelled"}},
		{"paused", []string{"active", "cancelled"}},
		{"completed", nil},
		{"cancelled", nil},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			for _, target := range campaignStatuses {
				want := false
				for _, to := range tt.to {
					if to == string(target) {
						want = true
					}
				}
				require.Equal(t, want, domain.CanTransition(domain.KindCampaign, tt.from, string(target)),
					"%s -> %s", tt.from, target)
			}
		})
	}
}

func TestCollaborationTable(t *testing.T) {
	allowed := map[string][]string{
		"invited":   {"accepted", "declined"},
		"accepted":  {"active", "cancelled"},
		"declined":  nil,
		"active":    {"completed", "cancelled"},
		"completed": nil,
		"cancelled": nil,
	}

	for from, tos := range allowed {
		for _, target := range collabStatuses {
			want := false
			for _, to := range tos {
				want = want || to == string(target)
			}
			require.Equal(t, want, domain.CanTransition(domain.KindCollaboration, from, string(target)),
				"%s -> %s", from, target)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range []string{"completed", "cancelled"} {
		require.True(t, domain.IsTerminal(domain.KindCampaign, s))
		for _, target := range campaignStatuses {
			require.False(t, domain.CanTransition(domain.KindCampaign, s, string(target)))
		}
	}
	for _, s := range []string{"declined", "completed", "cancelled"} {
		require.True(t, domain.IsTerminal(domain.KindCollaboration, s))
	}
	require.False(t, domain.IsTerminal(domain.KindCampaign, "draft"))
	require.False(t, domain.IsTerminal(domain.KindCampaign, "bogus"))
}

func TestUnknownInputs(t *testing.T) {
	require.False(t, domain.CanTransition("invoice", "draft", "active"))
	require.False(t, domain.CanTransition(domain.KindCampaign, "archived", "active"))
	require.False(t, domain.CanTransition(domain.KindCampaign, "draft", "archived"))
	require.False(t, domain.CampaignStatus("archived").Valid())
	require.True(t, domain.CollabDeclined.Valid())
}

func TestCanResume(t *testing.T) {
	for _, s := range campaignStatuses {
		require.Equal(t, s == domain.CampaignPaused, domain.CanResume(s), string(s))
	}
}

func TestCampaignActionAllowed(t *testing.T) {
	require.True(t, domain.CampaignActionAllowed(domain.ActionPause, domain.CampaignActive))
	require.False(t, domain.CampaignActionAllowed(domain.ActionComplete, domain.CampaignPaused))

	// Activate and resume both target active but check different things.
	require.True(t, domain.CampaignActionAllowed(domain.ActionActivate, domain.CampaignDraft))
	require.False(t, domain.CampaignActionAllowed(domain.ActionResume, domain.CampaignDraft))
	require.True(t, domain.CampaignActionAllowed(domain.ActionResume, domain.CampaignPaused))
	require.True(t, domain.CampaignActionAllowed(domain.ActionActivate, domain.CampaignPaused))

	require.False(t, domain.CampaignActionAllowed(domain.ActionAccept, domain.CampaignDraft))

	target, ok := domain.CampaignTarget(domain.ActionCancel)
	require.True(t, ok)
	require.Equal(t, domain.CampaignCancelled, target)
}

func TestCollaborationActionAllowed(t *testing.T) {
	require.True(t, domain.CollaborationActionAllowed(domain.ActionAccept, domain.CollabInvited))
	require.True(t, domain.CollaborationActionAllowed(domain.ActionStart, domain.CollabAccepted))
	require.False(t, domain.CollaborationActionAllowed(domain.ActionStart, domain.CollabInvited))
	require.False(t, domain.CollaborationActionAllowed(domain.ActionCancel, domain.CollabDeclined))
	require.False(t, domain.CollaborationActionAllowed(domain.ActionPause, domain.CollabActive))

	_, ok := domain.CollaborationTarget(domain.ActionResume)
	require.False(t, ok)
}

func TestRoles(t *testing.T) {
	require.True(t, domain.RoleBrandManager.Valid())
	require.False(t, domain.Role("root").Valid())
	require.True(t, domain.RoleInfluencer.SelfAssignable())
	require.False(t, domain.RoleAdmin.SelfAssignable())
	require.Equal(t, []string{"admin", "brand_manager"}, domain.Names(domain.RoleAdmin, domain.RoleBrandManager))
}
