package http

import (
	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
)

func toUser(u domain.User) hubsdk.UserResponse {
	return hubsdk.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toTokens(u domain.User, p jwtx.TokenPair) hubsdk.TokenResponse {
	return hubsdk.TokenResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		TokenType:        "Bearer",
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
		User:             toUser(u),
	}
}

func toCampaign(c domain.Campaign) hubsdk.CampaignResponse {
	return hubsdk.CampaignResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Description: c.Description,
		Budget:      c.Budget,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCollaboration(c domain.Collaboration) hubsdk.CollaborationResponse {
	return hubsdk.CollaborationResponse{
		ID:           c.ID,
		CampaignID:   c.CampaignID,
		InfluencerID: c.InfluencerID,
		InvitedBy:    c.InvitedBy,
		Message:      c.Message,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toTicket(t domain.Ticket) hubsdk.TicketResponse {
	return hubsdk.TicketResponse{
		ID:         t.ID,
		AuthorID:   t.AuthorID,
		CampaignID: t.CampaignID,
		Subject:    t.Subject,
		Body:       t.Body,
		CreatedAt:  t.CreatedAt,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
