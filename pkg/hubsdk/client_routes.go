package hubsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Health
// ============================================================================

func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK)
	return out, err
}

// ============================================================================
// Auth
// ============================================================================

func (c *Client) Register(ctx context.Context, req RegisterRequest) (TokenResponse, error) {
	return data[TokenResponse](ctx, c, http.MethodPost, "/v1/auth/register", req, http.StatusCreated)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	return data[TokenResponse](ctx, c, http.MethodPost, "/v1/auth/login", req, http.StatusOK)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	return data[TokenResponse](ctx, c, http.MethodPost, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, http.StatusOK)
}

func (c *Client) Me(ctx context.Context) (UserResponse, error) {
	return data[UserResponse](ctx, c, http.MethodGet, "/v1/auth/me", nil, http.StatusOK)
}

// ============================================================================
// Users (admin)
// ============================================================================

func (c *Client) ListUsers(ctx context.Context) ([]UserResponse, error) {
	return data[[]UserResponse](ctx, c, http.MethodGet, "/v1/users", nil, http.StatusOK)
}

func (c *Client) ChangeRole(ctx context.Context, userID, role string) (UserResponse, error) {
	return data[UserResponse](ctx, c, http.MethodPatch, "/v1/users/"+url.PathEscape(userID)+"/role", ChangeRoleRequest{Role: role}, http.StatusOK)
}

// ============================================================================
// Campaigns
// ============================================================================

func (c *Client) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (CampaignResponse, error) {
	return data[CampaignResponse](ctx, c, http.MethodPost, "/v1/campaigns", req, http.StatusCreated)
}

// ListCampaigns lists campaigns, filtered by status when non-empty.
func (c *Client) ListCampaigns(ctx context.Context, status string) ([]CampaignResponse, error) {
	path := "/v1/campaigns"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	return data[[]CampaignResponse](ctx, c, http.MethodGet, path, nil, http.StatusOK)
}

func (c *Client) GetCampaign(ctx context.Context, id string) (CampaignResponse, error) {
	return data[CampaignResponse](ctx, c, http.MethodGet, "/v1/campaigns/"+url.PathEscape(id), nil, http.StatusOK)
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, req UpdateCampaignRequest) (CampaignResponse, error) {
	return data[CampaignResponse](ctx, c, http.MethodPatch, "/v1/campaigns/"+url.PathEscape(id), req, http.StatusOK)
}

func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/campaigns/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// CampaignAction runs a lifecycle action: activate, pause, resume, complete
// or cancel.
func (c *Client) CampaignAction(ctx context.Context, id, action string) (CampaignResponse, error) {
	return data[CampaignResponse](ctx, c, http.MethodPost, "/v1/campaigns/"+url.PathEscape(id)+"/"+action, nil, http.StatusOK)
}

// ============================================================================
// Collaborations
// ============================================================================

func (c *Client) Invite(ctx context.Context, campaignID string, req InviteRequest) (CollaborationResponse, error) {
	return data[CollaborationResponse](ctx, c, http.MethodPost, "/v1/campaigns/"+url.PathEscape(campaignID)+"/collaborations", req, http.StatusCreated)
}

func (c *Client) ListCollaborations(ctx context.Context, campaignID string) ([]CollaborationResponse, error) {
	return data[[]CollaborationResponse](ctx, c, http.MethodGet, "/v1/campaigns/"+url.PathEscape(campaignID)+"/collaborations", nil, http.StatusOK)
}

func (c *Client) GetCollaboration(ctx context.Context, id string) (CollaborationResponse, error) {
	return data[CollaborationResponse](ctx, c, http.MethodGet, "/v1/collaborations/"+url.PathEscape(id), nil, http.StatusOK)
}

// CollaborationAction runs a lifecycle action: accept, decline, start,
// complete or cancel.
func (c *Client) CollaborationAction(ctx context.Context, id, action string) (CollaborationResponse, error) {
	return data[CollaborationResponse](ctx, c, http.MethodPost, "/v1/collaborations/"+url.PathEscape(id)+"/"+action, nil, http.StatusOK)
}

// ============================================================================
// Tickets
// ============================================================================

func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (TicketResponse, error) {
	return data[TicketResponse](ctx, c, http.MethodPost, "/v1/tickets", req, http.StatusCreated)
}

func (c *Client) ListTickets(ctx context.Context) ([]TicketResponse, error) {
	return data[[]TicketResponse](ctx, c, http.MethodGet, "/v1/tickets", nil, http.StatusOK)
}

func (c *Client) GetTicket(ctx context.Context, id string) (TicketResponse, error) {
	return data[TicketResponse](ctx, c, http.MethodGet, "/v1/tickets/"+url.PathEscape(id), nil, http.StatusOK)
}

func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tickets/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}
