package hubsdk

import "time"

// ============================================================================
// Envelopes
// ============================================================================

// Response wraps every successful payload.
type Response[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// ErrorResponse is the body of every non-2xx response. The rate-limit fields
// are only present on 429.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`

	// Details maps request fields to validation messages.
	Details map[string]string `json:"details,omitempty"`

	StatusCode int   `json:"statusCode,omitempty"`
	RetryAfter int   `json:"retryAfter,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	WindowMs   int64 `json:"windowMs,omitempty"`
}

// ============================================================================
// Auth
// ============================================================================

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`

	// Role is optional: "user" (default) or "influencer".
	Role string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is returned by register, login and refresh.
type TokenResponse struct {
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	TokenType        string       `json:"tokenType"`
	AccessExpiresAt  time.Time    `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt"`
	User             UserResponse `json:"user"`
}

// ============================================================================
// Users
// ============================================================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Campaigns
// ============================================================================

type CreateCampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Budget      int64  `json:"budget"`
}

// UpdateCampaignRequest carries only the fields being changed.
type UpdateCampaignRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Budget      *int64  `json:"budget,omitempty"`
}

type CampaignResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      int64     `json:"budget"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ============================================================================
// Collaborations
// ============================================================================

type InviteRequest struct {
	InfluencerID string `json:"influencerId"`
	Message      string `json:"message,omitempty"`
}

type CollaborationResponse struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaignId"`
	InfluencerID string    `json:"influencerId"`
	InvitedBy    string    `json:"invitedBy"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ============================================================================
// Tickets
// ============================================================================

type CreateTicketRequest struct {
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	CampaignID string `json:"campaignId,omitempty"`
}

type TicketResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	CampaignID *string   `json:"campaignId,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the dependencies probed by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
