package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStatusConflict is returned by compare-and-swap writes when the row
	// exists but its status no longer matches the expected one.
	ErrStatusConflict = errors.New("store: status conflict")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction can only be opened from the root.
type Store interface {
	Users() Users
	Campaigns() Campaigns
	Collaborations() Collaborations
	Tickets() Tickets
	RateLimits() RateLimits

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used at login. Email is matched case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns every user, oldest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	UpdateUserRole(ctx context.Context, userID string, role domain.Role, now time.Time) error

	CountUsersByRole(ctx context.Context, role domain.Role) (int, error)
}

type Campaigns interface {
	CreateCampaign(ctx context.Context, c domain.Campaign) error

	// GetCampaignByID always reads the current row; nothing is cached.
	GetCampaignByID(ctx context.Context, id string) (domain.Campaign, error)

	// ListCampaigns returns campaigns matching f, newest first.
	ListCampaigns(ctx context.Context, f domain.CampaignFilter) ([]domain.Campaign, error)

	// UpdateCampaignDetails writes title, description and budget if the
	// campaign is still in status expected.
	UpdateCampaignDetails(ctx context.Context, c domain.Campaign, expected domain.CampaignStatus) error

	// UpdateCampaignStatus moves the campaign from -> to in one statement.
	// Returns ErrNotFound if the row is gone and ErrStatusConflict if its
	// status is no longer from.
	UpdateCampaignStatus(ctx context.Context, id string, from, to domain.CampaignStatus, now time.Time) error

	// DeleteCampaign removes the campaign if it is still in status expected.
	DeleteCampaign(ctx context.Context, id string, expected domain.CampaignStatus) error
}

type Collaborations interface {
	// CreateCollaboration returns ErrAlreadyExists if the influencer already
	// has a collaboration on the campaign.
	CreateCollaboration(ctx context.Context, c domain.Collaboration) error

	GetCollaborationByID(ctx context.Context, id string) (domain.Collaboration, error)

	// ListCollaborations lists a campaign's collaborations. A non-empty
	// influencerID restricts the result to that influencer.
	ListCollaborations(ctx context.Context, campaignID, influencerID string) ([]domain.Collaboration, error)

	// UpdateCollaborationStatus has the same compare-and-swap contract as
	// Campaigns.UpdateCampaignStatus.
	UpdateCollaborationStatus(ctx context.Context, id string, from, to domain.CollaborationStatus, now time.Time) error
}

type Tickets interface {
	CreateTicket(ctx context.Context, t domain.Ticket) error
	GetTicketByID(ctx context.Context, id string) (domain.Ticket, error)

	// ListTickets lists tickets newest first. An empty authorID lists all.
	ListTickets(ctx context.Context, authorID string) ([]domain.Ticket, error)

	DeleteTicket(ctx context.Context, id string) error
}

// RateLimitRecord is a persisted fixed-window counter.
type RateLimitRecord struct {
	Key           string
	Count         int
	WindowResetAt time.Time
}

type RateLimits interface {
	GetRateLimit(ctx context.Context, key string) (RateLimitRecord, error)
	UpsertRateLimit(ctx context.Context, rec RateLimitRecord) error
	DeleteRateLimit(ctx context.Context, key string) error

	// IncrementRateLimit adds one to key's count in a single statement. When
	// the stored window ended before now (or no row exists) the count restarts
	// at one with a window ending at resetAt.
	IncrementRateLimit(ctx context.Context, key string, now, resetAt time.Time) (RateLimitRecord, error)

	// DecrementRateLimit subtracts one from key's count if its window still
	// ends at windowResetAt and the count is positive.
	DecrementRateLimit(ctx context.Context, key string, windowResetAt time.Time) error

	// DeleteRateLimitsBefore removes records whose window ended before t.
	DeleteRateLimitsBefore(ctx context.Context, t time.Time) (int, error)
}
