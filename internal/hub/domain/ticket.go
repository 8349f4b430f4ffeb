package domain

import "time"

// Ticket is a support request raised by a user, optionally about a campaign.
type Ticket struct {
	ID         string
	AuthorID   string
	CampaignID *string
	Subject    string
	Body       string
	CreatedAt  time.Time
}
