package domain

import "time"

// Collaboration is an influencer's participation in a campaign.
type Collaboration struct {
	ID           string
	CampaignID   string
	InfluencerID string
	InvitedBy    string
	Message      string
	Status       CollaborationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
