package domain

import "time"

type Campaign struct {
	ID          string
	OwnerID     string // brand manager or admin who created it
	Title       string
	Description string
	Budget      int64 // minor currency units
	Status      CampaignStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CampaignFilter narrows campaign listings. Zero values match everything.
type CampaignFilter struct {
	Status  CampaignStatus
	OwnerID string
}
