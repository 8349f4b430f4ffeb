package service

import (
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
)

// Actor is the authenticated caller on whose behalf a service acts.
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// CanManage reports whether a may manage a resource owned by ownerID:
// admins manage everything, brand managers their own.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || (a.Role == domain.RoleBrandManager && a.ID == ownerID)
}

// Observer receives lifecycle attempt outcomes: "applied", "rejected" or "error".
type Observer func(entity, action, outcome string)

// nowFrom reads f, falling back to the wall clock.
func nowFrom(f func() time.Time) time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}
