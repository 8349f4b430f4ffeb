package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

// UserService covers admin user management.
type UserService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

// ChangeRole assigns role to a user. Admins cannot change their own role,
// which keeps at least the acting admin in place.
func (s *UserService) ChangeRole(ctx context.Context, actor Actor, id string, role domain.Role) (domain.User, error) {
	if !actor.IsAdmin() {
		return domain.User{}, ErrForbidden
	}
	if !role.Valid() {
		return domain.User{}, invalidInput("unknown role " + string(role))
	}
	if id == actor.ID {
		return domain.User{}, invalidInput("cannot change your own role")
	}

	now := nowFrom(s.Now)
	if err := s.Store.Users().UpdateUserRole(ctx, id, role, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user role changed", "user_id", id, "role", role, "by", actor.ID)
	return u, nil
}
