package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/store"
	"github.com/aussiebroadwan/campaignhub/pkg/cryptox"
	"github.com/aussiebroadwan/campaignhub/pkg/idx"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

type AuthService struct {
	Store  store.Store
	Tokens *jwtx.TokenService
	Hasher *cryptox.PasswordHasher
	Now    func() time.Time
}

// Registration is the input to Register. Role defaults to user.
type Registration struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// Register creates a user with a self-assignable role and signs them in.
func (s *AuthService) Register(ctx context.Context, in Registration) (domain.User, jwtx.TokenPair, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return domain.User{}, jwtx.TokenPair{}, invalidInput("unknown role " + string(role))
	}
	if !role.SelfAssignable() {
		return domain.User{}, jwtx.TokenPair{}, fmt.Errorf("%w: role %s cannot be self-assigned", ErrForbidden, role)
	}

	u, err := s.createUser(ctx, s.Store, in.Email, in.Name, in.Password, role)
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}

	pair, err := s.Tokens.IssuePair(u.ID, string(u.Role))
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, pair, nil
}

// Login checks email and password and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, jwtx.TokenPair, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		log.Info("login failed", "reason", "unknown email")
		return domain.User{}, jwtx.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login failed", "reason", "password mismatch", "user_id", u.ID)
			return domain.User{}, jwtx.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, jwtx.TokenPair{}, err
	}

	pair, err := s.Tokens.IssuePair(u.ID, string(u.Role))
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The role is re-read from
// the store so role changes take effect on the next refresh. Token failures
// are returned as *jwtx.Error.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.User, jwtx.TokenPair, error) {
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.SubjectID())
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, jwtx.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}

	pair, err := s.Tokens.IssuePair(u.ID, string(u.Role))
	if err != nil {
		return domain.User{}, jwtx.TokenPair{}, err
	}
	return u, pair, nil
}

// Me returns the user behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// BootstrapAdmin ensures at least one admin exists. If none does, the user
// with email is promoted, or created when missing. Returns whether anything
// changed.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	log := slogx.FromContext(ctx)
	changed := false

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		admins, err := tx.Users().CountUsersByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return err
		}
		if admins > 0 {
			return nil
		}

		existing, err := tx.Users().GetUserByEmail(ctx, normalizeEmail(email))
		switch {
		case err == nil:
			changed = true
			log.Info("promoting existing user to admin", "user_id", existing.ID)
			return tx.Users().UpdateUserRole(ctx, existing.ID, domain.RoleAdmin, nowFrom(s.Now))
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		u, err := s.createUser(ctx, tx, email, "Administrator", password, domain.RoleAdmin)
		if err != nil {
			return err
		}
		changed = true
		log.Info("bootstrap admin created", "user_id", u.ID)
		return nil
	})
	return changed, err
}

func (s *AuthService) createUser(ctx context.Context, st store.Store, email, name, password string, role domain.Role) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, invalidInput("email and password are required")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := nowFrom(s.Now)
	u := domain.User{
		ID:           idx.NewAt(now),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := st.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
