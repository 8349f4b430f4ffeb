package http

import (
	"net/http"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/httpx"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister creates an account.
//
//	@Summary		Register
//	@Description	Creates a user account and returns a token pair. Role may be "user" (default) or "influencer".
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hubsdk.RegisterRequest	true	"Registration"
//	@Success		201		{object}	hubsdk.Response[hubsdk.TokenResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	hubsdk.ErrorResponse	"Role not self-assignable"
//	@Failure		409		{object}	hubsdk.ErrorResponse	"Email already registered"
//	@Failure		429		{object}	hubsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req hubsdk.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	u, pair, err := h.AuthService.Register(r.Context(), service.Registration{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, toTokens(u, pair))
}

// HandleLogin exchanges credentials for a token pair.
//
//	@Summary		Login
//	@Description	Verifies email and password. Repeated attempts for the same IP and email are throttled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hubsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	hubsdk.Response[hubsdk.TokenResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	hubsdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	hubsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req hubsdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	u, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respond(w, http.StatusOK, toTokens(u, pair))
}

// HandleRefresh exchanges a refresh token for a new pair.
//
//	@Summary		Refresh tokens
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		hubsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	hubsdk.Response[hubsdk.TokenResponse]
//	@Failure		401		{object}	hubsdk.ErrorResponse	"Refresh token expired or invalid"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req hubsdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	u, pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respond(w, http.StatusOK, toTokens(u, pair))
}

// HandleMe returns the authenticated user.
//
//	@Summary		Current user
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	hubsdk.Response[hubsdk.UserResponse]
//	@Failure		401	{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, hubsdk.CodeAuthRequired, "")
		return
	}

	u, err := h.AuthService.Me(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respond(w, http.StatusOK, toUser(u))
}
