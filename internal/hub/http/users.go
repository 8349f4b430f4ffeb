package http

import (
	"net/http"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList lists every user.
//
//	@Summary		List users
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	hubsdk.Response[[]hubsdk.UserResponse]
//	@Failure		401	{object}	hubsdk.ErrorResponse
//	@Failure		403	{object}	hubsdk.ErrorResponse	"Requires admin"
//	@Security		BearerAuth
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, mapSlice(users, toUser))
}

// HandleChangeRole assigns a role to a user.
//
//	@Summary		Change a user's role
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		hubsdk.ChangeRoleRequest	true	"New role"
//	@Success		200		{object}	hubsdk.Response[hubsdk.UserResponse]
//	@Failure		400		{object}	hubsdk.ErrorResponse
//	@Failure		403		{object}	hubsdk.ErrorResponse	"Requires admin"
//	@Failure		404		{object}	hubsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/role [patch].
func (h *UsersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)

	var req hubsdk.ChangeRoleRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.UserService.ChangeRole(r.Context(), actor, r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toUser(u))
}
