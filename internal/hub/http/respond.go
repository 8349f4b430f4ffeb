package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/campaignhub/internal/hub/domain"
	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/httpx"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/aussiebroadwan/campaignhub/pkg/slogx"
)

type validatable interface {
	Validate() error
}

// decode reads the JSON body into dst and validates it. On failure the 400
// has already been written.
func decode(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, hubsdk.CodeInvalidRequest, err.Error())
		return false
	}
	if err := dst.Validate(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, hubsdk.ErrorResponse{
			Error:   hubsdk.CodeValidation,
			Message: "request validation failed",
			Details: hubsdk.FieldErrors(err),
		})
		return false
	}
	return true
}

func respond[T any](w http.ResponseWriter, code int, v T) {
	httpx.WriteJSON(w, code, hubsdk.Response[T]{Success: true, Data: v})
}

// actorFrom returns the authenticated caller, if any.
func actorFrom(r *http.Request) (service.Actor, bool) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: id.SubjectID, Role: domain.Role(id.Role)}, true
}

// writeServiceError maps service and token errors onto the HTTP error
// taxonomy. Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var te *service.TransitionError
	var tokErr *jwtx.Error

	switch {
	case errors.As(err, &te):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorBody{Error: te.Error()})
	case errors.As(err, &tokErr):
		if tokErr.Kind == jwtx.KindExpired {
			httpx.WriteError(w, http.StatusUnauthorized, hubsdk.CodeTokenExpired, "Refresh token expired, please log in again")
			return
		}
		httpx.WriteError(w, http.StatusUnauthorized, hubsdk.CodeInvalidToken, "Token verification failed")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownAction):
		httpx.WriteError(w, http.StatusNotFound, hubsdk.CodeNotFound, "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, hubsdk.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, hubsdk.CodeInvalidCredential, "Invalid email or password")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, hubsdk.CodeConflict, "Email already registered")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, hubsdk.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, hubsdk.CodeInvalidRequest, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, hubsdk.CodeServerError, "Internal server error")
	}
}
