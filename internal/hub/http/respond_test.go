package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/campaignhub/internal/hub/service"
	"github.com/aussiebroadwan/campaignhub/pkg/hubsdk"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "transition",
			err:      &service.TransitionError{Entity: "campaign", Action: "complete", Current: "paused"},
			wantCode: http.StatusBadRequest,
			wantErr:  "Cannot complete campaign with status paused",
		},
		{
			name:     "expired refresh token",
			err:      fmt.Errorf("refresh: %w", &jwtx.Error{Kind: jwtx.KindExpired}),
			wantCode: http.StatusUnauthorized,
			wantErr:  hubsdk.CodeTokenExpired,
		},
		{
			name:     "invalid refresh token",
			err:      jwtx.ErrInvalid,
			wantCode: http.StatusUnauthorized,
			wantErr:  hubsdk.CodeInvalidToken,
		},
		{name: "not found", err: service.ErrNotFound, wantCode: http.StatusNotFound, wantErr: hubsdk.CodeNotFound},
		{name: "unknown action", err: service.ErrUnknownAction, wantCode: http.StatusNotFound, wantErr: hubsdk.CodeNotFound},
		{name: "forbidden", err: fmt.Errorf("%w: not yours", service.ErrForbidden), wantCode: http.StatusForbidden, wantErr: hubsdk.CodeForbidden},
		{name: "credentials", err: service.ErrInvalidCredentials, wantCode: http.StatusUnauthorized, wantErr: hubsdk.CodeInvalidCredential},
		{name: "email taken", err: service.ErrEmailTaken, wantCode: http.StatusConflict, wantErr: hubsdk.CodeConflict},
		{name: "conflict", err: service.ErrConflict, wantCode: http.StatusConflict, wantErr: hubsdk.CodeConflict},
		{name: "invalid input", err: fmt.Errorf("%w: bad status", service.ErrInvalidInput), wantCode: http.StatusBadRequest, wantErr: hubsdk.CodeInvalidRequest},
		{name: "unexpected", err: errors.New("disk on fire"), wantCode: http.StatusInternalServerError, wantErr: hubsdk.CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			writeServiceError(rec, req, tt.err)

			require.Equal(t, tt.wantCode, rec.Code)

			var body hubsdk.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.False(t, body.Success)
			require.Equal(t, tt.wantErr, body.Error)
		})
	}
}

func TestWriteServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("sqlite: database is locked"))

	require.NotContains(t, rec.Body.String(), "sqlite")
}
