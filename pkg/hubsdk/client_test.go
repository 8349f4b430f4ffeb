package hubsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/campaigns/abc/pause", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response[CampaignResponse]{
			Success: true,
			Data:    CampaignResponse{ID: "abc", Status: "paused"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/").WithToken("tok")
	got, err := c.CampaignAction(context.Background(), "abc", "pause")
	require.NoError(t, err)
	require.Equal(t, "paused", got.Status)
}

func TestClientRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Error:      CodeRateLimitExceeded,
			Message:    "Too many requests",
			StatusCode: 429,
			RetryAfter: 7,
			Limit:      2,
			WindowMs:   1000,
		})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Livez(context.Background())
	require.True(t, IsRateLimited(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 7, apiErr.RetryAfter)
	require.Equal(t, 2, apiErr.Body.Limit)
	require.Equal(t, int64(1000), apiErr.Body.WindowMs)
}

func TestClientTokenExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Token expired","message":"Access token expired, please re-authenticate"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Me(context.Background())
	require.True(t, IsTokenExpired(err))
	require.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).DeleteTicket(context.Background(), "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "Bad Gateway", apiErr.Body.Error)
}
