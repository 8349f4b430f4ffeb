package hubsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Error codes carried in ErrorResponse.Error for non-lifecycle failures.
const (
	CodeRateLimitExceeded = "RateLimitExceeded"
	CodeValidation        = "ValidationError"
	CodeAuthRequired      = "Authentication required"
	CodeTokenExpired      = "Token expired"
	CodeInvalidToken      = "Invalid token"
	CodeForbidden         = "Forbidden"
	CodeNotFound          = "NotFound"
	CodeConflict          = "Conflict"
	CodeInvalidRequest    = "InvalidRequest"
	CodeInvalidCredential = "InvalidCredentials"
	CodeServerError       = "InternalServerError"
)

// APIError is a non-2xx response from the hub.
type APIError struct {
	StatusCode int
	Body       ErrorResponse

	// RetryAfter is the parsed Retry-After header in seconds, or 0.
	RetryAfter int
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("hub: %d %s: %s", e.StatusCode, e.Body.Error, e.Body.Message)
	}
	return fmt.Sprintf("hub: %d %s", e.StatusCode, e.Body.Error)
}

// StatusOf returns the HTTP status behind err, or 0 when err is not an
// *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsRateLimited reports whether err is a 429 from the global limiter or the
// login burst guard.
func IsRateLimited(err error) bool {
	return StatusOf(err) == http.StatusTooManyRequests
}

// IsTokenExpired reports whether err asks the caller to refresh its access
// token rather than log in again.
func IsTokenExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusUnauthorized &&
		apiErr.Body.Error == CodeTokenExpired
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	if err := json.Unmarshal(body, &apiErr.Body); err != nil || apiErr.Body.Error == "" {
		apiErr.Body = ErrorResponse{
			Error:   http.StatusText(resp.StatusCode),
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			apiErr.RetryAfter = secs
		}
	}
	return apiErr
}
