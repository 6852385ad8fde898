package authsdk

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: %d %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of an APIError, or 0 for any other error.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusCode(err) == http.StatusForbidden }
func IsRateLimited(err error) bool  { return StatusCode(err) == http.StatusTooManyRequests }
