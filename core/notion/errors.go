package notion

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when the token or database id is not configured.
var ErrMissingCredentials = errors.New("missing notion token or database id")

// APIError is a non-success response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion api error: status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Retryable reports whether the request may succeed when sent again.
func (e *APIError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}
