package assignment

import (
	"fmt"

	ierr "github.com/flexprice/adminconsole/internal/errors"
)

// APIError is a non-success answer from the plan-assignment API.
// Message is shown to the admin verbatim when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("plan assignment api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("plan assignment api returned status %d: %s", e.StatusCode, e.Message)
}

// NewAPIError wraps a collaborator rejection into a marked upstream error
// whose hint is the collaborator's own message
func NewAPIError(statusCode int, message string) error {
	b := ierr.WithError(&APIError{StatusCode: statusCode, Message: message})
	if message != "" {
		b = b.WithHint(message)
	}
	return b.Mark(ierr.ErrUpstream)
}

// MessageFrom extracts the collaborator message from err, if any
func MessageFrom(err error) string {
	var apiErr *APIError
	if ierr.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
