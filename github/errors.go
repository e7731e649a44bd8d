package github

import (
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound marks the expected-absent case (missing release or file).
	// Callers recover from it locally; it is never a terminal run failure.
	ErrNotFound = errors.New("not found")

	// ErrMissingToken is returned before any remote call when no token is configured.
	ErrMissingToken = errors.New("a GitHub token must be provided")

	// ErrInvalidEndpoint marks a URL that could not be constructed, such as a
	// malformed upload_url template.
	ErrInvalidEndpoint = errors.New("invalid endpoint URL")
)

// ApiError is a non-2xx response outside the expected 404 cases. The raw body
// is kept verbatim so the operator can see the exact remote rejection reason.
type ApiError struct {
	Status int
	Body   string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("GitHub API error: status %d: %s", e.Status, e.Body)
}

// Summary returns a short diagnostic, preferring the "message" field of the
// JSON error body when one is present.
func (e *ApiError) Summary() string {
	if message, err := jsonparser.GetString([]byte(e.Body), "message"); err == nil && message != "" {
		return fmt.Sprintf("status %d: %s", e.Status, message)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// IsNotFound reports whether err represents an expected-absent response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
