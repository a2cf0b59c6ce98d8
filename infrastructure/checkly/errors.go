package checkly

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAuth indicates the client was created without an API key
	// or account id.
	ErrMissingAuth = errors.New("checkly: api key and account id are required")

	// ErrInvalidBaseURL indicates the configured API origin could not be
	// parsed.
	ErrInvalidBaseURL = errors.New("checkly: invalid base url")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("checkly api %s %s: %d %s: %s",
		e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
