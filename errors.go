package telegraph

import (
	"errors"
	"fmt"
)

// ErrNoAccessToken is returned by calls that need an authorized client
// before any request is made.
var ErrNoAccessToken = errors.New("telegraph: access token required")

// ErrUnsupportedContentType is returned when a PageContent carries a type
// other than html, markdown or nodes. Wrapped errors name the offending
// type.
var ErrUnsupportedContentType = errors.New("telegraph: unsupported content type")

// APIError is a non-ok response from the Telegraph API.
type APIError struct {
	Method  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegraph: %s failed: %s", e.Method, e.Message)
}

// ValidationError reports a request field that failed local validation;
// nothing was sent to the API.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("telegraph: invalid %s: %s", e.Field, e.Reason)
}
