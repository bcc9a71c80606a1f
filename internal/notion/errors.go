package notion

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"
)

// Sentinel errors for classified Notion API failures. Callers test the kind
// with errors.Is; the wrapping *APIError carries the provider's status and
// code for diagnostics.
var (
	ErrCredentialMissing = errors.New("notion: credential missing")
	ErrNotFound          = errors.New("notion: object not found")
	ErrUnauthorized      = errors.New("notion: unauthorized")
	ErrRateLimited       = errors.New("notion: rate limited")
	ErrValidation        = errors.New("notion: validation error")
)

// APIError preserves the provider's diagnostic details for a failed call.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion api error (%d): %s", e.Status, e.Message)
}

// Unwrap exposes the classified sentinel, if any.
func (e *APIError) Unwrap() error {
	return e.kind
}

// classify maps provider errors onto the exporter's error taxonomy. The
// HTTP status is authoritative; the provider's machine-readable code rides
// along untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var provider *notionapi.Error
	if !errors.As(err, &provider) {
		return err
	}
	out := &APIError{
		Status:  provider.Status,
		Code:    string(provider.Code),
		Message: provider.Message,
	}
	switch provider.Status {
	case http.StatusNotFound:
		out.kind = ErrNotFound
	case http.StatusUnauthorized:
		out.kind = ErrUnauthorized
	case http.StatusTooManyRequests:
		out.kind = ErrRateLimited
	case http.StatusBadRequest:
		out.kind = ErrValidation
	}
	return out
}
