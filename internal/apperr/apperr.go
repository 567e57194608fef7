// Package apperr defines the closed set of business-rule failure kinds
// raised by the services. Handlers translate a kind into an HTTP status
// in one place and never leak internal messages to the client.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// AccessDenied covers eligibility failures and full rooms (403).
	AccessDenied Kind = iota + 1
	// NotFound covers missing entities (404).
	NotFound
	// PaymentRequired is raised when the user's ticket is not PAID (402).
	PaymentRequired
	// Unauthorized covers ownership mismatches (401).
	Unauthorized
	// InvalidBody covers malformed input that reaches the service layer (400).
	InvalidBody
	// Conflict covers state that forbids the operation, e.g. paying an
	// already-paid ticket or double-booking (409).
	Conflict
	// Internal covers unexpected infrastructure failures (500).
	Internal
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the failure kind from an error chain. Errors that carry
// no kind fall back to InvalidBody, matching the boundary's default 400.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return InvalidBody
}

// HTTPStatus maps an error to the response status. The switch is
// exhaustive over the Kind enumeration.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case AccessDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case PaymentRequired:
		return http.StatusPaymentRequired
	case Unauthorized:
		return http.StatusUnauthorized
	case InvalidBody:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
