// Package apperr defines the error taxonomy shared by every component:
// InvalidArgument, NotFound, AlreadyExists, Unauthorized and Transport.
//
// Errors carry a Kind plus a human-readable message and optionally wrap a
// cause. Handlers classify with the Is* helpers and map to an HTTP status
// with HTTPStatus; everything the store layer can't classify comes back as
// Transport.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the failure class.
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindNotFound
	KindAlreadyExists
	KindUnauthorized
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is the concrete error type for every classified failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes errors.Is match any *Error with the same Kind, so sentinel-style
// checks like errors.Is(err, apperr.NotFound("")) work without comparing
// messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a store or network failure. The cause is kept for logs;
// the message is what crosses the API boundary.
func Transport(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsInvalidArgument(err error) bool { k, ok := kindOf(err); return ok && k == KindInvalidArgument }
func IsNotFound(err error) bool        { k, ok := kindOf(err); return ok && k == KindNotFound }
func IsAlreadyExists(err error) bool   { k, ok := kindOf(err); return ok && k == KindAlreadyExists }
func IsUnauthorized(err error) bool    { k, ok := kindOf(err); return ok && k == KindUnauthorized }
func IsTransport(err error) bool       { k, ok := kindOf(err); return ok && k == KindTransport }

// HTTPStatus maps a classified error to its response status. Unclassified
// errors are treated as transport failures.
func HTTPStatus(err error) int {
	k, ok := kindOf(err)
	if !ok {
		return http.StatusBadGateway
	}
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}
