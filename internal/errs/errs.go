// Package errs defines the error taxonomy shared by the authorization,
// store and service layers. Expected business outcomes are kind-tagged
// errors; panics are reserved for programmer errors.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// KindInternal is the zero value: an unexpected failure whose cause is
	// preserved for diagnostics but never echoed verbatim to the caller.
	KindInternal Kind = iota
	// KindUnauthenticated means no actor could be resolved for the request.
	KindUnauthenticated
	// KindInvalidArgument means malformed input: a bad id encoding, a
	// conflicting label strategy, an invalid enum or filter value.
	KindInvalidArgument
	// KindPermissionDenied means the authorization guard denied the action.
	KindPermissionDenied
	// KindNotFound means the resource is absent.
	KindNotFound
	// KindAlreadyExists means a uniqueness constraint was violated.
	KindAlreadyExists
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInternal:
		return "internal"
	default:
		return "internal"
	}
}

// Error is a kind-tagged error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}

	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func InvalidArgumentf(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func PermissionDeniedf(format string, args ...any) error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExistsf(format string, args ...any) error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. The cause is kept for logs; the
// message is what the caller may see.
func Internal(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}
