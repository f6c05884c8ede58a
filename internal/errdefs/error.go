// Package errdefs defines the closed set of domain errors surfaced by the
// blob access and session lifecycle mediation layers. Callers can pattern
// match on the 'Kind' alone; transport/SDK specific details are retained for
// diagnostics but never form part of the error contract.
package errdefs

import (
	"errors"
	"fmt"
)

// Kind categorizes a domain error. The set is closed; every public operation
// either succeeds or fails with exactly one of these kinds.
type Kind string

const (
	// KindNotFound indicates that the target object/session does not exist.
	KindNotFound Kind = "not_found"

	// KindAuthenticationFailed indicates that no usable credential could be
	// produced for the outbound call.
	KindAuthenticationFailed Kind = "authentication_failed"

	// KindAuthorizationDenied indicates that a credential was produced and
	// accepted, but lacked the permissions for the requested operation.
	KindAuthorizationDenied Kind = "authorization_denied"

	// KindInvalidRequest indicates that caller supplied input was rejected,
	// either locally or by the remote service.
	KindInvalidRequest Kind = "invalid_request"

	// KindRemoteUnavailable indicates a transport level failure e.g. a
	// timeout, a refused connection or a 5xx response.
	KindRemoteUnavailable Kind = "remote_unavailable"

	// KindUnexpectedRemoteError indicates a response which we don't map
	// explicitly; the original status/body are preserved for diagnostics.
	KindUnexpectedRemoteError Kind = "unexpected_remote_error"
)

// Error is the only error type which crosses the mediation layer boundary.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New returns a new domain error with the given kind/message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf returns a new domain error, formatting the message using 'fmt.Sprintf'.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new domain error which retains the given cause for
// diagnostics; the cause remains reachable via 'errors.Is/As' but does not
// leak into the message contract.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: cause}
}

// Kind returns the kind of this error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the 'error' interface.
func (e *Error) Error() string {
	return e.message
}

// Unwrap returns the underlying transport/SDK error, may be <nil>.
func (e *Error) Unwrap() error {
	return e.cause
}

// GetKind returns the kind of the given error, and a boolean indicating
// whether it is a domain error at all.
func GetKind(err error) (Kind, bool) {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return "", false
	}

	return domainErr.kind, true
}

// IsKind returns a boolean indicating whether the given error is a domain
// error of the given kind.
func IsKind(err error, kind Kind) bool {
	got, ok := GetKind(err)
	return ok && got == kind
}
