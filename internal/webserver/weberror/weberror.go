package weberror

import (
	"fmt"
	"net/http"

	"github.com/tripkit/agentd/internal/errdefs"
)

type (
	// HTTPCoder interface is implemented by application errors.
	HTTPCoder interface {
		// HTTPCode return the HTTP status code for the given error.
		HTTPCode() int
	}

	// Error is the payload rendered in case of error.
	Error struct {
		Code    int    `json:"-"`
		Message string `json:"message"`
	}
)

// StatusCode returns the known HTTP status for the given err. If unknown, it
// returns 500.
func StatusCode(err error) int {
	if hc, ok := err.(HTTPCoder); ok {
		return hc.HTTPCode()
	}

	return http.StatusInternalServerError
}

// New returns a new Error.
func New(code int, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// FromDomain converts a domain error into a rendered error. Absence maps to
// 404 and caller mistakes to 400; everything else is the service's problem
// and renders as 500 without leaking upstream detail.
func FromDomain(err error) error {
	kind, ok := errdefs.GetKind(err)
	if !ok {
		return New(http.StatusInternalServerError, err.Error())
	}

	switch kind {
	case errdefs.KindNotFound:
		return New(http.StatusNotFound, err.Error())
	case errdefs.KindInvalidRequest:
		return New(http.StatusBadRequest, err.Error())
	}

	return New(http.StatusInternalServerError, err.Error())
}

// Error stringifies the error.
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// HTTPCode returns the HTTP status code.
func (e *Error) HTTPCode() int {
	return e.Code
}
