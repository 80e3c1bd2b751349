// Package apperror is the error taxonomy shared by services and the
// top-level fiber error handler.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// FieldError is one entry of the error list rendered to clients.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, status int, msg string) *Error {
	return &Error{Kind: kind, Status: status, Message: msg}
}

func BadRequest(msg string) *Error {
	return newError(KindBadRequest, http.StatusBadRequest, msg)
}

func BadRequestf(format string, args ...any) *Error {
	return BadRequest(fmt.Sprintf(format, args...))
}

func Unauthorized(msg string) *Error {
	return newError(KindUnauthorized, http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *Error {
	return newError(KindForbidden, http.StatusForbidden, msg)
}

func NotFound(msg string) *Error {
	return newError(KindNotFound, http.StatusNotFound, msg)
}

func Conflict(msg string) *Error {
	return newError(KindConflict, http.StatusConflict, msg)
}

func Validation(fields []FieldError) *Error {
	e := newError(KindValidation, http.StatusUnprocessableEntity, "Validation failed")
	e.Fields = fields
	return e
}

// Internal wraps an unexpected failure and captures the stack for
// development responses.
func Internal(msg string, err error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, msg)
	e.Err = err
	e.Stack = debug.Stack()
	return e
}

// Wrap attaches a cause without changing kind or status.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// As returns the *Error inside err, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}
