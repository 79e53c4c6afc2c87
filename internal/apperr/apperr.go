// Package apperr holds the error kinds use cases return. Handlers turn them into
// HTTP responses; nothing below the handler layer knows about status codes.
package apperr

import (
	"errors"
	"fmt"
)

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Any() bool { return len(e) > 0 }

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func Invalid(fields FieldErrors) error {
	return &ValidationError{Fields: fields}
}

// InvalidField is shorthand for a single-field validation error.
func InvalidField(field, msg string) error {
	fe := FieldErrors{}
	fe.Add(field, msg)
	return &ValidationError{Fields: fe}
}

type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
)

// Error is a non-validation failure with a short client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
