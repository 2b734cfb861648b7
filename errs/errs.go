// Package errs defines the error kinds surfaced by the catalog store.
//
// Every error returned by the store that is not a raw I/O failure is an
// *Error carrying one of the sentinel kinds below, so callers classify with
// errors.Is and never need to parse messages. Lookups that find nothing do
// not produce an error at all; they return a nil record.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation marks an attribute that violates its column type or constraint.
	ErrValidation = errors.New("validation error")
	// ErrReference marks a write that points at a record that does not exist.
	ErrReference = errors.New("reference error")
	// ErrConfiguration marks a request for something the schema never declared,
	// such as an undeclared association.
	ErrConfiguration = errors.New("configuration error")
)

// Error is a classified store error.
type Error struct {
	Kind    error
	Entity  string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.Entity
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds an ErrValidation error for one field of an entity.
func Validation(entity, field, format string, args ...any) *Error {
	return &Error{
		Kind:    ErrValidation,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Reference builds an ErrReference error. cause may be nil.
func Reference(entity, message string, cause error) *Error {
	return &Error{
		Kind:    ErrReference,
		Entity:  entity,
		Message: message,
		Err:     cause,
	}
}

// Configuration builds an ErrConfiguration error.
func Configuration(entity, format string, args ...any) *Error {
	return &Error{
		Kind:    ErrConfiguration,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

// HTTPStatus maps an error kind to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, ErrReference):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message safe to send to a client. Unclassified errors
// are hidden behind the generic status text.
func Public(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}
