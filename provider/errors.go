package provider

import (
	"errors"
	"reflect"
)

var (
	// ErrMissingService matches any *MissingServiceError via errors.Is.
	ErrMissingService = errors.New("provider: service not managed")

	// ErrTypeMismatch matches any *TypeMismatchError via errors.Is.
	ErrTypeMismatch = errors.New("provider: service type mismatch")

	// ErrNilService is the panic value of Manage when given a nil interface.
	// A nil interface carries no concrete type and therefore has no key.
	ErrNilService = errors.New("provider: cannot manage a nil service")
)

// MissingServiceError reports a lookup for a type that was never managed.
//
// Get panics with it; TryGet returns it.
type MissingServiceError struct {
	// Type is the requested type identity.
	Type reflect.Type
}

// Error implements the error interface.
func (e *MissingServiceError) Error() string {
	// Example: provider: service of type *app.Database not found. Did you forget a Manage() call?
	return "provider: service of type " + typeName(e.Type) + " not found. Did you forget a Manage() call?"
}

// Is reports whether target is ErrMissingService.
func (e *MissingServiceError) Is(target error) bool { return target == ErrMissingService }

// TypeMismatchError reports a handle whose concrete type differs from the
// requested one.
type TypeMismatchError struct {
	// Want is the requested type identity.
	Want reflect.Type

	// Got is the type identity recorded on the handle. Nil for a zero handle.
	Got reflect.Type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	// Example: provider: cannot downcast *app.Clock to *app.Logger
	return "provider: cannot downcast " + typeName(e.Got) + " to " + typeName(e.Want)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
