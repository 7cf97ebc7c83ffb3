package provider

import "reflect"

// Capability is the contract every managed service satisfies.
//
// Its only method is unexported, so the single way to satisfy it from another
// package is to embed Managed. That keeps the opt-in explicit and free.
type Capability interface {
	providerManaged()
}

// Managed is the zero-size marker that opts a type into Capability.
//
// Embed it by value. Both T and *T then satisfy Capability.
type Managed struct{}

func (Managed) providerManaged() {}

// Handle is a service erased to the capability interface C, tagged with the
// type identity of the value it wraps.
//
// Handles are immutable after AsDynamic returns them.
type Handle[C Capability] struct {
	typ reflect.Type
	val C
}

// AsDynamic erases item into a Handle. It never fails.
//
// The recorded type identity is item's dynamic type, not C. A nil interface
// yields a zero Handle.
func AsDynamic[C Capability](item C) Handle[C] {
	return Handle[C]{typ: reflect.TypeOf(item), val: item}
}

// Type returns the type identity recorded on the handle.
func (h Handle[C]) Type() reflect.Type { return h.typ }

// Value returns the erased service.
func (h Handle[C]) Value() C { return h.val }

// IsZero reports whether h wraps nothing.
func (h Handle[C]) IsZero() bool { return h.typ == nil }

// TryAsConcrete recovers the concrete type U from h.
//
// It succeeds iff the identity recorded on h equals TypeOf[U](). Any other
// case, a zero handle included, returns a *TypeMismatchError and the zero U;
// it never panics and never returns a value of the wrong type.
func TryAsConcrete[U Capability, C Capability](h Handle[C]) (U, error) {
	var zero U

	want := TypeOf[U]()
	if h.typ == nil || h.typ != want {
		return zero, &TypeMismatchError{Want: want, Got: h.typ}
	}

	u, ok := any(h.val).(U)
	if !ok {
		return zero, &TypeMismatchError{Want: want, Got: h.typ}
	}
	return u, nil
}

// TypeOf returns the type identity of T.
func TypeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

// TypeOfValue returns the type identity of v's dynamic type, or nil for a nil
// interface.
func TypeOfValue(v any) reflect.Type { return reflect.TypeOf(v) }
