package provider

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Container maps the type identity of each managed service to its Handle.
//
// C is the capability interface of the host; Manage only accepts values that
// satisfy it. The zero value is an empty, usable container that discards logs.
type Container[C Capability] struct {
	mu    sync.RWMutex
	items map[reflect.Type]Handle[C]

	log  *slog.Logger
	name string
}

// Entry is one (type, name) pair of a Describe snapshot.
type Entry struct {
	Type reflect.Type
	Name string
}

// New returns an empty container.
func New[C Capability](opts ...Option) *Container[C] {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Container[C]{
		items: make(map[reflect.Type]Handle[C]),
		log:   o.logger,
		name:  o.name,
	}
}

// Manage stores item under its concrete type and returns c for chaining.
//
// A service already stored under the same type is replaced. Values obtained
// from earlier Get calls still point at the replaced service.
//
// Manage panics with ErrNilService if item is a nil interface.
func (c *Container[C]) Manage(item C) *Container[C] {
	h := AsDynamic(item)
	if h.IsZero() {
		panic(ErrNilService)
	}

	c.mu.Lock()
	if c.items == nil {
		c.items = make(map[reflect.Type]Handle[C])
	}
	_, replaced := c.items[h.typ]
	c.items[h.typ] = h
	c.mu.Unlock()

	if replaced {
		c.logger().Debug("service replaced", "container", c.name, "type", h.typ.String())
	} else {
		c.logger().Debug("service managed", "container", c.name, "type", h.typ.String())
	}
	return c
}

// Len returns the number of managed types.
func (c *Container[C]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Types returns the managed type identities ordered by their string form.
func (c *Container[C]) Types() []reflect.Type {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	out := make([]reflect.Type, 0, len(c.items))
	for t := range c.items {
		out = append(out, t)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Describe returns a snapshot of the managed types for diagnostics.
func (c *Container[C]) Describe() []Entry {
	types := c.Types()
	out := make([]Entry, 0, len(types))
	for _, t := range types {
		out = append(out, Entry{Type: t, Name: t.String()})
	}
	return out
}

func (c *Container[C]) handle(key reflect.Type) (Handle[C], bool) {
	if c == nil {
		return Handle[C]{}, false
	}
	c.mu.RLock()
	h, ok := c.items[key]
	c.mu.RUnlock()
	return h, ok
}

func (c *Container[C]) logger() *slog.Logger {
	if c.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.log
}

// Get returns the service managed under U.
//
// It panics with a *MissingServiceError if U was never managed, and with a
// *TypeMismatchError if the stored handle does not downcast to U. Both mean
// the program is miswired; neither is meant to be recovered.
//
// U is constrained by Capability only. Generated host getters constrain it by
// the host's own capability interface.
func Get[U Capability, C Capability](c *Container[C]) U {
	u, err := TryGet[U](c)
	if err != nil {
		panic(err)
	}
	return u
}

// TryGet is Get returning the failure instead of panicking.
func TryGet[U Capability, C Capability](c *Container[C]) (U, error) {
	key := TypeOf[U]()
	h, ok := c.handle(key)
	if !ok {
		var zero U
		return zero, &MissingServiceError{Type: key}
	}
	return TryAsConcrete[U](h)
}

// Lookup returns the service managed under U and whether it was found.
func Lookup[U Capability, C Capability](c *Container[C]) (U, bool) {
	u, err := TryGet[U](c)
	return u, err == nil
}

// Has reports whether a service is managed under U.
func Has[U Capability, C Capability](c *Container[C]) bool {
	_, ok := c.handle(TypeOf[U]())
	return ok
}
