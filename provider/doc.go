// Package provider implements a type-indexed service registry.
//
// A Container stores at most one service per concrete type and hands it back
// with its concrete type recovered:
//
//	c := provider.New[Component]().
//		Manage(NewLogger()).
//		Manage(NewClock())
//
//	log := provider.Get[*Logger](c)
//
// The key is the dynamic type of the managed value, never a name or an
// insertion position. Managing a second value of the same type replaces the
// first; values already handed out keep pointing at the old instance.
//
// Capability
//
// Every storable type must satisfy Capability. A type opts in by embedding
// the Managed marker:
//
//	type Logger struct {
//		provider.Managed
//		prefix string
//	}
//
// Host applications usually declare their own capability interface on top of
// it and parameterize the container with that interface, so Manage rejects
// anything else at compile time:
//
//	type Component interface {
//		provider.Capability
//	}
//
// Failure model
//
// Get is fail-fast. A missing service is a wiring bug in the composition root,
// so Get panics with a *MissingServiceError naming the type. A stored handle
// that cannot be downcast to the requested type means type identity is broken;
// Get panics with a *TypeMismatchError. Callers that really need a soft path
// can use TryGet or Lookup, but should treat a miss as non-recoverable.
//
// Concurrency
//
// A Container is safe for concurrent use. Writers serialize against readers on
// the backing map only; values returned by Get are plain Go references and are
// never invalidated by later writes.
//
// Hosts
//
// cmd/autoprovide generates the binding between a host struct and its
// container (a Provider accessor, a chaining Manage method and a getter whose
// type parameter is constrained by the host's capability interface). Host and
// Provide are the non-generated side of that binding.
package provider
