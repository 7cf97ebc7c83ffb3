// Package autoprovide is a type-indexed service registry for Go.
//
// A host struct owns a provider.Container keyed by the concrete type of every
// service it manages. Services are stored through a capability interface and
// resolved back to their concrete type at call time:
//
//	a := app.NewApp().Manage(app.NewLogger(os.Stderr)).Manage(app.NewClock())
//	clock := app.AppGet[*app.Clock](a)
//
// Asking for a type that was never managed is a wiring bug and panics with a
// message naming the type. TryGet and the generated Try getters return the
// same failure as an error instead.
//
// Layout:
//   - provider: the container, the Capability marker and the Host contract
//   - cmd/autoprovide: generator that binds a host struct to its container
//   - examples/app: a host wired through a generated binding
package autoprovide
