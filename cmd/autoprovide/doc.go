// Command autoprovide generates the binding between a host struct and a
// provider.Container.
//
// You declare a capability interface and a host struct that owns a container
// for it:
//
//	type Component interface {
//		provider.Capability
//	}
//
//	type App struct {
//		provider *provider.Container[Component]
//		// other fields...
//	}
//
// then describe the binding in a small spec next to it (*.provide.json or
// *.provide.yaml):
//
//	host: App
//	capability: Component
//	constructor: true
//
// and add a go:generate directive to the owner file:
//
//	//go:generate go run github.com/sghaida/autoprovide/cmd/autoprovide generate -s app.provide.yaml -o app_provider.gen.go
//
// Generated API (summary)
//
//   - var _ provider.Host[Component] = (*App)(nil)
//   - NewAppProvider(opts ...provider.Option) *provider.Container[Component]
//   - NewApp(opts ...provider.Option) *App       // when constructor is true
//   - (*App).Provider() *provider.Container[Component]
//   - (*App).Manage(item Component) *App
//   - AppGet[U Component](h *App) U              // panics if U was never managed
//   - TryAppGet[U Component](h *App) (U, error)
//
// The type parameter of the getters is constrained by the capability
// interface, so asking for a type that could never have been managed does not
// compile.
//
// Validation
//
// Before writing anything, autoprovide parses the target package and checks
// that the host struct exists with the container field typed
// *provider.Container[<capability>], and that the capability interface embeds
// provider.Capability. The spec can be replaced entirely by flags:
//
//	autoprovide generate --host App --capability Component -o app_provider.gen.go
//
// With --check nothing is written; the command fails with a line diff when the
// file on disk no longer matches what the spec renders.
//
// Tool settings (log level/format, default field name, provider import path)
// can also come from a config file (--config) or AUTOPROVIDE_* environment
// variables.
package main
