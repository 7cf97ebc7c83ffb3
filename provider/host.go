package provider

// Host is a struct that owns a Container for capability C.
//
// cmd/autoprovide generates the Provider method for a host struct, together
// with a chaining Manage method and getters constrained by C.
type Host[C Capability] interface {
	Provider() *Container[C]
}

// Provide returns the service managed under U in h's container.
// It fails exactly like Get.
func Provide[U Capability, C Capability](h Host[C]) U {
	return Get[U](h.Provider())
}

// TryProvide is Provide returning the failure instead of panicking.
func TryProvide[U Capability, C Capability](h Host[C]) (U, error) {
	return TryGet[U](h.Provider())
}

// ManageAll manages every item in order on h's container.
// Later items replace earlier items of the same type.
func ManageAll[C Capability](h Host[C], items ...C) {
	c := h.Provider()
	for _, item := range items {
		c.Manage(item)
	}
}
