package provider_test

import "github.com/sghaida/autoprovide/provider"

// component is the capability interface the tests parameterize containers with.
type component interface {
	provider.Capability
}

type Logger struct {
	provider.Managed
	Prefix string
}

type Clock struct {
	provider.Managed
	Zone string
}

type Database struct {
	provider.Managed
	DSN string
}

// twinA and twinB are structurally identical but distinct types.
type twinA struct {
	provider.Managed
	N int
}

type twinB struct {
	provider.Managed
	N int
}

// host is a hand-written equivalent of a generated host binding.
type host struct {
	provider *provider.Container[component]
}

func newHost() *host {
	return &host{provider: provider.New[component](provider.WithName("host"))}
}

func (h *host) Provider() *provider.Container[component] { return h.provider }
