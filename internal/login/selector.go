package login

import "loginflow/internal/authmethods"

// Selector picks the provider to authorize with. It returns false when none
// of providers is acceptable. It is only called with a non-empty list.
type Selector func(providers []authmethods.Provider) (authmethods.Provider, bool)

// FirstProvider selects the first provider in discovery order.
func FirstProvider(providers []authmethods.Provider) (authmethods.Provider, bool) {
	if len(providers) == 0 {
		return authmethods.Provider{}, false
	}
	return providers[0], true
}

// ProviderNamed selects the provider called name. An empty name behaves like
// FirstProvider.
func ProviderNamed(name string) Selector {
	if name == "" {
		return FirstProvider
	}
	return func(providers []authmethods.Provider) (authmethods.Provider, bool) {
		for _, p := range providers {
			if p.Name == name {
				return p, true
			}
		}
		return authmethods.Provider{}, false
	}
}
