// Package shared hands out process-wide singleton instances keyed by a
// logical version string.
//
// Mods loaded into the same process must see the same activity router
// for a given runtime version, otherwise their subscriptions and the
// host feed would land on different registries. Router returns the one
// shared router for a version, creating it on first acquisition:
//
//	router := shared.Router("R114")
//	router.On(activity.ModeAnyOnSelf, onActivity)
//
// The router itself carries no global state; tests construct routers
// directly with activity.NewRouter and never touch the shared store.
//
// Instances is the generic keyed store underneath, usable for other
// per-version singletons. Acquire is atomic: the factory runs at most
// once per key even under concurrent access.
package shared
