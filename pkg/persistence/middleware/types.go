// Package middleware provides StateStore decorators for data-protection
// requirements: health answers are sensitive personal data, so deployments
// encrypt session state at rest and mask configured answer keys before
// they ever reach the backing store.
package middleware

import "github.com/amparo-health/screening/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies middlewares to a store, first middleware outermost.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
