// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and backend-agnostic. Consumers register hooks
// at startup to receive events about simulation runs, layout persistence, and
// server-side views.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so importing a library
// package does not pull in an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimulationHooks(&mySimulationHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Simulation().OnSettleStart(ctx, topologyID, nodes, links)
//	// ... step until cool ...
//	observability.Simulation().OnSettleComplete(ctx, topologyID, ticks, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the layout engine.
type SimulationHooks interface {
	// Settle events
	OnSettleStart(ctx context.Context, topologyID string, nodes, links int)
	OnSettleComplete(ctx context.Context, topologyID string, ticks int, duration time.Duration, err error)

	// OnMutation records a structural change or gravity toggle.
	OnMutation(ctx context.Context, topologyID, op string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from layout persistence.
type StoreHooks interface {
	// OnLoad records a saved-layout lookup.
	OnLoad(ctx context.Context, topologyID string, found bool)

	// OnSave records a write of the saved-layout set.
	OnSave(ctx context.Context, topologyID string, size int, err error)

	// OnCorrupt records stored data that could not be decoded.
	OnCorrupt(ctx context.Context, err error)
}

// =============================================================================
// View Hooks
// =============================================================================

// ViewHooks receives events from server-side views.
type ViewHooks interface {
	// OnViewOpen records a new view.
	OnViewOpen(ctx context.Context, viewID, topologyID string)

	// OnViewClose records a view shutting down.
	OnViewClose(ctx context.Context, viewID string, lifetime time.Duration)

	// OnCommand records a command dispatched to a view.
	OnCommand(ctx context.Context, viewID, command string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSettleStart(context.Context, string, int, int) {}

func (NoopSimulationHooks) OnSettleComplete(context.Context, string, int, time.Duration, error) {}

func (NoopSimulationHooks) OnMutation(context.Context, string, string) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, bool) {}

func (NoopStoreHooks) OnSave(context.Context, string, int, error) {}

func (NoopStoreHooks) OnCorrupt(context.Context, error) {}

// NoopViewHooks is a no-op implementation of ViewHooks.
type NoopViewHooks struct{}

func (NoopViewHooks) OnViewOpen(context.Context, string, string) {}

func (NoopViewHooks) OnViewClose(context.Context, string, time.Duration) {}

func (NoopViewHooks) OnCommand(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	storeHooks      StoreHooks      = NoopStoreHooks{}
	viewHooks       ViewHooks       = NoopViewHooks{}
	hooksMu         sync.RWMutex
)

// SetSimulationHooks registers custom simulation hooks.
// This should be called once at application startup before any layout runs.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any layout is loaded.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetViewHooks registers custom view hooks.
// This should be called once at application startup before the server starts.
func SetViewHooks(h ViewHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		viewHooks = h
	}
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// View returns the registered view hooks.
func View() ViewHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return viewHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulationHooks = NoopSimulationHooks{}
	storeHooks = NoopStoreHooks{}
	viewHooks = NoopViewHooks{}
}
