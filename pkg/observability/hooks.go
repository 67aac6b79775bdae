// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about knife gestures and graph storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the knife and
// store packages free of any particular metrics backend.
//
// # Usage
//
//	func main() {
//	    observability.SetGestureHooks(&myGestureHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Gesture().OnGestureStart(mode, pointerID)
//	observability.Gesture().OnGestureComplete(mode, crossings, bundles, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from the knife gesture state machine.
// Gestures run on the host's event thread and carry no context.
type GestureHooks interface {
	// OnGestureStart records a pointer-down that activated a knife mode.
	OnGestureStart(mode string, pointerID int)

	// OnGestureCancel records a gesture abandoned before release
	// (escape, a fresh pointer-down, a mismatched pointer-up).
	OnGestureCancel(mode string)

	// OnGestureComplete records a finished release. crossings is the number of
	// crossed edges. bundles is the number of collaborator calls made: one per
	// redirect bundle when additive, one batch deletion when subtractive, and
	// zero when nothing was crossed.
	OnGestureComplete(mode string, crossings, bundles int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from graph document stores.
type StoreHooks interface {
	// OnGet records a document read. found is false on a miss.
	OnGet(ctx context.Context, backend string, found bool, duration time.Duration)

	// OnPut records a document write.
	OnPut(ctx context.Context, backend string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnGestureStart(string, int)                              {}
func (NoopGestureHooks) OnGestureCancel(string)                                  {}
func (NoopGestureHooks) OnGestureComplete(string, int, int, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, bool, time.Duration)       {}
func (NoopStoreHooks) OnPut(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	gestureHooks GestureHooks = NoopGestureHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before any gesture runs.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gestureHooks = NoopGestureHooks{}
	storeHooks = NoopStoreHooks{}
}
