package api

import (
	"sync"

	"qemcp/pkg/logging"
)

// Handler registry variables store the registered implementations.
// These variables are protected by handlerMutex for thread-safe access.
var (
	testPlanHandler TestPlanHandler
	configHandler   ConfigHandler

	// handlerMutex protects all handler registry operations for thread-safe registration and access.
	handlerMutex sync.RWMutex
)

// RegisterTestPlan registers the test plan handler implementation.
// This handler provides test case comparison and suite hierarchy reconciliation
// against the remote work-tracking system.
//
// The registration is thread-safe and should be called during system initialization.
// Subsequent registrations replace the previous handler, which is how a
// configuration reload swaps in a handler bound to new connection settings.
//
// Example:
//
//	adapter := testplan.NewAdapter(service)
//	api.RegisterTestPlan(adapter)
func RegisterTestPlan(h TestPlanHandler) {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	logging.Debug("API", "Registering test plan handler: %v", h != nil)
	testPlanHandler = h
}

// GetTestPlan returns the registered test plan handler.
//
// Returns nil if no handler has been registered yet. Callers should always
// check for nil before using the returned handler.
func GetTestPlan() TestPlanHandler {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()
	return testPlanHandler
}

// RegisterConfigHandler registers the configuration handler implementation.
func RegisterConfigHandler(h ConfigHandler) {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	configHandler = h
}

// GetConfigHandler returns the registered configuration handler, or nil.
func GetConfigHandler() ConfigHandler {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()
	return configHandler
}

// ToolProviders returns every registered handler that also implements
// ToolProvider, in a stable order (test plan tools first).
func ToolProviders() []ToolProvider {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()

	var providers []ToolProvider
	if p, ok := testPlanHandler.(ToolProvider); ok && testPlanHandler != nil {
		providers = append(providers, p)
	}
	if p, ok := configHandler.(ToolProvider); ok && configHandler != nil {
		providers = append(providers, p)
	}
	return providers
}

// resetHandlers clears the registry. Used by tests.
func resetHandlers() {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()
	testPlanHandler = nil
	configHandler = nil
}
