package function

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultTarget is the entry point used when no target is configured.
const DefaultTarget = "hello"

// ErrTargetNotFound is returned when no handler is registered under the
// requested entry point.
type ErrTargetNotFound struct {
	Target string
}

func (e *ErrTargetNotFound) Error() string {
	return fmt.Sprintf("no function registered for target %q", e.Target)
}

// Registry maps entry-point identifiers to handlers. Deployment tooling
// references these identifiers verbatim, so registration happens once at
// startup and lookups are read-only afterwards.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register registers a handler under the given entry-point identifier.
func (r *Registry) Register(target string, handler Handler) error {
	if target == "" {
		return fmt.Errorf("empty function target")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[target]; ok {
		return fmt.Errorf("function target %q already registered", target)
	}

	r.handlers[target] = handler

	return nil
}

// Lookup returns the handler registered under the given identifier.
func (r *Registry) Lookup(target string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[target]
	if !ok {
		return nil, &ErrTargetNotFound{Target: target}
	}

	return handler, nil
}

// Targets returns the registered entry-point identifiers, sorted.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets := make([]string, 0, len(r.handlers))
	for target := range r.handlers {
		targets = append(targets, target)
	}

	sort.Strings(targets)

	return targets
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register registers a handler in the process-wide registry.
func Register(target string, handler Handler) error {
	return defaultRegistry.Register(target, handler)
}

// Lookup resolves a handler from the process-wide registry.
func Lookup(target string) (Handler, error) {
	return defaultRegistry.Lookup(target)
}
