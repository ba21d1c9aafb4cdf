package registry

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Module is the interface that all handler modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the handler for each step kind of a single application instance.
type Registry struct {
	mu          sync.RWMutex
	relayouter  RelayoutHandler
	coupler     CouplerHandler
	executor    ExecutorHandler
	registrants map[step.Kind]string
}

// New creates and initializes a new Registry instance.
func New(modules ...Module) *Registry {
	r := &Registry{registrants: make(map[step.Kind]string)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterRelayouter installs the relayouter handler. Registering a second
// one for the same kind is a programming error and panics.
func (r *Registry) RegisterRelayouter(name string, h RelayoutHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claim(step.KindRelayouter, name)
	r.relayouter = h
}

// RegisterCoupler installs the coupler handler.
func (r *Registry) RegisterCoupler(name string, h CouplerHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claim(step.KindCoupler, name)
	r.coupler = h
}

// RegisterExecutor installs the executor handler.
func (r *Registry) RegisterExecutor(name string, h ExecutorHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claim(step.KindExecutor, name)
	r.executor = h
}

func (r *Registry) claim(kind step.Kind, name string) {
	if prev, exists := r.registrants[kind]; exists {
		panic(fmt.Sprintf("%s handler already registered by '%s', cannot register '%s'", kind, prev, name))
	}
	r.registrants[kind] = name
}

// Relayouter returns the registered relayouter handler, if any.
func (r *Registry) Relayouter() (RelayoutHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.relayouter, r.relayouter != nil
}

// Coupler returns the registered coupler handler, if any.
func (r *Registry) Coupler() (CouplerHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.coupler, r.coupler != nil
}

// Executor returns the registered executor handler, if any.
func (r *Registry) Executor() (ExecutorHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executor, r.executor != nil
}

// Registrants maps each served kind to the name of the module serving it.
func (r *Registry) Registrants() map[step.Kind]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[step.Kind]string, len(r.registrants))
	for k, v := range r.registrants {
		out[k] = v
	}
	return out
}
