package mode

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry errors.
var (
	ErrModeExists   = errors.New("mode already registered")
	ErrModeNotFound = errors.New("mode not found")
)

// Registry maps names to modes.
type Registry struct {
	mu      sync.RWMutex
	modes   map[string]Mode
	aliases map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modes:   make(map[string]Mode),
		aliases: make(map[string]string),
	}
}

// NewRegistryWithDefaults creates a registry holding the built-in modes.
func NewRegistryWithDefaults() *Registry {
	r := NewRegistry()
	r.MustRegister(Null{})
	return r
}

// Register adds m under m.Name().
func (r *Registry) Register(m Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.Name()
	if _, exists := r.modes[name]; exists {
		return fmt.Errorf("%w: %s", ErrModeExists, name)
	}
	r.modes[name] = m
	return nil
}

// MustRegister registers m and panics on error.
func (r *Registry) MustRegister(m Mode) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Alias makes alias resolve to the mode registered as name.
func (r *Registry) Alias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = name
}

// Get returns the mode for name or alias.
func (r *Registry) Get(name string) (Mode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[name]; ok {
		name = target
	}
	m, ok := r.modes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModeNotFound, name)
	}
	return m, nil
}

// Lookup returns the mode for name, falling back to Null.
func (r *Registry) Lookup(name string) Mode {
	if m, err := r.Get(name); err == nil {
		return m
	}
	return Null{}
}

// Names returns the registered mode names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultMu       sync.Mutex
	defaultRegistry = NewRegistryWithDefaults()
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultRegistry
}

// ResetDefault replaces the process-wide registry with a fresh one
// holding only the built-in modes.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = NewRegistryWithDefaults()
}
