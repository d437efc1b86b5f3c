package content

import (
	"errors"
	"slices"
	"sync"
)

// Registry tracks live managers so graphics assets can be reloaded in bulk
// after a device reset. Managers join explicitly and leave on Close.
type Registry struct {
	mu       sync.Mutex
	managers []*Manager
}

// DefaultRegistry is the process-wide registry.
var DefaultRegistry = &Registry{}

func (r *Registry) Register(m *Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.managers, m) {
		return
	}
	r.managers = append(r.managers, m)
	m.registry = r
}

func (r *Registry) Unregister(m *Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers = slices.DeleteFunc(r.managers, func(x *Manager) bool { return x == m })
	if m.registry == r {
		m.registry = nil
	}
}

// Managers returns a snapshot of the registered managers.
func (r *Registry) Managers() []*Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.managers)
}

// ReloadGraphicsAssets reloads every registered manager. It walks a
// snapshot, so managers may unregister while it runs; closed managers are
// pruned.
func (r *Registry) ReloadGraphicsAssets() error {
	var errs []error
	for _, m := range r.Managers() {
		if m.closed {
			r.Unregister(m)
			continue
		}
		if err := m.ReloadGraphicsAssets(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
