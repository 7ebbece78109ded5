// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package registry provides the explicit module registration list the
// dispatcher and the documentation generator both read from.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mahabubx7/terry/internal/route"
)

// Loader produces the routes of a module. It is invoked on every Load, so a
// loader that reads configuration or other state reflects its current value.
type Loader func() ([]route.Route, error)

// Entry is a registered module.
type Entry struct {
	// Name is the module name, used as the mount segment and documentation tag
	Name string

	// Load produces the module routes
	Load Loader
}

// Registry manages the ordered list of modules.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a module to the registry.
// It returns an error if the name is invalid or already registered.
func (r *Registry) Register(name string, load Loader) error {
	if load == nil {
		return fmt.Errorf("cannot register module %q with nil loader", name)
	}
	if !route.ValidName(name) {
		return fmt.Errorf("invalid module name %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Name == name {
			return fmt.Errorf("module %q is already registered", name)
		}
	}

	r.entries = append(r.entries, Entry{Name: name, Load: load})
	return nil
}

// MustRegister adds a module to the registry, panicking on error.
func (r *Registry) MustRegister(name string, load Loader) {
	if err := r.Register(name, load); err != nil {
		panic(fmt.Sprintf("failed to register module: %v", err))
	}
}

// Routes registers a module with a fixed route list.
func (r *Registry) Routes(name string, routes ...route.Route) error {
	return r.Register(name, func() ([]route.Route, error) {
		return routes, nil
	})
}

// Unregister removes a module from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.Name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("module %q is not registered", name)
}

// Clear removes all modules from the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}

// Has checks if a module is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Count returns the number of registered modules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Select returns a registry holding only the modules whose name matches at
// least one include pattern (all when include is empty) and no exclude
// pattern. Patterns use doublestar syntax. An invalid pattern is an error.
func (r *Registry) Select(include, exclude []string) (*Registry, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid module pattern %q", p)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := New()
	for _, e := range r.entries {
		if len(include) > 0 && !matchesAny(e.Name, include) {
			continue
		}
		if matchesAny(e.Name, exclude) {
			continue
		}
		selected.entries = append(selected.entries, e)
	}
	return selected, nil
}

// Load invokes every loader in registration order and returns the modules
// that loaded cleanly. A module whose loader fails, panics or yields a
// malformed route list is logged and skipped; Load itself never fails
// because of a single module.
func (r *Registry) Load(ctx context.Context, log *slog.Logger) []route.Module {
	r.mu.RLock()
	entries := append([]Entry(nil), r.entries...)
	r.mu.RUnlock()

	modules := make([]route.Module, 0, len(entries))
	for _, e := range entries {
		m, err := loadEntry(e)
		if err != nil {
			log.WarnContext(ctx, "skipping module",
				slog.String("module", e.Name),
				slog.Any("error", err),
			)
			continue
		}
		modules = append(modules, m)
	}
	return modules
}

func loadEntry(e Entry) (m route.Module, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("module loader panicked: %v", rec)
		}
	}()

	routes, err := e.Load()
	if err != nil {
		return route.Module{}, fmt.Errorf("failed to load routes: %w", err)
	}

	m = route.Module{Name: e.Name, Routes: routes}
	if err := m.Validate(); err != nil {
		return route.Module{}, fmt.Errorf("malformed module: %w", err)
	}
	return m, nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
