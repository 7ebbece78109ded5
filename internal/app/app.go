// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package app lists the modules served by terry. Adding a module means
// adding one Register call here.
package app

import (
	"fmt"

	"github.com/mahabubx7/terry/internal/app/health"
	"github.com/mahabubx7/terry/internal/app/todos"
	"github.com/mahabubx7/terry/internal/app/users"
	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/internal/registry"
	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/store"
)

// Stores holds the storage injected into the example modules.
type Stores struct {
	Users store.Store[users.User]
	Todos store.Store[todos.Todo]
}

// NewStores returns empty in-memory stores.
func NewStores() Stores {
	return Stores{
		Users: users.NewStore(),
		Todos: todos.NewStore(),
	}
}

// Register adds every module to reg.
func Register(reg *registry.Registry, cfg *config.Config, stores Stores) error {
	loaders := []struct {
		name string
		load registry.Loader
	}{
		{users.Name, func() ([]route.Route, error) { return users.Routes(stores.Users), nil }},
		{todos.Name, func() ([]route.Route, error) { return todos.Routes(stores.Todos), nil }},
		{health.Name, func() ([]route.Route, error) { return health.Routes(cfg.AppVersion), nil }},
	}

	for _, l := range loaders {
		if err := reg.Register(l.name, l.load); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the modules selected by the configuration.
func Registry(cfg *config.Config, stores Stores) (*registry.Registry, error) {
	reg := registry.New()
	if err := Register(reg, cfg, stores); err != nil {
		return nil, err
	}

	selected, err := reg.Select(cfg.Modules.Include, cfg.Modules.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to select modules: %w", err)
	}
	return selected, nil
}
