// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package users is an example module managing user records.
package users

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/store"
)

// Name is the module name and mount segment.
const Name = "users"

// NewStore returns an empty in-memory user store.
func NewStore() *store.Memory[User] {
	return store.NewMemory(func(u User) string { return u.ID })
}

type handlers struct {
	users store.Store[User]
}

// Routes returns the module routes backed by s.
func Routes(s store.Store[User]) []route.Route {
	h := &handlers{users: s}

	return []route.Route{
		{
			Method:      http.MethodGet,
			Path:        "/",
			Handler:     h.list,
			Schema:      &route.Schemas{Response: UserListResponseSchema},
			Summary:     "List all users",
			Description: "Retrieve a list of all users",
		},
		{
			Method:      http.MethodPost,
			Path:        "/",
			Handler:     h.create,
			Schema:      &route.Schemas{Body: CreateUserSchema, Response: UserResponseSchema},
			Summary:     "Create a new user",
			Description: "Create a new user with the provided data",
		},
		{
			Method:      http.MethodGet,
			Path:        "/{id}",
			Handler:     h.get,
			Schema:      &route.Schemas{Response: UserResponseSchema},
			Summary:     "Get a user by ID",
			Description: "Retrieve a specific user by their ID",
		},
		{
			Method:      http.MethodPut,
			Path:        "/{id}",
			Handler:     h.update,
			Schema:      &route.Schemas{Body: UpdateUserSchema, Response: UserResponseSchema},
			Summary:     "Update a user",
			Description: "Update an existing user with the provided data",
		},
		{
			Method:      http.MethodDelete,
			Path:        "/{id}",
			Handler:     h.delete,
			Summary:     "Delete a user",
			Description: "Delete an existing user",
		},
	}
}

func (h *handlers) list(c *route.Context) (any, error) {
	return h.users.List(c.Context(), nil)
}

func (h *handlers) create(c *route.Context) (any, error) {
	var in CreateUser
	if err := c.Bind(&in); err != nil {
		return nil, route.Wrap(err, http.StatusBadRequest, "Invalid user payload")
	}

	now := store.Now()
	return h.users.Create(c.Context(), User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (h *handlers) get(c *route.Context) (any, error) {
	u, err := h.users.Get(c.Context(), c.Param("id"))
	return u, notFound(err)
}

func (h *handlers) update(c *route.Context) (any, error) {
	var in UpdateUser
	if err := c.Bind(&in); err != nil {
		return nil, route.Wrap(err, http.StatusBadRequest, "Invalid user payload")
	}

	u, err := h.users.Update(c.Context(), c.Param("id"), func(u *User) error {
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		u.UpdatedAt = store.NextTimestamp(u.UpdatedAt, store.Now())
		return nil
	})
	return u, notFound(err)
}

func (h *handlers) delete(c *route.Context) (any, error) {
	if err := h.users.Delete(c.Context(), c.Param("id")); err != nil {
		return nil, notFound(err)
	}
	c.NoContent()
	return nil, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return route.NotFound("User not found")
	}
	return err
}
