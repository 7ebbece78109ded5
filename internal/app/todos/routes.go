// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package todos is an example module managing todo items.
package todos

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/store"
)

// Name is the module name and mount segment.
const Name = "todos"

var tags = []string{"Todos"}

// NewStore returns an empty in-memory todo store.
func NewStore() *store.Memory[Todo] {
	return store.NewMemory(func(t Todo) string { return t.ID })
}

type handlers struct {
	todos store.Store[Todo]
}

// Routes returns the module routes backed by s.
func Routes(s store.Store[Todo]) []route.Route {
	h := &handlers{todos: s}

	return []route.Route{
		{
			Method:      http.MethodGet,
			Path:        "/",
			Handler:     h.list,
			Schema:      &route.Schemas{Query: QuerySchema, Response: TodoListSchema},
			Summary:     "List todos",
			Description: "Get a list of todos with optional filters",
			Tags:        tags,
		},
		{
			Method:      http.MethodPost,
			Path:        "/",
			Handler:     h.create,
			Schema:      &route.Schemas{Body: CreateTodoSchema, Response: TodoSchema},
			Summary:     "Create todo",
			Description: "Create a new todo",
			Tags:        tags,
		},
		{
			Method:      http.MethodGet,
			Path:        "/{id}",
			Handler:     h.get,
			Schema:      &route.Schemas{Params: ParamsSchema, Response: TodoSchema},
			Summary:     "Get todo",
			Description: "Get a todo by ID",
			Tags:        tags,
		},
		{
			Method:      http.MethodPut,
			Path:        "/{id}",
			Handler:     h.update,
			Schema:      &route.Schemas{Params: ParamsSchema, Body: UpdateTodoSchema, Response: TodoSchema},
			Summary:     "Update todo",
			Description: "Update an existing todo",
			Tags:        tags,
		},
		{
			Method:      http.MethodDelete,
			Path:        "/{id}",
			Handler:     h.delete,
			Schema:      &route.Schemas{Params: ParamsSchema},
			Summary:     "Delete todo",
			Description: "Delete an existing todo",
			Tags:        tags,
		},
	}
}

func (h *handlers) list(c *route.Context) (any, error) {
	var q Query
	if err := c.BindQuery(&q); err != nil {
		return nil, route.Wrap(err, http.StatusBadRequest, "Invalid query")
	}

	return h.todos.List(c.Context(), func(t Todo) bool {
		if q.Completed != nil && t.Completed != *q.Completed {
			return false
		}
		if q.UserID != nil && t.UserID != *q.UserID {
			return false
		}
		return true
	})
}

func (h *handlers) create(c *route.Context) (any, error) {
	var in CreateTodo
	if err := c.Bind(&in); err != nil {
		return nil, route.Wrap(err, http.StatusBadRequest, "Invalid todo payload")
	}

	now := store.Now()
	return h.todos.Create(c.Context(), Todo{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (h *handlers) get(c *route.Context) (any, error) {
	t, err := h.todos.Get(c.Context(), c.Param("id"))
	return t, notFound(err)
}

func (h *handlers) update(c *route.Context) (any, error) {
	var in UpdateTodo
	if err := c.Bind(&in); err != nil {
		return nil, route.Wrap(err, http.StatusBadRequest, "Invalid todo payload")
	}

	t, err := h.todos.Update(c.Context(), c.Param("id"), func(t *Todo) error {
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = in.Description
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
		}
		t.UpdatedAt = store.NextTimestamp(t.UpdatedAt, store.Now())
		return nil
	})
	return t, notFound(err)
}

func (h *handlers) delete(c *route.Context) (any, error) {
	if err := h.todos.Delete(c.Context(), c.Param("id")); err != nil {
		return nil, notFound(err)
	}
	c.NoContent()
	return nil, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return route.NotFound("Todo not found")
	}
	return err
}
