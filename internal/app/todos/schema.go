// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package todos

import (
	"time"

	"github.com/mahabubx7/terry/internal/schema"
)

// Todo is a stored todo item.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTodo is the payload of POST /todos.
type CreateTodo struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      string  `json:"userId"`
}

// UpdateTodo is the payload of PUT /todos/{id}. Absent fields are left unchanged.
type UpdateTodo struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Query filters the todo list.
type Query struct {
	Completed *bool   `json:"completed"`
	UserID    *string `json:"userId"`
}

var (
	TodoSchema = schema.Object(
		schema.Prop("id", schema.String().UUID()),
		schema.Prop("title", schema.String().Min(1)),
		schema.Prop("description", schema.String().Optional()),
		schema.Prop("completed", schema.Boolean().Default(false)),
		schema.Prop("userId", schema.String().UUID()),
		schema.Prop("createdAt", schema.String().DateTime()),
		schema.Prop("updatedAt", schema.String().DateTime()),
	).Named("Todo")

	CreateTodoSchema = TodoSchema.Omit("id", "createdAt", "updatedAt").Named("CreateTodo")

	UpdateTodoSchema = TodoSchema.Partial().Omit("id", "userId", "createdAt", "updatedAt").Named("UpdateTodo")

	TodoListSchema = schema.Array(TodoSchema).Named("TodoList")

	ParamsSchema = schema.Object(
		schema.Prop("id", schema.String().UUID()),
	).Named("TodoParams")

	QuerySchema = schema.Object(
		schema.Prop("completed", schema.Boolean().Optional()),
		schema.Prop("userId", schema.String().UUID().Optional()),
	).Named("TodoQuery")
)
