// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package users

import (
	"time"

	"github.com/mahabubx7/terry/internal/schema"
)

// User is a stored user record.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUser is the payload of POST /users.
type CreateUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UpdateUser is the payload of PUT /users/{id}. Absent fields are left unchanged.
type UpdateUser struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

var (
	UserSchema = schema.Object(
		schema.Prop("id", schema.String().UUID()),
		schema.Prop("email", schema.String().Email()),
		schema.Prop("name", schema.String().Min(2)),
		schema.Prop("createdAt", schema.String().DateTime()),
		schema.Prop("updatedAt", schema.String().DateTime()),
	).Named("User")

	CreateUserSchema = UserSchema.Omit("id", "createdAt", "updatedAt").Named("CreateUserRequest")

	UpdateUserSchema = UserSchema.Partial().Omit("id", "createdAt", "updatedAt").Named("UpdateUserRequest")

	UserResponseSchema = UserSchema.Named("UserResponse")

	UserListResponseSchema = schema.Array(UserSchema).Named("UserListResponse")
)
