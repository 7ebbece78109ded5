// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"strings"
)

// FieldError is a single violation located by a dot separated path.
// The path is empty when the root value itself is invalid.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is returned by Validate and Coerce when the value does not
// match the schema. It carries every violation found, not just the first.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	var sb strings.Builder
	sb.WriteString("validation failed: ")
	for i, fe := range e.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		if fe.Path != "" {
			sb.WriteString(fe.Path)
			sb.WriteString(": ")
		}
		sb.WriteString(fe.Message)
	}
	return sb.String()
}

// Prefixed returns a copy of the error with prefix prepended to every path.
func (e *ValidationError) Prefixed(prefix string) *ValidationError {
	out := &ValidationError{Errors: make([]FieldError, len(e.Errors))}
	for i, fe := range e.Errors {
		out.Errors[i] = FieldError{Path: joinPath(prefix, fe.Path), Message: fe.Message}
	}
	return out
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}
