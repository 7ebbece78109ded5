// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package route

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-viper/mapstructure/v2"
)

// Context carries one request through a handler. Query and Params hold the
// validated values when the route declares the matching schema and the raw
// values otherwise. Body is only read when the route declares a body schema;
// without one it is nil and the request body is left untouched.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter

	// Module is the name of the module serving the request
	Module string

	Body   any
	Query  map[string]any
	Params map[string]any

	Logger *slog.Logger
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Param returns the path parameter as text. Validated parameters take
// precedence over the raw router value.
func (c *Context) Param(name string) string {
	if v, ok := c.Params[name]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return chi.URLParam(c.Request, name)
}

// Bind decodes the validated body into dst, matching keys on json tags.
func (c *Context) Bind(dst any) error {
	return decode(c.Body, dst)
}

// BindQuery decodes the validated query into dst, matching keys on json tags.
func (c *Context) BindQuery(dst any) error {
	return decode(c.Query, dst)
}

// JSON writes v with the given status. Once called, the dispatcher does not
// write the handler's return value.
func (c *Context) JSON(status int, v any) error {
	return WriteJSON(c.Writer, status, v)
}

// NoContent writes an empty 204 response.
func (c *Context) NoContent() {
	c.Writer.WriteHeader(http.StatusNoContent)
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Message string `json:"message"`

	// Stack is the goroutine stack of a server error, sent outside production
	Stack string `json:"stack,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status. Nothing is
// written when v cannot be encoded.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(append(data, '\n'))
	return err
}

func decode(input, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}
