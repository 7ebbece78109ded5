// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package route defines route descriptors, the per-request handler context
// and the HTTP error type handlers use to signal non-200 outcomes.
package route

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/mahabubx7/terry/internal/schema"
)

// Version is the single API version segment every module is mounted under.
const Version = "v1"

// HandlerFunc handles a validated request. It either returns a value to be
// serialized or writes the response itself through the Context.
type HandlerFunc func(c *Context) (any, error)

// Schemas groups the optional schemas of a route.
type Schemas struct {
	// Body validates the decoded JSON request body
	Body *schema.Schema

	// Query validates the query string, values are coerced from text
	Query *schema.Schema

	// Params validates the path parameters, values are coerced from text
	Params *schema.Schema

	// Response validates the value returned by the handler
	Response *schema.Schema
}

// Route is a declarative description of one HTTP operation.
type Route struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS)
	Method string

	// Path is the route path relative to the module mount point, e.g. "/" or "/{id}"
	Path string

	// Handler is invoked after request validation succeeded
	Handler HandlerFunc

	// Schema holds the request and response schemas. A route without one is
	// still routable but left out of the generated documentation.
	Schema *Schemas

	// Summary is a short summary shown in the documentation
	Summary string

	// Description is a longer description shown in the documentation
	Description string

	// Tags overrides the documentation grouping, defaults to the module tag
	Tags []string

	// OperationID is an optional unique identifier for the operation
	OperationID string
}

// Module is a named group of routes mounted at /v1/{Name}.
type Module struct {
	Name   string
	Routes []Route
}

var (
	supportedMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodPatch,
		http.MethodHead,
		http.MethodOptions,
	}

	moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	pathParamPattern  = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::[^}]*)?\}`)
)

// ValidName reports whether name can be used as a module name.
func ValidName(name string) bool {
	return moduleNamePattern.MatchString(name)
}

// PathParams returns the names of the parameters in a path template, in order.
func PathParams(path string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// DocPath converts a path template into its OpenAPI form by dropping chi
// regexp suffixes, e.g. "/{id:[0-9]+}" becomes "/{id}".
func DocPath(path string) string {
	return pathParamPattern.ReplaceAllString(path, "{$1}")
}

// Validate checks that the module is well formed: a valid name, and routes
// with a supported method, an absolute path, a handler and no duplicates.
func (m Module) Validate() error {
	if !ValidName(m.Name) {
		return fmt.Errorf("invalid module name %q", m.Name)
	}

	seen := make(map[string]bool, len(m.Routes))
	for i, r := range m.Routes {
		method := strings.ToUpper(r.Method)
		if !slices.Contains(supportedMethods, method) {
			return fmt.Errorf("route %d: unsupported HTTP method %q", i, r.Method)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("route %d: path %q must start with /", i, r.Path)
		}
		if r.Handler == nil {
			return fmt.Errorf("route %d: %s %s has no handler", i, method, r.Path)
		}
		key := method + " " + r.Path
		if seen[key] {
			return fmt.Errorf("route %d: duplicate route %s", i, key)
		}
		seen[key] = true
	}

	return nil
}

// MountPath returns the path the module is mounted at, relative to the API prefix.
func (m Module) MountPath() string {
	return "/" + Version + "/" + m.Name
}
