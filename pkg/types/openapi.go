// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types holds the OpenAPI document model produced by the generator.
package types

// OpenAPI represents a complete OpenAPI 3.0 document.
type OpenAPI struct {
	// OpenAPI is the OpenAPI specification version (e.g., "3.0.3")
	OpenAPI string `json:"openapi" yaml:"openapi"`

	// Info provides metadata about the API
	Info Info `json:"info" yaml:"info"`

	// Servers is a list of server objects
	Servers []Server `json:"servers,omitempty" yaml:"servers,omitempty"`

	// Paths holds the available paths and operations
	Paths map[string]PathItem `json:"paths" yaml:"paths"`

	// Components holds reusable objects
	Components *Components `json:"components,omitempty" yaml:"components,omitempty"`

	// Tags is a list of tags used by the document
	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Info provides metadata about the API.
type Info struct {
	// Title is the title of the API
	Title string `json:"title" yaml:"title"`

	// Description is a description of the API
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Contact is the contact information for the API
	Contact *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`

	// Version is the version of the API
	Version string `json:"version" yaml:"version"`
}

// Contact holds contact information for the API.
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Server describes a server hosting the API.
type Server struct {
	// URL is the server base URL, relative URLs are resolved against the document location
	URL string `json:"url" yaml:"url"`

	// Description is a description of the server
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// Operations returns the operations of the path item keyed by upper case
// HTTP method. Methods without an operation are omitted.
func (p PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation, 7)
	for method, op := range map[string]*Operation{
		"GET":     p.Get,
		"PUT":     p.Put,
		"POST":    p.Post,
		"DELETE":  p.Delete,
		"OPTIONS": p.Options,
		"HEAD":    p.Head,
		"PATCH":   p.Patch,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation describes a single API operation on a path.
type Operation struct {
	// Tags is a list of tags for API documentation control
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Summary is a short summary of what the operation does
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Description is a verbose explanation of the operation
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// OperationID is a unique identifier for the operation
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`

	// Parameters is a list of parameters for the operation
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// RequestBody is the request body for the operation
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`

	// Responses is the map of possible responses keyed by status code
	Responses map[string]Response `json:"responses" yaml:"responses"`

	// Deprecated marks the operation as deprecated
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Components holds reusable objects for the document.
type Components struct {
	// Schemas holds reusable schema objects
	Schemas map[string]*Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// Tag adds metadata to a single tag used by operations.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
