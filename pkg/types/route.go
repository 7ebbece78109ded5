// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// Route is the documentation view of one registered operation.
// The generator derives it from a route descriptor and the builder turns it
// into an Operation under the matching PathItem.
type Route struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH, etc.)
	Method string `json:"method" yaml:"method"`

	// Path is the OpenAPI path template, e.g. /v1/users/{id}
	Path string `json:"path" yaml:"path"`

	// Module is the name of the module the route belongs to
	Module string `json:"module,omitempty" yaml:"module,omitempty"`

	// Summary is a short summary of the operation
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Description is a detailed description of the operation
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Tags groups the operation in the rendered documentation
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// OperationID is a unique identifier for the operation
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`

	// Parameters are the path and query parameters
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// RequestBody is the request body definition
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`

	// Responses maps status codes to response definitions
	Responses map[string]Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	// Name is the parameter name
	Name string `json:"name" yaml:"name"`

	// In is the location of the parameter (query, header, path, cookie)
	In string `json:"in" yaml:"in"`

	// Description is a description of the parameter
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Required indicates if the parameter is required, path parameters always are
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Schema is the schema defining the parameter type
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody describes a request body.
type RequestBody struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]MediaType `json:"content" yaml:"content"`
}

// Response describes a single response from an operation.
type Response struct {
	// Description is a short description of the response
	Description string `json:"description" yaml:"description"`

	// Content maps media types to their schemas
	Content map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType provides the schema for a media type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// JSONContent returns a content map holding s under application/json.
func JSONContent(s *Schema) map[string]MediaType {
	return map[string]MediaType{
		"application/json": {Schema: s},
	}
}
