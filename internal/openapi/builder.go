// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi generates the OpenAPI document from route modules and
// provides writing, reading, validating and diffing of documents.
package openapi

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/pkg/types"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// Builder assembles an OpenAPI document from documented routes.
type Builder struct {
	config *config.Config
}

// NewBuilder creates a new OpenAPI builder with the given configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		config: cfg,
	}
}

// Build creates an OpenAPI document from routes, tags and component schemas.
// Two routes with the same method and path are an error.
func (b *Builder) Build(routes []types.Route, tags []types.Tag, schemas map[string]*types.Schema) (*types.OpenAPI, error) {
	doc := &types.OpenAPI{
		OpenAPI: Version,
		Info:    b.buildInfo(),
		Servers: b.buildServers(),
		Paths:   make(map[string]types.PathItem),
		Tags:    slices.Clone(tags),
	}

	if err := b.buildPaths(doc, routes); err != nil {
		return nil, fmt.Errorf("failed to build paths: %w", err)
	}

	if len(schemas) > 0 {
		doc.Components = &types.Components{Schemas: maps.Clone(schemas)}
	}

	return doc, nil
}

// buildInfo constructs the Info object from configuration.
func (b *Builder) buildInfo() types.Info {
	info := types.Info{
		Title:       b.config.OpenAPI.Info.Title,
		Description: b.config.OpenAPI.Info.Description,
		Version:     b.config.OpenAPI.Info.Version,
	}

	contact := b.config.OpenAPI.Info.Contact
	if contact.Name != "" || contact.Email != "" || contact.URL != "" {
		info.Contact = &types.Contact{
			Name:  contact.Name,
			URL:   contact.URL,
			Email: contact.Email,
		}
	}

	return info
}

// buildServers returns the single API server, located at the API prefix.
func (b *Builder) buildServers() []types.Server {
	url := b.config.APIPrefix
	if url == "" {
		url = "/"
	}
	return []types.Server{{
		URL:         url,
		Description: b.config.OpenAPI.ServerDescription,
	}}
}

// buildPaths constructs paths from routes.
func (b *Builder) buildPaths(doc *types.OpenAPI, routes []types.Route) error {
	for _, route := range routes {
		pathItem := doc.Paths[route.Path]
		operation := b.routeToOperation(route)

		var slot **types.Operation
		switch strings.ToUpper(route.Method) {
		case "GET":
			slot = &pathItem.Get
		case "POST":
			slot = &pathItem.Post
		case "PUT":
			slot = &pathItem.Put
		case "DELETE":
			slot = &pathItem.Delete
		case "PATCH":
			slot = &pathItem.Patch
		case "OPTIONS":
			slot = &pathItem.Options
		case "HEAD":
			slot = &pathItem.Head
		default:
			return fmt.Errorf("unsupported HTTP method: %s", route.Method)
		}
		if *slot != nil {
			return fmt.Errorf("duplicate operation %s %s", strings.ToUpper(route.Method), route.Path)
		}
		*slot = operation

		doc.Paths[route.Path] = pathItem
	}

	return nil
}

// routeToOperation converts a Route to an OpenAPI Operation.
func (b *Builder) routeToOperation(route types.Route) *types.Operation {
	op := &types.Operation{
		Tags:        slices.Clone(route.Tags),
		Summary:     route.Summary,
		Description: route.Description,
		OperationID: route.OperationID,
		Parameters:  slices.Clone(route.Parameters),
		RequestBody: route.RequestBody,
	}

	if len(route.Responses) > 0 {
		op.Responses = maps.Clone(route.Responses)
	} else {
		op.Responses = DefaultResponses(nil)
	}

	return op
}

// DefaultResponses returns the responses every documented operation carries:
// 200 with the given schema as content (none when nil), and 400 and 404
// referencing the Error component.
func DefaultResponses(success *types.Schema) map[string]types.Response {
	ok := types.Response{Description: "Successful response"}
	if success != nil {
		ok.Content = types.JSONContent(success)
	}
	return map[string]types.Response{
		"200": ok,
		"400": {
			Description: "Bad request",
			Content:     types.JSONContent(types.SchemaRef(ErrorSchemaName)),
		},
		"404": {
			Description: "Not found",
			Content:     types.JSONContent(types.SchemaRef(ErrorSchemaName)),
		},
	}
}

// SortedPaths returns a sorted list of path keys for deterministic output.
func SortedPaths(paths map[string]types.PathItem) []string {
	return slices.Sorted(maps.Keys(paths))
}

// SortedSchemas returns a sorted list of schema keys for deterministic output.
func SortedSchemas(schemas map[string]*types.Schema) []string {
	return slices.Sorted(maps.Keys(schemas))
}
