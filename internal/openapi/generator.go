// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/schema"
	"github.com/mahabubx7/terry/pkg/types"
)

// Names of the components every document carries.
const (
	ErrorSchemaName   = "Error"
	IdParamSchemaName = "IdParam"
)

var (
	errorSchema = schema.Object(
		schema.Prop("message", schema.String()),
		schema.Prop("stack", schema.String().Optional()),
	)

	idParamSchema = schema.Object(
		schema.Prop("id", schema.String().UUID()),
	)

	titleCaser = cases.Title(language.English, cases.NoLower)
)

// Generator turns route modules into an OpenAPI document. It never invokes
// route handlers.
type Generator struct {
	builder  *Builder
	log      *slog.Logger
	validate bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger used for per-module failures.
func WithLogger(log *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.log = log
	}
}

// WithValidation toggles validating the assembled document. It is on by default.
func WithValidation(enabled bool) GeneratorOption {
	return func(g *Generator) {
		g.validate = enabled
	}
}

// NewGenerator creates a generator using cfg for document metadata.
func NewGenerator(cfg *config.Config, opts ...GeneratorOption) *Generator {
	g := &Generator{
		builder:  NewBuilder(cfg),
		log:      slog.Default(),
		validate: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tag returns the documentation tag name of a module, e.g. "Users".
func Tag(module string) string {
	return titleCaser.String(module)
}

// Generate builds the document for modules. Routes without a schema are left
// out. A module that fails to describe is logged and skipped; only a failure
// to assemble or validate the whole document is returned.
func (g *Generator) Generate(ctx context.Context, modules []route.Module) (*types.OpenAPI, error) {
	components := map[string]*types.Schema{
		ErrorSchemaName:   errorSchema.Describe(),
		IdParamSchemaName: idParamSchema.Describe(),
	}

	var (
		routes []types.Route
		tags   = make([]types.Tag, 0, len(modules))
	)
	for _, m := range modules {
		scratch := maps.Clone(components)
		described, err := describeModule(m, scratch)
		if err != nil {
			g.log.WarnContext(ctx, "skipping module documentation",
				slog.String("module", m.Name),
				slog.Any("error", err),
			)
			continue
		}

		components = scratch
		routes = append(routes, described...)
		tags = append(tags, types.Tag{
			Name:        Tag(m.Name),
			Description: Tag(m.Name) + " management endpoints",
		})
		g.log.DebugContext(ctx, "documented module",
			slog.String("module", m.Name),
			slog.Int("operations", len(described)),
		)
	}

	doc, err := g.builder.Build(routes, tags, components)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble document: %w", err)
	}

	if g.validate {
		if err := Validate(ctx, doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// describeModule documents every route of m that declares a schema.
// Named schemas are registered into components.
func describeModule(m route.Module, components map[string]*types.Schema) (routes []types.Route, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("describing module panicked: %v", rec)
		}
	}()

	if !route.ValidName(m.Name) {
		return nil, fmt.Errorf("invalid module name %q", m.Name)
	}

	seen := make(map[string]bool)
	for _, rt := range m.Routes {
		if rt.Schema == nil {
			continue
		}

		r, err := describeRoute(m.Name, rt, components)
		if err != nil {
			return nil, err
		}
		key := r.Method + " " + r.Path
		if seen[key] {
			return nil, fmt.Errorf("duplicate operation %s", key)
		}
		seen[key] = true
		routes = append(routes, r)
	}
	return routes, nil
}

func describeRoute(module string, rt route.Route, components map[string]*types.Schema) (types.Route, error) {
	method := strings.ToUpper(rt.Method)
	if method == "" {
		return types.Route{}, fmt.Errorf("route %s has no method", rt.Path)
	}

	tag := Tag(module)
	summary := rt.Summary
	if summary == "" {
		summary = method + " " + tag
		if rt.Path == "/" {
			summary += " list"
		}
	}
	description := rt.Description
	if description == "" {
		description = summary + " endpoint"
	}
	tags := rt.Tags
	if len(tags) == 0 {
		tags = []string{tag}
	}

	r := types.Route{
		Method:      method,
		Path:        docPath(module, rt.Path),
		Module:      module,
		Summary:     summary,
		Description: description,
		Tags:        tags,
		OperationID: rt.OperationID,
		Parameters:  describeParameters(rt, components),
	}

	s := rt.Schema
	if s.Body != nil {
		r.RequestBody = &types.RequestBody{
			Required: !s.Body.IsOptional(),
			Content:  types.JSONContent(s.Body.DescribeInto(components)),
		}
	}

	var success *types.Schema
	if s.Response != nil {
		success = s.Response.DescribeInto(components)
	}
	r.Responses = DefaultResponses(success)

	return r, nil
}

// docPath returns the documented path of a route: /v1/{module}{path} with
// the trailing slash of the root route removed.
func docPath(module, path string) string {
	full := "/" + route.Version + "/" + module + route.DocPath(path)
	if len(full) > 1 {
		full = strings.TrimSuffix(full, "/")
	}
	return full
}

func describeParameters(rt route.Route, components map[string]*types.Schema) []types.Parameter {
	var params []types.Parameter

	for _, name := range route.PathParams(rt.Path) {
		p := types.Parameter{Name: name, In: "path", Required: true}
		switch {
		case name == "id":
			p.Description = "Resource ID"
			p.Schema = types.SchemaRef(IdParamSchemaName)
		case rt.Schema.Params != nil:
			if field, ok := rt.Schema.Params.Field(name); ok {
				p.Schema = field.DescribeInto(components)
				p.Description = p.Schema.Description
			}
		}
		if p.Schema == nil {
			p.Schema = &types.Schema{Type: "string"}
		}
		params = append(params, p)
	}

	if q := rt.Schema.Query; q != nil && q.Kind() == schema.KindObject {
		for _, f := range q.Fields() {
			described := f.Schema.DescribeInto(components)
			params = append(params, types.Parameter{
				Name:        f.Name,
				In:          "query",
				Description: described.Description,
				Required:    !f.Schema.IsOptional(),
				Schema:      described,
			})
		}
	}

	return params
}

// Methods lists the operations of a document as "METHOD path" pairs, sorted.
func Methods(doc *types.OpenAPI) []string {
	var out []string
	for _, path := range SortedPaths(doc.Paths) {
		ops := doc.Paths[path].Operations()
		for _, method := range []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		} {
			if _, ok := ops[method]; ok {
				out = append(out, method+" "+path)
			}
		}
	}
	return out
}
