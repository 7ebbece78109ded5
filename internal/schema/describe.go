// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"github.com/mahabubx7/terry/pkg/types"
)

// Describe returns the documentation node for the schema with every nested
// schema inlined.
func (s *Schema) Describe() *types.Schema {
	return s.describe(nil)
}

// DescribeInto returns the documentation node for the schema, registering
// every Named schema (including s itself) in components and referring to it
// with a $ref. The first schema registered under a name wins.
func (s *Schema) DescribeInto(components map[string]*types.Schema) *types.Schema {
	return s.describe(components)
}

func (s *Schema) describe(components map[string]*types.Schema) *types.Schema {
	if s.name != "" && components != nil {
		if _, exists := components[s.name]; !exists {
			// Reserve the name first so recursive references terminate.
			components[s.name] = &types.Schema{}
			*components[s.name] = *s.body(components)
		}
		return types.SchemaRef(s.name)
	}
	return s.body(components)
}

func (s *Schema) body(components map[string]*types.Schema) *types.Schema {
	out := &types.Schema{
		Type:        s.kind.String(),
		Format:      string(s.format),
		Description: s.description,
	}
	if s.hasDefault {
		out.Default = s.def
	}
	if s.minLength != nil {
		n := *s.minLength
		out.MinLength = &n
	}
	if s.positive {
		zero := 0.0
		out.Minimum = &zero
		out.ExclusiveMinimum = true
	}

	switch s.kind {
	case KindEnum:
		out.Enum = make([]interface{}, len(s.values))
		for i, v := range s.values {
			out.Enum[i] = v
		}
	case KindArray:
		out.Items = s.items.describe(components)
	case KindObject:
		out.Properties = make(map[string]*types.Schema, len(s.fields))
		for _, f := range s.fields {
			out.Properties[f.Name] = f.Schema.describe(components)
			if !f.Schema.IsOptional() {
				out.Required = append(out.Required, f.Name)
			}
		}
	}

	return out
}
