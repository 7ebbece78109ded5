// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package schema provides a declarative shape DSL with two derived views:
// runtime validation (Validate, Coerce) and documentation (Describe).
package schema

import (
	"fmt"
	"slices"
)

// Kind is the structural kind of a Schema.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindInteger
	KindBoolean
	KindEnum
	KindArray
	KindObject
)

// String returns the JSON Schema type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString, KindEnum:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Format is a semantic string format checked by Validate and emitted by Describe.
type Format string

const (
	FormatUUID     Format = "uuid"
	FormatEmail    Format = "email"
	FormatDateTime Format = "date-time"
)

// Schema is an immutable shape declaration. Every modifier returns a copy,
// so a base schema can be shared and refined (Omit, Partial) freely.
type Schema struct {
	kind        Kind
	name        string
	description string

	optional   bool
	hasDefault bool
	def        any

	format    Format
	minLength *int
	positive  bool

	values []string
	items  *Schema
	fields []Field
}

// Field is a named property of an object schema. Order is preserved in
// validation errors and documentation.
type Field struct {
	Name   string
	Schema *Schema
}

// Prop creates an object field.
func Prop(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// String declares a string.
func String() *Schema { return &Schema{kind: KindString} }

// Number declares a floating point number.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Integer declares a whole number.
func Integer() *Schema { return &Schema{kind: KindInteger} }

// Boolean declares a boolean.
func Boolean() *Schema { return &Schema{kind: KindBoolean} }

// Enum declares a string restricted to values.
func Enum(values ...string) *Schema {
	if len(values) == 0 {
		panic("schema: Enum requires at least one value")
	}
	return &Schema{kind: KindEnum, values: slices.Clone(values)}
}

// Array declares a list whose elements match items.
func Array(items *Schema) *Schema {
	if items == nil {
		panic("schema: Array requires an item schema")
	}
	return &Schema{kind: KindArray, items: items}
}

// Object declares an object with the given fields. Unknown keys are
// stripped during validation.
func Object(fields ...Field) *Schema {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || f.Schema == nil {
			panic("schema: object fields need a name and a schema")
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		seen[f.Name] = true
	}
	return &Schema{kind: KindObject, fields: slices.Clone(fields)}
}

func (s *Schema) clone() *Schema {
	c := *s
	c.fields = slices.Clone(s.fields)
	c.values = slices.Clone(s.values)
	return &c
}

func (s *Schema) must(op string, kinds ...Kind) {
	if !slices.Contains(kinds, s.kind) {
		panic(fmt.Sprintf("schema: %s is not applicable to %s schemas", op, s.kind))
	}
}

// Kind returns the structural kind.
func (s *Schema) Kind() Kind { return s.kind }

// Name returns the component name set with Named, or "".
func (s *Schema) Name() string { return s.name }

// IsOptional reports whether the value may be absent.
func (s *Schema) IsOptional() bool { return s.optional || s.hasDefault }

// DefaultValue returns the declared default and whether one exists.
func (s *Schema) DefaultValue() (any, bool) { return s.def, s.hasDefault }

// Fields returns the fields of an object schema.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Field returns the schema of the named field of an object schema.
func (s *Schema) Field(name string) (*Schema, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return nil, false
}

// Named marks the schema as a reusable documentation component.
func (s *Schema) Named(name string) *Schema {
	c := s.clone()
	c.name = name
	return c
}

// Description attaches a human readable description.
func (s *Schema) Description(text string) *Schema {
	c := s.clone()
	c.description = text
	return c
}

// Optional allows the value to be absent.
func (s *Schema) Optional() *Schema {
	c := s.clone()
	c.optional = true
	return c
}

// Required reverts Optional.
func (s *Schema) Required() *Schema {
	c := s.clone()
	c.optional = false
	c.hasDefault = false
	c.def = nil
	return c
}

// Default sets the value used when the input is absent. The value is
// validated against the schema and stored in its validated form, so an
// integer default becomes an int64. An invalid default panics.
func (s *Schema) Default(v any) *Schema {
	c := s.clone()
	c.hasDefault = true
	c.def = v
	return c.checkDefault()
}

// checkDefault revalidates the default after a modifier changed the schema.
func (s *Schema) checkDefault() *Schema {
	if !s.hasDefault || s.def == nil {
		return s
	}
	c := &checker{}
	out := c.check(s, s.def, "")
	if len(c.errs) > 0 {
		panic(fmt.Sprintf("schema: default %v is not a valid %s: %v", s.def, s.kind, &ValidationError{Errors: c.errs}))
	}
	s.def = out
	return s
}

// UUID requires an RFC 4122 textual UUID.
func (s *Schema) UUID() *Schema { return s.withFormat(FormatUUID) }

// Email requires an email address.
func (s *Schema) Email() *Schema { return s.withFormat(FormatEmail) }

// DateTime requires an RFC 3339 timestamp.
func (s *Schema) DateTime() *Schema { return s.withFormat(FormatDateTime) }

func (s *Schema) withFormat(f Format) *Schema {
	s.must(string(f), KindString)
	c := s.clone()
	c.format = f
	return c.checkDefault()
}

// Min sets the minimum string length in characters.
func (s *Schema) Min(n int) *Schema {
	s.must("Min", KindString)
	c := s.clone()
	c.minLength = &n
	return c.checkDefault()
}

// Positive requires a number strictly greater than zero.
func (s *Schema) Positive() *Schema {
	s.must("Positive", KindNumber, KindInteger)
	c := s.clone()
	c.positive = true
	return c.checkDefault()
}

// Omit returns an object schema without the named fields.
func (s *Schema) Omit(names ...string) *Schema {
	s.must("Omit", KindObject)
	c := s.clone()
	c.name = ""
	c.fields = slices.DeleteFunc(c.fields, func(f Field) bool {
		return slices.Contains(names, f.Name)
	})
	return c.checkDefault()
}

// Pick returns an object schema with only the named fields.
func (s *Schema) Pick(names ...string) *Schema {
	s.must("Pick", KindObject)
	c := s.clone()
	c.name = ""
	c.fields = slices.DeleteFunc(c.fields, func(f Field) bool {
		return !slices.Contains(names, f.Name)
	})
	return c.checkDefault()
}

// Partial returns an object schema whose fields are all optional.
// Defaults are dropped so absent fields stay absent, which makes the result
// suitable for partial updates.
func (s *Schema) Partial() *Schema {
	s.must("Partial", KindObject)
	c := s.clone()
	c.name = ""
	for i, f := range c.fields {
		fs := f.Schema.clone()
		fs.optional = true
		fs.hasDefault = false
		fs.def = nil
		c.fields[i] = Field{Name: f.Name, Schema: fs}
	}
	return c
}

// Extend returns an object schema with additional fields. Fields with an
// existing name replace the original.
func (s *Schema) Extend(fields ...Field) *Schema {
	s.must("Extend", KindObject)
	c := s.clone()
	c.name = ""
	for _, f := range fields {
		idx := slices.IndexFunc(c.fields, func(e Field) bool { return e.Name == f.Name })
		if idx >= 0 {
			c.fields[idx] = f
			continue
		}
		c.fields = append(c.fields, f)
	}
	return c.checkDefault()
}
