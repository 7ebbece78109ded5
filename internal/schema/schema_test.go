// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubx7/terry/pkg/types"
)

var userShape = Object(
	Prop("id", String().UUID()),
	Prop("email", String().Email()),
	Prop("name", String().Min(2)),
	Prop("createdAt", String().DateTime()),
).Named("User")

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Errors
}

func TestValidate_Primitives(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		input   any
		want    any
		wantErr string
	}{
		{name: "string", schema: String(), input: "hi", want: "hi"},
		{name: "string wrong type", schema: String(), input: 5.0, wantErr: "Expected string, received number"},
		{name: "min length", schema: String().Min(2), input: "a", wantErr: "String must contain at least 2 character(s)"},
		{name: "min length counts runes", schema: String().Min(2), input: "éé", want: "éé"},
		{name: "uuid", schema: String().UUID(), input: "0b9b6c1e-3f57-4d5f-9d7e-1c3c1d5d2f10", want: "0b9b6c1e-3f57-4d5f-9d7e-1c3c1d5d2f10"},
		{name: "uuid invalid", schema: String().UUID(), input: "not-a-uuid", wantErr: "Invalid uuid"},
		{name: "uuid braces rejected", schema: String().UUID(), input: "{0b9b6c1e-3f57-4d5f-9d7e-1c3c1d5d2f10}", wantErr: "Invalid uuid"},
		{name: "email", schema: String().Email(), input: "a@b.com", want: "a@b.com"},
		{name: "email without tld", schema: String().Email(), input: "a@b", wantErr: "Invalid email"},
		{name: "date-time", schema: String().DateTime(), input: "2024-01-02T03:04:05.123Z", want: "2024-01-02T03:04:05.123Z"},
		{name: "date-time invalid", schema: String().DateTime(), input: "2024-01-02", wantErr: "Invalid datetime"},
		{name: "number", schema: Number(), input: 1.5, want: 1.5},
		{name: "number from int", schema: Number(), input: 3, want: 3.0},
		{name: "positive", schema: Number().Positive(), input: 0.0, wantErr: "Number must be greater than 0"},
		{name: "integer", schema: Integer(), input: 4.0, want: int64(4)},
		{name: "integer rejects float", schema: Integer(), input: 4.5, wantErr: "Expected integer, received float"},
		{name: "integer too large", schema: Integer().Positive(), input: 1e20, wantErr: "Expected integer, received number out of range"},
		{name: "integer too small", schema: Integer(), input: -1e20, wantErr: "Expected integer, received number out of range"},
		{name: "integer at 2^63", schema: Integer(), input: 9223372036854775808.0, wantErr: "Expected integer, received number out of range"},
		{name: "integer min", schema: Integer(), input: -9223372036854775808.0, want: int64(math.MinInt64)},
		{name: "boolean", schema: Boolean(), input: true, want: true},
		{name: "boolean strict", schema: Boolean(), input: "true", wantErr: "Expected boolean, received string"},
		{name: "enum", schema: Enum("ok", "error"), input: "ok", want: "ok"},
		{name: "enum invalid", schema: Enum("ok", "error"), input: "meh", wantErr: "Invalid enum value. Expected 'ok' | 'error', received 'meh'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.schema.Validate(tt.input)
			if tt.wantErr != "" {
				errs := fieldErrors(t, err)
				require.Len(t, errs, 1)
				assert.Equal(t, tt.wantErr, errs[0].Message)
				assert.Empty(t, errs[0].Path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_ObjectRequiredAndStripping(t *testing.T) {
	input := map[string]any{
		"email":    "a@b.com",
		"name":     "Al",
		"password": "longenough",
	}

	create := userShape.Omit("id", "createdAt")
	got, err := create.Validate(input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "a@b.com", "name": "Al"}, got)

	_, err = userShape.Validate(map[string]any{"email": "nope"})
	errs := fieldErrors(t, err)
	paths := make([]string, 0, len(errs))
	for _, fe := range errs {
		paths = append(paths, fe.Path)
	}
	assert.Equal(t, []string{"id", "email", "name", "createdAt"}, paths)
}

func TestValidate_NestedPaths(t *testing.T) {
	health := Object(
		Prop("memory", Object(
			Prop("used", Integer().Positive()),
			Prop("total", Integer().Positive()),
		)),
		Prop("tags", Array(String().Min(1)).Optional()),
	)

	_, err := health.Validate(map[string]any{
		"memory": map[string]any{"total": -1.0},
		"tags":   []any{"a", ""},
	})
	errs := fieldErrors(t, err)
	assert.Contains(t, errs, FieldError{Path: "memory.used", Message: "Required"})
	assert.Contains(t, errs, FieldError{Path: "memory.total", Message: "Number must be greater than 0"})
	assert.Contains(t, errs, FieldError{Path: "tags.1", Message: "String must contain at least 1 character(s)"})
}

func TestValidate_Defaults(t *testing.T) {
	todo := Object(
		Prop("title", String().Min(1)),
		Prop("completed", Boolean().Default(false)),
		Prop("description", String().Optional()),
	)

	got, err := todo.Validate(map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "x", "completed": false}, got)

	partial := todo.Partial()
	got, err = partial.Validate(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)
}

func TestDefaultMustSatisfySchema(t *testing.T) {
	assert.Panics(t, func() { Enum("a", "b").Default("zzz") })
	assert.Panics(t, func() { Integer().Default("ten") })
	assert.Panics(t, func() { Integer().Default(1.5) })
	assert.Panics(t, func() { Integer().Default(int64(0)).Positive() })
	assert.Panics(t, func() { String().Default("ab").Min(3) })
	assert.Panics(t, func() { String().Default("nope").Email() })

	got, err := Enum("a", "b").Default("b").Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	got, err = Integer().Default(7).Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	obj := Object(Prop("a", String()), Prop("b", String().Optional())).Default(map[string]any{"a": "x", "b": "y"})
	got, err = obj.Omit("b").Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x"}, got)
	assert.Panics(t, func() { obj.Extend(Prop("c", String())) })
}

func TestValidate_RootNil(t *testing.T) {
	_, err := String().Validate(nil)
	errs := fieldErrors(t, err)
	assert.Equal(t, "Required", errs[0].Message)

	got, err := String().Optional().Validate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = String().Default("x").Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestCoerce(t *testing.T) {
	query := Object(
		Prop("completed", Boolean().Optional()),
		Prop("page", Integer().Default(1)),
		Prop("ratio", Number().Optional()),
	)

	got, err := query.Coerce(map[string]any{"completed": "true", "ratio": "0.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"completed": true, "page": int64(1), "ratio": 0.5}, got)

	_, err = query.Coerce(map[string]any{"completed": "yes", "page": "two"})
	errs := fieldErrors(t, err)
	assert.Len(t, errs, 2)

	_, err = query.Validate(map[string]any{"completed": "true"})
	require.Error(t, err)

	_, err = query.Coerce(map[string]any{"page": "1e20"})
	errs = fieldErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Path: "page", Message: "Expected integer, received number out of range"}, errs[0])

	got, err = Integer().Coerce("1e3")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)
}

func TestModifiersAreImmutable(t *testing.T) {
	base := String()
	_ = base.Optional().Min(3).Named("X")

	assert.False(t, base.IsOptional())
	assert.Empty(t, base.Name())
	_, err := base.Validate("a")
	assert.NoError(t, err)
}

func TestModifierPanicsOnWrongKind(t *testing.T) {
	assert.Panics(t, func() { Number().Email() })
	assert.Panics(t, func() { String().Positive() })
	assert.Panics(t, func() { String().Omit("x") })
	assert.Panics(t, func() { Object(Prop("a", String()), Prop("a", String())) })
}

func TestDescribe(t *testing.T) {
	shape := Object(
		Prop("id", String().UUID()),
		Prop("title", String().Min(1).Description("Short title")),
		Prop("completed", Boolean().Default(false)),
		Prop("status", Enum("ok", "error")),
		Prop("uptime", Number().Positive()),
		Prop("labels", Array(String()).Optional()),
	)

	doc := shape.Describe()
	assert.Equal(t, "object", doc.Type)
	assert.Equal(t, []string{"id", "title", "status", "uptime"}, doc.Required)
	assert.Equal(t, "uuid", doc.Properties["id"].Format)
	assert.Equal(t, 1, *doc.Properties["title"].MinLength)
	assert.Equal(t, "Short title", doc.Properties["title"].Description)
	assert.Equal(t, false, doc.Properties["completed"].Default)
	assert.Equal(t, []interface{}{"ok", "error"}, doc.Properties["status"].Enum)
	assert.Equal(t, 0.0, *doc.Properties["uptime"].Minimum)
	assert.True(t, doc.Properties["uptime"].ExclusiveMinimum)
	assert.Equal(t, "string", doc.Properties["labels"].Items.Type)
}

func TestDescribeInto_RegistersNamedComponents(t *testing.T) {
	components := map[string]*types.Schema{}
	list := Array(userShape).Named("UserList")

	ref := list.DescribeInto(components)

	assert.Equal(t, "#/components/schemas/UserList", ref.Ref)
	require.Contains(t, components, "User")
	require.Contains(t, components, "UserList")
	assert.Equal(t, "#/components/schemas/User", components["UserList"].Items.Ref)
	assert.Equal(t, "object", components["User"].Type)
}

// Every value accepted by Validate must be an instance of the described schema.
func TestValidatedValuesSatisfyDescription(t *testing.T) {
	shapes := []struct {
		name   string
		schema *Schema
		input  any
	}{
		{
			name:   "user",
			schema: userShape,
			input: map[string]any{
				"id":        "0b9b6c1e-3f57-4d5f-9d7e-1c3c1d5d2f10",
				"email":     "a@b.com",
				"name":      "Al",
				"createdAt": "2024-01-02T03:04:05Z",
				"extra":     1.0,
			},
		},
		{
			name: "todo with defaults",
			schema: Object(
				Prop("title", String().Min(1)),
				Prop("completed", Boolean().Default(false)),
				Prop("description", String().Optional()),
			),
			input: map[string]any{"title": "write tests"},
		},
		{
			name: "health",
			schema: Object(
				Prop("status", Enum("ok", "error")),
				Prop("uptime", Number().Positive()),
				Prop("memory", Object(
					Prop("used", Integer().Positive()),
					Prop("total", Integer().Positive()),
				)),
			),
			input: map[string]any{
				"status": "ok",
				"uptime": 12.5,
				"memory": map[string]any{"used": 10.0, "total": 2048.0},
			},
		},
		{
			name:   "list",
			schema: Array(Object(Prop("n", Integer()))),
			input:  []any{map[string]any{"n": 1.0}, map[string]any{"n": 2.0}},
		},
	}

	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := tt.schema.Validate(tt.input)
			require.NoError(t, err)

			raw, err := json.Marshal(tt.schema.Describe())
			require.NoError(t, err)
			var doc openapi3.Schema
			require.NoError(t, json.Unmarshal(raw, &doc))

			encoded, err := json.Marshal(validated)
			require.NoError(t, err)
			var instance any
			require.NoError(t, json.Unmarshal(encoded, &instance))

			assert.NoError(t, doc.VisitJSON(instance))
		})
	}
}
