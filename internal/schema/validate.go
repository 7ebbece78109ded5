// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(
	`^[A-Za-z0-9._%+'\-]+@[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`,
)

// Validate checks v against the schema and returns the validated value:
// defaults applied, unknown object keys stripped, numbers normalised to
// float64 and integers to int64. v is expected in the shape produced by
// encoding/json decoding into an any.
func (s *Schema) Validate(v any) (any, error) {
	return s.run(v, false)
}

// Coerce behaves like Validate but first converts strings into numbers,
// integers and booleans where the schema asks for them. It is meant for
// path and query parameters, which always arrive as text.
func (s *Schema) Coerce(v any) (any, error) {
	return s.run(v, true)
}

func (s *Schema) run(v any, coerce bool) (any, error) {
	c := &checker{coerce: coerce}
	if v == nil {
		if s.hasDefault {
			return s.def, nil
		}
		if s.optional {
			return nil, nil
		}
		return nil, &ValidationError{Errors: []FieldError{{Message: "Required"}}}
	}
	out := c.check(s, v, "")
	if len(c.errs) > 0 {
		return nil, &ValidationError{Errors: c.errs}
	}
	return out, nil
}

type checker struct {
	coerce bool
	errs   []FieldError
}

func (c *checker) fail(path, format string, args ...any) {
	c.errs = append(c.errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) check(s *Schema, v any, path string) any {
	switch s.kind {
	case KindString:
		return c.checkString(s, v, path)
	case KindEnum:
		return c.checkEnum(s, v, path)
	case KindNumber, KindInteger:
		return c.checkNumber(s, v, path)
	case KindBoolean:
		return c.checkBoolean(v, path)
	case KindArray:
		return c.checkArray(s, v, path)
	case KindObject:
		return c.checkObject(s, v, path)
	default:
		c.fail(path, "Unsupported schema kind")
		return nil
	}
}

func (c *checker) checkString(s *Schema, v any, path string) any {
	str, ok := v.(string)
	if !ok {
		c.fail(path, "Expected string, received %s", typeOf(v))
		return nil
	}
	if s.minLength != nil && utf8.RuneCountInString(str) < *s.minLength {
		c.fail(path, "String must contain at least %d character(s)", *s.minLength)
	}
	switch s.format {
	case FormatUUID:
		if _, err := uuid.Parse(str); err != nil || len(str) != 36 {
			c.fail(path, "Invalid uuid")
		}
	case FormatEmail:
		if !emailPattern.MatchString(str) {
			c.fail(path, "Invalid email")
		}
	case FormatDateTime:
		if _, err := time.Parse(time.RFC3339Nano, str); err != nil {
			c.fail(path, "Invalid datetime")
		}
	}
	return str
}

func (c *checker) checkEnum(s *Schema, v any, path string) any {
	str, ok := v.(string)
	if !ok {
		c.fail(path, "Expected string, received %s", typeOf(v))
		return nil
	}
	for _, allowed := range s.values {
		if str == allowed {
			return str
		}
	}
	quoted := make([]string, len(s.values))
	for i, allowed := range s.values {
		quoted[i] = "'" + allowed + "'"
	}
	c.fail(path, "Invalid enum value. Expected %s, received '%s'", strings.Join(quoted, " | "), str)
	return nil
}

func (c *checker) checkNumber(s *Schema, v any, path string) any {
	if str, ok := v.(string); ok && c.coerce {
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil || strings.TrimSpace(str) == "" {
			c.fail(path, "Expected %s, received string", s.kind)
			return nil
		}
		v = f
	}
	f, ok := toFloat(v)
	if !ok {
		c.fail(path, "Expected %s, received %s", s.kind, typeOf(v))
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		c.fail(path, "Expected %s, received nan", s.kind)
		return nil
	}
	if s.positive && f <= 0 {
		c.fail(path, "Number must be greater than 0")
	}
	if s.kind == KindInteger {
		if f != math.Trunc(f) {
			c.fail(path, "Expected integer, received float")
			return nil
		}
		// float64(math.MaxInt64) rounds up to 2^63, itself out of range.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			c.fail(path, "Expected integer, received number out of range")
			return nil
		}
		return int64(f)
	}
	return f
}

func (c *checker) checkBoolean(v any, path string) any {
	if str, ok := v.(string); ok && c.coerce {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	b, ok := v.(bool)
	if !ok {
		c.fail(path, "Expected boolean, received %s", typeOf(v))
		return nil
	}
	return b
}

func (c *checker) checkArray(s *Schema, v any, path string) any {
	list, ok := v.([]any)
	if !ok {
		c.fail(path, "Expected array, received %s", typeOf(v))
		return nil
	}
	out := make([]any, 0, len(list))
	for i, item := range list {
		itemPath := joinPath(path, strconv.Itoa(i))
		if item == nil {
			c.fail(itemPath, "Expected %s, received null", s.items.kind)
			continue
		}
		out = append(out, c.check(s.items, item, itemPath))
	}
	return out
}

func (c *checker) checkObject(s *Schema, v any, path string) any {
	obj, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "Expected object, received %s", typeOf(v))
		return nil
	}
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		fieldPath := joinPath(path, f.Name)
		raw, present := obj[f.Name]
		if !present || raw == nil {
			switch {
			case f.Schema.hasDefault:
				out[f.Name] = f.Schema.def
			case f.Schema.optional:
			default:
				c.fail(fieldPath, "Required")
			}
			continue
		}
		out[f.Name] = c.check(f.Schema, raw, fieldPath)
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
