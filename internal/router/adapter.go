// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/schema"
)

const maxBodyBytes = 1 << 20

// Locations of request values in validation errors.
const (
	LocationParams = "params"
	LocationQuery  = "query"
	LocationBody   = "body"
)

// Violation is one request or response validation failure.
type Violation struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// ValidationBody is the body of 400 and 422 responses.
type ValidationBody struct {
	Message string      `json:"message"`
	Errors  []Violation `json:"errors"`
}

type dispatcher struct {
	opts *Options
}

func (d *dispatcher) adapt(module string, rt route.Route) http.HandlerFunc {
	method := strings.ToUpper(rt.Method)
	fullPath := "/" + route.Version + "/" + module + rt.Path
	spanName := rt.OperationID
	if spanName == "" {
		spanName = method + " " + fullPath
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := d.opts.tracer.Start(r.Context(), spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("terry.module", module),
				attribute.String("http.route", fullPath),
			),
		)
		defer span.End()
		r = r.WithContext(ctx)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		log := d.opts.log.With(
			slog.String("module", module),
			slog.String("request_id", chimw.GetReqID(ctx)),
		)
		c := &route.Context{
			Request: r,
			Writer:  ww,
			Module:  module,
			Logger:  log,
		}

		if violations := bindRequest(c, rt.Schema); len(violations) > 0 {
			span.SetStatus(codes.Error, "request validation failed")
			log.DebugContext(ctx, "request validation failed",
				slog.String("method", method),
				slog.String("path", r.URL.Path),
				slog.Int("violations", len(violations)),
			)
			_ = route.WriteJSON(ww, http.StatusBadRequest, ValidationBody{
				Message: "Validation failed",
				Errors:  violations,
			})
			return
		}

		out, err := rt.Handler(c)
		if err != nil {
			d.fail(ww, r, span, err)
			return
		}

		// The handler wrote the response itself.
		if ww.Status() != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", ww.Status()))
			return
		}

		if rt.Schema != nil && rt.Schema.Response != nil {
			validated, err := validateResponse(rt.Schema.Response, out)
			var verr *schema.ValidationError
			switch {
			case errors.As(err, &verr):
				span.SetStatus(codes.Error, "response validation failed")
				log.ErrorContext(ctx, "response validation failed",
					slog.String("method", method),
					slog.String("path", r.URL.Path),
					slog.Any("error", verr),
				)
				_ = route.WriteJSON(ww, http.StatusUnprocessableEntity, ValidationBody{
					Message: "Response validation failed",
					Errors:  violations(verr, ""),
				})
				return
			case err != nil:
				d.fail(ww, r, span, err)
				return
			}
			out = validated
		}

		if err := route.WriteJSON(ww, http.StatusOK, out); err != nil {
			d.fail(ww, r, span, err)
			return
		}
		span.SetAttributes(attribute.Int("http.response.status_code", http.StatusOK))
	}
}

// bindRequest validates params, query and body and stores the results on c.
// Params and query are coerced from text.
func bindRequest(c *route.Context, s *route.Schemas) []Violation {
	var out []Violation
	if s == nil {
		s = &route.Schemas{}
	}

	params := rawParams(c.Request)
	if s.Params != nil {
		v, err := s.Params.Coerce(params)
		if err != nil {
			out = append(out, toViolations(err, LocationParams)...)
		} else {
			params, _ = v.(map[string]any)
		}
	}
	c.Params = params

	query := rawQuery(c.Request)
	if s.Query != nil {
		v, err := s.Query.Coerce(query)
		if err != nil {
			out = append(out, toViolations(err, LocationQuery)...)
		} else {
			query, _ = v.(map[string]any)
		}
	}
	c.Query = query

	if s.Body != nil {
		body, err := readBody(c.Writer, c.Request)
		if err != nil {
			return append(out, Violation{Message: err.Error(), Location: LocationBody})
		}
		v, err := s.Body.Validate(body)
		if err != nil {
			out = append(out, toViolations(err, LocationBody)...)
		} else {
			c.Body = v
		}
	}

	return out
}

func rawParams(r *http.Request) map[string]any {
	params := make(map[string]any)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return params
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

// rawQuery keeps the first value of every query key.
func rawQuery(r *http.Request) map[string]any {
	values := r.URL.Query()
	query := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			query[key] = vs[0]
		}
	}
	return query
}

// readBody decodes a JSON body. An empty body decodes to nil.
func readBody(w http.ResponseWriter, r *http.Request) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}

// validateResponse normalises v through JSON and validates the result, so
// structs are checked by their JSON field names.
func validateResponse(s *schema.Schema, v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("failed to normalise response: %w", err)
	}
	return s.Validate(normalized)
}

func toViolations(err error, location string) []Violation {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return violations(verr, location)
	}
	return []Violation{{Message: err.Error(), Location: location}}
}

func violations(verr *schema.ValidationError, location string) []Violation {
	out := make([]Violation, len(verr.Errors))
	for i, fe := range verr.Errors {
		out[i] = Violation{Path: fe.Path, Message: fe.Message, Location: location}
	}
	return out
}
