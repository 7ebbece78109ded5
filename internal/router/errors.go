// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package router

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mahabubx7/terry/internal/route"
)

// fail is the single error stage for handler errors. The status comes from
// a route.StatusCoder in the chain and defaults to 500. Stack traces are
// only sent for server errors outside production: the stack recorded by a
// route.HTTPError when there is one, otherwise the stack of the dispatcher
// at the point the handler returned.
func (d *dispatcher) fail(w chimw.WrapResponseWriter, r *http.Request, span trace.Span, err error) {
	status := http.StatusInternalServerError
	var sc route.StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() >= 400 {
		status = sc.StatusCode()
	}

	span.RecordError(err)
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, err.Error())
	}

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelInfo
	}
	d.opts.log.Log(r.Context(), level, "sending error response",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.Any("error", err),
	)

	if w.Status() != 0 {
		// Headers are already on the wire.
		return
	}

	body := route.ErrorBody{Message: errorMessage(err, status, d.opts.production)}
	if status >= http.StatusInternalServerError && !d.opts.production {
		body.Stack = stackOf(err)
	}
	_ = route.WriteJSON(w, status, body)
}

func errorMessage(err error, status int, production bool) string {
	var he *route.HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	if production && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

func stackOf(err error) string {
	var he *route.HTTPError
	if errors.As(err, &he) && he.Stack() != "" {
		return he.Stack()
	}
	return string(debug.Stack())
}
