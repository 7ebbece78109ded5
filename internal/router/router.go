// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package router builds the live HTTP routing tree from route modules.
// Every route is wrapped in an adapter that validates the request, invokes
// the handler, validates the response and translates errors.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mahabubx7/terry/internal/route"
)

const tracerName = "github.com/mahabubx7/terry/internal/router"

// Options configures the dispatcher.
type Options struct {
	log         *slog.Logger
	production  bool
	tracer      trace.Tracer
	middlewares []func(http.Handler) http.Handler
}

// Option sets a value on Options.
type Option func(*Options)

// WithLogger sets the logger used for mount, validation and error logs.
func WithLogger(log *slog.Logger) Option {
	return func(o *Options) {
		o.log = log
	}
}

// WithProduction hides stack traces and internal error messages from
// error responses.
func WithProduction(production bool) Option {
	return func(o *Options) {
		o.production = production
	}
}

// WithTracer overrides the tracer used for per-route spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) {
		o.tracer = tracer
	}
}

// WithMiddleware adds middleware in front of every route.
func WithMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(o *Options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// Mount describes a route registered on the dispatcher.
type Mount struct {
	Method string
	Path   string
	Module string
}

// New mounts every module at /v1/{module} and each of its routes at the
// route path. Unknown paths answer 404 and known paths with the wrong
// method answer 405, both with a JSON message.
func New(modules []route.Module, opts ...Option) (*chi.Mux, error) {
	o := &Options{
		log:    slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}

	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		if seen[m.Name] {
			return nil, fmt.Errorf("module %q is mounted twice", m.Name)
		}
		seen[m.Name] = true
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("cannot mount module %q: %w", m.Name, err)
		}
	}

	mux := chi.NewRouter()
	mux.Use(o.middlewares...)
	mux.NotFound(NotFound)
	mux.MethodNotAllowed(MethodNotAllowed)

	d := &dispatcher{opts: o}
	mux.Route("/"+route.Version, func(v chi.Router) {
		for _, m := range modules {
			v.Route("/"+m.Name, func(mr chi.Router) {
				for _, rt := range m.Routes {
					method := strings.ToUpper(rt.Method)
					mr.Method(method, rt.Path, d.adapt(m.Name, rt))
					o.log.Debug("registered route",
						slog.String("method", method),
						slog.String("path", rt.Path),
						slog.String("module", m.Name),
					)
				}
			})
			o.log.Info("mounted module",
				slog.String("module", m.Name),
				slog.String("path", m.MountPath()),
			)
		}
	})

	return mux, nil
}

// Routes lists every route registered on a dispatcher built by New, sorted
// the way chi walks its tree.
func Routes(mux chi.Routes, modules []route.Module) ([]Mount, error) {
	owner := make(map[string]string)
	for _, m := range modules {
		owner[m.MountPath()] = m.Name
	}

	var mounts []Mount
	err := chi.Walk(mux, func(method, path string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		mounts = append(mounts, Mount{
			Method: method,
			Path:   path,
			Module: moduleOf(owner, path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk routes: %w", err)
	}
	return mounts, nil
}

func moduleOf(owner map[string]string, path string) string {
	for prefix, name := range owner {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return name
		}
	}
	return ""
}

// NotFound answers 404 with a JSON message.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	_ = route.WriteJSON(w, http.StatusNotFound, route.ErrorBody{Message: "Not found"})
}

// MethodNotAllowed answers 405 with a JSON message.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	_ = route.WriteJSON(w, http.StatusMethodNotAllowed, route.ErrorBody{Message: "Method not allowed"})
}
