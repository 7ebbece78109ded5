// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package middleware provides the before/after hook chain wrapped around the
// API handler and the built-in hooks and handlers the server installs.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Result describes a completed request.
type Result struct {
	// Status is the response status code, 200 when the handler never set one
	Status int

	// Bytes is the number of body bytes written
	Bytes int

	// Duration is the time spent in the wrapped handler
	Duration time.Duration
}

// Hook observes a request before and after the wrapped handler runs.
// Either function may be nil.
type Hook struct {
	// Before may return a derived request (e.g. with context values);
	// returning nil keeps the current request.
	Before func(r *http.Request) *http.Request

	// After runs once the handler returned.
	After func(r *http.Request, res Result)
}

// Chain returns middleware running every Before in order, the handler once,
// then every After in reverse order.
func Chain(hooks ...Hook) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range hooks {
				if h.Before == nil {
					continue
				}
				if nr := h.Before(r); nr != nil {
					r = nr
				}
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			res := Result{
				Status:   ww.Status(),
				Bytes:    ww.BytesWritten(),
				Duration: time.Since(start),
			}
			if res.Status == 0 {
				res.Status = http.StatusOK
			}

			for i := len(hooks) - 1; i >= 0; i-- {
				if hooks[i].After != nil {
					hooks[i].After(r, res)
				}
			}
		})
	}
}
