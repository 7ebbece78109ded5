// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mahabubx7/terry/internal/route"
)

// RequestLogger logs every request when it arrives and when it completes.
// Completion is logged at warn for 4xx and error for 5xx statuses.
func RequestLogger(log *slog.Logger) Hook {
	return Hook{
		Before: func(r *http.Request) *http.Request {
			log.DebugContext(r.Context(), fmt.Sprintf("%s %s", r.Method, r.URL.RequestURI()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
			return nil
		},
		After: func(r *http.Request, res Result) {
			level := slog.LevelInfo
			switch {
			case res.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case res.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			msg := fmt.Sprintf("%s %s %d %dms", r.Method, r.URL.RequestURI(), res.Status, res.Duration.Milliseconds())
			if res.Bytes > 0 {
				msg += fmt.Sprintf(" %db", res.Bytes)
			}

			log.Log(r.Context(), level, msg,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", res.Status),
				slog.Duration("duration", res.Duration),
				slog.Int("bytes", res.Bytes),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		},
	}
}

var securityHeaders = map[string]string{
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
	"Referrer-Policy":                   "no-referrer",
	"Strict-Transport-Security":         "max-age=15552000; includeSubDomains",
	"X-Content-Type-Options":            "nosniff",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Frame-Options":                   "SAMEORIGIN",
	"X-Permitted-Cross-Domain-Policies": "none",
	"X-XSS-Protection":                  "0",
}

// SecurityHeaders sets conservative security headers on every response.
// No Content-Security-Policy is sent so the documentation viewers can load
// their assets from a CDN.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows cross origin requests from origin; "*" allows any origin.
func CORS(origin string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

// Recover turns a panic into a 500 JSON response. The stack trace is
// included in the body only when production is false. When the handler has
// already started the response the panic is only logged.
func Recover(log *slog.Logger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww, ok := w.(chimw.WrapResponseWriter)
			if !ok {
				ww = chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				stack := string(debug.Stack())
				log.ErrorContext(r.Context(), "recovered from panic",
					slog.Any("error", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", chimw.GetReqID(r.Context())),
					slog.Bool("response_started", ww.Status() != 0),
					slog.String("stack", stack),
				)

				if ww.Status() != 0 {
					return
				}

				body := route.ErrorBody{Message: http.StatusText(http.StatusInternalServerError)}
				if !production {
					body.Stack = stack
				}
				_ = route.WriteJSON(ww, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
