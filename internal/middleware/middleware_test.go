// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestChain_Order(t *testing.T) {
	var calls []string
	hook := func(name string) Hook {
		return Hook{
			Before: func(r *http.Request) *http.Request {
				calls = append(calls, "before "+name)
				return nil
			},
			After: func(r *http.Request, res Result) {
				calls = append(calls, "after "+name)
			},
		}
	}

	h := Chain(hook("a"), Hook{}, hook("b"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"before a", "before b", "handler", "after b", "after a"}, calls)
}

func TestChain_ResultAndDerivedRequest(t *testing.T) {
	var got Result
	var seen any

	h := Chain(
		Hook{Before: func(r *http.Request) *http.Request {
			return r.WithContext(context.WithValue(r.Context(), ctxKey{}, "tagged"))
		}},
		Hook{After: func(r *http.Request, res Result) {
			got = res
			seen = r.Context().Value(ctxKey{})
		}},
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tagged", r.Context().Value(ctxKey{}))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, got.Status)
	assert.Equal(t, 5, got.Bytes)
	assert.GreaterOrEqual(t, got.Duration.Nanoseconds(), int64(0))
	assert.Equal(t, "tagged", seen)
}

func TestChain_DefaultStatus(t *testing.T) {
	var got Result
	h := Chain(Hook{After: func(r *http.Request, res Result) { got = res }})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, got.Status)
	assert.Zero(t, got.Bytes)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := chimw.RequestID(Chain(RequestLogger(log))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}`))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users?x=1", nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var in, out map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &in))
	require.NoError(t, json.Unmarshal(lines[1], &out))

	assert.Equal(t, "GET /api/v1/users?x=1", in["msg"])
	assert.Equal(t, "DEBUG", in["level"])
	assert.NotEmpty(t, in["request_id"])

	assert.Contains(t, out["msg"], "GET /api/v1/users?x=1 404")
	assert.Contains(t, out["msg"], "23b")
	assert.Equal(t, "WARN", out["level"])
	assert.EqualValues(t, 404, out["status"])
	assert.EqualValues(t, 23, out["bytes"])
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCORS(t *testing.T) {
	h := CORS("https://app.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	h := CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	tests := []struct {
		name       string
		production bool
		wantStack  bool
	}{
		{name: "development", production: false, wantStack: true},
		{name: "production", production: true, wantStack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			rec := httptest.NewRecorder()
			Recover(log, tt.production)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Internal Server Error", body["message"])
			_, hasStack := body["stack"]
			assert.Equal(t, tt.wantStack, hasStack)
			assert.Contains(t, buf.String(), "recovered from panic")
		})
	}
}

func TestRecover_ResponseAlreadyStarted(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{
			name: "header written",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
				panic("after header")
			},
			want: http.StatusNoContent,
		},
		{
			name: "body written",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("partial"))
				panic("after body")
			},
			want: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			rec := httptest.NewRecorder()
			Recover(log, false)(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "Internal Server Error")
			assert.NotContains(t, rec.Body.String(), `"stack"`)
			assert.Contains(t, buf.String(), `"response_started":true`)
		})
	}
}
