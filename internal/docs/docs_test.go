// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package docs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubx7/terry/internal/logging"
	"github.com/mahabubx7/terry/pkg/types"
)

func testDoc(title string) *types.OpenAPI {
	return &types.OpenAPI{
		OpenAPI: "3.0.3",
		Info:    types.Info{Title: title, Version: "v1"},
		Paths: map[string]types.PathItem{
			"/v1/users": {Get: &types.Operation{
				Summary:   "List users",
				Responses: map[string]types.Response{"200": {Description: "Successful response"}},
			}},
		},
	}
}

func TestCache_EmptyIsUnavailable(t *testing.T) {
	c := NewCache(func(context.Context) (*types.OpenAPI, error) {
		return nil, errors.New("boom")
	}, logging.Discard())

	require.Error(t, c.Regenerate(context.Background()))
	_, err := c.Snapshot()
	assert.ErrorIs(t, err, ErrNotGenerated)

	for _, path := range []string{JSONPath, YAMLPath, SwaggerPath, RedocPath, ScalarPath} {
		rec := httptest.NewRecorder()
		c.Handler("/api/docs").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.JSONEq(t, `{"message":"Documentation unavailable"}`, rec.Body.String())
	}
}

func TestCache_KeepsPreviousOnFailure(t *testing.T) {
	var fail atomic.Bool
	c := NewCache(func(context.Context) (*types.OpenAPI, error) {
		if fail.Load() {
			return nil, errors.New("boom")
		}
		return testDoc("First"), nil
	}, logging.Discard())

	require.NoError(t, c.Regenerate(context.Background()))
	fail.Store(true)
	require.Error(t, c.Regenerate(context.Background()))

	s, err := c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "First", s.Doc.Info.Title)
}

func TestCache_RegenerateCoalesces(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCache(func(context.Context) (*types.OpenAPI, error) {
		calls.Add(1)
		<-release
		return testDoc("API"), nil
	}, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Regenerate(context.Background()))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	_, err := c.Snapshot()
	assert.NoError(t, err)
}

func TestHandler_Documents(t *testing.T) {
	c := NewCache(func(context.Context) (*types.OpenAPI, error) {
		return testDoc("Todo <API>"), nil
	}, logging.Discard())
	require.NoError(t, c.Regenerate(context.Background()))
	h := c.Handler("/api/docs/")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, JSONPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, YAMLPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/docs/swagger", rec.Header().Get("Location"))
}

func TestHandler_Viewers(t *testing.T) {
	c := NewCache(func(context.Context) (*types.OpenAPI, error) {
		return testDoc("Todo <API>"), nil
	}, logging.Discard())
	require.NoError(t, c.Regenerate(context.Background()))
	h := c.Handler("/api/docs")

	tests := []struct {
		path string
		want string
	}{
		{path: SwaggerPath, want: "swagger-ui-bundle.js"},
		{path: RedocPath, want: "redoc.standalone.js"},
		{path: ScalarPath, want: "@scalar/api-reference"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			body := rec.Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, `"/api/docs/api.json"`)
			assert.Contains(t, body, "<title>Todo &lt;API&gt;</title>")
		})
	}
}

func TestViewers(t *testing.T) {
	v := Viewers("/api/docs/")
	assert.Equal(t, "/api/docs/swagger", v["swagger"])
	assert.Equal(t, "/api/docs/redoc", v["redoc"])
	assert.Equal(t, "/api/docs/scalar", v["scalar"])
	assert.Equal(t, "/api/docs/api.json", v["json"])
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "terry.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 1\n"), 0644))

	var calls atomic.Int32
	w, err := NewWatcher([]string{file}, 100*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, logging.Discard())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("port: 2\n"), 0644))
	}
	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_MissingPath(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing.yaml")}, time.Millisecond, func(context.Context) error {
		return nil
	}, logging.Discard())
	assert.Error(t, err)
}

func TestWatcher_IgnoresOwnOutput(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w, err := NewWatcher([]string{dir}, 50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, logging.Discard())
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Ignore(filepath.Join(dir, "openapi.yaml"), filepath.Join(dir, ".openapi.yaml.*")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".openapi.yaml.123"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.yaml"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "module.yaml"), []byte("x"), 0644))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
}
