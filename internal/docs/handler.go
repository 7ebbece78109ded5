// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package docs

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mahabubx7/terry/internal/route"
)

// Paths of the documentation endpoints relative to the docs mount point.
const (
	JSONPath    = "/api.json"
	YAMLPath    = "/api.yaml"
	SwaggerPath = "/swagger"
	RedocPath   = "/redoc"
	ScalarPath  = "/scalar"
)

// Handler returns the documentation endpoints. basePath is the absolute
// path the handler is mounted at, e.g. "/api/docs"; the viewers load the
// JSON document from basePath + JSONPath.
func (c *Cache) Handler(basePath string) http.Handler {
	basePath = strings.TrimRight(basePath, "/")
	specURL := basePath + JSONPath

	r := chi.NewRouter()
	r.Get(JSONPath, c.serveEncoded("application/json; charset=utf-8", func(s *Snapshot) []byte { return s.JSON }))
	r.Get(YAMLPath, c.serveEncoded("application/yaml; charset=utf-8", func(s *Snapshot) []byte { return s.YAML }))
	r.Get(SwaggerPath, c.servePage(func(title string) string { return swaggerUIPage(title, specURL) }))
	r.Get(RedocPath, c.servePage(func(title string) string { return redocPage(title, specURL) }))
	r.Get(ScalarPath, c.servePage(func(title string) string { return scalarPage(title, specURL) }))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, basePath+SwaggerPath, http.StatusFound)
	})
	return r
}

func (c *Cache) serveEncoded(contentType string, pick func(*Snapshot) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s, err := c.Snapshot()
		if err != nil {
			unavailable(w)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Last-Modified", s.Generated.UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pick(s))
	}
}

func (c *Cache) servePage(render func(title string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s, err := c.Snapshot()
		if err != nil {
			unavailable(w)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(render(s.Doc.Info.Title)))
	}
}

func unavailable(w http.ResponseWriter) {
	_ = route.WriteJSON(w, http.StatusServiceUnavailable, route.ErrorBody{Message: "Documentation unavailable"})
}

// Viewers returns the viewer URLs for a docs mount point, keyed by name.
func Viewers(basePath string) map[string]string {
	basePath = strings.TrimRight(basePath, "/")
	return map[string]string{
		"swagger": basePath + SwaggerPath,
		"redoc":   basePath + RedocPath,
		"scalar":  basePath + ScalarPath,
		"json":    basePath + JSONPath,
		"yaml":    basePath + YAMLPath,
	}
}

func swaggerUIPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui", deepLinking: true, persistAuthorization: true, docExpansion: "list", filter: true});
</script>
</body>
</html>`, html.EscapeString(title), specURL)
}

func redocPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>body { margin: 0; padding: 0; }</style>
</head>
<body>
<redoc spec-url=%q hide-download-button="false" expand-responses="200"></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specURL)
}

func scalarPage(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<script id="api-reference" data-url=%q></script>
<script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`, html.EscapeString(title), specURL)
}
