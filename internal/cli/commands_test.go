// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/internal/logging"
	"github.com/mahabubx7/terry/internal/openapi"
)

// inTempDir runs the test from an empty directory so no config file is found.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func TestGenerateCommand(t *testing.T) {
	dir := inTempDir(t)
	out := filepath.Join(dir, "docs", "api.json")

	output, err := executeCommand(rootCmd, "generate", "-o", out)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Wrote 5 paths")

	doc, err := openapi.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, doc.Paths, "/v1/todos/{id}")
	assert.NoError(t, openapi.Validate(context.Background(), doc))
}

func TestGenerateCommand_Selection(t *testing.T) {
	dir := inTempDir(t)
	out := filepath.Join(dir, "openapi.yaml")

	_, err := executeCommand(rootCmd, "generate", "-q", "-o", out, "--exclude", "health", "--exclude", "users")
	require.NoError(t, err)

	doc, err := openapi.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, doc.Paths, "/v1/health")
	assert.NotContains(t, doc.Paths, "/v1/users")
	assert.Contains(t, doc.Paths, "/v1/todos")
}

func TestGenerateCommand_DryRun(t *testing.T) {
	dir := inTempDir(t)

	output, err := executeCommand(rootCmd, "generate", "-q", "--dry-run", "-f", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &doc), output)
	assert.Equal(t, "3.0.3", doc["openapi"])

	_, err = os.Stat(filepath.Join(dir, "openapi.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCommand_InvalidFormat(t *testing.T) {
	inTempDir(t)

	_, err := executeCommand(rootCmd, "generate", "-q", "-f", "xml")
	assert.Error(t, err)
}

func TestGenerateCommand_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terry.yaml"), []byte("openapi:\n  info:\n    title: Configured\n"), 0644))

	output, err := executeCommand(rootCmd, "print", "-q", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, output, `"title": "Configured"`)
}

func TestPrintCommand_ExistingFile(t *testing.T) {
	dir := inTempDir(t)
	out := filepath.Join(dir, "openapi.json")
	_, err := executeCommand(rootCmd, "generate", "-q", "-o", out)
	require.NoError(t, err)

	output, err := executeCommand(rootCmd, "print", "-q", out)
	require.NoError(t, err)
	assert.Contains(t, output, "openapi: 3.0.3")
	assert.Contains(t, output, "/v1/users/{id}")

	_, err = executeCommand(rootCmd, "print", "-q", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := inTempDir(t)
	out := filepath.Join(dir, "openapi.json")

	output, err := executeCommand(rootCmd, "check", out)
	assert.ErrorIs(t, err, ErrDrift)
	assert.Contains(t, output, "Document not found")

	_, err = executeCommand(rootCmd, "generate", "-q", "-o", out)
	require.NoError(t, err)

	output, err = executeCommand(rootCmd, "check", out)
	require.NoError(t, err)
	assert.Contains(t, output, "in sync")

	doc, err := openapi.ReadFile(out)
	require.NoError(t, err)
	delete(doc.Paths, "/v1/health")
	delete(doc.Components.Schemas, "HealthCheckResponse")
	require.NoError(t, openapi.NewWriter().WriteFile(doc, out, ""))

	output, err = executeCommand(rootCmd, "check", out)
	assert.ErrorIs(t, err, ErrDrift)
	assert.Contains(t, output, "+ GET /v1/health")
	assert.Equal(t, ExitCodeDifference, ExitCode(err))

	_, err = executeCommand(rootCmd, "check", out, "--ignore", "/v1/health", "--ignore", "Health*")
	assert.NoError(t, err)
}

func TestDiffCommand(t *testing.T) {
	dir := inTempDir(t)
	oldFile := filepath.Join(dir, "old.json")
	newFile := filepath.Join(dir, "new.json")

	_, err := executeCommand(rootCmd, "generate", "-q", "-o", newFile)
	require.NoError(t, err)
	_, err = executeCommand(rootCmd, "generate", "-q", "-o", oldFile, "--exclude", "todos")
	require.NoError(t, err)

	output, err := executeCommand(rootCmd, "diff", oldFile, newFile)
	require.NoError(t, err)
	assert.Contains(t, output, "+ POST /v1/todos")
	assert.NotContains(t, output, "BREAKING")

	output, err = executeCommand(rootCmd, "diff", "--breaking", newFile, oldFile)
	assert.ErrorIs(t, err, ErrDrift)
	assert.Contains(t, output, "- DELETE /v1/todos/{id}")
	assert.Contains(t, output, "BREAKING")

	_, err = executeCommand(rootCmd, "diff", filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	assert.Error(t, err)
}

func TestRoutesCommand(t *testing.T) {
	inTempDir(t)

	output, err := executeCommand(rootCmd, "routes", "-q")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, []string{"METHOD", "PATH", "MODULE"}, strings.Fields(lines[0]))

	var rows [][]string
	for _, line := range lines[1:] {
		rows = append(rows, strings.Fields(line))
	}
	assert.Contains(t, rows, []string{"GET", "/api/v1/health/", "health"})
	assert.Contains(t, rows, []string{"DELETE", "/api/v1/users/{id}", "users"})
	assert.Len(t, rows, 11)
}

func TestWatchCommand_NothingToWatch(t *testing.T) {
	inTempDir(t)

	_, err := executeCommand(rootCmd, "watch", "-q")
	assert.ErrorContains(t, err, "nothing to watch")
}

func TestWatchDocument(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "terry.yaml")
	out := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("openapi:\n  info:\n    title: First\n"), 0644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Watch.Debounce = 50

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchDocument(ctx, cfg, []string{cfgPath}, out, openapi.FormatYAML, logging.Discard())
	}()

	title := func() string {
		doc, err := openapi.ReadFile(out)
		if err != nil {
			return ""
		}
		return doc.Info.Title
	}
	require.Eventually(t, func() bool { return title() == "First" }, 2*time.Second, 20*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(cfgPath, []byte("openapi:\n  info:\n    title: Second\n"), 0644))
	require.Eventually(t, func() bool { return title() == "Second" }, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestApplyIgnorePatterns(t *testing.T) {
	result := &openapi.DiffResult{
		PathChanges: []openapi.PathChange{
			{Type: openapi.DiffTypeAdded, Path: "/v1/users", Method: "GET"},
			{Type: openapi.DiffTypeRemoved, Path: "/v1/todos/{id}", Method: "DELETE"},
		},
		SchemaChanges: []openapi.SchemaChange{
			{Type: openapi.DiffTypeRemoved, Name: "TodoList"},
			{Type: openapi.DiffTypeAdded, Name: "User"},
		},
		HasBreakingChanges: true,
	}

	tests := []struct {
		name             string
		patterns         []string
		expectedPaths    int
		expectedSchemas  int
		expectedBreaking bool
	}{
		{name: "no patterns", expectedPaths: 2, expectedSchemas: 2, expectedBreaking: true},
		{name: "exact path", patterns: []string{"/v1/users"}, expectedPaths: 1, expectedSchemas: 2, expectedBreaking: true},
		{name: "glob removes breaking", patterns: []string{"/v1/todos/**", "Todo*"}, expectedPaths: 1, expectedSchemas: 1, expectedBreaking: false},
		{name: "everything", patterns: []string{"/v1/**", "*"}, expectedPaths: 0, expectedSchemas: 0, expectedBreaking: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := applyIgnorePatterns(result, tt.patterns)
			assert.Len(t, filtered.PathChanges, tt.expectedPaths)
			assert.Len(t, filtered.SchemaChanges, tt.expectedSchemas)
			assert.Equal(t, tt.expectedBreaking, filtered.HasBreakingChanges)
		})
	}

	assert.Equal(t, "No changes detected", applyIgnorePatterns(result, []string{"/v1/**", "*"}).Summary)
}

func TestInitCommand(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module github.com/acme/order-service\n\ngo 1.25\n"), 0o644))

	output, err := executeCommand(rootCmd, "init")
	require.NoError(t, err, output)
	assert.Contains(t, output, "Created terry.yaml")

	cfg, err := config.Load(filepath.Join(dir, "terry.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Order Service API", cfg.OpenAPI.Info.Title)
	assert.Equal(t, config.Default().Port, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	_, err = executeCommand(rootCmd, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_Flags(t *testing.T) {
	dir := inTempDir(t)

	output, err := executeCommand(rootCmd, "init", "--title", "Orders", "--env", "production", "--api-version", "v2")
	require.NoError(t, err, output)

	cfg, err := config.Load(filepath.Join(dir, "terry.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Orders", cfg.OpenAPI.Info.Title)
	assert.Equal(t, "v2", cfg.OpenAPI.Info.Version)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.PrettyLogging)

	_, err = executeCommand(rootCmd, "init", "--env", "staging", "--force")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestModuleTitle(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"kebab", "module github.com/acme/order-service\n", "Order Service API"},
		{"snake", "module example.com/pet_store\n", "Pet Store API"},
		{"quoted", "module \"example.com/shop\"\n", "Shop API"},
		{"no module line", "go 1.25\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".mod")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			assert.Equal(t, tt.want, moduleTitle(path))
		})
	}

	assert.Empty(t, moduleTitle(filepath.Join(dir, "missing.mod")))
}
