// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mahabubx7/terry/internal/app"
	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/internal/logging"
	"github.com/mahabubx7/terry/internal/openapi"
	"github.com/mahabubx7/terry/pkg/types"
)

const defaultOutput = "openapi.yaml"

// loadConfig loads and validates the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.File != "" {
		printVerbose("Using config file: %s", cfg.File)
	}
	return cfg, nil
}

// newLogger returns the logger for commands. Logs go to stderr so that
// documents printed to stdout stay clean.
func newLogger(cfg *config.Config) *slog.Logger {
	if quiet {
		return logging.Discard()
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.New(rootCmd.ErrOrStderr(), logging.Options{
		Level:  level,
		Pretty: cfg.PrettyLogging,
		Env:    cfg.Env,
	})
}

// buildDocument generates the document for the configured modules.
func buildDocument(ctx context.Context, cfg *config.Config, log *slog.Logger) (*types.OpenAPI, error) {
	reg, err := app.Registry(cfg, app.NewStores())
	if err != nil {
		return nil, err
	}

	modules := reg.Load(ctx, log)
	printVerbose("Loaded %d of %d modules", len(modules), reg.Count())

	gen := openapi.NewGenerator(cfg, openapi.WithLogger(log))
	doc, err := gen.Generate(ctx, modules)
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}
	return doc, nil
}

// outputPath returns --output or the default document path.
func outputPath() string {
	if output != "" {
		return output
	}
	return defaultOutput
}

// outputFormat returns --format, or the format implied by path.
func outputFormat(path string) (openapi.Format, error) {
	if format != "" {
		return openapi.ParseFormat(format)
	}
	return openapi.FormatFromPath(path), nil
}
