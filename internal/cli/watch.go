// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/internal/docs"
	"github.com/mahabubx7/terry/internal/openapi"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Regenerate the document file when the configuration changes",
	Long: `Watch the config file, plus any given paths, and rewrite the OpenAPI
document whenever they change. The document is written once on start.

Example:
  terry watch                          # Watch the config file
  terry watch -o docs/api.json         # Keep a JSON document up to date
  terry watch --debounce 1000          # Wait 1s after the last change`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}

	paths := args
	if cfg.File != "" {
		paths = append([]string{cfg.File}, paths...)
	}
	if len(paths) == 0 {
		return errors.New("nothing to watch: no config file found and no paths given")
	}

	path := outputPath()
	docFormat, err := outputFormat(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printInfo("Watching %d path(s), writing %s", len(paths), path)
	printInfo("Press Ctrl+C to stop")
	return watchDocument(ctx, cfg, paths, path, docFormat, newLogger(cfg))
}

// watchDocument writes the document to path and rewrites it after every
// change to paths until ctx is cancelled. The configuration is read again
// on each change when it came from a file.
func watchDocument(ctx context.Context, cfg *config.Config, paths []string, path string, docFormat openapi.Format, log *slog.Logger) error {
	writer := openapi.NewWriter()
	regenerate := func(ctx context.Context) error {
		current := cfg
		if cfg.File != "" {
			fresh, err := config.Load(cfg.File)
			if err == nil {
				err = fresh.Validate()
			}
			if err != nil {
				return fmt.Errorf("failed to reload config: %w", err)
			}
			current = fresh
		}

		doc, err := buildDocument(ctx, current, log)
		if err != nil {
			return err
		}
		if err := writer.WriteFile(doc, path, docFormat); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		log.InfoContext(ctx, "document written", slog.String("path", path), slog.Int("paths", len(doc.Paths)))
		return nil
	}

	if err := regenerate(ctx); err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond
	w, err := docs.NewWatcher(paths, debounce, regenerate, log)
	if err != nil {
		return err
	}
	defer w.Close()

	// The document itself may live in a watched directory.
	if err := w.Ignore(path, filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".*")); err != nil {
		return err
	}

	return w.Run(ctx)
}
