// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/app"
	"github.com/mahabubx7/terry/internal/server"
)

var (
	servePort int
	serveEnv  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the API server with every registered module mounted under the API
prefix and, when enabled, the documentation under {prefix}/docs.

The server shuts down gracefully on SIGINT or SIGTERM. In development, or
when watch.enabled is set, the documentation is regenerated whenever the
config file changes.

Example:
  terry serve                          # Serve on the configured port
  terry serve --port 8080              # Override the port
  terry serve --env production         # Hide stacks from error responses`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default: PORT or 3456)")
	serveCmd.Flags().StringVar(&serveEnv, "env", "", "environment: development, production, test")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveEnv != "" {
		cfg.Env = serveEnv
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := app.Registry(cfg, app.NewStores())
	if err != nil {
		return err
	}

	srv, err := server.New(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
