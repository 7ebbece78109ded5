// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/app"
	"github.com/mahabubx7/terry/internal/router"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes the server mounts",
	Long: `List every route the server mounts, with its method, full path and
owning module. Modules that fail to load are skipped with a warning, as they
are by the server.

Example:
  terry routes
  terry routes -c production.yaml`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	reg, err := app.Registry(cfg, app.NewStores())
	if err != nil {
		return err
	}
	modules := reg.Load(cmd.Context(), log)

	mux, err := router.New(modules, router.WithLogger(log))
	if err != nil {
		return err
	}
	mounts, err := router.Routes(mux, modules)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tMODULE")
	for _, m := range mounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Method, cfg.APIPrefix+m.Path, m.Module)
	}
	return tw.Flush()
}
