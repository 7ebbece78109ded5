// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/openapi"
	"github.com/mahabubx7/terry/pkg/types"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the OpenAPI document to stdout",
	Long: `Print the OpenAPI document to standard output.

If a file is provided, that document is printed. Otherwise the document is
generated from the registered modules. The output is YAML unless --format
says otherwise.

Example:
  terry print                      # Generate and print
  terry print openapi.json         # Print an existing file as YAML
  terry print -f json              # Print in JSON format
  terry print -f json | jq .paths  # Pipe to jq for processing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	docFormat := openapi.FormatYAML
	if format != "" {
		f, err := openapi.ParseFormat(format)
		if err != nil {
			return err
		}
		docFormat = f
	}

	printVerbose("Print configuration:")
	printVerbose("  Format: %s", docFormat)

	var (
		doc *types.OpenAPI
		err error
	)
	if len(args) > 0 {
		doc, err = openapi.ReadFile(args[0])
	} else {
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		doc, err = buildDocument(cmd.Context(), cfg, newLogger(cfg))
	}
	if err != nil {
		return err
	}

	return openapi.NewWriter().Write(doc, docFormat, cmd.OutOrStdout())
}

func schemaCount(c *types.Components) int {
	if c == nil {
		return 0
	}
	return len(c.Schemas)
}
