// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/openapi"
)

var (
	generateDryRun  bool
	generateInclude []string
	generateExclude []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the OpenAPI document to a file",
	Long: `Generate the OpenAPI document from the registered modules and write it
to a file. The format follows --format or the file extension.

A module whose documentation cannot be generated is skipped with a warning.
The command fails only when the document as a whole cannot be assembled or
does not validate.

Example:
  terry generate                           # Write openapi.yaml
  terry generate -o docs/api.json          # Write JSON
  terry generate --include 'user*'         # Only modules matching a pattern
  terry generate --dry-run                 # Print instead of writing`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print the document instead of writing it")
	generateCmd.Flags().StringSliceVarP(&generateInclude, "include", "i", nil, "module name patterns to include")
	generateCmd.Flags().StringSliceVarP(&generateExclude, "exclude", "e", nil, "module name patterns to exclude")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if len(generateInclude) > 0 {
		cfg.Modules.Include = generateInclude
	}
	if len(generateExclude) > 0 {
		cfg.Modules.Exclude = generateExclude
	}

	path := outputPath()
	docFormat, err := outputFormat(path)
	if err != nil {
		return err
	}

	printVerbose("Configuration:")
	printVerbose("  Output: %s", path)
	printVerbose("  Format: %s", docFormat)

	doc, err := buildDocument(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	writer := openapi.NewWriter()
	if generateDryRun {
		printVerbose("Dry run mode - no files will be written")
		return writer.Write(doc, docFormat, cmd.OutOrStdout())
	}

	if err := writer.WriteFile(doc, path, docFormat); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	printInfo("Wrote %d paths and %d schemas to %s", len(doc.Paths), schemaCount(doc.Components), path)
	return nil
}
