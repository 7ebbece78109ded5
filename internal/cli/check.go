// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/openapi"
)

var checkIgnore []string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check that a document matches the registered modules",
	Long: `Check compares an existing OpenAPI document with the document the
registered modules produce now. It is meant for CI pipelines, to make sure
the committed document is kept up to date.

Exit codes:
  0  Document is in sync
  1  Document differs
  2  Error while loading or generating

Example:
  terry check                          # Check openapi.yaml
  terry check docs/api.json            # Check a specific file
  terry check --ignore '/v1/health*'   # Ignore matching paths or schemas`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "path or schema name patterns to ignore")
}

func runCheck(cmd *cobra.Command, args []string) error {
	file := outputPath()
	if len(args) > 0 {
		file = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printVerbose("Check configuration:")
	printVerbose("  Document: %s", file)
	for _, p := range checkIgnore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
		printVerbose("  Ignoring: %s", p)
	}

	existing, err := openapi.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		printError("Document not found: %s", file)
		printInfo("Run 'terry generate -o %s' first to create it", file)
		return fmt.Errorf("%w: %s does not exist", ErrDrift, file)
	}
	if err != nil {
		return err
	}

	fresh, err := buildDocument(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	result := applyIgnorePatterns(openapi.Diff(existing, fresh), checkIgnore)
	if result.IsEmpty() {
		printInfo("Document is in sync with the registered modules")
		return nil
	}

	printInfo("Document differs from the registered modules:\n")
	printInfo("%s", openapi.FormatDiff(result))
	if result.HasBreakingChanges {
		printError("Breaking changes detected!")
	}
	printInfo("Run 'terry generate -o %s' to update the document", file)

	return ErrDrift
}

// applyIgnorePatterns filters out changes whose path or schema name matches
// one of the patterns.
func applyIgnorePatterns(result *openapi.DiffResult, patterns []string) *openapi.DiffResult {
	if len(patterns) == 0 {
		return result
	}

	filtered := &openapi.DiffResult{}
	for _, change := range result.PathChanges {
		if !matchesAnyPattern(change.Path, patterns) {
			filtered.PathChanges = append(filtered.PathChanges, change)
			filtered.HasBreakingChanges = filtered.HasBreakingChanges || change.Type == openapi.DiffTypeRemoved
		}
	}
	for _, change := range result.SchemaChanges {
		if !matchesAnyPattern(change.Name, patterns) {
			filtered.SchemaChanges = append(filtered.SchemaChanges, change)
			filtered.HasBreakingChanges = filtered.HasBreakingChanges || change.Type == openapi.DiffTypeRemoved
		}
	}
	filtered.Summary = openapi.Summarize(filtered)
	return filtered
}

func matchesAnyPattern(s string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, s); ok {
			return true
		}
	}
	return false
}
