// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"github.com/spf13/cobra"

	"github.com/mahabubx7/terry/internal/openapi"
	"github.com/mahabubx7/terry/pkg/types"
)

var diffBreaking bool

var diffCmd = &cobra.Command{
	Use:   "diff <old> [new]",
	Short: "Compare two OpenAPI documents",
	Long: `Compare two OpenAPI documents and show the added, removed and modified
operations and schemas.

If only one file is provided, it is compared against the document the
registered modules produce now.

Example:
  terry diff old.yaml new.yaml            # Compare two files
  terry diff openapi.yaml                 # Compare a file with the modules
  terry diff --breaking old.json new.json # Exit 1 on removals`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffBreaking, "breaking", false, "exit with status 1 when breaking changes are found")
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldDoc, err := openapi.ReadFile(args[0])
	if err != nil {
		return err
	}

	var newDoc *types.OpenAPI
	if len(args) == 2 {
		printVerbose("Comparing %s against %s", args[0], args[1])
		newDoc, err = openapi.ReadFile(args[1])
	} else {
		printVerbose("Comparing %s against the registered modules", args[0])
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		newDoc, err = buildDocument(cmd.Context(), cfg, newLogger(cfg))
	}
	if err != nil {
		return err
	}

	result := openapi.Diff(oldDoc, newDoc)
	cmd.Print(openapi.FormatDiff(result))
	if !result.IsEmpty() {
		cmd.Println()
	}

	if diffBreaking && result.HasBreakingChanges {
		return ErrDrift
	}
	return nil
}
