// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for terry.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes returned by the binary.
const (
	ExitCodeOK         = 0 // Success, or document in sync
	ExitCodeDifference = 1 // Document differs from the modules
	ExitCodeError      = 2 // Error while loading or generating
)

// ErrDrift is returned when a document differs from what the modules produce.
var ErrDrift = errors.New("document is out of date")

// Global flags
var (
	cfgFile string
	output  string
	format  string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "terry",
	Short: "Schema-driven REST API server with generated documentation",
	Long: `terry serves REST modules described by declarative routes and schemas.
Every request and response is validated against the route schemas, and the
same declarations produce the OpenAPI document served next to the API.

Example:
  terry init                           # Write a terry.yaml with defaults
  terry serve                          # Run the API server
  terry generate -o openapi.yaml       # Write the OpenAPI document
  terry check openapi.yaml             # Fail when the document is out of date
  terry routes                         # List the mounted routes`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeOK
	case errors.Is(err, ErrDrift):
		return ExitCodeDifference
	default:
		return ExitCodeError
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: terry.yaml, terry.json or .terry.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file path (default: openapi.yaml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: yaml, json (default: from the file extension)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(watchCmd)
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(rootCmd.OutOrStdout(), format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(rootCmd.OutOrStdout(), format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...any) {
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: "+format+"\n", args...)
}
