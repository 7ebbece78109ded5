// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Command terry runs the API server and manages its OpenAPI document.
package main

import (
	"fmt"
	"os"

	"github.com/mahabubx7/terry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
