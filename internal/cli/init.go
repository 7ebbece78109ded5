// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mahabubx7/terry/internal/config"
)

const defaultConfigFile = "terry.yaml"

var (
	initForce       bool
	initTitle       string
	initVersion     string
	initDescription string
	initEnv         string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a terry configuration file",
	Long: `Create a terry.yaml file in the current directory with every setting at
its default value.

The API title is inferred from the module path in go.mod when present.

Example:
  terry init                           # Write terry.yaml
  terry init --title "Orders API"      # Set the documentation title
  terry init --env production          # Start from production settings
  terry init --force                   # Overwrite an existing file`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().StringVar(&initTitle, "title", "", "API title for the documentation")
	initCmd.Flags().StringVar(&initVersion, "api-version", "", "API version for the documentation")
	initCmd.Flags().StringVar(&initDescription, "description", "", "API description for the documentation")
	initCmd.Flags().StringVar(&initEnv, "env", "", "environment: development, production, test")
}

func runInit(cmd *cobra.Command, _ []string) error {
	configFile := cfgFile
	if configFile == "" {
		configFile = defaultConfigFile
	}

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	cfg := config.Default()

	if title := moduleTitle("go.mod"); title != "" {
		printVerbose("Inferred title from go.mod: %s", title)
		cfg.OpenAPI.Info.Title = title
	}
	if initTitle != "" {
		cfg.OpenAPI.Info.Title = initTitle
	}
	if initVersion != "" {
		cfg.OpenAPI.Info.Version = initVersion
	}
	if initDescription != "" {
		cfg.OpenAPI.Info.Description = initDescription
	}
	if initEnv != "" {
		cfg.Env = initEnv
		if initEnv == config.EnvProduction {
			cfg.PrettyLogging = false
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := buildConfigYAML(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Title: %s", cfg.OpenAPI.Info.Title)
	printVerbose("Environment: %s", cfg.Env)
	return nil
}

// moduleTitle turns the last element of the go.mod module path into a
// title, e.g. "github.com/acme/order-service" -> "Order Service API".
func moduleTitle(goMod string) string {
	file, err := os.Open(goMod)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mod := strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module ")), `"`)
		name := strings.NewReplacer("-", " ", "_", " ").Replace(path.Base(mod))
		if strings.TrimSpace(name) == "" || name == "." {
			return ""
		}
		return cases.Title(language.English).String(name) + " API"
	}
	return ""
}

func buildConfigYAML(cfg *config.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	header := `# terry configuration file
# Every key can be overridden by the matching environment variable,
# e.g. PORT, NODE_ENV, API_PREFIX, LOG_LEVEL.

`
	return append([]byte(header), data...), nil
}
