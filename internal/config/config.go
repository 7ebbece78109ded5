// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for terry.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config represents the terry configuration. Top level keys map one to one
// onto environment variables (PORT, NODE_ENV, API_PREFIX, ...).
type Config struct {
	// Port is the TCP port the HTTP server listens on
	Port int `mapstructure:"port" yaml:"port" json:"port"`

	// Env is the environment name (development, production, test)
	Env string `mapstructure:"node_env" yaml:"node_env" json:"node_env"`

	// APIPrefix is the path prefix every module and the docs are mounted under
	APIPrefix string `mapstructure:"api_prefix" yaml:"api_prefix" json:"api_prefix"`

	// DocsEnabled toggles the documentation endpoints
	DocsEnabled bool `mapstructure:"docs_enabled" yaml:"docs_enabled" json:"docs_enabled"`

	// CORSOrigin is the allowed CORS origin, "*" for any
	CORSOrigin string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`

	// RateLimitWindow is the rate limit window in minutes. Declared only.
	RateLimitWindow int `mapstructure:"rate_limit_window" yaml:"rate_limit_window" json:"rate_limit_window"`

	// RateLimitMax is the number of requests allowed per window. Declared only.
	RateLimitMax int `mapstructure:"rate_limit_max" yaml:"rate_limit_max" json:"rate_limit_max"`

	// LogLevel is the minimum log level (fatal, error, warn, info, debug, trace)
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// PrettyLogging switches from JSON logs to human readable text logs
	PrettyLogging bool `mapstructure:"pretty_logging" yaml:"pretty_logging" json:"pretty_logging"`

	// AppVersion is reported by the health module
	AppVersion string `mapstructure:"app_version" yaml:"app_version" json:"app_version"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// OpenAPI contains document metadata
	OpenAPI OpenAPIConfig `mapstructure:"openapi" yaml:"openapi" json:"openapi"`

	// Modules selects which registered modules are served and documented
	Modules ModulesConfig `mapstructure:"modules" yaml:"modules" json:"modules"`

	// Watch contains documentation hot reload configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`

	// File is the config file the values were read from, empty when none
	File string `mapstructure:"-" yaml:"-" json:"-"`
}

// OpenAPIConfig contains OpenAPI document configuration.
type OpenAPIConfig struct {
	// Info contains API metadata
	Info InfoConfig `mapstructure:"info" yaml:"info" json:"info"`

	// ServerDescription describes the API server entry
	ServerDescription string `mapstructure:"serverDescription" yaml:"serverDescription" json:"serverDescription"`
}

// InfoConfig contains API metadata.
type InfoConfig struct {
	Title       string        `mapstructure:"title" yaml:"title" json:"title"`
	Description string        `mapstructure:"description" yaml:"description" json:"description"`
	Version     string        `mapstructure:"version" yaml:"version" json:"version"`
	Contact     ContactConfig `mapstructure:"contact" yaml:"contact" json:"contact"`
}

// ContactConfig contains contact information.
type ContactConfig struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	URL   string `mapstructure:"url" yaml:"url" json:"url"`
	Email string `mapstructure:"email" yaml:"email" json:"email"`
}

// ModulesConfig filters registered modules by name.
type ModulesConfig struct {
	// Include lists doublestar patterns of modules to serve, empty means all
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude lists doublestar patterns of modules to leave out
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// WatchConfig contains documentation hot reload configuration.
type WatchConfig struct {
	// Enabled forces hot reload on; it is always on in development
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"terry.yaml",
	"terry.json",
	".terry.yaml",
	".terry.json",
}

var supportedEnvs = []string{EnvDevelopment, EnvProduction, EnvTest}

var supportedLogLevels = []string{"fatal", "error", "warn", "info", "debug", "trace"}

// ErrConfigNotFound is returned when an explicit config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Port:            3456,
		Env:             EnvDevelopment,
		APIPrefix:       "/api",
		DocsEnabled:     true,
		CORSOrigin:      "*",
		RateLimitWindow: 15,
		RateLimitMax:    100,
		LogLevel:        "info",
		PrettyLogging:   true,
		AppVersion:      "1.0.0",
		ShutdownTimeout: 10 * time.Second,
		OpenAPI: OpenAPIConfig{
			Info: InfoConfig{
				Title:       "API Reference",
				Description: "API documentation with OpenAPI specification",
				Version:     "v1",
				Contact: ContactConfig{
					Name:  "API Support",
					Email: "support@example.com",
				},
			},
			ServerDescription: "API Server",
		},
		Modules: ModulesConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 500,
		},
	}
}

// Load loads the configuration from defaults, an optional config file and
// the environment, in increasing order of precedence.
// When configPath is empty it searches the working directory for:
// 1. terry.yaml
// 2. terry.json
// 3. .terry.yaml
// 4. .terry.json
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile(".")
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)

	return &cfg, nil
}

// LoadFromPath loads the configuration using the first config file found in dir.
func LoadFromPath(dir string) (*Config, error) {
	return Load(findConfigFile(dir))
}

func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("node_env", d.Env)
	v.SetDefault("api_prefix", d.APIPrefix)
	v.SetDefault("docs_enabled", d.DocsEnabled)
	v.SetDefault("cors_origin", d.CORSOrigin)
	v.SetDefault("rate_limit_window", d.RateLimitWindow)
	v.SetDefault("rate_limit_max", d.RateLimitMax)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("pretty_logging", d.PrettyLogging)
	v.SetDefault("app_version", d.AppVersion)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout)
	v.SetDefault("openapi.info.title", d.OpenAPI.Info.Title)
	v.SetDefault("openapi.info.description", d.OpenAPI.Info.Description)
	v.SetDefault("openapi.info.version", d.OpenAPI.Info.Version)
	v.SetDefault("openapi.info.contact.name", d.OpenAPI.Info.Contact.Name)
	v.SetDefault("openapi.info.contact.url", d.OpenAPI.Info.Contact.URL)
	v.SetDefault("openapi.info.contact.email", d.OpenAPI.Info.Contact.Email)
	v.SetDefault("openapi.serverDescription", d.OpenAPI.ServerDescription)
	v.SetDefault("modules.include", d.Modules.Include)
	v.SetDefault("modules.exclude", d.Modules.Exclude)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// normalizePrefix makes the prefix absolute without a trailing slash.
// The root prefix normalizes to "".
func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "port",
			Message: fmt.Sprintf("port %d out of range 1-65535", c.Port),
		})
	}

	if !slices.Contains(supportedEnvs, c.Env) {
		errs = append(errs, ValidationError{
			Field:   "node_env",
			Message: fmt.Sprintf("unsupported environment %q, must be one of: %s", c.Env, strings.Join(supportedEnvs, ", ")),
		})
	}

	if !slices.Contains(supportedLogLevels, c.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unsupported log level %q, must be one of: %s", c.LogLevel, strings.Join(supportedLogLevels, ", ")),
		})
	}

	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		errs = append(errs, ValidationError{
			Field:   "api_prefix",
			Message: "prefix must start with /",
		})
	}

	if c.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{
			Field:   "rate_limit_window",
			Message: "window must be positive",
		})
	}

	if c.RateLimitMax <= 0 {
		errs = append(errs, ValidationError{
			Field:   "rate_limit_max",
			Message: "max must be positive",
		})
	}

	if c.ShutdownTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "shutdown_timeout",
			Message: "timeout must be non-negative",
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.OpenAPI.Info.Title == "" {
		errs = append(errs, ValidationError{
			Field:   "openapi.info.title",
			Message: "title is required",
		})
	}

	if c.OpenAPI.Info.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "openapi.info.version",
			Message: "version is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// IsDevelopment reports whether the service runs in development.
func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Addr returns the listen address.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// HotReload reports whether documentation should be regenerated when the
// config file changes.
func (c *Config) HotReload() bool { return c.IsDevelopment() || c.Watch.Enabled }
