// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Config is the host-side framework configuration. Plugin settings live in
// the configs document, not here.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Patches PatchesConfig `mapstructure:"patches"`
}

// ServerConfig identifies the game server instance.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// PathsConfig locates the framework directory and its documents. Empty
// document paths are derived from Root and the server port.
type PathsConfig struct {
	Root         string `mapstructure:"root"`
	Configs      string `mapstructure:"configs"`
	Translations string `mapstructure:"translations"`
}

// WatchConfig controls reloading documents when they change on disk.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig sets the base log level. The loader section's debug flag
// can lower it at runtime.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PatchesConfig is the host-side kill switch for every interception.
type PatchesConfig struct {
	Disabled bool `mapstructure:"disabled"`
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix EXILED_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 7777)
	v.SetDefault("paths.root", "EXILED")
	v.SetDefault("paths.configs", "")
	v.SetDefault("paths.translations", "")
	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("patches.disabled", false)

	// Environment
	v.SetEnvPrefix("EXILED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, exilederr.Errorf(exilederr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, exilederr.Errorf(exilederr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validatePaths()...)
	errs = append(errs, c.validateWatch()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateServer() []error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return []error{exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"config: server.port must be between 1 and 65535, got %d", c.Server.Port)}
	}
	return nil
}

func (c *Config) validatePaths() []error {
	var errs []error

	if strings.TrimSpace(c.Paths.Root) == "" {
		errs = append(errs, exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"config: paths.root must not be empty"))
	}

	if c.Paths.Configs != "" && c.Paths.Configs == c.Paths.Translations {
		errs = append(errs, exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"config: paths.configs and paths.translations must differ, both are %q", c.Paths.Configs))
	}

	return errs
}

func (c *Config) validateWatch() []error {
	if c.Watch.Debounce < 0 {
		return []error{exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"config: watch.debounce must not be negative, got %s", c.Watch.Debounce)}
	}
	return nil
}

func (c *Config) validateLogging() []error {
	var errs []error

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"config: logging.format must be one of [text, json], got %q", c.Logging.Format))
	}

	return errs
}

// ConfigsPath returns the configs document path.
func (c *Config) ConfigsPath() string {
	if c.Paths.Configs != "" {
		return c.Paths.Configs
	}
	return filepath.Join(c.Paths.Root, "Configs", fmt.Sprintf("%d-config.yml", c.Server.Port))
}

// TranslationsPath returns the translations document path.
func (c *Config) TranslationsPath() string {
	if c.Paths.Translations != "" {
		return c.Paths.Translations
	}
	return filepath.Join(c.Paths.Root, "Configs", fmt.Sprintf("%d-translations.yml", c.Server.Port))
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"config: logging.level must be one of [debug, info, warn, error], got %q", name)
	}
}
