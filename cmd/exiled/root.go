// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/exiled-team/exiled/internal/config"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// NewRootCmd creates the root exiled command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "exiled",
		Short:         "Exiled plugin framework host",
		Long:          "Exiled loads game server plugins, their configs and translations, and the hooks they listen to.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to host config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")

	root.AddCommand(
		newVersionCmd(),
		newPrefixCmd(),
		newLintCmd(),
		newInitCmd(),
		newRunCmd(),
	)

	return root
}

// loadConfig loads the host config named by --config, falling back to
// defaults and EXILED_ environment variables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	config.WarnInsecurePermissions(path)
	return cfg, nil
}

// setupLogging installs the default slog handler and returns the level the
// loader adjusts at runtime.
func setupLogging(w io.Writer, cfg *config.Config) (*slog.LevelVar, slog.Level, error) {
	base, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, 0, exilederr.Wrap(err, exilederr.CodeCLISetupFailure, "configuring logging")
	}

	level := new(slog.LevelVar)
	level.Set(base)

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))

	return level, base, nil
}
