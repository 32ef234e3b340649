// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/exiled-team/exiled/internal/config"
	"github.com/exiled-team/exiled/internal/loader"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the host config and the initial configs document",
		Long: "Writes a commented host config if none exists, then loads the framework once " +
			"with no plugins so the configs document gains its exiled_loader section.",
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}

	fsys := afero.NewOsFs()
	written, err := config.Bootstrap(fsys, path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Created %s\n", path)
	} else {
		fmt.Fprintf(out, "Using existing %s\n", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	l, err := loader.New(loader.Options{
		Version:          version,
		Fs:               fsys,
		ConfigsPath:      cfg.ConfigsPath(),
		TranslationsPath: cfg.TranslationsPath(),
		PatchesDisabled:  true,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := l.Run(ctx); err != nil {
		return err
	}
	if err := l.Shutdown(ctx); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Configs document ready at %s\n", cfg.ConfigsPath())
	return err
}
