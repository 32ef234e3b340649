// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/exiled-team/exiled/internal/command"
	"github.com/exiled-team/exiled/internal/config"
	"github.com/exiled-team/exiled/internal/loader"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
	"github.com/exiled-team/exiled/pkg/types"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the framework with an interactive console on stdin",
		Long: "Loads the framework with in-process console surfaces and executes each line " +
			"read from stdin as a command on the selected surface until EOF or interrupt.",
		RunE: runRun,
	}
	cmd.Flags().String("surface", string(types.SurfaceRemoteAdmin), "console surface stdin commands run on")
	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	surfaceName, _ := cmd.Flags().GetString("surface")
	surface, err := types.ParseSurface(surfaceName)
	if err != nil {
		return exilederr.Wrap(err, exilederr.CodeCLIInputInvalid, "parsing --surface")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, base, err := setupLogging(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	handlers := make(map[types.Surface]command.Handler)
	consoles := make(map[types.Surface]*command.Console)
	for _, s := range types.Surfaces() {
		c := command.NewConsole(s)
		handlers[s] = c
		consoles[s] = c
	}

	l, err := loader.New(loader.Options{
		Version:          version,
		Handlers:         handlers,
		Fs:               afero.NewOsFs(),
		ConfigsPath:      cfg.ConfigsPath(),
		TranslationsPath: cfg.TranslationsPath(),
		Watch:            cfg.Watch.Enabled,
		Debounce:         cfg.Watch.Debounce,
		PatchesDisabled:  cfg.Patches.Disabled,
		Level:            level,
		BaseLevel:        base,
	})
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx); err != nil {
		return err
	}
	config.WarnInsecurePermissions(cfg.ConfigsPath())
	config.WarnInsecurePermissions(cfg.TranslationsPath())

	serveConsole(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), consoles[surface])

	return l.Shutdown(context.Background())
}

// serveConsole executes stdin lines on c until EOF or ctx is done.
func serveConsole(ctx context.Context, in io.Reader, out io.Writer, c *command.Console) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for ctx.Err() == nil {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			res, err := c.Execute(ctx, line)
			if res != "" {
				fmt.Fprintln(out, res)
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}
