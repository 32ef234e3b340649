// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package command

import (
	"context"
	"slices"
	"strings"
	"sync"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

// Console is an in-process Handler. Names and aliases are matched
// case-insensitively and must be unique across the console.
type Console struct {
	surface types.Surface

	mu    sync.RWMutex
	names map[string]pkgplugin.Command
	cmds  []pkgplugin.Command
}

// NewConsole creates an empty console for surface.
func NewConsole(surface types.Surface) *Console {
	return &Console{surface: surface, names: make(map[string]pkgplugin.Command)}
}

func (c *Console) Surface() types.Surface { return c.surface }

func keys(cmd pkgplugin.Command) []string {
	out := []string{strings.ToLower(cmd.Name())}
	for _, alias := range cmd.Aliases() {
		if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
			out = append(out, alias)
		}
	}
	return out
}

// RegisterCommand adds cmd under its name and aliases.
func (c *Console) RegisterCommand(cmd pkgplugin.Command) error {
	if cmd == nil || strings.TrimSpace(cmd.Name()) == "" || strings.ContainsAny(cmd.Name(), " \t") {
		return exilederr.New(exilederr.CodeCommandRegisterInvalid, "command name must be a single word",
			exilederr.Field("surface", string(c.surface)))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ks := keys(cmd)
	for _, k := range ks {
		if _, taken := c.names[k]; taken {
			return exilederr.New(exilederr.CodeCommandRegisterConflict, "command name already registered",
				exilederr.FieldCommand(k), exilederr.Field("surface", string(c.surface)))
		}
	}

	for _, k := range ks {
		c.names[k] = cmd
	}
	c.cmds = append(c.cmds, cmd)
	return nil
}

// UnregisterCommand removes cmd. It fails when cmd is not the instance
// registered under its name.
func (c *Console) UnregisterCommand(cmd pkgplugin.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.Index(c.cmds, cmd)
	if idx < 0 {
		return exilederr.New(exilederr.CodeCommandNotFound, "command not registered",
			exilederr.FieldCommand(cmd.Name()), exilederr.Field("surface", string(c.surface)))
	}

	for _, k := range keys(cmd) {
		if c.names[k] == cmd {
			delete(c.names, k)
		}
	}
	c.cmds = slices.Delete(c.cmds, idx, idx+1)
	return nil
}

// Lookup finds a command by name or alias.
func (c *Console) Lookup(name string) (pkgplugin.Command, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.names[strings.ToLower(name)]
	return cmd, ok
}

// Commands returns the registered commands sorted by name.
func (c *Console) Commands() []pkgplugin.Command {
	c.mu.RLock()
	out := slices.Clone(c.cmds)
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b pkgplugin.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// Execute runs a command line: the first word selects the command and the
// rest are its arguments.
func (c *Console) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", exilederr.New(exilederr.CodeCommandNotFound, "empty command line",
			exilederr.Field("surface", string(c.surface)))
	}

	cmd, ok := c.Lookup(fields[0])
	if !ok {
		return "", exilederr.New(exilederr.CodeCommandNotFound, "unknown command",
			exilederr.FieldCommand(fields[0]), exilederr.Field("surface", string(c.surface)))
	}

	out, err := cmd.Execute(ctx, fields[1:])
	if err != nil {
		return out, exilederr.Wrap(err, exilederr.CodeCommandExecuteFailure, "command failed",
			exilederr.FieldCommand(cmd.Name()))
	}
	return out, nil
}
