// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package command places plugin commands on the host's console surfaces.
package command

import (
	"log/slog"
	"reflect"
	"slices"

	"github.com/exiled-team/exiled/internal/plugin"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

// Handler is one host console surface.
type Handler interface {
	RegisterCommand(cmd pkgplugin.Command) error
	UnregisterCommand(cmd pkgplugin.Command) error
}

// Registrar registers plugin commands on the surfaces the host provides.
type Registrar struct {
	handlers map[types.Surface]Handler
}

// NewRegistrar binds surfaces to handlers. Placements on a surface with no
// handler are skipped.
func NewRegistrar(handlers map[types.Surface]Handler) *Registrar {
	r := &Registrar{handlers: make(map[types.Surface]Handler, len(handlers))}
	for surface, h := range handlers {
		if h != nil {
			r.handlers[surface] = h
		}
	}
	return r
}

// Register places every command d's plugin provides. A command type already
// registered by d on a surface keeps its existing instance, so repeated
// calls never duplicate. Host rejections are logged and returned together
// after every placement has been tried.
func (r *Registrar) Register(d *plugin.Descriptor) error {
	provider, ok := d.Plugin.(pkgplugin.CommandProvider)
	if !ok {
		return nil
	}

	var errs []error
	for _, placement := range provider.Commands() {
		cmd := placement.Command
		if cmd == nil {
			continue
		}
		typ := reflect.TypeOf(cmd)

		for _, surface := range dedupe(placement.Surfaces) {
			if _, exists := d.Command(surface, typ); exists {
				continue
			}

			h, ok := r.handlers[surface]
			if !ok {
				slog.Debug("no handler for command surface",
					"plugin", d.Name(), "command", cmd.Name(), "surface", surface)
				continue
			}

			if err := h.RegisterCommand(cmd); err != nil {
				slog.Error("registering command failed",
					"plugin", d.Name(), "command", cmd.Name(), "surface", surface, "error", err)
				errs = append(errs, exilederr.With(err,
					exilederr.FieldPlugin(d.Name()), exilederr.FieldCommand(cmd.Name())))
				continue
			}

			d.StoreCommand(surface, cmd)
		}
	}

	return exilederr.Join(errs...)
}

// Unregister removes every command d placed on every surface and forgets
// them. Other plugins' commands are untouched.
func (r *Registrar) Unregister(d *plugin.Descriptor) error {
	var errs []error
	for surface, cmds := range d.Commands() {
		h, ok := r.handlers[surface]
		if !ok {
			continue
		}
		for _, cmd := range cmds {
			if err := h.UnregisterCommand(cmd); err != nil {
				slog.Warn("unregistering command failed",
					"plugin", d.Name(), "command", cmd.Name(), "surface", surface, "error", err)
				errs = append(errs, err)
			}
		}
	}

	d.ClearCommands()
	return exilederr.Join(errs...)
}

func dedupe(surfaces []types.Surface) []types.Surface {
	out := slices.Clone(surfaces)
	slices.Sort(out)
	return slices.Compact(out)
}
