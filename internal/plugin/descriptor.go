// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package plugin

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/iancoleman/strcase"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

// Prefix derives the configuration key for a plugin name.
func Prefix(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}

// Descriptor is the registry's record of one loaded plugin.
type Descriptor struct {
	*Instance

	Plugin   pkgplugin.Plugin
	Meta     pkgplugin.Metadata
	prefix   string
	version  *semver.Version
	required *semver.Version
	order    int

	config       *Section
	translations *Section

	cmdMu    sync.Mutex
	commands map[types.Surface]map[reflect.Type]pkgplugin.Command
}

// NewDescriptor validates p and snapshots its config and translations.
func NewDescriptor(p pkgplugin.Plugin) (*Descriptor, error) {
	meta := p.Metadata()
	if err := meta.Validate(); err != nil {
		return nil, exilederr.Wrap(err, exilederr.CodePluginRegistryInvalid,
			"invalid plugin metadata", exilederr.FieldPlugin(meta.Name))
	}

	version, err := semver.NewVersion(meta.Version)
	if err != nil {
		return nil, exilederr.Wrap(err, exilederr.CodePluginVersionInvalid,
			"parsing plugin version", exilederr.FieldPlugin(meta.Name))
	}

	var required *semver.Version
	if meta.RequiredFrameworkVersion != "" {
		required, err = semver.NewVersion(meta.RequiredFrameworkVersion)
		if err != nil {
			return nil, exilederr.Wrap(err, exilederr.CodePluginVersionInvalid,
				"parsing required framework version", exilederr.FieldPlugin(meta.Name))
		}
	}

	prefix := meta.Prefix
	if prefix == "" {
		prefix = Prefix(meta.Name)
		if !pkgplugin.ValidPrefix(prefix) {
			return nil, exilederr.New(exilederr.CodePluginRegistryInvalid,
				"plugin name does not normalize to a valid prefix, set Metadata.Prefix",
				exilederr.FieldPlugin(meta.Name), exilederr.FieldPrefix(prefix))
		}
	}

	cfg := p.Config()
	if cfg == nil {
		return nil, exilederr.New(exilederr.CodePluginRegistryInvalid,
			"plugin returned a nil config", exilederr.FieldPlugin(meta.Name))
	}
	config, err := NewSection(cfg)
	if err != nil {
		return nil, exilederr.With(err, exilederr.FieldPlugin(meta.Name))
	}

	d := &Descriptor{
		Instance: NewInstance(meta.Name, StateRegistered),
		Plugin:   p,
		Meta:     meta,
		prefix:   prefix,
		version:  version,
		required: required,
		config:   config,
		commands: make(map[types.Surface]map[reflect.Type]pkgplugin.Command),
	}

	if tr, ok := p.(pkgplugin.Translator); ok && tr.Translations() != nil {
		d.translations, err = NewSection(tr.Translations())
		if err != nil {
			return nil, exilederr.With(err, exilederr.FieldPlugin(meta.Name))
		}
	}

	return d, nil
}

func (d *Descriptor) Name() string                     { return d.Meta.Name }
func (d *Descriptor) Prefix() string                   { return d.prefix }
func (d *Descriptor) Author() string                   { return d.Meta.Author }
func (d *Descriptor) Priority() types.Priority         { return d.Meta.Priority }
func (d *Descriptor) Version() *semver.Version         { return d.version }
func (d *Descriptor) RequiredVersion() *semver.Version { return d.required }

// Config returns the plugin's configuration section.
func (d *Descriptor) Config() *Section { return d.config }

// Translations returns the plugin's translation section, or nil.
func (d *Descriptor) Translations() *Section { return d.translations }

// Enabled reports whether the plugin's own config asks to be enabled.
func (d *Descriptor) Enabled() bool {
	return d.Plugin.Config().IsEnabled()
}

// CheckCompatible reports whether the plugin can run on framework. A plugin
// built for another major version, or for a newer framework, is outdated.
func (d *Descriptor) CheckCompatible(framework *semver.Version) error {
	if d.required == nil || framework == nil {
		return nil
	}

	if d.required.Major() != framework.Major() || d.required.GreaterThan(framework) {
		return exilederr.New(exilederr.CodePluginVersionOutdated,
			"plugin targets framework "+d.required.String()+", running "+framework.String(),
			exilederr.FieldPlugin(d.Name()))
	}
	return nil
}

// Enable moves the plugin to StateEnabled and calls its OnEnabled hook. A
// failing hook leaves the plugin in StateError.
func (d *Descriptor) Enable(ctx context.Context, host pkgplugin.Host) error {
	if err := d.TransitionTo(StateEnabled); err != nil {
		return err
	}
	if err := d.Plugin.OnEnabled(ctx, host); err != nil {
		_ = d.TransitionTo(StateError)
		return exilederr.Wrap(err, exilederr.CodePluginLifecycleCallFailure,
			"enabling plugin", exilederr.FieldPlugin(d.Name()))
	}
	return nil
}

// Disable calls the plugin's OnDisabled hook and moves it to StateDisabled.
func (d *Descriptor) Disable(ctx context.Context) error {
	if d.State() != StateEnabled {
		return nil
	}
	if err := d.Plugin.OnDisabled(ctx); err != nil {
		_ = d.TransitionTo(StateError)
		return exilederr.Wrap(err, exilederr.CodePluginLifecycleCallFailure,
			"disabling plugin", exilederr.FieldPlugin(d.Name()))
	}
	return d.TransitionTo(StateDisabled)
}

// Skip marks a plugin that was not enabled on purpose.
func (d *Descriptor) Skip() error {
	if d.State() == StateSkipped {
		return nil
	}
	return d.TransitionTo(StateSkipped)
}

// Reloaded calls the plugin's OnReloaded hook if it has one.
func (d *Descriptor) Reloaded(ctx context.Context) error {
	r, ok := d.Plugin.(pkgplugin.Reloader)
	if !ok {
		return nil
	}
	if err := r.OnReloaded(ctx); err != nil {
		return exilederr.Wrap(err, exilederr.CodePluginLifecycleCallFailure,
			"reloading plugin", exilederr.FieldPlugin(d.Name()))
	}
	return nil
}

// Command returns the instance registered for a command type on surface.
func (d *Descriptor) Command(surface types.Surface, typ reflect.Type) (pkgplugin.Command, bool) {
	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()

	cmd, ok := d.commands[surface][typ]
	return cmd, ok
}

// StoreCommand records cmd as the instance for its type on surface.
func (d *Descriptor) StoreCommand(surface types.Surface, cmd pkgplugin.Command) {
	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()

	byType, ok := d.commands[surface]
	if !ok {
		byType = make(map[reflect.Type]pkgplugin.Command)
		d.commands[surface] = byType
	}
	byType[reflect.TypeOf(cmd)] = cmd
}

// Commands returns the registered commands per surface, sorted by name.
func (d *Descriptor) Commands() map[types.Surface][]pkgplugin.Command {
	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()

	out := make(map[types.Surface][]pkgplugin.Command, len(d.commands))
	for surface, byType := range d.commands {
		cmds := make([]pkgplugin.Command, 0, len(byType))
		for _, cmd := range byType {
			cmds = append(cmds, cmd)
		}
		slices.SortFunc(cmds, func(a, b pkgplugin.Command) int {
			return strings.Compare(a.Name(), b.Name())
		})
		out[surface] = cmds
	}
	return out
}

// ClearCommands forgets every registered command.
func (d *Descriptor) ClearCommands() {
	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()
	d.commands = make(map[types.Surface]map[reflect.Type]pkgplugin.Command)
}
