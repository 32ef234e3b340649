// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package plugin provides public types for plugin authors.
// A plugin is a Go value implementing Plugin; optional capabilities
// (translations, commands, reload hooks) are discovered through the
// smaller interfaces in this package.
package plugin

import (
	"context"
	"log/slog"

	"github.com/exiled-team/exiled/pkg/event"
	"github.com/exiled-team/exiled/pkg/types"
)

// Metadata identifies a plugin.
type Metadata struct {
	Name   string
	Author string
	// Version is the plugin's own semantic version.
	Version string
	// RequiredFrameworkVersion is the framework version the plugin was built against.
	RequiredFrameworkVersion string
	Priority                 types.Priority
	// Prefix overrides the configuration key. Empty derives it from Name.
	Prefix string
}

// Config is implemented by every plugin configuration. The loader writes
// into the value returned by Plugin.Config on every reload, so the pointer
// must stay the same for the plugin's lifetime.
type Config interface {
	IsEnabled() bool
}

// Host is handed to plugins when they are enabled.
type Host interface {
	Events() *event.Handlers
	Bus() *event.Bus
	Logger() *slog.Logger
}

// Plugin is the contract every plugin implements.
type Plugin interface {
	Metadata() Metadata
	Config() Config
	OnEnabled(ctx context.Context, host Host) error
	OnDisabled(ctx context.Context) error
}

// Reloader is implemented by plugins that react to a plugin reload.
type Reloader interface {
	OnReloaded(ctx context.Context) error
}

// Translator is implemented by plugins that ship localized text. The
// returned pointer must stay the same for the plugin's lifetime.
type Translator interface {
	Translations() any
}

// Command is a console command a plugin exposes.
type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Execute(ctx context.Context, args []string) (string, error)
}

// Placement binds a command to the surfaces it is registered on.
type Placement struct {
	Command  Command
	Surfaces []types.Surface
}

// CommandProvider is implemented by plugins that register commands.
// Commands is called on every registration pass; the loader keeps the first
// instance of each command type and discards later ones.
type CommandProvider interface {
	Commands() []Placement
}

// Base is an embeddable helper that stores metadata and config.
type Base[C Config] struct {
	Meta Metadata
	Cfg  C
}

func (b *Base[C]) Metadata() Metadata { return b.Meta }
func (b *Base[C]) Config() Config     { return b.Cfg }

// OnEnabled is a no-op default.
func (b *Base[C]) OnEnabled(context.Context, Host) error { return nil }

// OnDisabled is a no-op default.
func (b *Base[C]) OnDisabled(context.Context) error { return nil }
