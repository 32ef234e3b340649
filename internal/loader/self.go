// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package loader

import (
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

// Prefix is the reserved document section holding the loader's own
// settings.
const Prefix = "exiled_loader"

// LoaderConfig is the exiled_loader section.
type LoaderConfig struct {
	Enabled                   bool `yaml:"is_enabled"`
	Debug                     bool `yaml:"debug"`
	ShouldLoadOutdatedPlugins bool `yaml:"should_load_outdated_plugins"`
	DisablePatches            bool `yaml:"disable_patches"`
}

func (c *LoaderConfig) IsEnabled() bool { return c.Enabled }

// self is the loader registered as a plugin so its section and commands go
// through the same machinery as everyone else's.
type self struct {
	pkgplugin.Base[*LoaderConfig]
	loader *Loader
}

func newSelf(l *Loader, version string) *self {
	return &self{
		Base: pkgplugin.Base[*LoaderConfig]{
			Meta: pkgplugin.Metadata{
				Name:     Prefix,
				Author:   "Exiled Team",
				Version:  version,
				Priority: types.PriorityHighest,
				Prefix:   Prefix,
			},
			Cfg: &LoaderConfig{Enabled: true},
		},
		loader: l,
	}
}

func (s *self) Commands() []pkgplugin.Placement {
	ra := []types.Surface{types.SurfaceRemoteAdmin}
	return []pkgplugin.Placement{
		{Command: &reloadConfigsCommand{loader: s.loader}, Surfaces: ra},
		{Command: &reloadTranslationsCommand{loader: s.loader}, Surfaces: ra},
		{Command: &reloadPluginsCommand{loader: s.loader}, Surfaces: ra},
		{Command: &pluginsCommand{loader: s.loader}, Surfaces: ra},
	}
}
