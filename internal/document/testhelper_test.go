// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package document_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exiled-team/exiled/internal/plugin"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

type valueConfig struct {
	Enabled bool `yaml:"is_enabled"`
	Value   int  `yaml:"value"`
}

func (c *valueConfig) IsEnabled() bool { return c.Enabled }

type loaderConfig struct {
	Enabled bool `yaml:"is_enabled"`
	Debug   bool `yaml:"debug"`
}

func (c *loaderConfig) IsEnabled() bool { return c.Enabled }

type messages struct {
	Greeting string `yaml:"greeting"`
	Farewell string `yaml:"farewell"`
}

type stubPlugin struct {
	pkgplugin.Base[pkgplugin.Config]
}

type translatedPlugin struct {
	stubPlugin
	tr *messages
}

func (p *translatedPlugin) Translations() any { return p.tr }

func meta(name string, priority types.Priority) pkgplugin.Metadata {
	return pkgplugin.Metadata{
		Name:                     name,
		Author:                   "tests",
		Version:                  "1.0.0",
		RequiredFrameworkVersion: "8.2.0",
		Priority:                 priority,
	}
}

func newValuePlugin(name string, value int) (*stubPlugin, *valueConfig) {
	cfg := &valueConfig{Enabled: true, Value: value}
	return &stubPlugin{Base: pkgplugin.Base[pkgplugin.Config]{Meta: meta(name, types.PriorityMedium), Cfg: cfg}}, cfg
}

// newRegistry builds exiled_loader plus plugin_a (value 1) and plugin_b
// (value 2).
func newRegistry(t *testing.T) (*plugin.Registry, *valueConfig, *valueConfig) {
	t.Helper()

	reg := plugin.NewRegistry()

	loader := &stubPlugin{Base: pkgplugin.Base[pkgplugin.Config]{
		Meta: pkgplugin.Metadata{
			Name:     "exiled_loader",
			Author:   "tests",
			Version:  "8.2.0",
			Priority: types.PriorityHighest,
		},
		Cfg: &loaderConfig{Enabled: true},
	}}
	_, err := reg.Add(loader)
	require.NoError(t, err)

	a, cfgA := newValuePlugin("plugin_a", 1)
	_, err = reg.Add(a)
	require.NoError(t, err)

	b, cfgB := newValuePlugin("plugin_b", 2)
	_, err = reg.Add(b)
	require.NoError(t, err)

	return reg, cfgA, cfgB
}
