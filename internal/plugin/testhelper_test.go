// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package plugin_test

import (
	"context"
	"errors"

	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

type valueConfig struct {
	Enabled bool `yaml:"is_enabled"`
	Value   int  `yaml:"value"`
}

func (c *valueConfig) IsEnabled() bool { return c.Enabled }

type greetings struct {
	Hello string `yaml:"hello"`
}

type fakePlugin struct {
	pkgplugin.Base[*valueConfig]
	tr        *greetings
	enableErr error
	enabled   int
	disabled  int
	reloaded  int
}

func newFake(name string, priority types.Priority, value int) *fakePlugin {
	return &fakePlugin{Base: pkgplugin.Base[*valueConfig]{
		Meta: pkgplugin.Metadata{
			Name:                     name,
			Author:                   "tests",
			Version:                  "1.0.0",
			RequiredFrameworkVersion: "8.2.0",
			Priority:                 priority,
		},
		Cfg: &valueConfig{Enabled: true, Value: value},
	}}
}

func (p *fakePlugin) OnEnabled(context.Context, pkgplugin.Host) error {
	p.enabled++
	return p.enableErr
}

func (p *fakePlugin) OnDisabled(context.Context) error {
	p.disabled++
	return nil
}

type translatedPlugin struct {
	*fakePlugin
}

func (p translatedPlugin) Translations() any { return p.tr }

type reloadingPlugin struct {
	*fakePlugin
	err error
}

func (p reloadingPlugin) OnReloaded(context.Context) error {
	p.reloaded++
	return p.err
}

var errBoom = errors.New("boom")
