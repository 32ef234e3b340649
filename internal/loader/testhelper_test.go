// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package loader_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/exiled-team/exiled/internal/command"
	"github.com/exiled-team/exiled/internal/hook"
	"github.com/exiled-team/exiled/internal/loader"
	"github.com/exiled-team/exiled/pkg/event"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

const (
	configsPath      = "/srv/EXILED/Configs/7777-config.yml"
	translationsPath = "/srv/EXILED/Configs/7777-translations.yml"
	frameworkVersion = "8.2.0"
)

type valueConfig struct {
	Enabled bool `yaml:"is_enabled"`
	Value   int  `yaml:"value"`
}

func (c *valueConfig) IsEnabled() bool { return c.Enabled }

type messages struct {
	Enraged string `yaml:"enraged"`
}

type scp struct {
	id   uint32
	rage float64
}

func (s *scp) ID() uint32        { return s.id }
func (s *scp) Rage() float64     { return s.rage }
func (s *scp) SetRage(v float64) { s.rage = v }

type helloCommand struct{ owner string }

func (*helloCommand) Name() string        { return "hello" }
func (*helloCommand) Aliases() []string   { return nil }
func (*helloCommand) Description() string { return "greets" }
func (c *helloCommand) Execute(context.Context, []string) (string, error) {
	return "hello from " + c.owner, nil
}

type testPlugin struct {
	pkgplugin.Base[*valueConfig]
	tr *messages

	enableErr error
	enabled   int
	disabled  int
	reloaded  int
	enraged   int
	sub       *event.Subscription
	order     *[]string
}

func newPlugin(name string, value int) *testPlugin {
	return &testPlugin{
		Base: pkgplugin.Base[*valueConfig]{
			Meta: pkgplugin.Metadata{
				Name:                     name,
				Author:                   "tests",
				Version:                  "1.0.0",
				RequiredFrameworkVersion: frameworkVersion,
				Priority:                 types.PriorityMedium,
			},
			Cfg: &valueConfig{Enabled: true, Value: value},
		},
		tr: &messages{Enraged: "run"},
	}
}

func (p *testPlugin) OnEnabled(_ context.Context, h pkgplugin.Host) error {
	p.enabled++
	if p.order != nil {
		*p.order = append(*p.order, "enable:"+p.Meta.Name)
	}
	if p.enableErr != nil {
		return p.enableErr
	}
	p.sub = h.Events().Enraging.Subscribe(func(*event.EnragingEventArgs) error {
		p.enraged++
		return nil
	})
	return nil
}

func (p *testPlugin) OnDisabled(context.Context) error {
	p.disabled++
	if p.order != nil {
		*p.order = append(*p.order, "disable:"+p.Meta.Name)
	}
	p.sub.Unsubscribe()
	return nil
}

func (p *testPlugin) OnReloaded(context.Context) error {
	p.reloaded++
	return nil
}

func (p *testPlugin) Translations() any { return p.tr }

func (p *testPlugin) Commands() []pkgplugin.Placement {
	return []pkgplugin.Placement{{
		Command:  &helloCommand{owner: p.Meta.Name},
		Surfaces: []types.Surface{types.SurfaceGameConsole},
	}}
}

type harness struct {
	fs     afero.Fs
	table  *hook.Table
	ra     *command.Console
	game   *command.Console
	loader *loader.Loader
}

func newHarness(t *testing.T, configs string, mutate ...func(*loader.Options)) *harness {
	t.Helper()

	h := &harness{
		fs:    afero.NewMemMapFs(),
		table: hook.NewTable(),
		ra:    command.NewConsole(types.SurfaceRemoteAdmin),
		game:  command.NewConsole(types.SurfaceGameConsole),
	}
	if configs != "" {
		require.NoError(t, afero.WriteFile(h.fs, configsPath, []byte(configs), 0o644))
	}

	opts := loader.Options{
		Version:          frameworkVersion,
		Port:             h.table,
		Fs:               h.fs,
		ConfigsPath:      configsPath,
		TranslationsPath: translationsPath,
		Handlers: map[types.Surface]command.Handler{
			types.SurfaceRemoteAdmin: h.ra,
			types.SurfaceGameConsole: h.game,
		},
	}
	for _, m := range mutate {
		m(&opts)
	}

	l, err := loader.New(opts)
	require.NoError(t, err)
	h.loader = l
	return h
}

func (h *harness) run(t *testing.T, ps ...pkgplugin.Plugin) {
	t.Helper()
	require.NoError(t, h.loader.Register(ps...))
	require.NoError(t, h.loader.Run(context.Background()))
	t.Cleanup(func() { _ = h.loader.Shutdown(context.Background()) })
}

func (h *harness) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(h.fs, path, []byte(content), 0o644))
}
