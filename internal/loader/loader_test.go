// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package loader_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/exiled-team/exiled/internal/loader"
	"github.com/exiled-team/exiled/internal/patches"
	"github.com/exiled-team/exiled/internal/plugin"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
	"github.com/exiled-team/exiled/pkg/types"
)

func readDoc(t *testing.T, h *harness, path string) map[string]map[string]any {
	t.Helper()
	data, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)

	var out map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := loader.New(loader.Options{Version: "latest", ConfigsPath: "a", TranslationsPath: "b"})
	assert.True(t, exilederr.HasCode(err, exilederr.CodePluginVersionInvalid))

	_, err = loader.New(loader.Options{Version: "8.2.0"})
	assert.True(t, exilederr.HasCode(err, exilederr.CodeLoaderStartFailure))
}

func TestRun_LoadsDocumentAndEnablesPlugins(t *testing.T) {
	h := newHarness(t, "exiled_loader:\n  is_enabled: true\nplugin_a:\n  is_enabled: true\n  value: 5\n")
	a := newPlugin("plugin_a", 1)
	b := newPlugin("plugin_b", 2)
	h.run(t, a, b)

	assert.Equal(t, 5, a.Cfg.Value)
	assert.Equal(t, 2, b.Cfg.Value)
	assert.Equal(t, 1, a.enabled)
	assert.Equal(t, 1, b.enabled)

	doc := readDoc(t, h, configsPath)
	assert.Len(t, doc, 3)
	assert.Equal(t, 5, doc["plugin_a"]["value"])
	assert.Equal(t, 2, doc["plugin_b"]["value"])
	assert.Equal(t, true, doc[loader.Prefix]["is_enabled"])

	tr := readDoc(t, h, translationsPath)
	assert.Equal(t, "run", tr["plugin_a"]["enraged"])

	assert.True(t, h.table.Patched(patches.EnragingTarget))
	assert.True(t, h.table.Patched(patches.CalmingDownTarget))
}

func TestRun_PriorityOrderAndReverseShutdown(t *testing.T) {
	h := newHarness(t, "")

	var order []string
	low := newPlugin("low_plugin", 0)
	low.Meta.Priority = types.PriorityLow
	high := newPlugin("high_plugin", 0)
	high.Meta.Priority = types.PriorityHigh
	low.order, high.order = &order, &order

	require.NoError(t, h.loader.Register(low, high))
	require.NoError(t, h.loader.Run(context.Background()))
	require.NoError(t, h.loader.Shutdown(context.Background()))

	assert.Equal(t, []string{
		"enable:high_plugin", "enable:low_plugin",
		"disable:low_plugin", "disable:high_plugin",
	}, order)
	assert.False(t, h.table.Patched(patches.EnragingTarget))
}

func TestRun_SkipsPluginsDisabledInConfig(t *testing.T) {
	h := newHarness(t, "plugin_a:\n  is_enabled: false\n  value: 3\n")
	a := newPlugin("plugin_a", 1)
	h.run(t, a)

	assert.Zero(t, a.enabled)
	d, err := h.loader.Registry().Get("plugin_a")
	require.NoError(t, err)
	assert.Equal(t, plugin.StateSkipped, d.State())
	assert.Equal(t, 3, a.Cfg.Value)
}

func TestRun_EnableFailureDoesNotStopOthers(t *testing.T) {
	h := newHarness(t, "")
	a := newPlugin("plugin_a", 1)
	a.enableErr = errors.New("no database")
	b := newPlugin("plugin_b", 2)
	h.run(t, a, b)

	da, err := h.loader.Registry().Get("plugin_a")
	require.NoError(t, err)
	assert.Equal(t, plugin.StateError, da.State())
	assert.Equal(t, 1, b.enabled)

	_, ok := h.game.Lookup("hello")
	assert.True(t, ok, "plugin_b's command is registered")
}

func TestRun_RefusesOutdatedPlugins(t *testing.T) {
	h := newHarness(t, "")
	old := newPlugin("old_plugin", 1)
	old.Meta.RequiredFrameworkVersion = "7.5.0"
	h.run(t, old)

	_, err := h.loader.Registry().Get("old_plugin")
	assert.True(t, exilederr.IsNotFound(err))
	assert.Zero(t, old.enabled)
	assert.NotContains(t, readDoc(t, h, configsPath), "old_plugin")
}

func TestRun_LoadsOutdatedPluginsWhenAllowed(t *testing.T) {
	h := newHarness(t, "exiled_loader:\n  is_enabled: true\n  should_load_outdated_plugins: true\n")
	old := newPlugin("old_plugin", 1)
	old.Meta.RequiredFrameworkVersion = "7.5.0"
	h.run(t, old)

	assert.Equal(t, 1, old.enabled)
}

func TestRun_LoaderDisabled(t *testing.T) {
	h := newHarness(t, "exiled_loader:\n  is_enabled: false\n")
	a := newPlugin("plugin_a", 1)
	h.run(t, a)

	assert.Zero(t, a.enabled)
	assert.False(t, h.table.Patched(patches.EnragingTarget))
	assert.Empty(t, h.ra.Commands())
}

func TestRun_Twice(t *testing.T) {
	h := newHarness(t, "")
	h.run(t)

	err := h.loader.Run(context.Background())
	assert.True(t, exilederr.HasCode(err, exilederr.CodeLoaderStartFailure))
	assert.Error(t, h.loader.Register(newPlugin("late", 0)))
}

func TestRun_UnreadableConfigsAborts(t *testing.T) {
	h := newHarness(t, "", func(o *loader.Options) {
		o.Fs = afero.NewReadOnlyFs(afero.NewMemMapFs())
	})
	require.NoError(t, h.loader.Register(newPlugin("plugin_a", 1)))

	err := h.loader.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "loading configs")
}

func TestRun_DebugAndKillSwitch(t *testing.T) {
	h := newHarness(t, "exiled_loader:\n  is_enabled: true\n  debug: true\n  disable_patches: true\n",
		func(o *loader.Options) { o.BaseLevel = slog.LevelWarn })
	a := newPlugin("plugin_a", 1)
	h.run(t, a)

	assert.Equal(t, slog.LevelDebug, h.loader.Level().Level())
	assert.True(t, h.loader.Switch().Disabled())

	target := &scp{id: 7}
	assert.True(t, h.table.Invoke(patches.EnragingTarget, target, 0.5))
	assert.Zero(t, target.rage, "kill switch leaves the gauge alone")
	assert.Zero(t, a.enraged)

	h.write(t, configsPath, "exiled_loader:\n  is_enabled: true\n")
	_, err := h.ra.Execute(context.Background(), "reloadconfigs")
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, h.loader.Level().Level())
	assert.False(t, h.loader.Switch().Disabled())
}

func TestRun_HostPatchKillSwitchWins(t *testing.T) {
	h := newHarness(t, "", func(o *loader.Options) { o.PatchesDisabled = true })
	h.run(t)

	assert.True(t, h.loader.Switch().Disabled())
}

func TestHooks_FireEventsIntoEnabledPlugins(t *testing.T) {
	h := newHarness(t, "")
	a := newPlugin("plugin_a", 1)
	h.run(t, a)

	target := &scp{id: 1}
	assert.False(t, h.table.Invoke(patches.EnragingTarget, target, 0.1))
	assert.True(t, h.table.Invoke(patches.EnragingTarget, target, 0.1))
	assert.Equal(t, 1, a.enraged)
	assert.Zero(t, target.rage)

	assert.True(t, h.table.Invoke(patches.CalmingDownTarget, target))
}
