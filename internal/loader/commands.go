// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package loader

import (
	"context"
	"fmt"
	"strings"
)

type reloadConfigsCommand struct{ loader *Loader }

func (*reloadConfigsCommand) Name() string        { return "reloadconfigs" }
func (*reloadConfigsCommand) Aliases() []string   { return []string{"rc"} }
func (*reloadConfigsCommand) Description() string { return "Reloads plugin configs." }

func (c *reloadConfigsCommand) Execute(ctx context.Context, _ []string) (string, error) {
	if err := c.loader.ReloadConfigs(ctx); err != nil {
		return "Failed to reload configs.", err
	}
	return "Configs reloaded.", nil
}

type reloadTranslationsCommand struct{ loader *Loader }

func (*reloadTranslationsCommand) Name() string        { return "reloadtranslations" }
func (*reloadTranslationsCommand) Aliases() []string   { return []string{"rt"} }
func (*reloadTranslationsCommand) Description() string { return "Reloads plugin translations." }

func (c *reloadTranslationsCommand) Execute(ctx context.Context, _ []string) (string, error) {
	if err := c.loader.ReloadTranslations(ctx); err != nil {
		return "Failed to reload translations.", err
	}
	return "Translations reloaded.", nil
}

type reloadPluginsCommand struct{ loader *Loader }

func (*reloadPluginsCommand) Name() string      { return "reloadplugins" }
func (*reloadPluginsCommand) Aliases() []string { return []string{"rp"} }
func (*reloadPluginsCommand) Description() string {
	return "Disables, reloads and enables every plugin."
}

func (c *reloadPluginsCommand) Execute(ctx context.Context, _ []string) (string, error) {
	if err := c.loader.ReloadPlugins(ctx); err != nil {
		return "Failed to reload plugins.", err
	}
	return "Plugins reloaded.", nil
}

type pluginsCommand struct{ loader *Loader }

func (*pluginsCommand) Name() string        { return "plugins" }
func (*pluginsCommand) Aliases() []string   { return []string{"pl"} }
func (*pluginsCommand) Description() string { return "Lists loaded plugins." }

func (c *pluginsCommand) Execute(context.Context, []string) (string, error) {
	plugins := c.loader.registry.List()

	var b strings.Builder
	fmt.Fprintf(&b, "Total plugins: %d", len(plugins))
	for _, d := range plugins {
		fmt.Fprintf(&b, "\n%s v%s by %s (prefix %s, priority %s): %s",
			d.Name(), d.Version().String(), d.Author(), d.Prefix(), d.Priority().String(), d.State())
	}
	return b.String(), nil
}
