// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package loader

import (
	"context"
	"log/slog"

	"github.com/exiled-team/exiled/internal/plugin"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// ReloadConfigs reloads the configs document into every plugin. Plugins
// whose is_enabled flag flipped are enabled or disabled to match, and every
// enabled plugin is told it was reloaded. Flipping the loader's own flag
// activates or deactivates the whole framework.
func (l *Loader) ReloadConfigs(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return exilederr.New(exilederr.CodeLoaderStartFailure, "loader is not running")
	}

	if err := l.configs.Reload(); err != nil {
		return err
	}
	l.applySettings()
	l.reconcile(ctx)
	l.notifyReloaded(ctx)
	return nil
}

// ReloadTranslations reloads the translations document.
func (l *Loader) ReloadTranslations(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return exilederr.New(exilederr.CodeLoaderStartFailure, "loader is not running")
	}

	err := l.translations.Reload()
	if exilederr.HasCode(err, exilederr.CodeDocumentEmpty) {
		return nil
	}
	if err != nil {
		return err
	}
	l.notifyReloaded(ctx)
	return nil
}

// ReloadPlugins disables every plugin, reloads both documents and enables
// them again.
func (l *Loader) ReloadPlugins(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return exilederr.New(exilederr.CodeLoaderStartFailure, "loader is not running")
	}

	l.disableAll(ctx, true)

	if err := l.configs.Reload(); err != nil {
		slog.Error("reloading configs failed, keeping current values", "error", err)
	}
	l.reloadTranslations()
	l.applySettings()

	if l.Settings().IsEnabled() {
		l.activate(ctx)
	} else {
		l.deactivate(ctx)
	}
	l.notifyReloaded(ctx)
	return nil
}

// reconcile brings the hooks and each plugin's state in line with the
// loader section and every plugin's is_enabled flag.
func (l *Loader) reconcile(ctx context.Context) {
	if !l.Settings().IsEnabled() {
		l.deactivate(ctx)
		return
	}

	for _, d := range l.registry.List() {
		if d == l.selfDesc || d.State() != plugin.StateEnabled || d.Enabled() {
			continue
		}
		if err := l.disable(ctx, d); err == nil {
			_ = d.Skip()
			slog.Info("plugin disabled by config", "plugin", d.Name())
		}
	}
	l.activate(ctx)
}

func (l *Loader) notifyReloaded(ctx context.Context) {
	for _, d := range l.registry.List() {
		if d.State() != plugin.StateEnabled {
			continue
		}
		if err := d.Reloaded(ctx); err != nil {
			slog.Error("plugin failed to handle reload", "plugin", d.Name(), "error", err)
		}
	}
}
