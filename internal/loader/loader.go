// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package loader wires the registry, the event bus, the documents, the
// command surfaces and the interception port into one running framework.
package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"

	"github.com/exiled-team/exiled/internal/command"
	"github.com/exiled-team/exiled/internal/document"
	"github.com/exiled-team/exiled/internal/hook"
	"github.com/exiled-team/exiled/internal/patches"
	"github.com/exiled-team/exiled/internal/plugin"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
	"github.com/exiled-team/exiled/pkg/event"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
	"github.com/exiled-team/exiled/pkg/types"
)

// Options configures a Loader.
type Options struct {
	// Version is the running framework version, used to gate plugins.
	Version string

	// Port is the host's interception port. Nil installs the hooks on an
	// in-process table.
	Port hook.Port

	// Handlers are the host's console surfaces.
	Handlers map[types.Surface]command.Handler

	// Fs holds both documents. Nil uses the OS filesystem.
	Fs               afero.Fs
	ConfigsPath      string
	TranslationsPath string

	// Watch reloads documents edited on disk while running.
	Watch    bool
	Debounce time.Duration

	// PatchesDisabled forces the kill switch on regardless of the loader
	// section.
	PatchesDisabled bool

	// Level is lowered to debug while the loader section asks for it and
	// restored to BaseLevel otherwise. Nil allocates a private one.
	Level     *slog.LevelVar
	BaseLevel slog.Level

	PatcherOptions []patches.Option
}

// Loader is the framework context. Run, Shutdown and the reload operations
// are serialized.
type Loader struct {
	opts    Options
	version *semver.Version

	registry     *plugin.Registry
	bus          *event.Bus
	events       *event.Handlers
	configs      *document.Manager
	translations *document.Manager
	registrar    *command.Registrar
	port         hook.Port
	kill         hook.Switch
	patcher      *patches.Patcher
	level        *slog.LevelVar

	self     *self
	selfDesc *plugin.Descriptor

	mu        sync.Mutex
	pending   []pkgplugin.Plugin
	running   bool
	installed bool
	stopWatch context.CancelFunc
	watchWG   sync.WaitGroup
}

// New builds a loader. Nothing touches disk or the port until Run.
func New(opts Options) (*Loader, error) {
	version, err := semver.StrictNewVersion(opts.Version)
	if err != nil {
		return nil, exilederr.Wrap(err, exilederr.CodePluginVersionInvalid,
			"parsing framework version", exilederr.FieldValue("version", opts.Version))
	}

	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.ConfigsPath == "" || opts.TranslationsPath == "" {
		return nil, exilederr.New(exilederr.CodeLoaderStartFailure, "document paths are required")
	}

	l := &Loader{
		opts:     opts,
		version:  version,
		registry: plugin.NewRegistry(),
		bus:      event.NewBus(),
		port:     opts.Port,
		level:    opts.Level,
	}
	if l.port == nil {
		l.port = hook.NewTable()
	}
	if l.level == nil {
		l.level = new(slog.LevelVar)
		l.level.Set(opts.BaseLevel)
	}

	l.events = event.Builtin(l.bus)
	l.configs = document.NewManager(document.KindConfigs, opts.Fs, opts.ConfigsPath, l.registry)
	l.translations = document.NewManager(document.KindTranslations, opts.Fs, opts.TranslationsPath, l.registry)
	l.registrar = command.NewRegistrar(opts.Handlers)
	l.patcher = patches.NewPatcher(&l.kill, l.events, opts.PatcherOptions...)
	l.self = newSelf(l, version.String())

	return l, nil
}

func (l *Loader) Version() *semver.Version        { return l.version }
func (l *Loader) Registry() *plugin.Registry      { return l.registry }
func (l *Loader) Bus() *event.Bus                 { return l.bus }
func (l *Loader) Events() *event.Handlers         { return l.events }
func (l *Loader) Configs() *document.Manager      { return l.configs }
func (l *Loader) Translations() *document.Manager { return l.translations }
func (l *Loader) Port() hook.Port                 { return l.port }
func (l *Loader) Switch() *hook.Switch            { return &l.kill }
func (l *Loader) Level() *slog.LevelVar           { return l.level }

// Settings returns the live loader section.
func (l *Loader) Settings() *LoaderConfig { return l.self.Cfg }

// Register queues plugins for the next Run.
func (l *Loader) Register(ps ...pkgplugin.Plugin) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return exilederr.New(exilederr.CodeLoaderStartFailure, "cannot register plugins while running")
	}
	l.pending = append(l.pending, ps...)
	return nil
}

// Run registers the queued plugins, loads both documents, installs the
// hooks and enables every plugin whose config asks for it. A single
// plugin's failure is logged and does not stop the others.
func (l *Loader) Run(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return exilederr.New(exilederr.CodeLoaderStartFailure, "loader is already running")
	}

	if l.selfDesc == nil {
		d, err := l.registry.Add(l.self)
		if err != nil {
			return exilederr.Wrap(err, exilederr.CodeLoaderStartFailure, "registering loader")
		}
		l.selfDesc = d
	}

	// Only the loader section exists yet, so this reads its settings
	// without rewriting anyone else's.
	if err := l.preload(); err != nil {
		return err
	}

	for _, p := range l.pending {
		l.admit(p)
	}
	l.pending = nil

	if err := l.configs.Reload(); err != nil {
		return exilederr.Wrap(err, exilederr.CodeLoaderStartFailure, "loading configs",
			exilederr.FieldPath(l.configs.Path()))
	}
	l.reloadTranslations()
	l.applySettings()

	l.running = true

	// Watchers run even while the loader section is disabled so an edit can
	// switch it back on.
	if l.opts.Watch {
		l.startWatchers()
	}

	if !l.Settings().IsEnabled() {
		slog.Warn("exiled_loader is disabled, no plugins will be enabled", "path", l.configs.Path())
		return nil
	}
	l.activate(ctx)

	slog.Info("exiled loaded", "version", l.version.String(), "plugins", l.registry.Len())
	return nil
}

// activate installs the hooks and enables every plugin whose config asks
// for it, the loader and its commands included. Calling it again only
// enables what is not enabled yet.
func (l *Loader) activate(ctx context.Context) {
	if !l.installed {
		if err := l.patcher.Install(l.port); err != nil {
			slog.Error("installing patches failed, running without interception", "error", err)
		} else {
			l.installed = true
		}
	}
	l.enableAll(ctx)
}

// deactivate disables every plugin, the loader included, and removes the
// hooks.
func (l *Loader) deactivate(ctx context.Context) {
	if l.installed || l.selfDesc.State() == plugin.StateEnabled {
		slog.Warn("exiled_loader was disabled, disabling every plugin", "path", l.configs.Path())
	}
	l.disableAll(ctx, false)
	if err := l.uninstall(); err != nil {
		slog.Error("uninstalling patches failed", "error", err)
	}
}

func (l *Loader) preload() error {
	raw, err := l.configs.Read()
	if err != nil {
		return exilederr.Wrap(err, exilederr.CodeLoaderStartFailure, "reading configs",
			exilederr.FieldPath(l.configs.Path()))
	}
	if _, err := l.configs.Load(raw); err != nil {
		return exilederr.Wrap(err, exilederr.CodeLoaderStartFailure, "loading loader section")
	}
	return nil
}

// admit registers p unless it is invalid, a duplicate, or built for a
// framework it cannot run on.
func (l *Loader) admit(p pkgplugin.Plugin) {
	d, err := l.registry.Add(p)
	if err != nil {
		slog.Error("plugin rejected", "plugin", p.Metadata().Name, "error", err)
		return
	}

	err = d.CheckCompatible(l.version)
	if err == nil {
		return
	}
	if l.Settings().ShouldLoadOutdatedPlugins {
		slog.Warn("loading outdated plugin", "plugin", d.Name(), "error", err)
		return
	}

	slog.Error("plugin is outdated, not loading it", "plugin", d.Name(), "version", d.Version().String(),
		"required", d.RequiredVersion().String(), "framework", l.version.String())
	_ = l.registry.Remove(d.Prefix())
}

func (l *Loader) applySettings() {
	s := l.Settings()

	if s.Debug {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(l.opts.BaseLevel)
	}

	disabled := l.opts.PatchesDisabled || s.DisablePatches
	if disabled != l.kill.Disabled() {
		slog.Info("patch kill switch changed", "disabled", disabled)
	}
	l.kill.Set(disabled)
}

func (l *Loader) reloadTranslations() {
	err := l.translations.Reload()
	switch {
	case err == nil:
	case exilederr.HasCode(err, exilederr.CodeDocumentEmpty):
		slog.Debug("no plugin ships translations", "path", l.translations.Path())
	default:
		slog.Error("loading translations failed", "path", l.translations.Path(), "error", err)
	}
}

func (l *Loader) hostFor(d *plugin.Descriptor) host {
	return host{loader: l, logger: slog.Default().With("plugin", d.Name())}
}

// enableAll enables plugins in priority order and places their commands.
func (l *Loader) enableAll(ctx context.Context) {
	for _, d := range l.registry.List() {
		l.enable(ctx, d)
	}
}

func (l *Loader) enable(ctx context.Context, d *plugin.Descriptor) {
	if d.State() == plugin.StateEnabled {
		return
	}

	if !d.Enabled() {
		if err := d.Skip(); err != nil {
			slog.Error("skipping plugin failed", "plugin", d.Name(), "error", err)
		}
		slog.Info("plugin is disabled in its config", "plugin", d.Name())
		return
	}

	if err := d.Enable(ctx, l.hostFor(d)); err != nil {
		slog.Error("plugin failed to enable", "plugin", d.Name(), "error", err)
		return
	}

	if err := l.registrar.Register(d); err != nil {
		slog.Error("plugin commands partially registered", "plugin", d.Name(), "error", err)
	}

	slog.Info("plugin enabled", "plugin", d.Name(), "version", d.Version().String(),
		"author", d.Author(), "priority", d.Priority().String())
}

func (l *Loader) disable(ctx context.Context, d *plugin.Descriptor) error {
	if err := l.registrar.Unregister(d); err != nil {
		slog.Warn("plugin commands partially unregistered", "plugin", d.Name(), "error", err)
	}
	if err := d.Disable(ctx); err != nil {
		slog.Error("plugin failed to disable", "plugin", d.Name(), "error", err)
		return err
	}
	return nil
}

// Shutdown stops the watchers, removes every command, disables plugins in
// reverse priority order and uninstalls the hooks.
func (l *Loader) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return nil
	}

	l.stopWatchers()

	errs := l.disableAll(ctx, false)
	if err := l.uninstall(); err != nil {
		errs = append(errs, err)
	}

	l.running = false
	slog.Info("exiled shut down")

	if len(errs) > 0 {
		return exilederr.Wrap(exilederr.Join(errs...), exilederr.CodeLoaderShutdownFailure, "shutting down")
	}
	return nil
}

// disableAll disables plugins in reverse priority order. keepSelf leaves
// the loader and its commands in place.
func (l *Loader) disableAll(ctx context.Context, keepSelf bool) []error {
	var errs []error
	plugins := l.registry.List()
	for i := len(plugins) - 1; i >= 0; i-- {
		if keepSelf && plugins[i] == l.selfDesc {
			continue
		}
		if err := l.disable(ctx, plugins[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (l *Loader) uninstall() error {
	if !l.installed {
		return nil
	}
	l.installed = false
	return l.patcher.Uninstall(l.port)
}

func (l *Loader) startWatchers() {
	ctx, cancel := context.WithCancel(context.Background())
	l.stopWatch = cancel

	l.watch(ctx, l.configs, func() {
		if err := l.ReloadConfigs(ctx); err != nil {
			slog.Error("reloading configs after edit failed", "error", err)
		}
	})
	l.watch(ctx, l.translations, func() {
		if err := l.ReloadTranslations(ctx); err != nil {
			slog.Error("reloading translations after edit failed", "error", err)
		}
	})
}

func (l *Loader) watch(ctx context.Context, m *document.Manager, onChange func()) {
	w, err := document.NewWatcher(m, l.opts.Debounce, onChange)
	if err != nil {
		slog.Warn("document watcher unavailable", "path", m.Path(), "error", err)
		return
	}

	l.watchWG.Add(1)
	go func() {
		defer l.watchWG.Done()
		_ = w.Run(ctx)
	}()
}

func (l *Loader) stopWatchers() {
	if l.stopWatch == nil {
		return
	}
	l.stopWatch()
	l.watchWG.Wait()
	l.stopWatch = nil
}
