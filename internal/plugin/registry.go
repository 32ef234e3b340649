// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package plugin

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
)

// Registry is the ordered collection of loaded plugins. Iteration order is
// descending priority, ties broken by the order plugins were added.
type Registry struct {
	mu      sync.RWMutex
	plugins []*Descriptor
	next    int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers p and returns its descriptor.
func (r *Registry) Add(p pkgplugin.Plugin) (*Descriptor, error) {
	d, err := NewDescriptor(p)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.prefix == d.prefix {
			return nil, exilederr.New(exilederr.CodePluginRegistryConflict,
				"plugin prefix already registered",
				exilederr.FieldPlugin(d.Name()),
				exilederr.FieldPrefix(d.prefix),
				exilederr.Field("existing", existing.Name()))
		}
	}

	d.order = r.next
	r.next++
	r.plugins = append(r.plugins, d)
	slices.SortStableFunc(r.plugins, compareDescriptors)

	slog.Debug("plugin registered",
		"plugin", d.Name(), "prefix", d.prefix, "version", d.version.String(), "priority", d.Priority())

	return d, nil
}

func compareDescriptors(a, b *Descriptor) int {
	if a.Priority() != b.Priority() {
		if a.Priority() > b.Priority() {
			return -1
		}
		return 1
	}
	return a.order - b.order
}

// Remove drops the plugin registered under prefix.
func (r *Registry) Remove(prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.plugins, func(d *Descriptor) bool { return d.prefix == prefix })
	if i < 0 {
		return exilederr.New(exilederr.CodePluginNotFound, "plugin not found", exilederr.FieldPrefix(prefix))
	}
	r.plugins = slices.Delete(r.plugins, i, i+1)
	return nil
}

// Get looks a plugin up by prefix.
func (r *Registry) Get(prefix string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.plugins {
		if d.prefix == prefix {
			return d, nil
		}
	}
	return nil, exilederr.Errorf(exilederr.CodePluginNotFound, "plugin %q not found", prefix)
}

// ByName looks a plugin up by its display name.
func (r *Registry) ByName(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.plugins {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, exilederr.Errorf(exilederr.CodePluginNotFound, "plugin %q not found", name)
}

// List returns a snapshot of the registry in priority order.
func (r *Registry) List() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.plugins)
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// DisableAll disables every enabled plugin in reverse priority order and
// returns the joined errors.
func (r *Registry) DisableAll(ctx context.Context) error {
	plugins := r.List()

	var errs []error
	for i := len(plugins) - 1; i >= 0; i-- {
		if err := plugins[i].Disable(ctx); err != nil {
			slog.Error("plugin failed to disable", "plugin", plugins[i].Name(), "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return exilederr.Join(errs...)
	}
	return nil
}
