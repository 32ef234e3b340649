// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package document loads, merges and saves the per-plugin configuration and
// translation documents.
//
// Each document is a single YAML file mapping plugin prefixes to sections.
// Loading never aborts because of one bad section: a missing section keeps
// the plugin's current values and a section that does not fit the plugin's
// type falls back to them. Saving replaces the whole file atomically.
package document

import (
	"slices"

	"github.com/exiled-team/exiled/internal/plugin"
)

// Kind selects which of a plugin's sections a Manager handles.
type Kind string

const (
	KindConfigs      Kind = "configs"
	KindTranslations Kind = "translations"
)

func (k Kind) section(d *plugin.Descriptor) *plugin.Section {
	switch k {
	case KindTranslations:
		return d.Translations()
	default:
		return d.Config()
	}
}

// Document maps plugin prefixes to section values.
type Document map[string]any

// Prefixes returns the document keys in ordinal order.
func (d Document) Prefixes() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
