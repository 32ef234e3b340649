// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package loader

import (
	"log/slog"

	"github.com/exiled-team/exiled/pkg/event"
)

// host is what a plugin sees of the loader while enabled.
type host struct {
	loader *Loader
	logger *slog.Logger
}

func (h host) Events() *event.Handlers { return h.loader.events }
func (h host) Bus() *event.Bus         { return h.loader.bus }
func (h host) Logger() *slog.Logger    { return h.logger }
