// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package types

import (
	"strings"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Surface identifies one of the host's command-processing entry points.
type Surface string

const (
	// SurfaceRemoteAdmin is the admin console.
	SurfaceRemoteAdmin Surface = "remote_admin"
	// SurfaceGameConsole is the server's own game console.
	SurfaceGameConsole Surface = "game_console"
	// SurfaceClientConsole is the per-client query console.
	SurfaceClientConsole Surface = "client_console"
)

// Surfaces lists every surface in a fixed order.
func Surfaces() []Surface {
	return []Surface{SurfaceRemoteAdmin, SurfaceGameConsole, SurfaceClientConsole}
}

// Valid reports whether s is a known command surface.
func (s Surface) Valid() bool {
	switch s {
	case SurfaceRemoteAdmin, SurfaceGameConsole, SurfaceClientConsole:
		return true
	default:
		return false
	}
}

// ParseSurface parses a case-insensitive string into a Surface.
func ParseSurface(s string) (Surface, error) {
	surface := Surface(strings.ToLower(strings.TrimSpace(s)))
	if !surface.Valid() {
		return "", exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"invalid command surface: %q", s)
	}
	return surface, nil
}
