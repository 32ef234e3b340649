// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

//go:build !windows

package config

import (
	"io/fs"
	"log/slog"
	"os"
)

// WarnInsecurePermissions logs a warning when path is writable by group or
// other users. Anyone who can write a document can change what every plugin
// runs with, so the check runs on the host config and both documents. It
// never fails startup.
func WarnInsecurePermissions(path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat file for permission check", "path", path, "error", err)
		return
	}

	const groupWrite fs.FileMode = 0o020
	const otherWrite fs.FileMode = 0o002

	mode := info.Mode()
	if mode.Perm()&(groupWrite|otherWrite) != 0 {
		slog.Warn(
			"file has insecure permissions, other users can change plugin settings",
			"path", path,
			"mode", mode,
			"recommended", "0644",
		)
	}
}
