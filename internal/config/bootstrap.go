// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

//go:embed exiled.yaml.default
var DefaultConfigYAML []byte

// DefaultConfigPath returns ~/.config/exiled/exiled.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", exilederr.Errorf(exilederr.CodeConfigLoadReadFailure, "resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "exiled", "exiled.yaml"), nil
}

// Bootstrap writes the default commented config to path if it does not
// already exist. It reports whether a file was written.
func Bootstrap(fsys afero.Fs, path string) (bool, error) {
	if _, err := fsys.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, exilederr.Errorf(exilederr.CodeConfigLoadReadFailure, "checking %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return false, exilederr.Errorf(exilederr.CodeCLISetupFailure, "creating %s: %w", dir, err)
	}

	if err := afero.WriteFile(fsys, path, DefaultConfigYAML, 0o600); err != nil {
		return false, exilederr.Errorf(exilederr.CodeCLISetupFailure, "writing %s: %w", path, err)
	}

	slog.Info("created default config", "path", path)
	return true, nil
}
