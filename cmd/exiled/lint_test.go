// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

func withLintFs(t *testing.T, files map[string]string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	old := lintFs
	lintFs = fs
	t.Cleanup(func() { lintFs = old })
}

func TestLint_CleanDocument(t *testing.T) {
	withLintFs(t, map[string]string{
		"/c.yml": "exiled_loader:\n  is_enabled: true\n  debug: false\nplugin_a:\n  is_enabled: true\n  value: 5\n",
	})

	out, err := execute(t, "lint", "/c.yml")
	require.NoError(t, err)
	assert.Contains(t, out, "exiled_loader")
	assert.Contains(t, out, "plugin_a")
	assert.Contains(t, out, "ok")
}

func TestLint_ReportsProblems(t *testing.T) {
	withLintFs(t, map[string]string{
		"/c.yml": "exiled_loader:\n  debug: sometimes\nPluginA:\n  is_enabled: true\nplugin_b: 3\n",
	})

	out, err := execute(t, "lint", "/c.yml")
	require.Error(t, err)
	assert.True(t, exilederr.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "3 of 3 sections")
	assert.Contains(t, out, "prefix is not snake_case")
	assert.Contains(t, out, "section is not a mapping")
	assert.Contains(t, out, "invalid")
}

func TestLintDocument(t *testing.T) {
	rows, err := lintDocument([]byte("plugin_a:\n  x: 1\nplugin_a:\n  x: 2\n"), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].ok)
	assert.Equal(t, "duplicate section", rows[1].status)

	rows, err = lintDocument([]byte("plugin_a:\n  greeting: hi\n"), true)
	require.NoError(t, err)
	assert.Equal(t, "ok", rows[0].status)

	_, err = lintDocument([]byte(""), false)
	assert.True(t, exilederr.HasCode(err, exilederr.CodeDocumentEmpty))

	_, err = lintDocument([]byte("- a\n- b\n"), false)
	assert.True(t, exilederr.HasCode(err, exilederr.CodeDocumentParseInvalidFormat))

	_, err = lintDocument([]byte("a: [unclosed"), false)
	assert.Error(t, err)
}

func TestLint_MissingFile(t *testing.T) {
	withLintFs(t, nil)

	_, err := execute(t, "lint", "/absent.yml")
	require.Error(t, err)
	assert.True(t, exilederr.HasCode(err, exilederr.CodeDocumentReadFailure))
}
