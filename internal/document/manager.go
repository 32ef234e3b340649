// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package document

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/exiled-team/exiled/internal/plugin"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Manager owns one document file. Reload, Save and ReadLoad are serialized
// per manager; concurrent reload triggers run one after another.
type Manager struct {
	kind Kind
	fs   afero.Fs
	path string
	reg  *plugin.Registry

	mu          sync.Mutex
	lastWritten []byte
}

// NewManager creates a manager for the document of the given kind at path.
func NewManager(kind Kind, fsys afero.Fs, path string, reg *plugin.Registry) *Manager {
	return &Manager{kind: kind, fs: fsys, path: path, reg: reg}
}

func (m *Manager) Kind() Kind   { return m.kind }
func (m *Manager) Path() string { return m.path }

// Read returns the document text. A missing file reads as empty.
func (m *Manager) Read() (string, error) {
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		slog.Error("reading document failed", "kind", m.kind, "path", m.path, "error", err)
		return "", exilederr.Wrap(err, exilederr.CodeDocumentReadFailure, "reading document",
			exilederr.FieldPath(m.path))
	}
	return string(data), nil
}

// Load merges raw into the registered plugins' live sections and returns the
// resulting document. It fails only when no plugin contributes a section.
func (m *Manager) Load(raw string) (Document, error) {
	nodes := m.parse(raw)
	doc := make(Document)

	for _, d := range m.reg.List() {
		sec := m.kind.section(d)
		if sec == nil {
			continue
		}
		prefix := d.Prefix()

		node, ok := nodes[prefix]
		if !ok {
			slog.Warn("document has no section for plugin, using current values",
				"kind", m.kind, "plugin", d.Name(), "prefix", prefix, "path", m.path)
			doc[prefix] = sec.Live()
			continue
		}

		fresh, err := convert(sec, &node)
		if err == nil {
			err = MergeFrom(sec.Live(), fresh)
		}
		if err != nil {
			slog.Error("plugin section is invalid, using current values",
				"kind", m.kind, "plugin", d.Name(), "prefix", prefix, "path", m.path, "error", err)
			doc[prefix] = sec.Live()
			continue
		}

		doc[prefix] = fresh
	}

	if len(doc) == 0 {
		return nil, exilederr.New(exilederr.CodeDocumentEmpty, "no plugin contributes a section",
			exilederr.Field("kind", string(m.kind)), exilederr.FieldPath(m.path))
	}
	return doc, nil
}

// parse decodes raw into per-prefix nodes. Empty or malformed input yields an
// empty map.
func (m *Manager) parse(raw string) map[string]yaml.Node {
	nodes := make(map[string]yaml.Node)
	if strings.TrimSpace(raw) == "" {
		return nodes
	}

	if err := yaml.Unmarshal([]byte(raw), &nodes); err != nil {
		slog.Error("document is not valid YAML, treating as empty",
			"kind", m.kind, "path", m.path,
			"error", exilederr.Wrap(err, exilederr.CodeDocumentParseInvalidFormat, "parsing document"))
		return make(map[string]yaml.Node)
	}
	return nodes
}

func convert(sec *plugin.Section, node *yaml.Node) (any, error) {
	fresh, err := sec.Fresh()
	if err != nil {
		return nil, err
	}
	if err := node.Decode(fresh); err != nil {
		return nil, exilederr.Wrap(err, exilederr.CodeDocumentConvertInvalidFormat,
			"decoding section")
	}
	return fresh, nil
}

// Save writes doc as the whole document. An empty document is refused and
// leaves the file untouched.
func (m *Manager) Save(doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(doc)
}

func (m *Manager) save(doc Document) error {
	if len(doc) == 0 {
		return exilederr.New(exilederr.CodeDocumentEmpty, "refusing to save an empty document",
			exilederr.Field("kind", string(m.kind)), exilederr.FieldPath(m.path))
	}

	data, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return exilederr.Wrap(err, exilederr.CodeDocumentMarshalFailure, "marshalling document",
			exilederr.FieldPath(m.path))
	}

	if err := writeAtomic(m.fs, m.path, data); err != nil {
		slog.Error("saving document failed", "kind", m.kind, "path", m.path, "error", err)
		return err
	}

	m.lastWritten = data
	return nil
}

// Reload reads the file, merges it into the live sections and writes the
// merged result back. A read failure aborts before anything is written.
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.Read()
	if err != nil {
		return err
	}

	doc, err := m.Load(raw)
	if err != nil {
		return err
	}

	if err := m.save(doc); err != nil {
		return err
	}

	slog.Info("document reloaded", "kind", m.kind, "path", m.path, "sections", len(doc))
	return nil
}

// WrittenByUs reports whether data is exactly what this manager last wrote.
func (m *Manager) WrittenByUs(data []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastWritten != nil && bytes.Equal(m.lastWritten, data)
}

// writeAtomic writes data next to path and renames it into place, so a
// failure at any point leaves the previous file intact.
func writeAtomic(fsys afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return exilederr.Wrap(err, exilederr.CodeDocumentWriteFailure, "creating document directory",
			exilederr.FieldPath(dir))
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return exilederr.Wrap(err, exilederr.CodeDocumentWriteFailure, "creating temp file",
			exilederr.FieldPath(path))
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return exilederr.Wrap(err, exilederr.CodeDocumentWriteFailure, "writing temp file",
			exilederr.FieldPath(tmpName))
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return exilederr.Wrap(err, exilederr.CodeDocumentWriteFailure, "syncing temp file",
			exilederr.FieldPath(tmpName))
	}
	if err = tmp.Close(); err != nil {
		return exilederr.Wrap(err, exilederr.CodeDocumentWriteFailure, "closing temp file",
			exilederr.FieldPath(tmpName))
	}
	if err = fsys.Rename(tmpName, path); err != nil {
		return exilederr.Wrap(err, exilederr.CodeDocumentWriteFailure, "replacing document",
			exilederr.FieldPath(path))
	}
	return nil
}
