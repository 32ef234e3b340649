// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package document

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// DefaultDebounce coalesces editor save bursts into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers onChange when the manager's file is edited by someone
// else. It watches the parent directory because saves replace the file by
// rename.
type Watcher struct {
	manager  *Manager
	onChange func()
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching the directory of m's file. A zero debounce
// selects DefaultDebounce.
func NewWatcher(m *Manager, debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, exilederr.Wrap(err, exilederr.CodeDocumentWatchFailure, "creating file watcher")
	}

	dir := filepath.Dir(m.Path())
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, exilederr.Wrap(err, exilederr.CodeDocumentWatchFailure, "watching document directory",
			exilederr.FieldPath(dir))
	}

	return &Watcher{manager: m, onChange: onChange, debounce: debounce, watcher: fw}, nil
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	target := filepath.Clean(w.manager.Path())
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("document watcher error", "path", w.manager.Path(), "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	raw, err := w.manager.Read()
	if err != nil {
		return
	}
	if w.manager.WrittenByUs([]byte(raw)) {
		slog.Debug("document watcher ignoring own write", "path", w.manager.Path())
		return
	}

	slog.Info("document changed on disk", "kind", w.manager.Kind(), "path", w.manager.Path())
	w.onChange()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		slog.Warn("closing document watcher", "path", w.manager.Path(), "error", err)
	}
}
