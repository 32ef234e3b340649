// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package hook

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Table is an in-process Port. The host, or a test, calls Invoke where it
// would have called the original method and only runs the original body
// when Invoke returns true.
type Table struct {
	mu      sync.RWMutex
	targets map[Target][]Prefix
}

func NewTable() *Table {
	return &Table{targets: make(map[Target][]Prefix)}
}

// Patch appends prefix to the target's chain.
func (t *Table) Patch(target Target, prefix Prefix) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if prefix == nil {
		return exilederr.Errorf(exilederr.CodeHookTargetInvalid, "nil prefix for %s", target)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.targets[target] = append(slices.Clip(t.targets[target]), prefix)
	slog.Debug("hook installed", "target", target.String(), "chain", len(t.targets[target]))
	return nil
}

// Unpatch removes every prefix installed on target.
func (t *Table) Unpatch(target Target) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.targets[target]; !ok {
		return exilederr.New(exilederr.CodeHookTargetNotFound, "target not patched",
			exilederr.Field("target", target.String()))
	}
	delete(t.targets, target)
	return nil
}

// Patched reports whether target has at least one prefix installed.
func (t *Table) Patched(target Target) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.targets[target]) > 0
}

// Targets returns every patched target.
func (t *Table) Targets() []Target {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Target, 0, len(t.targets))
	for target := range t.targets {
		out = append(out, target)
	}
	slices.SortFunc(out, func(a, b Target) int {
		return cmp.Or(strings.Compare(a.Type, b.Type), strings.Compare(a.Method, b.Method))
	})
	return out
}

// Invoke runs the prefixes installed on target in install order. It stops at
// the first prefix that skips and returns false; an unpatched target always
// returns true.
func (t *Table) Invoke(target Target, receiver any, args ...any) bool {
	t.mu.RLock()
	chain := t.targets[target]
	t.mu.RUnlock()

	call := &Call{Target: target, Receiver: receiver, Args: args}
	for _, prefix := range chain {
		if !prefix(call) {
			return false
		}
	}
	return true
}
