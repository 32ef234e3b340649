// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package hook is the interception port between the framework and the host.
//
// The framework describes what it wants intercepted as (type, method, prefix)
// triples and hands them to a Port. A host adapter does the actual redirection;
// Table is the in-process adapter for hosts that dispatch calls themselves.
package hook

import (
	"strings"
	"sync/atomic"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Target names an intercepted host method.
type Target struct {
	Type   string
	Method string
}

func (t Target) String() string {
	return t.Type + "." + t.Method
}

// Validate rejects targets with empty components.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Type) == "" || strings.TrimSpace(t.Method) == "" {
		return exilederr.Errorf(exilederr.CodeHookTargetInvalid,
			"hook target must name a type and a method, got %q", t.String())
	}
	return nil
}

// Call is one intercepted invocation.
type Call struct {
	Target   Target
	Receiver any
	Args     []any
}

// Arg returns argument i, or nil when the call has fewer arguments.
func (c *Call) Arg(i int) any {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// Prefix runs before the original method. Returning false skips the
// original body entirely.
type Prefix func(call *Call) bool

// Port installs and removes prefixes on host methods.
type Port interface {
	Patch(target Target, prefix Prefix) error
	Unpatch(target Target) error
}

// Switch is the process-wide kill switch every hook reads before doing any
// work. The zero value is off.
type Switch struct {
	disabled atomic.Bool
}

// Disabled reports whether hooks must pass calls through untouched.
func (s *Switch) Disabled() bool {
	return s != nil && s.disabled.Load()
}

// Set turns the kill switch on or off.
func (s *Switch) Set(disabled bool) {
	s.disabled.Store(disabled)
}
