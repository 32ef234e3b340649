// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package plugin

import (
	"sync"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// PluginState represents the lifecycle state of a registered plugin.
type PluginState int

const (
	StateRegistered PluginState = iota
	StateEnabled
	StateDisabled
	StateSkipped
	StateError
)

func (s PluginState) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateSkipped:
		return "skipped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// validTransitions defines allowed state transitions as an adjacency list.
var validTransitions = map[PluginState]map[PluginState]bool{
	StateRegistered: {
		StateEnabled: true,
		StateSkipped: true,
		StateError:   true,
	},
	StateEnabled: {
		StateDisabled: true,
		StateError:    true,
	},
	StateDisabled: {
		StateEnabled: true,
		StateSkipped: true,
		StateError:   true,
	},
	StateSkipped: {
		StateEnabled: true,
		StateError:   true,
	},
	// A failed plugin may be retried on the next enable.
	StateError: {
		StateEnabled: true,
		StateSkipped: true,
	},
}

// ValidTransition returns true if transitioning from one state to another is allowed.
func ValidTransition(from, to PluginState) bool {
	allowed, exists := validTransitions[from][to]
	return exists && allowed
}

// Instance tracks the lifecycle state of one plugin.
type Instance struct {
	mu    sync.RWMutex
	name  string
	state PluginState
}

// NewInstance creates a new plugin instance with the given name and initial state.
func NewInstance(name string, state PluginState) *Instance {
	return &Instance{
		name:  name,
		state: state,
	}
}

// State returns the current plugin state.
func (i *Instance) State() PluginState {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state
}

// TransitionTo attempts to transition to a new state. Returns an error if the
// transition is not valid.
func (i *Instance) TransitionTo(newState PluginState) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !ValidTransition(i.state, newState) {
		return exilederr.New(exilederr.CodePluginLifecycleTransitionInvalid,
			"invalid state transition: "+i.state.String()+" -> "+newState.String(),
			exilederr.FieldPlugin(i.name))
	}

	i.state = newState
	return nil
}
