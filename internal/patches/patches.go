// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package patches holds the hooks the framework installs on the host.
package patches

import (
	"fmt"
	"log/slog"

	"github.com/exiled-team/exiled/internal/hook"
	"github.com/exiled-team/exiled/pkg/event"
)

// Threshold is the accumulated rage at which an entity starts enraging.
const Threshold = 0.15

var (
	// EnragingTarget is the host method that accumulates rage.
	EnragingTarget = hook.Target{Type: "Scp096", Method: "AddRage"}
	// CalmingDownTarget is the host method that resets rage.
	CalmingDownTarget = hook.Target{Type: "Scp096", Method: "ResetEnrage"}
)

// Gauge is the rage accumulator the host keeps on an entity.
type Gauge interface {
	Rage() float64
	SetRage(float64)
}

// Raging is a receiver of the accumulation hook.
type Raging interface {
	event.Entity
	Gauge
}

// Patcher owns the hook implementations and the state they share.
type Patcher struct {
	kill      *hook.Switch
	events    *event.Handlers
	threshold float64
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithThreshold overrides the enrage threshold.
func WithThreshold(v float64) Option {
	return func(p *Patcher) {
		p.threshold = v
	}
}

// NewPatcher creates a Patcher that raises events on h and obeys kill.
func NewPatcher(kill *hook.Switch, h *event.Handlers, opts ...Option) *Patcher {
	p := &Patcher{kill: kill, events: h, threshold: Threshold}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Install patches both targets on port.
func (p *Patcher) Install(port hook.Port) error {
	if err := port.Patch(EnragingTarget, p.Enraging); err != nil {
		return err
	}
	if err := port.Patch(CalmingDownTarget, p.CalmingDown); err != nil {
		_ = port.Unpatch(EnragingTarget)
		return err
	}
	return nil
}

// Uninstall removes both patches from port.
func (p *Patcher) Uninstall(port hook.Port) error {
	errEnraging := port.Unpatch(EnragingTarget)
	errCalming := port.Unpatch(CalmingDownTarget)
	if errEnraging != nil {
		return errEnraging
	}
	return errCalming
}

// Enraging adds the call's amount to the receiver's gauge and skips the
// original method until the gauge reaches the threshold. At the threshold
// the gauge resets and the Enraging event fires. Any internal failure lets
// the original method run.
func (p *Patcher) Enraging(call *hook.Call) (proceed bool) {
	if p.kill.Disabled() {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("enraging hook panicked, running original",
				"target", call.Target.String(), "panic", r)
			proceed = true
		}
	}()

	recv, ok := call.Receiver.(Raging)
	if !ok {
		slog.Warn("enraging hook: receiver has no rage gauge, running original",
			"target", call.Target.String(), "receiver", fmt.Sprintf("%T", call.Receiver))
		return true
	}

	amount, ok := toFloat(call.Arg(0))
	if !ok {
		slog.Warn("enraging hook: amount argument is not numeric, running original",
			"target", call.Target.String(), "arg", call.Arg(0))
		return true
	}

	// Unsynchronized: each entity is driven by a single owner at a time.
	total := recv.Rage() + amount
	recv.SetRage(total)
	if total < p.threshold {
		return false
	}
	recv.SetRage(0)

	if err := p.events.Enraging.Invoke(&event.EnragingEventArgs{Entity: recv, Amount: total}); err != nil {
		slog.Error("enraging event failed, running original",
			"entity", recv.ID(), "error", err)
	}
	return true
}

// CalmingDown raises the CalmingDown event and runs the original reset only
// if every subscriber left IsAllowed set.
func (p *Patcher) CalmingDown(call *hook.Call) bool {
	if p.kill.Disabled() {
		return true
	}

	entity, _ := call.Receiver.(event.Entity)
	ev := &event.CalmingDownEventArgs{Entity: entity, IsAllowed: true}
	if err := p.events.CalmingDown.Invoke(ev); err != nil {
		slog.Error("calming down event failed", "target", call.Target.String(), "error", err)
	}
	return ev.IsAllowed
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
