// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package event

// Built-in event names.
const (
	NameEnraging    = "Scp096.Enraging"
	NameCalmingDown = "Scp096.CalmingDown"
)

// Entity is the host handle of an in-game entity.
type Entity interface {
	ID() uint32
}

// Cancellable is implemented by payloads that carry an allow flag.
type Cancellable interface {
	Allowed() bool
	SetAllowed(bool)
}

// EnragingEventArgs is raised once an entity's accumulated stress reaches the
// enrage threshold.
type EnragingEventArgs struct {
	Entity Entity
	Amount float64
}

// CalmingDownEventArgs is raised before an entity's rage resets. Setting
// IsAllowed to false keeps the entity enraged.
type CalmingDownEventArgs struct {
	Entity    Entity
	IsAllowed bool
}

func (a *CalmingDownEventArgs) Allowed() bool     { return a.IsAllowed }
func (a *CalmingDownEventArgs) SetAllowed(v bool) { a.IsAllowed = v }

// Handlers groups the built-in events with their payload types.
type Handlers struct {
	Enraging    *Event[EnragingEventArgs]
	CalmingDown *Event[CalmingDownEventArgs]
}

// Builtin defines the built-in events on b.
func Builtin(b *Bus) *Handlers {
	return &Handlers{
		Enraging:    MustDefine[EnragingEventArgs](b, NameEnraging),
		CalmingDown: MustDefine[CalmingDownEventArgs](b, NameCalmingDown),
	}
}
