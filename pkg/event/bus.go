// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package event

import (
	"reflect"
	"sort"
	"sync"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

type entry struct {
	payload reflect.Type
	event   any
}

// Bus is the process-wide table of named events.
type Bus struct {
	mu     sync.RWMutex
	events map[string]entry
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{events: make(map[string]entry)}
}

// Define returns the event registered under name, creating it when absent.
// Redefining a name with a different payload type is an error.
func Define[T any](b *Bus, name string) (*Event[T], error) {
	payload := reflect.TypeFor[T]()

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.events[name]; ok {
		ev, ok := existing.event.(*Event[T])
		if !ok {
			return nil, exilederr.New(exilederr.CodeEventTypeConflict,
				"event already defined with a different payload type",
				exilederr.FieldEvent(name),
				exilederr.Field("existing", existing.payload.String()),
				exilederr.Field("requested", payload.String()))
		}
		return ev, nil
	}

	ev := New[T](name)
	b.events[name] = entry{payload: payload, event: ev}
	return ev, nil
}

// MustDefine is Define for built-in events whose types are fixed at compile time.
func MustDefine[T any](b *Bus, name string) *Event[T] {
	ev, err := Define[T](b, name)
	if err != nil {
		panic(err)
	}
	return ev
}

// Lookup returns a previously defined event.
func Lookup[T any](b *Bus, name string) (*Event[T], error) {
	b.mu.RLock()
	existing, ok := b.events[name]
	b.mu.RUnlock()

	if !ok {
		return nil, exilederr.New(exilederr.CodeEventNotFound, "event not defined",
			exilederr.FieldEvent(name))
	}

	ev, ok := existing.event.(*Event[T])
	if !ok {
		return nil, exilederr.New(exilederr.CodeEventTypeConflict,
			"event payload type mismatch",
			exilederr.FieldEvent(name),
			exilederr.Field("existing", existing.payload.String()))
	}
	return ev, nil
}

// Subscribe attaches fn to the named event, defining it if needed.
func Subscribe[T any](b *Bus, name string, fn Handler[T]) (*Subscription, error) {
	ev, err := Define[T](b, name)
	if err != nil {
		return nil, err
	}
	return ev.Subscribe(fn), nil
}

// Invoke dispatches ev to the named event. An undefined event has no
// subscribers, so invoking it is a no-op.
func Invoke[T any](b *Bus, name string, ev *T) error {
	e, err := Lookup[T](b, name)
	if err != nil {
		if exilederr.IsNotFound(err) {
			return nil
		}
		return err
	}
	return e.Invoke(ev)
}

// Names returns every defined event name in sorted order.
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.events))
	for name := range b.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
