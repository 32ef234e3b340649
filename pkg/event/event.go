// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

// Package event provides the typed, synchronous event bus plugins subscribe to.
//
// Every Event carries one payload type. Invoke calls subscribers in the order
// they subscribed, handing each the same payload pointer, so a subscriber can
// read what earlier subscribers wrote. The bus never recovers panics and never
// swallows errors: the code that raised the event decides whether a failing
// subscriber blocks the guarded action.
package event

import (
	"sync"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Handler reacts to one event payload.
type Handler[T any] func(ev *T) error

type subscriber[T any] struct {
	id uint64
	fn Handler[T]
}

// Event is a named, typed event.
type Event[T any] struct {
	name string

	mu     sync.RWMutex
	subs   []subscriber[T]
	nextID uint64
}

// New creates an event that is not attached to any bus.
func New[T any](name string) *Event[T] {
	return &Event[T]{name: name}
}

// Name returns the event name.
func (e *Event[T]) Name() string {
	return e.name
}

// Len returns the number of current subscribers.
func (e *Event[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// Subscribe appends fn to the subscriber list.
func (e *Event[T]) Subscribe(fn Handler[T]) *Subscription {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscriber[T]{id: id, fn: fn})
	e.mu.Unlock()

	return &Subscription{event: e.name, cancel: func() { e.remove(id) }}
}

func (e *Event[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, s := range e.subs {
		if s.id == id {
			// Copy so in-flight Invoke snapshots keep their view.
			subs := make([]subscriber[T], 0, len(e.subs)-1)
			subs = append(subs, e.subs[:i]...)
			e.subs = append(subs, e.subs[i+1:]...)
			return
		}
	}
}

// Invoke runs every subscriber in registration order. The first subscriber
// error stops dispatch and is returned. Panics propagate to the caller.
func (e *Event[T]) Invoke(ev *T) error {
	e.mu.RLock()
	subs := e.subs
	e.mu.RUnlock()

	for _, s := range subs {
		if err := s.fn(ev); err != nil {
			return exilederr.Wrap(err, exilederr.CodeEventSubscriberFailure,
				"event subscriber failed", exilederr.FieldEvent(e.name))
		}
	}

	return nil
}

// Subscription removes its handler when Unsubscribe is called.
type Subscription struct {
	event  string
	once   sync.Once
	cancel func()
}

// Event returns the name of the event this subscription belongs to.
func (s *Subscription) Event() string {
	return s.event
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
