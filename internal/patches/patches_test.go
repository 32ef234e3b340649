// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package patches_test

import (
	"errors"
	"testing"

	"github.com/exiled-team/exiled/internal/hook"
	"github.com/exiled-team/exiled/internal/patches"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
	"github.com/exiled-team/exiled/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type scp struct {
	id   uint32
	rage float64
}

func (s *scp) ID() uint32        { return s.id }
func (s *scp) Rage() float64     { return s.rage }
func (s *scp) SetRage(v float64) { s.rage = v }

type fixture struct {
	kill   *hook.Switch
	events *event.Handlers
	table  *hook.Table
}

func newFixture(t *testing.T, opts ...patches.Option) *fixture {
	t.Helper()

	f := &fixture{
		kill:   &hook.Switch{},
		events: event.Builtin(event.NewBus()),
		table:  hook.NewTable(),
	}
	p := patches.NewPatcher(f.kill, f.events, opts...)
	require.NoError(t, p.Install(f.table))
	return f
}

func (f *fixture) addRage(recv any, amount any) bool {
	return f.table.Invoke(patches.EnragingTarget, recv, amount)
}

func (f *fixture) resetRage(recv any) bool {
	return f.table.Invoke(patches.CalmingDownTarget, recv)
}

// ---------------------------------------------------------------------------
// Enraging
// ---------------------------------------------------------------------------

func TestEnraging_SuppressesBelowThreshold(t *testing.T) {
	f := newFixture(t)
	var fired int
	f.events.Enraging.Subscribe(func(*event.EnragingEventArgs) error {
		fired++
		return nil
	})

	entity := &scp{id: 7}
	assert.False(t, f.addRage(entity, 0.075))
	assert.Equal(t, 0.075, entity.rage, "state recorded while original is skipped")
	assert.Equal(t, 0, fired)

	assert.True(t, f.addRage(entity, 0.075))
	assert.Equal(t, 1, fired)
	assert.Zero(t, entity.rage, "gauge resets once the event fires")
}

func TestEnraging_PayloadCarriesEntity(t *testing.T) {
	f := newFixture(t)
	var got *event.EnragingEventArgs
	f.events.Enraging.Subscribe(func(a *event.EnragingEventArgs) error {
		got = a
		return nil
	})

	entity := &scp{id: 42}
	require.True(t, f.addRage(entity, float32(0.5)))
	require.NotNil(t, got)
	assert.Equal(t, uint32(42), got.Entity.ID())
	assert.InDelta(t, 0.5, got.Amount, 1e-6)
}

func TestEnraging_FailsOpenOnSubscriberError(t *testing.T) {
	f := newFixture(t)
	f.events.Enraging.Subscribe(func(*event.EnragingEventArgs) error {
		return errors.New("plugin bug")
	})

	assert.True(t, f.addRage(&scp{}, 1.0))
}

func TestEnraging_FailsOpenOnSubscriberPanic(t *testing.T) {
	f := newFixture(t)
	f.events.Enraging.Subscribe(func(*event.EnragingEventArgs) error {
		panic("nil map write")
	})

	assert.NotPanics(t, func() {
		assert.True(t, f.addRage(&scp{}, 1.0))
	})
}

func TestEnraging_MalformedCallRunsOriginal(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.addRage("not an entity", 1.0))
	assert.True(t, f.addRage(&scp{}, "lots"))
	assert.True(t, f.table.Invoke(patches.EnragingTarget, &scp{}))
}

func TestEnraging_KillSwitchPassesThrough(t *testing.T) {
	f := newFixture(t)
	var fired int
	f.events.Enraging.Subscribe(func(*event.EnragingEventArgs) error {
		fired++
		return nil
	})
	f.kill.Set(true)

	entity := &scp{}
	for range 10 {
		assert.True(t, f.addRage(entity, 0.1))
	}
	assert.Zero(t, entity.rage, "no accumulation while disabled")
	assert.Zero(t, fired)
}

func TestEnraging_CustomThreshold(t *testing.T) {
	f := newFixture(t, patches.WithThreshold(1))

	entity := &scp{}
	assert.False(t, f.addRage(entity, 0.5))
	assert.False(t, f.addRage(entity, 0.25))
	assert.True(t, f.addRage(entity, 0.25))
}

func TestEnraging_FiresExactlyOnceAtThreshold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := &fixture{
			kill:   &hook.Switch{},
			events: event.Builtin(event.NewBus()),
			table:  hook.NewTable(),
		}
		// Amounts are multiples of 1/64 so partial sums are exact.
		require.NoError(rt, patches.NewPatcher(f.kill, f.events, patches.WithThreshold(1)).Install(f.table))

		var firedAt []int
		call := 0
		f.events.Enraging.Subscribe(func(*event.EnragingEventArgs) error {
			firedAt = append(firedAt, call)
			return nil
		})

		var amounts []float64
		for remaining := 64; remaining > 0; {
			part := rapid.IntRange(1, remaining).Draw(rt, "part")
			amounts = append(amounts, float64(part)/64)
			remaining -= part
		}

		entity := &scp{}
		for i, amount := range amounts {
			call = i
			proceed := f.addRage(entity, amount)
			if i < len(amounts)-1 {
				assert.False(rt, proceed, "call %d below threshold", i)
			} else {
				assert.True(rt, proceed)
			}
		}
		assert.Equal(rt, []int{len(amounts) - 1}, firedAt)
	})
}

func TestEnraging_KillSwitchNeverFires(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := &fixture{
			kill:   &hook.Switch{},
			events: event.Builtin(event.NewBus()),
			table:  hook.NewTable(),
		}
		require.NoError(rt, patches.NewPatcher(f.kill, f.events).Install(f.table))
		f.kill.Set(true)

		fired := false
		f.events.Enraging.Subscribe(func(*event.EnragingEventArgs) error {
			fired = true
			return nil
		})

		amounts := rapid.SliceOf(rapid.Float64Range(0, 10)).Draw(rt, "amounts")
		for _, amount := range amounts {
			assert.True(rt, f.addRage(&scp{}, amount))
		}
		assert.False(rt, fired)
	})
}

// ---------------------------------------------------------------------------
// CalmingDown
// ---------------------------------------------------------------------------

func TestCalmingDown_NoSubscribersAllows(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.resetRage(&scp{}))
}

func TestCalmingDown_VetoSkipsOriginal(t *testing.T) {
	f := newFixture(t)
	f.events.CalmingDown.Subscribe(func(a *event.CalmingDownEventArgs) error {
		a.IsAllowed = false
		return nil
	})

	assert.False(t, f.resetRage(&scp{id: 3}))
}

func TestCalmingDown_LaterSubscriberCanOverride(t *testing.T) {
	f := newFixture(t)
	var entityID uint32
	f.events.CalmingDown.Subscribe(func(a *event.CalmingDownEventArgs) error {
		a.IsAllowed = false
		return nil
	})
	f.events.CalmingDown.Subscribe(func(a *event.CalmingDownEventArgs) error {
		entityID = a.Entity.ID()
		a.IsAllowed = true
		return nil
	})

	assert.True(t, f.resetRage(&scp{id: 9}))
	assert.Equal(t, uint32(9), entityID)
}

func TestCalmingDown_ErrorReturnsFlagAsItStood(t *testing.T) {
	f := newFixture(t)
	f.events.CalmingDown.Subscribe(func(a *event.CalmingDownEventArgs) error {
		a.IsAllowed = false
		return errors.New("half done")
	})

	assert.False(t, f.resetRage(&scp{}))
}

func TestCalmingDown_PanicPropagates(t *testing.T) {
	f := newFixture(t)
	f.events.CalmingDown.Subscribe(func(*event.CalmingDownEventArgs) error {
		panic("unwrapped")
	})

	assert.Panics(t, func() { f.resetRage(&scp{}) })
}

func TestCalmingDown_KillSwitchPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.events.CalmingDown.Subscribe(func(a *event.CalmingDownEventArgs) error {
		a.IsAllowed = false
		return nil
	})
	f.kill.Set(true)

	assert.True(t, f.resetRage(&scp{}))
}

// ---------------------------------------------------------------------------
// Install / Uninstall
// ---------------------------------------------------------------------------

func TestUninstall(t *testing.T) {
	table := hook.NewTable()
	p := patches.NewPatcher(&hook.Switch{}, event.Builtin(event.NewBus()))
	require.NoError(t, p.Install(table))
	assert.True(t, table.Patched(patches.EnragingTarget))
	assert.True(t, table.Patched(patches.CalmingDownTarget))

	require.NoError(t, p.Uninstall(table))
	assert.Empty(t, table.Targets())

	err := p.Uninstall(table)
	assert.True(t, exilederr.IsNotFound(err))
}
