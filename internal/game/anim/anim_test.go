package anim_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/undead/internal/game/anim"
	"github.com/cory-johannsen/undead/internal/game/event"
)

var lib = anim.Library{
	"idle":   2 * time.Second,
	"attack": time.Second,
	"death":  1500 * time.Millisecond,
}

type owner struct{ name string }

func record(bus *event.Bus) (loops, ends *[]anim.Event) {
	l, e := []anim.Event{}, []anim.Event{}
	event.Subscribe(bus, anim.TopicLooped, func(ev anim.Event) { l = append(l, ev) })
	event.Subscribe(bus, anim.TopicEnded, func(ev anim.Event) { e = append(e, ev) })
	return &l, &e
}

func TestPlay_UnknownClip(t *testing.T) {
	m := anim.NewMixer(&owner{}, lib, event.NewBus())
	err := m.Play("dance", anim.Loop)
	assert.ErrorIs(t, err, anim.ErrUnknownClip)
	assert.Equal(t, "", m.Current())
}

func TestUpdate_LoopPublishesEachWrap(t *testing.T) {
	bus := event.NewBus()
	o := &owner{"z1"}
	loops, ends := record(bus)
	m := anim.NewMixer(o, lib, bus)
	require.NoError(t, m.Play("attack", anim.Loop))

	m.Update(900 * time.Millisecond)
	assert.Empty(t, *loops)
	m.Update(200 * time.Millisecond)
	require.Len(t, *loops, 1)
	assert.Equal(t, anim.Event{Owner: o, Clip: "attack"}, (*loops)[0])
	m.Update(2 * time.Second)
	assert.Len(t, *loops, 3)
	assert.Empty(t, *ends)
}

func TestUpdate_OnceEndsAndHolds(t *testing.T) {
	bus := event.NewBus()
	loops, ends := record(bus)
	m := anim.NewMixer(&owner{}, lib, bus)
	require.NoError(t, m.Play("death", anim.Once))

	m.Update(time.Second)
	assert.False(t, m.Finished())
	m.Update(time.Second)
	assert.True(t, m.Finished())
	m.Update(5 * time.Second)

	assert.Len(t, *ends, 1)
	assert.Empty(t, *loops)
	assert.Equal(t, "death", m.Current())
}

func TestPlay_SameLoopingClipIsNoop(t *testing.T) {
	bus := event.NewBus()
	loops, _ := record(bus)
	m := anim.NewMixer(&owner{}, lib, bus)
	require.NoError(t, m.Play("attack", anim.Loop))
	m.Update(600 * time.Millisecond)
	require.NoError(t, m.Play("attack", anim.Loop))
	m.Update(600 * time.Millisecond)
	assert.Len(t, *loops, 1, "replay must not restart the clip")
}

func TestUpdate_HandlerSwitchingClipStopsWraps(t *testing.T) {
	bus := event.NewBus()
	m := anim.NewMixer(&owner{}, lib, bus)
	wraps := 0
	event.Subscribe(bus, anim.TopicLooped, func(anim.Event) {
		wraps++
		_ = m.Play("idle", anim.Loop)
	})
	require.NoError(t, m.Play("attack", anim.Loop))
	m.Update(5 * time.Second)
	assert.Equal(t, 1, wraps)
	assert.Equal(t, "idle", m.Current())
}

func TestLibrary_Validate(t *testing.T) {
	assert.NoError(t, lib.Validate())
	assert.Error(t, anim.Library{"bad": 0}.Validate())
}

func TestNewMixer_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { anim.NewMixer(nil, nil, event.NewBus()) })
	assert.Panics(t, func() { anim.NewMixer(nil, lib, nil) })
}
