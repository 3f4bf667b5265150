package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/pickup"
	"github.com/cory-johannsen/undead/internal/game/player"
	"github.com/cory-johannsen/undead/internal/game/wave"
	"github.com/cory-johannsen/undead/internal/game/zombie"
)

func TestStats_TalliesBusEvents(t *testing.T) {
	bus := event.NewBus()
	s := NewStats(bus, zaptest.NewLogger(t))

	event.Publish(bus, zombie.TopicDied, (*zombie.Agent)(nil))
	event.Publish(bus, zombie.TopicDied, (*zombie.Agent)(nil))
	event.Publish(bus, player.TopicShot, player.Shot{Damage: 12})
	event.Publish(bus, player.TopicShot, player.Shot{Damage: 9})
	event.Publish(bus, pickup.TopicCollected, pickup.Collected{Kind: pickup.Ammo, Amount: 12})
	event.Publish(bus, wave.TopicWaveCleared, 1)

	assert.Equal(t, Summary{
		Kills:         2,
		Shots:         2,
		DamageDealt:   21,
		Pickups:       1,
		WavesCleared:  1,
		UpgradePoints: 2,
	}, s.Summary())
}

func TestStats_CloseStopsCounting(t *testing.T) {
	bus := event.NewBus()
	s := NewStats(bus, nil)
	s.Close()
	event.Publish(bus, player.TopicShot, player.Shot{Damage: 5})
	assert.Zero(t, s.Summary())
	assert.Zero(t, bus.SubscriberCount(player.TopicShot.Name()))
}
