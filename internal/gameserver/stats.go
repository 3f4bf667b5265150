package gameserver

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/pickup"
	"github.com/cory-johannsen/undead/internal/game/player"
	"github.com/cory-johannsen/undead/internal/game/wave"
	"github.com/cory-johannsen/undead/internal/game/zombie"
)

// Summary is a point-in-time copy of the session statistics.
type Summary struct {
	Kills        int
	Shots        int
	DamageDealt  int
	Pickups      int
	WavesCleared int
	// UpgradePoints accrue one per kill.
	UpgradePoints int
}

// Stats tallies the session from bus events.
type Stats struct {
	summary Summary
	logger  *zap.Logger
	subs    []*event.Subscription
}

// NewStats subscribes a Stats to bus.
func NewStats(bus *event.Bus, logger *zap.Logger) *Stats {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stats{logger: logger}
	s.subs = append(s.subs,
		event.Subscribe(bus, zombie.TopicDied, func(*zombie.Agent) {
			s.summary.Kills++
			s.summary.UpgradePoints++
		}),
		event.Subscribe(bus, player.TopicShot, func(shot player.Shot) {
			s.summary.Shots++
			s.summary.DamageDealt += shot.Damage
		}),
		event.Subscribe(bus, pickup.TopicCollected, func(pickup.Collected) {
			s.summary.Pickups++
		}),
		event.Subscribe(bus, wave.TopicWaveCleared, func(n int) {
			s.summary.WavesCleared++
			s.logger.Info("wave summary",
				zap.Int("wave", n),
				zap.Int("kills", s.summary.Kills),
				zap.Int("shots", s.summary.Shots),
				zap.Int("pickups", s.summary.Pickups),
			)
		}),
	)
	return s
}

// Summary returns the current tallies.
func (s *Stats) Summary() Summary { return s.summary }

// Close unsubscribes from the bus.
func (s *Stats) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
}
