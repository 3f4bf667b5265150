// Package combat carries zombie melee from windup to damage. An attacker
// announces a PendingAttack tagged with a fresh token; the target queues it
// and applies damage only if, when the windup has elapsed, the attacker
// still holds that same token.
package combat

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/game/event"
)

// Attacker is the side of an attack the resolver consults at resolution
// time.
type Attacker interface {
	ID() string
	// PendingToken returns the token of the attack currently being wound up,
	// or uuid.Nil when the attacker is not attacking.
	PendingToken() uuid.UUID
	AttackDamage() int
}

// PendingAttack announces an attack windup against Target.
type PendingAttack struct {
	Attacker Attacker
	Target   any
	Token    uuid.UUID
}

// TopicPendingAttack carries every attack windup.
var TopicPendingAttack = event.NewTopic[PendingAttack]("combat.pending_attack")

// NewToken returns a fresh attack token.
func NewToken() uuid.UUID { return uuid.New() }

type queued struct {
	attack PendingAttack
	due    time.Duration
}

// Resolver matures queued attacks on simulation time.
type Resolver struct {
	windup time.Duration
	queue  []queued
	logger *zap.Logger
}

// NewResolver returns a Resolver whose attacks land windup after they are
// queued.
func NewResolver(windup time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{windup: windup, logger: logger}
}

// Queue schedules pa to resolve at now+windup.
//
// Precondition: pa.Attacker must not be nil.
func (r *Resolver) Queue(pa PendingAttack, now time.Duration) {
	if pa.Attacker == nil {
		panic("combat.Resolver.Queue: attacker must not be nil")
	}
	r.queue = append(r.queue, queued{attack: pa, due: now + r.windup})
}

// Len returns the number of attacks still winding up.
func (r *Resolver) Len() int { return len(r.queue) }

// Resolve matures every attack due at or before now and returns the total
// damage of those whose token is still live. Stale attacks are dropped.
func (r *Resolver) Resolve(now time.Duration) int {
	damage := 0
	kept := r.queue[:0]
	for _, q := range r.queue {
		if q.due > now {
			kept = append(kept, q)
			continue
		}
		pa := q.attack
		if pa.Token == uuid.Nil || pa.Attacker.PendingToken() != pa.Token {
			r.logger.Debug("stale attack token; no damage",
				zap.String("attacker", pa.Attacker.ID()),
				zap.Stringer("token", pa.Token),
			)
			continue
		}
		d := pa.Attacker.AttackDamage()
		r.logger.Debug("attack landed",
			zap.String("attacker", pa.Attacker.ID()),
			zap.Stringer("token", pa.Token),
			zap.Int("damage", d),
		)
		damage += d
	}
	for i := len(kept); i < len(r.queue); i++ {
		r.queue[i] = queued{}
	}
	r.queue = kept
	return damage
}
