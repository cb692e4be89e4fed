package game

import (
	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/random"
	"github.com/pthm-cable/qsoup/systems"
	"github.com/pthm-cable/qsoup/telemetry"
)

// Step advances the world by one frame of dt seconds. Phases run in order:
// advance, interaction, reproduction, reap, refill. A non-positive dt is
// ignored.
func (g *Game) Step(dt float32) {
	if dt <= 0 {
		return
	}

	g.perfCollector.StartTick()
	env := g.env()

	g.perfCollector.StartPhase(telemetry.PhaseAdvance)
	g.advance(env, dt)

	g.perfCollector.StartPhase(telemetry.PhaseInteraction)
	g.interact(env)

	g.perfCollector.StartPhase(telemetry.PhaseReproduction)
	births := g.reproduce(env)
	g.spawnBirths(births)

	g.perfCollector.StartPhase(telemetry.PhaseReap)
	g.reap()

	g.perfCollector.StartPhase(telemetry.PhaseRefill)
	g.refill()
	g.bind()

	g.tick++
	g.simTime += float64(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// env returns the per-step environment; the arena itself is the view.
func (g *Game) env() *systems.Env {
	return &systems.Env{Cfg: g.cfg, Rng: g.rng, View: arenaView{g}}
}

// arenaView exposes the live entities of the arena to perception.
type arenaView struct{ g *Game }

func (v arenaView) Scan(fn func(systems.Sighting) bool) {
	for i := range v.g.slots {
		s := &v.g.slots[i]
		if !s.body.Alive {
			continue
		}
		sight := systems.Sighting{Entity: s.entity, X: s.pos.X, Y: s.pos.Y, Kind: s.body.Kind}
		if s.c != nil {
			sight.Attack = s.c.Genome.Attack
		}
		if !fn(sight) {
			return
		}
	}
}

// advance steps every live creature. Plants are static.
func (g *Game) advance(env *systems.Env, dt float32) {
	for i := range g.slots {
		s := &g.slots[i]
		if s.c == nil {
			continue
		}
		systems.StepCreature(env, s.agent(), dt)
	}
}

// interact visits every ordered pair (e1, e2) where e1 is a live creature and
// e2 another live entity overlapping it.
func (g *Game) interact(env *systems.Env) {
	for i := range g.slots {
		s1 := &g.slots[i]
		if s1.c == nil {
			continue
		}
		a1 := s1.agent()
		for j := range g.slots {
			if !s1.body.Alive {
				break
			}
			s2 := &g.slots[j]
			if i == j || !s2.body.Alive {
				continue
			}
			if !components.Overlaps(*s1.pos, *s2.pos, s1.body.Radius, s2.body.Radius) {
				continue
			}

			if s2.c == nil {
				systems.Graze(env, a1, s2.body)
				g.collector.RecordGraze()
				g.lifetimeTracker.RecordGraze(s1.c.ID)
				continue
			}

			winner, out := systems.Resolve(env, a1, s2.agent())
			if winner == nil {
				continue
			}
			g.lifetimeTracker.RecordKill(winner.C.ID)
			if out == systems.Poisoned || out == systems.Fatal {
				g.collector.RecordPoisoning(out == systems.Fatal)
				g.lifetimeTracker.RecordPoisoning(winner.C.ID)
			}
		}
	}
}

// pendingBirth is a child waiting to be spawned after the reproduction pass.
type pendingBirth struct {
	birth   systems.Birth
	parents [2]uint32
	paired  bool
}

// reproduce lets every eligible creature produce at most one child. A
// creature scans the other eligible creatures and accepts each with
// partner_chance, falling back to self-pollination. Children are returned,
// not spawned.
func (g *Game) reproduce(env *systems.Env) []pendingBirth {
	var births []pendingBirth
	cooldown := float32(g.cfg.Reproduction.Cooldown)

	for i := range g.slots {
		s := &g.slots[i]
		if s.c == nil || !s.body.Alive || !systems.CanReproduce(g.cfg, s.c) {
			continue
		}

		var partner *slot
		for j := range g.slots {
			o := &g.slots[j]
			if i == j || o.c == nil || !o.body.Alive || !systems.CanReproduce(g.cfg, o.c) {
				continue
			}
			if random.Chance(g.rng, g.cfg.Reproduction.PartnerChance) {
				partner = o
				break
			}
		}

		self := s.agent()
		other := self
		if partner != nil {
			other = partner.agent()
		}
		b := systems.Reproduce(env, self, other)

		s.c.ReproCooldown = cooldown
		if partner != nil {
			partner.c.ReproCooldown = cooldown
		}

		births = append(births, pendingBirth{
			birth:   b,
			parents: [2]uint32{s.c.ID, other.C.ID},
			paired:  partner != nil,
		})
	}
	return births
}
