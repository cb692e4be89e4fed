package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/systems"
	"github.com/pthm-cable/qsoup/telemetry"
	"github.com/pthm-cable/qsoup/traits"
)

// spawnInitialPopulation creates the founder creatures and the initial plants.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.cfg.Population.InitialCreatures; i++ {
		g.spawnCreature(systems.Founder(g.cfg, g.rng), false)
	}
	for i := 0; i < g.cfg.Population.InitialPlants; i++ {
		g.spawnPlant(systems.PlacePlant(g.cfg, g.rng))
	}
}

// spawnCreature creates a creature entity from a birth record and assigns its ID.
// Invalidates cached slots.
func (g *Game) spawnCreature(b systems.Birth, paired bool) ecs.Entity {
	pos := b.Pos
	heading := b.Heading
	body := systems.CreatureBody(g.cfg, b.Color)
	c := b.Creature
	c.ID = g.nextID
	c.BornTick = g.tick
	g.nextID++

	e := g.creatureMapper.NewEntity(&pos, &heading, &body, &c)
	g.entities = append(g.entities, e)

	g.lifetimeTracker.Register(c.ID, g.tick, c.Generation, traits.SpeciesLabel(c.Genome), paired, c.Energy)
	return e
}

// spawnPlant creates a plant entity. Invalidates cached slots.
func (g *Game) spawnPlant(pos components.Position) ecs.Entity {
	body := systems.PlantBody(g.cfg)
	e := g.plantMapper.NewEntity(&pos, &body, &components.Plant{})
	g.entities = append(g.entities, e)
	return e
}

// spawnBirths appends buffered children to the arena.
func (g *Game) spawnBirths(births []pendingBirth) {
	for _, pb := range births {
		g.spawnCreature(pb.birth, pb.paired)
		g.lifetimeTracker.RecordChild(pb.parents[0])
		if pb.paired {
			g.lifetimeTracker.RecordChild(pb.parents[1])
		}
		g.collector.RecordBirth(pb.paired)
	}
}

// reap removes every dead entity and compacts the arena, keeping the order
// of the survivors.
func (g *Game) reap() {
	var dead []ecs.Entity
	var records []telemetry.DeathRecord

	live := g.entities[:0]
	for _, e := range g.entities {
		if g.bodyMap.Get(e).Alive {
			live = append(live, e)
			continue
		}
		dead = append(dead, e)
		if !g.creatureMap.Has(e) {
			continue
		}
		c := g.creatureMap.Get(e)
		g.collector.RecordDeath(c.Death)
		if rec, ok := g.lifetimeTracker.Retire(c, g.tick, c.Policy.Average()); ok {
			records = append(records, rec)
		}
	}
	g.entities = live

	for _, e := range dead {
		g.world.RemoveEntity(e)
	}

	if len(records) > 0 {
		if err := g.outputManager.WriteDeaths(records); err != nil {
			slog.Error("failed to write deaths", "error", err)
		}
	}
}

// refill adds a batch of plants when the live count has dropped below the
// threshold. Runs after reap, so every plant in the arena is live.
func (g *Game) refill() {
	plants := 0
	for _, e := range g.entities {
		if g.bodyMap.Get(e).Kind == components.KindPlant {
			plants++
		}
	}

	n := systems.RefillCount(g.cfg, plants)
	for i := 0; i < n; i++ {
		g.spawnPlant(systems.PlacePlant(g.cfg, g.rng))
	}
	if n > 0 {
		g.collector.RecordRefill(n)
		slog.Debug("plants_refilled", "tick", g.tick, "before", plants, "added", n)
	}
}

// bind rebuilds the cached component pointers for the arena. Must run after
// any entity is created or removed, before slots are read again.
func (g *Game) bind() {
	g.slots = g.slots[:0]
	for _, e := range g.entities {
		if g.creatureMap.Has(e) {
			pos, heading, body, c := g.creatureMapper.Get(e)
			g.slots = append(g.slots, slot{entity: e, pos: pos, heading: heading, body: body, c: c})
			continue
		}
		g.slots = append(g.slots, slot{entity: e, pos: g.posMap.Get(e), body: g.bodyMap.Get(e)})
	}
}
