package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/telemetry"
	"github.com/pthm-cable/qsoup/traits"
)

// Census is the population summary shown by the HUD panels.
type Census struct {
	Tick          int32
	SimTime       float64
	Creatures     int
	Plants        int
	MaxGeneration int
	AvgQ          float64        // mean of each live creature's average Q value
	Species       map[string]int // live creatures per species label
}

// Census summarises the live population.
func (g *Game) Census() Census {
	out := Census{
		Tick:    g.tick,
		SimTime: g.simTime,
		Species: make(map[string]int),
	}
	var sumQ float64
	for i := range g.slots {
		s := &g.slots[i]
		if !s.body.Alive {
			continue
		}
		if s.c == nil {
			out.Plants++
			continue
		}
		out.Creatures++
		out.MaxGeneration = max(out.MaxGeneration, s.c.Generation)
		sumQ += s.c.Policy.Average()
		out.Species[traits.SpeciesLabel(s.c.Genome)]++
	}
	if out.Creatures > 0 {
		out.AvgQ = sumQ / float64(out.Creatures)
	}
	return out
}

// Elapsed formats the simulated time as "1h 2m 3s", dropping leading zero units.
func (c Census) Elapsed() string {
	return FormatElapsed(c.SimTime)
}

// FormatElapsed formats seconds as "1h 2m 3s", dropping leading zero units.
func FormatElapsed(sec float64) string {
	total := int64(sec)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, total/60%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// SpeciesLines returns "label: count" for every live species, sorted by label.
func (c Census) SpeciesLines() []string {
	labels := telemetry.SortedSpecies(c.Species)
	lines := make([]string, len(labels))
	for i, label := range labels {
		lines[i] = fmt.Sprintf("%s: %d", label, c.Species[label])
	}
	return lines
}

// RenderInfo is what a renderer needs to draw one entity.
type RenderInfo struct {
	Entity  ecs.Entity
	Kind    components.Kind
	X, Y    float32
	Radius  float32
	Color   components.Color
	Heading float32 // degrees; zero for plants
}

// Each calls fn for every live entity in arena order.
func (g *Game) Each(fn func(RenderInfo)) {
	for i := range g.slots {
		s := &g.slots[i]
		if !s.body.Alive {
			continue
		}
		info := RenderInfo{
			Entity: s.entity,
			Kind:   s.body.Kind,
			X:      s.pos.X,
			Y:      s.pos.Y,
			Radius: s.body.Radius,
			Color:  s.body.Color,
		}
		if s.heading != nil {
			info.Heading = s.heading.Deg
		}
		fn(info)
	}
}

// Creature returns a copy of a live creature's state.
func (g *Game) Creature(e ecs.Entity) (components.Creature, bool) {
	if !g.world.Alive(e) || !g.creatureMap.Has(e) {
		return components.Creature{}, false
	}
	return *g.creatureMap.Get(e), true
}

// Body returns a copy of a live entity's shared state.
func (g *Game) Body(e ecs.Entity) (components.Body, bool) {
	if !g.world.Alive(e) || !g.bodyMap.Has(e) {
		return components.Body{}, false
	}
	return *g.bodyMap.Get(e), true
}

// EntityAt returns the live creature closest to (x, y) within maxDist.
func (g *Game) EntityAt(x, y, maxDist float32) (ecs.Entity, bool) {
	var best ecs.Entity
	bestSq := maxDist * maxDist
	found := false
	for i := range g.slots {
		s := &g.slots[i]
		if s.c == nil || !s.body.Alive {
			continue
		}
		dx, dy := s.pos.X-x, s.pos.Y-y
		if d := dx*dx + dy*dy; d <= bestSq {
			best, bestSq, found = s.entity, d, true
		}
	}
	return best, found
}
