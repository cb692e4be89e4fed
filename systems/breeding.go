package systems

import (
	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/random"
	"github.com/pthm-cable/qsoup/traits"
)

// Birth describes a creature waiting to be spawned.
// The caller assigns the ID when it creates the entity.
type Birth struct {
	Pos      components.Position
	Heading  components.Heading
	Color    components.Color
	Creature components.Creature
}

// CanReproduce reports whether the creature has surplus energy and no cooldown.
func CanReproduce(cfg *config.Config, c *components.Creature) bool {
	return c.Energy > float32(cfg.Reproduction.Threshold) && c.ReproCooldown <= 0
}

// Reproduce splits self's energy with a new child whose genome, colour and
// policy are mixed from self and other. Passing the same agent twice is
// self-pollination. Cooldowns are left to the caller.
func Reproduce(env *Env, self, other *Agent) Birth {
	cfg := env.Cfg
	rng := env.Rng

	share := float32(cfg.Reproduction.ChildShare)
	childEnergy := self.C.Energy * share
	self.C.Energy -= childEnergy

	genome := traits.CrossoverAndMutate(self.C.Genome, other.C.Genome, cfg.Mutation, rng)

	jitter := cfg.Reproduction.ColorJitter
	mix := func(a, b uint8) uint8 {
		v := (int(a)+int(b))/2 + random.IntBetween(rng, -jitter, jitter)
		return uint8(clampInt(v, 0, 255))
	}
	sc, oc := self.Body.Color, other.Body.Color
	color := components.Color{
		R: mix(sc.R, oc.R),
		G: mix(sc.G, oc.G),
		B: mix(sc.B, oc.B),
		A: cfg.Creature.Alpha,
	}

	q := policy.Inherit(&self.C.Policy, &other.C.Policy, rng)

	self.C.Offspring++
	if other != self {
		other.C.Offspring++
	}

	return Birth{
		Pos:     *self.Pos,
		Heading: components.Heading{Deg: random.Uniform32(rng, 0, 360)},
		Color:   color,
		Creature: components.Creature{
			Genome:     genome,
			Generation: max(self.C.Generation, other.C.Generation) + 1,
			Energy:     childEnergy,
			Policy:     q,
		},
	}
}

// Founder draws a creature for the initial population.
func Founder(cfg *config.Config, rng random.Source) Birth {
	f := cfg.Founders
	m := float32(f.SpawnMargin)
	channel := func() uint8 {
		return uint8(clampInt(f.ColorBase+rng.Intn(f.ColorSpan), 0, 255))
	}

	return Birth{
		Pos: components.Position{
			X: random.Uniform32(rng, m, cfg.Derived.WorldW32-m),
			Y: random.Uniform32(rng, m, cfg.Derived.WorldH32-m),
		},
		Heading: components.Heading{Deg: random.Uniform32(rng, 0, 360)},
		Color: components.Color{
			R: channel(),
			G: channel(),
			B: channel(),
			A: cfg.Creature.Alpha,
		},
		Creature: components.Creature{
			Genome: traits.Random(f.FounderRanges, rng),
			Energy: float32(cfg.Creature.InitialEnergy),
		},
	}
}
