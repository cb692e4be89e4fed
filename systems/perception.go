package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/policy"
	"github.com/pthm-cable/qsoup/random"
)

// Sighting is what a creature can see of another entity.
type Sighting struct {
	Entity ecs.Entity
	X, Y   float32
	Kind   components.Kind
	Attack float32 // zero for plants
}

// View is a non-owning window onto the world's live entities.
// It is only valid during the Step call that handed it out.
type View interface {
	// Scan calls fn for each live entity until fn returns false.
	Scan(fn func(Sighting) bool)
}

// ObserveState classifies a creature's surroundings into the 2-bit state.
// Food is any plant or weaker creature in range; a predator is any stronger
// creature in range. Equal attack counts as neither. Without a view the bits
// are drawn from the fallback probabilities.
func ObserveState(env *Env, self *Agent) policy.State {
	if env.View == nil {
		food := random.Chance(env.Rng, env.Cfg.Learning.FallbackFood)
		pred := random.Chance(env.Rng, env.Cfg.Learning.FallbackPredator)
		return policy.NewState(food, pred)
	}

	attack := self.C.Genome.Attack
	rangeSq := self.C.Genome.SenseRange * self.C.Genome.SenseRange
	var food, pred bool

	env.View.Scan(func(s Sighting) bool {
		if s.Entity == self.Entity {
			return true
		}
		if distanceSq(s.X, s.Y, self.Pos.X, self.Pos.Y) > rangeSq {
			return true
		}
		switch {
		case s.Kind == components.KindPlant:
			food = true
		case s.Attack < attack:
			food = true
		case s.Attack > attack:
			pred = true
		}
		return !(food && pred)
	})

	return policy.NewState(food, pred)
}
