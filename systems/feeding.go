package systems

import (
	"github.com/pthm-cable/qsoup/components"
)

// Graze consumes a live plant: the plant dies, the creature gains energy and
// is rewarded.
func Graze(env *Env, a *Agent, plant *components.Body) {
	if !a.Body.Alive || !plant.Alive {
		return
	}
	plant.Alive = false
	a.C.Energy += float32(env.Cfg.Energy.PlantGain)
	Learn(env, a, env.Cfg.Learning.PlantReward)
}

// Outcome reports what a predation attempt did.
type Outcome uint8

const (
	NoContest Outcome = iota // equal attack, or one side already dead
	Consumed                 // winner ate the loser
	Poisoned                 // winner ate the loser and took poison damage
	Fatal                    // winner died from the poison
)

// Resolve settles contact between two live creatures. The one with the
// higher attack eats the other; equal attack has no effect.
func Resolve(env *Env, a, b *Agent) (winner *Agent, out Outcome) {
	if !a.Body.Alive || !b.Body.Alive {
		return nil, NoContest
	}
	switch {
	case a.C.Genome.Attack > b.C.Genome.Attack:
		return a, Prey(env, a, b)
	case b.C.Genome.Attack > a.C.Genome.Attack:
		return b, Prey(env, b, a)
	default:
		return nil, NoContest
	}
}

// Prey makes winner consume loser. The winner gains the prey energy and a
// reward, then takes poison damage scaled by its resistance if the loser was
// poisonous. A winner left without energy dies on the spot.
func Prey(env *Env, winner, loser *Agent) Outcome {
	cfg := env.Cfg

	Eaten(env, loser)

	winner.C.Energy += float32(cfg.Energy.PreyGain)
	Learn(env, winner, cfg.Learning.PreyReward)

	if !loser.C.Genome.Poison {
		return Consumed
	}
	winner.C.Energy -= float32(cfg.Energy.PoisonDamage) * (1 - winner.C.Genome.PoisonResistance)
	if winner.C.Energy <= 0 {
		Starve(env, winner)
		return Fatal
	}
	return Poisoned
}
