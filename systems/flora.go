package systems

import (
	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/random"
)

// PlacePlant returns a uniform position inside the plant margin.
func PlacePlant(cfg *config.Config, rng random.Source) components.Position {
	m := float32(cfg.Plants.Margin)
	return components.Position{
		X: random.Uniform32(rng, m, cfg.Derived.WorldW32-m),
		Y: random.Uniform32(rng, m, cfg.Derived.WorldH32-m),
	}
}

// PlantBody returns the body of a freshly spawned plant.
func PlantBody(cfg *config.Config) components.Body {
	c := cfg.Plants.Color
	return components.Body{
		Kind:   components.KindPlant,
		Radius: float32(cfg.Plants.Radius),
		Color:  components.Color{R: c.R, G: c.G, B: c.B, A: c.A},
		Alive:  true,
	}
}

// CreatureBody returns the body of a freshly spawned creature.
func CreatureBody(cfg *config.Config, color components.Color) components.Body {
	return components.Body{
		Kind:   components.KindCreature,
		Radius: float32(cfg.Creature.Radius),
		Color:  color,
		Alive:  true,
	}
}

// RefillCount is how many plants to add given the live plant count.
func RefillCount(cfg *config.Config, live int) int {
	if live < cfg.Plants.RefillThreshold {
		return cfg.Plants.RefillBatch
	}
	return 0
}
