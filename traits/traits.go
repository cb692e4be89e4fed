// Package traits defines the heritable genome of a creature.
package traits

import (
	"fmt"

	"github.com/pthm-cable/qsoup/random"
)

// Hard bounds applied after every mutation.
const (
	MinSpeed      = 10.0
	MaxSpeed      = 200.0
	MinAttack     = 0.0
	MaxAttack     = 50.0
	MinSense      = 20.0
	MaxSense      = 300.0
	MinResistance = 0.0
	MaxResistance = 1.0
	MinLegs       = 1
)

// Genome is the trait vector carried by a creature.
// It is a value: copying a Genome copies every trait.
type Genome struct {
	Speed            float32 `yaml:"speed" inspect:"bar,max:200,fmt:%.1f"`
	Attack           float32 `yaml:"attack" inspect:"bar,max:50,fmt:%.1f"`
	Poison           bool    `yaml:"poison" inspect:"bool"`
	Legs             int     `yaml:"legs" inspect:"label"`
	SenseRange       float32 `yaml:"sense_range" inspect:"bar,max:300,fmt:%.0f"`
	PoisonResistance float32 `yaml:"poison_resistance" inspect:"bar,max:1"`
}

// Mutation holds per-field mutation probabilities and spans.
// A numeric span s means the field moves by a uniform draw in [-s, s].
type Mutation struct {
	SpeedRate      float64 `yaml:"speed_rate"`
	SpeedSpan      float32 `yaml:"speed_span"`
	AttackRate     float64 `yaml:"attack_rate"`
	AttackSpan     float32 `yaml:"attack_span"`
	SenseRate      float64 `yaml:"sense_rate"`
	SenseSpan      float32 `yaml:"sense_span"`
	LegsRate       float64 `yaml:"legs_rate"`
	PoisonFlipRate float64 `yaml:"poison_flip_rate"`
	ResistanceRate float64 `yaml:"resistance_rate"`
	ResistanceSpan float32 `yaml:"resistance_span"`
}

// DefaultMutation returns the stock mutation table.
func DefaultMutation() Mutation {
	return Mutation{
		SpeedRate:      0.10,
		SpeedSpan:      0.5,
		AttackRate:     0.10,
		AttackSpan:     1,
		SenseRate:      0.10,
		SenseSpan:      20,
		LegsRate:       0.05,
		PoisonFlipRate: 0.05,
		ResistanceRate: 0.10,
		ResistanceSpan: 0.2,
	}
}

// CrossoverAndMutate builds a child genome. Each field is inherited from g1 or
// g2 with equal probability, then mutated independently, then clamped.
// The draw order is fixed so a seeded source reproduces the same child.
func CrossoverAndMutate(g1, g2 Genome, m Mutation, rng random.Source) Genome {
	child := Genome{
		Speed:            pick(rng, g1.Speed, g2.Speed),
		Attack:           pick(rng, g1.Attack, g2.Attack),
		Poison:           pick(rng, g1.Poison, g2.Poison),
		Legs:             pick(rng, g1.Legs, g2.Legs),
		SenseRange:       pick(rng, g1.SenseRange, g2.SenseRange),
		PoisonResistance: pick(rng, g1.PoisonResistance, g2.PoisonResistance),
	}

	if random.Chance(rng, m.SpeedRate) {
		child.Speed += random.Uniform32(rng, -m.SpeedSpan, m.SpeedSpan)
	}
	if random.Chance(rng, m.AttackRate) {
		child.Attack += random.Uniform32(rng, -m.AttackSpan, m.AttackSpan)
	}
	if random.Chance(rng, m.SenseRate) {
		child.SenseRange += random.Uniform32(rng, -m.SenseSpan, m.SenseSpan)
	}
	if random.Chance(rng, m.LegsRate) {
		child.Legs += random.IntBetween(rng, -1, 1)
	}
	if random.Chance(rng, m.PoisonFlipRate) {
		child.Poison = !child.Poison
	}
	if random.Chance(rng, m.ResistanceRate) {
		child.PoisonResistance += random.Uniform32(rng, -m.ResistanceSpan, m.ResistanceSpan)
	}

	return child.Clamp()
}

func pick[T any](rng random.Source, a, b T) T {
	if random.Coin(rng) {
		return a
	}
	return b
}

// Clamp returns g with every field forced into its declared range.
func (g Genome) Clamp() Genome {
	g.Speed = clamp32(g.Speed, MinSpeed, MaxSpeed)
	g.Attack = clamp32(g.Attack, MinAttack, MaxAttack)
	g.SenseRange = clamp32(g.SenseRange, MinSense, MaxSense)
	g.PoisonResistance = clamp32(g.PoisonResistance, MinResistance, MaxResistance)
	if g.Legs < MinLegs {
		g.Legs = MinLegs
	}
	return g
}

// InBounds reports whether every field lies in its declared range.
func (g Genome) InBounds() bool {
	return g.Speed >= MinSpeed && g.Speed <= MaxSpeed &&
		g.Attack >= MinAttack && g.Attack <= MaxAttack &&
		g.SenseRange >= MinSense && g.SenseRange <= MaxSense &&
		g.PoisonResistance >= MinResistance && g.PoisonResistance <= MaxResistance &&
		g.Legs >= MinLegs
}

// FounderRanges bounds the genomes of the initial population.
type FounderRanges struct {
	SpeedMin      float32 `yaml:"speed_min"`
	SpeedMax      float32 `yaml:"speed_max"`
	AttackMin     float32 `yaml:"attack_min"`
	AttackMax     float32 `yaml:"attack_max"`
	PoisonChance  float64 `yaml:"poison_chance"`
	LegsMin       int     `yaml:"legs_min"`
	LegsMax       int     `yaml:"legs_max"`
	SenseMin      float32 `yaml:"sense_min"`
	SenseMax      float32 `yaml:"sense_max"`
	ResistanceMin float32 `yaml:"resistance_min"`
	ResistanceMax float32 `yaml:"resistance_max"`
}

// Random draws a founder genome from the given ranges.
func Random(r FounderRanges, rng random.Source) Genome {
	g := Genome{
		Speed:            random.Uniform32(rng, r.SpeedMin, r.SpeedMax),
		Attack:           random.Uniform32(rng, r.AttackMin, r.AttackMax),
		Poison:           random.Chance(rng, r.PoisonChance),
		Legs:             random.IntBetween(rng, r.LegsMin, r.LegsMax),
		SenseRange:       random.Uniform32(rng, r.SenseMin, r.SenseMax),
		PoisonResistance: random.Uniform32(rng, r.ResistanceMin, r.ResistanceMax),
	}
	return g.Clamp()
}

// SpeciesLabel buckets the genome into a stable display string, e.g.
// "Mid_MedAtk_Poison_Leg3_MidRes".
func SpeciesLabel(g Genome) string {
	var speed string
	switch {
	case g.Speed < 60:
		speed = "Slow"
	case g.Speed < 120:
		speed = "Mid"
	default:
		speed = "Fast"
	}

	var attack string
	switch {
	case g.Attack < 10:
		attack = "LowAtk"
	case g.Attack < 30:
		attack = "MedAtk"
	default:
		attack = "HighAtk"
	}

	poison := "NonPois"
	if g.Poison {
		poison = "Poison"
	}

	var res string
	switch {
	case g.PoisonResistance < 0.33:
		res = "LowRes"
	case g.PoisonResistance < 0.66:
		res = "MidRes"
	default:
		res = "HighRes"
	}

	return fmt.Sprintf("%s_%s_%s_Leg%d_%s", speed, attack, poison, g.Legs, res)
}

func clamp32(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
