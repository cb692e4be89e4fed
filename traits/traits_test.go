package traits

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/qsoup/random"
)

func TestCrossoverAndMutateBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := DefaultMutation()
	// Exaggerated spans push fields past their bounds often.
	wild := Mutation{
		SpeedRate: 1, SpeedSpan: 500,
		AttackRate: 1, AttackSpan: 100,
		SenseRate: 1, SenseSpan: 400,
		LegsRate: 1,
		PoisonFlipRate: 0.5,
		ResistanceRate: 1, ResistanceSpan: 2,
	}

	g1 := Genome{Speed: 10, Attack: 0, Legs: 1, SenseRange: 20, PoisonResistance: 0}
	g2 := Genome{Speed: 200, Attack: 50, Poison: true, Legs: 1, SenseRange: 300, PoisonResistance: 1}

	for _, mut := range []Mutation{m, wild} {
		for i := 0; i < 2000; i++ {
			child := CrossoverAndMutate(g1, g2, mut, rng)
			if !child.InBounds() {
				t.Fatalf("child out of bounds: %+v", child)
			}
		}
	}
}

func TestCrossoverAndMutateDeterministic(t *testing.T) {
	g1 := Genome{Speed: 40, Attack: 3, Legs: 2, SenseRange: 80, PoisonResistance: 0.3}
	g2 := Genome{Speed: 90, Attack: 12, Poison: true, Legs: 4, SenseRange: 140, PoisonResistance: 0.8}

	a := CrossoverAndMutate(g1, g2, DefaultMutation(), rand.New(rand.NewSource(9)))
	b := CrossoverAndMutate(g1, g2, DefaultMutation(), rand.New(rand.NewSource(9)))
	if a != b {
		t.Errorf("same seed produced different children: %+v vs %+v", a, b)
	}
}

func TestCrossoverWithoutMutation(t *testing.T) {
	g1 := Genome{Speed: 40, Attack: 3, Legs: 2, SenseRange: 80, PoisonResistance: 0.3}
	g2 := Genome{Speed: 90, Attack: 12, Poison: true, Legs: 4, SenseRange: 140, PoisonResistance: 0.8}

	// Intn always 0 picks g1 on every coin; Float64 0.99 skips every mutation.
	child := CrossoverAndMutate(g1, g2, DefaultMutation(), random.Constant{F: 0.99, I: 0})
	if child != g1 {
		t.Errorf("child = %+v, want copy of first parent %+v", child, g1)
	}

	child = CrossoverAndMutate(g1, g2, DefaultMutation(), random.Constant{F: 0.99, I: 1})
	if child != g2 {
		t.Errorf("child = %+v, want copy of second parent %+v", child, g2)
	}
}

func TestLegsNeverBelowOne(t *testing.T) {
	g := Genome{Speed: 50, Legs: 1, SenseRange: 100}
	m := Mutation{LegsRate: 1}
	// I=0 makes IntBetween(-1, 1) return -1.
	child := CrossoverAndMutate(g, g, m, random.Constant{F: 0, I: 0})
	if child.Legs != 1 {
		t.Errorf("legs = %d, want 1", child.Legs)
	}
}

func TestRandomFounder(t *testing.T) {
	r := FounderRanges{
		SpeedMin: 30, SpeedMax: 70,
		AttackMin: 0, AttackMax: 5,
		PoisonChance: 0.3,
		LegsMin: 1, LegsMax: 4,
		SenseMin: 50, SenseMax: 150,
		ResistanceMin: 0, ResistanceMax: 1,
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		g := Random(r, rng)
		if g.Speed < 30 || g.Speed > 70 {
			t.Fatalf("speed %v outside founder range", g.Speed)
		}
		if g.Attack < 0 || g.Attack > 5 {
			t.Fatalf("attack %v outside founder range", g.Attack)
		}
		if g.Legs < 1 || g.Legs > 4 {
			t.Fatalf("legs %d outside founder range", g.Legs)
		}
		if !g.InBounds() {
			t.Fatalf("founder out of bounds: %+v", g)
		}
	}
}

func TestSpeciesLabel(t *testing.T) {
	tests := []struct {
		name string
		g    Genome
		want string
	}{
		{
			"mixed buckets",
			Genome{Speed: 80, Attack: 15, Poison: true, Legs: 3, PoisonResistance: 0.5},
			"Mid_MedAtk_Poison_Leg3_MidRes",
		},
		{
			"low edges",
			Genome{Speed: 10, Attack: 0, Legs: 1, PoisonResistance: 0},
			"Slow_LowAtk_NonPois_Leg1_LowRes",
		},
		{
			"thresholds are exclusive below",
			Genome{Speed: 120, Attack: 30, Legs: 2, PoisonResistance: 0.66},
			"Fast_HighAtk_NonPois_Leg2_HighRes",
		},
		{
			"just under thresholds",
			Genome{Speed: 59.9, Attack: 9.9, Poison: true, Legs: 5, PoisonResistance: 0.32},
			"Slow_LowAtk_Poison_Leg5_LowRes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpeciesLabel(tt.g); got != tt.want {
				t.Errorf("SpeciesLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
