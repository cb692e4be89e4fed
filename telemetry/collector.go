package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/qsoup/components"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	births       int
	pairedBirths int
	starved      int
	eaten        int
	plantsEaten  int
	poisonings   int
	poisonDeaths int
	plantsAdded  int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a birth; paired is false for self-pollination.
func (c *Collector) RecordBirth(paired bool) {
	c.births++
	if paired {
		c.pairedBirths++
	}
}

// RecordDeath records a creature death by cause.
func (c *Collector) RecordDeath(cause components.DeathCause) {
	switch cause {
	case components.Starved:
		c.starved++
	case components.Eaten:
		c.eaten++
	}
}

// RecordGraze records a plant being eaten.
func (c *Collector) RecordGraze() {
	c.plantsEaten++
}

// RecordPoisoning records a predator taking poison damage.
func (c *Collector) RecordPoisoning(fatal bool) {
	c.poisonings++
	if fatal {
		c.poisonDeaths++
	}
}

// RecordRefill records plants added by the refill phase.
func (c *Collector) RecordRefill(n int) {
	c.plantsAdded += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the population sample,
// then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s *Sample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Creatures: s.Count(),
		Plants:    s.Plants,

		Births:       c.births,
		PairedBirths: c.pairedBirths,
		Starved:      c.starved,
		Eaten:        c.eaten,
		PlantsEaten:  c.plantsEaten,
		Poisonings:   c.poisonings,
		PoisonDeaths: c.poisonDeaths,
		PlantsAdded:  c.plantsAdded,

		Species:      s.Species,
		SpeciesCount: len(s.Species),
	}

	stats.EnergyMean, stats.EnergyStd, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = ComputeEnergyStats(s.Energies)
	stats.GenerationMean, _ = meanStd(s.Generations)
	stats.AvgQMean, stats.AvgQStd = meanStd(s.AvgQs)
	stats.SpeedMean, _ = meanStd(s.Speeds)
	stats.AttackMean, _ = meanStd(s.Attacks)
	stats.SenseMean, _ = meanStd(s.Senses)
	if n := s.Count(); n > 0 {
		stats.GenerationMax = int(floats.Max(s.Generations))
		stats.AttackMax = floats.Max(s.Attacks)
		stats.PoisonFraction = float64(s.Poisonous) / float64(n)
	}
	stats.DominantSpecies, stats.DominantCount = Dominant(s.Species)

	c.windowStartTick = currentTick
	c.births = 0
	c.pairedBirths = 0
	c.starved = 0
	c.eaten = 0
	c.plantsEaten = 0
	c.poisonings = 0
	c.poisonDeaths = 0
	c.plantsAdded = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
