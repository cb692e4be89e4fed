package telemetry

import "github.com/pthm-cable/qsoup/components"

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	Generation int
	Species    string
	Paired     bool

	PlantsEaten int
	Kills       int
	Poisonings  int
	Children    int
	PeakEnergy  float32
}

// DeathRecord is one row of deaths.csv.
type DeathRecord struct {
	ID          uint32  `csv:"id"`
	BirthTick   int32   `csv:"birth_tick"`
	DeathTick   int32   `csv:"death_tick"`
	LifetimeSec float32 `csv:"lifetime_sec"`
	Cause       string  `csv:"cause"`
	Generation  int     `csv:"generation"`
	Species     string  `csv:"species"`
	Paired      bool    `csv:"paired_birth"`
	PlantsEaten int     `csv:"plants_eaten"`
	Kills       int     `csv:"kills"`
	Poisonings  int     `csv:"poisonings"`
	Children    int     `csv:"children"`
	PeakEnergy  float32 `csv:"peak_energy"`
	AvgQ        float64 `csv:"avg_q"`
}

// LifetimeTracker manages per-creature lifetime statistics keyed by creature ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{stats: make(map[uint32]*LifetimeStats)}
}

// Register starts tracking a newly spawned creature.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, generation int, species string, paired bool, energy float32) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Generation: generation,
		Species:    species,
		Paired:     paired,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// RecordGraze increments the plants-eaten count.
func (lt *LifetimeTracker) RecordGraze(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.PlantsEaten++
	}
}

// RecordKill increments the kill count.
func (lt *LifetimeTracker) RecordKill(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Kills++
	}
}

// RecordPoisoning increments the poisoning count.
func (lt *LifetimeTracker) RecordPoisoning(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Poisonings++
	}
}

// RecordChild increments the children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint32, energy float32) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Retire stops tracking a dead creature and returns its death record.
// ok is false when the creature was never registered.
func (lt *LifetimeTracker) Retire(c *components.Creature, deathTick int32, avgQ float64) (DeathRecord, bool) {
	s, found := lt.stats[c.ID]
	if !found {
		return DeathRecord{}, false
	}
	delete(lt.stats, c.ID)
	return DeathRecord{
		ID:          c.ID,
		BirthTick:   s.BirthTick,
		DeathTick:   deathTick,
		LifetimeSec: c.Lifetime,
		Cause:       c.Death.String(),
		Generation:  s.Generation,
		Species:     s.Species,
		Paired:      s.Paired,
		PlantsEaten: s.PlantsEaten,
		Kills:       s.Kills,
		Poisonings:  s.Poisonings,
		Children:    s.Children,
		PeakEnergy:  s.PeakEnergy,
		AvgQ:        avgQ,
	}, true
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
