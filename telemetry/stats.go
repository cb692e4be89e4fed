// Package telemetry provides population tracking, bookmarking and experiment output.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Creatures int `csv:"creatures"`
	Plants    int `csv:"plants"`

	// Events during window
	Births       int `csv:"births"`
	PairedBirths int `csv:"paired_births"`
	Starved      int `csv:"starved"`
	Eaten        int `csv:"eaten"`
	PlantsEaten  int `csv:"plants_eaten"`
	Poisonings   int `csv:"poisonings"`
	PoisonDeaths int `csv:"poison_deaths"`
	PlantsAdded  int `csv:"plants_added"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage
	GenerationMean float64 `csv:"generation_mean"`
	GenerationMax  int     `csv:"generation_max"`

	// Learning
	AvgQMean float64 `csv:"avg_q_mean"`
	AvgQStd  float64 `csv:"avg_q_std"`

	// Genome means
	SpeedMean      float64 `csv:"speed_mean"`
	AttackMean     float64 `csv:"attack_mean"`
	AttackMax      float64 `csv:"attack_max"`
	SenseMean      float64 `csv:"sense_mean"`
	PoisonFraction float64 `csv:"poison_fraction"`

	// Species
	SpeciesCount    int    `csv:"species_count"`
	DominantSpecies string `csv:"dominant_species"`
	DominantCount   int    `csv:"dominant_count"`

	Species map[string]int `csv:"-"`
}

// Sample is a snapshot of the live population taken at window end.
type Sample struct {
	Plants      int
	Energies    []float64
	Generations []float64
	AvgQs       []float64
	Speeds      []float64
	Attacks     []float64
	Senses      []float64
	Poisonous   int
	Species     map[string]int
}

// Add records one live creature.
func (s *Sample) Add(energy float64, generation int, avgQ, speed, attack, sense float64, poison bool, species string) {
	s.Energies = append(s.Energies, energy)
	s.Generations = append(s.Generations, float64(generation))
	s.AvgQs = append(s.AvgQs, avgQ)
	s.Speeds = append(s.Speeds, speed)
	s.Attacks = append(s.Attacks, attack)
	s.Senses = append(s.Senses, sense)
	if poison {
		s.Poisonous++
	}
	if s.Species == nil {
		s.Species = make(map[string]int)
	}
	s.Species[species]++
}

// Count returns the number of creatures in the sample.
func (s *Sample) Count() int { return len(s.Energies) }

// Percentile returns the empirical p-quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeEnergyStats calculates mean, population std and percentiles.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean, std = meanStd(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// Dominant returns the most common species, ties broken by label.
func Dominant(species map[string]int) (string, int) {
	var best string
	var n int
	for label, c := range species {
		if c > n || (c == n && label < best) {
			best, n = label, c
		}
	}
	return best, n
}

// SortedSpecies returns species labels in lexical order.
func SortedSpecies(species map[string]int) []string {
	labels := make([]string, 0, len(species))
	for label := range species {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("creatures", s.Creatures),
		slog.Int("plants", s.Plants),
		slog.Int("births", s.Births),
		slog.Int("starved", s.Starved),
		slog.Int("eaten", s.Eaten),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Int("generation_max", s.GenerationMax),
		slog.Float64("avg_q_mean", s.AvgQMean),
		slog.Int("species_count", s.SpeciesCount),
		slog.String("dominant_species", s.DominantSpecies),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"creatures", s.Creatures,
		"plants", s.Plants,
		"births", s.Births,
		"paired_births", s.PairedBirths,
		"starved", s.Starved,
		"eaten", s.Eaten,
		"plants_eaten", s.PlantsEaten,
		"poisonings", s.Poisonings,
		"poison_deaths", s.PoisonDeaths,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"generation_mean", s.GenerationMean,
		"generation_max", s.GenerationMax,
		"avg_q_mean", s.AvgQMean,
		"avg_q_std", s.AvgQStd,
		"attack_mean", s.AttackMean,
		"poison_fraction", s.PoisonFraction,
		"species_count", s.SpeciesCount,
		"dominant_species", s.DominantSpecies,
	)
}
