package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/game"
	"github.com/pthm-cable/qsoup/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalSec float64                 // simulated seconds before extinction (or the full run)
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each owns its game and random source.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			quality := computeQuality(r.windowStats)
			results[idx] = seedResult{fitness: computeFitness(r.survivalSec, quality), quality: quality}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until every creature is gone
// or maxTicks frames have passed.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		slog.Error("failed to create game", "seed", seed, "error", err)
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.Census().Creatures == 0 {
			break
		}
	}
	result.survivalSec = g.SimTime()
	return result
}

// copyConfig returns a private copy of the base config. Every section is a
// plain value, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalSec × (1.0 + 0.2 × quality))
func computeFitness(survivalSec, quality float64) float64 {
	return -(survivalSec * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.35
	qualityWeightLearning  = 0.25
	qualityWeightDiversity = 0.20
	qualityWeightLineage   = 0.20

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows with fewer creatures
	qualityTargetGen     = 20.0
)

// computeQuality scores a run in [0, 1] from its window stats: a steady
// population, positive learned values, several coexisting species and
// deep lineages.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var counts, avgQ []float64
	var diversitySum float64
	maxGen := 0
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Creatures < qualityMinPop {
			continue
		}
		counts = append(counts, float64(w.Creatures))
		avgQ = append(avgQ, w.AvgQMean)
		diversitySum += 1 - math.Exp(-float64(w.SpeciesCount)/3.0)
		maxGen = max(maxGen, w.GenerationMax)
	}
	if len(counts) == 0 {
		return 0
	}

	stability := 0.0
	if len(counts) >= 2 {
		stability = math.Exp(-cv(counts) * cv(counts))
	}

	// Mean Q maps through a logistic so positive values score above 0.5.
	learning := 1 / (1 + math.Exp(-stat.Mean(avgQ, nil)))

	diversity := diversitySum / float64(len(counts))
	lineage := math.Min(float64(maxGen)/qualityTargetGen, 1)

	quality := qualityWeightStability*stability +
		qualityWeightLearning*learning +
		qualityWeightDiversity*diversity +
		qualityWeightLineage*lineage
	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
