// Package main searches for learning parameters that keep the soup alive
// longest, using gonum's derivative-free optimizers over headless runs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/qsoup/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRow is one line of optimize_log.csv. Columns follow NewParamVector.
type evalRow struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	Quality       float64 `csv:"quality"`
	Epsilon       float64 `csv:"epsilon"`
	Alpha         float64 `csv:"alpha"`
	Gamma         float64 `csv:"gamma"`
	PlantReward   float64 `csv:"plant_reward"`
	PreyReward    float64 `csv:"prey_reward"`
	PartnerChance float64 `csv:"partner_chance"`
}

func newEvalRow(eval int, fitness, quality float64, v []float64) evalRow {
	return evalRow{
		Eval: eval, Fitness: fitness, Quality: quality,
		Epsilon: v[0], Alpha: v[1], Gamma: v[2],
		PlantReward: v[3], PreyReward: v[4], PartnerChance: v[5],
	}
}

// newMethod returns the optimizer named on the command line.
func newMethod(name string, dim, population int) (optimize.Method, error) {
	switch name {
	case "cmaes":
		if population == 0 {
			population = 4 + int(3.0*float64(dim)/2.0)
		}
		return &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}, nil
	case "nelder-mead":
		return &optimize.NelderMead{SimplexSize: 0.2}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (want cmaes or nelder-mead)", name)
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 36000, "Maximum simulation duration in ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	methodName := flag.String("method", "cmaes", "Optimizer: cmaes or nelder-mead")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Game logs (extinctions, refills) would drown the progress lines.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg)

	dim := params.Dim()
	method, err := newMethod(*methodName, dim, *population)
	if err != nil {
		slog.Error("bad method", "error", err)
		os.Exit(1)
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append([]float64(nil), clamped...)
			}

			quality := evaluator.LastQuality()
			rows := []evalRow{newEvalRow(evalCount, fitness, quality, clamped)}
			write := gocsv.MarshalWithoutHeaders
			if evalCount == 1 {
				write = gocsv.Marshal
			}
			if err := write(&rows, logFile); err != nil {
				slog.Error("failed to write eval log", "error", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			survivalSec := -fitness / (1.0 + 0.2*quality)
			fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, survivalSec, quality, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential; seeds already run in parallel
	}

	fmt.Printf("Starting %s optimization with %d parameters, max_evals=%d\n", *methodName, dim, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	initX := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		slog.Error("no evaluations completed")
		os.Exit(1)
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.0f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
