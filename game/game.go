// Package game owns the simulated world and drives it one frame at a time.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/qsoup/components"
	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/random"
	"github.com/pthm-cable/qsoup/systems"
	"github.com/pthm-cable/qsoup/telemetry"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	Rng            random.Source // overrides Seed when set
	LogStats       bool
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string
	StepsPerUpdate int
	Empty          bool // skip the founder population and initial plants

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     random.Source
	rngSeed int64

	creatureMapper *ecs.Map4[components.Position, components.Heading, components.Body, components.Creature]
	plantMapper    *ecs.Map3[components.Position, components.Body, components.Plant]
	posMap         *ecs.Map[components.Position]
	bodyMap        *ecs.Map[components.Body]
	creatureMap    *ecs.Map[components.Creature]

	// Dense arena of every entity in insertion order. Reap compacts it.
	entities []ecs.Entity
	// Component pointers for the arena, rebuilt after structural changes.
	slots []slot

	tick           int32
	simTime        float64
	paused         bool
	stepsPerUpdate int
	nextID         uint32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
}

// slot caches one arena entry's component pointers. C and Heading are nil for plants.
type slot struct {
	entity  ecs.Entity
	pos     *components.Position
	heading *components.Heading
	body    *components.Body
	c       *components.Creature
}

func (s *slot) agent() *systems.Agent {
	return &systems.Agent{Entity: s.entity, Pos: s.pos, Heading: s.heading, Body: s.body, C: s.c}
}

// NewGameWithOptions creates a game and spawns the initial population.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rng,
		rngSeed:        opts.Seed,
		stepsPerUpdate: steps,
		nextID:         1,

		creatureMapper: ecs.NewMap4[components.Position, components.Heading, components.Body, components.Creature](world),
		plantMapper:    ecs.NewMap3[components.Position, components.Body, components.Plant](world),
		posMap:         ecs.NewMap[components.Position](world),
		bodyMap:        ecs.NewMap[components.Body](world),
		creatureMap:    ecs.NewMap[components.Creature](world),

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Bookmarks, cfg.Telemetry.BookmarkHistorySize),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	if !opts.Empty {
		g.spawnInitialPopulation()
	}
	g.bind()

	return g, nil
}

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of frames stepped so far.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 { return g.simTime }

// Seed returns the seed the game was created with.
func (g *Game) Seed() int64 { return g.rngSeed }

// Paused reports whether Update is currently a no-op.
func (g *Game) Paused() bool { return g.paused }

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(p bool) { g.paused = p }

// TogglePause flips the paused state.
func (g *Game) TogglePause() { g.paused = !g.paused }

// StepsPerUpdate returns the speed multiplier.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the speed multiplier, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, 10))
}

// Perf returns aggregated step timing.
func (g *Game) Perf() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }

// Update runs StepsPerUpdate frames of dt seconds unless paused.
func (g *Game) Update(dt float32) {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(dt)
	}
}

// UpdateHeadless runs StepsPerUpdate frames at the configured fixed dt.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Derived.DT32)
	}
}

// Unload flushes and closes experiment output.
func (g *Game) Unload() error {
	return g.outputManager.Close()
}
