package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/qsoup/config"
	"github.com/pthm-cable/qsoup/game"
	"github.com/pthm-cable/qsoup/termview"
	"github.com/pthm-cable/qsoup/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("term", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, chart and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging). The terminal view
	// owns stdout, so its logs go to stderr.
	logOut := os.Stdout
	if *term {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	switch {
	case *headless:
		os.Exit(runHeadless(opts, *maxTicks))
	case *term:
		os.Exit(runTerminal(opts, *maxTicks))
	}

	os.Exit(runWindow(cfg, opts, *maxTicks))
}

// runWindow drives the raylib front end until the window closes.
func runWindow(cfg *config.Config, opts game.Options, maxTicks int) int {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Q-Soup")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer unload(g)

	app := ui.NewApp(g)
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
	return 0
}

// runHeadless steps the simulation at the fixed dt with no rendering.
func runHeadless(opts game.Options, maxTicks int) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer unload(g)

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	// Interrupt stops the run so output files are flushed and closed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for ctx.Err() == nil {
		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return 0
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
	return 0
}

// runTerminal renders the simulation as a character grid.
func runTerminal(opts game.Options, maxTicks int) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to open terminal", "error", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to init terminal", "error", err)
		return 1
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		screen.Fini()
		slog.Error("failed to create game", "error", err)
		return 1
	}

	termview.New(screen, g).Run(maxTicks)
	screen.Fini()
	unload(g)
	slog.Info("terminal session ended", "tick", g.Tick())
	return 0
}

func unload(g *game.Game) {
	if err := g.Unload(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
