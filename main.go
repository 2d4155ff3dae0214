package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/config"
	"github.com/pthm-cable/overgrown/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	autopilot := flag.Bool("autopilot", false, "Drive the light along a noise path (always on when headless)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Autopilot:      *autopilot,
		OnOvergrown: func(tick int32) {
			slog.Info("garden fully overgrown", "tick", tick)
		},
	}

	if *headless {
		runHeadless(opts, *maxTicks)
		return
	}
	runWindow(cfg, opts, *maxTicks, *seed == 0)
}

// runHeadless is a pure CPU simulation, no raylib needed.
func runHeadless(opts game.Options, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		g.UpdateHeadless()

		if g.Finished() {
			slog.Info("session over", "tick", g.Tick(), "overgrown_tick", g.OvergrownTick())
			return
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "coverage", g.Coverage())
			return
		}
	}
}

// runWindow runs the graphical session. A restart after the garden is
// overgrown starts a fresh garden, reseeded when no seed was given.
func runWindow(cfg *config.Config, opts game.Options, maxTicks int, reseed bool) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Overgrown")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := newView(cfg)
	defer v.unload()

	g := game.NewGameWithOptions(opts)
	defer func() { g.Unload() }()

	for !rl.WindowShouldClose() {
		if v.frame(g) {
			g.Unload()
			if reseed {
				opts.Seed = time.Now().UnixNano()
			}
			slog.Info("restarting garden", "seed", opts.Seed)
			g = game.NewGameWithOptions(opts)
		}

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}
