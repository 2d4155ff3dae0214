package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/overgrown/config"
	"github.com/pthm-cable/overgrown/systems"
	"github.com/pthm-cable/overgrown/telemetry"
)

// Options configures game initialization.
type Options struct {
	Seed           int64   // RNG seed (0 = use default 42)
	LogStats       bool    // Enable periodic stats logging via slog
	StatsWindowSec float64 // Stats window size in seconds
	SnapshotDir    string  // Directory for snapshots (empty = no snapshots)
	OutputDir      string  // Directory for CSV output (empty = no CSV output)
	Headless       bool    // Skip all rendering
	StepsPerUpdate int     // Simulation ticks per Update call (default 1)
	Autopilot      bool    // Drive the light along a noise path instead of the pointer

	// Config overrides the global config when set. The tuner runs many
	// games with different configs side by side.
	Config *config.Config

	// StatsCallback is called after each telemetry window flush (optional).
	StatsCallback func(telemetry.WindowStats)
	// OnOvergrown is called once when the garden is fully overgrown.
	OnOvergrown func(tick int32)
}

// Input is the player input for one update, polled by the caller.
type Input struct {
	PointerX, PointerY float32
	PointerActive      bool // pointer inside the playfield; the light is off otherwise

	DropSeed     bool
	DropX, DropY float32
}

// gardenPlant is a plant plus the bookkeeping the garden keeps for it.
type gardenPlant struct {
	*systems.Plant
	id   uint32
	slot int // index into the initial layout, or -1 for seeded plants
}

// Game holds the complete garden state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	world *ecs.World
	seeds *systems.SeedSystem

	light    *systems.Light
	wander   *systems.LightWander
	plants   []*gardenPlant
	colonies []*systems.MossColony
	coverage *systems.CoverageController
	crowding *systems.SpatialGrid // live moss points, rebuilt each tick; nil when disabled
	bounds   systems.Bounds

	// Initial layout, for regrowth
	plantSlots []systems.Vec2

	respawns  []respawnEntry
	regrowths []regrowthEntry

	contact  []bool // per-plant moss contact for the current tick
	parallel *parallelState

	// State
	tick           int32
	paused         bool
	nextID         uint32
	stepsPerUpdate int
	input          Input
	overgrownTick  int32
	plantsBorn     int
	plantsLost     int
	bookmarksSeen  int

	// Telemetry
	rngSeed          int64
	logStats         bool
	snapshotDir      string
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	onOvergrown      func(tick int32)
}

// NewGameWithOptions creates a new garden with the specified options.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = 42
	}
	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()
	bounds := systems.Bounds{Width: cfg.Derived.ScreenW32, Height: cfg.Derived.ScreenH32}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		world:          world,
		seeds:          systems.NewSeedSystem(world, cfg.Derived.GroundY, float32(cfg.Seed.FallSpeed)),
		light:          systems.NewLight(float32(cfg.Light.Radius)),
		bounds:         bounds,
		coverage:       systems.NewCoverageController(bounds, &cfg.Coverage, &cfg.Moss),
		parallel:       newParallelState(),
		stepsPerUpdate: stepsPerUpdate,
		overgrownTick:  -1,

		rngSeed:          seed,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks.RallyDrop, cfg.Bookmarks.BloomMinPlants),
		statsCallback:    opts.StatsCallback,
		onOvergrown:      opts.OnOvergrown,
	}

	if spacing := float32(cfg.Moss.CrowdSpacing); spacing > 0 {
		g.crowding = systems.NewSpatialGrid(bounds.Width, bounds.Height, spacing)
	}

	if opts.Autopilot || opts.Headless {
		g.wander = systems.NewLightWander(seed, bounds, cfg.Light.WanderSpeed, cfg.Light.WanderScale)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.spawnInitialPlants()
	g.spawnInitialColonies()

	return g
}

// Update applies one frame of player input and runs the simulation steps for it.
func (g *Game) Update(in Input) {
	g.perfCollector.RecordFrame()
	g.input = in

	if in.DropSeed {
		g.dropSeed(in.DropX, in.DropY)
	}

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs simulation steps without input. The light follows the autopilot.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick of the garden.
func (g *Game) simulationStep() {
	if g.coverage.Finished() {
		return
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseLight)
	g.updateLight()
	ctx := g.worldContext()

	g.perfCollector.StartPhase(telemetry.PhaseContact)
	g.updateContacts()

	g.perfCollector.StartPhase(telemetry.PhasePlants)
	g.updatePlants(ctx)

	g.perfCollector.StartPhase(telemetry.PhaseSeeds)
	g.updateSeeds()

	g.perfCollector.StartPhase(telemetry.PhaseMoss)
	g.updateMoss(ctx)

	g.perfCollector.StartPhase(telemetry.PhaseCoverage)
	g.updateCoverage(ctx)

	g.perfCollector.StartPhase(telemetry.PhaseRespawn)
	g.processRespawns()
	g.processRegrowth()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// worldContext builds the shared state for this tick.
func (g *Game) worldContext() *systems.WorldContext {
	phase := systems.PhaseAt(g.tick, g.cfg.Derived.DayQuarter)
	return &systems.WorldContext{
		Tick:          g.tick,
		DT:            g.cfg.Derived.DT32,
		Phase:         phase,
		DayMultiplier: phase.MossMultiplier(),
		Light:         g.light,
		Bounds:        g.bounds,
		Overgrow:      g.coverage.Overgrow(),
		Crowding:      g.crowding,
		MossDamage:    int(g.tick) >= g.cfg.Session.SafeTicks,
		Rng:           g.rng,
	}
}

// updateLight moves the light to the pointer, or along the autopilot path.
func (g *Game) updateLight() {
	if g.wander != nil {
		p := g.wander.Next()
		g.light.MoveTo(p.X, p.Y)
		return
	}
	if g.input.PointerActive {
		g.light.MoveTo(g.input.PointerX, g.input.PointerY)
	} else {
		g.light.Deactivate()
	}
}

// updatePlants commits this tick's contacts and removes decomposed plants.
func (g *Game) updatePlants(ctx *systems.WorldContext) {
	alive := g.plants[:0]
	for i, p := range g.plants {
		penalties := p.Penalties

		p.Update(ctx, g.contact[i])

		for n := penalties; n < p.Penalties; n++ {
			g.collector.RecordMossPenalty()
			g.lifetimeTracker.RecordPenalty(p.id)
		}
		// Tracked until the death is recorded
		if !p.Alive && g.lifetimeTracker.Get(p.id) != nil {
			g.plantDied(p)
		}
		if p.Alive {
			g.lifetimeTracker.Update(p.id, p.Growth, p.Flowering())
		}
		if p.IsRemovable() {
			continue
		}
		alive = append(alive, p)
	}
	clear(g.plants[len(alive):])
	g.plants = alive
}

// updateSeeds drops landed seeds into the garden as new plants.
func (g *Game) updateSeeds() {
	for _, pos := range g.seeds.Update() {
		g.collector.RecordSeedLanded()
		if g.livePlants()+g.seeds.Pending() >= g.cfg.Garden.PlantCapacity {
			continue
		}
		g.spawnPlant(pos.X, pos.Y, -1)
	}
}

// updateMoss advances every colony and schedules respawns for those that died out.
func (g *Game) updateMoss(ctx *systems.WorldContext) {
	g.perfCollector.RecordMossPoints(g.totalPoints())
	if g.crowding != nil {
		g.crowding.Clear()
		g.crowding.InsertColonies(g.colonies)
	}
	for _, c := range g.colonies {
		wasAlive := !c.IsExtinct()
		spawned, purified := c.Update(ctx)
		g.collector.RecordBranches(spawned)
		g.collector.RecordPurified(purified)

		if wasAlive && c.IsExtinct() {
			g.scheduleRespawn(c)
		}
	}
}

// updateCoverage runs the pacing controller and reacts to its events.
func (g *Game) updateCoverage(ctx *systems.WorldContext) {
	before := g.totalPoints()
	samples := g.coverage.Samples()
	replacement, events := g.coverage.Update(ctx, g.colonies)
	if g.coverage.Samples() != samples {
		g.perfCollector.RecordCoverageSample()
	}
	if replacement != nil {
		g.colonies = replacement
		g.respawns = g.respawns[:0]
	} else if grown := g.totalPoints() - before; grown > 0 {
		g.collector.RecordBranches(grown)
	}

	for _, ev := range events {
		g.coverageEvent(ev)
	}
}

func (g *Game) coverageEvent(ev systems.CoverageEvent) {
	ratio := float64(g.coverage.Ratio())
	var t telemetry.EventType
	switch ev {
	case systems.EventOvergrowStarted:
		t = telemetry.EventOvergrowStarted
	case systems.EventOvergrowEnded:
		t = telemetry.EventOvergrowEnded
	case systems.EventClimaxStarted:
		t = telemetry.EventClimaxStarted
		slog.Info("climax", "tick", g.tick, "coverage", ratio)
	case systems.EventFullyOvergrown:
		t = telemetry.EventFullyOvergrown
		g.overgrownTick = g.tick
		slog.Info("garden fully overgrown", "tick", g.tick, "plants", g.livePlants())
		if g.onOvergrown != nil {
			g.onOvergrown(g.tick)
		}
	default:
		return
	}
	g.recordEvent(telemetry.NewPacingEvent(t, g.tick, ratio))
}

// dropSeed queues a falling seed if the garden has room for another plant.
func (g *Game) dropSeed(x, y float32) {
	if g.coverage.Finished() {
		return
	}
	if g.livePlants()+g.seeds.Pending() >= g.cfg.Garden.PlantCapacity {
		return
	}
	g.seeds.Drop(x, y)
	g.collector.RecordSeedDropped()
}

func (g *Game) livePlants() int {
	n := 0
	for _, p := range g.plants {
		if p.Alive {
			n++
		}
	}
	return n
}

func (g *Game) totalPoints() int {
	n := 0
	for _, c := range g.colonies {
		n += len(c.Points)
	}
	return n
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Coverage returns the most recent coverage ratio.
func (g *Game) Coverage() float32 {
	return g.coverage.Ratio()
}

// Overgrow reports whether the moss is in overgrow mode.
func (g *Game) Overgrow() bool {
	return g.coverage.Overgrow()
}

// ClimaxActive reports whether full coverage has been reached.
func (g *Game) ClimaxActive() bool {
	return g.coverage.ClimaxActive()
}

// Finished reports whether the garden is fully overgrown and the session has ended.
func (g *Game) Finished() bool {
	return g.coverage.Finished()
}

// OvergrownTick returns the tick the session ended at, or -1.
func (g *Game) OvergrownTick() int32 {
	return g.overgrownTick
}

// Phase returns the current day phase.
func (g *Game) Phase() systems.DayPhase {
	return systems.PhaseAt(g.tick, g.cfg.Derived.DayQuarter)
}

// DayProgress returns how far through the day cycle the garden is.
func (g *Game) DayProgress() float32 {
	return systems.DayProgress(g.tick, g.cfg.Derived.DayQuarter)
}

// SafeStart reports whether moss still cannot hurt plants.
func (g *Game) SafeStart() bool {
	return int(g.tick) < g.cfg.Session.SafeTicks
}

// Light returns the light.
func (g *Game) Light() *systems.Light {
	return g.light
}

// Plants returns every plant in the garden, including decomposing ones.
func (g *Game) Plants() []*systems.Plant {
	out := make([]*systems.Plant, len(g.plants))
	for i, p := range g.plants {
		out[i] = p.Plant
	}
	return out
}

// PlantCount returns the number of living plants.
func (g *Game) PlantCount() int {
	return g.livePlants()
}

// Colonies returns the moss colonies.
func (g *Game) Colonies() []*systems.MossColony {
	return g.colonies
}

// SeedPositions returns the positions of falling seeds.
func (g *Game) SeedPositions() []systems.Vec2 {
	return g.seeds.Positions()
}

// CoverageSample returns the most recent coverage measurement.
func (g *Game) CoverageSample() systems.CoverageSample {
	return g.coverage.Sample()
}

// CoverageCenters returns the coverage grid sample points.
func (g *Game) CoverageCenters() []systems.Vec2 {
	return g.coverage.Centers()
}

// Config returns the config the game runs with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// StepsPerUpdate returns the number of ticks per Update call.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the simulation speed, clamped to 1..10.
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(10, n))
}

// SetLightRadius changes the light radius.
func (g *Game) SetLightRadius(r float32) {
	if r > 0 {
		g.light.R = r
	}
}

// PerfStats returns the rolling performance statistics.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// Unload writes the session summary and releases resources.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if g.outputManager != nil {
		if err := g.outputManager.WriteSummary(g.Summary()); err != nil {
			slog.Error("failed to write summary", "error", err)
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}
