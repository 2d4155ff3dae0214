package game

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/overgrown/config"
	"github.com/pthm-cable/overgrown/systems"
	"github.com/pthm-cable/overgrown/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, seed int64) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{Seed: seed, Config: cfg})
	t.Cleanup(g.Unload)
	return g
}

func step(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.Update(Input{})
	}
}

// ---------- Initial layout ----------

func TestNewGame_InitialLayout(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 1)

	if got := g.PlantCount(); got != cfg.Garden.InitialPlants {
		t.Fatalf("plants = %d, want %d", got, cfg.Garden.InitialPlants)
	}
	for i, p := range g.plants {
		if p.slot != i || p.RootY != cfg.Derived.GroundY {
			t.Errorf("plant %d: slot %d, root y %f", i, p.slot, p.RootY)
		}
	}

	if len(g.colonies) == 0 || len(g.colonies) > cfg.Garden.InitialColonies {
		t.Fatalf("colonies = %d, want 1..%d", len(g.colonies), cfg.Garden.InitialColonies)
	}

	spacing := float32(cfg.Garden.ColonySpacing)
	clearance := float32(cfg.Garden.PlantClearance)
	for i, a := range g.colonies {
		for _, b := range g.colonies[i+1:] {
			if d := dist(a.StartX, a.StartY, b.StartX, b.StartY); d < spacing {
				t.Errorf("colonies %f apart, want >= %f", d, spacing)
			}
		}
		for _, slot := range g.plantSlots {
			if d := dist(a.StartX, a.StartY, slot.X, slot.Y); d < clearance {
				t.Errorf("colony %f from a plant, want >= %f", d, clearance)
			}
		}
	}
}

func dist(x1, y1, x2, y2 float32) float32 {
	dx, dy := float64(x2-x1), float64(y2-y1)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// ---------- Reproducibility ----------

func TestGame_SeededRunsMatch(t *testing.T) {
	cfg := testConfig(t)
	a := NewGameWithOptions(Options{Seed: 9, Config: cfg, Autopilot: true})
	b := NewGameWithOptions(Options{Seed: 9, Config: cfg, Autopilot: true})
	defer a.Unload()
	defer b.Unload()

	for i := 0; i < 900; i++ {
		a.UpdateHeadless()
		b.UpdateHeadless()
	}

	if a.Tick() != b.Tick() || a.Coverage() != b.Coverage() || a.PlantCount() != b.PlantCount() {
		t.Fatalf("runs diverged: tick %d/%d coverage %f/%f plants %d/%d",
			a.Tick(), b.Tick(), a.Coverage(), b.Coverage(), a.PlantCount(), b.PlantCount())
	}
	if a.totalPoints() != b.totalPoints() {
		t.Errorf("points diverged: %d vs %d", a.totalPoints(), b.totalPoints())
	}
}

// ---------- Seeds ----------

func TestGame_SeedRootsOnLanding(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 2)
	before := g.PlantCount()

	g.Update(Input{DropSeed: true, DropX: 100, DropY: 100})
	if g.seeds.Pending() != 1 {
		t.Fatalf("pending seeds = %d, want 1", g.seeds.Pending())
	}

	// (ground - 100) / fall speed ticks to land
	step(g, 200)

	if g.seeds.Pending() != 0 {
		t.Errorf("seed still falling")
	}
	if g.PlantCount() != before+1 {
		t.Fatalf("plants = %d, want %d", g.PlantCount(), before+1)
	}
	last := g.plants[len(g.plants)-1]
	if last.slot != -1 || last.RootX != 100 || last.RootY != cfg.Derived.GroundY {
		t.Errorf("seeded plant at (%f, %f) slot %d", last.RootX, last.RootY, last.slot)
	}
}

func TestGame_SeedCapacity(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 3)

	for i := 0; i < 30; i++ {
		g.Update(Input{DropSeed: true, DropX: float32(30 * i), DropY: 50})
		if n := g.livePlants() + g.seeds.Pending(); n > cfg.Garden.PlantCapacity {
			t.Fatalf("update %d: live + pending = %d, capacity %d", i, n, cfg.Garden.PlantCapacity)
		}
	}

	step(g, 250)
	if n := g.livePlants(); n > cfg.Garden.PlantCapacity {
		t.Errorf("live plants = %d, capacity %d", n, cfg.Garden.PlantCapacity)
	}
}

// ---------- Respawn and regrowth ----------

func TestGame_ColonyRespawnAfterDelay(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 4)

	c := g.colonies[0]
	c.Points = c.Points[:0]
	g.scheduleRespawn(c)

	delay := cfg.Garden.RespawnDelayTicks
	step(g, delay)
	if !c.IsExtinct() {
		t.Fatalf("colony respawned before the delay")
	}

	step(g, 1)
	if len(c.Points) != 1 {
		t.Fatalf("points after respawn = %d, want 1", len(c.Points))
	}
	if p := c.Points[0]; p.X != c.StartX || p.Y != c.StartY || p.Generation != 0 {
		t.Errorf("respawned root at (%f, %f) gen %d", p.X, p.Y, p.Generation)
	}
	if len(g.respawns) != 0 {
		t.Errorf("respawn queue not drained: %d", len(g.respawns))
	}
}

func TestGame_InitialPlantRegrows(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 5)
	initial := g.PlantCount()

	g.plants[0].TakeDamage(1000)
	step(g, 1)
	if g.plantsLost != 1 || len(g.regrowths) != 1 {
		t.Fatalf("death not recorded: lost %d, queued %d", g.plantsLost, len(g.regrowths))
	}
	if g.PlantCount() != initial-1 {
		t.Fatalf("plants = %d, want %d", g.PlantCount(), initial-1)
	}

	step(g, cfg.Garden.RegrowthDelayTicks+5)

	if g.PlantCount() != initial {
		t.Fatalf("plants after regrowth = %d, want %d", g.PlantCount(), initial)
	}
	if !g.slotOccupied(0) {
		t.Error("slot 0 was not replanted")
	}
	if g.plantsBorn != initial+1 {
		t.Errorf("plants born = %d, want %d", g.plantsBorn, initial+1)
	}
}

// ---------- Pacing ----------

func TestGame_FullyOvergrownFiresOnce(t *testing.T) {
	cfg := testConfig(t)
	calls := 0
	var at int32
	g := NewGameWithOptions(Options{
		Seed:   6,
		Config: cfg,
		OnOvergrown: func(tick int32) {
			calls++
			at = tick
		},
	})
	defer g.Unload()

	// A colony covering every cell drives the climax on the first sample
	rng := rand.New(rand.NewSource(1))
	g.colonies = append(g.colonies, systems.NewSaturatedColony(g.CoverageCenters(), 40, &cfg.Moss, rng))

	step(g, 1)
	if !g.ClimaxActive() {
		t.Fatal("climax did not start")
	}
	if len(g.colonies) != 1 || !g.colonies[0].Saturated {
		t.Fatalf("colonies not replaced by the saturated set")
	}

	step(g, cfg.Coverage.ClimaxHoldTicks+100)

	if calls != 1 {
		t.Fatalf("OnOvergrown called %d times, want 1", calls)
	}
	if !g.Finished() {
		t.Error("game not finished")
	}
	if at != int32(cfg.Coverage.ClimaxHoldTicks) || g.OvergrownTick() != at {
		t.Errorf("overgrown at tick %d (recorded %d), want %d", at, g.OvergrownTick(), cfg.Coverage.ClimaxHoldTicks)
	}

	// The session is frozen once finished
	tick := g.Tick()
	step(g, 10)
	if g.Tick() != tick {
		t.Errorf("tick advanced after finish: %d -> %d", tick, g.Tick())
	}
	if s := g.Summary(); !s.Overgrown || s.FinalCoverage != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestGame_UnlitGardenOvergrowsOnItsOwn(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	calls := 0
	g := NewGameWithOptions(Options{
		Seed:        5,
		Config:      cfg,
		OutputDir:   dir,
		OnOvergrown: func(int32) { calls++ },
	})

	// Natural growth must carry coverage past the overgrow threshold, and
	// steering must then finish the job, with nobody holding the light.
	const budget = 20000
	overgrowAt := int32(-1)
	for i := 0; i < budget && !g.Finished(); i++ {
		g.Update(Input{})
		if overgrowAt < 0 && g.coverage.Overgrow() {
			overgrowAt = g.Tick()
		}
	}
	g.Unload()

	if overgrowAt < 0 {
		t.Fatalf("overgrow never started, coverage %f after %d ticks", g.Coverage(), g.Tick())
	}
	if !g.Finished() || calls != 1 {
		t.Fatalf("not fully overgrown within %d ticks: coverage %f, OnOvergrown calls %d", budget, g.Coverage(), calls)
	}
	if g.OvergrownTick() <= overgrowAt {
		t.Errorf("overgrown at tick %d, before overgrow started at %d", g.OvergrownTick(), overgrowAt)
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var events []*telemetry.Event
	if err := gocsv.UnmarshalBytes(data, &events); err != nil {
		t.Fatalf("parsing events: %v", err)
	}
	order := map[telemetry.EventType]int{}
	for i, e := range events {
		if _, seen := order[e.Type]; !seen {
			order[e.Type] = i
		}
	}
	sequence := []telemetry.EventType{
		telemetry.EventOvergrowStarted,
		telemetry.EventClimaxStarted,
		telemetry.EventFullyOvergrown,
	}
	prev := -1
	for _, typ := range sequence {
		i, ok := order[typ]
		if !ok {
			t.Fatalf("no %s event in events.csv", typ)
		}
		if i <= prev {
			t.Errorf("%s logged out of order", typ)
		}
		prev = i
	}
}

// ---------- Contacts ----------

func TestGame_ParallelContactsMatchSequential(t *testing.T) {
	cfg := testConfig(t)
	cfg.Garden.InitialPlants = parallelThreshold + 4
	cfg.Garden.PlantCapacity = parallelThreshold + 4
	cfg.Garden.PlantClearance = 0
	g := newTestGame(t, cfg, 7)

	// Push moss right against the first few plants
	for i := 0; i < 4; i++ {
		p := g.plants[i]
		c := systems.NewMossColony(p.RootX, p.RootY-2, &cfg.Moss, g.rng)
		c.Points[0].GrowthProgress = 1
		c.RefreshBounds()
		g.colonies = append(g.colonies, c)
	}

	g.updateContacts()

	touching := 0
	for i, p := range g.plants {
		want := p.ContactWithMoss(g.colonies)
		if g.contact[i] != want {
			t.Errorf("plant %d: contact %v, want %v", i, g.contact[i], want)
		}
		if want {
			touching++
		}
	}
	if touching < 4 {
		t.Errorf("touching plants = %d, want at least 4", touching)
	}
	if !g.parallel.running {
		t.Error("worker pool not used above the threshold")
	}
}

// ---------- Light ----------

func TestGame_LightFollowsPointer(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 8)

	g.Update(Input{PointerActive: true, PointerX: 300, PointerY: 200})
	if !g.Light().On() || g.Light().X != 300 || g.Light().Y != 200 {
		t.Errorf("light = %+v, want on at (300, 200)", *g.Light())
	}

	g.Update(Input{})
	if g.Light().On() {
		t.Error("light should be off without an active pointer")
	}
}

func TestGame_SnapshotCounts(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, 9)
	step(g, 10)

	snap := g.Snapshot()
	if snap.Tick != 10 || len(snap.Plants) != len(g.plants) || len(snap.Colonies) != len(g.colonies) {
		t.Errorf("snapshot tick %d plants %d colonies %d", snap.Tick, len(snap.Plants), len(snap.Colonies))
	}
	if snap.Light != nil {
		t.Error("inactive light should be omitted")
	}
	if snap.Plants[0].Lifetime == nil || !snap.Plants[0].Lifetime.Initial {
		t.Error("initial plant lifetime missing")
	}
}
