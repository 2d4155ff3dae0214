package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/overgrown/config"
	"github.com/pthm-cable/overgrown/systems"
)

func testGardenConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := testGardenConfig(t)
	rng := rand.New(rand.NewSource(1))

	plant := systems.NewPlant(200, 600, cfg, rng)
	colony := systems.NewMossColony(40, 40, &cfg.Moss, rng)

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		WorldWidth:  1024,
		WorldHeight: 768,
		Tick:        1000,
		Phase:       "dusk",
		Coverage:    0.31,
		Light:       &LightState{X: 512, Y: 300, Radius: 60},
		Plants:      []PlantState{NewPlantState(3, plant, &PlantLifetime{BirthTick: 10, Penalties: 2})},
		Colonies:    []ColonyState{NewColonyState(colony)},
		Seeds:       []systems.Vec2{{X: 100, Y: 50}},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000.json" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != 42 || loaded.Tick != 1000 || loaded.Phase != "dusk" {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.Light == nil || loaded.Light.Radius != 60 {
		t.Errorf("light not restored: %+v", loaded.Light)
	}
	if len(loaded.Plants) != 1 {
		t.Fatalf("plants = %d, want 1", len(loaded.Plants))
	}
	ps := loaded.Plants[0]
	if ps.ID != 3 || ps.RootX != 200 || ps.Segments != 1 || !ps.Alive {
		t.Errorf("plant mismatch: %+v", ps)
	}
	if ps.Lifetime == nil || ps.Lifetime.Penalties != 2 {
		t.Errorf("lifetime not restored: %+v", ps.Lifetime)
	}
	if len(loaded.Colonies) != 1 || len(loaded.Colonies[0].Points) != 1 {
		t.Fatalf("colony not restored: %+v", loaded.Colonies)
	}
	if p := loaded.Colonies[0].Points[0]; p.X != 40 || p.Y != 40 || p.Generation != 0 {
		t.Errorf("root point mismatch: %+v", p)
	}
	if len(loaded.Seeds) != 1 || loaded.Seeds[0].X != 100 {
		t.Errorf("seeds mismatch: %+v", loaded.Seeds)
	}
}

func TestSnapshotBookmarkFilename(t *testing.T) {
	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     500,
		Bookmark: &Bookmark{Type: BookmarkLightRally, Tick: 500},
	}

	path, err := SaveSnapshot(snapshot, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_500_light_rally.json") {
		t.Errorf("unexpected path %q", path)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "tick": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version mismatch error")
	}
}

func TestOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Nil manager is a no-op
	if err := om.WriteEvent(Event{}); err != nil {
		t.Errorf("nil WriteEvent: %v", err)
	}

	dir := t.TempDir()
	om, err = NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := om.WriteEvent(NewPacingEvent(EventOvergrowStarted, int32(i), 0.6)); err != nil {
			t.Fatalf("WriteEvent: %v", err)
		}
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i)}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteSummary(Summary{Seed: 7, Overgrown: true}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("events.csv has %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "type,tick") {
		t.Errorf("unexpected header %q", lines[0])
	}

	summary, err := os.ReadFile(filepath.Join(dir, "summary.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(summary), "overgrown: true") {
		t.Errorf("summary missing outcome:\n%s", summary)
	}
}
