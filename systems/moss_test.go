package systems

import (
	"math/rand"
	"testing"
)

// ---------- Branching ----------

func TestMossColony_UngrownRootNeverBranches(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.LifeSpeed = 0
	moss.MinGrowthSpeed = 0
	moss.MaxGrowthSpeed = 0
	moss.BranchChance = 1

	ctx := testContext(cfg, 1)
	c := NewMossColony(400, 300, &moss, ctx.Rng)

	for tick := 0; tick < 5000; tick++ {
		ctx.Tick = int32(tick)
		c.Update(ctx)
	}
	if len(c.Points) != 1 {
		t.Fatalf("expected exactly 1 point, got %d", len(c.Points))
	}
	if c.Points[0].GrowthProgress != 0 {
		t.Errorf("root progress should stay 0, got %f", c.Points[0].GrowthProgress)
	}
}

func TestMossColony_GenerationCapRespected(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.GenerationCap = 2
	moss.MinGrowthSpeed = 1
	moss.MaxGrowthSpeed = 1
	moss.BranchChance = 1
	moss.SpawnInterval = 1
	moss.InitialMaxPoints = 200

	ctx := testContext(cfg, 2)
	c := NewMossColony(500, 400, &moss, ctx.Rng)

	for tick := 0; tick < 400; tick++ {
		c.Update(ctx)
	}
	if len(c.Points) < 2 {
		t.Fatalf("expected the colony to branch, got %d points", len(c.Points))
	}
	for i, p := range c.Points {
		if p.Generation > moss.GenerationCap {
			t.Errorf("point %d has generation %d above cap %d", i, p.Generation, moss.GenerationCap)
		}
	}

	// Steering also clamps the generation
	c.Points = []SporePoint{grownPoint(500, 400, 10)}
	c.Points[0].Generation = moss.GenerationCap
	c.RefreshBounds()
	if !c.GrowToward(600, 400, ctx) {
		t.Fatal("expected GrowToward to spawn")
	}
	if got := c.Points[1].Generation; got != moss.GenerationCap {
		t.Errorf("steered child generation = %d, want %d", got, moss.GenerationCap)
	}
}

func TestMossColony_CrowdedChildrenRejected(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.MinGrowthSpeed = 1
	moss.MaxGrowthSpeed = 1
	moss.BranchChance = 1
	moss.SpawnInterval = 1
	moss.InitialMaxPoints = 300
	moss.CrowdSpacing = 14

	ctx := testContext(cfg, 13)
	ctx.Crowding = NewSpatialGrid(ctx.Bounds.Width, ctx.Bounds.Height, float32(moss.CrowdSpacing))
	c := NewMossColony(500, 400, &moss, ctx.Rng)

	for tick := 0; tick < 600; tick++ {
		ctx.Crowding.Clear()
		ctx.Crowding.InsertColonies([]*MossColony{c})
		c.Update(ctx)
	}
	if len(c.Points) < 20 {
		t.Fatalf("colony stalled at %d points", len(c.Points))
	}

	spacingSq := float32(moss.CrowdSpacing * moss.CrowdSpacing)
	for i := range c.Points {
		for j := i + 1; j < len(c.Points); j++ {
			a, b := c.Points[i], c.Points[j]
			if d := distanceSq(a.X, a.Y, b.X, b.Y); d < spacingSq {
				t.Fatalf("points %d and %d only %f apart", i, j, sqrt32(d))
			}
		}
	}
}

func TestMossColony_BranchRetriesParents(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.BranchChance = 1
	moss.BranchTries = 200

	ctx := testContext(cfg, 14)
	c := NewMossColony(500, 400, &moss, ctx.Rng)
	// Only the root can branch; the ungrown points fail the progress check.
	c.Points = []SporePoint{grownPoint(500, 400, 10)}
	for i := 0; i < 9; i++ {
		c.Points = append(c.Points, SporePoint{X: 100 + float32(60*i), Y: 100, Alpha: 255})
	}

	if n := c.branch(ctx); n == 0 {
		t.Error("expected a retry to reach the grown root")
	}
}

func TestMossColony_GrowthNeverDecreases(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.SpawnInterval = 2
	moss.BranchChance = 1

	ctx := testContext(cfg, 3)
	c := NewMossColony(500, 400, &moss, ctx.Rng)

	prev := make([]float32, 0, 64)
	for tick := 0; tick < 1500; tick++ {
		prev = prev[:0]
		for _, p := range c.Points {
			prev = append(prev, p.GrowthProgress)
		}
		c.Update(ctx)
		// No light, so points are only appended and order is stable
		for i, before := range prev {
			if c.Points[i].GrowthProgress < before {
				t.Fatalf("tick %d: point %d progress fell from %f to %f", tick, i, before, c.Points[i].GrowthProgress)
			}
			if c.Points[i].GrowthProgress > 1 {
				t.Fatalf("tick %d: point %d progress %f above 1", tick, i, c.Points[i].GrowthProgress)
			}
		}
	}
}

func TestMossColony_AtCapacityIsNoOp(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.InitialMaxPoints = 1
	moss.MaxPointsGrowth = 0
	moss.MinGrowthSpeed = 1
	moss.MaxGrowthSpeed = 1
	moss.BranchChance = 1
	moss.SpawnInterval = 1

	ctx := testContext(cfg, 4)
	c := NewMossColony(500, 400, &moss, ctx.Rng)
	for tick := 0; tick < 300; tick++ {
		spawned, _ := c.Update(ctx)
		if spawned != 0 {
			t.Fatalf("tick %d: spawned %d at capacity", tick, spawned)
		}
	}
	if len(c.Points) != 1 {
		t.Errorf("expected 1 point, got %d", len(c.Points))
	}
	if c.LastSpawnTick != 0 {
		t.Errorf("spawn interval should not be consumed at capacity, last spawn %d", c.LastSpawnTick)
	}
}

func TestMossColony_DaylightStopsGrowth(t *testing.T) {
	cfg := testConfig(t)
	ctx := testContext(cfg, 5)
	ctx.Phase = PhaseDay
	ctx.DayMultiplier = PhaseDay.MossMultiplier()

	c := NewMossColony(500, 400, &cfg.Moss, ctx.Rng)
	for tick := 0; tick < 200; tick++ {
		c.Update(ctx)
	}
	if c.Points[0].GrowthProgress != 0 {
		t.Errorf("expected no growth in daylight, got %f", c.Points[0].GrowthProgress)
	}
}

// ---------- Light purification ----------

func TestMossColony_LightPurifiesSolePoint(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.AlphaDecay = 15

	ctx := testContext(cfg, 6)
	c := NewMossColony(300, 300, &moss, ctx.Rng)
	light := NewLight(100)
	light.MoveTo(300, 300)
	ctx.Light = light

	_, purified := c.Update(ctx)
	if len(c.Points) != 1 || !c.Points[0].Dying {
		t.Fatalf("point should be dying after one tick, points=%d", len(c.Points))
	}
	if purified != 0 {
		t.Errorf("purified = %d after first tick", purified)
	}

	// ceil(255/15) = 17 ticks in total
	for tick := 2; tick < 17; tick++ {
		c.Update(ctx)
		if len(c.Points) != 1 {
			t.Fatalf("tick %d: point removed early", tick)
		}
	}
	_, purified = c.Update(ctx)
	if len(c.Points) != 0 {
		t.Fatalf("point should be gone at tick 17, alpha=%f", c.Points[0].Alpha)
	}
	if purified != 1 {
		t.Errorf("purified = %d, want 1", purified)
	}
	if !c.IsExtinct() {
		t.Error("colony should be extinct")
	}

	// Extinct colonies are inert
	if s, p := c.Update(ctx); s != 0 || p != 0 {
		t.Errorf("extinct update returned (%d, %d)", s, p)
	}
}

func TestMossColony_NoChildrenInsideLight(t *testing.T) {
	cfg := testConfig(t)
	moss := cfg.Moss
	moss.MinGrowthSpeed = 1
	moss.MaxGrowthSpeed = 1
	moss.BranchChance = 1
	moss.SpawnInterval = 1
	moss.LightMargin = 0

	ctx := testContext(cfg, 7)
	c := NewMossColony(500, 400, &moss, ctx.Rng)
	light := NewLight(60)
	light.MoveTo(570, 400)
	ctx.Light = light

	for tick := 0; tick < 300; tick++ {
		c.Update(ctx)
		for _, p := range c.Points {
			if p.Generation > 0 && light.Contains(p.X, p.Y) {
				t.Fatalf("tick %d: child spawned inside light at (%f, %f)", tick, p.X, p.Y)
			}
		}
	}
}

func TestMossColony_Reset(t *testing.T) {
	cfg := testConfig(t)
	ctx := testContext(cfg, 8)
	c := NewMossColony(200, 250, &cfg.Moss, ctx.Rng)
	c.Points = append(c.Points, grownPoint(210, 250, 10), grownPoint(220, 250, 10))
	c.LifeProgress = 0.7

	c.Reset(ctx.Rng)
	if len(c.Points) != 1 {
		t.Fatalf("expected a single root after reset, got %d", len(c.Points))
	}
	if c.Points[0].X != 200 || c.Points[0].Y != 250 {
		t.Errorf("root at (%f, %f), want (200, 250)", c.Points[0].X, c.Points[0].Y)
	}
	if c.LifeProgress != 0 || c.Points[0].Generation != 0 {
		t.Errorf("reset left life %f, generation %d", c.LifeProgress, c.Points[0].Generation)
	}
}

// ---------- Steering ----------

func TestMossColony_GrowToward(t *testing.T) {
	cfg := testConfig(t)
	ctx := testContext(cfg, 9)
	c := NewMossColony(100, 100, &cfg.Moss, ctx.Rng)
	c.Points = []SporePoint{grownPoint(100, 100, 10)}
	c.RefreshBounds()

	if !c.GrowToward(200, 100, ctx) {
		t.Fatal("expected a steered child")
	}
	child := c.Points[1]
	step := float32(cfg.Moss.SteerStep)
	if !approx(child.X, 100+step, 1e-4) || !approx(child.Y, 100, 1e-4) {
		t.Errorf("child at (%f, %f), want (%f, 100)", child.X, child.Y, 100+step)
	}

	light := NewLight(20)
	light.MoveTo(120, 110)
	ctx.Light = light
	n := len(c.Points)
	if c.GrowToward(300, 110, ctx) {
		t.Error("steering into the light should fail")
	}
	if len(c.Points) != n {
		t.Errorf("points changed from %d to %d", n, len(c.Points))
	}
}

func TestSaturatedColony_Frozen(t *testing.T) {
	cfg := testConfig(t)
	ctx := testContext(cfg, 10)
	centers := []Vec2{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 50, Y: 10}}
	c := NewSaturatedColony(centers, 12, &cfg.Moss, ctx.Rng)

	if len(c.Points) != 3 || !c.Saturated {
		t.Fatalf("expected 3 saturated points, got %d (saturated=%v)", len(c.Points), c.Saturated)
	}
	light := NewLight(100)
	light.MoveTo(30, 10)
	ctx.Light = light
	for i := 0; i < 50; i++ {
		c.Update(ctx)
	}
	for _, p := range c.Points {
		if p.Dying || p.GrowthProgress != 1 {
			t.Errorf("saturated point changed: %+v", p)
		}
	}
	if c.GrowToward(100, 100, ctx) {
		t.Error("saturated colony should not steer")
	}
}

// ---------- Collision ----------

func TestMossColony_Collisions(t *testing.T) {
	cfg := testConfig(t)
	c := NewMossColony(100, 100, &cfg.Moss, rand.New(rand.NewSource(1)))
	c.Points = []SporePoint{grownPoint(100, 100, 10)}
	c.RefreshBounds()

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"circle overlapping", c.CollidesWithCircle(115, 100, 6), true},
		{"circle apart", c.CollidesWithCircle(117, 100, 6), false},
		{"segment through point", c.CollidesWithSegment(100, 80, 100, 120, 1), true},
		{"segment alongside", c.CollidesWithSegment(120, 80, 120, 120, 5), false},
		{"segment grazing", c.CollidesWithSegment(114, 60, 114, 140, 5), true},
		{"rect overlapping", c.CollidesWithRect(Rect{X: 105, Y: 95, W: 20, H: 10}), true},
		{"rect apart", c.CollidesWithRect(Rect{X: 111, Y: 111, W: 20, H: 20}), false},
		{"body", c.CollidesWithBody(grownPoint(95, 95, 3)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestMossColony_UngrownPointHasNoReach(t *testing.T) {
	cfg := testConfig(t)
	c := NewMossColony(100, 100, &cfg.Moss, rand.New(rand.NewSource(1)))

	if c.CollidesWithCircle(100, 100, 0) {
		t.Error("zero-radius circle should not touch an ungrown point")
	}
	if !c.CollidesWithCircle(101, 100, 2) {
		t.Error("a circle containing the point should touch it")
	}
}
