package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestAngleDelta(t *testing.T) {
	tests := []struct {
		from, to, want float32
	}{
		{0, 90, 90},
		{90, 0, -90},
		{-170, 170, -20},
		{170, -170, 20},
		{-90, -90, 0},
		{0, 180, -180},
		{350, 10, 20},
	}
	for _, tt := range tests {
		if got := angleDelta(tt.from, tt.to); !approx(got, tt.want, 1e-4) {
			t.Errorf("angleDelta(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPointSegmentDistanceSq(t *testing.T) {
	tests := []struct {
		name                   string
		px, py, ax, ay, bx, by float32
		want                   float32
	}{
		{"perpendicular", 5, 3, 0, 0, 10, 0, 9},
		{"before start", -4, 3, 0, 0, 10, 0, 25},
		{"past end", 13, 4, 0, 0, 10, 0, 25},
		{"degenerate", 3, 4, 0, 0, 0, 0, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointSegmentDistanceSq(tt.px, tt.py, tt.ax, tt.ay, tt.bx, tt.by)
			if !approx(got, tt.want, 1e-4) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShapeTests(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !CircleIntersectsRect(12, 5, 3, r) {
		t.Error("circle reaching into the rect should intersect")
	}
	if CircleIntersectsRect(14, 14, 5, r) {
		t.Error("circle off the corner should not intersect")
	}
	if !CircleIntersectsRect(5, 5, 1, r) {
		t.Error("circle inside the rect should intersect")
	}
	if !RectsOverlap(r, Rect{X: 9, Y: 9, W: 5, H: 5}) || RectsOverlap(r, Rect{X: 10, Y: 0, W: 5, H: 5}) {
		t.Error("RectsOverlap wrong at the boundary")
	}
	if PointInCircle(3, 4, 0, 0, 5) {
		t.Error("a point on the circle is not inside")
	}
	if !CirclesOverlap(0, 0, 3, 5, 0, 3) || CirclesOverlap(0, 0, 2, 5, 0, 3) {
		t.Error("CirclesOverlap wrong")
	}
}

func TestLight_NilSafe(t *testing.T) {
	var l *Light
	if l.On() || l.Contains(0, 0) || l.Within(0, 0, 100) || l.Radius() != 0 {
		t.Error("nil light should have no influence")
	}
	if _, ok := l.Distance(1, 1); ok {
		t.Error("nil light should report no distance")
	}

	l = NewLight(50)
	if l.Contains(0, 0) {
		t.Error("lights start inactive")
	}
	l.MoveTo(100, 100)
	if !l.Contains(120, 100) || l.Contains(150, 100) {
		t.Error("Contains is strict on the radius")
	}
	if !l.Within(160, 100, 20) {
		t.Error("Within should honour the margin")
	}
	l.Deactivate()
	if l.Contains(100, 100) {
		t.Error("deactivated light should not contain anything")
	}
}

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		tick int32
		want DayPhase
	}{
		{0, PhaseDawn},
		{599, PhaseDawn},
		{600, PhaseDay},
		{1200, PhaseDusk},
		{1800, PhaseNight},
		{2399, PhaseNight},
		{2400, PhaseDawn},
	}
	for _, tt := range tests {
		if got := PhaseAt(tt.tick, 600); got != tt.want {
			t.Errorf("PhaseAt(%d) = %v, want %v", tt.tick, got, tt.want)
		}
	}
	if PhaseDay.MossMultiplier() != 0 || PhaseNight.MossMultiplier() != 1 || PhaseDusk.MossMultiplier() != 0.5 {
		t.Error("unexpected moss multipliers")
	}
}

// ---------- Debris ----------

func TestDebris_SettlesAndExpires(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))
	bounds := Bounds{Width: cfg.Derived.ScreenW32, Height: cfg.Derived.ScreenH32}
	floor := cfg.Derived.DebrisFloorY

	d := newDebris(DebrisLeaf, 500, 300, 0, rng, &cfg.Debris)
	if d.Life < int32(cfg.Debris.LeafLifeMin) || d.Life > int32(cfg.Debris.LeafLifeMax) {
		t.Fatalf("life %d outside configured range", d.Life)
	}

	ticks := 0
	for d.Update(bounds, floor, &cfg.Debris) {
		ticks++
		if d.Y > floor {
			t.Fatalf("tick %d: debris below the floor at %f", ticks, d.Y)
		}
		if d.X < 0 || d.X > bounds.Width {
			t.Fatalf("tick %d: debris left the playfield at %f", ticks, d.X)
		}
	}
	if ticks != int(d.MaxLife)-1 {
		t.Errorf("expired after %d ticks, want %d", ticks+1, d.MaxLife)
	}
	if d.Opacity(float32(cfg.Debris.FadeStart)) != 0 {
		t.Errorf("expired debris opacity %f", d.Opacity(float32(cfg.Debris.FadeStart)))
	}
}

func TestDebris_Opacity(t *testing.T) {
	d := Debris{Life: 100, MaxLife: 100}
	if d.Opacity(0.3) != 1 {
		t.Error("fresh debris should be opaque")
	}
	d.Life = 15
	if !approx(d.Opacity(0.3), 0.5, 1e-5) {
		t.Errorf("opacity = %f, want 0.5", d.Opacity(0.3))
	}
}

// ---------- Seeds ----------

func TestSeedSystem_LandsAtGround(t *testing.T) {
	w := ecs.NewWorld()
	s := NewSeedSystem(w, 700, 4)

	s.Drop(100, 600)
	s.Drop(200, 800) // below ground lands at once
	if s.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", s.Pending())
	}

	landed := s.Update()
	if len(landed) != 1 || landed[0].X != 200 || landed[0].Y != 700 {
		t.Fatalf("first update landed %v", landed)
	}

	total := 1
	for i := 0; i < 30; i++ {
		total += len(s.Update())
	}
	if total != 2 {
		t.Errorf("landed %d seeds, want 2", total)
	}
	if s.Pending() != 0 || len(s.Positions()) != 0 {
		t.Errorf("pending %d after landing", s.Pending())
	}
}

func TestLightWander_StaysInBounds(t *testing.T) {
	b := Bounds{Width: 800, Height: 600}
	w := NewLightWander(7, b, 0.01, 0.45)
	for i := 0; i < 2000; i++ {
		p := w.Next()
		if !b.Contains(p.X, p.Y, 0) {
			t.Fatalf("step %d: wander left the playfield at %+v", i, p)
		}
	}
}
