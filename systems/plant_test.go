package systems

import (
	"math/rand"
	"testing"
)

func newTestPlant(t *testing.T, seed int64) (*Plant, *WorldContext) {
	t.Helper()
	cfg := testConfig(t)
	ctx := testContext(cfg, seed)
	p := NewPlant(500, cfg.Derived.GroundY, cfg, rand.New(rand.NewSource(seed)))
	return p, ctx
}

func checkChain(t *testing.T, p *Plant, tick int) {
	t.Helper()
	if len(p.Segments) == 0 {
		return
	}
	if p.Segments[0].StartX != p.RootX || p.Segments[0].StartY != p.RootY {
		t.Fatalf("tick %d: first segment detached from root", tick)
	}
	for i := 1; i < len(p.Segments); i++ {
		ex, ey := p.Segments[i-1].End()
		s := p.Segments[i]
		if !approx(s.StartX, ex, 1e-3) || !approx(s.StartY, ey, 1e-3) {
			t.Fatalf("tick %d: segment %d starts at (%f, %f), parent ends at (%f, %f)",
				tick, i, s.StartX, s.StartY, ex, ey)
		}
	}
}

// ---------- Death ----------

func TestPlant_LethalDamageProducesDebris(t *testing.T) {
	p, _ := newTestPlant(t, 1)
	for i := 0; i < 4; i++ {
		ex, ey := p.Segments[len(p.Segments)-1].End()
		p.Segments = append(p.Segments, newStemSegment(ex, ey, -90, 20, 20, p.rng))
	}
	p.Leaves = append(p.Leaves, newLeaf(1, 1, p.rng), newLeaf(2, -1, p.rng))
	p.Flower = newFlower(p.rng)
	p.Health = 1

	want := len(p.Segments) + len(p.Leaves) + 1
	p.TakeDamage(5)

	if p.Alive {
		t.Fatal("plant should be dead")
	}
	if p.Health != 0 {
		t.Errorf("health = %f, want 0", p.Health)
	}
	if len(p.Debris) != want {
		t.Errorf("debris = %d, want %d", len(p.Debris), want)
	}
	if len(p.Segments) != 0 || len(p.Leaves) != 0 || p.Flower != nil {
		t.Errorf("structure not cleared: %d segments, %d leaves, flower=%v",
			len(p.Segments), len(p.Leaves), p.Flower != nil)
	}

	// Further damage and deaths do nothing
	p.TakeDamage(5)
	p.Die()
	if len(p.Debris) != want || p.Health != 0 {
		t.Errorf("repeat death changed state: debris %d, health %f", len(p.Debris), p.Health)
	}
}

func TestPlant_DebrisDecomposes(t *testing.T) {
	p, ctx := newTestPlant(t, 2)
	p.Die()
	if p.IsRemovable() {
		t.Fatal("fresh debris should keep the plant around")
	}
	for tick := 0; tick < 1000 && !p.IsRemovable(); tick++ {
		p.Update(ctx, false)
	}
	if !p.IsRemovable() {
		t.Errorf("plant still has %d debris after 1000 ticks", len(p.Debris))
	}
}

// ---------- Growth ----------

func TestPlant_ChainStaysConnected(t *testing.T) {
	p, ctx := newTestPlant(t, 3)
	cfg := *p.cfg
	cfg.GrowthRate = 0.01
	p.cfg = &cfg

	light := NewLight(100)
	ctx.Light = light
	ctx.MossDamage = false

	prevGrowth := p.Growth
	for tick := 0; tick < 3000; tick++ {
		// Sweep the light across the plant so the tip bends both ways
		tx, ty := p.Tip()
		offset := float32(60)
		if (tick/200)%2 == 1 {
			offset = -60
		}
		light.MoveTo(tx+offset, ty-30)

		p.Update(ctx, false)
		checkChain(t, p, tick)

		if p.Growth < prevGrowth {
			t.Fatalf("tick %d: growth fell from %f to %f", tick, prevGrowth, p.Growth)
		}
		prevGrowth = p.Growth
		for i, s := range p.Segments {
			if s.Angle < float32(cfg.AngleMin) || s.Angle > float32(cfg.AngleMax) {
				t.Fatalf("tick %d: segment %d angle %f out of range", tick, i, s.Angle)
			}
		}
	}

	if p.Growth != 1 {
		t.Errorf("growth = %f, want 1", p.Growth)
	}
	if p.Stage != 2 {
		t.Errorf("stage = %d, want 2", p.Stage)
	}
	if len(p.Segments) < cfg.MaxSegments {
		t.Errorf("segments = %d, want at least %d", len(p.Segments), cfg.MaxSegments)
	}
	if len(p.Segments) > cfg.MaxSegments+2 {
		t.Errorf("segments = %d, more than %d", len(p.Segments), cfg.MaxSegments+2)
	}
	if len(p.Leaves) == 0 || len(p.Leaves) > cfg.MaxLeaves {
		t.Errorf("leaves = %d, want 1..%d", len(p.Leaves), cfg.MaxLeaves)
	}
	if p.Flower == nil {
		t.Error("fully grown plant should carry a flower")
	}
}

func TestPlant_LightSpeedsGrowth(t *testing.T) {
	shaded, ctx := newTestPlant(t, 4)
	lit, _ := newTestPlant(t, 4)

	light := NewLight(100)
	litCtx := *ctx
	litCtx.Light = light

	for tick := 0; tick < 100; tick++ {
		light.MoveTo(lit.Tip())
		shaded.Update(ctx, false)
		lit.Update(&litCtx, false)
	}
	if !lit.InLight {
		t.Fatal("lit plant should report InLight")
	}
	if lit.Growth <= shaded.Growth {
		t.Errorf("lit growth %f should exceed shaded growth %f", lit.Growth, shaded.Growth)
	}
}

// ---------- Moss damage ----------

func TestPlant_ContactGracePeriod(t *testing.T) {
	p, ctx := newTestPlant(t, 5)
	contact := int(p.cfg.ContactSeconds / float64(ctx.DT))

	for tick := 0; tick < contact-10; tick++ {
		p.Update(ctx, true)
	}
	if p.Penalties != 0 || p.Health != p.MaxHealth {
		t.Fatalf("damaged during grace: penalties %d, health %f", p.Penalties, p.Health)
	}

	// Breaking contact resets the timer
	p.Update(ctx, false)
	if p.MossContactSeconds != 0 {
		t.Errorf("contact timer = %f after release", p.MossContactSeconds)
	}
	for tick := 0; tick < contact-10; tick++ {
		p.Update(ctx, true)
	}
	if p.Penalties != 0 {
		t.Errorf("timer was not reset, penalties %d", p.Penalties)
	}

	for tick := 0; tick < 20; tick++ {
		p.Update(ctx, true)
	}
	if p.Penalties != 1 {
		t.Errorf("penalties = %d, want 1", p.Penalties)
	}
	if p.Health >= p.MaxHealth {
		t.Errorf("health %f should have dropped", p.Health)
	}
}

func TestPlant_HealthStaysInRange(t *testing.T) {
	p, ctx := newTestPlant(t, 6)
	for tick := 0; tick < 5000 && p.Alive; tick++ {
		p.Update(ctx, true)
		if p.Health < 0 || p.Health > p.MaxHealth {
			t.Fatalf("tick %d: health %f outside [0, %f]", tick, p.Health, p.MaxHealth)
		}
	}
	if p.Alive {
		t.Error("constant moss contact should kill the plant")
	}
}

func TestPlant_NegativeDamageIgnored(t *testing.T) {
	p, _ := newTestPlant(t, 9)

	for _, amount := range []float32{-50, 0} {
		p.TakeDamage(amount)
		if p.Health != p.MaxHealth || !p.Alive {
			t.Errorf("TakeDamage(%v): health %f, max %f, alive %v", amount, p.Health, p.MaxHealth, p.Alive)
		}
	}

	p.TakeDamage(30)
	p.TakeDamage(-100)
	if want := p.MaxHealth - 30; p.Health != want {
		t.Errorf("health = %f, want %f", p.Health, want)
	}
}

func TestPlant_SafeStartBlocksDamage(t *testing.T) {
	p, ctx := newTestPlant(t, 7)
	ctx.MossDamage = false
	for tick := 0; tick < 1000; tick++ {
		p.Update(ctx, true)
	}
	if p.Penalties != 0 || !p.Alive {
		t.Errorf("damaged with moss damage off: penalties %d, alive %v", p.Penalties, p.Alive)
	}
}

func TestPlant_ContactWithMoss(t *testing.T) {
	p, ctx := newTestPlant(t, 8)
	p.Update(ctx, false)
	moss := testConfig(t).Moss

	far := NewMossColony(100, 100, &moss, ctx.Rng)
	far.Points = []SporePoint{grownPoint(100, 100, 10)}
	far.RefreshBounds()
	if p.ContactWithMoss([]*MossColony{far}) {
		t.Error("distant colony should not touch the plant")
	}

	tx, ty := p.Tip()
	near := NewMossColony(tx, ty, &moss, ctx.Rng)
	near.Points = []SporePoint{grownPoint(tx+10, ty, 5)}
	near.RefreshBounds()
	if !p.ContactWithMoss([]*MossColony{far, near}) {
		t.Error("colony at the stem tip should touch the plant")
	}

	p.Die()
	if p.ContactWithMoss([]*MossColony{near}) {
		t.Error("dead plants have nothing to touch")
	}
}

func TestPlant_FlowerContactWithoutPadding(t *testing.T) {
	p, ctx := newTestPlant(t, 10)
	p.cfg.HitboxPadding = 0
	p.Flower = newFlower(ctx.Rng)
	p.refreshBounds()
	moss := testConfig(t).Moss
	tx, ty := p.Tip()
	flowerR := float32(p.cfg.FlowerHitRadius)

	tests := []struct {
		name   string
		offset float32
		want   bool
	}{
		{"inside flower reach", flowerR + 0.5, true},
		{"beyond flower reach", flowerR + 1.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMossColony(tx, ty, &moss, ctx.Rng)
			c.Points = []SporePoint{grownPoint(tx+tt.offset, ty, 1)}
			c.RefreshBounds()
			if got := p.ContactWithMoss([]*MossColony{c}); got != tt.want {
				t.Errorf("contact = %v, want %v", got, tt.want)
			}
		})
	}
}
