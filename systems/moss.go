package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/overgrown/config"
)

// SporePoint is a single growth unit of a moss colony.
type SporePoint struct {
	X, Y           float32
	Generation     uint32
	GrowthProgress float32 // 0..1
	GrowthSpeed    float32
	BaseSize       float32
	JitterSeed     float32 // stable per-point value for rendering wobble
	Alpha          float32 // 0..255
	Dying          bool
}

// EffectiveRadius is the point's current collision radius.
func (p SporePoint) EffectiveRadius() float32 {
	return p.BaseSize * sqrt32(p.GrowthProgress)
}

// Position implements Body.
func (p SporePoint) Position() Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}

// Radius implements Body.
func (p SporePoint) Radius() float32 {
	return p.EffectiveRadius()
}

// MossColony is one branching population of spore points rooted at a start position.
type MossColony struct {
	Points        []SporePoint
	MaxPoints     float32 // grows every tick up to the configured ceiling
	SpawnInterval int32
	LastSpawnTick int32
	LifeProgress  float32
	LifeSpeed     float32
	StartX        float32
	StartY        float32

	// Saturated colonies are the frozen full-coverage climax.
	Saturated bool

	age    int32
	bounds Rect
	cfg    *config.MossConfig
}

// NewMossColony creates a colony with a single root point at (x, y).
func NewMossColony(x, y float32, cfg *config.MossConfig, rng *rand.Rand) *MossColony {
	c := &MossColony{
		StartX: x,
		StartY: y,
		cfg:    cfg,
	}
	c.Reset(rng)
	return c
}

// NewSaturatedColony creates a fully grown colony with one point on each centre,
// in shuffled order. It never grows, branches or fades.
func NewSaturatedColony(centers []Vec2, size float32, cfg *config.MossConfig, rng *rand.Rand) *MossColony {
	points := make([]SporePoint, len(centers))
	for i, ctr := range centers {
		points[i] = SporePoint{
			X:              ctr.X,
			Y:              ctr.Y,
			GrowthProgress: 1,
			BaseSize:       size,
			JitterSeed:     rng.Float32() * 1000,
			Alpha:          255,
		}
	}
	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})

	c := &MossColony{
		Points:       points,
		MaxPoints:    float32(len(points)),
		LifeProgress: 1,
		Saturated:    true,
		cfg:          cfg,
	}
	if len(points) > 0 {
		c.StartX, c.StartY = points[0].X, points[0].Y
	}
	c.RefreshBounds()
	return c
}

// Reset reseeds the colony with a fresh root point at its start position.
// This is the only operation that discards growth.
func (c *MossColony) Reset(rng *rand.Rand) {
	c.Points = append(c.Points[:0], c.newPoint(c.StartX, c.StartY, 0, rng))
	c.MaxPoints = float32(c.cfg.InitialMaxPoints)
	c.SpawnInterval = int32(c.cfg.SpawnInterval)
	c.LastSpawnTick = 0
	c.LifeProgress = 0
	c.LifeSpeed = float32(c.cfg.LifeSpeed)
	c.Saturated = false
	c.age = 0
	c.RefreshBounds()
}

func (c *MossColony) newPoint(x, y float32, gen uint32, rng *rand.Rand) SporePoint {
	return SporePoint{
		X:           x,
		Y:           y,
		Generation:  gen,
		GrowthSpeed: randRange(rng, float32(c.cfg.MinGrowthSpeed), float32(c.cfg.MaxGrowthSpeed)),
		BaseSize:    randRange(rng, float32(c.cfg.MinBaseSize), float32(c.cfg.MaxBaseSize)),
		JitterSeed:  rng.Float32() * 1000,
		Alpha:       255,
	}
}

// AtCeiling reports whether the colony holds the absolute maximum of points.
func (c *MossColony) AtCeiling() bool {
	return len(c.Points) >= c.cfg.MaxPointsCeiling
}

// IsExtinct reports whether every point has died.
func (c *MossColony) IsExtinct() bool {
	return len(c.Points) == 0
}

// capacity is the current point limit for natural branching.
func (c *MossColony) capacity() int {
	return min(int(c.MaxPoints), c.cfg.MaxPointsCeiling)
}

// Update advances the colony one tick and returns how many points were
// spawned by branching and how many were removed by the light.
// Extinct and saturated colonies are left untouched.
func (c *MossColony) Update(ctx *WorldContext) (spawned, purified int) {
	if c.IsExtinct() || c.Saturated {
		return 0, 0
	}
	c.age++

	c.LifeProgress = min(1, c.LifeProgress+c.LifeSpeed)
	c.MaxPoints = min(float32(c.cfg.MaxPointsCeiling), c.MaxPoints+float32(c.cfg.MaxPointsGrowth))

	rate := (0.7 + 0.8*c.LifeProgress) * ctx.DayMultiplier
	margin := float32(c.cfg.LightMargin)
	decay := float32(c.cfg.AlphaDecay)

	alive := c.Points[:0]
	for _, p := range c.Points {
		if !p.Dying && ctx.Light.Within(p.X, p.Y, margin) {
			p.Dying = true
		}
		if p.Dying {
			p.Alpha -= decay
			if p.Alpha <= 0 {
				purified++
				continue
			}
		} else if p.GrowthProgress < 1 {
			p.GrowthProgress = clamp01(p.GrowthProgress + p.GrowthSpeed*rate)
		}
		alive = append(alive, p)
	}
	c.Points = alive

	interval := c.SpawnInterval
	if ctx.Overgrow {
		interval = int32(c.cfg.OvergrowSpawnInterval)
	}
	// At capacity the attempt waits; the interval is not consumed.
	if len(c.Points) > 0 && c.age-c.LastSpawnTick >= interval && len(c.Points) < c.capacity() {
		c.LastSpawnTick = c.age
		spawned = c.branch(ctx)
	}

	c.RefreshBounds()
	return spawned, purified
}

// branch runs one branch attempt. Up to BranchTries parents are drawn at
// random; the attempt ends with the first parent that spawns a child.
func (c *MossColony) branch(ctx *WorldContext) int {
	for try := 0; try < c.cfg.BranchTries; try++ {
		if n := c.branchFrom(ctx, ctx.Rng.Intn(len(c.Points))); n > 0 {
			return n
		}
	}
	return 0
}

// branchFrom spawns children around one parent. Children inside the light,
// outside the playfield or crowding live moss are dropped.
func (c *MossColony) branchFrom(ctx *WorldContext, idx int) int {
	rng := ctx.Rng
	parent := c.Points[idx]

	if parent.Dying || parent.Generation >= c.cfg.GenerationCap {
		return 0
	}
	threshold := randRange(rng, float32(c.cfg.MinBranchProgress), float32(c.cfg.MaxBranchProgress))
	if parent.GrowthProgress < threshold {
		return 0
	}
	if rng.Float64() >= c.cfg.BranchChance {
		return 0
	}

	n := c.cfg.MinChildren + rng.Intn(c.cfg.MaxChildren-c.cfg.MinChildren+1)
	center := ctx.Bounds.Center()
	toCenter := math.Atan2(float64(center.Y-parent.Y), float64(center.X-parent.X))
	margin := float32(c.cfg.BoundsMargin)
	crowd := float32(c.cfg.CrowdSpacing)

	spawned := 0
	for i := 0; i < n && len(c.Points) < c.capacity(); i++ {
		var angle float64
		if ctx.Overgrow {
			angle = rng.Float64() * 2 * math.Pi
		} else {
			angle = toCenter + (rng.Float64()*2-1)*c.cfg.CenterBiasSpread
		}
		dist := randRange(rng, float32(c.cfg.MinStep), float32(c.cfg.MaxStep))
		x := parent.X + float32(math.Cos(angle))*dist
		y := parent.Y + float32(math.Sin(angle))*dist

		if ctx.Light.Contains(x, y) || !ctx.Bounds.Contains(x, y, margin) || ctx.Crowding.AnyWithin(x, y, crowd) {
			continue
		}
		c.Points = append(c.Points, c.newPoint(x, y, parent.Generation+1, rng))
		ctx.Crowding.Insert(x, y)
		spawned++
	}
	return spawned
}

// GrowToward spawns one child from the live point nearest (x, y), one steer
// step toward it. It bypasses MaxPoints but not the absolute ceiling, the
// light or the generation cap. Returns false when nothing was spawned.
func (c *MossColony) GrowToward(x, y float32, ctx *WorldContext) bool {
	if c.Saturated || c.AtCeiling() {
		return false
	}
	idx, dSq := c.NearestPoint(x, y)
	if idx < 0 || dSq < 1e-6 {
		return false
	}
	p := c.Points[idx]
	d := sqrt32(dSq)
	step := min(float32(c.cfg.SteerStep), d)
	nx := p.X + (x-p.X)/d*step
	ny := p.Y + (y-p.Y)/d*step
	if ctx.Light.Contains(nx, ny) {
		return false
	}

	gen := min(p.Generation+1, c.cfg.GenerationCap)
	c.Points = append(c.Points, c.newPoint(nx, ny, gen, ctx.Rng))
	ctx.Crowding.Insert(nx, ny)
	c.RefreshBounds()
	return true
}

// NearestPoint returns the index of the live point closest to (x, y) and its
// squared distance. The index is -1 when no live point exists.
func (c *MossColony) NearestPoint(x, y float32) (int, float32) {
	best := -1
	bestSq := float32(math.MaxFloat32)
	for i := range c.Points {
		p := &c.Points[i]
		if p.Dying {
			continue
		}
		if d := distanceSq(x, y, p.X, p.Y); d < bestSq {
			best = i
			bestSq = d
		}
	}
	return best, bestSq
}

// RefreshBounds recomputes the cached bounding box used by the collision
// queries. Update and GrowToward call it; callers that edit Points directly
// must call it themselves.
func (c *MossColony) RefreshBounds() {
	if len(c.Points) == 0 {
		c.bounds = Rect{}
		return
	}
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for i := range c.Points {
		p := &c.Points[i]
		r := p.EffectiveRadius()
		minX = min(minX, p.X-r)
		minY = min(minY, p.Y-r)
		maxX = max(maxX, p.X+r)
		maxY = max(maxY, p.Y+r)
	}
	c.bounds = Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Bounds returns the cached bounding box of all points.
func (c *MossColony) Bounds() Rect {
	return c.bounds
}

// near is the broad-phase test against the cached bounds.
func (c *MossColony) near(box Rect) bool {
	if len(c.Points) == 0 {
		return false
	}
	b := c.bounds
	// Inclusive so zero-size boxes around single ungrown points still match.
	return box.X <= b.X+b.W && b.X <= box.X+box.W && box.Y <= b.Y+b.H && b.Y <= box.Y+box.H
}

// CollidesWithCircle reports whether any point's effective circle overlaps the circle.
func (c *MossColony) CollidesWithCircle(x, y, r float32) bool {
	if !c.near(Rect{X: x - r, Y: y - r, W: 2 * r, H: 2 * r}) {
		return false
	}
	for i := range c.Points {
		p := &c.Points[i]
		if CirclesOverlap(x, y, r, p.X, p.Y, p.EffectiveRadius()) {
			return true
		}
	}
	return false
}

// CollidesWithRect reports whether any point's effective circle overlaps the rectangle.
func (c *MossColony) CollidesWithRect(rect Rect) bool {
	if !c.near(rect) {
		return false
	}
	for i := range c.Points {
		p := &c.Points[i]
		if CircleIntersectsRect(p.X, p.Y, p.EffectiveRadius(), rect) {
			return true
		}
	}
	return false
}

// CollidesWithSegment reports whether any point comes within r of the segment a-b.
func (c *MossColony) CollidesWithSegment(ax, ay, bx, by, r float32) bool {
	box := Rect{X: min(ax, bx) - r, Y: min(ay, by) - r, W: abs32(bx-ax) + 2*r, H: abs32(by-ay) + 2*r}
	if !c.near(box) {
		return false
	}
	for i := range c.Points {
		p := &c.Points[i]
		reach := r + p.EffectiveRadius()
		if PointSegmentDistanceSq(p.X, p.Y, ax, ay, bx, by) < reach*reach {
			return true
		}
	}
	return false
}

// CollidesWithBody reports whether the colony touches the body's circle.
func (c *MossColony) CollidesWithBody(b Body) bool {
	pos := b.Position()
	return c.CollidesWithCircle(pos.X, pos.Y, b.Radius())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
