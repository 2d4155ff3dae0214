package systems

import (
	"math/rand"

	"github.com/pthm-cable/overgrown/config"
)

// Plant is a procedurally grown stem with leaves and an optional flower.
// A plant is Growing (stage 0..2) until its health reaches zero, then Dead;
// a dead plant keeps simulating its debris until IsRemovable.
type Plant struct {
	RootX, RootY float32
	Growth       float32 // 0..1, never decreases
	Stage        int
	Health       float32
	MaxHealth    float32
	Alive        bool
	InLight      bool

	Segments []StemSegment
	Leaves   []Leaf
	Flower   *Flower
	Debris   []Debris

	MossContactSeconds float32
	Penalties          int // moss penalties taken

	extraSegments int // granted by the flower
	leafJitter    int
	bounds        Rect

	cfg       *config.PlantConfig
	debrisCfg *config.DebrisConfig
	floorY    float32
	rng       *rand.Rand
}

// NewPlant roots a plant at (x, y) with a single short segment.
func NewPlant(x, y float32, cfg *config.Config, rng *rand.Rand) *Plant {
	pc := &cfg.Plant
	p := &Plant{
		RootX:     x,
		RootY:     y,
		Health:    float32(pc.MaxHealth),
		MaxHealth: float32(pc.MaxHealth),
		Alive:     true,
		cfg:       pc,
		debrisCfg: &cfg.Debris,
		floorY:    cfg.Derived.DebrisFloorY,
		rng:       rng,
	}
	p.Segments = append(p.Segments,
		newStemSegment(x, y, -90+randRange(rng, -10, 10), 5, float32(pc.SegmentLength), rng))
	p.refreshBounds()
	return p
}

// Tip returns the unswayed end of the last segment, or the root when there is none.
func (p *Plant) Tip() (float32, float32) {
	if len(p.Segments) == 0 {
		return p.RootX, p.RootY
	}
	return p.Segments[len(p.Segments)-1].End()
}

// LeafPosition returns the attach point of a leaf.
func (p *Plant) LeafPosition(l *Leaf) (float32, float32) {
	if l.Segment < 0 || l.Segment >= len(p.Segments) {
		return p.RootX, p.RootY
	}
	return p.Segments[l.Segment].PointAt(l.Fraction)
}

// Bounds returns the padded hitbox.
func (p *Plant) Bounds() Rect {
	return p.bounds
}

// Position implements Body as the hitbox centre.
func (p *Plant) Position() Vec2 {
	return Vec2{X: p.bounds.X + p.bounds.W/2, Y: p.bounds.Y + p.bounds.H/2}
}

// Radius implements Body as half the larger hitbox side.
func (p *Plant) Radius() float32 {
	return max(p.bounds.W, p.bounds.H) / 2
}

// Flowering reports whether the plant carries a fully bloomed flower.
func (p *Plant) Flowering() bool {
	return p.Flower != nil && p.Flower.Bloomed
}

// IsRemovable reports whether a dead plant has no debris left.
func (p *Plant) IsRemovable() bool {
	return !p.Alive && len(p.Debris) == 0
}

// ContactWithMoss reports whether any colony touches a stem segment, a leaf or
// the flower. It only reads, so plants can be queried concurrently.
func (p *Plant) ContactWithMoss(colonies []*MossColony) bool {
	if !p.Alive || len(p.Segments) == 0 {
		return false
	}
	stemR := float32(p.cfg.StemHitRadius)
	leafR := float32(p.cfg.LeafHitRadius)
	flowerR := float32(p.cfg.FlowerHitRadius)

	// The hitbox padding is visual; the broad phase must still reach every organ.
	box := p.bounds
	if grow := max(stemR, leafR, flowerR) - float32(p.cfg.HitboxPadding)/2; grow > 0 {
		box = Rect{X: box.X - grow, Y: box.Y - grow, W: box.W + 2*grow, H: box.H + 2*grow}
	}

	for _, c := range colonies {
		if !c.near(box) {
			continue
		}
		for i := range p.Segments {
			s := &p.Segments[i]
			ex, ey := s.End()
			if c.CollidesWithSegment(s.StartX, s.StartY, ex, ey, stemR) {
				return true
			}
		}
		for i := range p.Leaves {
			x, y := p.LeafPosition(&p.Leaves[i])
			if c.CollidesWithCircle(x, y, leafR) {
				return true
			}
		}
		if p.Flower != nil {
			x, y := p.Tip()
			if c.CollidesWithCircle(x, y, flowerR) {
				return true
			}
		}
	}
	return false
}

// Update advances the plant one tick. touchingMoss is the result of
// ContactWithMoss for this tick.
func (p *Plant) Update(ctx *WorldContext, touchingMoss bool) {
	p.updateDebris(ctx.Bounds)
	if !p.Alive {
		return
	}

	tx, ty := p.Tip()
	d, on := ctx.Light.Distance(tx, ty)
	p.InLight = on && d < ctx.Light.R
	p.grow(ctx, d)

	if ctx.MossDamage && touchingMoss {
		p.MossContactSeconds += ctx.DT
		if p.MossContactSeconds >= float32(p.cfg.ContactSeconds) {
			p.MossContactSeconds = 0
			p.Penalties++
			p.TakeDamage(float32(p.cfg.ContactPenalty))
			if !p.Alive {
				return
			}
		}
	} else {
		p.MossContactSeconds = 0
	}

	regen := float32(p.cfg.Regen)
	if p.InLight {
		regen += float32(p.cfg.RegenLightBonus)
	}
	p.Health = min(p.MaxHealth, p.Health+regen)

	p.growSegments(ctx)
	p.trySpawnLeaf()
	p.trySpawnFlower()
	p.updateChain(ctx)
	p.updateOrgans()
	p.refreshBounds()
}

func (p *Plant) grow(ctx *WorldContext, lightDist float32) {
	rate := float32(p.cfg.GrowthRate)
	var inc float32
	if p.InLight {
		t := clamp01(lightDist / ctx.Light.R)
		inc = rate * lerp(float32(p.cfg.LightGrowthMax), float32(p.cfg.LightGrowthMin), t)
	} else {
		daylight := 1 - 0.5*ctx.DayMultiplier
		inc = rate * float32(p.cfg.ShadeGrowth) * daylight
	}
	p.Growth = min(1, p.Growth+inc)

	switch {
	case p.Growth > float32(p.cfg.StageTwoAt):
		p.Stage = 2
	case p.Growth > float32(p.cfg.StageOneAt):
		p.Stage = 1
	default:
		p.Stage = 0
	}
}

// growSegments appends at most one segment per tick.
func (p *Plant) growSegments(ctx *WorldContext) {
	if len(p.Segments) == 0 {
		return
	}
	nominal := p.cfg.MaxSegments
	target := min(int(p.Growth*float32(nominal)), nominal)
	if p.Flower != nil {
		target = min(target+p.extraSegments, nominal+p.extraSegments)
	}

	last := &p.Segments[len(p.Segments)-1]
	if len(p.Segments) >= target || last.Growing {
		return
	}

	variation := float32(p.cfg.AngleVariation)
	angle := last.Angle + randRange(p.rng, -variation, variation)
	ex, ey := last.End()

	if p.InLight {
		toLight := headingDeg(ex, ey, ctx.Light.X, ctx.Light.Y)
		angle += angleDelta(angle, toLight) * float32(p.cfg.LightSeeking)
	}
	angle += angleDelta(angle, -90) * float32(p.cfg.UpwardTendency)
	angle = clampFloat(angle, float32(p.cfg.NewAngleMin), float32(p.cfg.NewAngleMax))

	p.Segments = append(p.Segments, newStemSegment(ex, ey, angle, 1, float32(p.cfg.SegmentLength), p.rng))
}

func (p *Plant) trySpawnLeaf() {
	if len(p.Leaves) >= p.cfg.MaxLeaves || len(p.Segments) < 2 {
		return
	}
	required := p.cfg.LeafBaseOffset + (len(p.Leaves)+1)*p.cfg.LeafInterval + p.leafJitter
	if len(p.Segments) < required {
		return
	}

	side := float32(1)
	if len(p.Leaves)%2 == 1 {
		side = -1
	}
	p.Leaves = append(p.Leaves, newLeaf(len(p.Segments)-2, side, p.rng))

	if j := p.cfg.LeafJitter; j > 0 {
		p.leafJitter = p.rng.Intn(2*j+1) - j
	}
}

func (p *Plant) trySpawnFlower() {
	if p.Flower != nil || p.Growth <= float32(p.cfg.FlowerThreshold) {
		return
	}
	if len(p.Segments) < p.cfg.FlowerMinSegments || p.Segments[len(p.Segments)-1].Growing {
		return
	}
	p.Flower = newFlower(p.rng)
	p.extraSegments = 1 + p.rng.Intn(2)
}

// updateChain re-links every segment to its parent's endpoint, then animates it.
// Each segment is animated before its child reads its endpoint, so the chain
// is connected when the tick ends.
func (p *Plant) updateChain(ctx *WorldContext) {
	speed := float32(p.cfg.SegmentGrowthSpeed)
	seeking := float32(p.cfg.LightSeeking)
	drift := float32(p.cfg.SegmentDrift)
	lo, hi := float32(p.cfg.AngleMin), float32(p.cfg.AngleMax)
	bendFrom := len(p.Segments) - p.cfg.TipBendSegments

	for i := range p.Segments {
		s := &p.Segments[i]
		if i == 0 {
			s.StartX, s.StartY = p.RootX, p.RootY
		} else {
			s.StartX, s.StartY = p.Segments[i-1].End()
		}

		if s.Growing {
			s.Length = min(s.Length+speed, s.TargetLength)
			if s.Length >= s.TargetLength {
				s.Growing = false
			}
		}

		if p.InLight && i >= bendFrom {
			ex, ey := s.End()
			reach := ctx.Light.R * 1.5
			if d := distance(ex, ey, ctx.Light.X, ctx.Light.Y); d < reach {
				influence := lerp(seeking, 0.02, d/reach)
				s.Angle += angleDelta(s.Angle, headingDeg(ex, ey, ctx.Light.X, ctx.Light.Y)) * influence * 0.1
			}
		}

		s.Angle += angleDelta(s.Angle, -90) * drift
		s.Angle = clampFloat(s.Angle, lo, hi)
		s.SwayPhase += s.SwaySpeed
	}
}

func (p *Plant) updateOrgans() {
	leafSpeed := float32(p.cfg.LeafGrowthSpeed)
	for i := range p.Leaves {
		p.Leaves[i].update(leafSpeed, p.InLight)
	}
	if p.Flower != nil {
		tx, ty := p.Tip()
		p.Flower.update(float32(p.cfg.FlowerGrowthSpeed), p.InLight, tx, ty, p.cfg.PollenRate, p.cfg.PollenLife, p.rng)
	}
}

func (p *Plant) refreshBounds() {
	minX, maxX := p.RootX, p.RootX
	minY, maxY := p.RootY, p.RootY
	for i := range p.Segments {
		ex, ey := p.Segments[i].End()
		minX, maxX = min(minX, ex), max(maxX, ex)
		minY, maxY = min(minY, ey), max(maxY, ey)
	}
	for i := range p.Leaves {
		x, y := p.LeafPosition(&p.Leaves[i])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	pad := float32(p.cfg.HitboxPadding) / 2
	p.bounds = Rect{X: minX - pad, Y: minY - pad, W: maxX - minX + 2*pad, H: maxY - minY + 2*pad}
}

// TakeDamage lowers health, clamped at zero, and kills the plant when it runs out.
// Below half health a random leaf may start wilting. No-op once dead or for
// non-positive amounts.
func (p *Plant) TakeDamage(amount float32) {
	if !p.Alive || !(amount > 0) {
		return
	}
	p.Health -= amount

	if p.Health < p.MaxHealth*0.5 && len(p.Leaves) > 0 && p.rng.Float64() < p.cfg.WiltChance {
		p.Leaves[p.rng.Intn(len(p.Leaves))].Wilting = true
	}

	if p.Health <= 0 {
		p.Health = 0
		p.Die()
	}
}

// Die turns every segment, leaf and the flower into debris and clears them.
// Only the first call has any effect.
func (p *Plant) Die() {
	if !p.Alive {
		return
	}
	p.Alive = false
	p.InLight = false
	p.MossContactSeconds = 0

	for i := range p.Segments {
		s := &p.Segments[i]
		d := newDebris(DebrisStem, s.StartX, s.StartY, s.Angle, p.rng, p.debrisCfg)
		d.Length = s.Length
		p.Debris = append(p.Debris, d)
	}
	for i := range p.Leaves {
		l := &p.Leaves[i]
		x, y := p.LeafPosition(l)
		angle := l.BaseAngle
		if l.Segment >= 0 && l.Segment < len(p.Segments) {
			angle += p.Segments[l.Segment].Angle
		}
		d := newDebris(DebrisLeaf, x, y, angle, p.rng, p.debrisCfg)
		d.Scale = l.Scale
		p.Debris = append(p.Debris, d)
	}
	if p.Flower != nil {
		x, y := p.Tip()
		d := newDebris(DebrisFlower, x, y, 0, p.rng, p.debrisCfg)
		d.Scale = p.Flower.Scale
		p.Debris = append(p.Debris, d)
	}

	p.Segments = p.Segments[:0]
	p.Leaves = p.Leaves[:0]
	p.Flower = nil
}

func (p *Plant) updateDebris(bounds Bounds) {
	if len(p.Debris) == 0 {
		return
	}
	alive := p.Debris[:0]
	for _, d := range p.Debris {
		if d.Update(bounds, p.floorY, p.debrisCfg) {
			alive = append(alive, d)
		}
	}
	p.Debris = alive
}
