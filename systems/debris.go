package systems

import (
	"math/rand"

	"github.com/pthm-cable/overgrown/config"
)

// DebrisKind identifies which organ a debris piece came from.
type DebrisKind uint8

const (
	DebrisStem DebrisKind = iota
	DebrisLeaf
	DebrisFlower
)

// Debris is a falling remnant of a dead plant.
type Debris struct {
	Kind       DebrisKind
	X, Y       float32
	VelX, VelY float32
	Angle      float32 // degrees
	AngularVel float32
	Life       int32
	MaxLife    int32
	Length     float32 // stem pieces
	Scale      float32 // leaves and flowers
}

// newDebris launches a piece from (x, y) with a random upward kick and spin.
func newDebris(kind DebrisKind, x, y, angle float32, rng *rand.Rand, cfg *config.DebrisConfig) Debris {
	var lo, hi int
	switch kind {
	case DebrisLeaf:
		lo, hi = cfg.LeafLifeMin, cfg.LeafLifeMax
	case DebrisFlower:
		lo, hi = cfg.FlowerLifeMin, cfg.FlowerLifeMax
	default:
		lo, hi = cfg.StemLifeMin, cfg.StemLifeMax
	}
	life := int32(lo + rng.Intn(hi-lo+1))

	maxVX := float32(cfg.MaxSpeedX)
	maxSpin := float32(cfg.MaxSpin)
	return Debris{
		Kind:       kind,
		X:          x,
		Y:          y,
		VelX:       randRange(rng, -maxVX, maxVX),
		VelY:       randRange(rng, float32(cfg.MinLaunchY), float32(cfg.MaxLaunchY)),
		Angle:      angle,
		AngularVel: randRange(rng, -maxSpin, maxSpin),
		Life:       life,
		MaxLife:    life,
		Scale:      1,
	}
}

// Update advances one tick of motion. floorY is the ground line.
// Returns false once the piece has expired.
func (d *Debris) Update(bounds Bounds, floorY float32, cfg *config.DebrisConfig) bool {
	d.VelY += float32(cfg.Gravity)
	d.X += d.VelX
	d.Y += d.VelY
	d.VelX *= float32(cfg.AirDrag)
	d.Angle += d.AngularVel
	d.AngularVel *= float32(cfg.AngularDrag)

	if d.Y > floorY {
		d.Y = floorY
		d.VelY *= -float32(cfg.Bounce)
		d.VelX *= float32(cfg.Friction)
		d.AngularVel *= 0.5
		if abs32(d.VelY) < float32(cfg.RestSpeed) {
			d.VelY = 0
		}
	}

	if d.X < 0 {
		d.X = 0
		d.VelX *= -0.5
	} else if d.X > bounds.Width {
		d.X = bounds.Width
		d.VelX *= -0.5
	}

	d.Life--
	return d.Life > 0
}

// Opacity returns 1 until the remaining life ratio drops below fadeStart,
// then fades linearly to 0.
func (d Debris) Opacity(fadeStart float32) float32 {
	if d.MaxLife <= 0 {
		return 0
	}
	ratio := float32(d.Life) / float32(d.MaxLife)
	if ratio >= fadeStart || fadeStart <= 0 {
		return 1
	}
	return clamp01(ratio / fadeStart)
}
