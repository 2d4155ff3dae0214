package systems

import (
	"math"
	"math/rand"
)

// StemSegment is one link of a plant's stem chain.
type StemSegment struct {
	StartX, StartY float32
	Angle          float32 // degrees, -90 is straight up
	Length         float32
	TargetLength   float32
	Growing        bool
	SwayPhase      float32
	SwaySpeed      float32
	SwayAmount     float32 // degrees
}

func newStemSegment(x, y, angle, length, target float32, rng *rand.Rand) StemSegment {
	return StemSegment{
		StartX:       x,
		StartY:       y,
		Angle:        angle,
		Length:       length,
		TargetLength: target,
		Growing:      length < target,
		SwayPhase:    rng.Float32() * 1000,
		SwaySpeed:    randRange(rng, 0.015, 0.025),
		SwayAmount:   randRange(rng, 1.5, 3),
	}
}

// End returns the segment endpoint without sway. The chain links on this point.
func (s *StemSegment) End() (float32, float32) {
	rad := float64(s.Angle) * degToRad
	return s.StartX + float32(math.Cos(rad))*s.Length, s.StartY + float32(math.Sin(rad))*s.Length
}

// Sway returns the current sway offset in degrees.
func (s *StemSegment) Sway() float32 {
	return float32(math.Sin(float64(s.SwayPhase))) * s.SwayAmount
}

// SwayEnd returns the endpoint including sway, for drawing.
func (s *StemSegment) SwayEnd() (float32, float32) {
	rad := float64(s.Angle+s.Sway()) * degToRad
	return s.StartX + float32(math.Cos(rad))*s.Length, s.StartY + float32(math.Sin(rad))*s.Length
}

// PointAt returns the point at fraction t along the unswayed segment.
func (s *StemSegment) PointAt(t float32) (float32, float32) {
	ex, ey := s.End()
	return lerp(s.StartX, ex, t), lerp(s.StartY, ey, t)
}

// Leaf is attached to a stem segment by index.
type Leaf struct {
	Segment     int
	Fraction    float32 // position along the segment
	Side        float32 // +1 or -1
	BaseAngle   float32 // degrees relative to the segment
	Scale       float32
	TargetScale float32
	Wilting     bool
	SwayPhase   float32
	SwaySpeed   float32
}

func newLeaf(segment int, side float32, rng *rand.Rand) Leaf {
	return Leaf{
		Segment:     segment,
		Fraction:    randRange(rng, 0.4, 0.85),
		Side:        side,
		BaseAngle:   side * randRange(rng, 35, 70),
		Scale:       0.15,
		TargetScale: 1,
		SwayPhase:   rng.Float32() * 1000,
		SwaySpeed:   randRange(rng, 0.02, 0.04),
	}
}

func (l *Leaf) update(growthSpeed float32, inLight bool) {
	if l.Wilting {
		l.Scale = lerp(l.Scale, 0.3, 0.02)
	} else {
		if inLight {
			growthSpeed *= 1.5
		}
		l.Scale = min(lerp(l.Scale, l.TargetScale, growthSpeed), l.TargetScale)
	}
	l.SwayPhase += l.SwaySpeed
}

// Sway returns the leaf's current sway in degrees. Leaves in light sway less.
func (l *Leaf) Sway(inLight bool) float32 {
	amount := float32(6)
	if inLight {
		amount *= 0.5
	}
	return float32(math.Sin(float64(l.SwayPhase))) * amount
}

// PollenMote is a short-lived rising particle from a bloomed flower.
type PollenMote struct {
	X, Y       float32
	VelX, VelY float32
	Size       float32
	Life       int32
	MaxLife    int32
}

// Flower sits on the stem tip.
type Flower struct {
	Scale       float32
	TargetScale float32
	Bloomed     bool
	SwayPhase   float32
	Pollen      []PollenMote

	pollenTimer int
}

func newFlower(rng *rand.Rand) *Flower {
	return &Flower{
		Scale:       0.1,
		TargetScale: 1,
		SwayPhase:   rng.Float32() * 1000,
	}
}

// Sway returns the flower's current sway in degrees.
func (f *Flower) Sway() float32 {
	return float32(math.Sin(float64(f.SwayPhase))) * 4
}

func (f *Flower) update(growthSpeed float32, inLight bool, tipX, tipY float32, rate, life int, rng *rand.Rand) {
	if inLight {
		growthSpeed *= 1.8
	}
	f.Scale = lerp(f.Scale, f.TargetScale, growthSpeed)
	if !f.Bloomed && f.Scale/f.TargetScale > 0.95 {
		f.Bloomed = true
	}
	f.SwayPhase += 0.015

	if f.Bloomed && inLight && rate > 0 {
		f.pollenTimer++
		if f.pollenTimer > rate {
			f.pollenTimer = 0
			for i := 0; i < 2; i++ {
				l := int32(life/2 + rng.Intn(life/2+1))
				f.Pollen = append(f.Pollen, PollenMote{
					X:       tipX + randRange(rng, -10, 10),
					Y:       tipY + randRange(rng, -10, 10),
					VelX:    randRange(rng, -0.5, 0.5),
					VelY:    randRange(rng, -0.3, 0.1),
					Size:    randRange(rng, 3, 6),
					Life:    l,
					MaxLife: l,
				})
			}
		}
	}

	alive := f.Pollen[:0]
	for _, m := range f.Pollen {
		m.X += m.VelX
		m.Y += m.VelY
		m.VelY -= 0.02
		m.Life--
		if m.Life > 0 {
			alive = append(alive, m)
		}
	}
	f.Pollen = alive
}
