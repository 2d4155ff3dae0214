package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/systems"
)

var (
	stemHealthy = rl.Color{R: 62, G: 140, B: 58, A: 255}
	stemSick    = rl.Color{R: 112, G: 84, B: 44, A: 255}
	leafHealthy = rl.Color{R: 84, G: 172, B: 70, A: 255}
	leafWilted  = rl.Color{R: 150, G: 118, B: 60, A: 255}
	petalColor  = rl.Color{R: 240, G: 150, B: 190, A: 255}
	petalBloom  = rl.Color{R: 255, G: 196, B: 220, A: 255}
	flowerHeart = rl.Color{R: 250, G: 210, B: 70, A: 255}
)

const (
	leafLength = 14
	leafWidth  = 5
	petalCount = 5
)

// PlantRenderer draws living plants. Debris and pollen are drawn by the
// ParticleRenderer.
type PlantRenderer struct {
	// Scratch buffers for the swayed chain of the plant being drawn
	starts []rl.Vector2
	angles []float32
}

// NewPlantRenderer creates a new plant renderer.
func NewPlantRenderer() *PlantRenderer {
	return &PlantRenderer{}
}

// Draw renders every living plant.
func (r *PlantRenderer) Draw(plants []*systems.Plant) {
	for _, p := range plants {
		if !p.Alive || len(p.Segments) == 0 {
			continue
		}
		r.drawPlant(p)
	}
}

func (r *PlantRenderer) drawPlant(p *systems.Plant) {
	health := p.Health / p.MaxHealth
	stemColor := lerpColor(stemSick, stemHealthy, health)

	// Sway accumulates up the chain so the stem bends as one piece
	r.starts = r.starts[:0]
	r.angles = r.angles[:0]
	at := rl.Vector2{X: p.RootX, Y: p.RootY}
	n := len(p.Segments)
	for i := range p.Segments {
		s := &p.Segments[i]
		angle := s.Angle + s.Sway()
		end := polar(at.X, at.Y, angle, s.Length)

		thick := 4 - 2*float32(i)/float32(max(n-1, 1))
		rl.DrawLineEx(at, end, thick, stemColor)
		rl.DrawCircleV(end, thick/2, stemColor)

		r.starts = append(r.starts, at)
		r.angles = append(r.angles, angle)
		at = end
	}

	for i := range p.Leaves {
		l := &p.Leaves[i]
		if l.Segment < 0 || l.Segment >= n {
			continue
		}
		base := polar(r.starts[l.Segment].X, r.starts[l.Segment].Y, r.angles[l.Segment],
			p.Segments[l.Segment].Length*l.Fraction)
		color := leafHealthy
		if l.Wilting {
			color = leafWilted
		}
		drawLeaf(base, r.angles[l.Segment]+l.BaseAngle+l.Sway(p.InLight), l.Scale, color)
	}

	if p.Flower != nil {
		drawFlower(at, p.Flower.Scale, p.Flower.Sway(), p.Flower.Bloomed, 255)
	}
}

// drawLeaf draws a leaf as a diamond pointing along angle.
func drawLeaf(base rl.Vector2, angle, scale float32, color rl.Color) {
	length := leafLength * scale
	width := leafWidth * scale
	tip := polar(base.X, base.Y, angle, length)
	mid := polar(base.X, base.Y, angle, length*0.45)
	left := polar(mid.X, mid.Y, angle-90, width)
	right := polar(mid.X, mid.Y, angle+90, width)

	fillTriangle(base, left, tip, color)
	fillTriangle(base, tip, right, color)
}

// drawFlower draws petals around a centre, rotated by spin degrees.
func drawFlower(center rl.Vector2, scale, spin float32, bloomed bool, alpha float32) {
	color := petalColor
	size := 4 * scale
	if bloomed {
		color = petalBloom
		size *= 1.2
	}
	color = withAlpha(color, alpha)

	for i := 0; i < petalCount; i++ {
		angle := spin + float32(i)*360/petalCount
		rl.DrawCircleV(polar(center.X, center.Y, angle, size), size*0.8, color)
	}
	rl.DrawCircleV(center, size*0.6, withAlpha(flowerHeart, alpha))
}

// pulse returns a slow 0..1 oscillation for a phase.
func pulse(phase float32) float32 {
	return 0.5 + 0.5*float32(math.Sin(float64(phase)))
}
