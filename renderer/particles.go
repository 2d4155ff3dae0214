package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/systems"
)

var (
	pollenColor = rl.Color{R: 255, G: 236, B: 120, A: 255}
	seedColor   = rl.Color{R: 150, G: 104, B: 56, A: 255}
	seedHusk    = rl.Color{R: 96, G: 66, B: 34, A: 255}
)

// ParticleRenderer renders pollen, plant debris and falling seeds.
type ParticleRenderer struct {
	fadeStart float32
}

// NewParticleRenderer creates a new particle renderer. Debris fades out over
// the last fadeStart fraction of its life.
func NewParticleRenderer(fadeStart float32) *ParticleRenderer {
	return &ParticleRenderer{fadeStart: fadeStart}
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw(plants []*systems.Plant, seeds []systems.Vec2) {
	for _, p := range plants {
		r.drawDebris(p.Debris)
		if p.Flower != nil {
			r.drawPollen(p.Flower.Pollen)
		}
	}
	for _, s := range seeds {
		rl.DrawEllipse(int32(s.X), int32(s.Y), 2.5, 4, seedColor)
		rl.DrawLineEx(rl.Vector2{X: s.X, Y: s.Y - 4}, rl.Vector2{X: s.X, Y: s.Y - 8}, 1, seedHusk)
	}
}

func (r *ParticleRenderer) drawPollen(pollen []systems.PollenMote) {
	for i := range pollen {
		m := &pollen[i]

		// Calculate life ratio for fade
		lifeRatio := float32(m.Life) / float32(max(m.MaxLife, 1))
		size := max(m.Size*lifeRatio, 0.5)
		rl.DrawCircleV(rl.Vector2{X: m.X, Y: m.Y}, size, withAlpha(pollenColor, lifeRatio*200))
	}
}

func (r *ParticleRenderer) drawDebris(debris []systems.Debris) {
	for i := range debris {
		d := &debris[i]
		alpha := d.Opacity(r.fadeStart) * 255
		at := rl.Vector2{X: d.X, Y: d.Y}

		switch d.Kind {
		case systems.DebrisStem:
			rl.DrawLineEx(at, polar(d.X, d.Y, d.Angle, d.Length), 2.5, withAlpha(stemSick, alpha))
		case systems.DebrisLeaf:
			drawLeaf(at, d.Angle, d.Scale, withAlpha(leafWilted, alpha))
		case systems.DebrisFlower:
			drawFlower(at, d.Scale, d.Angle, false, alpha)
		}
	}
}
