package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/systems"
)

var (
	mossYoung  = rl.Color{R: 118, G: 164, B: 72, A: 255}
	mossOld    = rl.Color{R: 46, G: 92, B: 44, A: 255}
	mossPurged = rl.Color{R: 226, G: 214, B: 150, A: 255}
)

// Generation at which a point reaches the old colour.
const mossDarkGeneration = 30

// MossRenderer draws spore points as soft overlapping circles.
type MossRenderer struct{}

// NewMossRenderer creates a new moss renderer.
func NewMossRenderer() *MossRenderer {
	return &MossRenderer{}
}

// Draw renders every colony. time drives the per-point wobble.
func (r *MossRenderer) Draw(colonies []*systems.MossColony, time float32) {
	for _, c := range colonies {
		for i := range c.Points {
			p := &c.Points[i]
			radius := p.EffectiveRadius()
			if radius < 0.5 {
				continue
			}

			wobble := 1 + 0.08*(pulse(time*1.7+p.JitterSeed)*2-1)
			color := lerpColor(mossYoung, mossOld, float32(p.Generation)/mossDarkGeneration)
			if p.Dying {
				color = lerpColor(color, mossPurged, 1-p.Alpha/255)
			}

			// Dark underlay gives the mat some depth
			rl.DrawCircleV(rl.Vector2{X: p.X + 1, Y: p.Y + 2}, radius*wobble, withAlpha(mossOld, p.Alpha*0.35))
			rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, radius*wobble, withAlpha(color, p.Alpha*0.8))
		}
	}
}
