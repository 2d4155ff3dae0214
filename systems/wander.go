package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// LightWander steers the light along a smooth noise path. Headless runs and
// the tuner use it in place of a player.
type LightWander struct {
	noise  opensimplex.Noise
	t      float64
	speed  float64
	scale  float32
	bounds Bounds
}

// NewLightWander creates a wander path over the playfield. scale is the
// fraction of the playfield the path spans around the centre.
func NewLightWander(seed int64, bounds Bounds, speed, scale float64) *LightWander {
	return &LightWander{
		noise:  opensimplex.New(seed),
		speed:  speed,
		scale:  float32(scale),
		bounds: bounds,
	}
}

// Next advances the path one tick and returns the new light position.
func (w *LightWander) Next() Vec2 {
	w.t += w.speed
	nx := float32(w.noise.Eval2(w.t, 0))
	ny := float32(w.noise.Eval2(0, w.t+100))
	c := w.bounds.Center()
	return Vec2{
		X: clampFloat(c.X+nx*w.scale*w.bounds.Width, 0, w.bounds.Width),
		Y: clampFloat(c.Y+ny*w.scale*w.bounds.Height, 0, w.bounds.Height),
	}
}
