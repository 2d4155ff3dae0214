// Package renderer draws the garden with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/systems"
)

// Scene is the read-only view of the garden the renderers draw from.
type Scene interface {
	Plants() []*systems.Plant
	Colonies() []*systems.MossColony
	Light() *systems.Light
	SeedPositions() []systems.Vec2
	DayProgress() float32
	CoverageCenters() []systems.Vec2
	CoverageSample() systems.CoverageSample
}

const degToRad = math.Pi / 180

func lerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func withAlpha(c rl.Color, a float32) rl.Color {
	if a < 0 {
		a = 0
	} else if a > 255 {
		a = 255
	}
	c.A = uint8(a)
	return c
}

// polar returns the point at distance length from (x, y) along angle degrees.
func polar(x, y, angle, length float32) rl.Vector2 {
	rad := float64(angle) * degToRad
	return rl.Vector2{
		X: x + float32(math.Cos(rad))*length,
		Y: y + float32(math.Sin(rad))*length,
	}
}

// fillTriangle draws a triangle in either winding.
// DrawTriangle only fills counter-clockwise vertices in screen space.
func fillTriangle(a, b, c rl.Vector2, color rl.Color) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(a, b, c, color)
}
