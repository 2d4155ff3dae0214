package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/systems"
)

const glowTextureSize = 256

// LightRenderer draws the player's light as a soft additive glow.
// The displayed glow eases toward the simulated light so pointer jumps
// and radius changes do not pop.
type LightRenderer struct {
	glowTex rl.Texture2D

	// Smoothed display state
	x, y, r float32
	alpha   float32

	initialized bool
}

// NewLightRenderer creates a new light renderer.
func NewLightRenderer() *LightRenderer {
	return &LightRenderer{}
}

// Init builds the glow texture (must be called after the raylib window is created).
func (l *LightRenderer) Init() {
	if l.initialized {
		return
	}

	inner := rl.Color{R: 255, G: 244, B: 200, A: 255}
	outer := rl.Color{R: 255, G: 220, B: 140, A: 0}
	img := rl.GenImageGradientRadial(glowTextureSize, glowTextureSize, 0, inner, outer)
	l.glowTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(l.glowTex, rl.FilterBilinear)

	l.initialized = true
}

// Draw renders the glow for the current light state.
func (l *LightRenderer) Draw(light *systems.Light, dt float32) {
	if !l.initialized {
		return
	}

	target := float32(0)
	if light.On() {
		target = 1
		if l.alpha == 0 {
			// Appear where the pointer is, not where it left
			l.x, l.y, l.r = light.X, light.Y, light.R
		}
	}

	rate := min(12*dt, 1)
	l.alpha += (target - l.alpha) * rate
	if l.alpha < 0.01 && target == 0 {
		l.alpha = 0
		return
	}
	if light.On() {
		l.x += (light.X - l.x) * rate
		l.y += (light.Y - l.y) * rate
		l.r += (light.R - l.r) * rate
	}

	// The glow bleeds past the radius; the ring marks the actual reach
	size := l.r * 2.6
	src := rl.Rectangle{X: 0, Y: 0, Width: glowTextureSize, Height: glowTextureSize}
	dst := rl.Rectangle{X: l.x - size/2, Y: l.y - size/2, Width: size, Height: size}

	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DrawTexturePro(l.glowTex, src, dst, rl.Vector2{}, 0, rl.Fade(rl.White, 0.55*l.alpha))
	rl.EndBlendMode()

	rl.DrawCircleLines(int32(l.x), int32(l.y), l.r, rl.Fade(rl.Color{R: 255, G: 240, B: 180, A: 255}, 0.35*l.alpha))
}

// Unload frees resources.
func (l *LightRenderer) Unload() {
	if l.initialized {
		rl.UnloadTexture(l.glowTex)
		l.initialized = false
	}
}
