package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sky colours at the start of each quarter of the day.
var skyKeys = [4]rl.Color{
	{R: 60, G: 80, B: 120, A: 255},   // dawn
	{R: 135, G: 206, B: 235, A: 255}, // day
	{R: 200, G: 100, B: 50, A: 255},  // dusk
	{R: 20, G: 20, B: 40, A: 255},    // night
}

var (
	groundTop    = rl.Color{R: 70, G: 52, B: 34, A: 255}
	groundBottom = rl.Color{R: 40, G: 30, B: 20, A: 255}
)

// SkyRenderer draws the day-cycle background and the ground strip.
type SkyRenderer struct {
	screenW, screenH int32
	groundY          int32
}

// NewSkyRenderer creates a sky renderer for the screen; plants root at groundY.
func NewSkyRenderer(screenW, screenH int32, groundY float32) *SkyRenderer {
	return &SkyRenderer{
		screenW: screenW,
		screenH: screenH,
		groundY: int32(groundY),
	}
}

// SkyColor returns the sky colour for a point in the day cycle in [0, 1).
// Each quarter blends from its own colour toward the next quarter's.
func SkyColor(progress float32) rl.Color {
	q := progress * 4
	i := int(q) % 4
	if i < 0 {
		i = 0
	}
	return lerpColor(skyKeys[i], skyKeys[(i+1)%4], q-float32(int(q)))
}

// Draw renders the sky gradient and the ground.
func (s *SkyRenderer) Draw(progress float32) {
	top := SkyColor(progress)
	bottom := lerpColor(top, rl.Black, 0.35)
	rl.DrawRectangleGradientV(0, 0, s.screenW, s.groundY, top, bottom)
	rl.DrawRectangleGradientV(0, s.groundY, s.screenW, s.screenH-s.groundY, groundTop, groundBottom)
}
