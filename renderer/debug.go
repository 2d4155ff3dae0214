package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	hitboxColor    = rl.Color{R: 255, G: 80, B: 80, A: 160}
	colonyBoxColor = rl.Color{R: 80, G: 160, B: 255, A: 120}
	cellCovered    = rl.Color{R: 60, G: 200, B: 90, A: 90}
	cellOpen       = rl.Color{R: 230, G: 70, B: 60, A: 90}
)

// DebugRenderer draws hitboxes and the coverage grid.
type DebugRenderer struct {
	cellW, cellH float32
}

// NewDebugRenderer creates a debug renderer for a cols x rows coverage grid.
func NewDebugRenderer(screenW, screenH int32, cols, rows int) *DebugRenderer {
	return &DebugRenderer{
		cellW: float32(screenW) / float32(max(cols, 1)),
		cellH: float32(screenH) / float32(max(rows, 1)),
	}
}

// DrawHitboxes outlines every plant hitbox and colony bounding box.
func (d *DebugRenderer) DrawHitboxes(scene Scene) {
	for _, p := range scene.Plants() {
		if !p.Alive {
			continue
		}
		b := p.Bounds()
		rl.DrawRectangleLinesEx(rl.Rectangle{X: b.X, Y: b.Y, Width: b.W, Height: b.H}, 1, hitboxColor)
	}
	for _, c := range scene.Colonies() {
		if c.IsExtinct() {
			continue
		}
		b := c.Bounds()
		rl.DrawRectangleLinesEx(rl.Rectangle{X: b.X, Y: b.Y, Width: b.W, Height: b.H}, 1, colonyBoxColor)
	}
}

// DrawCoverage shades each coverage cell by its last sampled state.
func (d *DebugRenderer) DrawCoverage(scene Scene) {
	uncovered := scene.CoverageSample().Uncovered
	next := 0
	for _, c := range scene.CoverageCenters() {
		// Both lists are row-major, so one pass matches them up
		color := cellCovered
		if next < len(uncovered) && uncovered[next] == c {
			color = cellOpen
			next++
		}
		rl.DrawRectangleV(
			rl.Vector2{X: c.X - d.cellW/2 + 1, Y: c.Y - d.cellH/2 + 1},
			rl.Vector2{X: d.cellW - 2, Y: d.cellH - 2},
			color,
		)
		rl.DrawCircleV(rl.Vector2{X: c.X, Y: c.Y}, 1.5, rl.Fade(rl.White, 0.6))
	}
}

