package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is what the controls panel shows and edits.
type ControlsState struct {
	Paused      bool
	Speed       int
	LightRadius float32
}

// ControlsAction reports what the user changed through the panel this frame.
type ControlsAction struct {
	TogglePause bool
	SpeedDelta  int
	LightRadius float32 // new radius, or 0 when unchanged
}

// ControlsPanel renders the right-side controls panel with raygui widgets
// and the overlay toggles.
type ControlsPanel struct {
	renderer       *Renderer
	x, y           int32
	width          int32
	minRad, maxRad float32
}

// NewControlsPanel creates a new controls panel. The slider spans
// [minRadius, maxRadius].
func NewControlsPanel(x, y, width int32, minRadius, maxRadius float32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		minRad:   minRadius,
		maxRad:   maxRadius,
	}
}

// Bounds returns the panel rectangle for the given overlay set, so the
// caller can keep the light from following the pointer over it.
func (c *ControlsPanel) Bounds(overlays *OverlayRegistry) rl.Rectangle {
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height(overlays))}
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	items := 0
	for _, cat := range overlays.Categories() {
		items += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	return int32(items)*r.Theme.LineHeight + 130 + r.Theme.Padding*2
}

// Draw renders the controls panel and returns the user's changes.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsAction {
	var action ControlsAction

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := float32(c.width - padding*2)

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := c.y + padding

	rl.DrawText("Garden", int32(x), y, 16, rl.White)
	y += lineHeight + 6

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, pauseText) {
		action.TogglePause = true
	}
	y += 30

	third := (inner - 8) / 3
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: third, Height: 24}, "-") {
		action.SpeedDelta = -1
	}
	speed := fmt.Sprintf("%dx", state.Speed)
	sw := rl.MeasureText(speed, 16)
	rl.DrawText(speed, int32(x+third+4+(third-float32(sw))/2), y+4, 16, rl.RayWhite)
	if gui.Button(rl.Rectangle{X: x + 2*third + 8, Y: float32(y), Width: third, Height: 24}, "+") {
		action.SpeedDelta = 1
	}
	y += 32

	rl.DrawText(fmt.Sprintf("Light radius %.0f", state.LightRadius), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight
	radius := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 16},
		"", "",
		state.LightRadius, c.minRad, c.maxRad,
	)
	if radius != state.LightRadius {
		action.LightRadius = radius
	}
	y += 28

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), int32(x), y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(int32(x), y, desc, overlays.IsEnabled(desc.ID), int32(inner))
			y += lineHeight
		}
	}

	return action
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "view":
		return "View"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
