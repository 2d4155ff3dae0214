package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Coverage     float32
	Overgrow     bool
	Climax       bool
	Finished     bool
	Phase        string
	Plants       int
	Capacity     int
	Colonies     int
	Seeds        int
	Tick         int32
	Speed        int
	FPS          int32
	Paused       bool
	SafeStart    bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	// Coverage is the one number the player is fighting
	fill := r.Theme.BarFill
	switch {
	case data.Climax:
		fill = rl.Color{R: 60, G: 110, B: 50, A: 255}
	case data.Overgrow:
		fill = r.Theme.BarFillMedium
	}
	r.DrawBar(10, 36, "Moss", data.Coverage, 260, fill)

	rl.DrawText(
		fmt.Sprintf("Plants: %d/%d | Seeds: %d | Colonies: %d", data.Plants, data.Capacity, data.Seeds, data.Colonies),
		10, 56, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | %s", data.Tick, data.Speed, data.FPS, data.Phase),
		10, 76, 16, rl.LightGray,
	)

	// Status
	status, color := "Running", rl.Yellow
	switch {
	case data.Paused:
		status = "PAUSED"
	case data.Climax:
		status, color = "The moss is taking everything", rl.Color{R: 150, G: 220, B: 120, A: 255}
	case data.Overgrow:
		status, color = "OVERGROWING", rl.Orange
	case data.SafeStart:
		status, color = "Moss is gathering...", rl.SkyBlue
	}
	rl.DrawText(status, 10, 96, 16, color)

	if data.Finished {
		h.drawBanner(data.ScreenWidth, data.ScreenHeight, data.Tick)
	}
}

func (h *HUD) drawBanner(screenW, screenH, tick int32) {
	const title = "The garden is overgrown"
	sub := fmt.Sprintf("Held out for %d ticks. Press R to restart.", tick)

	w := screenW * 2 / 3
	x, y := (screenW-w)/2, screenH/2-50
	h.renderer.DrawPanel(x, y, w, 100)

	tw := rl.MeasureText(title, 28)
	rl.DrawText(title, (screenW-tw)/2, y+20, 28, rl.White)
	sw := rl.MeasureText(sub, 16)
	rl.DrawText(sub, (screenW-sw)/2, y+62, 16, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick phase performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	height := int32(90 + 14*len(telemetry.Phases))
	r.DrawPanel(p.x, p.y, 250, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 18

	rl.DrawText(fmt.Sprintf("Contacts: %.0f plants, %.0f%% pooled", stats.AvgContacts, stats.PooledTickPct),
		x, y, 12, rl.LightGray)
	y += 14
	rl.DrawText(fmt.Sprintf("Coverage sample: %s  Moss: %.0fns/pt",
		stats.AvgSampleCost.Round(time.Microsecond), stats.MossNsPerPoint), x, y, 12, rl.LightGray)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
