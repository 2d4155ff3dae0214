package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/config"
	"github.com/pthm-cable/overgrown/game"
	"github.com/pthm-cable/overgrown/renderer"
	"github.com/pthm-cable/overgrown/ui"
)

const controlsLegend = "Mouse: light | Space/RMB: seed | Enter: pause | ,/.: speed | Tab I D P: panels | R: restart"

// view owns the raylib presentation of a garden. It is rebuilt on restart
// only for the parts that hold GPU resources.
type view struct {
	cfg *config.Config

	sky       *renderer.SkyRenderer
	light     *renderer.LightRenderer
	plants    *renderer.PlantRenderer
	moss      *renderer.MossRenderer
	particles *renderer.ParticleRenderer
	debug     *renderer.DebugRenderer

	hud       *ui.HUD
	perf      *ui.PerfPanel
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	overlays  *ui.OverlayRegistry

	time float32
}

func newView(cfg *config.Config) *view {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	radius := float32(cfg.Light.Radius)

	v := &view{
		cfg:       cfg,
		sky:       renderer.NewSkyRenderer(w, h, cfg.Derived.GroundY),
		light:     renderer.NewLightRenderer(),
		plants:    renderer.NewPlantRenderer(),
		moss:      renderer.NewMossRenderer(),
		particles: renderer.NewParticleRenderer(float32(cfg.Debris.FadeStart)),
		debug:     renderer.NewDebugRenderer(w, h, cfg.Coverage.Cols, cfg.Coverage.Rows),
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(10, 130),
		controls:  ui.NewControlsPanel(w-190, 10, 180, radius*0.4, radius*2),
		inspector: ui.NewInspector(200),
		overlays:  ui.NewOverlayRegistry(),
	}
	v.light.Init()
	return v
}

// frame polls input, advances the game and draws it. It reports whether the
// player asked for a restart.
func (v *view) frame(g *game.Game) (restart bool) {
	v.overlays.HandleKeys()

	var blocked *rl.Rectangle
	if v.overlays.IsEnabled(ui.OverlayControls) {
		r := v.controls.Bounds(v.overlays)
		blocked = &r
	}
	in, cmd := ui.PollInput(blocked)

	if cmd.TogglePause {
		g.SetPaused(!g.Paused())
	}
	if cmd.SpeedDelta != 0 {
		g.SetStepsPerUpdate(g.StepsPerUpdate() + cmd.SpeedDelta)
	}

	g.Update(in)

	dt := rl.GetFrameTime()
	v.time += dt

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.sky.Draw(g.DayProgress())
	v.moss.Draw(g.Colonies(), v.time)
	v.plants.Draw(g.Plants())
	v.particles.Draw(g.Plants(), g.SeedPositions())
	v.light.Draw(g.Light(), dt)

	if v.overlays.IsEnabled(ui.OverlayDebug) {
		v.debug.DrawCoverage(g)
		v.debug.DrawHitboxes(g)
	}

	v.drawUI(g, in)

	rl.EndDrawing()

	return cmd.Restart && g.Finished()
}

func (v *view) drawUI(g *game.Game, in game.Input) {
	w, h := int32(v.cfg.Screen.Width), int32(v.cfg.Screen.Height)

	v.hud.Draw(ui.HUDData{
		Title:        "Overgrown",
		Coverage:     g.Coverage(),
		Overgrow:     g.Overgrow(),
		Climax:       g.ClimaxActive(),
		Finished:     g.Finished(),
		Phase:        g.Phase().String(),
		Plants:       g.PlantCount(),
		Capacity:     v.cfg.Garden.PlantCapacity,
		Colonies:     len(g.Colonies()),
		Seeds:        len(g.SeedPositions()),
		Tick:         g.Tick(),
		Speed:        g.StepsPerUpdate(),
		FPS:          rl.GetFPS(),
		Paused:       g.Paused(),
		SafeStart:    g.SafeStart(),
		ScreenWidth:  w,
		ScreenHeight: h,
	})
	v.hud.DrawControls(h, controlsLegend)

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(g.PerfStats())
	}

	if v.overlays.IsEnabled(ui.OverlayInspector) && in.PointerActive {
		v.inspector.Draw(ui.PlantAt(g.Plants(), in.PointerX, in.PointerY), int32(in.PointerX), int32(in.PointerY), w, h)
	}

	if v.overlays.IsEnabled(ui.OverlayControls) {
		act := v.controls.Draw(ui.ControlsState{
			Paused:      g.Paused(),
			Speed:       g.StepsPerUpdate(),
			LightRadius: g.Light().R,
		}, v.overlays)
		if act.TogglePause {
			g.SetPaused(!g.Paused())
		}
		if act.SpeedDelta != 0 {
			g.SetStepsPerUpdate(g.StepsPerUpdate() + act.SpeedDelta)
		}
		if act.LightRadius > 0 {
			g.SetLightRadius(act.LightRadius)
		}
	}
}

func (v *view) unload() {
	v.light.Unload()
}
