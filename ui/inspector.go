package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/overgrown/systems"
)

var stageNames = [...]string{"sprout", "growing", "mature"}

func asPlant(data any) *systems.Plant {
	p, _ := data.(*systems.Plant)
	return p
}

// plantSections describes the inspector layout for a plant.
var plantSections = []SectionDescriptor{
	{
		ID:    "growth",
		Title: "Growth",
		Fields: []FieldDescriptor{
			{ID: "stage", Label: "Stage", Widget: WidgetText, TextGetter: func(d any) string {
				p := asPlant(d)
				if p.Stage >= 0 && p.Stage < len(stageNames) {
					return stageNames[p.Stage]
				}
				return fmt.Sprint(p.Stage)
			}},
			{ID: "growth", Label: "Growth", Widget: WidgetBar, Getter: func(d any) float32 { return asPlant(d).Growth }},
			{ID: "segments", Label: "Segments", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(len(asPlant(d).Segments))
			}},
			{ID: "leaves", Label: "Leaves", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(len(asPlant(d).Leaves))
			}},
			{ID: "flower", Label: "Flower", Widget: WidgetText, TextGetter: func(d any) string {
				p := asPlant(d)
				switch {
				case p.Flower == nil:
					return "none"
				case p.Flower.Bloomed:
					return "bloomed"
				default:
					return fmt.Sprintf("budding %.0f%%", p.Flower.Scale*100)
				}
			}},
		},
	},
	{
		ID:    "health",
		Title: "Health",
		Fields: []FieldDescriptor{
			{ID: "health", Label: "Health", Widget: WidgetRatio,
				Getter:    func(d any) float32 { return asPlant(d).Health },
				MaxGetter: func(d any) float32 { return asPlant(d).MaxHealth },
			},
			{ID: "light", Label: "Light", Widget: WidgetText, TextGetter: func(d any) string {
				if asPlant(d).InLight {
					return "lit"
				}
				return "shade"
			}},
		},
	},
	{
		ID:    "moss",
		Title: "Moss",
		Visible: func(d any) bool {
			p := asPlant(d)
			return p.MossContactSeconds > 0 || p.Penalties > 0
		},
		Fields: []FieldDescriptor{
			{ID: "contact", Label: "Contact", Widget: WidgetText, Format: "%.1fs", Getter: func(d any) float32 {
				return asPlant(d).MossContactSeconds
			}},
			{ID: "penalties", Label: "Penalties", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(asPlant(d).Penalties)
			}},
		},
	},
}

// Inspector renders the plant inspection panel.
type Inspector struct {
	renderer *Renderer
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		width:    width,
	}
}

// PlantAt returns the living plant whose hitbox contains (x, y), or nil.
// Later plants are drawn on top, so they win.
func PlantAt(plants []*systems.Plant, x, y float32) *systems.Plant {
	for i := len(plants) - 1; i >= 0; i-- {
		p := plants[i]
		if !p.Alive {
			continue
		}
		b := p.Bounds()
		if x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H {
			return p
		}
	}
	return nil
}

// Draw renders the panel next to (x, y), kept on screen.
func (ins *Inspector) Draw(p *systems.Plant, x, y, screenW, screenH int32) {
	if p == nil {
		return
	}
	r := ins.renderer
	padding := r.Theme.Padding
	height := int32(190)

	px := x + 16
	if px+ins.width > screenW {
		px = x - 16 - ins.width
	}
	py := min(max(y-height/2, 0), screenH-height)

	r.DrawPanel(px, py, ins.width, height)
	rl.DrawText("Plant", px+padding, py+padding, 16, rl.White)

	cy := py + padding + r.Theme.LineHeight + 6
	for _, sd := range plantSections {
		cy = r.DrawSection(px+padding, cy, sd, p, ins.width-padding*2)
	}
}
