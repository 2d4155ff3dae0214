package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/overgrown/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the garden state at one tick, for inspection and debugging.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float32 `json:"world_width"`
	WorldHeight float32 `json:"world_height"`

	Tick     int32   `json:"tick"`
	Phase    string  `json:"phase"`
	Coverage float64 `json:"coverage"`
	Overgrow bool    `json:"overgrow"`
	Climax   bool    `json:"climax"`

	Light *LightState `json:"light,omitempty"`

	Plants   []PlantState   `json:"plants"`
	Colonies []ColonyState  `json:"colonies"`
	Seeds    []systems.Vec2 `json:"seeds,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// LightState is the light position when the snapshot was taken.
type LightState struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"radius"`
}

// PlantState holds one plant's summary state.
type PlantState struct {
	ID       uint32  `json:"id"`
	RootX    float32 `json:"root_x"`
	RootY    float32 `json:"root_y"`
	Growth   float32 `json:"growth"`
	Stage    int     `json:"stage"`
	Health   float32 `json:"health"`
	Alive    bool    `json:"alive"`
	Segments int     `json:"segments"`
	Leaves   int     `json:"leaves"`
	Flower   bool    `json:"flower"`
	Debris   int     `json:"debris"`

	Lifetime *PlantLifetime `json:"lifetime,omitempty"`
}

// ColonyState holds one colony's full point list.
type ColonyState struct {
	StartX       float32      `json:"start_x"`
	StartY       float32      `json:"start_y"`
	LifeProgress float32      `json:"life_progress"`
	MaxPoints    float32      `json:"max_points"`
	Saturated    bool         `json:"saturated,omitempty"`
	Points       []PointState `json:"points"`
}

// PointState holds one spore point.
type PointState struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Generation uint32  `json:"gen"`
	Progress   float32 `json:"progress"`
	Radius     float32 `json:"radius"`
	Dying      bool    `json:"dying,omitempty"`
}

// NewColonyState captures a colony.
func NewColonyState(c *systems.MossColony) ColonyState {
	cs := ColonyState{
		StartX:       c.StartX,
		StartY:       c.StartY,
		LifeProgress: c.LifeProgress,
		MaxPoints:    c.MaxPoints,
		Saturated:    c.Saturated,
		Points:       make([]PointState, len(c.Points)),
	}
	for i, p := range c.Points {
		cs.Points[i] = PointState{
			X:          p.X,
			Y:          p.Y,
			Generation: p.Generation,
			Progress:   p.GrowthProgress,
			Radius:     p.EffectiveRadius(),
			Dying:      p.Dying,
		}
	}
	return cs
}

// NewPlantState captures a plant.
func NewPlantState(id uint32, p *systems.Plant, life *PlantLifetime) PlantState {
	return PlantState{
		ID:       id,
		RootX:    p.RootX,
		RootY:    p.RootY,
		Growth:   p.Growth,
		Stage:    p.Stage,
		Health:   p.Health,
		Alive:    p.Alive,
		Segments: len(p.Segments),
		Leaves:   len(p.Leaves),
		Flower:   p.Flower != nil,
		Debris:   len(p.Debris),
		Lifetime: life,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	return &snapshot, nil
}
