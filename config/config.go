// Package config provides configuration loading and access for the garden.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Session   SessionConfig   `yaml:"session"`
	Garden    GardenConfig    `yaml:"garden"`
	Light     LightConfig     `yaml:"light"`
	Moss      MossConfig      `yaml:"moss"`
	Plant     PlantConfig     `yaml:"plant"`
	Debris    DebrisConfig    `yaml:"debris"`
	Seed      SeedConfig      `yaml:"seed"`
	Coverage  CoverageConfig  `yaml:"coverage"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The playfield is the screen.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// SessionConfig holds pacing that applies to the whole session.
type SessionConfig struct {
	DayDuration int `yaml:"day_duration"` // ticks per full dawn/day/dusk/night cycle
	SafeTicks   int `yaml:"safe_ticks"`   // no moss damage before this tick
}

// GardenConfig holds initial layout and population limits.
type GardenConfig struct {
	InitialPlants      int     `yaml:"initial_plants"`
	PlantCapacity      int     `yaml:"plant_capacity"`   // live plants + falling seeds
	GroundOffset       float64 `yaml:"ground_offset"`    // root line distance from the bottom edge
	InitialColonies    int     `yaml:"initial_colonies"`
	ColonySpacing      float64 `yaml:"colony_spacing"`   // min distance between initial colonies
	PlantClearance     float64 `yaml:"plant_clearance"`  // min distance from colonies to plants
	EdgeMargin         float64 `yaml:"edge_margin"`
	PlacementTries     int     `yaml:"placement_tries"`
	RespawnDelayTicks  int     `yaml:"respawn_delay_ticks"`  // extinct colony -> respawn
	RegrowthDelayTicks int     `yaml:"regrowth_delay_ticks"` // dead initial plant -> replant
}

// LightConfig holds the purifying light parameters.
type LightConfig struct {
	Radius float64 `yaml:"radius"`
	// Autopilot drives the light in headless runs.
	WanderSpeed float64 `yaml:"wander_speed"` // noise time step per tick
	WanderScale float64 `yaml:"wander_scale"` // fraction of the playfield covered
}

// MossConfig holds the colony automaton parameters.
type MossConfig struct {
	InitialMaxPoints      float64 `yaml:"initial_max_points"`
	MaxPointsGrowth       float64 `yaml:"max_points_growth"`  // per tick
	MaxPointsCeiling      int     `yaml:"max_points_ceiling"` // absolute cap
	SpawnInterval         int     `yaml:"spawn_interval"`
	OvergrowSpawnInterval int     `yaml:"overgrow_spawn_interval"`
	GenerationCap         uint32  `yaml:"generation_cap"`
	BranchChance          float64 `yaml:"branch_chance"`
	MinBranchProgress     float64 `yaml:"min_branch_progress"`
	MaxBranchProgress     float64 `yaml:"max_branch_progress"`
	MinChildren           int     `yaml:"min_children"`
	MaxChildren           int     `yaml:"max_children"`
	MinStep               float64 `yaml:"min_step"`
	MaxStep               float64 `yaml:"max_step"`
	CenterBiasSpread      float64 `yaml:"center_bias_spread"` // radians either side of the centre heading
	CrowdSpacing          float64 `yaml:"crowd_spacing"`      // children this close to live moss are rejected
	BranchTries           int     `yaml:"branch_tries"`       // parents drawn per branch attempt
	BoundsMargin          float64 `yaml:"bounds_margin"`
	SteerStep             float64 `yaml:"steer_step"`
	MinGrowthSpeed        float64 `yaml:"min_growth_speed"`
	MaxGrowthSpeed        float64 `yaml:"max_growth_speed"`
	MinBaseSize           float64 `yaml:"min_base_size"`
	MaxBaseSize           float64 `yaml:"max_base_size"`
	LifeSpeed             float64 `yaml:"life_speed"`
	LightMargin           float64 `yaml:"light_margin"`
	AlphaDecay            float64 `yaml:"alpha_decay"`
}

// PlantConfig holds plant growth, organ and health parameters.
type PlantConfig struct {
	GrowthRate     float64 `yaml:"growth_rate"`
	LightGrowthMax float64 `yaml:"light_growth_max"` // multiplier at the light centre
	LightGrowthMin float64 `yaml:"light_growth_min"` // multiplier at the light edge
	ShadeGrowth    float64 `yaml:"shade_growth"`
	StageOneAt     float64 `yaml:"stage_one_at"` // growth where stage 1 begins
	StageTwoAt     float64 `yaml:"stage_two_at"`

	MaxSegments        int     `yaml:"max_segments"`
	SegmentLength      float64 `yaml:"segment_length"`
	SegmentGrowthSpeed float64 `yaml:"segment_growth_speed"`
	AngleVariation     float64 `yaml:"angle_variation"` // degrees
	UpwardTendency     float64 `yaml:"upward_tendency"`
	LightSeeking       float64 `yaml:"light_seeking"`
	SegmentDrift       float64 `yaml:"segment_drift"` // per-tick pull toward vertical
	AngleMin           float64 `yaml:"angle_min"`
	AngleMax           float64 `yaml:"angle_max"`
	NewAngleMin        float64 `yaml:"new_angle_min"`
	NewAngleMax        float64 `yaml:"new_angle_max"`
	TipBendSegments    int     `yaml:"tip_bend_segments"`

	LeafInterval    int     `yaml:"leaf_interval"`
	LeafBaseOffset  int     `yaml:"leaf_base_offset"`
	LeafJitter      int     `yaml:"leaf_jitter"`
	MaxLeaves       int     `yaml:"max_leaves"`
	LeafGrowthSpeed float64 `yaml:"leaf_growth_speed"`

	FlowerThreshold   float64 `yaml:"flower_threshold"`
	FlowerGrowthSpeed float64 `yaml:"flower_growth_speed"`
	FlowerMinSegments int     `yaml:"flower_min_segments"`

	MaxHealth       float64 `yaml:"max_health"`
	Regen           float64 `yaml:"regen"`
	RegenLightBonus float64 `yaml:"regen_light_bonus"`
	ContactSeconds  float64 `yaml:"contact_seconds"`
	ContactPenalty  float64 `yaml:"contact_penalty"`
	StemHitRadius   float64 `yaml:"stem_hit_radius"`
	LeafHitRadius   float64 `yaml:"leaf_hit_radius"`
	FlowerHitRadius float64 `yaml:"flower_hit_radius"`
	WiltChance      float64 `yaml:"wilt_chance"`
	HitboxPadding   float64 `yaml:"hitbox_padding"`

	PollenRate int `yaml:"pollen_rate"` // ticks between pollen motes while blooming in light
	PollenLife int `yaml:"pollen_life"`
}

// DebrisConfig holds the physics for dead plant parts.
type DebrisConfig struct {
	Gravity     float64 `yaml:"gravity"`
	AirDrag     float64 `yaml:"air_drag"`
	AngularDrag float64 `yaml:"angular_drag"`
	Bounce      float64 `yaml:"bounce"`
	Friction    float64 `yaml:"friction"`
	RestSpeed   float64 `yaml:"rest_speed"`
	GroundInset float64 `yaml:"ground_inset"` // ground line distance from the bottom edge
	FadeStart   float64 `yaml:"fade_start"`   // life ratio below which debris fades
	MaxSpeedX   float64 `yaml:"max_speed_x"`
	MinLaunchY  float64 `yaml:"min_launch_y"`
	MaxLaunchY  float64 `yaml:"max_launch_y"`
	MaxSpin     float64 `yaml:"max_spin"`

	// Lifetimes in ticks
	StemLifeMin   int `yaml:"stem_life_min"`
	StemLifeMax   int `yaml:"stem_life_max"`
	LeafLifeMin   int `yaml:"leaf_life_min"`
	LeafLifeMax   int `yaml:"leaf_life_max"`
	FlowerLifeMin int `yaml:"flower_life_min"`
	FlowerLifeMax int `yaml:"flower_life_max"`
}

// SeedConfig holds seed drop parameters.
type SeedConfig struct {
	FallSpeed float64 `yaml:"fall_speed"`
}

// CoverageConfig holds the pacing controller parameters.
type CoverageConfig struct {
	Cols              int     `yaml:"cols"`
	Rows              int     `yaml:"rows"`
	SampleInterval    int     `yaml:"sample_interval"`
	OvergrowThreshold float64 `yaml:"overgrow_threshold"`
	ClimaxThreshold   float64 `yaml:"climax_threshold"`
	SteerInterval     int     `yaml:"steer_interval"`
	ClimaxHoldTicks   int     `yaml:"climax_hold_ticks"`
	ClimaxPointScale  float64 `yaml:"climax_point_scale"` // point size as a fraction of the cell diagonal
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	RallyDrop      float64 `yaml:"rally_drop"`       // coverage drop from recent peak
	BloomMinPlants int     `yaml:"bloom_min_plants"` // flowering plants needed for garden_bloom
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Physics.DT as float32
	ScreenW32    float32 // Screen.Width as float32
	ScreenH32    float32 // Screen.Height as float32
	GroundY      float32 // plant root line
	DebrisFloorY float32 // debris ground line
	DayQuarter   int     // ticks per day phase
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects structurally invalid values. Simulation constructors
// trust a validated config and do not re-check.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive and finite, got %v", name, v))
		}
	}
	ordered := func(name string, lo, hi float64) {
		if lo > hi {
			errs = append(errs, fmt.Errorf("%s: min %v exceeds max %v", name, lo, hi))
		}
	}

	positive("screen.width", float64(c.Screen.Width))
	positive("screen.height", float64(c.Screen.Height))
	positive("physics.dt", c.Physics.DT)
	positive("session.day_duration", float64(c.Session.DayDuration))
	positive("light.radius", c.Light.Radius)
	positive("moss.spawn_interval", float64(c.Moss.SpawnInterval))
	positive("moss.overgrow_spawn_interval", float64(c.Moss.OvergrowSpawnInterval))
	positive("moss.max_points_ceiling", float64(c.Moss.MaxPointsCeiling))
	positive("moss.min_base_size", c.Moss.MinBaseSize)
	positive("moss.alpha_decay", c.Moss.AlphaDecay)
	positive("moss.steer_step", c.Moss.SteerStep)
	positive("moss.branch_tries", float64(c.Moss.BranchTries))
	positive("plant.max_segments", float64(c.Plant.MaxSegments))
	positive("plant.segment_length", c.Plant.SegmentLength)
	positive("plant.max_health", c.Plant.MaxHealth)
	positive("plant.leaf_interval", float64(c.Plant.LeafInterval))
	positive("coverage.cols", float64(c.Coverage.Cols))
	positive("coverage.rows", float64(c.Coverage.Rows))
	positive("coverage.sample_interval", float64(c.Coverage.SampleInterval))
	positive("coverage.steer_interval", float64(c.Coverage.SteerInterval))

	ordered("moss.branch_progress", c.Moss.MinBranchProgress, c.Moss.MaxBranchProgress)
	ordered("moss.children", float64(c.Moss.MinChildren), float64(c.Moss.MaxChildren))
	ordered("moss.step", c.Moss.MinStep, c.Moss.MaxStep)
	ordered("moss.growth_speed", c.Moss.MinGrowthSpeed, c.Moss.MaxGrowthSpeed)
	ordered("moss.base_size", c.Moss.MinBaseSize, c.Moss.MaxBaseSize)
	ordered("plant.stage", c.Plant.StageOneAt, c.Plant.StageTwoAt)
	ordered("plant.angle", c.Plant.AngleMin, c.Plant.AngleMax)
	ordered("plant.new_angle", c.Plant.NewAngleMin, c.Plant.NewAngleMax)
	ordered("coverage.thresholds", c.Coverage.OvergrowThreshold, c.Coverage.ClimaxThreshold)
	ordered("debris.stem_life", float64(c.Debris.StemLifeMin), float64(c.Debris.StemLifeMax))
	ordered("debris.leaf_life", float64(c.Debris.LeafLifeMin), float64(c.Debris.LeafLifeMax))
	ordered("debris.flower_life", float64(c.Debris.FlowerLifeMin), float64(c.Debris.FlowerLifeMax))

	if c.Moss.MinChildren < 1 {
		errs = append(errs, fmt.Errorf("moss.min_children must be at least 1, got %d", c.Moss.MinChildren))
	}
	if c.Moss.CrowdSpacing < 0 {
		errs = append(errs, fmt.Errorf("moss.crowd_spacing must not be negative, got %v", c.Moss.CrowdSpacing))
	}
	if c.Coverage.ClimaxThreshold > 1 {
		errs = append(errs, fmt.Errorf("coverage.climax_threshold must be at most 1, got %v", c.Coverage.ClimaxThreshold))
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.GroundY = c.Derived.ScreenH32 - float32(c.Garden.GroundOffset)
	c.Derived.DebrisFloorY = c.Derived.ScreenH32 - float32(c.Debris.GroundInset)
	c.Derived.DayQuarter = c.Session.DayDuration / 4
	if c.Derived.DayQuarter < 1 {
		c.Derived.DayQuarter = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
