package telemetry

import "gonum.org/v1/gonum/stat"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	plantBirths   int
	plantDeaths   int
	mossPenalties int
	branches      int
	purified      int
	extinctions   int
	respawns      int
	seedsDropped  int
	seedsLanded   int
	lifespans     []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordPlantBirth records a plant rooting, from a seed or regrowth.
func (c *Collector) RecordPlantBirth() {
	c.plantBirths++
}

// RecordPlantDeath records a plant death and its lifespan.
func (c *Collector) RecordPlantDeath(life *PlantLifetime) {
	c.plantDeaths++
	if life != nil {
		c.lifespans = append(c.lifespans, float64(life.LifeSec))
	}
}

// RecordMossPenalty records one contact penalty applied to a plant.
func (c *Collector) RecordMossPenalty() {
	c.mossPenalties++
}

// RecordBranches records spore points spawned this tick.
func (c *Collector) RecordBranches(n int) {
	c.branches += n
}

// RecordPurified records spore points removed by the light.
func (c *Collector) RecordPurified(n int) {
	c.purified += n
}

// RecordExtinction records a colony losing its last point.
func (c *Collector) RecordExtinction() {
	c.extinctions++
}

// RecordRespawn records a colony being reseeded.
func (c *Collector) RecordRespawn() {
	c.respawns++
}

// RecordSeedDropped records a seed drop.
func (c *Collector) RecordSeedDropped() {
	c.seedsDropped++
}

// RecordSeedLanded records a seed reaching the ground.
func (c *Collector) RecordSeedLanded() {
	c.seedsLanded++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Census is the garden state sampled at the end of a window.
type Census struct {
	Phase       string
	Coverage    float64
	Overgrow    bool
	Climax      bool
	Plants      int
	Flowering   int
	Seeds       int
	Colonies    int
	SporePoints int
	Health      []float64 // live plants only
	Growth      []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	healthMean, healthStd, p10, p50, p90 := ComputeDistribution(census.Health)

	var growthMean, lifeMean float64
	if len(census.Growth) > 0 {
		growthMean = stat.Mean(census.Growth, nil)
	}
	if len(c.lifespans) > 0 {
		lifeMean = stat.Mean(c.lifespans, nil)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		Phase:           census.Phase,

		Coverage: census.Coverage,
		Overgrow: census.Overgrow,
		Climax:   census.Climax,

		Plants:      census.Plants,
		Flowering:   census.Flowering,
		Seeds:       census.Seeds,
		Colonies:    census.Colonies,
		SporePoints: census.SporePoints,

		PlantBirths:   c.plantBirths,
		PlantDeaths:   c.plantDeaths,
		MossPenalties: c.mossPenalties,
		Branches:      c.branches,
		Purified:      c.purified,
		Extinctions:   c.extinctions,
		Respawns:      c.respawns,
		SeedsDropped:  c.seedsDropped,
		SeedsLanded:   c.seedsLanded,

		MeanPlantLifeSec: lifeMean,

		HealthMean: healthMean,
		HealthStd:  healthStd,
		HealthP10:  p10,
		HealthP50:  p50,
		HealthP90:  p90,
		GrowthMean: growthMean,
	}

	c.reset(currentTick)
	return stats
}

func (c *Collector) reset(tick int32) {
	c.windowStartTick = tick
	c.plantBirths = 0
	c.plantDeaths = 0
	c.mossPenalties = 0
	c.branches = 0
	c.purified = 0
	c.extinctions = 0
	c.respawns = 0
	c.seedsDropped = 0
	c.seedsLanded = 0
	c.lifespans = c.lifespans[:0]
}

// WindowDurationTicks returns the window length in ticks.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
