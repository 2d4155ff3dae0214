package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/overgrown/config"
	"github.com/pthm-cable/overgrown/game"
	"github.com/pthm-cable/overgrown/telemetry"
)

// FitnessEvaluator runs headless gardens and scores how close their session
// length lands to the target.
type FitnessEvaluator struct {
	params      *ParamVector
	targetTicks int32
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu   sync.Mutex
	last evalSummary // from the most recent Evaluate call
}

// evalSummary aggregates one evaluation across its seeds.
type evalSummary struct {
	meanTicks float64
	overgrown int
	quality   float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targetTicks, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targetTicks: targetTicks,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
	}
}

// Last returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() evalSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single garden run.
type runResult struct {
	ticks         int32 // tick the garden was fully overgrown, or maxTicks
	overgrown     bool
	finalCoverage float64
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	capacity      int
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Validate(); err != nil {
		// Out-of-range combination: worse than any real run
		return 10
	}

	// Run all seeds in parallel
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			// Each run gets its own copy; games never share a config
			runCfg := *cfg
			results[idx] = fe.runGarden(&runCfg, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	ticks := make([]float64, len(results))
	quality := make([]float64, len(results))
	overgrown := 0
	for i, r := range results {
		fitness[i] = fe.computeFitness(r)
		ticks[i] = float64(r.ticks)
		quality[i] = computeQuality(r)
		if r.overgrown {
			overgrown++
		}
	}

	fe.mu.Lock()
	fe.last = evalSummary{
		meanTicks: stat.Mean(ticks, nil),
		overgrown: overgrown,
		quality:   stat.Mean(quality, nil),
	}
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runGarden executes a single headless garden with the autopilot light.
// Runs until the garden is fully overgrown or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runGarden(cfg *config.Config, seed int64) *runResult {
	result := &runResult{capacity: cfg.Garden.PlantCapacity}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		Autopilot:      true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
		OnOvergrown: func(tick int32) {
			result.overgrown = true
			result.ticks = tick
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !g.Finished() {
		g.UpdateHeadless()
	}

	if !result.overgrown {
		result.ticks = fe.maxTicks
	}
	result.finalCoverage = float64(g.Coverage())
	return result
}

// copyConfig returns an independent copy of the base config.
// Config holds only value fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Overgrown runs score their relative distance from the target length.
// Runs that never finished add their coverage shortfall, so a garden that
// nearly made it beats one the moss never threatened.
// Quality takes off up to 10% to separate configs with similar timing.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	target := float64(fe.targetTicks)
	err := math.Abs(float64(r.ticks)-target) / target
	if !r.overgrown {
		err += 1 - r.finalCoverage
	}
	return err * (1 - 0.1*computeQuality(r))
}

// Quality component weights.
const (
	qualityWeightPlants  = 0.6
	qualityWeightFlowers = 0.4
	qualityWarmupWindows = 1 // skip the safe start
)

// computeQuality scores ∈ [0, 1] how alive the garden stayed: plants kept
// near capacity and some of them flowering.
func computeQuality(r *runResult) float64 {
	if len(r.windowStats) <= qualityWarmupWindows || r.capacity <= 0 {
		return 0
	}

	valid := r.windowStats[qualityWarmupWindows:]
	plants := make([]float64, len(valid))
	flowering := make([]float64, len(valid))
	for i, w := range valid {
		plants[i] = float64(w.Plants) / float64(r.capacity)
		if w.Plants > 0 {
			flowering[i] = float64(w.Flowering) / float64(w.Plants)
		}
	}

	quality := qualityWeightPlants*stat.Mean(plants, nil) +
		qualityWeightFlowers*stat.Mean(flowering, nil)
	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
