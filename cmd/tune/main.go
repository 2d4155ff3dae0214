// Package main provides CMA-ES tuning of the garden pacing: it searches for
// moss and light parameters that make an autopilot session end in a fully
// overgrown garden close to a target length.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/overgrown/config"
)

// logRow is one evaluation in tune_log.csv. Parameter columns follow
// NewParamVector order.
type logRow struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	MeanTicks         float64 `csv:"mean_ticks"`
	Overgrown         int     `csv:"overgrown_runs"`
	Quality           float64 `csv:"quality"`
	SpawnInterval     float64 `csv:"spawn_interval"`
	BranchChance      float64 `csv:"branch_chance"`
	LifeSpeed         float64 `csv:"life_speed"`
	MaxGrowthSpeed    float64 `csv:"max_growth_speed"`
	LightRadius       float64 `csv:"light_radius"`
	OvergrowThreshold float64 `csv:"overgrow_threshold"`
}

func newLogRow(eval int, fitness float64, s evalSummary, p []float64) logRow {
	return logRow{
		Eval:              eval,
		Fitness:           fitness,
		MeanTicks:         s.meanTicks,
		Overgrown:         s.overgrown,
		Quality:           s.quality,
		SpawnInterval:     p[0],
		BranchChance:      p[1],
		LifeSpeed:         p[2],
		MaxGrowthSpeed:    p[3],
		LightRadius:       p[4],
		OvergrowThreshold: p[5],
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetSec := flag.Float64("target-sec", 180, "Target session length in sim-seconds")
	maxTicks := flag.Int("max-ticks", 0, "Cap on ticks per run (0 = 3x target)")
	seeds := flag.Int("seeds", 4, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 150, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	targetTicks := int32(*targetSec / baseCfg.Physics.DT)
	capTicks := int32(*maxTicks)
	if capTicks <= 0 {
		capTicks = 3 * targetTicks
	}

	params := NewParamVector(baseCfg)

	// Fixed seeds so every evaluation sees the same gardens
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, targetTicks, capTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			// Log clamped values (these are the values actually used)
			clamped := params.Clamp(raw)
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			summary := evaluator.Last()
			rows := []logRow{newLogRow(evalCount, fitness, summary, clamped)}
			if evalCount == 1 {
				err = gocsv.Marshal(rows, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rows, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: fitness=%.3f mean=%.0fs overgrown=%d/%d quality=%.2f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, summary.meanTicks*baseCfg.Physics.DT,
				summary.overgrown, len(evalSeeds), summary.quality, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, target: %d ticks, cap: %d ticks\n", *seeds, targetTicks, capTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
