package main

import (
	"math"

	"github.com/pthm-cable/overgrown/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable pacing parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of pacing parameters. Defaults
// are read from base so a tuning run starts where the given config is.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "spawn_interval", Path: "moss.spawn_interval", Min: 3, Max: 20},
			{Name: "branch_chance", Path: "moss.branch_chance", Min: 0.1, Max: 0.9},
			{Name: "life_speed", Path: "moss.life_speed", Min: 0.0001, Max: 0.002},
			{Name: "max_growth_speed", Path: "moss.max_growth_speed", Min: 0.005, Max: 0.03},
			{Name: "light_radius", Path: "light.radius", Min: 50, Max: 200},
			{Name: "overgrow_threshold", Path: "coverage.overgrow_threshold", Min: 0.3, Max: 0.8},
		},
	}
	for i, v := range pv.ExtractFromConfig(base) {
		pv.Specs[i].Default = v
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Moss.SpawnInterval = int(math.Round(clamped[0]))
	cfg.Moss.BranchChance = clamped[1]
	cfg.Moss.LifeSpeed = clamped[2]

	// Keep the growth speed range ordered
	cfg.Moss.MaxGrowthSpeed = clamped[3]
	cfg.Moss.MinGrowthSpeed = math.Min(cfg.Moss.MinGrowthSpeed, cfg.Moss.MaxGrowthSpeed)

	cfg.Light.Radius = clamped[4]

	// The climax must stay above the overgrow threshold
	cfg.Coverage.OvergrowThreshold = math.Min(clamped[5], cfg.Coverage.ClimaxThreshold-0.05)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Moss.SpawnInterval),
		cfg.Moss.BranchChance,
		cfg.Moss.LifeSpeed,
		cfg.Moss.MaxGrowthSpeed,
		cfg.Light.Radius,
		cfg.Coverage.OvergrowThreshold,
	}
}
