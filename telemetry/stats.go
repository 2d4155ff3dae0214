package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Phase           string  `csv:"phase"`

	// Pacing at window end
	Coverage float64 `csv:"coverage"`
	Overgrow bool    `csv:"overgrow"`
	Climax   bool    `csv:"climax"`

	// Populations at window end
	Plants      int `csv:"plants"`
	Flowering   int `csv:"flowering"`
	Seeds       int `csv:"seeds"`
	Colonies    int `csv:"colonies"`
	SporePoints int `csv:"spore_points"`

	// Events during window
	PlantBirths   int `csv:"plant_births"`
	PlantDeaths   int `csv:"plant_deaths"`
	MossPenalties int `csv:"moss_penalties"`
	Branches      int `csv:"branches"` // points spawned by branching or steering
	Purified      int `csv:"purified"` // points removed by the light
	Extinctions   int `csv:"extinctions"`
	Respawns      int `csv:"respawns"`
	SeedsDropped  int `csv:"seeds_dropped"`
	SeedsLanded   int `csv:"seeds_landed"`

	// Lifespan of plants that died this window
	MeanPlantLifeSec float64 `csv:"mean_plant_life"`

	// Plant health distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	GrowthMean float64 `csv:"growth_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, sample standard deviation and percentiles.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		v := values[0]
		return v, 0, v, v, v
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("phase", s.Phase),
		slog.Float64("coverage", s.Coverage),
		slog.Bool("overgrow", s.Overgrow),
		slog.Bool("climax", s.Climax),
		slog.Int("plants", s.Plants),
		slog.Int("flowering", s.Flowering),
		slog.Int("colonies", s.Colonies),
		slog.Int("spore_points", s.SporePoints),
		slog.Int("plant_deaths", s.PlantDeaths),
		slog.Int("moss_penalties", s.MossPenalties),
		slog.Int("purified", s.Purified),
		slog.Float64("health_mean", s.HealthMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"phase", s.Phase,
		"coverage", s.Coverage,
		"overgrow", s.Overgrow,
		"climax", s.Climax,
		"plants", s.Plants,
		"flowering", s.Flowering,
		"seeds", s.Seeds,
		"colonies", s.Colonies,
		"spore_points", s.SporePoints,
		"plant_births", s.PlantBirths,
		"plant_deaths", s.PlantDeaths,
		"moss_penalties", s.MossPenalties,
		"branches", s.Branches,
		"purified", s.Purified,
		"extinctions", s.Extinctions,
		"respawns", s.Respawns,
		"seeds_dropped", s.SeedsDropped,
		"seeds_landed", s.SeedsLanded,
		"mean_plant_life", s.MeanPlantLifeSec,
		"health_mean", s.HealthMean,
		"health_std", s.HealthStd,
		"health_p10", s.HealthP10,
		"health_p50", s.HealthP50,
		"health_p90", s.HealthP90,
		"growth_mean", s.GrowthMean,
	)
}
