package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of the simulation step.
type Phase uint8

const (
	PhaseLight Phase = iota
	PhaseContact
	PhasePlants
	PhaseSeeds
	PhaseMoss
	PhaseCoverage
	PhaseRespawn
	PhaseTelemetry

	phaseCount
)

var phaseNames = [phaseCount]string{
	"light", "contact", "plants", "seeds", "moss", "coverage", "respawn", "telemetry",
}

func (p Phase) String() string {
	if p < phaseCount {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists every phase in tick order.
var Phases = []Phase{
	PhaseLight, PhaseContact, PhasePlants, PhaseSeeds,
	PhaseMoss, PhaseCoverage, PhaseRespawn, PhaseTelemetry,
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [phaseCount]time.Duration

// tickSample is the timing and workload of one simulation step.
type tickSample struct {
	total    time.Duration
	phases   PhaseTimes
	contacts int  // plants queried for moss contact
	pooled   bool // contact query ran on the worker pool
	sampled  bool // coverage grid was measured
	points   int  // live moss points going into the moss phase
}

// PerfCollector times simulation steps over a rolling window of ticks.
// Besides the per-phase split it tracks the two costs that vary most in a
// garden: the contact query, which moves to a worker pool above a plant
// count, and the coverage phase, which is expensive only on measuring ticks.
type PerfCollector struct {
	window []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	open       bool

	// Frame timing (for graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{window: make([]tickSample, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.tickStart = time.Now()
	p.open = false
}

// StartPhase closes the running phase, if any, and starts timing the next.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.open = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open && p.phase < phaseCount {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.open = false
}

// RecordContacts notes the size of this tick's contact query and whether the
// worker pool ran it.
func (p *PerfCollector) RecordContacts(plants int, pooled bool) {
	p.cur.contacts = plants
	p.cur.pooled = pooled
}

// RecordCoverageSample marks this tick as one that measured the coverage grid.
func (p *PerfCollector) RecordCoverageSample() {
	p.cur.sampled = true
}

// RecordMossPoints notes the number of live moss points this tick.
func (p *PerfCollector) RecordMossPoints(n int) {
	p.cur.points = n
}

// EndTick finishes timing the current tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the collector window.
type PerfStats struct {
	Ticks           int
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg PhaseTimes
	PhasePct [phaseCount]float64

	// Contact query
	AvgContacts   float64
	PooledTickPct float64

	// Coverage cadence: measuring ticks against steering-only ticks
	SampleTicks   int
	AvgSampleCost time.Duration
	AvgSteerCost  time.Duration

	// Moss phase cost per live point
	AvgMossPoints  float64
	MossNsPerPoint float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.filled, FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total, sampleCost, steerCost time.Duration
	var phases PhaseTimes
	var contacts, points, pooled int
	for i, t := range p.window[:p.filled] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)

		for ph, d := range t.phases {
			phases[ph] += d
		}

		contacts += t.contacts
		if t.pooled {
			pooled++
		}
		points += t.points

		if t.sampled {
			s.SampleTicks++
			sampleCost += t.phases[PhaseCoverage]
		} else {
			steerCost += t.phases[PhaseCoverage]
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for ph, d := range phases {
		s.PhaseAvg[ph] = d / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}

	s.AvgContacts = float64(contacts) / float64(p.filled)
	s.PooledTickPct = float64(pooled) / float64(p.filled) * 100

	if s.SampleTicks > 0 {
		s.AvgSampleCost = sampleCost / time.Duration(s.SampleTicks)
	}
	if idle := p.filled - s.SampleTicks; idle > 0 {
		s.AvgSteerCost = steerCost / time.Duration(idle)
	}

	s.AvgMossPoints = float64(points) / float64(p.filled)
	if s.AvgMossPoints > 0 {
		s.MossNsPerPoint = float64(s.PhaseAvg[PhaseMoss].Nanoseconds()) / s.AvgMossPoints
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"pooled_pct", int(s.PooledTickPct),
		"sample_us", s.AvgSampleCost.Microseconds(),
		"moss_ns_per_point", int(s.MossNsPerPoint),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	LightPct       float64 `csv:"light_pct"`
	ContactPct     float64 `csv:"contact_pct"`
	PlantsPct      float64 `csv:"plants_pct"`
	SeedsPct       float64 `csv:"seeds_pct"`
	MossPct        float64 `csv:"moss_pct"`
	CoveragePct    float64 `csv:"coverage_pct"`
	RespawnPct     float64 `csv:"respawn_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
	AvgContacts    float64 `csv:"avg_contacts"`
	PooledPct      float64 `csv:"pooled_pct"`
	SampleTicks    int     `csv:"sample_ticks"`
	SampleCostUS   int64   `csv:"sample_cost_us"`
	SteerCostUS    int64   `csv:"steer_cost_us"`
	AvgMossPoints  float64 `csv:"avg_moss_points"`
	MossNsPerPoint float64 `csv:"moss_ns_per_point"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		LightPct:       s.PhasePct[PhaseLight],
		ContactPct:     s.PhasePct[PhaseContact],
		PlantsPct:      s.PhasePct[PhasePlants],
		SeedsPct:       s.PhasePct[PhaseSeeds],
		MossPct:        s.PhasePct[PhaseMoss],
		CoveragePct:    s.PhasePct[PhaseCoverage],
		RespawnPct:     s.PhasePct[PhaseRespawn],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
		AvgContacts:    s.AvgContacts,
		PooledPct:      s.PooledTickPct,
		SampleTicks:    s.SampleTicks,
		SampleCostUS:   s.AvgSampleCost.Microseconds(),
		SteerCostUS:    s.AvgSteerCost.Microseconds(),
		AvgMossPoints:  s.AvgMossPoints,
		MossNsPerPoint: s.MossNsPerPoint,
	}
}
