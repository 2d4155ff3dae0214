package systems

import (
	"math"

	"github.com/pthm-cable/overgrown/config"
)

// CoverageEvent is a pacing transition reported by the coverage controller.
type CoverageEvent uint8

const (
	EventOvergrowStarted CoverageEvent = iota + 1
	EventOvergrowEnded
	EventClimaxStarted
	EventFullyOvergrown
)

func (e CoverageEvent) String() string {
	switch e {
	case EventOvergrowStarted:
		return "overgrow_started"
	case EventOvergrowEnded:
		return "overgrow_ended"
	case EventClimaxStarted:
		return "climax_started"
	case EventFullyOvergrown:
		return "fully_overgrown"
	}
	return "none"
}

// CoverageSample is one measurement of the coverage grid.
type CoverageSample struct {
	Ratio     float32 // Covered / Total
	Covered   int
	Total     int
	Uncovered []Vec2 // centres of uncovered cells, row-major
}

// CoverageController estimates moss coverage on a coarse grid and drives the
// session pacing: overgrow escalation above the first threshold and a single
// full-coverage climax above the second.
type CoverageController struct {
	cfg     *config.CoverageConfig
	moss    *config.MossConfig
	bounds  Bounds
	centers []Vec2
	cellW   float32
	cellH   float32
	covered []bool // scratch, one per cell

	sample      CoverageSample
	samples     int // measurements taken by Update
	sinceSample int
	sinceSteer  int

	overgrow bool
	climax   bool // latched, never cleared
	holdLeft int
	finished bool
}

// NewCoverageController lays the sample grid over the playfield.
func NewCoverageController(bounds Bounds, cfg *config.CoverageConfig, moss *config.MossConfig) *CoverageController {
	cols, rows := cfg.Cols, cfg.Rows
	c := &CoverageController{
		cfg:     cfg,
		moss:    moss,
		bounds:  bounds,
		cellW:   bounds.Width / float32(cols),
		cellH:   bounds.Height / float32(rows),
		centers: make([]Vec2, 0, cols*rows),
		covered: make([]bool, cols*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c.centers = append(c.centers, Vec2{
				X: (float32(col) + 0.5) * c.cellW,
				Y: (float32(row) + 0.5) * c.cellH,
			})
		}
	}
	c.sample = CoverageSample{Total: len(c.centers), Uncovered: append([]Vec2(nil), c.centers...)}
	return c
}

// Centers returns the sample centres in row-major order.
func (c *CoverageController) Centers() []Vec2 {
	return c.centers
}

// SampleCoverage measures which cells have their centre strictly inside some
// point's effective circle. It does not change controller state.
func (c *CoverageController) SampleCoverage(colonies []*MossColony) CoverageSample {
	for i := range c.covered {
		c.covered[i] = false
	}
	cols, rows := c.cfg.Cols, c.cfg.Rows

	for _, col := range colonies {
		for i := range col.Points {
			p := &col.Points[i]
			r := p.EffectiveRadius()
			if r <= 0 {
				continue
			}
			c0 := max(0, int(math.Floor(float64((p.X-r)/c.cellW))))
			c1 := min(cols-1, int(math.Floor(float64((p.X+r)/c.cellW))))
			r0 := max(0, int(math.Floor(float64((p.Y-r)/c.cellH))))
			r1 := min(rows-1, int(math.Floor(float64((p.Y+r)/c.cellH))))
			for row := r0; row <= r1; row++ {
				for cc := c0; cc <= c1; cc++ {
					idx := row*cols + cc
					if c.covered[idx] {
						continue
					}
					ctr := c.centers[idx]
					if PointInCircle(ctr.X, ctr.Y, p.X, p.Y, r) {
						c.covered[idx] = true
					}
				}
			}
		}
	}

	s := CoverageSample{Total: len(c.centers)}
	for i, hit := range c.covered {
		if hit {
			s.Covered++
		} else {
			s.Uncovered = append(s.Uncovered, c.centers[i])
		}
	}
	if s.Total > 0 {
		s.Ratio = float32(s.Covered) / float32(s.Total)
	}
	return s
}

// Update runs one tick of pacing. When the climax fires it returns the
// saturated colony set that replaces every existing colony; otherwise the
// returned slice is nil. Events are reported in the order they happened.
func (c *CoverageController) Update(ctx *WorldContext, colonies []*MossColony) ([]*MossColony, []CoverageEvent) {
	var events []CoverageEvent

	if c.climax {
		if !c.finished {
			c.holdLeft--
			if c.holdLeft <= 0 {
				c.finished = true
				events = append(events, EventFullyOvergrown)
			}
		}
	}

	c.sinceSample--
	if c.sinceSample <= 0 {
		c.sinceSample = c.cfg.SampleInterval
		c.sample = c.SampleCoverage(colonies)
		c.samples++

		over := float64(c.sample.Ratio) > c.cfg.OvergrowThreshold
		switch {
		case over && !c.overgrow:
			events = append(events, EventOvergrowStarted)
		case !over && c.overgrow:
			events = append(events, EventOvergrowEnded)
		}
		c.overgrow = over

		if !c.climax && float64(c.sample.Ratio) > c.cfg.ClimaxThreshold {
			c.climax = true
			c.holdLeft = c.cfg.ClimaxHoldTicks
			events = append(events, EventClimaxStarted)
			return []*MossColony{c.saturatedColony(ctx)}, events
		}
	}

	if c.overgrow && !c.climax {
		c.sinceSteer++
		if c.sinceSteer >= c.cfg.SteerInterval {
			c.sinceSteer = 0
			c.steer(ctx, colonies)
		}
	}
	return nil, events
}

func (c *CoverageController) saturatedColony(ctx *WorldContext) *MossColony {
	diag := sqrt32(c.cellW*c.cellW + c.cellH*c.cellH)
	size := diag * float32(c.cfg.ClimaxPointScale)
	return NewSaturatedColony(c.centers, size, c.moss, ctx.Rng)
}

// steer grows the globally nearest live point one step toward a random
// uncovered cell. Colonies at their point ceiling are passed over so a full
// colony never blocks a target.
func (c *CoverageController) steer(ctx *WorldContext, colonies []*MossColony) bool {
	if len(c.sample.Uncovered) == 0 {
		return false
	}
	target := c.sample.Uncovered[ctx.Rng.Intn(len(c.sample.Uncovered))]

	var best *MossColony
	bestSq := float32(math.MaxFloat32)
	for _, col := range colonies {
		if col.Saturated || col.AtCeiling() {
			continue
		}
		if idx, d := col.NearestPoint(target.X, target.Y); idx >= 0 && d < bestSq {
			best = col
			bestSq = d
		}
	}
	if best == nil {
		return false
	}
	return best.GrowToward(target.X, target.Y, ctx)
}

// Ratio returns the most recent coverage ratio.
func (c *CoverageController) Ratio() float32 { return c.sample.Ratio }

// Sample returns the most recent measurement.
func (c *CoverageController) Sample() CoverageSample { return c.sample }

// Samples returns how many measurements Update has taken.
func (c *CoverageController) Samples() int { return c.samples }

// Overgrow reports whether overgrow mode is active.
func (c *CoverageController) Overgrow() bool { return c.overgrow }

// ClimaxActive reports whether the climax has fired.
func (c *CoverageController) ClimaxActive() bool { return c.climax }

// Finished reports whether the climax hold has elapsed.
func (c *CoverageController) Finished() bool { return c.finished }
