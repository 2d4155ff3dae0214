// Package systems implements the garden simulation: moss colonies, plants,
// the light and the coverage pacing controller.
package systems

import "math/rand"

// DayPhase is one quarter of the day cycle.
type DayPhase uint8

const (
	PhaseDawn DayPhase = iota
	PhaseDay
	PhaseDusk
	PhaseNight
)

func (p DayPhase) String() string {
	switch p {
	case PhaseDawn:
		return "dawn"
	case PhaseDay:
		return "day"
	case PhaseDusk:
		return "dusk"
	case PhaseNight:
		return "night"
	}
	return "unknown"
}

// MossMultiplier is the moss growth multiplier for the phase.
// Moss does not grow in daylight.
func (p DayPhase) MossMultiplier() float32 {
	switch p {
	case PhaseDay:
		return 0
	case PhaseDawn, PhaseDusk:
		return 0.5
	default:
		return 1
	}
}

// PhaseAt returns the day phase for a tick given the number of ticks per phase.
func PhaseAt(tick int32, quarter int) DayPhase {
	if quarter < 1 {
		quarter = 1
	}
	p := (int(tick) % (quarter * 4)) / quarter
	return DayPhase(p)
}

// DayProgress returns how far through the whole cycle a tick is, in [0, 1).
func DayProgress(tick int32, quarter int) float32 {
	day := quarter * 4
	if day < 1 {
		return 0
	}
	return float32(int(tick)%day) / float32(day)
}

// WorldContext carries the per-tick shared state every system reads.
// It is rebuilt by the orchestrator at the start of each tick.
type WorldContext struct {
	Tick          int32
	DT            float32
	Phase         DayPhase
	DayMultiplier float32
	Light         *Light // nil means no light this tick
	Bounds        Bounds
	Overgrow      bool
	Crowding      *SpatialGrid // live moss points; nil disables crowding
	MossDamage    bool // false during the safe start
	Rng           *rand.Rand
}
