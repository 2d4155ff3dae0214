package telemetry

// PlantLifetime tracks one plant from rooting to death.
type PlantLifetime struct {
	BirthTick int32
	LifeSec   float32
	Initial   bool // part of the starting layout

	Penalties  int
	Flowered   bool
	PeakGrowth float32
}

// LifetimeTracker manages per-plant lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*PlantLifetime
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*PlantLifetime),
	}
}

// Register starts tracking a newly rooted plant.
func (lt *LifetimeTracker) Register(plantID uint32, birthTick int32, initial bool) {
	lt.stats[plantID] = &PlantLifetime{
		BirthTick: birthTick,
		Initial:   initial,
	}
}

// Get returns the lifetime stats for a plant, or nil if not found.
func (lt *LifetimeTracker) Get(plantID uint32) *PlantLifetime {
	return lt.stats[plantID]
}

// Remove stops tracking a plant and returns its final stats with the
// lifespan filled in.
func (lt *LifetimeTracker) Remove(plantID uint32, currentTick int32, dt float32) *PlantLifetime {
	s := lt.stats[plantID]
	if s == nil {
		return nil
	}
	delete(lt.stats, plantID)
	s.LifeSec = float32(currentTick-s.BirthTick) * dt
	return s
}

// RecordPenalty increments the moss penalty count.
func (lt *LifetimeTracker) RecordPenalty(plantID uint32) {
	if s := lt.stats[plantID]; s != nil {
		s.Penalties++
	}
}

// Update tracks peak growth and whether the plant ever bloomed.
func (lt *LifetimeTracker) Update(plantID uint32, growth float32, flowering bool) {
	if s := lt.stats[plantID]; s != nil {
		if growth > s.PeakGrowth {
			s.PeakGrowth = growth
		}
		if flowering {
			s.Flowered = true
		}
	}
}

// Count returns the number of tracked plants.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
