package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/overgrown/components"
)

// SeedSystem moves dropped seeds down to the root line. Seeds are ECS
// entities; each one becomes a plant when it lands, if there is room.
type SeedSystem struct {
	world   *ecs.World
	mapper  *ecs.Map2[components.Position, components.Seed]
	filter  *ecs.Filter2[components.Position, components.Seed]
	groundY float32
	speed   float32

	landed []ecs.Entity // scratch
}

// NewSeedSystem creates a seed system on the given world.
func NewSeedSystem(w *ecs.World, groundY, fallSpeed float32) *SeedSystem {
	return &SeedSystem{
		world:   w,
		mapper:  ecs.NewMap2[components.Position, components.Seed](w),
		filter:  ecs.NewFilter2[components.Position, components.Seed](w),
		groundY: groundY,
		speed:   fallSpeed,
	}
}

// Drop creates a falling seed at (x, y). Seeds dropped below the root line
// land on the next update.
func (s *SeedSystem) Drop(x, y float32) ecs.Entity {
	pos := components.Position{X: x, Y: min(y, s.groundY)}
	seed := components.Seed{FallSpeed: s.speed}
	return s.mapper.NewEntity(&pos, &seed)
}

// Update advances every seed and returns where seeds landed this tick.
// Landed seeds are removed.
func (s *SeedSystem) Update() []Vec2 {
	var landed []Vec2
	s.landed = s.landed[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, seed := query.Get()
		pos.Y += seed.FallSpeed
		if pos.Y >= s.groundY {
			pos.Y = s.groundY
			seed.Landed = true
			landed = append(landed, Vec2{X: pos.X, Y: pos.Y})
			s.landed = append(s.landed, query.Entity())
		}
	}

	// Removal waits until the query has finished
	for _, e := range s.landed {
		s.world.RemoveEntity(e)
	}
	return landed
}

// Pending returns the number of seeds still falling.
func (s *SeedSystem) Pending() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Positions returns the positions of falling seeds, for rendering.
func (s *SeedSystem) Positions() []Vec2 {
	var out []Vec2
	query := s.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		out = append(out, Vec2{X: pos.X, Y: pos.Y})
	}
	return out
}

// Clear removes every falling seed.
func (s *SeedSystem) Clear() {
	var all []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.world.RemoveEntity(e)
	}
}
