package game

import (
	"log/slog"

	"github.com/pthm-cable/overgrown/systems"
	"github.com/pthm-cable/overgrown/telemetry"
)

// respawnEntry is an extinct colony waiting to be reseeded.
type respawnEntry struct {
	colony *systems.MossColony
	due    int32
}

// regrowthEntry is an initial plant slot waiting to be replanted.
type regrowthEntry struct {
	slot int
	due  int32
}

// spawnInitialPlants spaces the starting plants evenly along the root line.
func (g *Game) spawnInitialPlants() {
	n := g.cfg.Garden.InitialPlants
	spacing := g.bounds.Width / float32(n+1)
	y := g.cfg.Derived.GroundY

	g.plantSlots = make([]systems.Vec2, n)
	for i := range g.plantSlots {
		g.plantSlots[i] = systems.Vec2{X: float32(i+1) * spacing, Y: y}
		g.spawnPlant(g.plantSlots[i].X, y, i)
	}
}

// spawnInitialColonies places colonies on the playfield edges, away from each
// other and from the plants. A colony that finds no free spot is skipped.
func (g *Game) spawnInitialColonies() {
	gc := &g.cfg.Garden
	spacingSq := float32(gc.ColonySpacing * gc.ColonySpacing)
	clearanceSq := float32(gc.PlantClearance * gc.PlantClearance)

	var starts []systems.Vec2
	for i := 0; i < gc.InitialColonies; i++ {
		for try := 0; try < gc.PlacementTries; try++ {
			pos := g.edgePosition()
			if tooClose(pos, starts, spacingSq) || tooClose(pos, g.plantSlots, clearanceSq) {
				continue
			}
			starts = append(starts, pos)
			g.colonies = append(g.colonies, systems.NewMossColony(pos.X, pos.Y, &g.cfg.Moss, g.rng))
			break
		}
	}

	if len(g.colonies) < gc.InitialColonies {
		slog.Warn("garden placed fewer colonies than requested",
			"placed", len(g.colonies),
			"requested", gc.InitialColonies,
		)
	}
}

// edgePosition returns a random point just inside one of the four edges.
func (g *Game) edgePosition() systems.Vec2 {
	m := float32(g.cfg.Garden.EdgeMargin)
	w, h := g.bounds.Width, g.bounds.Height
	along := func(length float32) float32 {
		return m + g.rng.Float32()*(length-2*m)
	}

	switch g.rng.Intn(4) {
	case 0: // top
		return systems.Vec2{X: along(w), Y: m}
	case 1: // right
		return systems.Vec2{X: w - m, Y: along(h)}
	case 2: // bottom
		return systems.Vec2{X: along(w), Y: h - m}
	default: // left
		return systems.Vec2{X: m, Y: along(h)}
	}
}

func tooClose(pos systems.Vec2, others []systems.Vec2, minDistSq float32) bool {
	for _, o := range others {
		dx, dy := pos.X-o.X, pos.Y-o.Y
		if dx*dx+dy*dy < minDistSq {
			return true
		}
	}
	return false
}

// spawnPlant roots a new plant. slot is its initial layout index, or -1.
func (g *Game) spawnPlant(x, y float32, slot int) *gardenPlant {
	id := g.nextID
	g.nextID++

	p := &gardenPlant{
		Plant: systems.NewPlant(x, y, g.cfg, g.rng),
		id:    id,
		slot:  slot,
	}
	g.plants = append(g.plants, p)
	g.plantsBorn++

	g.lifetimeTracker.Register(id, g.tick, slot >= 0)
	// The starting layout is not counted as births
	if g.tick > 0 {
		g.collector.RecordPlantBirth()
		g.recordEvent(telemetry.NewPlantEvent(telemetry.EventPlantRooted, g.tick, id, x, y))
	}
	return p
}

// plantDied records a death and schedules regrowth for initial plants.
func (g *Game) plantDied(p *gardenPlant) {
	g.plantsLost++
	life := g.lifetimeTracker.Remove(p.id, g.tick, g.cfg.Derived.DT32)
	g.collector.RecordPlantDeath(life)
	g.recordEvent(telemetry.NewPlantEvent(telemetry.EventPlantDied, g.tick, p.id, p.RootX, p.RootY))

	if p.slot >= 0 {
		g.regrowths = append(g.regrowths, regrowthEntry{
			slot: p.slot,
			due:  g.tick + int32(g.cfg.Garden.RegrowthDelayTicks),
		})
	}
}

// scheduleRespawn queues an extinct colony to be reseeded at its start position.
func (g *Game) scheduleRespawn(c *systems.MossColony) {
	g.collector.RecordExtinction()
	g.recordEvent(telemetry.NewColonyEvent(telemetry.EventColonyExtinct, g.tick, c.StartX, c.StartY))
	g.respawns = append(g.respawns, respawnEntry{
		colony: c,
		due:    g.tick + int32(g.cfg.Garden.RespawnDelayTicks),
	})
}

// processRespawns reseeds colonies whose delay has elapsed.
func (g *Game) processRespawns() {
	pending := g.respawns[:0]
	for _, r := range g.respawns {
		if g.tick < r.due {
			pending = append(pending, r)
			continue
		}
		r.colony.Reset(g.rng)
		g.collector.RecordRespawn()
		g.recordEvent(telemetry.NewColonyEvent(telemetry.EventColonyRespawned, g.tick, r.colony.StartX, r.colony.StartY))
	}
	clear(g.respawns[len(pending):])
	g.respawns = pending
}

// processRegrowth replants initial slots whose delay has elapsed. A slot
// waits while the garden is at capacity or the slot is still occupied.
func (g *Game) processRegrowth() {
	pending := g.regrowths[:0]
	for _, r := range g.regrowths {
		if g.tick < r.due || g.livePlants()+g.seeds.Pending() >= g.cfg.Garden.PlantCapacity || g.slotOccupied(r.slot) {
			pending = append(pending, r)
			continue
		}
		pos := g.plantSlots[r.slot]
		g.spawnPlant(pos.X, pos.Y, r.slot)
	}
	g.regrowths = pending
}

func (g *Game) slotOccupied(slot int) bool {
	for _, p := range g.plants {
		if p.slot == slot && p.Alive {
			return true
		}
	}
	return false
}
