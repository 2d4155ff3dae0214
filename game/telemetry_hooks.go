package game

import (
	"log/slog"

	"github.com/pthm-cable/overgrown/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		g.bookmarksSeen++
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// census samples the garden for the end of a stats window.
func (g *Game) census() telemetry.Census {
	c := telemetry.Census{
		Phase:    g.Phase().String(),
		Coverage: float64(g.coverage.Ratio()),
		Overgrow: g.coverage.Overgrow(),
		Climax:   g.coverage.ClimaxActive(),
		Seeds:    g.seeds.Pending(),
	}

	for _, p := range g.plants {
		if !p.Alive {
			continue
		}
		c.Plants++
		if p.Flowering() {
			c.Flowering++
		}
		c.Health = append(c.Health, float64(p.Health))
		c.Growth = append(c.Growth, float64(p.Growth))
	}

	for _, col := range g.colonies {
		if col.IsExtinct() {
			continue
		}
		c.Colonies++
		c.SporePoints += len(col.Points)
	}
	return c
}

// recordEvent writes a session event to the event log.
func (g *Game) recordEvent(e telemetry.Event) {
	if g.outputManager == nil {
		return
	}
	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.Snapshot()
	snapshot.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// Snapshot captures the current garden state.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.rngSeed,
		WorldWidth:  g.bounds.Width,
		WorldHeight: g.bounds.Height,
		Tick:        g.tick,
		Phase:       g.Phase().String(),
		Coverage:    float64(g.coverage.Ratio()),
		Overgrow:    g.coverage.Overgrow(),
		Climax:      g.coverage.ClimaxActive(),
		Seeds:       g.seeds.Positions(),
	}

	if g.light.On() {
		snapshot.Light = &telemetry.LightState{X: g.light.X, Y: g.light.Y, Radius: g.light.R}
	}

	snapshot.Plants = make([]telemetry.PlantState, 0, len(g.plants))
	for _, p := range g.plants {
		snapshot.Plants = append(snapshot.Plants, telemetry.NewPlantState(p.id, p.Plant, g.lifetimeTracker.Get(p.id)))
	}

	snapshot.Colonies = make([]telemetry.ColonyState, 0, len(g.colonies))
	for _, c := range g.colonies {
		snapshot.Colonies = append(snapshot.Colonies, telemetry.NewColonyState(c))
	}

	return snapshot
}

// Summary returns the session outcome so far.
func (g *Game) Summary() telemetry.Summary {
	return telemetry.Summary{
		Seed:          g.rngSeed,
		Ticks:         g.tick,
		SimTimeSec:    float64(g.tick) * float64(g.cfg.Derived.DT32),
		FinalCoverage: float64(g.coverage.Ratio()),
		Overgrown:     g.coverage.Finished(),
		OvergrownTick: max(g.overgrownTick, 0),
		PlantsAlive:   g.livePlants(),
		PlantsBorn:    g.plantsBorn,
		PlantsLost:    g.plantsLost,
		Bookmarks:     g.bookmarksSeen,
	}
}
