// Package telemetry provides garden health tracking, bookmarking, and snapshots.
package telemetry

import "log/slog"

// EventType identifies session events.
type EventType string

const (
	EventPlantRooted     EventType = "plant_rooted"
	EventPlantDied       EventType = "plant_died"
	EventColonyExtinct   EventType = "colony_extinct"
	EventColonyRespawned EventType = "colony_respawned"
	EventOvergrowStarted EventType = "overgrow_started"
	EventOvergrowEnded   EventType = "overgrow_ended"
	EventClimaxStarted   EventType = "climax_started"
	EventFullyOvergrown  EventType = "fully_overgrown"
)

// Event represents a single session event.
type Event struct {
	Type EventType `csv:"type"`
	Tick int32     `csv:"tick"`
	X    float32   `csv:"x"`
	Y    float32   `csv:"y"`

	// Optional fields depending on event type
	ID       uint32  `csv:"id"`       // plant ID for plant events
	Coverage float64 `csv:"coverage"` // for pacing events
}

// NewPlantEvent creates a plant rooting or death event.
func NewPlantEvent(t EventType, tick int32, id uint32, x, y float32) Event {
	return Event{Type: t, Tick: tick, ID: id, X: x, Y: y}
}

// NewColonyEvent creates a colony extinction or respawn event.
func NewColonyEvent(t EventType, tick int32, x, y float32) Event {
	return Event{Type: t, Tick: tick, X: x, Y: y}
}

// NewPacingEvent creates a coverage transition event.
func NewPacingEvent(t EventType, tick int32, coverage float64) Event {
	return Event{Type: t, Tick: tick, Coverage: coverage}
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", string(e.Type),
		"tick", e.Tick,
		"x", e.X,
		"y", e.Y,
		"id", e.ID,
		"coverage", e.Coverage,
	)
}
