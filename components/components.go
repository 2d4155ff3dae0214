// Package components defines ECS components for the garden.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Seed is a seed falling toward the root line.
type Seed struct {
	FallSpeed float32 // pixels per tick
	Landed    bool
}
