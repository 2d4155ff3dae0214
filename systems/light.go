package systems

// Body is anything with a position and a collision radius.
// Light, Plant and SporePoint implement it.
type Body interface {
	Position() Vec2
	Radius() float32
}

// Light is the player's purifying light. It follows the pointer.
// A nil or inactive Light has no influence; all methods are nil-safe.
type Light struct {
	X, Y   float32
	R      float32
	Active bool
}

// NewLight creates an inactive light with the given radius.
func NewLight(radius float32) *Light {
	return &Light{R: radius}
}

// MoveTo places the light and activates it.
func (l *Light) MoveTo(x, y float32) {
	l.X = x
	l.Y = y
	l.Active = true
}

// Deactivate removes the light's influence until the next MoveTo.
func (l *Light) Deactivate() {
	l.Active = false
}

// On reports whether the light influences the world this tick.
func (l *Light) On() bool {
	return l != nil && l.Active
}

// Position implements Body.
func (l *Light) Position() Vec2 {
	if l == nil {
		return Vec2{}
	}
	return Vec2{X: l.X, Y: l.Y}
}

// Radius implements Body. Inactive lights report zero.
func (l *Light) Radius() float32 {
	if !l.On() {
		return 0
	}
	return l.R
}

// Contains reports whether (x, y) is strictly inside the light circle.
func (l *Light) Contains(x, y float32) bool {
	if !l.On() {
		return false
	}
	return PointInCircle(x, y, l.X, l.Y, l.R)
}

// Within reports whether (x, y) is within the light radius grown by margin.
func (l *Light) Within(x, y, margin float32) bool {
	if !l.On() {
		return false
	}
	return PointInCircle(x, y, l.X, l.Y, l.R+margin)
}

// Distance returns the distance from the light centre to (x, y).
// The second result is false when the light is off.
func (l *Light) Distance(x, y float32) (float32, bool) {
	if !l.On() {
		return 0, false
	}
	return distance(l.X, l.Y, x, y), true
}
