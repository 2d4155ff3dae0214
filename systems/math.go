package systems

import "math"

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float32
}

// Bounds describes the playfield.
type Bounds struct {
	Width, Height float32
}

// Center returns the playfield centre.
func (b Bounds) Center() Vec2 {
	return Vec2{X: b.Width / 2, Y: b.Height / 2}
}

// Contains reports whether (x, y) lies within the playfield grown by margin on every side.
func (b Bounds) Contains(x, y, margin float32) bool {
	return x >= -margin && x <= b.Width+margin && y >= -margin && y <= b.Height+margin
}

// Clamp functions for common value ranges

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Angles

const degToRad = math.Pi / 180

// angleDelta returns the signed shortest rotation in degrees from one heading to another,
// in [-180, 180).
func angleDelta(from, to float32) float32 {
	d := math.Mod(float64(to-from)+540, 360)
	if d < 0 {
		d += 360
	}
	return float32(d) - 180
}

// headingDeg returns the heading in degrees from (x1, y1) toward (x2, y2).
func headingDeg(x1, y1, x2, y2 float32) float32 {
	return float32(math.Atan2(float64(y2-y1), float64(x2-x1)) / degToRad)
}

// Distance functions

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// PointInCircle reports whether (px, py) is strictly inside the circle.
func PointInCircle(px, py, cx, cy, r float32) bool {
	return distanceSq(px, py, cx, cy) < r*r
}

// CirclesOverlap reports whether two circles intersect.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float32) bool {
	rs := r1 + r2
	return distanceSq(x1, y1, x2, y2) < rs*rs
}

// PointSegmentDistanceSq returns the squared distance from (px, py) to segment a-b.
func PointSegmentDistanceSq(px, py, ax, ay, bx, by float32) float32 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return distanceSq(px, py, ax, ay)
	}
	t := clamp01(((px-ax)*dx + (py-ay)*dy) / lenSq)
	return distanceSq(px, py, ax+t*dx, ay+t*dy)
}

// CircleIntersectsRect reports whether a circle overlaps an axis-aligned rectangle.
func CircleIntersectsRect(cx, cy, r float32, rect Rect) bool {
	nx := clampFloat(cx, rect.X, rect.X+rect.W)
	ny := clampFloat(cy, rect.Y, rect.Y+rect.H)
	return distanceSq(cx, cy, nx, ny) < r*r
}

// RectsOverlap reports whether two rectangles intersect.
func RectsOverlap(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// sqrt32 is math.Sqrt for float32.
func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng interface{ Float32() float32 }, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}
