package systems

import "testing"

func TestSpatialGrid_AnyWithin(t *testing.T) {
	g := NewSpatialGrid(200, 100, 14)
	g.Insert(50, 50)
	g.Insert(-3, -3)  // clamped into the corner cell
	g.Insert(250, 60) // clamped into the right column

	tests := []struct {
		name    string
		x, y, r float32
		want    bool
	}{
		{"inside radius", 60, 50, 11, true},
		{"on the radius", 60, 50, 10, false},
		{"across cells", 50, 64, 15, true},
		{"outside the playfield", -1, -1, 5, true},
		{"clamped far point", 245, 60, 6, true},
		{"empty area", 120, 20, 14, false},
		{"zero radius", 50, 50, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.AnyWithin(tt.x, tt.y, tt.r); got != tt.want {
				t.Errorf("AnyWithin(%v, %v, %v) = %v, want %v", tt.x, tt.y, tt.r, got, tt.want)
			}
		})
	}

	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
	g.Clear()
	if g.Len() != 0 || g.AnyWithin(50, 50, 20) {
		t.Error("grid not empty after Clear")
	}

	var none *SpatialGrid
	none.Insert(1, 1)
	if none.AnyWithin(1, 1, 10) {
		t.Error("nil grid should hold nothing")
	}
}
