package systems

// SpatialGrid buckets moss points into square cells for fast proximity checks.
// Positions outside the playfield are clamped into the border cells.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]Vec2 // flat grid of point lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]Vec2, cols*rows)
	for i := range cells {
		cells[i] = make([]Vec2, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all points from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a point to the grid. A nil grid ignores it.
func (g *SpatialGrid) Insert(x, y float32) {
	if g == nil {
		return
	}
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], Vec2{X: x, Y: y})
}

// InsertColonies fills the grid with every live point of the colonies.
func (g *SpatialGrid) InsertColonies(colonies []*MossColony) {
	for _, c := range colonies {
		for i := range c.Points {
			p := &c.Points[i]
			if !p.Dying {
				g.Insert(p.X, p.Y)
			}
		}
	}
}

// AnyWithin reports whether some point lies strictly closer than radius to
// (x, y). A nil grid holds nothing.
func (g *SpatialGrid) AnyWithin(x, y, radius float32) bool {
	if g == nil || radius <= 0 {
		return false
	}
	c0, r0 := g.cellCoords(x-radius, y-radius)
	c1, r1 := g.cellCoords(x+radius, y+radius)
	radiusSq := radius * radius

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, p := range g.cells[row*g.cols+col] {
				if distanceSq(x, y, p.X, p.Y) < radiusSq {
					return true
				}
			}
		}
	}
	return false
}

// Len returns the number of points in the grid.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}

// cellCoords returns the clamped cell column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float32) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	// Clamp to valid range
	if x < 0 || col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if y < 0 || row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
