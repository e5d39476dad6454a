package maze

// Grid is a dense width x length array of cells. Consumers only read it;
// the generator is the sole writer.
type Grid struct {
	width  int
	length int
	cells  []Cell // column-major: index = x*length + y
}

// newGrid allocates a grid with every wall standing. Dimensions must
// already be validated.
func newGrid(width, length int) *Grid {
	g := &Grid{
		width:  width,
		length: length,
		cells:  make([]Cell, width*length),
	}
	for i := range g.cells {
		g.cells[i] = NewCell()
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Length returns the number of rows.
func (g *Grid) Length() int {
	return g.length
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.length
}

// At returns a copy of the cell at c. It panics if c is out of bounds.
func (g *Grid) At(c Coord) Cell {
	return g.cells[g.index(c)]
}

// Neighbor returns the coordinate across wall w from c, and false if that
// coordinate lies outside the grid.
func (g *Grid) Neighbor(c Coord, w Wall) (Coord, bool) {
	dx, dy := w.Delta()
	n := Coord{X: c.X + dx, Y: c.Y + dy}
	return n, g.InBounds(n)
}

// Each calls fn for every cell, x-major then y.
func (g *Grid) Each(fn func(c Coord, cell Cell)) {
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.length; y++ {
			c := Coord{X: x, Y: y}
			fn(c, g.At(c))
		}
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, length: g.length, cells: cells}
}

// Equal reports whether both grids have the same dimensions and cell states.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.length != other.length {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (g *Grid) index(c Coord) int {
	return c.X*g.length + c.Y
}

func (g *Grid) cell(c Coord) *Cell {
	return &g.cells[g.index(c)]
}

// openWall removes the wall between c and its neighbor across w on both sides.
func (g *Grid) openWall(c Coord, w Wall, n Coord) {
	g.cell(c).ClearWall(w)
	g.cell(n).ClearWall(w.Opposite())
}
