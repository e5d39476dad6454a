package maze

// Coord is a cell position. X runs along the width, Y along the length.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell holds the wall state of a single grid cell.
type Cell struct {
	Up    bool
	Right bool
	Down  bool
	Left  bool

	// Visited is generator bookkeeping. It reads true for every cell of a
	// finished grid.
	Visited bool
}

// NewCell returns a cell with all four walls standing and not yet visited.
func NewCell() Cell {
	return Cell{Up: true, Right: true, Down: true, Left: true}
}

// HasWall reports whether the given wall is standing.
func (c Cell) HasWall(w Wall) bool {
	switch w {
	case WallUp:
		return c.Up
	case WallRight:
		return c.Right
	case WallDown:
		return c.Down
	case WallLeft:
		return c.Left
	}
	return false
}

// SetWall raises the given wall.
func (c *Cell) SetWall(w Wall) {
	c.setWall(w, true)
}

// ClearWall removes the given wall.
func (c *Cell) ClearWall(w Wall) {
	c.setWall(w, false)
}

func (c *Cell) setWall(w Wall, standing bool) {
	switch w {
	case WallUp:
		c.Up = standing
	case WallRight:
		c.Right = standing
	case WallDown:
		c.Down = standing
	case WallLeft:
		c.Left = standing
	}
}

// Walls returns the standing walls in enumeration order.
func (c Cell) Walls() []Wall {
	var walls []Wall
	for _, w := range AllWalls() {
		if c.HasWall(w) {
			walls = append(walls, w)
		}
	}
	return walls
}

// OpenCount returns the number of removed walls.
func (c Cell) OpenCount() int {
	return 4 - len(c.Walls())
}
