package maze

// Wall identifies one of the four edges of a cell.
type Wall int

const (
	WallUp Wall = iota
	WallRight
	WallDown
	WallLeft
)

// AllWalls returns the walls in candidate enumeration order: up, right, down, left.
func AllWalls() []Wall {
	return []Wall{WallUp, WallRight, WallDown, WallLeft}
}

// Opposite returns the wall the neighbor across w shares with the cell.
func (w Wall) Opposite() Wall {
	switch w {
	case WallUp:
		return WallDown
	case WallRight:
		return WallLeft
	case WallDown:
		return WallUp
	case WallLeft:
		return WallRight
	}
	return w
}

// Delta returns the grid step that crosses w. Up is +y.
func (w Wall) Delta() (dx, dy int) {
	switch w {
	case WallUp:
		return 0, 1
	case WallRight:
		return 1, 0
	case WallDown:
		return 0, -1
	case WallLeft:
		return -1, 0
	}
	return 0, 0
}

func (w Wall) String() string {
	switch w {
	case WallUp:
		return "up"
	case WallRight:
		return "right"
	case WallDown:
		return "down"
	case WallLeft:
		return "left"
	}
	return "unknown"
}
