package render

import (
	"fmt"

	"github.com/lawnchairsociety/mazegen/internal/maze"
)

// Point is a position on the floor plane. X follows the maze width,
// Z follows the maze length.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Segment is one wall piece a geometry front-end should place.
type Segment struct {
	Cell   maze.Coord `json:"cell"`
	Side   string     `json:"side"`
	Center Point      `json:"center"`
	// Vertical is true for left/right walls, which run along the length axis.
	Vertical bool    `json:"vertical"`
	Length   float64 `json:"length"`
	Name     string  `json:"name"`
}

// FloorRect is the floor plate under the maze.
type FloorRect struct {
	Center Point   `json:"center"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// Layout lists the wall segments needed to draw g with cells of the given
// size. Up and left walls are placed for every cell that has them; right
// walls only on the last column and down walls only on the first row, since
// elsewhere the neighbor's left or up wall covers the same edge.
func Layout(g *maze.Grid, cellSize float64) []Segment {
	var segments []Segment

	g.Each(func(c maze.Coord, cell maze.Cell) {
		origin := cellOrigin(c, cellSize)

		if cell.Up {
			segments = append(segments, newSegment(c, maze.WallUp, origin, cellSize))
		}
		if cell.Left {
			segments = append(segments, newSegment(c, maze.WallLeft, origin, cellSize))
		}
		if c.X == g.Width()-1 && cell.Right {
			segments = append(segments, newSegment(c, maze.WallRight, origin, cellSize))
		}
		if c.Y == 0 && cell.Down {
			segments = append(segments, newSegment(c, maze.WallDown, origin, cellSize))
		}
	})

	return segments
}

// Floor returns the plate covering a width x length maze.
func Floor(width, length int, cellSize float64) FloorRect {
	return FloorRect{
		Center: Point{
			X: float64(width-1) * cellSize / 2,
			Z: float64(length-1) * cellSize / 2,
		},
		Width:  float64(width) * cellSize,
		Length: float64(length) * cellSize,
	}
}

// CellCenter returns the floor position of a cell's center.
func CellCenter(c maze.Coord, cellSize float64) Point {
	return cellOrigin(c, cellSize)
}

func cellOrigin(c maze.Coord, cellSize float64) Point {
	return Point{X: float64(c.X) * cellSize, Z: float64(c.Y) * cellSize}
}

func newSegment(c maze.Coord, w maze.Wall, origin Point, cellSize float64) Segment {
	dx, dy := w.Delta()
	return Segment{
		Cell: c,
		Side: w.String(),
		Center: Point{
			X: origin.X + float64(dx)*cellSize/2,
			Z: origin.Z + float64(dy)*cellSize/2,
		},
		Vertical: dx != 0,
		Length:   cellSize,
		Name:     fmt.Sprintf("%d,%d%sWall", c.X, c.Y, w),
	}
}
