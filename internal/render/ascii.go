// Package render turns a finished maze grid into output a front-end can draw:
// ASCII text for terminals and logs, and wall segments for geometry.
package render

import (
	"strings"

	"github.com/lawnchairsociety/mazegen/internal/maze"
)

// ASCII draws the maze with +---+ corners. The first line is the top of the
// maze (y = length-1). When ends is non-nil the start and exit cells are
// marked S and E.
func ASCII(g *maze.Grid, ends *maze.Endpoints) string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+")
	for x := 0; x < g.Width(); x++ {
		if g.At(maze.Coord{X: x, Y: g.Length() - 1}).Up {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for y := g.Length() - 1; y >= 0; y-- {
		// Cell row
		if g.At(maze.Coord{X: 0, Y: y}).Left {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for x := 0; x < g.Width(); x++ {
			c := maze.Coord{X: x, Y: y}
			b.WriteString(cellBody(c, ends))
			if g.At(c).Right {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")

		// Wall row below
		b.WriteString("+")
		for x := 0; x < g.Width(); x++ {
			if g.At(maze.Coord{X: x, Y: y}).Down {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func cellBody(c maze.Coord, ends *maze.Endpoints) string {
	if ends == nil {
		return "   "
	}
	switch c {
	case ends.Start:
		return " S "
	case ends.Exit:
		return " E "
	}
	return "   "
}
