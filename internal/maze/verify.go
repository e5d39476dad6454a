package maze

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error Verify returns.
var ErrInvariant = errors.New("maze invariant violated")

// OpenEdges counts the open shared walls between adjacent cells.
// Each shared wall is counted once, from its lower-left cell.
func OpenEdges(g *Grid) int {
	open := 0
	g.Each(func(c Coord, cell Cell) {
		for _, w := range []Wall{WallUp, WallRight} {
			if _, ok := g.Neighbor(c, w); ok && !cell.HasWall(w) {
				open++
			}
		}
	})
	return open
}

// Verify checks that g is a finished perfect maze: every cell visited,
// walls consistent between neighbors, the outer boundary closed, exactly
// width*length-1 open walls and every cell reachable.
func Verify(g *Grid) error {
	var firstErr error
	fail := func(format string, args ...any) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
		}
	}

	g.Each(func(c Coord, cell Cell) {
		if !cell.Visited {
			fail("cell (%d,%d) not visited", c.X, c.Y)
		}
		for _, w := range AllWalls() {
			n, ok := g.Neighbor(c, w)
			if !ok {
				if !cell.HasWall(w) {
					fail("cell (%d,%d) open to the outside on %s", c.X, c.Y, w)
				}
				continue
			}
			if cell.HasWall(w) != g.At(n).HasWall(w.Opposite()) {
				fail("wall between (%d,%d) and (%d,%d) disagrees", c.X, c.Y, n.X, n.Y)
			}
		}
	})
	if firstErr != nil {
		return firstErr
	}

	want := g.Width()*g.Length() - 1
	if open := OpenEdges(g); open != want {
		return fmt.Errorf("%w: %d open walls, want %d", ErrInvariant, open, want)
	}

	if reached := reachable(g, Coord{}); reached != g.Width()*g.Length() {
		return fmt.Errorf("%w: %d of %d cells reachable", ErrInvariant, reached, g.Width()*g.Length())
	}

	return nil
}

// reachable counts the cells reachable from start through open walls
func reachable(g *Grid, start Coord) int {
	seen := make([]bool, g.Width()*g.Length())
	seen[g.index(start)] = true
	queue := []Coord{start}
	count := 0

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		count++

		cell := g.At(c)
		for _, w := range AllWalls() {
			if cell.HasWall(w) {
				continue
			}
			n, ok := g.Neighbor(c, w)
			if !ok || seen[g.index(n)] {
				continue
			}
			seen[g.index(n)] = true
			queue = append(queue, n)
		}
	}

	return count
}
