// Package maze generates perfect mazes: spanning trees over a rectangular
// grid of cells, with exactly one path between any two cells.
package maze

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvalidDimension is returned when a width or length below 1 is requested.
	ErrInvalidDimension = errors.New("invalid maze dimension")

	// ErrNilRandom is returned when no random source is supplied.
	ErrNilRandom = errors.New("nil random source")
)

// Random is the only source of entropy the generator consumes.
// Intn returns a uniform integer in [0, n). *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// NewSeeded returns a Random seeded for reproducible generation.
func NewSeeded(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}

// candidate is an unvisited neighbor and the wall the current cell shares with it
type candidate struct {
	pos    Coord
	shared Wall
}

// Generate builds a perfect maze of the given dimensions using a randomized
// depth-first traversal with an explicit backtracking stack. The returned
// grid is freshly allocated and owned by the caller.
func Generate(width, length int, rng Random) (*Grid, error) {
	if width < 1 || length < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, length)
	}
	if rng == nil {
		return nil, ErrNilRandom
	}

	g := newGrid(width, length)

	start := Coord{X: rng.Intn(width), Y: rng.Intn(length)}
	g.cell(start).Visited = true

	stack := make([]Coord, 0, width*length)
	stack = append(stack, start)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		candidates := unvisitedNeighbors(g, current)
		if len(candidates) == 0 {
			// Dead end: leave it off the stack and backtrack.
			continue
		}

		stack = append(stack, current)

		next := candidates[rng.Intn(len(candidates))]
		g.openWall(current, next.shared, next.pos)
		g.cell(next.pos).Visited = true
		stack = append(stack, next.pos)
	}

	return g, nil
}

// unvisitedNeighbors lists in-bounds unvisited neighbors of pos in
// up, right, down, left order.
func unvisitedNeighbors(g *Grid, pos Coord) []candidate {
	candidates := make([]candidate, 0, 4)
	for _, w := range AllWalls() {
		n, ok := g.Neighbor(pos, w)
		if !ok || g.At(n).Visited {
			continue
		}
		candidates = append(candidates, candidate{pos: n, shared: w})
	}
	return candidates
}

// Generator binds a random source for repeated generation.
// It is not safe for concurrent use.
type Generator struct {
	rng Random
}

// NewGenerator creates a generator that draws from rng
func NewGenerator(rng Random) *Generator {
	return &Generator{rng: rng}
}

// NewSeededGenerator creates a generator with a seeded random source
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(NewSeeded(seed))
}

// Generate builds a maze with the generator's random source.
func (gen *Generator) Generate(width, length int) (*Grid, error) {
	return Generate(width, length, gen.rng)
}

// Random returns the generator's random source. Endpoints are drawn from it
// after Generate so one seed fixes the whole run.
func (gen *Generator) Random() Random {
	return gen.rng
}
