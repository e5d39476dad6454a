package maze

// Endpoints marks where a player enters and leaves the maze.
type Endpoints struct {
	Start Coord
	Exit  Coord
}

// PlaceEndpoints picks a random start on the bottom row (y = 0) and a
// random exit on the top row (y = length-1). Topology is not consulted;
// in a perfect maze any two cells are connected.
func PlaceEndpoints(g *Grid, rng Random) Endpoints {
	return Endpoints{
		Start: Coord{X: rng.Intn(g.Width()), Y: 0},
		Exit:  Coord{X: rng.Intn(g.Width()), Y: g.Length() - 1},
	}
}
