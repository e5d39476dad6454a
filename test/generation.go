package test

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/mazegen/internal/server"
	"github.com/lawnchairsociety/mazegen/internal/testclient"
)

// =============================================================================
// Group 2: Generation
// =============================================================================

// checkPerfect validates a response as a perfect maze: consistent shared
// walls, a closed border, W*L-1 passages and every cell reachable.
func checkPerfect(resp server.Response) error {
	w, l := resp.Width, resp.Length
	if len(resp.Cells) != w*l {
		return fmt.Errorf("got %d cells for %dx%d", len(resp.Cells), w, l)
	}

	cells := make(map[[2]int]server.CellJSON, len(resp.Cells))
	for _, c := range resp.Cells {
		cells[[2]int{c.X, c.Y}] = c
	}
	if len(cells) != w*l {
		return fmt.Errorf("duplicate cell coordinates")
	}

	passages := 0
	for y := 0; y < l; y++ {
		for x := 0; x < w; x++ {
			c := cells[[2]int{x, y}]
			if (x == 0 && !c.Left) || (x == w-1 && !c.Right) || (y == 0 && !c.Down) || (y == l-1 && !c.Up) {
				return fmt.Errorf("border wall missing at (%d,%d)", x, y)
			}
			if x < w-1 {
				if c.Right != cells[[2]int{x + 1, y}].Left {
					return fmt.Errorf("inconsistent wall between (%d,%d) and (%d,%d)", x, y, x+1, y)
				}
				if !c.Right {
					passages++
				}
			}
			if y < l-1 {
				if c.Up != cells[[2]int{x, y + 1}].Down {
					return fmt.Errorf("inconsistent wall between (%d,%d) and (%d,%d)", x, y, x, y+1)
				}
				if !c.Up {
					passages++
				}
			}
		}
	}
	if passages != w*l-1 {
		return fmt.Errorf("got %d passages, want %d", passages, w*l-1)
	}

	// Flood from the origin through open sides.
	seen := map[[2]int]bool{{0, 0}: true}
	queue := [][2]int{{0, 0}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		c := cells[p]
		next := make([][2]int, 0, 4)
		if !c.Up {
			next = append(next, [2]int{p[0], p[1] + 1})
		}
		if !c.Right {
			next = append(next, [2]int{p[0] + 1, p[1]})
		}
		if !c.Down {
			next = append(next, [2]int{p[0], p[1] - 1})
		}
		if !c.Left {
			next = append(next, [2]int{p[0] - 1, p[1]})
		}
		for _, n := range next {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	if len(seen) != w*l {
		return fmt.Errorf("only %d of %d cells reachable", len(seen), w*l)
	}

	if resp.Start == nil || resp.Exit == nil {
		return fmt.Errorf("missing start or exit")
	}
	if resp.Start.Y != 0 || resp.Exit.Y != l-1 {
		return fmt.Errorf("start %v / exit %v not on the first and last rows", *resp.Start, *resp.Exit)
	}

	lines := strings.Split(strings.TrimRight(resp.ASCII, "\n"), "\n")
	if len(lines) != 2*l+1 {
		return fmt.Errorf("ascii has %d lines, want %d", len(lines), 2*l+1)
	}
	return nil
}

func sameLayout(a, b server.Response) bool {
	if a.Width != b.Width || a.Length != b.Length || len(a.Cells) != len(b.Cells) {
		return false
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			return false
		}
	}
	return *a.Start == *b.Start && *a.Exit == *b.Exit
}

// TestPerfectMaze tests the maze invariants on several shapes
func TestPerfectMaze(serverAddr string) TestResult {
	const testName = "Perfect Maze"

	client, err := testclient.NewTestClient(uniqueName("perfect"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	shapes := []server.Request{
		{Width: 3, Length: 3, Seed: 1},
		{Width: 12, Length: 5, Seed: 2},
		{Width: 5, Length: 30, Seed: 3},
		{Width: 40, Length: 40, Seed: 4},
	}
	for _, req := range shapes {
		logAction(testName, fmt.Sprintf("Generating %dx%d", req.Width, req.Length))
		resp, err := client.Generate(req, responseTimeout)
		if err != nil {
			return fail(testName, "Request failed: %v", err)
		}
		if resp.Error != "" {
			return fail(testName, "%dx%d failed: %s", req.Width, req.Length, resp.Error)
		}
		err = checkPerfect(resp)
		logResult(testName, err == nil, fmt.Sprintf("%dx%d", resp.Width, resp.Length))
		if err != nil {
			return fail(testName, "%dx%d: %v", req.Width, req.Length, err)
		}
	}

	return pass(testName, "%d shapes passed every invariant", len(shapes))
}

// TestSeedDeterminism tests that equal seeds give equal mazes across sessions
func TestSeedDeterminism(serverAddr string) TestResult {
	const testName = "Seed Determinism"

	a, err := testclient.NewTestClient(uniqueName("seed"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer a.Close()
	b, err := testclient.NewTestClient(uniqueName("seed"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer b.Close()

	req := server.Request{Width: 18, Length: 11, Seed: 424242}
	first, err := a.Generate(req, responseTimeout)
	if err != nil || first.Error != "" {
		return fail(testName, "First request failed: %v %s", err, first.Error)
	}
	second, err := b.Generate(req, responseTimeout)
	if err != nil || second.Error != "" {
		return fail(testName, "Second request failed: %v %s", err, second.Error)
	}

	same := sameLayout(first, second)
	logResult(testName, same, "layouts match")
	if !same {
		return fail(testName, "Seed %d produced different layouts", req.Seed)
	}

	req.Seed++
	other, err := a.Generate(req, responseTimeout)
	if err != nil || other.Error != "" {
		return fail(testName, "Third request failed: %v %s", err, other.Error)
	}
	if sameLayout(first, other) {
		return fail(testName, "Seeds %d and %d produced the same layout", req.Seed-1, req.Seed)
	}

	return pass(testName, "Seed %d reproduced, neighbouring seed differs", req.Seed-1)
}

// TestDifficultyPresets tests the preset dimensions
func TestDifficultyPresets(serverAddr string) TestResult {
	const testName = "Difficulty Presets"

	client, err := testclient.NewTestClient(uniqueName("preset"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	presets := []struct {
		difficulty string
		size       int
	}{
		{"easy", 20},
		{"hard", 40},
		{"speedrun", 10},
	}
	for _, p := range presets {
		resp, err := client.Generate(server.Request{Difficulty: p.difficulty, Seed: 9}, responseTimeout)
		if err != nil {
			return fail(testName, "%s: %v", p.difficulty, err)
		}
		ok := resp.Error == "" && resp.Width == p.size && resp.Length == p.size && resp.Difficulty == p.difficulty
		logResult(testName, ok, fmt.Sprintf("%s -> %dx%d", p.difficulty, resp.Width, resp.Length))
		if !ok {
			return fail(testName, "%s gave %dx%d (%q, error %q)", p.difficulty, resp.Width, resp.Length, resp.Difficulty, resp.Error)
		}
	}

	return pass(testName, "All %d presets applied", len(presets))
}

// TestDimensionClamping tests that out-of-range sizes are clamped
func TestDimensionClamping(serverAddr string) TestResult {
	const testName = "Dimension Clamping"

	client, err := testclient.NewTestClient(uniqueName("clamp"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	resp, err := client.Generate(server.Request{Width: 1, Length: 500, Seed: 5}, responseTimeout)
	if err != nil {
		return fail(testName, "Request failed: %v", err)
	}
	ok := resp.Error == "" && resp.Width == 3 && resp.Length == 100
	logResult(testName, ok, fmt.Sprintf("1x500 -> %dx%d", resp.Width, resp.Length))
	if !ok {
		return fail(testName, "Expected 3x100, got %dx%d (error %q)", resp.Width, resp.Length, resp.Error)
	}
	if err := checkPerfect(resp); err != nil {
		return fail(testName, "Clamped maze invalid: %v", err)
	}

	return pass(testName, "1x500 clamped to %dx%d", resp.Width, resp.Length)
}

// TestReplay tests regenerating a recorded run. Passes with a note when
// the service runs without history.
func TestReplay(serverAddr string) TestResult {
	const testName = "Replay"

	client, err := testclient.NewTestClient(uniqueName("replay"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	original, err := client.Generate(server.Request{Width: 9, Length: 14, Seed: 31337}, responseTimeout)
	if err != nil || original.Error != "" {
		return fail(testName, "Generate failed: %v %s", err, original.Error)
	}

	logAction(testName, fmt.Sprintf("Replaying %s", original.RunID))
	replay, err := client.Generate(server.Request{Replay: original.RunID}, responseTimeout)
	if err != nil {
		return fail(testName, "Replay request failed: %v", err)
	}
	if strings.Contains(replay.Error, server.ErrHistoryDisabled.Error()) {
		return pass(testName, "Skipped: history disabled on this service")
	}
	if replay.Error != "" {
		return fail(testName, "Replay failed: %s", replay.Error)
	}

	same := replay.RunID == original.RunID && sameLayout(original, replay)
	logResult(testName, same, "replayed layout matches")
	if !same {
		return fail(testName, "Replay of %s differs from the original", original.RunID)
	}

	return pass(testName, "Run %s replayed identically", original.RunID)
}
