package viewer

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/maze"
)

func newTestViewer(t *testing.T, w, h int, m config.MazeConfig) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)

	seed := int64(0)
	v := New(screen, m, config.ViewerConfig{PanStep: 2, ShowEndpoints: true}, func() int64 {
		seed++
		return seed
	})
	return v, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func special(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func screenRow(s tcell.SimulationScreen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestRegenerateProducesPerfectMaze(t *testing.T) {
	v, _ := newTestViewer(t, 80, 24, config.PresetFor(config.DifficultySpeedrun))

	if err := v.Regenerate(); err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if v.Grid().Width() != 10 || v.Grid().Length() != 10 {
		t.Errorf("grid is %dx%d, want 10x10", v.Grid().Width(), v.Grid().Length())
	}
	if err := maze.Verify(v.Grid()); err != nil {
		t.Errorf("viewer maze failed verification: %v", err)
	}
	if v.Seed() != 1 {
		t.Errorf("Seed = %d, want 1", v.Seed())
	}

	first := v.Grid()
	if quit := v.HandleEvent(key('r')); quit {
		t.Fatal("r should not quit")
	}
	if v.Seed() != 2 {
		t.Errorf("Seed after r = %d, want 2", v.Seed())
	}
	if v.Grid() == first {
		t.Error("r did not build a new grid")
	}
}

func TestPresetKeys(t *testing.T) {
	v, _ := newTestViewer(t, 80, 24, config.PresetFor(config.DifficultyEasy))
	v.Regenerate()

	tests := []struct {
		key           rune
		width, length int
		difficulty    config.Difficulty
	}{
		{'2', 40, 40, config.DifficultyHard},
		{'3', 10, 10, config.DifficultySpeedrun},
		{'1', 20, 20, config.DifficultyEasy},
	}
	for _, tt := range tests {
		v.HandleEvent(key(tt.key))
		m := v.Maze()
		if m.Width != tt.width || m.Length != tt.length || m.Difficulty != tt.difficulty {
			t.Errorf("key %q: got %dx%d %s, want %dx%d %s", tt.key, m.Width, m.Length, m.Difficulty, tt.width, tt.length, tt.difficulty)
		}
		if v.Grid().Width() != tt.width {
			t.Errorf("key %q: grid width %d, want %d", tt.key, v.Grid().Width(), tt.width)
		}
	}
}

func TestResizeKeysRespectBounds(t *testing.T) {
	m := config.PresetFor(config.DifficultyEasy)
	m.Width, m.Length = config.MinDimension, config.MinDimension
	v, _ := newTestViewer(t, 80, 24, m)
	v.Regenerate()

	v.HandleEvent(key('-'))
	if got := v.Maze(); got.Width != config.MinDimension || got.Length != config.MinDimension {
		t.Errorf("shrinking below minimum gave %dx%d", got.Width, got.Length)
	}
	if v.Seed() != 1 {
		t.Error("refused resize should not regenerate")
	}

	v.HandleEvent(key('+'))
	if got := v.Maze(); got.Width != config.MinDimension+1 || got.Length != config.MinDimension+1 {
		t.Errorf("growing gave %dx%d", got.Width, got.Length)
	}
	if v.Grid().Width() != config.MinDimension+1 {
		t.Errorf("grid width %d after +", v.Grid().Width())
	}
	if got := v.Maze().Difficulty; got != config.DifficultyCustom {
		t.Errorf("resized maze labelled %q, want custom", got)
	}
}

func TestQuitKeys(t *testing.T) {
	v, _ := newTestViewer(t, 80, 24, config.PresetFor(config.DifficultySpeedrun))

	for _, ev := range []*tcell.EventKey{key('q'), special(tcell.KeyEscape), special(tcell.KeyCtrlC)} {
		if !v.HandleEvent(ev) {
			t.Errorf("key %v should quit", ev.Name())
		}
	}
	if v.HandleEvent(key('x')) {
		t.Error("unbound key should not quit")
	}
}

func TestPanningIsClamped(t *testing.T) {
	// 40x40 maze draws as 161x81; the screen shows 20x9 of it.
	v, _ := newTestViewer(t, 20, 10, config.PresetFor(config.DifficultyHard))
	v.Regenerate()

	v.HandleEvent(special(tcell.KeyLeft))
	v.HandleEvent(key('k'))
	if x, y := v.Camera(); x != 0 || y != 0 {
		t.Errorf("camera moved past origin: %d,%d", x, y)
	}

	v.HandleEvent(special(tcell.KeyRight))
	v.HandleEvent(key('j'))
	if x, y := v.Camera(); x != 2 || y != 2 {
		t.Errorf("camera = %d,%d, want 2,2", x, y)
	}

	for i := 0; i < 200; i++ {
		v.HandleEvent(key('l'))
		v.HandleEvent(special(tcell.KeyDown))
	}
	if x, y := v.Camera(); x != 161-20 || y != 81-9 {
		t.Errorf("camera = %d,%d, want %d,%d", x, y, 161-20, 81-9)
	}

	v.HandleEvent(key('h'))
	v.HandleEvent(special(tcell.KeyUp))
	if x, y := v.Camera(); x != 161-22 || y != 81-11 {
		t.Errorf("camera = %d,%d after panning back", x, y)
	}
}

func TestDrawShowsMazeAndStatus(t *testing.T) {
	v, screen := newTestViewer(t, 60, 12, config.PresetFor(config.DifficultySpeedrun))
	v.Regenerate()
	v.Draw()

	if top := screenRow(screen, 0, 41); top != "+"+strings.Repeat("---+", 10) {
		t.Errorf("top row = %q", top)
	}
	if left, _, _, _ := screen.GetContent(0, 1); left != '|' {
		t.Errorf("left boundary = %q, want '|'", left)
	}

	status := screenRow(screen, 11, 60)
	if !strings.Contains(status, "10x10 speedrun seed=1") {
		t.Errorf("status line = %q", status)
	}
}

func TestToggleEndpoints(t *testing.T) {
	// Small enough to fit on screen entirely.
	m := config.PresetFor(config.DifficultySpeedrun)
	m.Width, m.Length = 3, 3
	v, screen := newTestViewer(t, 40, 10, m)
	v.Regenerate()

	countMarkers := func() int {
		v.Draw()
		n := 0
		for y := 0; y < 7; y++ {
			row := screenRow(screen, y, 13)
			n += strings.Count(row, "S") + strings.Count(row, "E")
		}
		return n
	}

	if n := countMarkers(); n != 2 {
		t.Errorf("expected start and exit markers, found %d", n)
	}
	v.HandleEvent(key('e'))
	if n := countMarkers(); n != 0 {
		t.Errorf("expected markers hidden, found %d", n)
	}
}

func TestOnGenerateHook(t *testing.T) {
	v, _ := newTestViewer(t, 80, 24, config.PresetFor(config.DifficultySpeedrun))

	var seeds []int64
	v.OnGenerate = func(m config.MazeConfig, seed int64) {
		if m.Width != 10 {
			t.Errorf("hook saw width %d", m.Width)
		}
		seeds = append(seeds, seed)
	}

	v.Regenerate()
	v.HandleEvent(key('r'))

	if len(seeds) != 2 || seeds[0] != 1 || seeds[1] != 2 {
		t.Errorf("hook seeds = %v, want [1 2]", seeds)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	v, screen := newTestViewer(t, 80, 24, config.PresetFor(config.DifficultySpeedrun))

	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := v.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if v.Seed() != 2 {
		t.Errorf("Seed = %d, want 2 (initial maze plus one regenerate)", v.Seed())
	}
}
