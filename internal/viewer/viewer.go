// Package viewer shows generated mazes in a terminal using tcell.
package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/maze"
	"github.com/lawnchairsociety/mazegen/internal/render"
)

var (
	wallStyle   = tcell.StyleDefault
	startStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	exitStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// GenerateFunc is called after every maze the viewer builds.
type GenerateFunc func(m config.MazeConfig, seed int64)

// Viewer draws one maze at a time and regenerates it on demand.
type Viewer struct {
	screen   tcell.Screen
	maze     config.MazeConfig
	opts     config.ViewerConfig
	seedFunc func() int64

	// OnGenerate, when set, sees every new maze.
	OnGenerate GenerateFunc

	grid  *maze.Grid
	ends  maze.Endpoints
	seed  int64
	lines [][]rune

	camX, camY int
	status     string
}

// New creates a viewer on an initialized screen. A nil seedFunc seeds from
// the clock.
func New(screen tcell.Screen, m config.MazeConfig, opts config.ViewerConfig, seedFunc func() int64) *Viewer {
	if seedFunc == nil {
		seedFunc = func() int64 { return time.Now().UnixNano() }
	}
	if opts.PanStep < 1 {
		opts.PanStep = 1
	}
	m.Clamp()
	return &Viewer{
		screen:   screen,
		maze:     m,
		opts:     opts,
		seedFunc: seedFunc,
	}
}

// Maze returns the current maze settings.
func (v *Viewer) Maze() config.MazeConfig {
	return v.maze
}

// Grid returns the maze on screen.
func (v *Viewer) Grid() *maze.Grid {
	return v.grid
}

// Seed returns the seed of the maze on screen.
func (v *Viewer) Seed() int64 {
	return v.seed
}

// Camera returns the top-left screen offset into the drawn maze.
func (v *Viewer) Camera() (x, y int) {
	return v.camX, v.camY
}

// Regenerate builds a new maze with the current settings and a fresh seed.
func (v *Viewer) Regenerate() error {
	seed := v.seedFunc()
	gen := maze.NewSeededGenerator(seed)

	g, err := gen.Generate(v.maze.Width, v.maze.Length)
	if err != nil {
		return err
	}
	if err := maze.Verify(g); err != nil {
		return err
	}

	v.grid = g
	v.ends = maze.PlaceEndpoints(g, gen.Random())
	v.seed = seed
	v.relayout()

	if v.OnGenerate != nil {
		v.OnGenerate(v.maze, seed)
	}
	return nil
}

func (v *Viewer) relayout() {
	var ends *maze.Endpoints
	if v.opts.ShowEndpoints {
		ends = &v.ends
	}
	text := strings.TrimSuffix(render.ASCII(v.grid, ends), "\n")

	rows := strings.Split(text, "\n")
	v.lines = make([][]rune, len(rows))
	for i, row := range rows {
		v.lines[i] = []rune(row)
	}
	v.pan(0, 0)
}

// HandleEvent applies one input event and reports whether the viewer
// should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.pan(0, 0)
	case *tcell.EventKey:
		return v.handleKey(ev)
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	step := v.opts.PanStep

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.pan(0, -step)
	case tcell.KeyDown:
		v.pan(0, step)
	case tcell.KeyLeft:
		v.pan(-step, 0)
	case tcell.KeyRight:
		v.pan(step, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'k':
			v.pan(0, -step)
		case 'j':
			v.pan(0, step)
		case 'h':
			v.pan(-step, 0)
		case 'l':
			v.pan(step, 0)
		case 'r':
			v.regenerate()
		case '1':
			v.maze.ApplyPreset(config.DifficultyEasy)
			v.regenerate()
		case '2':
			v.maze.ApplyPreset(config.DifficultyHard)
			v.regenerate()
		case '3':
			v.maze.ApplyPreset(config.DifficultySpeedrun)
			v.regenerate()
		case '+', '=':
			v.resize(1)
		case '-', '_':
			v.resize(-1)
		case 'e':
			v.opts.ShowEndpoints = !v.opts.ShowEndpoints
			if v.grid != nil {
				v.relayout()
			}
		}
	}
	return false
}

// resize grows or shrinks both dimensions. Out-of-range sizes are
// refused by the settings and leave the maze unchanged.
func (v *Viewer) resize(delta int) {
	w := v.maze.SetWidth(v.maze.Width + delta)
	l := v.maze.SetLength(v.maze.Length + delta)
	if !w && !l {
		v.status = fmt.Sprintf("size stays %dx%d", v.maze.Width, v.maze.Length)
		return
	}
	v.regenerate()
}

func (v *Viewer) regenerate() {
	if err := v.Regenerate(); err != nil {
		v.status = err.Error()
		return
	}
	v.status = ""
}

// viewport returns the screen area left for the maze above the status line.
func (v *Viewer) viewport() (w, h int) {
	w, h = v.screen.Size()
	h--
	if h < 0 {
		h = 0
	}
	return w, h
}

func (v *Viewer) pan(dx, dy int) {
	w, h := v.viewport()
	contentW, contentH := 0, len(v.lines)
	if contentH > 0 {
		contentW = len(v.lines[0])
	}

	v.camX = clamp(v.camX+dx, 0, max(0, contentW-w))
	v.camY = clamp(v.camY+dy, 0, max(0, contentH-h))
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Draw renders the visible part of the maze and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.viewport()

	for y := 0; y < h && v.camY+y < len(v.lines); y++ {
		row := v.lines[v.camY+y]
		for x := 0; x < w && v.camX+x < len(row); x++ {
			r := row[v.camX+x]
			style := wallStyle
			switch r {
			case 'S':
				style = startStyle
			case 'E':
				style = exitStyle
			}
			v.screen.SetContent(x, y, r, nil, style)
		}
	}

	v.drawStatus(w, h)
	v.screen.Show()
}

func (v *Viewer) drawStatus(w, y int) {
	line := fmt.Sprintf(" %dx%d %s seed=%d | arrows/hjkl pan  r new  1-3 preset  +/- size  e ends  q quit",
		v.maze.Width, v.maze.Length, v.maze.Difficulty, v.seed)
	if v.status != "" {
		line = " " + v.status
	}

	runes := []rune(line)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		v.screen.SetContent(x, y, r, nil, statusStyle)
	}
}

// Run shows a first maze and handles input until the user quits.
func (v *Viewer) Run() error {
	if err := v.Regenerate(); err != nil {
		return err
	}
	v.Draw()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return nil
		}
		if v.HandleEvent(ev) {
			return nil
		}
		v.Draw()
	}
}
