package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/database"
	"github.com/lawnchairsociety/mazegen/internal/maze"
	"github.com/lawnchairsociety/mazegen/internal/render"
)

// ErrHistoryDisabled is returned for a replay when no history store is set.
var ErrHistoryDisabled = errors.New("generation history is disabled")

// History is the subset of the generation store the service uses.
type History interface {
	RecordGeneration(rec *database.GenerationRecord) error
	GetGeneration(runID string) (*database.GenerationRecord, error)
}

// Request asks for one maze. Zero fields fall back to the configured
// defaults; Replay regenerates a recorded run and ignores the rest.
type Request struct {
	Width      int    `json:"width,omitempty"`
	Length     int    `json:"length,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Replay     string `json:"replay,omitempty"`
}

// CellJSON is one cell of a response; true means the wall stands.
type CellJSON struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Up    bool `json:"up"`
	Right bool `json:"right"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
}

// CoordJSON is a cell position.
type CoordJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Response carries a generated maze, or only Error when the request failed.
type Response struct {
	RunID      string     `json:"run_id,omitempty"`
	Width      int        `json:"width,omitempty"`
	Length     int        `json:"length,omitempty"`
	Seed       int64      `json:"seed,omitempty"`
	Difficulty string     `json:"difficulty,omitempty"`
	Start      *CoordJSON `json:"start,omitempty"`
	Exit       *CoordJSON `json:"exit,omitempty"`
	Cells      []CellJSON `json:"cells,omitempty"`
	ASCII      string     `json:"ascii,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// resolved is a request after presets, clamping and seeding.
type resolved struct {
	width, length int
	seed          int64
	difficulty    string
	runID         string
	replay        bool
}

// resolve turns a request into concrete settings. A difficulty selects a
// preset, explicit dimensions override it and are clamped into range; the
// result is labelled custom when it no longer matches the preset.
func resolve(req Request, defaults config.MazeConfig, history History, now func() time.Time) (resolved, error) {
	if req.Replay != "" {
		if history == nil {
			return resolved{}, ErrHistoryDisabled
		}
		rec, err := history.GetGeneration(req.Replay)
		if err != nil {
			return resolved{}, err
		}
		return resolved{
			width:      rec.Width,
			length:     rec.Length,
			seed:       rec.Seed,
			difficulty: rec.Difficulty,
			runID:      rec.RunID,
			replay:     true,
		}, nil
	}

	m := defaults
	if req.Difficulty != "" {
		d, err := config.ParseDifficulty(req.Difficulty)
		if err != nil {
			return resolved{}, err
		}
		m.ApplyPreset(d)
	}
	m.Resize(req.Width, req.Length)

	seed := req.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}

	return resolved{
		width:      m.Width,
		length:     m.Length,
		seed:       seed,
		difficulty: string(m.Difficulty),
	}, nil
}

// build generates, verifies and describes one maze. Each call owns its
// own random source, so concurrent sessions never share state.
func build(r resolved) (*Response, error) {
	gen := maze.NewSeededGenerator(r.seed)

	g, err := gen.Generate(r.width, r.length)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if err := maze.Verify(g); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	ends := maze.PlaceEndpoints(g, gen.Random())

	resp := &Response{
		RunID:      r.runID,
		Width:      g.Width(),
		Length:     g.Length(),
		Seed:       r.seed,
		Difficulty: r.difficulty,
		Start:      &CoordJSON{X: ends.Start.X, Y: ends.Start.Y},
		Exit:       &CoordJSON{X: ends.Exit.X, Y: ends.Exit.Y},
		Cells:      make([]CellJSON, 0, g.Width()*g.Length()),
		ASCII:      render.ASCII(g, &ends),
	}
	g.Each(func(c maze.Coord, cell maze.Cell) {
		resp.Cells = append(resp.Cells, CellJSON{
			X: c.X, Y: c.Y,
			Up: cell.Up, Right: cell.Right, Down: cell.Down, Left: cell.Left,
		})
	})
	return resp, nil
}

// generate answers one request. New runs are recorded in the history
// only after the maze built and verified.
func (s *Server) generate(req Request, source string) (*Response, error) {
	r, err := resolve(req, s.cfg.Maze, s.history, s.now)
	if err != nil {
		return nil, err
	}

	resp, err := build(r)
	if err != nil {
		return nil, err
	}
	if r.replay {
		return resp, nil
	}

	if s.history == nil {
		resp.RunID = uuid.NewString()
		return resp, nil
	}

	rec := &database.GenerationRecord{
		Width:      resp.Width,
		Length:     resp.Length,
		Seed:       resp.Seed,
		Difficulty: resp.Difficulty,
		Source:     source,
	}
	if err := s.history.RecordGeneration(rec); err != nil {
		return nil, fmt.Errorf("record generation: %w", err)
	}
	resp.RunID = rec.RunID
	return resp, nil
}
