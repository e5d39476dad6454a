// mazegen prints a perfect maze as ASCII art or JSON.
//
// Usage:
//
//	go run ./cmd/mazegen -difficulty hard -seed 42
//	go run ./cmd/mazegen -width 12 -length 8 -format json -output maze.json
//	go run ./cmd/mazegen -record
//	go run ./cmd/mazegen -replay <run-id>
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/database"
	"github.com/lawnchairsociety/mazegen/internal/logger"
	"github.com/lawnchairsociety/mazegen/internal/maze"
	"github.com/lawnchairsociety/mazegen/internal/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// document is the -format json output.
type document struct {
	RunID      string           `json:"run_id,omitempty"`
	Width      int              `json:"width"`
	Length     int              `json:"length"`
	Seed       int64            `json:"seed"`
	Difficulty string           `json:"difficulty"`
	CellSize   float64          `json:"cell_size"`
	Start      maze.Coord       `json:"start"`
	Exit       maze.Coord       `json:"exit"`
	StartAt    render.Point     `json:"start_at"`
	ExitAt     render.Point     `json:"exit_at"`
	Cells      []cellDoc        `json:"cells"`
	Floor      render.FloorRect `json:"floor"`
	Walls      []render.Segment `json:"walls"`
}

type cellDoc struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Up    bool `json:"up"`
	Right bool `json:"right"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mazegen", flag.ContinueOnError)
	configFile := fs.String("config", "data/mazegen.yaml", "Path to config YAML file")
	loggingConfig := fs.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	envFile := fs.String("env", ".env", "Path to .env file")
	difficulty := fs.String("difficulty", "", "Preset: easy, hard or speedrun")
	width := fs.Int("width", 0, "Maze width in cells (3-100, overrides the preset)")
	length := fs.Int("length", 0, "Maze length in cells (3-100, overrides the preset)")
	cellSize := fs.Float64("cellsize", 0, "Cell size for json wall layout (1-4)")
	seed := fs.Int64("seed", 0, "Generation seed (default: random based on current time)")
	format := fs.String("format", "ascii", "Output format: ascii or json")
	outputFile := fs.String("output", "", "Output file (empty for stdout)")
	showEnds := fs.Bool("ends", true, "Mark start and exit cells")
	record := fs.Bool("record", false, "Record the run in the generation history")
	replay := fs.String("replay", "", "Regenerate a recorded run by ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *format != "ascii" && *format != "json" {
		return fmt.Errorf("unknown format %q", *format)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		return err
	}

	// Stdout carries the maze; logs go to stderr.
	logConfig, logErr := logger.LoadConfig(*loggingConfig)
	logConfig.ConsoleStream = "stderr"
	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if logErr != nil {
		logger.Warning("Failed to load logging config, using defaults", "error", logErr)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	if *difficulty != "" {
		d, err := config.ParseDifficulty(*difficulty)
		if err != nil {
			return err
		}
		cfg.Maze.ApplyPreset(d)
	}
	if *width != 0 && !cfg.Maze.SetWidth(*width) {
		logger.Warning("Width out of range, keeping preset", "requested", *width, "width", cfg.Maze.Width)
	}
	if *length != 0 && !cfg.Maze.SetLength(*length) {
		logger.Warning("Length out of range, keeping preset", "requested", *length, "length", cfg.Maze.Length)
	}
	if *cellSize != 0 && !cfg.Maze.SetCellSize(*cellSize) {
		logger.Warning("Cell size out of range, keeping preset", "requested", *cellSize, "cell_size", cfg.Maze.CellSize)
	}

	var history *database.Database
	if *record || *replay != "" {
		if cfg.Database.Driver == "" {
			return errors.New("generation history is disabled (database.driver is empty)")
		}
		history, err = database.OpenFromSettings(cfg.Database)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer history.Close()
	}

	runSeed := *seed
	runID := ""
	if *replay != "" {
		rec, err := history.GetGeneration(*replay)
		if err != nil {
			return fmt.Errorf("replay %s: %w", *replay, err)
		}
		cfg.Maze.Width, cfg.Maze.Length = rec.Width, rec.Length
		cfg.Maze.Difficulty = config.Difficulty(rec.Difficulty)
		runSeed = rec.Seed
		runID = rec.RunID
	}
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	gen := maze.NewSeededGenerator(runSeed)
	g, err := gen.Generate(cfg.Maze.Width, cfg.Maze.Length)
	if err != nil {
		return err
	}
	if err := maze.Verify(g); err != nil {
		return err
	}
	ends := maze.PlaceEndpoints(g, gen.Random())

	if *record && *replay == "" {
		rec := &database.GenerationRecord{
			Width:      g.Width(),
			Length:     g.Length(),
			Seed:       runSeed,
			Difficulty: string(cfg.Maze.Difficulty),
			Source:     "cli",
		}
		if err := history.RecordGeneration(rec); err != nil {
			return err
		}
		runID = rec.RunID
	}

	logger.Always("Maze generated",
		"run_id", runID,
		"width", g.Width(),
		"length", g.Length(),
		"seed", runSeed,
		"difficulty", cfg.Maze.Difficulty)

	var out []byte
	switch *format {
	case "json":
		out, err = json.MarshalIndent(newDocument(g, ends, runID, runSeed, cfg.Maze), "", "  ")
		if err != nil {
			return err
		}
		out = append(out, '\n')
	default:
		var marks *maze.Endpoints
		if *showEnds {
			marks = &ends
		}
		out = []byte(render.ASCII(g, marks))
		if runID != "" {
			out = append(out, fmt.Sprintf("run %s seed %d\n", runID, runSeed)...)
		}
	}

	if *outputFile == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(*outputFile, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("Maze written", "path", *outputFile)
	return nil
}

func newDocument(g *maze.Grid, ends maze.Endpoints, runID string, seed int64, m config.MazeConfig) document {
	doc := document{
		RunID:      runID,
		Width:      g.Width(),
		Length:     g.Length(),
		Seed:       seed,
		Difficulty: string(m.Difficulty),
		CellSize:   m.CellSize,
		Start:      ends.Start,
		Exit:       ends.Exit,
		StartAt:    render.CellCenter(ends.Start, m.CellSize),
		ExitAt:     render.CellCenter(ends.Exit, m.CellSize),
		Cells:      make([]cellDoc, 0, g.Width()*g.Length()),
		Floor:      render.Floor(g.Width(), g.Length(), m.CellSize),
		Walls:      render.Layout(g, m.CellSize),
	}
	g.Each(func(c maze.Coord, cell maze.Cell) {
		doc.Cells = append(doc.Cells, cellDoc{
			X: c.X, Y: c.Y,
			Up: cell.Up, Right: cell.Right, Down: cell.Down, Left: cell.Left,
		})
	})
	return doc
}
