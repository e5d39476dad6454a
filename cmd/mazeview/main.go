package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/database"
	"github.com/lawnchairsociety/mazegen/internal/logger"
	"github.com/lawnchairsociety/mazegen/internal/viewer"
)

func main() {
	configFile := flag.String("config", "data/mazegen.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	envFile := flag.String("env", ".env", "Path to .env file")
	difficulty := flag.String("difficulty", "", "Starting preset: easy, hard or speedrun")
	record := flag.Bool("record", false, "Record every maze in the generation history")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fatal("Failed to load %s: %v", *envFile, err)
	}

	// The screen owns the terminal; only file logging is allowed.
	logConfig, logErr := logger.LoadConfig(*loggingConfig)
	logConfig.ConsoleEnabled = false
	if err := logger.Initialize(logConfig); err != nil {
		fatal("Failed to initialize logger: %v", err)
	}
	if logErr != nil {
		// Printed before the screen takes over the terminal.
		fmt.Fprintf(os.Stderr, "Warning: logging config: %v (using defaults)\n", logErr)
		logger.Warning("Failed to load logging config, using defaults", "error", logErr)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
	}
	cfg.ApplyEnv()
	if *difficulty != "" {
		d, err := config.ParseDifficulty(*difficulty)
		if err != nil {
			fatal("%v", err)
		}
		cfg.Maze.ApplyPreset(d)
	}

	var db *database.Database
	if *record {
		db, err = database.OpenFromSettings(cfg.Database)
		if err != nil {
			fatal("Failed to open generation history: %v", err)
		}
		if db == nil {
			fatal("generation history is disabled (database.driver is empty)")
		}
		defer db.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		fatal("Failed to initialize screen: %v", err)
	}

	v := viewer.New(screen, cfg.Maze, cfg.Viewer, nil)
	if db != nil {
		v.OnGenerate = func(m config.MazeConfig, seed int64) {
			rec := &database.GenerationRecord{
				Width:      m.Width,
				Length:     m.Length,
				Seed:       seed,
				Difficulty: string(m.Difficulty),
				Source:     "viewer",
			}
			if err := db.RecordGeneration(rec); err != nil {
				logger.Error("Failed to record generation", "error", err)
				return
			}
			logger.Always("Maze generated", "run_id", rec.RunID, "width", m.Width, "length", m.Length, "seed", seed)
		}
	}

	runErr := v.Run()
	screen.Fini()
	if runErr != nil {
		fatal("Viewer error: %v", runErr)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
