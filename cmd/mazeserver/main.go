package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/mazegen/internal/config"
	"github.com/lawnchairsociety/mazegen/internal/database"
	"github.com/lawnchairsociety/mazegen/internal/logger"
	"github.com/lawnchairsociety/mazegen/internal/server"
)

func main() {
	// Parse command-line flags
	serverConfigFile := flag.String("config", "data/mazegen.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	envFile := flag.String("env", ".env", "Path to .env file")
	listen := flag.String("listen", "", "Listen address (overrides websocket.listen_address)")
	showHistory := flag.Int("history", 0, "Print the N most recent generations and exit")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	// Initialize logger first (before any logging)
	logConfig, logErr := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if logErr != nil {
		logger.Warning("Failed to load logging config, using defaults", "error", logErr)
	}

	cfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
	}
	cfg.ApplyEnv()
	if *listen != "" {
		cfg.WebSocket.ListenAddress = *listen
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.OpenFromSettings(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open generation history: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	// Handle --history flag (prints recent runs and exits)
	if *showHistory > 0 {
		if db == nil {
			fmt.Fprintln(os.Stderr, "Error: generation history is disabled")
			os.Exit(1)
		}
		printHistory(db, *showHistory)
		return
	}

	logger.Info("Starting maze service",
		"difficulty", cfg.Maze.Difficulty,
		"width", cfg.Maze.Width,
		"length", cfg.Maze.Length,
		"history", cfg.Database.Driver)

	srv := server.NewServer(cfg)
	if db != nil {
		srv.SetHistory(db)
		if count, err := db.CountGenerations(); err == nil {
			logger.Info("Generation history opened", "driver", db.Dialect().DriverName(), "recorded", count)
		}
	} else {
		logger.Info("Generation history disabled, replays unavailable")
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped", "uptime", srv.GetUptime().Round(time.Second))
}

// printHistory lists recent runs, newest first.
func printHistory(db *database.Database, limit int) {
	recs, err := db.RecentGenerations(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	total, err := db.CountGenerations()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d of %d recorded generations\n", len(recs), total)
	for _, rec := range recs {
		fmt.Printf("%s  %s  %3dx%-3d  seed=%-20d %-8s %s\n",
			rec.CreatedAt.Format(time.RFC3339),
			rec.RunID,
			rec.Width, rec.Length,
			rec.Seed,
			rec.Difficulty,
			rec.Source)
	}
}
