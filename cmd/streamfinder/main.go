package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvdveen/streamfinder/internal/api"
	"github.com/mvdveen/streamfinder/internal/config"
	"github.com/mvdveen/streamfinder/internal/log"
	"github.com/mvdveen/streamfinder/internal/prefs"
	"github.com/mvdveen/streamfinder/internal/store"
	"github.com/mvdveen/streamfinder/internal/tracker"
	"github.com/mvdveen/streamfinder/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("streamfinder %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting streamfinder", "version", Version)

	snapshot, err := store.NewSnapshotStore(cfg.Cache.Dir)
	if err != nil {
		logger.Error("snapshot store unavailable, continuing without", "error", err)
		snapshot, _ = store.NewSnapshotStore("")
	}
	defer snapshot.Close()

	client := api.NewClient(cfg.Server.URL, cfg.Server.UserID, logger)

	trackerSvc := tracker.NewService(client, snapshot, logger)
	prefsSvc := prefs.NewService(client, snapshot, logger)

	model := tui.NewModel(trackerSvc, prefsSvc, client, client, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
