package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"vscroll/internal/config"
	"vscroll/internal/domain"
	"vscroll/internal/eventbus"
	"vscroll/internal/loader"
	"vscroll/internal/logic"
	"vscroll/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath, dir string
	var rows int
	flag.StringVar(&configPath, "config", "", "Path to a config file (default: user config dir)")
	flag.StringVar(&dir, "dir", "", "Browse the files under this directory instead of synthetic rows")
	flag.StringVar(&dir, "d", "", "Browse the files under this directory (shorthand)")
	flag.IntVar(&rows, "rows", -1, "Synthetic rows available in each direction")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("vscroll.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	cfg := loadConfig(config.NewConfigServiceWithBus(bus), configPath)
	if dir != "" {
		cfg.Source.Kind = config.SourceDir
		cfg.Source.Dir = dir
	}
	if rows >= 0 {
		cfg.Source.Rows = rows
	}
	cfg.Validate()

	source, err := newSource(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if closer, ok := source.(interface{ Close() }); ok {
		defer closer.Close()
	}

	store := logic.NewMemoryRowStore()
	uiModel := ui.NewModel(bus, cfg, store)
	defer uiModel.Close()

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Pages are handed to the UI goroutine, which owns the store
	loaderSvc := loader.NewLoaderService(ctx, bus, source, func(d domain.Direction, rows []domain.Row) {
		p.Send(ui.PageLoadedMsg{Direction: d, Rows: rows})
	}, cfg.Source.PageSize)
	defer loaderSvc.Stop()

	// Forward the events the UI shows
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventActiveElementChanged,
		eventbus.EventSourceExhausted,
		eventbus.EventError,
	} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}
	bus.Subscribe(eventbus.EventRangeChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.RangeChangedEvent); ok {
			log.Printf("VirtualScroll: range %s -> %s", event.Prev, event.Range)
		}
	})

	// Run the UI
	log.Printf("Starting UI with %s source...", cfg.Source.Kind)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadConfig loads the config from path, or from the default location when
// path is empty. Failures fall back to the defaults.
func loadConfig(configSvc config.ConfigService, path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = configSvc.LoadFromPath(path)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newSource creates the row source selected by the config
func newSource(cfg *config.Config) (loader.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceDir:
		absDir, err := filepath.Abs(cfg.Source.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}
		info, err := os.Stat(absDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", absDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", absDir)
		}
		return loader.NewDirSource(absDir), nil
	default:
		return loader.NewSyntheticSource(cfg.Source.Rows, cfg.Source.MaxRowHeight, cfg.Source.Seed), nil
	}
}
