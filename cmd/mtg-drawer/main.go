// Command mtg-drawer draws sample opening hands from a decklist and reports
// the color and card type distribution of the drawn cards. It runs once from
// the command line or serves the HTTP API with live websocket updates.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ramonehamilton/MTG-Drawer/internal/api"
	"github.com/ramonehamilton/MTG-Drawer/internal/charts"
	"github.com/ramonehamilton/MTG-Drawer/internal/config"
	"github.com/ramonehamilton/MTG-Drawer/internal/gui"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/deckimport"
	"github.com/ramonehamilton/MTG-Drawer/internal/storage"
	"github.com/ramonehamilton/MTG-Drawer/internal/version"
)

var (
	configPath  = flag.String("config", "", "Config file (default: ~/.mtg-drawer/config.toml)")
	deckPath    = flag.String("deck", "", "Decklist file; \"-\" reads stdin")
	draws       = flag.Int("draws", 1, "Number of hands to draw")
	serve       = flag.Bool("serve", false, "Run the HTTP API server")
	port        = flag.Int("port", 0, "API server port (overrides config)")
	watch       = flag.Bool("watch", false, "Re-submit the decklist file whenever it changes")
	chartPath   = flag.String("chart", "", "Write the stats chart page to this HTML file")
	openChart   = flag.Bool("open", false, "Open the chart page in a browser (with -serve, the live chart)")
	dbPath      = flag.String("db-path", "", "Card cache database path (overrides config)")
	clearCache  = flag.Bool("clear-cache", false, "Empty the card cache database before starting")
	offline     = flag.Bool("offline", false, "Skip card lookups; every card is a colorless placeholder")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *clearCache {
		if err := clearCardCache(cfg, logger); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, *offline, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	chartConfig := charts.DefaultChartConfig()
	chartConfig.Width = cfg.Charts.Width
	chartConfig.Height = cfg.Charts.Height

	if *serve {
		return runServer(ctx, cfg, a, chartConfig, logger)
	}
	return runOnce(ctx, cfg, a, chartConfig, logger)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Cache.DBPath = *dbPath
	}
	if *debug {
		cfg.App.DebugMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// clearCardCache recreates the card cache schema, dropping every stored card.
func clearCardCache(cfg *config.Config, logger *slog.Logger) error {
	path, err := cfg.GetDBPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := storage.ResetDatabase(path); err != nil {
		return fmt.Errorf("failed to clear card cache: %w", err)
	}
	logger.Info("card cache cleared", "path", path)
	return nil
}

func readDecklist(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read decklist: %w", err)
	}
	return string(data), nil
}

// runOnce submits the decklist, prints the result and optionally writes the
// chart page. With -watch it repeats on every change until interrupted.
func runOnce(ctx context.Context, cfg *config.Config, a *app, chartConfig charts.ChartConfig, logger *slog.Logger) error {
	if *deckPath == "" {
		*deckPath = "-"
	}

	submit := func(text string) error {
		result, err := a.facade.Submit(ctx, text, *draws)
		if err != nil {
			return err
		}
		displaySubmission(os.Stdout, result)
		return writeChart(cfg, result, chartConfig)
	}

	if !*watch || *deckPath == "-" {
		text, err := readDecklist(*deckPath)
		if err != nil {
			return err
		}
		return submit(text)
	}

	watcher := deckimport.NewWatcher(*deckPath, func(text string) {
		if err := submit(text); err != nil && !errors.Is(err, gui.ErrSuperseded) {
			logger.Error("failed to draw from decklist", "error", err)
		}
	}, deckimport.WatcherOptions{Logger: logger})

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func writeChart(cfg *config.Config, result *gui.SubmitResult, chartConfig charts.ChartConfig) error {
	if *chartPath == "" {
		return nil
	}

	path := *chartPath
	if !filepath.IsAbs(path) && cfg.Charts.OutputDir != "" {
		path = filepath.Join(cfg.Charts.OutputDir, path)
	}
	if err := charts.WriteStatsPage(result.Stats, chartConfig, path); err != nil {
		return err
	}
	fmt.Printf("Chart written to %s\n", path)

	if *openChart {
		return charts.OpenInBrowser(path)
	}
	return nil
}

// runServer serves the HTTP API until interrupted, optionally pre-loading
// and watching the decklist file.
func runServer(ctx context.Context, cfg *config.Config, a *app, chartConfig charts.ChartConfig, logger *slog.Logger) error {
	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenBrowser:    *openChart,
		FrontendURL:    api.ChartURL(cfg.Server.Port),
		Chart:          chartConfig,
		Logger:         logger,
	}, a.services, &api.Facades{Draw: a.facade})

	a.services.Dispatcher.Register(server.NewWebSocketObserver())

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	fmt.Printf("API server running at http://localhost:%d\n", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	if *deckPath != "" && *deckPath != "-" {
		if *watch {
			watcher := deckimport.NewWatcher(*deckPath, func(text string) {
				if _, err := a.facade.Submit(ctx, text, *draws); err != nil && !errors.Is(err, gui.ErrSuperseded) {
					logger.Error("failed to draw from decklist", "error", err)
				}
			}, deckimport.WatcherOptions{Logger: logger})

			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("decklist watcher stopped", "error", err)
				}
			}()
		} else {
			text, err := readDecklist(*deckPath)
			if err != nil {
				return err
			}
			if _, err := a.facade.Submit(ctx, text, *draws); err != nil {
				return err
			}
		}
	}

	<-ctx.Done()
	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}

	fmt.Println("API server stopped.")
	return nil
}
