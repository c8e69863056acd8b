package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ramonehamilton/MTG-Drawer/internal/config"
	"github.com/ramonehamilton/MTG-Drawer/internal/events"
	"github.com/ramonehamilton/MTG-Drawer/internal/gui"
	"github.com/ramonehamilton/MTG-Drawer/internal/metrics"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cardlookup"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
	"github.com/ramonehamilton/MTG-Drawer/internal/storage"
)

// errOffline is returned by the offline resolver so every card becomes a placeholder.
var errOffline = errors.New("offline mode")

// app holds the wired services and the cleanup hooks for main.
type app struct {
	services   *gui.Services
	facade     *gui.DrawFacade
	dispatcher *events.EventDispatcher
	scheduler  *storage.CleanupScheduler
	closers    []func() error
	logger     *slog.Logger
}

// Close delivers pending events, stops background work and closes the database.
func (a *app) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.scheduler != nil && a.scheduler.IsRunning() {
		if err := a.scheduler.Stop(); err != nil {
			a.logger.Warn("failed to stop cleanup scheduler", "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close error", "error", err)
		}
	}
}

// newApp wires the resolver chain, storage, metrics, events and the draw facade.
func newApp(ctx context.Context, cfg *config.Config, offline bool, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	lookupMetrics := metrics.NewLookupMetrics()
	drawMetrics := metrics.NewDrawMetrics()

	dispatcher := events.NewEventDispatcher(logger)
	dispatcher.Register(events.NewLoggingObserver(logger, cfg.App.DebugMode))
	a.dispatcher = dispatcher

	var (
		resolver cardlookup.Resolver
		store    *storage.Service
	)

	if offline {
		resolver = cardlookup.ResolverFunc(func(context.Context, string, string) (*cards.Resolution, error) {
			return nil, errOffline
		})
	} else {
		rateLimit, err := cfg.GetRateLimit()
		if err != nil {
			return nil, err
		}
		timeout, err := cfg.GetResolverTimeout()
		if err != nil {
			return nil, err
		}

		resolver = scryfall.NewClientWithOptions(scryfall.ClientOptions{
			BaseURL:   cfg.Resolver.BaseURL,
			UserAgent: cfg.Resolver.UserAgent,
			RateLimit: rateLimit,
			Timeout:   timeout,
		})

		if cfg.Cache.Enabled {
			store, err = a.openStore(cfg, logger)
			if err != nil {
				a.Close()
				return nil, err
			}

			ttl, err := cfg.GetCacheTTL()
			if err != nil {
				a.Close()
				return nil, err
			}
			resolver = cardlookup.NewStoreResolver(resolver, store, cardlookup.StoreResolverOptions{
				TTL:    ttl,
				Logger: logger,
				OnHit:  lookupMetrics.RecordStoreHit,
			})
		}
	}

	lookup := cardlookup.NewService(resolver, cardlookup.NewCache(), cardlookup.ServiceOptions{
		MaxConcurrency: cfg.Resolver.MaxConcurrency,
		Logger:         logger,
		Metrics:        lookupMetrics,
		// Failures are reported from lookup workers, which must not wait on
		// slow observers such as websocket clients.
		OnFailure: func(key cards.Key, err error) {
			if errors.Is(err, errOffline) {
				return
			}
			dispatcher.DispatchAsync(events.NewTypedEvent(ctx, events.TypeLookupFailed, events.LookupFailedEvent{
				Name:    key.Name,
				SetCode: key.SetCode,
				Error:   err.Error(),
			}))
		},
	})

	a.services = &gui.Services{
		Context:       ctx,
		Lookup:        lookup,
		Storage:       store,
		Dispatcher:    dispatcher,
		LookupMetrics: lookupMetrics,
		DrawMetrics:   drawMetrics,
		Logger:        logger,
	}

	mode, err := drawer.ParseDrawMode(cfg.Draw.DrawMode)
	if err != nil {
		a.Close()
		return nil, err
	}
	scope, err := stats.ParseScope(cfg.Draw.StatsScope)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.facade = gui.NewDrawFacade(a.services, gui.DrawOptions{
		HandSize:     cfg.Draw.HandSize,
		MaxDrawCount: cfg.Draw.MaxDrawCount,
		Mode:         mode,
		Scope:        scope,
		Seed:         cfg.Draw.Seed,
	})

	if store != nil {
		if err := a.startCleanup(cfg, store, logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) openStore(cfg *config.Config, logger *slog.Logger) (*storage.Service, error) {
	dbPath, err := cfg.GetDBPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbConfig := storage.DefaultConfig(dbPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open card cache: %w", err)
	}

	store := storage.NewService(db)
	a.closers = append(a.closers, store.Close)
	logger.Debug("opened card cache", "path", dbPath)
	return store, nil
}

func (a *app) startCleanup(cfg *config.Config, store *storage.Service, logger *slog.Logger) error {
	interval, err := cfg.GetCleanupInterval()
	if err != nil {
		return err
	}
	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		return err
	}

	a.scheduler = storage.NewCleanupScheduler(store, &storage.SchedulerConfig{
		Interval:         interval,
		TTL:              ttl,
		StartImmediately: true,
		Logger:           logger,
	})
	return a.scheduler.Start()
}
