// Package app wires config, storage, the engine and its collaborators.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bizdom/internal/config"
	"bizdom/internal/game"
	"bizdom/internal/quest"
	"bizdom/internal/sim"
	"bizdom/internal/store"
)

type App struct {
	Engine  *sim.Engine
	Driver  *sim.Driver
	Quests  *quest.Tracker
	Store   store.Backend
	Balance config.Balance
	Log     *slog.Logger
	// Restored is true when the engine resumed a saved game.
	Restored bool
}

func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Build opens the store, restores the last save when there is one and
// returns a stopped driver.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, sinks ...sim.Sink) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	balance, err := config.LoadBalance(cfg.BalanceFile)
	if err != nil {
		return nil, err
	}
	opts := balance.Engine
	if opts.SecondsPerMonth == sim.DefaultOptions().SecondsPerMonth {
		opts.SecondsPerMonth = cfg.SecondsPerMonth
	}
	opts.Autosave = cfg.Autosave

	backend, err := store.Open(ctx, store.Options{
		Kind:        store.Kind(cfg.StoreKind),
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		FilePath:    cfg.SaveFile,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	seed := cfg.Seed
	tracker := quest.NewTracker(game.NewRand(seed))
	engine := sim.New(sim.Config{
		State:      balance.NewState(),
		Rand:       game.NewRand(seed),
		Options:    opts,
		Logger:     logger,
		Tracker:    tracker,
		Store:      backend,
		Dispatcher: sim.NewDispatcher(logger, sinks...),
	})
	restored := engine.Load(ctx)
	if restored {
		logger.Info("save restored", "month", engine.Summary().Month)
	}
	return &App{
		Engine:   engine,
		Driver:   sim.NewDriver(engine, cfg.TickEvery, cfg.Speed),
		Quests:   tracker,
		Store:    backend,
		Balance:  balance,
		Log:      logger,
		Restored: restored,
	}, nil
}

// Close stops the clock, writes a final save and releases the store.
func (a *App) Close(ctx context.Context) error {
	a.Driver.Stop()
	if err := a.Engine.Save(ctx); err != nil {
		a.Log.Warn("final save failed", "err", err)
	}
	return a.Store.Close()
}
