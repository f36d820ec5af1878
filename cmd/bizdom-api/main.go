package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizdom/internal/api"
	"bizdom/internal/app"
	"bizdom/internal/config"
	"bizdom/internal/notify"
	"bizdom/internal/sim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	hub := api.NewHub(logger)
	go hub.Run(ctx)
	sinks := []sim.Sink{hub}

	if cfg.DiscordToken != "" {
		discord, err := notify.NewDiscord(cfg.DiscordToken, cfg.DiscordChannel, logger)
		if err != nil {
			logger.Error("discord init failed", "err", err)
			os.Exit(1)
		}
		go discord.Run(ctx)
		sinks = append(sinks, discord)
	}

	a, err := app.Build(ctx, cfg, logger, sinks...)
	if err != nil {
		logger.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Close(closeCtx)
	}()
	a.Driver.Start(ctx)

	server := api.New(logger, api.Deps{
		Engine:  a.Engine,
		Driver:  a.Driver,
		Quests:  a.Quests,
		Hub:     hub,
		NewGame: a.Balance.NewState,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("bizdom api listening", "addr", cfg.Addr, "store", cfg.StoreKind, "restored", a.Restored)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
