package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bizdom/internal/app"
	"bizdom/internal/config"
	"bizdom/internal/notify"
	"bizdom/internal/sim"
)

// bizdom-worker advances a saved game without serving HTTP. With
// BIZDOM_WORKER_RUN_ONCE=true it closes a single month and exits, which
// suits cron.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var sinks []sim.Sink
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

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("BIZDOM_WORKER_RUN_ONCE")), "true")
	if runOnce {
		report, err := a.Engine.SimulateMonth(ctx)
		if err != nil {
			logger.Error("month failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed", "month", report.Month, "cash", report.CashAfter)
		return
	}

	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.TickEvery.String(), "seconds_per_month", a.Engine.Options().SecondsPerMonth)
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			report, err := a.Engine.Advance(ctx, cfg.TickEvery)
			if errors.Is(err, sim.ErrGameOver) || report.GameOver {
				logger.Info("worker stopped: game over")
				return
			}
			if err != nil {
				logger.Error("tick failed", "err", err)
				continue
			}
			for _, m := range report.Months {
				logger.Info("month closed", "month", m.Month, "cash", m.CashAfter)
			}
		}
	}
}
