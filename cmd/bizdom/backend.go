package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bizdom/internal/app"
	cl "bizdom/internal/cli"
	"bizdom/internal/config"
	"bizdom/internal/game"
	"bizdom/internal/sim"
	"bizdom/internal/syncq"
)

// backend is either the local save or a running bizdom-api server.
type backend interface {
	Summary(ctx context.Context) (sim.Summary, error)
	State(ctx context.Context) (*game.State, error)
	Action(ctx context.Context, action string, args game.Args) (any, error)
	Month(ctx context.Context) (game.MonthlyReport, error)
	Advance(ctx context.Context, seconds float64) (sim.TickReport, error)
	Reset(ctx context.Context) error
	Close(ctx context.Context) error
}

type options struct {
	remote  bool
	apiBase string
	verbose bool
}

func openBackend(ctx context.Context, o *options) (backend, error) {
	if o.remote {
		client := cl.NewClient(o.apiBase)
		q, err := syncq.Default()
		if err != nil {
			return nil, fmt.Errorf("open sync queue: %w", err)
		}
		client.Queue = q
		return &remoteBackend{client: client}, nil
	}
	a, err := openLocal(ctx, o)
	if err != nil {
		return nil, err
	}
	return &localBackend{app: a}, nil
}

func openLocal(ctx context.Context, o *options, sinks ...sim.Sink) (*app.App, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return app.Build(ctx, cfg, app.NewLogger(level), sinks...)
}

type localBackend struct {
	app *app.App
}

func (b *localBackend) Summary(context.Context) (sim.Summary, error) {
	return b.app.Engine.Summary(), nil
}

func (b *localBackend) State(context.Context) (*game.State, error) {
	raw, err := b.app.Engine.Snapshot()
	if err != nil {
		return nil, err
	}
	return game.Restore(raw)
}

func (b *localBackend) Action(ctx context.Context, action string, args game.Args) (any, error) {
	return b.app.Engine.Execute(ctx, action, args)
}

func (b *localBackend) Month(ctx context.Context) (game.MonthlyReport, error) {
	return b.app.Engine.SimulateMonth(ctx)
}

func (b *localBackend) Advance(ctx context.Context, seconds float64) (sim.TickReport, error) {
	return b.app.Engine.Advance(ctx, secondsToDuration(seconds))
}

func (b *localBackend) Reset(ctx context.Context) error {
	b.app.Engine.Reset(ctx, b.app.Balance.NewState())
	return nil
}

func (b *localBackend) Close(ctx context.Context) error {
	return b.app.Close(ctx)
}

type remoteBackend struct {
	client *cl.Client
}

func (b *remoteBackend) Summary(ctx context.Context) (sim.Summary, error) {
	return b.client.Summary(ctx)
}

func (b *remoteBackend) State(ctx context.Context) (*game.State, error) {
	return b.client.State(ctx)
}

func (b *remoteBackend) Action(ctx context.Context, action string, args game.Args) (any, error) {
	out, err := b.client.Action(ctx, action, args)
	if err != nil {
		return nil, queuedError(err)
	}
	return out["result"], nil
}

func (b *remoteBackend) Month(ctx context.Context) (game.MonthlyReport, error) {
	r, err := b.client.Month(ctx)
	return r, queuedError(err)
}

func (b *remoteBackend) Advance(ctx context.Context, seconds float64) (sim.TickReport, error) {
	return b.client.Advance(ctx, seconds)
}

func (b *remoteBackend) Reset(ctx context.Context) error {
	_, err := b.client.Reset(ctx)
	return err
}

func (b *remoteBackend) Close(context.Context) error { return nil }

// queuedError tells the player that an unreachable server did not lose
// the command.
func queuedError(err error) error {
	if err == nil || !cl.IsNetworkError(err) {
		return err
	}
	if errors.Is(err, cl.ErrNotQueued) {
		return fmt.Errorf("server unreachable, command lost: %w", err)
	}
	return fmt.Errorf("server unreachable, command queued for `bizdom sync`: %w", err)
}
