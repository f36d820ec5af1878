package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdom/internal/config"
	"bizdom/internal/game"
)

func testConfig(t *testing.T, kind string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		StoreKind:       kind,
		SQLitePath:      filepath.Join(dir, "bizdom.sqlite"),
		SaveFile:        filepath.Join(dir, "save.json"),
		TickEvery:       time.Second,
		Speed:           1,
		SecondsPerMonth: 300,
		Seed:            7,
	}
}

func TestBuildRestoresPreviousSave(t *testing.T) {
	for _, kind := range []string{"file", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, kind)
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

			a, err := Build(ctx, cfg, logger)
			require.NoError(t, err)
			assert.False(t, a.Restored)
			assert.Equal(t, 300.0, a.Engine.Options().SecondsPerMonth)

			_, err = a.Engine.Execute(ctx, game.ActionConfigure, game.Args{CompanyName: "Acme", CEOName: "Ada"})
			require.NoError(t, err)
			_, err = a.Engine.SimulateMonth(ctx)
			require.NoError(t, err)
			require.NoError(t, a.Close(ctx))

			b, err := Build(ctx, cfg, logger)
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close(ctx) })
			assert.True(t, b.Restored)
			assert.Equal(t, 2, b.Engine.Summary().Month)
			assert.Equal(t, a.Engine.Summary().Cash, b.Engine.Summary().Cash)
		})
	}
}

func TestBuildSecondsPerMonthFromEnvConfig(t *testing.T) {
	cfg := testConfig(t, "file")
	cfg.SecondsPerMonth = 60

	a, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	assert.Equal(t, 60.0, a.Engine.Options().SecondsPerMonth)
	assert.False(t, a.Driver.Status().Running)
}

func TestBuildRejectsBadStore(t *testing.T) {
	cfg := testConfig(t, "redis")
	_, err := Build(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "open store")
}
