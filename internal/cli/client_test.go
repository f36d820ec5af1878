package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdom/internal/api"
	"bizdom/internal/game"
	"bizdom/internal/sim"
	"bizdom/internal/syncq"
)

func newAPI(t *testing.T) (*httptest.Server, *sim.Engine) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := sim.New(sim.Config{Rand: game.NewRand(1), Roller: game.NewRoller(nil), Logger: logger})
	srv := httptest.NewServer(api.New(logger, api.Deps{Engine: engine}).Handler())
	t.Cleanup(srv.Close)
	return srv, engine
}

func TestClientAgainstServer(t *testing.T) {
	srv, engine := newAPI(t)
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	_, err := c.Action(ctx, game.ActionTakeLoan, game.Args{Amount: 1_000, Months: 2})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusPreconditionFailed, se.Status)
	assert.Equal(t, game.ErrNotConfigured.Error(), se.Message)
	assert.False(t, IsNetworkError(err))

	_, err = c.Action(ctx, game.ActionConfigure, game.Args{CompanyName: "Acme", CEOName: "Ada"})
	require.NoError(t, err)

	out, err := c.Action(ctx, game.ActionTakeLoan, game.Args{Amount: 12_000, Months: 12})
	require.NoError(t, err)
	assert.Equal(t, true, out["ok"])

	sum, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.Summary().Cash, sum.Cash)

	st, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", st.Company.Name)
	assert.Len(t, st.Loans, 1)

	report, err := c.Month(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Month)

	tick, err := c.Advance(ctx, 10)
	require.NoError(t, err)
	assert.InDelta(t, 10.0/300, tick.DayFraction, 1e-9)

	_, err = c.Control(ctx, "", 0)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	_, err = c.Control(ctx, "rewind", 0)
	assert.Error(t, err)

	require.NoError(t, c.Save(ctx))

	reset, err := c.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reset.Month)
}

func TestNetworkErrorQueuesAndFlushReplays(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	q := syncq.New(filepath.Join(t.TempDir(), "queue.json"))
	offline := NewClient(deadURL)
	offline.Queue = q
	ctx := context.Background()

	_, err := offline.Action(ctx, game.ActionTakeLoan, game.Args{Amount: 5_000, Months: 5})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	_, err = offline.Month(ctx)
	assert.True(t, IsNetworkError(err))

	queued, err := q.Load()
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Equal(t, "/v1/actions/take_loan", queued[0].Path)
	assert.Equal(t, "/v1/month", queued[1].Path)
	assert.NotEmpty(t, queued[0].IdempotencyKey)

	srv, engine := newAPI(t)
	online := NewClient(srv.URL)
	online.Queue = q
	_, err = online.Action(ctx, game.ActionConfigure, game.Args{CompanyName: "Acme", CEOName: "Ada"})
	require.NoError(t, err)
	before := engine.Summary().Cash

	results, err := online.Flush(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, http.StatusOK, results[0].Status)
	assert.Equal(t, http.StatusOK, results[1].Status)
	assert.Equal(t, 2, engine.Summary().Month)
	assert.NotEqual(t, before, engine.Summary().Cash)

	left, err := q.Load()
	require.NoError(t, err)
	assert.Empty(t, left)

	results, err = online.Flush(ctx)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestNetworkErrorReportsUnwritableQueue(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	ctx := context.Background()

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	offline := NewClient(deadURL)
	offline.Queue = syncq.New(filepath.Join(blocker, "queue.json"))

	_, err := offline.Action(ctx, game.ActionTakeLoan, game.Args{Amount: 5_000, Months: 5})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.ErrorIs(t, err, ErrNotQueued)

	_, err = offline.Month(ctx)
	assert.ErrorIs(t, err, ErrNotQueued)

	offline.Queue = nil
	_, err = offline.Action(ctx, game.ActionTakeLoan, game.Args{Amount: 5_000, Months: 5})
	assert.ErrorIs(t, err, ErrNotQueued)

	offline.Queue = syncq.New(filepath.Join(t.TempDir(), "queue.json"))
	_, err = offline.Action(ctx, game.ActionTakeLoan, game.Args{Amount: 5_000, Months: 5})
	assert.True(t, IsNetworkError(err))
	assert.NotErrorIs(t, err, ErrNotQueued)
}

func TestIsNetworkError(t *testing.T) {
	assert.False(t, IsNetworkError(nil))
	assert.False(t, IsNetworkError(&StatusError{Status: 500}))
	assert.False(t, IsNetworkError(context.Canceled))
	assert.True(t, IsNetworkError(errors.New("dial tcp: connection refused")))
}

func TestProfileRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadProfile()
	require.ErrorIs(t, err, ErrNoProfile)

	require.NoError(t, SaveProfile(Profile{APIBaseURL: " http://bizdom.local:8080/ ", Remote: true}))
	p, err := LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "http://bizdom.local:8080", p.APIBaseURL)
	assert.True(t, p.Remote)

	require.NoError(t, ClearProfile())
	_, err = LoadProfile()
	require.ErrorIs(t, err, ErrNoProfile)
	require.NoError(t, ClearProfile())
}
