// Package cli talks to a running bizdom-api server.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bizdom/internal/game"
	"bizdom/internal/sim"
	"bizdom/internal/syncq"

	"github.com/google/uuid"
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// ErrNotQueued marks a failed mutation that could not be saved for replay.
var ErrNotQueued = errors.New("command not queued")

// IsNetworkError reports whether err happened before any HTTP answer.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	return !errors.As(err, &se) && !errors.Is(err, context.Canceled)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Queue receives mutating commands that fail with a network error.
	Queue *syncq.Queue
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Summary(ctx context.Context) (sim.Summary, error) {
	var out sim.Summary
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/summary", nil, &out, "")
	return out, err
}

func (c *Client) State(ctx context.Context) (*game.State, error) {
	var raw json.RawMessage
	if err := c.jsonRequest(ctx, http.MethodGet, "/v1/state", nil, &raw, ""); err != nil {
		return nil, err
	}
	return game.Restore(raw)
}

func (c *Client) Quests(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/quests", nil, &out, "")
	return out, err
}

// Action runs a named player action. A network failure queues the command
// for a later sync and returns the original error.
func (c *Client) Action(ctx context.Context, action string, args game.Args) (map[string]any, error) {
	body, err := toMap(args)
	if err != nil {
		return nil, err
	}
	return c.mutate(ctx, "/v1/actions/"+url.PathEscape(action), body)
}

func (c *Client) Month(ctx context.Context) (game.MonthlyReport, error) {
	var out game.MonthlyReport
	idem := uuid.NewString()
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/month", nil, &out, idem)
	if IsNetworkError(err) {
		err = errors.Join(err, c.enqueue(http.MethodPost, "/v1/month", nil, idem))
	}
	return out, err
}

func (c *Client) Advance(ctx context.Context, seconds float64) (sim.TickReport, error) {
	var out sim.TickReport
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/advance", map[string]any{"seconds": seconds}, &out, "")
	return out, err
}

func (c *Client) Reset(ctx context.Context) (sim.Summary, error) {
	var out sim.Summary
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/reset", nil, &out, "")
	return out, err
}

func (c *Client) Save(ctx context.Context) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/save", nil, nil, "")
}

// Control pauses, resumes or re-speeds the server clock. op is one of
// "pause", "resume", "speed" or "" for status.
func (c *Client) Control(ctx context.Context, op string, speed float64) (sim.DriverStatus, error) {
	var out sim.DriverStatus
	switch op {
	case "":
		err := c.jsonRequest(ctx, http.MethodGet, "/v1/control", nil, &out, "")
		return out, err
	case "speed":
		err := c.jsonRequest(ctx, http.MethodPost, "/v1/control/speed", map[string]any{"speed": speed}, &out, "")
		return out, err
	case "pause", "resume":
		err := c.jsonRequest(ctx, http.MethodPost, "/v1/control/"+op, nil, &out, "")
		return out, err
	default:
		return out, fmt.Errorf("unknown control %q", op)
	}
}

type ReplayResult struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Status         int             `json:"status"`
	Body           json.RawMessage `json:"body,omitempty"`
}

func (c *Client) SyncReplay(ctx context.Context, commands []syncq.Command) ([]ReplayResult, error) {
	var out struct {
		Results []ReplayResult `json:"results"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sync/replay", map[string]any{
		"commands": commands,
	}, &out, "")
	return out.Results, err
}

// Flush replays the local queue and drops every command the server
// answered, accepted or not. Commands are kept only when the replay call
// itself fails.
func (c *Client) Flush(ctx context.Context) ([]ReplayResult, error) {
	if c.Queue == nil {
		return nil, nil
	}
	commands, err := c.Queue.Load()
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	if len(commands) == 0 {
		return nil, nil
	}
	results, err := c.SyncReplay(ctx, commands)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(results))
	for _, r := range results {
		keys = append(keys, r.IdempotencyKey)
	}
	if err := c.Queue.Drop(keys...); err != nil {
		return results, fmt.Errorf("drop replayed commands: %w", err)
	}
	return results, nil
}

func (c *Client) Do(ctx context.Context, method, path string, body map[string]any, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, method, path, body, &out, idem)
	return out, err
}

func (c *Client) mutate(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	idem := uuid.NewString()
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, path, body, &out, idem)
	if IsNetworkError(err) {
		err = errors.Join(err, c.enqueue(http.MethodPost, path, body, idem))
	}
	return out, err
}

func (c *Client) enqueue(method, path string, body map[string]any, idem string) error {
	if c.Queue == nil {
		return ErrNotQueued
	}
	if err := c.Queue.Push(syncq.Command{Method: method, Path: path, Body: body, IdempotencyKey: idem}); err != nil {
		return fmt.Errorf("%w: %w", ErrNotQueued, err)
	}
	return nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
