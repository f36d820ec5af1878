package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"bizdom/internal/game"
	"bizdom/internal/quest"
	"bizdom/internal/sim"
	"bizdom/internal/syncq"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

var ErrDuplicateIdempotency = errors.New("duplicate idempotency key")

type Deps struct {
	Engine *sim.Engine
	Driver *sim.Driver
	Quests *quest.Tracker
	Hub    *Hub
	// NewGame builds the state used by /v1/reset.
	NewGame func() *game.State
}

type Server struct {
	log    *slog.Logger
	engine *sim.Engine
	driver *sim.Driver
	quests *quest.Tracker
	hub    *Hub
	fresh  func() *game.State
	seen   *keyCache
	mux    *chi.Mux
}

func New(logger *slog.Logger, deps Deps) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.NewGame == nil {
		deps.NewGame = game.NewState
	}
	s := &Server{
		log:    logger,
		engine: deps.Engine,
		driver: deps.Driver,
		quests: deps.Quests,
		hub:    deps.Hub,
		fresh:  deps.NewGame,
		seen:   newKeyCache(1024),
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		if s.hub != nil {
			r.Get("/events", s.hub.ServeWS)
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/state", s.handleState)
			r.Get("/summary", s.handleSummary)
			r.Get("/quests", s.handleQuests)
			r.Get("/control", s.handleControlStatus)

			r.Post("/actions/{action}", s.handleAction)
			r.Post("/month", s.handleMonth)
			r.Post("/advance", s.handleAdvance)
			r.Post("/reset", s.handleReset)
			r.Post("/save", s.handleSave)

			r.Post("/control/pause", s.handlePause)
			r.Post("/control/resume", s.handleResume)
			r.Post("/control/speed", s.handleSpeed)

			r.Post("/sync/replay", s.handleSyncReplay)
		})
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	raw, err := s.engine.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Summary())
}

func (s *Server) handleQuests(w http.ResponseWriter, _ *http.Request) {
	if s.quests == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": []quest.Quest{}, "completed": 0})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    s.quests.Active(),
		"completed": s.quests.CompletedCount(),
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	var args game.Args
	if err := decodeJSON(r, &args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	key := idempotencyKey(r)
	if s.seen.Has(key) {
		writeDomainError(w, ErrDuplicateIdempotency)
		return
	}
	result, err := s.engine.Execute(r.Context(), action, args)
	if err != nil {
		s.log.Info("action rejected", "action", action, "err", err)
		writeDomainError(w, err)
		return
	}
	s.seen.Add(key)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"action":          action,
		"result":          result,
		"idempotency_key": key,
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	key := idempotencyKey(r)
	if s.seen.Has(key) {
		writeDomainError(w, ErrDuplicateIdempotency)
		return
	}
	report, err := s.engine.SimulateMonth(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.seen.Add(key)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Seconds float64 `json:"seconds"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Seconds <= 0 {
		writeError(w, http.StatusBadRequest, "seconds must be > 0")
		return
	}
	report, err := s.engine.Advance(r.Context(), time.Duration(in.Seconds*float64(time.Second)))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.engine.Reset(r.Context(), s.fresh())
	if s.driver != nil {
		s.driver.Start(context.WithoutCancel(r.Context()))
	}
	writeJSON(w, http.StatusOK, s.engine.Summary())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Save(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleControlStatus(w http.ResponseWriter, _ *http.Request) {
	if s.driver == nil {
		writeError(w, http.StatusNotFound, "no clock driver")
		return
	}
	writeJSON(w, http.StatusOK, s.driver.Status())
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	if s.driver == nil {
		writeError(w, http.StatusNotFound, "no clock driver")
		return
	}
	s.driver.Pause()
	writeJSON(w, http.StatusOK, s.driver.Status())
}

func (s *Server) handleResume(w http.ResponseWriter, _ *http.Request) {
	if s.driver == nil {
		writeError(w, http.StatusNotFound, "no clock driver")
		return
	}
	s.driver.Resume()
	writeJSON(w, http.StatusOK, s.driver.Status())
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.driver == nil {
		writeError(w, http.StatusNotFound, "no clock driver")
		return
	}
	var in struct {
		Speed float64 `json:"speed"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Speed <= 0 {
		writeError(w, http.StatusBadRequest, "speed must be > 0")
		return
	}
	s.driver.SetSpeed(in.Speed)
	writeJSON(w, http.StatusOK, s.driver.Status())
}

type replayResult struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Status         int             `json:"status"`
	Body           json.RawMessage `json:"body,omitempty"`
}

// handleSyncReplay runs queued commands through the router in order. A
// command whose key was already applied comes back as 409 and is not
// applied twice.
func (s *Server) handleSyncReplay(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Commands []syncq.Command `json:"commands"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := make([]replayResult, 0, len(in.Commands))
	for _, cmd := range in.Commands {
		if !strings.HasPrefix(cmd.Path, "/v1/") || strings.HasPrefix(cmd.Path, "/v1/sync") {
			out = append(out, replayResult{IdempotencyKey: cmd.IdempotencyKey, Status: http.StatusBadRequest})
			continue
		}
		var body []byte
		if cmd.Body != nil {
			raw, err := json.Marshal(cmd.Body)
			if err != nil {
				out = append(out, replayResult{IdempotencyKey: cmd.IdempotencyKey, Status: http.StatusBadRequest})
				continue
			}
			body = raw
		}
		req, err := http.NewRequestWithContext(r.Context(), strings.ToUpper(cmd.Method), cmd.Path, bytes.NewReader(body))
		if err != nil {
			out = append(out, replayResult{IdempotencyKey: cmd.IdempotencyKey, Status: http.StatusBadRequest})
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		if cmd.IdempotencyKey != "" {
			req.Header.Set("Idempotency-Key", cmd.IdempotencyKey)
		}
		rec := &recorder{header: http.Header{}, status: http.StatusOK}
		s.mux.ServeHTTP(rec, req)
		out = append(out, replayResult{
			IdempotencyKey: cmd.IdempotencyKey,
			Status:         rec.status,
			Body:           json.RawMessage(bytes.TrimSpace(rec.body.Bytes())),
		})
	}
	s.log.Info("sync replay", "commands", len(in.Commands))
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicateIdempotency), errors.Is(err, sim.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrNotConfigured):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case game.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case game.IsRejection(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}

// keyCache remembers the most recent applied idempotency keys.
type keyCache struct {
	mu    sync.Mutex
	limit int
	keys  map[string]struct{}
	order []string
}

func newKeyCache(limit int) *keyCache {
	return &keyCache{limit: limit, keys: make(map[string]struct{}, limit)}
}

func (c *keyCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.keys[key]
	return ok
}

func (c *keyCache) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.keys[key]; ok {
		return
	}
	c.keys[key] = struct{}{}
	c.order = append(c.order, key)
	if len(c.order) > c.limit {
		delete(c.keys, c.order[0])
		c.order = c.order[1:]
	}
}

type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header         { return r.header }
func (r *recorder) Write(b []byte) (int, error) { return r.body.Write(b) }
func (r *recorder) WriteHeader(status int)      { r.status = status }
