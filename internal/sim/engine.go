// Package sim advances a game.State through time: the monthly pipeline,
// the continuous tick engine and the driver that paces them.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"bizdom/internal/game"
)

var ErrGameOver = errors.New("game is over")

type Config struct {
	State      *game.State
	Rand       game.Rand
	Roller     *game.Roller
	Options    Options
	Logger     *slog.Logger
	Tracker    AchievementTracker
	Store      Store
	Dispatcher *Dispatcher
	Now        func() time.Time
}

// Engine owns the state. Every month, tick and player action holds mu for
// its whole duration, so no two steps interleave their mutations.
type Engine struct {
	mu         sync.Mutex
	state      *game.State
	rand       game.Rand
	roller     *game.Roller
	opts       Options
	log        *slog.Logger
	tracker    AchievementTracker
	store      Store
	dispatcher *Dispatcher
	now        func() time.Time

	outbox  []Notice
	pending []byte
}

func New(cfg Config) *Engine {
	if cfg.State == nil {
		cfg.State = game.NewState()
	}
	if cfg.Rand == nil {
		cfg.Rand = game.NewRand(0)
	}
	if cfg.Roller == nil {
		cfg.Roller = game.DefaultRoller()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = NewDispatcher(cfg.Logger)
	}
	if cfg.State.Market.LastActionTime == 0 {
		cfg.State.MarkAction(cfg.Now())
	}
	return &Engine{
		state:      cfg.State,
		rand:       cfg.Rand,
		roller:     cfg.Roller,
		opts:       cfg.Options.withDefaults(),
		log:        cfg.Logger,
		tracker:    cfg.Tracker,
		store:      cfg.Store,
		dispatcher: cfg.Dispatcher,
		now:        cfg.Now,
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// View runs fn against the live state under the engine lock. fn must not
// retain s.
func (e *Engine) View(fn func(s *game.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Summarize(e.state)
}

func (e *Engine) Snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Snapshot()
}

// Do applies a player action. A rejected action leaves the state as it was.
// Major actions reset the inactivity window that gates organic decline.
func (e *Engine) Do(ctx context.Context, major bool, fn func(s *game.State) error) error {
	e.mu.Lock()
	err := fn(e.state)
	if err == nil {
		if major {
			e.state.MarkAction(e.now())
		}
		e.state.RefreshDerived()
	}
	notices := e.drain()
	e.mu.Unlock()
	e.dispatcher.Dispatch(ctx, notices)
	return err
}

// Execute runs a named action from game.Execute under the engine lock.
func (e *Engine) Execute(ctx context.Context, action string, args game.Args) (any, error) {
	var result any
	err := e.Do(ctx, game.IsMajorAction(action), func(s *game.State) error {
		if s.Progress.GameOver {
			return ErrGameOver
		}
		var err error
		result, err = s.Execute(e.rand, action, args)
		return err
	})
	return result, err
}

// SimulateMonth runs the full monthly pipeline as a manual action.
func (e *Engine) SimulateMonth(ctx context.Context) (game.MonthlyReport, error) {
	e.mu.Lock()
	if e.state.Progress.GameOver {
		e.mu.Unlock()
		return game.MonthlyReport{}, ErrGameOver
	}
	report := e.simulateMonth(false)
	// A manual month also moves the day clock to the next month start.
	e.state.Progress.CurrentDay = math.Max(e.state.Progress.CurrentDay, float64((e.state.Progress.CurrentMonth-1)*game.DaysPerMonth))
	notices, snapshot := e.drain(), e.takePending()
	e.mu.Unlock()

	e.dispatcher.Dispatch(ctx, notices)
	e.persist(ctx, snapshot)
	return report, nil
}

// TickReport collects what a tick produced.
type TickReport struct {
	DayFraction float64              `json:"day_fraction"`
	Events      []game.Event         `json:"events"`
	Months      []game.MonthlyReport `json:"months"`
	GameOver    bool                 `json:"game_over"`
}

// Tick advances the clock by dayFraction of a month.
func (e *Engine) Tick(ctx context.Context, dayFraction float64) (TickReport, error) {
	e.mu.Lock()
	if e.state.Progress.GameOver {
		e.mu.Unlock()
		return TickReport{}, ErrGameOver
	}
	report := e.tick(dayFraction)
	notices, snapshot := e.drain(), e.takePending()
	e.mu.Unlock()

	e.dispatcher.Dispatch(ctx, notices)
	e.persist(ctx, snapshot)
	return report, nil
}

// maxStep keeps a single tick at or below one in-game day so month
// boundaries are never skipped over.
const maxStep = 1.0 / game.DaysPerMonth

// Advance converts elapsed game time into one or more ticks.
func (e *Engine) Advance(ctx context.Context, elapsed time.Duration) (TickReport, error) {
	remaining := e.opts.DayFraction(elapsed.Seconds())
	var total TickReport
	for remaining > 1e-12 {
		step := math.Min(remaining, maxStep)
		r, err := e.Tick(ctx, step)
		if err != nil {
			if errors.Is(err, ErrGameOver) && total.DayFraction > 0 {
				total.GameOver = true
				return total, nil
			}
			return total, err
		}
		total.DayFraction += r.DayFraction
		total.Events = append(total.Events, r.Events...)
		total.Months = append(total.Months, r.Months...)
		total.GameOver = r.GameOver
		remaining -= step
		if r.GameOver {
			break
		}
	}
	return total, nil
}

// Reset replaces the state with a fresh game.
func (e *Engine) Reset(ctx context.Context, s *game.State) {
	if s == nil {
		s = game.NewState()
	}
	e.mu.Lock()
	e.state = s
	e.state.MarkAction(e.now())
	e.outbox = nil
	if st, ok := e.tracker.(StatefulTracker); ok {
		st.Reset()
	}
	e.pending, _ = e.state.Snapshot()
	snapshot := e.takePending()
	e.mu.Unlock()
	e.persist(ctx, snapshot)
}

// Save writes the current state and tracker data to the store.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	e.mu.Lock()
	raw, err := e.state.Snapshot()
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := e.store.Save(ctx, SlotGame, raw); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return e.saveTracker(ctx)
}

func (e *Engine) saveTracker(ctx context.Context) error {
	st, ok := e.tracker.(StatefulTracker)
	if !ok {
		return nil
	}
	raw, err := st.ExportState()
	if err != nil {
		return fmt.Errorf("export quests: %w", err)
	}
	if err := e.store.Save(ctx, SlotQuests, raw); err != nil {
		return fmt.Errorf("save quests: %w", err)
	}
	return nil
}

// Load replaces the state with the stored snapshot. Any failure means "no
// save available" and leaves the current state untouched.
func (e *Engine) Load(ctx context.Context) bool {
	if e.store == nil {
		return false
	}
	raw, err := e.store.Load(ctx, SlotGame)
	if err != nil {
		e.log.Info("no save available", "err", err)
		return false
	}
	s, err := game.Restore(raw)
	if err != nil {
		e.log.Warn("discarding unreadable save", "err", err)
		return false
	}
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	if st, ok := e.tracker.(StatefulTracker); ok {
		if qraw, err := e.store.Load(ctx, SlotQuests); err == nil {
			if err := st.ImportState(qraw); err != nil {
				e.log.Warn("discarding unreadable quest data", "err", err)
			}
		}
	}
	return true
}

func (e *Engine) persist(ctx context.Context, snapshot []byte) {
	if snapshot == nil || e.store == nil {
		return
	}
	if err := e.store.Save(ctx, SlotGame, snapshot); err != nil {
		e.log.Warn("autosave failed", "err", err)
		return
	}
	if err := e.saveTracker(ctx); err != nil {
		e.log.Warn("autosave failed", "err", err)
	}
}

func (e *Engine) emit(kind NoticeKind, ev *game.Event, report *game.MonthlyReport) {
	e.outbox = append(e.outbox, Notice{
		Kind:   kind,
		Month:  e.state.Progress.CurrentMonth,
		Day:    e.state.Progress.CurrentDay,
		Event:  ev,
		Report: report,
	})
}

// publish shows ev as the current event and queues it for sinks.
func (e *Engine) publish(kind NoticeKind, ev game.Event) {
	e.state.PublishEvent(ev)
	cp := ev
	e.emit(kind, &cp, nil)
}

func (e *Engine) drain() []Notice {
	out := e.outbox
	e.outbox = nil
	return out
}

func (e *Engine) takePending() []byte {
	out := e.pending
	e.pending = nil
	return out
}

// observe hands a summary to the tracker and applies what it decides.
func (e *Engine) observe() {
	if e.tracker == nil {
		return
	}
	s := e.state
	for _, out := range e.tracker.Observe(Summarize(s)) {
		if out.AchievementID != "" && !s.UnlockAchievement(out.AchievementID) {
			continue
		}
		s.Company.Cash += out.CashDelta
		if out.MotivationDelta != 0 {
			for i := range s.Employees {
				s.Employees[i].Motivation = clampPct(s.Employees[i].Motivation + out.MotivationDelta)
			}
		}
		if out.MarkAction {
			s.MarkAction(e.now())
		}
		if out.Event != nil {
			kind := NoticeEvent
			if out.AchievementID != "" {
				kind = NoticeAchievement
			}
			e.publish(kind, *out.Event)
		}
	}
	s.RefreshDerived()
}
