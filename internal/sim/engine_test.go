package sim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"bizdom/internal/game"
)

// constRand returns the same roll forever.
type constRand struct{ v float64 }

func (r constRand) Float64() float64 { return r.v }
func (r constRand) Intn(int) int     { return 0 }

type memStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func newMemStore() *memStore { return &memStore{slots: map[string][]byte{}} }

func (m *memStore) Save(_ context.Context, slot string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), payload...)
	return nil
}

func (m *memStore) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.slots[slot]
	if !ok {
		return nil, errors.New("no such slot")
	}
	return raw, nil
}

type noticeLog struct {
	mu    sync.Mutex
	kinds []NoticeKind
}

func (l *noticeLog) Deliver(_ context.Context, n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kinds = append(l.kinds, n.Kind)
}

func (l *noticeLog) has(kind NoticeKind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range l.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// emptyCompany has no staff, no board, no customers and no marketing, so a
// month costs exactly fixed costs plus rent.
func emptyCompany(t *testing.T) *game.State {
	t.Helper()
	s := game.NewState()
	if err := s.Configure("Empty Co", "Ada", ""); err != nil {
		t.Fatalf("configure: %v", err)
	}
	s.Employees = nil
	s.Board = nil
	s.Market.CustomerBase = 0
	for i := range s.MarketingChannels {
		s.MarketingChannels[i].Budget = 0
	}
	s.RefreshDerived()
	return s
}

const emptyMonthExpenses = 4_000 + 2_500

func newTestEngine(s *game.State, r game.Rand, opts Options, sinks ...Sink) *Engine {
	logger := quietLogger()
	return New(Config{
		State:      s,
		Rand:       r,
		Roller:     game.NewRoller(nil),
		Options:    opts,
		Logger:     logger,
		Dispatcher: NewDispatcher(logger, sinks...),
	})
}

func TestSimulateMonthEmptyCompany(t *testing.T) {
	s := emptyCompany(t)
	e := newTestEngine(s, game.NewRand(1), Options{})

	report, err := e.SimulateMonth(context.Background())
	if err != nil {
		t.Fatalf("simulate month: %v", err)
	}
	if report.Month != 1 || report.Settled {
		t.Fatalf("unexpected report header %+v", report)
	}
	if report.TotalExpenses != emptyMonthExpenses || report.Revenue != 0 || report.Taxes != 0 {
		t.Fatalf("expenses=%d revenue=%d taxes=%d", report.TotalExpenses, report.Revenue, report.Taxes)
	}
	if report.CashAfter != 80_000-emptyMonthExpenses {
		t.Fatalf("cash after got=%d want=%d", report.CashAfter, 80_000-emptyMonthExpenses)
	}

	e.View(func(s *game.State) {
		if s.Progress.CurrentMonth != 2 {
			t.Fatalf("month counter got=%d want=2", s.Progress.CurrentMonth)
		}
		if s.Progress.CurrentDay != game.DaysPerMonth {
			t.Fatalf("manual month should move the clock to day %d, got %.2f", game.DaysPerMonth, s.Progress.CurrentDay)
		}
		if len(s.Progress.Reports) != 1 {
			t.Fatalf("expected one report, got %d", len(s.Progress.Reports))
		}
	})
}

func TestTicksMatchManualMonth(t *testing.T) {
	e := newTestEngine(emptyCompany(t), game.NewRand(2), Options{SecondsPerMonth: 300})

	report, err := e.Advance(context.Background(), 300*time.Second)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(report.Months) != 1 {
		t.Fatalf("expected one month boundary, got %d", len(report.Months))
	}
	closed := report.Months[0]
	if !closed.Settled {
		t.Fatalf("month reached by ticks must be settled")
	}
	if closed.NetProfit != -emptyMonthExpenses {
		t.Fatalf("settled net profit got=%d want=%d", closed.NetProfit, -emptyMonthExpenses)
	}

	sum := e.Summary()
	if math.Abs(sum.Cash-(80_000-emptyMonthExpenses)) > 1e-6 {
		t.Fatalf("cash after ticks got=%.6f want=%d", sum.Cash, 80_000-emptyMonthExpenses)
	}
	if sum.Month != 2 {
		t.Fatalf("month got=%d want=2", sum.Month)
	}
}

// staffedCompany carries every recurring cost line. Marketing reach is zero
// so no customers arrive and the month has no revenue.
func staffedCompany(t *testing.T) *game.State {
	t.Helper()
	s := emptyCompany(t)
	s.Employees = []game.Employee{
		{ID: 1, Name: "Ana Ruiz", Specialty: game.SpecialtyTech, SkillLevel: 2, Salary: 3_000, Motivation: 60, Opinions: []string{}},
		{ID: 2, Name: "Lee Park", Specialty: game.SpecialtySales, SkillLevel: 3, Salary: 4_200, Motivation: 60, Opinions: []string{}},
	}
	s.Company.VariableCostPerEmployee = 250
	s.Company.ActivePerks = []string{"gym"}
	s.Company.OwnedInfrastructure = []string{"network", "cloud"}
	s.MarketingChannels[0].Budget = 1_500
	s.MarketingChannels[0].Efficiency = 0
	s.RefreshDerived()
	return s
}

func TestTicksMatchMonthlyLedger(t *testing.T) {
	e := newTestEngine(staffedCompany(t), constRand{v: 0.99}, Options{SecondsPerMonth: 300})
	ctx := context.Background()

	if _, err := e.Advance(ctx, 150*time.Second); err != nil {
		t.Fatalf("advance to mid-month: %v", err)
	}
	cashBefore := e.Summary().Cash
	if _, err := e.Execute(ctx, game.ActionTakeLoan, game.Args{Amount: 120_000, Months: 12}); err != nil {
		t.Fatalf("take loan: %v", err)
	}
	report, err := e.Advance(ctx, 150*time.Second)
	if err != nil {
		t.Fatalf("advance to month end: %v", err)
	}
	if len(report.Months) != 1 || !report.Months[0].Settled {
		t.Fatalf("expected one settled month, got %+v", report.Months)
	}
	closed := report.Months[0]

	installment := game.LoanMonthlyPayment(120_000, game.LoanMonthlyRate, 12)
	var want Ledger
	e.View(func(s *game.State) {
		want = CloseBooks(s, 0, installment, 1)
	})
	if want.Salaries == 0 || want.Variable == 0 || want.Perks == 0 || want.Marketing == 0 || want.Infrastructure == 0 {
		t.Fatalf("every cost line should be non-zero: %+v", want)
	}
	if closed.Revenue != 0 {
		t.Fatalf("no customers should mean no revenue, got %d", closed.Revenue)
	}
	if closed.TotalExpenses != game.Round(want.Expenses) {
		t.Fatalf("report expenses got=%d want=%d", closed.TotalExpenses, game.Round(want.Expenses))
	}
	if closed.LoanPayments != game.Round(installment) {
		t.Fatalf("report loans got=%d want=%.0f", closed.LoanPayments, installment)
	}

	// Ticks charged the first half at the pre-loan cost base, the second
	// half plus the loan true-up afterwards.
	wantCash := 80_000 + 120_000 - want.Expenses
	if got := e.Summary().Cash; math.Abs(got-wantCash) > 1e-6 {
		t.Fatalf("cash after ticks got=%.6f want=%.6f (mid-month %.2f)", got, wantCash, cashBefore)
	}
}

func TestLoanTakenLateInMonthCostsScheduledInstallments(t *testing.T) {
	run := func(withLoan bool) (float64, int) {
		s := emptyCompany(t)
		s.Company.Cash = 500_000
		e := newTestEngine(s, constRand{v: 0.5}, Options{SecondsPerMonth: 300})
		ctx := context.Background()
		if _, err := e.Advance(ctx, 290*time.Second); err != nil {
			t.Fatalf("advance to day 29: %v", err)
		}
		if withLoan {
			if _, err := e.Execute(ctx, game.ActionTakeLoan, game.Args{Amount: 120_000, Months: 12}); err != nil {
				t.Fatalf("take loan: %v", err)
			}
		}
		report, err := e.Advance(ctx, 13*300*time.Second)
		if err != nil {
			t.Fatalf("advance 13 months: %v", err)
		}
		if len(report.Months) != 13 {
			t.Fatalf("expected 13 month closes, got %d", len(report.Months))
		}
		var loans int
		e.View(func(s *game.State) { loans = len(s.Loans) })
		return e.Summary().Cash, loans
	}

	base, _ := run(false)
	withLoan, open := run(true)
	if open != 0 {
		t.Fatalf("loan should be repaid after 12 closes, %d still open", open)
	}
	// 120 000 borrowed, 12 × 13 600 paid back.
	if delta := withLoan - base; math.Abs(delta-(-43_200)) > 1 {
		t.Fatalf("loan cost got=%.2f want=-43200", delta)
	}
}

func TestAdvanceSplitsIntoDailySteps(t *testing.T) {
	e := newTestEngine(emptyCompany(t), game.NewRand(3), Options{SecondsPerMonth: 300})

	report, err := e.Advance(context.Background(), 25*time.Second)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if math.Abs(report.DayFraction-25.0/300) > 1e-12 {
		t.Fatalf("day fraction got=%.6f want=%.6f", report.DayFraction, 25.0/300)
	}
	sum := e.Summary()
	if math.Abs(sum.Day-2.5) > 1e-9 {
		t.Fatalf("day got=%.6f want=2.5", sum.Day)
	}

	if r, err := e.Advance(context.Background(), 0); err != nil || r.DayFraction != 0 {
		t.Fatalf("zero advance got=%+v err=%v", r, err)
	}
}

func TestStrikeAndResignation(t *testing.T) {
	s := emptyCompany(t)
	s.Employees = []game.Employee{{
		ID: 7, Name: "Sam Hale", Specialty: game.SpecialtyTech,
		SkillLevel: 2, Salary: 3_000, Motivation: 60, Fatigue: 95, Opinions: []string{},
	}}
	log := &noticeLog{}
	e := newTestEngine(s, constRand{v: 0}, Options{SecondsPerMonth: 300, StrikeResignSeconds: 125}, log)
	ctx := context.Background()
	step := 1.0 / 30

	if _, err := e.Tick(ctx, step); err != nil {
		t.Fatalf("tick: %v", err)
	}
	e.View(func(s *game.State) {
		if !s.Employees[0].IsOnStrike {
			t.Fatalf("expected the exhausted employee to strike")
		}
	})
	if !log.has(NoticeStrike) {
		t.Fatalf("strike notice not dispatched")
	}

	for i := 0; i < 12; i++ {
		if _, err := e.Tick(ctx, step); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if got := e.Summary().EmployeeCount; got != 1 {
		t.Fatalf("employee resigned too early, headcount %d", got)
	}

	if _, err := e.Tick(ctx, step); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := e.Summary().EmployeeCount; got != 0 {
		t.Fatalf("expected resignation, headcount %d", got)
	}
	if !log.has(NoticeResignation) {
		t.Fatalf("resignation notice not dispatched")
	}
}

func TestResolveStrikeThroughEngine(t *testing.T) {
	s := emptyCompany(t)
	s.Employees = []game.Employee{{ID: 7, Name: "Sam Hale", SkillLevel: 2, Salary: 4_000, Motivation: 50, Fatigue: 90, IsOnStrike: true, Opinions: []string{}}}
	e := newTestEngine(s, constRand{v: 0.5}, Options{})

	if _, err := e.Execute(context.Background(), game.ActionResolveStrike, game.Args{EmployeeID: 7}); err != nil {
		t.Fatalf("resolve strike: %v", err)
	}
	e.View(func(s *game.State) {
		emp := s.Employees[0]
		if emp.IsOnStrike || emp.Motivation != 70 || emp.Fatigue != 60 {
			t.Fatalf("unexpected employee after resolution %+v", emp)
		}
		if s.Company.Cash != 80_000-2_000 {
			t.Fatalf("cash got=%.0f want=78000", s.Company.Cash)
		}
	})
}

func TestValuesStayClamped(t *testing.T) {
	s := game.NewState()
	if err := s.Configure("Clamp Co", "Ada", ""); err != nil {
		t.Fatalf("configure: %v", err)
	}
	e := New(Config{State: s, Rand: game.NewRand(42), Options: Options{SecondsPerMonth: 60}, Logger: quietLogger()})

	if _, err := e.Advance(context.Background(), 180*time.Second); err != nil && !errors.Is(err, ErrGameOver) {
		t.Fatalf("advance: %v", err)
	}
	e.View(func(s *game.State) {
		for _, emp := range s.Employees {
			if emp.Motivation < 0 || emp.Motivation > 100 || emp.Fatigue < 0 || emp.Fatigue > 100 {
				t.Fatalf("employee out of range %+v", emp)
			}
			if emp.SkillLevel < 1 || emp.SkillLevel > game.MaxSkill {
				t.Fatalf("skill out of range %+v", emp)
			}
		}
		for _, m := range s.Board {
			if m.Satisfaction < 0 || m.Satisfaction > 100 {
				t.Fatalf("board satisfaction out of range %+v", m)
			}
		}
		if s.Market.CustomerBase < 0 {
			t.Fatalf("negative customer base %d", s.Market.CustomerBase)
		}
		var share float64
		for _, c := range s.Competitors {
			share += c.MarketShare
		}
		if share > competitorShareTotal+1e-9 {
			t.Fatalf("competitor share %.2f above %.0f", share, competitorShareTotal)
		}
	})
}

func TestGameOverStopsTheEngine(t *testing.T) {
	s := emptyCompany(t)
	s.Company.Cash = 100
	log := &noticeLog{}
	e := newTestEngine(s, game.NewRand(4), Options{}, log)
	ctx := context.Background()

	if _, err := e.SimulateMonth(ctx); err != nil {
		t.Fatalf("simulate month: %v", err)
	}
	if !e.Summary().GameOver {
		t.Fatalf("expected game over after negative cash")
	}
	if !log.has(NoticeMonthClosed) || !log.has(NoticeGameOver) {
		t.Fatalf("expected month_closed and game_over notices, got %v", log.kinds)
	}
	if _, err := e.SimulateMonth(ctx); !errors.Is(err, ErrGameOver) {
		t.Fatalf("month after game over: %v", err)
	}
	if _, err := e.Tick(ctx, 0.1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("tick after game over: %v", err)
	}
	if _, err := e.Execute(ctx, game.ActionTakeLoan, game.Args{Amount: 1_000, Months: 2}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("action after game over: %v", err)
	}

	e.Reset(ctx, nil)
	if e.Summary().GameOver {
		t.Fatalf("reset should start a fresh game")
	}
}

func TestExecuteMarksMajorActions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	e := New(Config{Rand: game.NewRand(5), Logger: quietLogger(), Now: func() time.Time { return clock }})
	ctx := context.Background()

	clock = now.Add(time.Minute)
	if _, err := e.Execute(ctx, game.ActionConfigure, game.Args{CompanyName: "Acme", CEOName: "Ada"}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	var last int64
	e.View(func(s *game.State) { last = s.Market.LastActionTime })
	if last != now.UnixMilli() {
		t.Fatalf("configure is minor and must not reset the inactivity window")
	}

	clock = now.Add(2 * time.Minute)
	out, err := e.Execute(ctx, game.ActionTakeLoan, game.Args{Amount: 10_000, Months: 5})
	if err != nil {
		t.Fatalf("take loan: %v", err)
	}
	if _, ok := out.(game.Loan); !ok {
		t.Fatalf("expected a loan result, got %T", out)
	}
	e.View(func(s *game.State) { last = s.Market.LastActionTime })
	if last != clock.UnixMilli() {
		t.Fatalf("major action must reset the inactivity window")
	}

	clock = now.Add(3 * time.Minute)
	if _, err := e.Execute(ctx, game.ActionRepayLoan, game.Args{LoanID: 99}); !errors.Is(err, game.ErrLoanNotFound) {
		t.Fatalf("expected loan not found, got %v", err)
	}
	e.View(func(s *game.State) { last = s.Market.LastActionTime })
	if last == clock.UnixMilli() {
		t.Fatalf("a rejected action must not count as activity")
	}
}

type onceTracker struct {
	exported []byte
	resets   int
}

func (t *onceTracker) Observe(sum Summary) []Outcome {
	return []Outcome{{
		AchievementID: "first-report",
		CashDelta:     1_000,
		Event:         &game.Event{Name: "First Report", Type: game.EventSuccess},
	}}
}

func (t *onceTracker) ExportState() ([]byte, error) { return []byte(`{"ok":true}`), nil }
func (t *onceTracker) ImportState(raw []byte) error { t.exported = raw; return nil }
func (t *onceTracker) Reset()                       { t.resets++ }

func TestTrackerOutcomesApplyOnce(t *testing.T) {
	log := &noticeLog{}
	tracker := &onceTracker{}
	logger := quietLogger()
	e := New(Config{
		State:      emptyCompany(t),
		Rand:       game.NewRand(6),
		Roller:     game.NewRoller(nil),
		Logger:     logger,
		Tracker:    tracker,
		Dispatcher: NewDispatcher(logger, log),
	})
	ctx := context.Background()

	if _, err := e.SimulateMonth(ctx); err != nil {
		t.Fatalf("month 1: %v", err)
	}
	if _, err := e.SimulateMonth(ctx); err != nil {
		t.Fatalf("month 2: %v", err)
	}
	sum := e.Summary()
	if len(sum.Achievements) != 1 || sum.Achievements[0] != "first-report" {
		t.Fatalf("achievements got=%v", sum.Achievements)
	}
	if want := 80_000 - 2*emptyMonthExpenses + 1_000; math.Abs(sum.Cash-float64(want)) > 1e-6 {
		t.Fatalf("cash got=%.0f want=%d", sum.Cash, want)
	}
	if !log.has(NoticeAchievement) {
		t.Fatalf("achievement notice not dispatched")
	}

	e.Reset(ctx, nil)
	if tracker.resets != 1 {
		t.Fatalf("reset should clear tracker state")
	}
}

func TestAutosaveAndLoad(t *testing.T) {
	store := newMemStore()
	tracker := &onceTracker{}
	e := New(Config{
		State:   emptyCompany(t),
		Rand:    game.NewRand(8),
		Roller:  game.NewRoller(nil),
		Logger:  quietLogger(),
		Store:   store,
		Tracker: tracker,
		Options: Options{Autosave: true},
	})
	ctx := context.Background()

	if _, err := e.SimulateMonth(ctx); err != nil {
		t.Fatalf("simulate month: %v", err)
	}
	if _, err := store.Load(ctx, SlotGame); err != nil {
		t.Fatalf("month close should autosave: %v", err)
	}
	if _, err := store.Load(ctx, SlotQuests); err != nil {
		t.Fatalf("tracker state should be saved alongside: %v", err)
	}

	loaded := New(Config{Rand: game.NewRand(9), Logger: quietLogger(), Store: store, Tracker: tracker})
	if !loaded.Load(ctx) {
		t.Fatalf("expected a save to load")
	}
	if got := loaded.Summary().Month; got != 2 {
		t.Fatalf("loaded month got=%d want=2", got)
	}
	if string(tracker.exported) != `{"ok":true}` {
		t.Fatalf("tracker state not imported: %s", tracker.exported)
	}

	_ = store.Save(ctx, SlotGame, []byte("garbage"))
	if loaded.Load(ctx) {
		t.Fatalf("an unreadable save must count as no save")
	}
	if got := loaded.Summary().Month; got != 2 {
		t.Fatalf("failed load must leave the state untouched, month %d", got)
	}

	if New(Config{Logger: quietLogger()}).Load(ctx) {
		t.Fatalf("no store means no save")
	}
}

func TestDriverLifecycle(t *testing.T) {
	e := newTestEngine(emptyCompany(t), game.NewRand(10), Options{SecondsPerMonth: 3_000})
	d := NewDriver(e, 5*time.Millisecond, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan struct{}, 16)
	d.OnTick = func(TickReport) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}
	d.Start(ctx)
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatalf("driver did not tick")
	}

	d.Pause()
	if st := d.Status(); st.Running || !st.Paused {
		t.Fatalf("paused status got=%+v", st)
	}
	d.SetSpeed(4)
	if st := d.Status(); st.Running || st.Speed != 4 {
		t.Fatalf("speed change while paused must not restart, got=%+v", st)
	}
	d.Resume()
	if st := d.Status(); !st.Running || st.Paused {
		t.Fatalf("resumed status got=%+v", st)
	}
	d.SetSpeed(0)
	if d.Status().Speed != 4 {
		t.Fatalf("non-positive speed must be ignored")
	}
	d.Stop()
	if d.Status().Running {
		t.Fatalf("driver still running after stop")
	}
	if e.Summary().Day <= 0 {
		t.Fatalf("driver ticks should move the clock")
	}
}

func TestDriverReportsStoppedAfterGameOver(t *testing.T) {
	s := emptyCompany(t)
	s.Company.Cash = 100
	e := newTestEngine(s, game.NewRand(11), Options{SecondsPerMonth: 0.1})
	d := NewDriver(e, 10*time.Millisecond, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.Start(ctx)
	deadline := time.Now().Add(2 * time.Second)
	for d.Status().Running {
		if time.Now().After(deadline) {
			t.Fatalf("driver still running after bankruptcy, state=%+v", e.Summary())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !e.Summary().GameOver {
		t.Fatalf("driver stopped before the game ended")
	}

	d.SetSpeed(2)
	if st := d.Status(); st.Running || st.Speed != 2 {
		t.Fatalf("speed change after game over must not restart, got=%+v", st)
	}
	d.Stop()
	if d.Status().Running {
		t.Fatalf("driver running after stop")
	}
}

func TestProjectCompletionNotices(t *testing.T) {
	for _, tc := range []struct {
		name      string
		completed int
		levelUp   bool
	}{
		{"third project levels up", 2, true},
		{"first project does not", 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := emptyCompany(t)
			s.Employees = []game.Employee{{
				ID: 1, Name: "Ana Ruiz", Specialty: game.SpecialtyTech,
				SkillLevel: 3, Salary: 3_000, Motivation: 70, Opinions: []string{},
			}}
			s.Progress.CompletedProjects = tc.completed
			s.Projects = []game.Project{{
				ID: "p1", Title: "Checkout Revamp", Duration: 10, Progress: 99.9,
				TeamSize: 1, Reward: 1_000, Status: game.ProjectActive,
				RequiredSpecialties: map[game.Specialty]int{game.SpecialtyTech: 1},
				AssignedEmployees:   []int64{1},
			}}
			log := &noticeLog{}
			e := newTestEngine(s, constRand{v: 0.99}, Options{SecondsPerMonth: 300}, log)

			if _, err := e.Tick(context.Background(), 1.0/30); err != nil {
				t.Fatalf("tick: %v", err)
			}
			e.View(func(s *game.State) {
				if s.Projects[0].Status != game.ProjectCompleted {
					t.Fatalf("project not completed: %+v", s.Projects[0])
				}
			})
			if !log.has(NoticeEvent) {
				t.Fatalf("completion should publish an event notice, got %v", log.kinds)
			}
			if log.has(NoticeLevelUp) != tc.levelUp {
				t.Fatalf("level-up notice got=%v want=%v (kinds %v)", log.has(NoticeLevelUp), tc.levelUp, log.kinds)
			}
		})
	}
}
