package sim

import (
	"context"
	"log/slog"

	"bizdom/internal/game"
)

// Summary is the read-only view handed to collaborators after each month
// and tick.
type Summary struct {
	Month             int                    `json:"month"`
	Day               float64                `json:"day"`
	Cash              float64                `json:"cash"`
	EmployeeCount     int                    `json:"employee_count"`
	SpecialtyCounts   map[game.Specialty]int `json:"specialty_counts"`
	CustomerBase      int64                  `json:"customer_base"`
	Satisfaction      float64                `json:"satisfaction"`
	OfficeID          string                 `json:"office_id"`
	OfficeTier        int                    `json:"office_tier"`
	AverageFatigue    float64                `json:"average_fatigue"`
	StrikingCount     int                    `json:"striking_count"`
	Level             int                    `json:"level"`
	CompletedProjects int                    `json:"completed_projects"`
	Reports           []game.MonthlyReport   `json:"reports"`
	Achievements      []string               `json:"achievements"`
	GameOver          bool                   `json:"game_over"`
}

// Summarize copies what collaborators may see.
func Summarize(s *game.State) Summary {
	sum := Summary{
		Month:             s.Progress.CurrentMonth,
		Day:               s.Progress.CurrentDay,
		Cash:              s.Company.Cash,
		EmployeeCount:     s.EmployeeCount(),
		SpecialtyCounts:   map[game.Specialty]int{},
		CustomerBase:      s.Market.CustomerBase,
		Satisfaction:      s.Market.Satisfaction,
		OfficeID:          s.Company.CurrentOfficeID,
		AverageFatigue:    s.AverageFatigue(),
		Level:             s.Company.Level,
		CompletedProjects: s.Progress.CompletedProjects,
		Reports:           append([]game.MonthlyReport(nil), s.Progress.Reports...),
		Achievements:      append([]string(nil), s.Progress.Achievements...),
		GameOver:          s.Progress.GameOver,
	}
	for _, e := range s.Employees {
		sum.SpecialtyCounts[e.Specialty]++
		if e.IsOnStrike {
			sum.StrikingCount++
		}
	}
	for i, o := range s.Offices {
		if o.ID == s.Company.CurrentOfficeID {
			sum.OfficeTier = i + 1
			break
		}
	}
	return sum
}

// Outcome is a collaborator's verdict. The engine applies it; an outcome
// naming an achievement that is already unlocked is ignored.
type Outcome struct {
	AchievementID   string      `json:"achievement_id,omitempty"`
	Event           *game.Event `json:"event,omitempty"`
	CashDelta       float64     `json:"cash_delta"`
	MotivationDelta float64     `json:"motivation_delta"`
	// Counts as a major player action for the inactivity window.
	MarkAction bool `json:"mark_action"`
}

// AchievementTracker decides unlocks and quest completion from summaries.
type AchievementTracker interface {
	Observe(sum Summary) []Outcome
}

// StatefulTracker is a tracker with its own save data.
type StatefulTracker interface {
	AchievementTracker
	ExportState() ([]byte, error)
	ImportState(raw []byte) error
	Reset()
}

// Store is the persistence collaborator. Load reports any failure, and the
// engine treats every failure as "no save available".
type Store interface {
	Save(ctx context.Context, slot string, payload []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
}

const (
	SlotGame   = "game"
	SlotQuests = "quests"
)

type NoticeKind string

const (
	NoticeEvent       NoticeKind = "event"
	NoticeMonthClosed NoticeKind = "month_closed"
	NoticeGameOver    NoticeKind = "game_over"
	NoticeStrike      NoticeKind = "strike"
	NoticeResignation NoticeKind = "resignation"
	NoticeLevelUp     NoticeKind = "level_up"
	NoticeAchievement NoticeKind = "achievement"
)

// Notice is one domain event leaving the engine.
type Notice struct {
	Kind   NoticeKind          `json:"kind"`
	Month  int                 `json:"month"`
	Day    float64             `json:"day"`
	Event  *game.Event         `json:"event,omitempty"`
	Report *game.MonthlyReport `json:"report,omitempty"`
}

// Sink receives notices after the step that produced them has finished.
type Sink interface {
	Deliver(ctx context.Context, n Notice)
}

type SinkFunc func(ctx context.Context, n Notice)

func (f SinkFunc) Deliver(ctx context.Context, n Notice) { f(ctx, n) }

// Dispatcher fans notices out to sinks. It is the only path from the core
// to display, network and chat consumers.
type Dispatcher struct {
	sinks []Sink
	log   *slog.Logger
}

func NewDispatcher(logger *slog.Logger, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sinks: sinks, log: logger}
}

func (d *Dispatcher) Add(s Sink) {
	if s != nil {
		d.sinks = append(d.sinks, s)
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, notices []Notice) {
	if d == nil {
		return
	}
	for _, n := range notices {
		for _, s := range d.sinks {
			s.Deliver(ctx, n)
		}
		d.log.Debug("notice dispatched", "kind", n.Kind, "month", n.Month)
	}
}
