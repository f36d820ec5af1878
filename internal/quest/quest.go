// Package quest decides achievements and timed objectives from read-only
// summaries of the simulation.
package quest

import (
	"encoding/json"
	"fmt"
	"sync"

	"bizdom/internal/game"
	"bizdom/internal/sim"
)

type Condition string

const (
	CondSatisfaction90 Condition = "satisfaction_90"
	CondRecruitTech3   Condition = "recruit_tech_3"
	CondCash500k       Condition = "cash_500k"
)

type RewardType string

const (
	RewardCash       RewardType = "cash"
	RewardMotivation RewardType = "motivation"
	RewardPerk       RewardType = "perk"
)

type Quest struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Condition      Condition  `json:"condition"`
	RewardType     RewardType `json:"reward_type"`
	RewardValue    float64    `json:"reward_value"`
	Completed      bool       `json:"completed"`
	Deadline       float64    `json:"deadline"`
	Pros           []string   `json:"pros"`
	Cons           []string   `json:"cons"`
	FailurePenalty float64    `json:"failure_penalty"`
}

type questTemplate struct {
	Quest
	window float64
}

var questPool = []questTemplate{
	{
		Quest: Quest{
			ID:             "satisfaction_90",
			Title:          "Gold Customer Service",
			Description:    "Reach 90% customer satisfaction.",
			Condition:      CondSatisfaction90,
			RewardType:     RewardCash,
			RewardValue:    50_000,
			Pros:           []string{"Large cash bonus", "Boosts reputation"},
			Cons:           []string{"Pressure on the teams", "High marketing cost"},
			FailurePenalty: 15_000,
		},
		window: 5,
	},
	{
		Quest: Quest{
			ID:             "recruit_tech",
			Title:          "Talent Needed",
			Description:    "Employ at least 3 tech specialists.",
			Condition:      CondRecruitTech3,
			RewardType:     RewardMotivation,
			RewardValue:    20,
			Pros:           []string{"Faster delivery", "Team morale"},
			Cons:           []string{"Payroll grows", "Burnout risk"},
			FailurePenalty: 5_000,
		},
		window: 10,
	},
	{
		Quest: Quest{
			ID:             "cash_reserve",
			Title:          "Careful Squirrel",
			Description:    "Build a cash reserve of 500k.",
			Condition:      CondCash500k,
			RewardType:     RewardPerk,
			RewardValue:    1,
			Pros:           []string{"Financial safety", "Investor confidence"},
			Cons:           []string{"Slower growth", "Under-investment"},
			FailurePenalty: 25_000,
		},
		window: 15,
	},
}

const (
	questFailedEventID    = 300
	questCompletedEventID = 301
	achievementEventID    = 400
)

func fulfilled(c Condition, sum sim.Summary) bool {
	switch c {
	case CondSatisfaction90:
		return sum.Satisfaction >= 90
	case CondRecruitTech3:
		return sum.SpecialtyCounts[game.SpecialtyTech] >= 3
	case CondCash500k:
		return sum.Cash >= 500_000
	}
	return false
}

// Tracker implements sim.StatefulTracker. Its only inputs are summaries.
type Tracker struct {
	mu        sync.Mutex
	rand      game.Rand
	active    []Quest
	completed int
	lastOffer float64
	offered   bool

	OfferEveryDays float64
	MaxActive      int
}

func NewTracker(r game.Rand) *Tracker {
	if r == nil {
		r = game.NewRand(0)
	}
	return &Tracker{rand: r, OfferEveryDays: 7, MaxActive: 2}
}

func (t *Tracker) Active() []Quest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Quest(nil), t.active...)
}

func (t *Tracker) CompletedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

func (t *Tracker) Observe(sum sim.Summary) []sim.Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := checkMilestones(sum)
	if sum.GameOver {
		return out
	}
	t.maybeOffer(sum.Day)
	return append(out, t.checkQuests(sum)...)
}

// Generate offers a random quest unless it is already active.
func (t *Tracker) Generate(day float64) (Quest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generate(day)
}

func (t *Tracker) generate(day float64) (Quest, bool) {
	tmpl := questPool[t.rand.Intn(len(questPool))]
	for _, q := range t.active {
		if q.ID == tmpl.ID {
			return Quest{}, false
		}
	}
	q := tmpl.Quest
	q.Pros = append([]string(nil), tmpl.Pros...)
	q.Cons = append([]string(nil), tmpl.Cons...)
	q.Deadline = day + tmpl.window
	t.active = append(t.active, q)
	return q, true
}

func (t *Tracker) maybeOffer(day float64) {
	if len(t.active) >= t.MaxActive {
		return
	}
	if t.offered && day-t.lastOffer < t.OfferEveryDays {
		return
	}
	t.offered = true
	t.lastOffer = day
	t.generate(day)
}

func (t *Tracker) checkQuests(sum sim.Summary) []sim.Outcome {
	var out []sim.Outcome
	kept := t.active[:0]
	for _, q := range t.active {
		switch {
		case fulfilled(q.Condition, sum):
			t.completed++
			out = append(out, reward(q))
		case sum.Day >= q.Deadline:
			out = append(out, sim.Outcome{
				CashDelta: -q.FailurePenalty,
				Event: &game.Event{
					ID:          questFailedEventID,
					Name:        "Objective Failed",
					Description: fmt.Sprintf("The objective %q expired. A cash penalty was applied.", q.Title),
					Type:        game.EventLoss,
					ImpactValue: q.FailurePenalty,
					Icon:        "📉",
					Probability: 1,
				},
			})
		default:
			kept = append(kept, q)
		}
	}
	t.active = kept
	return out
}

func reward(q Quest) sim.Outcome {
	o := sim.Outcome{
		MarkAction: true,
		Event: &game.Event{
			ID:          questCompletedEventID,
			Name:        "Objective Complete",
			Description: fmt.Sprintf("%s: %s", q.Title, q.Description),
			Type:        game.EventSuccess,
			ImpactValue: q.RewardValue,
			Icon:        "🎯",
			Probability: 1,
		},
	}
	switch q.RewardType {
	case RewardCash:
		o.CashDelta = q.RewardValue
	case RewardMotivation:
		o.MotivationDelta = q.RewardValue
	}
	return o
}

type savedState struct {
	Active    []Quest `json:"active"`
	Completed int     `json:"completed"`
	LastOffer float64 `json:"last_offer"`
	Offered   bool    `json:"offered"`
}

func (t *Tracker) ExportState() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return json.Marshal(savedState{Active: t.active, Completed: t.completed, LastOffer: t.lastOffer, Offered: t.offered})
}

func (t *Tracker) ImportState(raw []byte) error {
	var st savedState
	if err := json.Unmarshal(raw, &st); err != nil {
		return fmt.Errorf("decode quests: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = st.Active
	t.completed = st.Completed
	t.lastOffer = st.LastOffer
	t.offered = st.Offered
	return nil
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
	t.completed = 0
	t.lastOffer = 0
	t.offered = false
}
