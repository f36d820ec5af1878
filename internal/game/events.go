package game

import "fmt"

type EventType string

const (
	EventGain              EventType = "gain"
	EventLoss              EventType = "loss"
	EventEmployeeDeparture EventType = "employee_departure"
	EventBoost             EventType = "boost"
	EventFixedCostIncrease EventType = "fixed_cost_increase"
	EventSabotage          EventType = "sabotage"

	// Notification kinds emitted by the engine rather than rolled.
	EventSuccess EventType = "success"
	EventInfo    EventType = "info"
	EventWarning EventType = "warning"
	EventLevelUp EventType = "level_up"
)

// CyberattackEventID is mitigated by the tech bonus.
const CyberattackEventID = 4

const sabotageMotivationHit = 15.0

type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Probability float64   `json:"probability"`
	Type        EventType `json:"type"`
	ImpactValue float64   `json:"impact_value"`
	Icon        string    `json:"icon"`
}

var eventCatalogue = []Event{
	{ID: 1, Name: "Big Client Signed", Description: "A major client signs an annual contract.", Probability: 0.08, Type: EventGain, ImpactValue: 15_000, Icon: "💰"},
	{ID: 2, Name: "Tax Audit", Description: "An audit uncovers late filings.", Probability: 0.05, Type: EventLoss, ImpactValue: 8_000, Icon: "📋"},
	{ID: 3, Name: "Talent Poached", Description: "A competitor lures away one of your people.", Probability: 0.06, Type: EventEmployeeDeparture, ImpactValue: 0, Icon: "🚪"},
	{ID: CyberattackEventID, Name: "Cyberattack", Description: "Ransomware hits the office network.", Probability: 0.04, Type: EventLoss, ImpactValue: 20_000, Icon: "🛡️"},
	{ID: 5, Name: "Team Workshop", Description: "An industry workshop sharpens everyone's skills.", Probability: 0.05, Type: EventBoost, ImpactValue: 1, Icon: "📚"},
	{ID: 6, Name: "Viral Post", Description: "A post about your product goes viral.", Probability: 0.05, Type: EventGain, ImpactValue: 10_000, Icon: "📣"},
	{ID: 7, Name: "Rent Review", Description: "The landlord raises service charges for good.", Probability: 0.03, Type: EventFixedCostIncrease, ImpactValue: 1_000, Icon: "🏢"},
	{ID: 8, Name: "Industrial Sabotage", Description: "Someone tampered with your deliveries.", Probability: 0.02, Type: EventSabotage, ImpactValue: 12_000, Icon: "🕵️"},
	{ID: 9, Name: "Equipment Failure", Description: "Servers need emergency replacement.", Probability: 0.05, Type: EventLoss, ImpactValue: 6_000, Icon: "🔧"},
	{ID: 10, Name: "Government Grant", Description: "An innovation grant comes through.", Probability: 0.03, Type: EventGain, ImpactValue: 25_000, Icon: "🏛️"},
}

// Catalogue returns a copy of the event table.
func Catalogue() []Event {
	out := make([]Event, len(eventCatalogue))
	copy(out, eventCatalogue)
	return out
}

// Roller draws at most one event per roll from a fixed table.
type Roller struct {
	events []Event
}

func NewRoller(events []Event) *Roller {
	return &Roller{events: events}
}

func DefaultRoller() *Roller {
	return NewRoller(Catalogue())
}

func (rl *Roller) Events() []Event {
	return rl.events
}

// Roll runs one Bernoulli trial per event, then picks uniformly among the
// successes. The returned event is a copy; callers may edit it freely.
func (rl *Roller) Roll(r Rand) *Event {
	if rl == nil {
		return nil
	}
	var triggered []int
	for i := range rl.events {
		if chance(r, rl.events[i].Probability) {
			triggered = append(triggered, i)
		}
	}
	if len(triggered) == 0 {
		return nil
	}
	selected := rl.events[triggered[pick(r, len(triggered))]]
	return &selected
}

// ApplyEvent resolves a rolled event against the store and returns the cash
// delta the caller should fold into the month's single cash update.
func (s *State) ApplyEvent(r Rand, ev *Event) float64 {
	if ev == nil {
		return 0
	}
	switch ev.Type {
	case EventGain:
		return ev.ImpactValue
	case EventLoss:
		loss := ev.ImpactValue
		if ev.ID == CyberattackEventID {
			loss *= 1 - s.TechBonus()
		}
		return -loss
	case EventEmployeeDeparture:
		if departed, ok := s.removeRandomEmployee(r); ok {
			ev.Description += fmt.Sprintf(" (%s left the company)", departed.Name)
		}
	case EventBoost:
		s.boostAllSkills(int(ev.ImpactValue))
	case EventFixedCostIncrease:
		s.Company.FixedCosts += ev.ImpactValue
	case EventSabotage:
		for i := range s.Employees {
			e := &s.Employees[i]
			e.Motivation = clampPercent(e.Motivation - sabotageMotivationHit)
		}
		return -ev.ImpactValue
	}
	return 0
}

func (s *State) removeRandomEmployee(r Rand) (Employee, bool) {
	if len(s.Employees) == 0 {
		return Employee{}, false
	}
	idx := pick(r, len(s.Employees))
	departed := s.Employees[idx]
	s.removeEmployeeAt(idx)
	return departed, true
}

func (s *State) boostAllSkills(levels int) {
	if levels <= 0 {
		return
	}
	for i := range s.Employees {
		s.Employees[i].SkillLevel = clampInt(s.Employees[i].SkillLevel+levels, 1, MaxSkill)
	}
}
