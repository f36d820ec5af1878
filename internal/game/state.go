package game

import (
	"encoding/json"
	"fmt"
	"time"
)

const SnapshotVersion = 3

// State is the entity store. Every subsystem mutates it in place; nothing
// keeps a diverging copy.
type State struct {
	Company           Company              `json:"company"`
	Employees         []Employee           `json:"employees"`
	RecruitPool       []RecruitCandidate   `json:"recruit_pool"`
	Market            MarketData           `json:"market"`
	Loans             []Loan               `json:"loans"`
	NextLoanID        int64                `json:"next_loan_id"`
	MarketingChannels []MarketingChannel   `json:"marketing_channels"`
	Competitors       []Competitor         `json:"competitors"`
	Board             []BoardMember        `json:"board"`
	Offices           []Office             `json:"offices"`
	Perks             []Perk               `json:"perks"`
	Infrastructure    []InfrastructureItem `json:"infrastructure"`
	Projects          []Project            `json:"projects"`
	Boosts            []TemporaryBoost     `json:"boosts"`
	Progress          Progress             `json:"progress"`
}

// NewState returns the starting scenario.
func NewState() *State {
	s := &State{
		Company: Company{
			Name:                    "",
			Cash:                    80_000,
			RevenuePerCustomer:      40,
			TaxRate:                 0.25,
			FixedCosts:              4_000,
			VariableCostPerEmployee: 300,
			CurrentOfficeID:         "coworking",
			ActivePerks:             []string{},
			EquipmentLevel:          1,
			LastUpgradeMonth:        1,
			CEO:                     CEO{Name: "", Appearance: "default", PersonalBalance: 25_000},
			BoardSatisfaction:       70,
			OwnedInfrastructure:     []string{},
			Level:                   1,
			SharePrice:              BaseSharePrice,
			SharePriceHistory:       []float64{BaseSharePrice},
		},
		Employees:   append([]Employee(nil), starterEmployees...),
		RecruitPool: candidatePool(12),
		Market: MarketData{
			CustomerBase:           300,
			AcquisitionCoefficient: 0.02,
			MarketGrowth:           0.02,
			ChurnRate:              0.05,
			EconomicCycle:          CycleStable,
			CycleMonthsRemaining:   6,
			Demands:                map[Specialty]float64{},
			OrganicGrowth:          0.01,
		},
		Loans:             []Loan{},
		NextLoanID:        1,
		MarketingChannels: append([]MarketingChannel(nil), channelCatalog...),
		Competitors:       append([]Competitor(nil), competitorCatalog...),
		Board: []BoardMember{
			{ID: "angel-fund", Name: boardNames[0], Influence: 0.6, Satisfaction: 70, Personality: PersonalityAggressive, SharePercent: 15, LastVote: VoteNone},
			{ID: "family-office", Name: boardNames[1], Influence: 0.4, Satisfaction: 70, Personality: PersonalityConservative, SharePercent: 10, LastVote: VoteNone},
		},
		Offices:        Offices(),
		Perks:          Perks(),
		Infrastructure: infrastructureCatalogCopy(),
		Projects:       []Project{},
		Boosts:         []TemporaryBoost{},
		Progress: Progress{
			CurrentMonth: 1,
			Reports:      []MonthlyReport{},
			EventHistory: []Event{},
			Achievements: []string{},
		},
	}
	for i := range s.Employees {
		s.Employees[i].Opinions = []string{}
	}
	for _, sp := range Specialties {
		s.Market.Demands[sp] = 50
	}
	s.Market.Satisfaction = s.SatisfactionScore()
	s.RefreshDerived()
	return s
}

// RefreshDerived recomputes values that are pure functions of other fields.
func (s *State) RefreshDerived() {
	var boardShare, weighted float64
	for i := range s.Board {
		m := &s.Board[i]
		m.Satisfaction = clampPercent(m.Satisfaction)
		boardShare += m.SharePercent
		weighted += m.Satisfaction * m.SharePercent
	}
	s.Company.InvestorShare = clamp(boardShare/100, 0, 1)
	if boardShare > 0 {
		s.Company.BoardSatisfaction = clampPercent(weighted / boardShare)
	} else {
		s.Company.BoardSatisfaction = clampPercent(s.Company.BoardSatisfaction)
	}
	s.Market.Satisfaction = clampPercent(s.Market.Satisfaction)
	for i := range s.Employees {
		e := &s.Employees[i]
		e.Motivation = clampPercent(e.Motivation)
		e.Fatigue = clampPercent(e.Fatigue)
		e.SkillLevel = clampInt(e.SkillLevel, 1, MaxSkill)
	}
	if s.Market.CustomerBase < 0 {
		s.Market.CustomerBase = 0
	}
	if s.Company.EquipmentLevel < 1 {
		s.Company.EquipmentLevel = 1
	}
	if s.Company.Level < 1 {
		s.Company.Level = 1
	}
}

// MarkAction records a major player action; it gates organic decline.
func (s *State) MarkAction(now time.Time) {
	s.Market.LastActionTime = now.UnixMilli()
}

// Snapshot serializes the full mutable state.
func (s *State) Snapshot() ([]byte, error) {
	return json.Marshal(saveEnvelope{Version: SnapshotVersion, SavedAt: time.Now().UnixMilli(), State: s})
}

type saveEnvelope struct {
	Version int    `json:"version"`
	SavedAt int64  `json:"saved_at"`
	State   *State `json:"state"`
}

// Restore decodes a snapshot on top of NewState, so fields missing from an
// older save keep their defaults.
func Restore(raw []byte) (*State, error) {
	s := NewState()
	env := saveEnvelope{State: s}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.State == nil {
		return nil, fmt.Errorf("decode snapshot: missing state")
	}
	s = env.State
	if s.NextLoanID <= 0 {
		s.NextLoanID = 1
		for _, l := range s.Loans {
			if l.ID >= s.NextLoanID {
				s.NextLoanID = l.ID + 1
			}
		}
	}
	if s.Progress.CurrentMonth <= 0 {
		s.Progress.CurrentMonth = 1
	}
	if s.Market.Demands == nil {
		s.Market.Demands = map[Specialty]float64{}
	}
	if s.Market.EconomicCycle == "" {
		s.Market.EconomicCycle = CycleStable
	}
	if s.Company.SharePrice <= 0 {
		s.Company.SharePrice = BaseSharePrice
	}
	if len(s.Offices) == 0 {
		s.Offices = Offices()
	}
	if len(s.Perks) == 0 {
		s.Perks = Perks()
	}
	if len(s.Infrastructure) == 0 {
		s.Infrastructure = infrastructureCatalogCopy()
	}
	return s, nil
}

// Clone returns a deep copy through the snapshot codec.
func (s *State) Clone() (*State, error) {
	raw, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return Restore(raw)
}

func (s *State) employeeIndex(id int64) int {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) Employee(id int64) (*Employee, bool) {
	idx := s.employeeIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &s.Employees[idx], true
}

// removeEmployeeAt drops the roster entry and every project assignment it held.
func (s *State) removeEmployeeAt(idx int) {
	id := s.Employees[idx].ID
	s.Employees = append(s.Employees[:idx], s.Employees[idx+1:]...)
	for i := range s.Projects {
		p := &s.Projects[i]
		p.AssignedEmployees = removeID(p.AssignedEmployees, id)
	}
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *State) memberIndex(id string) int {
	for i := range s.Board {
		if s.Board[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) projectIndex(id string) int {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) CurrentOffice() (Office, bool) {
	for _, o := range s.Offices {
		if o.ID == s.Company.CurrentOfficeID {
			return o, true
		}
	}
	return Office{}, false
}

func (s *State) infraIndex(id string) int {
	for i := range s.Infrastructure {
		if s.Infrastructure[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) Owns(infraID string) bool {
	return containsString(s.Company.OwnedInfrastructure, infraID)
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
