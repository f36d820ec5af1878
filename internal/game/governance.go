package game

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

type VoteWeighting string

const (
	WeightByInfluence VoteWeighting = "influence"
	WeightByShare     VoteWeighting = "share"
)

// Decision is a strategic proposal put to the board.
type Decision struct {
	Title             string        `json:"title"`
	CashImpact        float64       `json:"cash_impact"`
	MotivationImpact  float64       `json:"motivation_impact"`
	MarketShareImpact float64       `json:"market_share_impact"`
	Risk              float64       `json:"risk"`
	RequiredSupport   float64       `json:"required_support"`
	Weighting         VoteWeighting `json:"weighting"`
}

type VoteOutcome struct {
	Approved bool            `json:"approved"`
	Support  float64         `json:"support"`
	Votes    map[string]Vote `json:"votes"`
}

const (
	approveSatisfactionNudge = 2.0
	rejectYesPenalty         = 6.0
	rejectAbstainPenalty     = 3.0
	rejectNoPenalty          = 2.0
	abstainBand              = 0.3
	publicFloatID            = "public-float"
)

func (m BoardMember) yesProbability(risk float64) float64 {
	p := m.Satisfaction / 100
	switch m.Personality {
	case PersonalityConservative:
		p -= risk * 0.6
	case PersonalityAggressive:
		p += risk * 0.4
	}
	return clamp(p, 0, 1)
}

// CastVotes rolls every member's vote independently and records it.
func (s *State) CastVotes(r Rand, d Decision) {
	for i := range s.Board {
		m := &s.Board[i]
		p := m.yesProbability(d.Risk)
		roll := r.Float64()
		switch {
		case roll < p:
			m.LastVote = VoteYes
		case roll < p+(1-p)*abstainBand:
			m.LastVote = VoteAbstain
		default:
			m.LastVote = VoteNo
		}
	}
}

// TallyVotes weighs the recorded votes. Approval needs yes support strictly
// above the threshold (simple majority unless RequiredSupport is set).
func (s *State) TallyVotes(d Decision) (bool, float64) {
	var total, yes float64
	for _, m := range s.Board {
		w := m.Influence
		if d.Weighting == WeightByShare {
			w = m.SharePercent
		}
		total += w
		if m.LastVote == VoteYes {
			yes += w
		}
	}
	if total <= 0 {
		return false, 0
	}
	threshold := 0.5
	if d.RequiredSupport > 0 {
		threshold = d.RequiredSupport
	}
	support := yes / total
	return support > threshold, support
}

func (s *State) SubmitDecision(r Rand, d Decision) (VoteOutcome, error) {
	if len(s.Board) == 0 {
		return VoteOutcome{}, ErrInvalidDecision
	}
	s.CastVotes(r, d)
	return s.ResolveDecision(d), nil
}

// ResolveDecision applies the outcome of the votes already on record.
func (s *State) ResolveDecision(d Decision) VoteOutcome {
	approved, support := s.TallyVotes(d)
	out := VoteOutcome{Approved: approved, Support: support, Votes: make(map[string]Vote, len(s.Board))}
	for i := range s.Board {
		m := &s.Board[i]
		out.Votes[m.ID] = m.LastVote
		if approved {
			m.Satisfaction = clampPercent(m.Satisfaction + approveSatisfactionNudge)
			continue
		}
		switch m.LastVote {
		case VoteYes:
			m.Satisfaction = clampPercent(m.Satisfaction - rejectYesPenalty)
		case VoteAbstain:
			m.Satisfaction = clampPercent(m.Satisfaction - rejectAbstainPenalty)
		default:
			m.Satisfaction = clampPercent(m.Satisfaction - rejectNoPenalty)
		}
	}
	if approved {
		s.Company.Cash += d.CashImpact
		for i := range s.Employees {
			e := &s.Employees[i]
			e.Motivation = clampPercent(e.Motivation + d.MotivationImpact)
		}
		if d.MarketShareImpact != 0 {
			grown := float64(s.Market.CustomerBase) * (1 + d.MarketShareImpact/100)
			s.Market.CustomerBase = int64(math.Max(0, math.Round(grown)))
		}
	}
	s.RefreshDerived()
	return out
}

// AdjustBoardSatisfaction nudges every member and refreshes the aggregate.
func (s *State) AdjustBoardSatisfaction(delta float64) {
	for i := range s.Board {
		s.Board[i].Satisfaction = clampPercent(s.Board[i].Satisfaction + delta)
	}
	if len(s.Board) == 0 {
		s.Company.BoardSatisfaction = clampPercent(s.Company.BoardSatisfaction + delta)
	}
	s.RefreshDerived()
}

func (s *State) checkCEOFloor(selling float64) error {
	if s.CEOShare()-selling < MinCEOShare {
		return ErrCEOShareFloor
	}
	return nil
}

// RaiseFunds issues a fixed tranche of equity for cash, to an existing
// member when memberID is set, otherwise to a new investor.
func (s *State) RaiseFunds(r Rand, memberID string) (BoardMember, error) {
	if s.StrikeRisk() > 40 {
		return BoardMember{}, ErrStrikeRiskTooHigh
	}
	if s.Company.BoardSatisfaction < 50 {
		return BoardMember{}, ErrBoardDissatisfied
	}
	if err := s.checkCEOFloor(RaiseFundsEquity); err != nil {
		return BoardMember{}, err
	}
	if memberID != "" {
		idx := s.memberIndex(memberID)
		if idx < 0 {
			return BoardMember{}, ErrMemberNotFound
		}
		m := &s.Board[idx]
		m.SharePercent += RaiseFundsEquity
		m.Influence = clamp(m.Influence+0.05, 0, 1)
		s.Company.Cash += RaiseFundsCash
		s.RefreshDerived()
		return *m, nil
	}
	personalities := []Personality{PersonalityConservative, PersonalityAggressive, PersonalityBalanced}
	m := BoardMember{
		ID:           uuid.NewString(),
		Name:         s.freshBoardName(),
		Influence:    0.1,
		Satisfaction: 60,
		Personality:  personalities[pick(r, len(personalities))],
		SharePercent: RaiseFundsEquity,
		LastVote:     VoteNone,
	}
	s.Board = append(s.Board, m)
	s.Company.Cash += RaiseFundsCash
	s.RefreshDerived()
	return m, nil
}

func (s *State) freshBoardName() string {
	for _, name := range boardNames {
		taken := false
		for _, m := range s.Board {
			if m.Name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
	}
	return fmt.Sprintf("Investor %d", len(s.Board)+1)
}

// EquityValue prices a stake at the current share price (price per 1%).
func (s *State) EquityValue(percent float64) float64 {
	return percent * s.Company.SharePrice
}

func (s *State) dropEmptyMembers() {
	kept := s.Board[:0]
	for _, m := range s.Board {
		if m.SharePercent > 1e-9 {
			kept = append(kept, m)
		}
	}
	s.Board = kept
}

// BuySharesFromMember moves equity from a member to the CEO, paid from the
// CEO's personal balance with a 10% transaction premium.
func (s *State) BuySharesFromMember(r Rand, memberID string, percent float64) error {
	if percent <= 0 {
		return ErrInvalidSharePercent
	}
	idx := s.memberIndex(memberID)
	if idx < 0 {
		return ErrMemberNotFound
	}
	m := &s.Board[idx]
	if m.SharePercent < percent {
		return ErrInsufficientShares
	}
	cost := s.EquityValue(percent) * 1.10
	if s.Company.CEO.PersonalBalance < cost {
		return ErrInsufficientFunds
	}
	refuse := 0.0
	if m.Satisfaction < 40 {
		refuse += 0.5
	}
	if m.Personality == PersonalityAggressive {
		refuse += 0.3
	}
	if chance(r, refuse) {
		return ErrSellerRefused
	}
	s.Company.CEO.PersonalBalance -= cost
	m.SharePercent -= percent
	s.dropEmptyMembers()
	s.RefreshDerived()
	return nil
}

// SellSharesToMember moves CEO equity to a member with a 15% haircut.
func (s *State) SellSharesToMember(memberID string, percent float64) error {
	if percent <= 0 {
		return ErrInvalidSharePercent
	}
	idx := s.memberIndex(memberID)
	if idx < 0 {
		return ErrMemberNotFound
	}
	if err := s.checkCEOFloor(percent); err != nil {
		return err
	}
	m := &s.Board[idx]
	s.Company.CEO.PersonalBalance += s.EquityValue(percent) * 0.85
	m.SharePercent += percent
	m.Satisfaction = clampPercent(m.Satisfaction + 2)
	s.RefreshDerived()
	return nil
}

// SellSharesToMarket floats CEO equity publicly with a 20% haircut.
func (s *State) SellSharesToMarket(percent float64) error {
	if percent <= 0 {
		return ErrInvalidSharePercent
	}
	if err := s.checkCEOFloor(percent); err != nil {
		return err
	}
	s.Company.CEO.PersonalBalance += s.EquityValue(percent) * 0.80
	idx := s.memberIndex(publicFloatID)
	if idx < 0 {
		s.Board = append(s.Board, BoardMember{
			ID:           publicFloatID,
			Name:         "Public Float",
			Influence:    0.05,
			Satisfaction: 60,
			Personality:  PersonalityBalanced,
			LastVote:     VoteNone,
		})
		idx = len(s.Board) - 1
	}
	s.Board[idx].SharePercent += percent
	s.RefreshDerived()
	return nil
}

// BuybackShares retires publicly floated equity using company cash.
func (s *State) BuybackShares(percent float64) error {
	if percent <= 0 {
		return ErrInvalidSharePercent
	}
	idx := s.memberIndex(publicFloatID)
	if idx < 0 || s.Board[idx].SharePercent < percent {
		return ErrInsufficientShares
	}
	cost := s.EquityValue(percent) * 1.10
	if s.Company.Cash < cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= cost
	s.Board[idx].SharePercent -= percent
	s.dropEmptyMembers()
	s.AdjustBoardSatisfaction(1)
	return nil
}

// BoardRates are per-month probabilities for autonomous member behavior.
type BoardRates struct {
	CostCutting float64 `yaml:"cost_cutting" json:"cost_cutting"`
	Gift        float64 `yaml:"gift" json:"gift"`
	Offer       float64 `yaml:"offer" json:"offer"`
}

func DefaultBoardRates() BoardRates {
	return BoardRates{CostCutting: 0.3, Gift: 0.2, Offer: 0.05}
}

const (
	costCuttingPenalty = 10_000.0
	giftPerSharePoint  = 500.0
)

// BoardAutonomousActions lets members act on their own. Offers to trade are
// reported as events only; nothing changes hands.
func (s *State) BoardAutonomousActions(r Rand, dayFraction float64, rates BoardRates) []Event {
	var out []Event
	for i := range s.Board {
		m := s.Board[i]
		if m.Satisfaction < 30 && m.SharePercent > 15 && chance(r, rates.CostCutting*dayFraction) {
			s.Company.Cash -= costCuttingPenalty
			out = append(out, Event{
				Name:        "Forced Cost Cutting",
				Description: fmt.Sprintf("%s forced an emergency cost-cutting plan.", m.Name),
				Type:        EventLoss,
				ImpactValue: costCuttingPenalty,
				Icon:        "✂️",
			})
		}
		if m.Satisfaction > 90 && chance(r, rates.Gift*dayFraction) {
			gift := giftPerSharePoint * m.SharePercent
			s.Company.Cash += gift
			out = append(out, Event{
				Name:        "Shareholder Gift",
				Description: fmt.Sprintf("%s is delighted and injects extra cash.", m.Name),
				Type:        EventGain,
				ImpactValue: gift,
				Icon:        "🎁",
			})
		}
		if chance(r, rates.Offer*dayFraction) {
			switch {
			case m.Satisfaction > 70:
				out = append(out, Event{
					Name:        "Buy Offer",
					Description: fmt.Sprintf("%s offers to buy 1%% equity at %.0f.", m.Name, s.Company.SharePrice*1.2),
					Type:        EventInfo,
					ImpactValue: s.Company.SharePrice * 1.2,
					Icon:        "🤝",
				})
			case m.Satisfaction < 40 && m.SharePercent > 0:
				out = append(out, Event{
					Name:        "Sell Signal",
					Description: fmt.Sprintf("%s signals intent to sell at %.0f.", m.Name, s.Company.SharePrice*0.8),
					Type:        EventWarning,
					ImpactValue: s.Company.SharePrice * 0.8,
					Icon:        "📉",
				})
			}
		}
	}
	return out
}
