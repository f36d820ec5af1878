package game

import "strings"

// Action names accepted by Execute.
const (
	ActionConfigure          = "configure"
	ActionHire               = "hire"
	ActionFire               = "fire"
	ActionRaiseSalary        = "raise_salary"
	ActionTrain              = "train"
	ActionResolveStrike      = "resolve_strike"
	ActionMarketingBudget    = "marketing_budget"
	ActionTakeLoan           = "take_loan"
	ActionRepayLoan          = "repay_loan"
	ActionBuyPerk            = "buy_perk"
	ActionRemovePerk         = "remove_perk"
	ActionMoveOffice         = "move_office"
	ActionBuyInfrastructure  = "buy_infrastructure"
	ActionRepairInfra        = "repair_infrastructure"
	ActionUpgradeEquipment   = "upgrade_equipment"
	ActionBuyBoost           = "buy_boost"
	ActionAssign             = "assign"
	ActionUnassign           = "unassign"
	ActionStartProject       = "start_project"
	ActionDecision           = "decision"
	ActionRaiseFunds         = "raise_funds"
	ActionBuyShares          = "buy_shares"
	ActionSellShares         = "sell_shares"
	ActionSellSharesToMarket = "sell_shares_market"
	ActionBuyback            = "buyback"
	ActionDismissEvent       = "dismiss_event"
)

// Args is the flat argument bag for every action; each action reads only
// the fields it needs.
type Args struct {
	EmployeeID  int64     `json:"employee_id,omitempty"`
	CandidateID int64     `json:"candidate_id,omitempty"`
	LoanID      int64     `json:"loan_id,omitempty"`
	Target      string    `json:"target,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	Months      int       `json:"months,omitempty"`
	Percent     float64   `json:"percent,omitempty"`
	Boost       BoostType `json:"boost,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	CEOName     string    `json:"ceo_name,omitempty"`
	Appearance  string    `json:"appearance,omitempty"`
	Decision    *Decision `json:"decision,omitempty"`
}

const defaultRaise = 500.0

// minorActions do not count as player activity for the inactivity window.
var minorActions = map[string]bool{
	ActionDismissEvent: true,
	ActionConfigure:    true,
}

func IsMajorAction(action string) bool {
	return !minorActions[normalizeAction(action)]
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

// Execute runs a named player action. It returns an action-specific result
// (nil for most) and a sentinel error when the action is rejected.
func (s *State) Execute(r Rand, action string, a Args) (any, error) {
	action = normalizeAction(action)
	if !s.Company.IsConfigured && action != ActionConfigure && action != ActionDismissEvent {
		return nil, ErrNotConfigured
	}
	switch action {
	case ActionConfigure:
		return nil, s.Configure(a.CompanyName, a.CEOName, a.Appearance)
	case ActionHire:
		return nil, s.HireEmployee(a.CandidateID)
	case ActionFire:
		return nil, s.FireEmployee(a.EmployeeID)
	case ActionRaiseSalary:
		amount := a.Amount
		if amount == 0 {
			amount = defaultRaise
		}
		return nil, s.RaiseSalary(a.EmployeeID, amount)
	case ActionTrain:
		return nil, s.TrainEmployee(a.EmployeeID)
	case ActionResolveStrike:
		return nil, s.ResolveStrike(a.EmployeeID)
	case ActionMarketingBudget:
		return nil, s.SetMarketingBudget(a.Target, a.Amount)
	case ActionTakeLoan:
		return s.TakeLoan(a.Amount, a.Months)
	case ActionRepayLoan:
		return nil, s.RepayLoan(a.LoanID)
	case ActionBuyPerk:
		return nil, s.BuyPerk(a.Target)
	case ActionRemovePerk:
		return nil, s.RemovePerk(a.Target)
	case ActionMoveOffice:
		return nil, s.MoveOffice(a.Target)
	case ActionBuyInfrastructure:
		return nil, s.BuyInfrastructure(a.Target)
	case ActionRepairInfra:
		return nil, s.RepairInfrastructure(a.Target)
	case ActionUpgradeEquipment:
		return nil, s.UpgradeEquipment()
	case ActionBuyBoost:
		return s.BuyBoost(a.Boost)
	case ActionAssign:
		return nil, s.AssignEmployee(a.Target, a.EmployeeID)
	case ActionUnassign:
		return nil, s.UnassignEmployee(a.Target, a.EmployeeID)
	case ActionStartProject:
		return nil, s.StartProject(a.Target)
	case ActionDecision:
		if a.Decision == nil {
			return nil, ErrInvalidDecision
		}
		return s.SubmitDecision(r, *a.Decision)
	case ActionRaiseFunds:
		return s.RaiseFunds(r, a.Target)
	case ActionBuyShares:
		return nil, s.BuySharesFromMember(r, a.Target, a.Percent)
	case ActionSellShares:
		return nil, s.SellSharesToMember(a.Target, a.Percent)
	case ActionSellSharesToMarket:
		return nil, s.SellSharesToMarket(a.Percent)
	case ActionBuyback:
		return nil, s.BuybackShares(a.Percent)
	case ActionDismissEvent:
		s.DismissEvent()
		return nil, nil
	default:
		return nil, ErrUnknownAction
	}
}
