package game

type Specialty string

const (
	SpecialtyTech       Specialty = "tech"
	SpecialtySales      Specialty = "sales"
	SpecialtyCreative   Specialty = "creative"
	SpecialtyHR         Specialty = "hr"
	SpecialtyManagement Specialty = "management"
)

var Specialties = []Specialty{SpecialtyTech, SpecialtySales, SpecialtyCreative, SpecialtyHR, SpecialtyManagement}

type EconomicCycle string

const (
	CycleGrowth    EconomicCycle = "growth"
	CycleStable    EconomicCycle = "stable"
	CycleRecession EconomicCycle = "recession"
)

func (c EconomicCycle) Multiplier() float64 {
	switch c {
	case CycleGrowth:
		return 1.2
	case CycleRecession:
		return 0.7
	default:
		return 1.0
	}
}

type Personality string

const (
	PersonalityConservative Personality = "conservative"
	PersonalityAggressive   Personality = "aggressive"
	PersonalityBalanced     Personality = "balanced"
)

type Vote string

const (
	VoteNone    Vote = "none"
	VoteYes     Vote = "yes"
	VoteNo      Vote = "no"
	VoteAbstain Vote = "abstain"
)

type BoostType string

const (
	BoostMotivation BoostType = "motivation"
	BoostFatigue    BoostType = "fatigue"
)

type ProjectStatus string

const (
	ProjectPending   ProjectStatus = "pending"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectFailed    ProjectStatus = "failed"
)

type CEO struct {
	Name            string  `json:"name"`
	Appearance      string  `json:"appearance"`
	PersonalBalance float64 `json:"personal_balance"`
}

type Company struct {
	Name                    string    `json:"name"`
	Cash                    float64   `json:"cash"`
	RevenuePerCustomer      float64   `json:"revenue_per_customer"`
	TaxRate                 float64   `json:"tax_rate"`
	FixedCosts              float64   `json:"fixed_costs"`
	VariableCostPerEmployee float64   `json:"variable_cost_per_employee"`
	CurrentOfficeID         string    `json:"current_office_id"`
	ActivePerks             []string  `json:"active_perks"`
	InvestorShare           float64   `json:"investor_share"`
	EquipmentLevel          int       `json:"equipment_level"`
	LastUpgradeMonth        int       `json:"last_upgrade_month"`
	IsConfigured            bool      `json:"is_configured"`
	CEO                     CEO       `json:"ceo"`
	BoardSatisfaction       float64   `json:"board_satisfaction"`
	OwnedInfrastructure     []string  `json:"owned_infrastructure"`
	Level                   int       `json:"level"`
	SharePrice              float64   `json:"share_price"`
	SharePriceHistory       []float64 `json:"share_price_history"`
}

type Employee struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Role                  string    `json:"role"`
	Specialty             Specialty `json:"specialty"`
	SkillLevel            int       `json:"skill_level"`
	Salary                float64   `json:"salary"`
	Motivation            float64   `json:"motivation"`
	Fatigue               float64   `json:"fatigue"`
	MonthsEmployed        int       `json:"months_employed"`
	TrainingDaysRemaining float64   `json:"training_days_remaining"`
	IsOnStrike            bool      `json:"is_on_strike"`
	StrikeDuration        float64   `json:"strike_duration"`
	Opinions              []string  `json:"opinions"`
}

// AddOpinion keeps the most recent opinion first and at most MaxOpinions entries.
func (e *Employee) AddOpinion(text string) {
	e.Opinions = append([]string{text}, e.Opinions...)
	if len(e.Opinions) > MaxOpinions {
		e.Opinions = e.Opinions[:MaxOpinions]
	}
}

func (e *Employee) Active() bool {
	return e.TrainingDaysRemaining <= 0
}

type RecruitCandidate struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Specialty  Specialty `json:"specialty"`
	SkillLevel int       `json:"skill_level"`
	Salary     float64   `json:"salary"`
	Motivation float64   `json:"motivation"`
}

type MarketData struct {
	CustomerBase           int64                 `json:"customer_base"`
	AcquisitionCoefficient float64               `json:"acquisition_coefficient"`
	MarketGrowth           float64               `json:"market_growth"`
	ChurnRate              float64               `json:"churn_rate"`
	Satisfaction           float64               `json:"satisfaction"`
	EconomicCycle          EconomicCycle         `json:"economic_cycle"`
	CycleMonthsRemaining   int                   `json:"cycle_months_remaining"`
	Demands                map[Specialty]float64 `json:"demands"`
	OrganicGrowth          float64               `json:"organic_growth"`
	// Unix milliseconds of the last major player action.
	LastActionTime int64 `json:"last_action_time"`
}

type Loan struct {
	ID               int64   `json:"id"`
	Amount           float64 `json:"amount"`
	InterestRate     float64 `json:"interest_rate"`
	RemainingMonths  int     `json:"remaining_months"`
	MonthlyPayment   float64 `json:"monthly_payment"`
	TotalPaid        float64 `json:"total_paid"`
	// Part of the current installment already charged by ticks.
	AccruedThisMonth float64 `json:"accrued_this_month"`
}

type MarketingChannel struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Budget     float64 `json:"budget"`
	Efficiency float64 `json:"efficiency"`
}

type Competitor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MarketShare float64 `json:"market_share"`
	GrowthRate  float64 `json:"growth_rate"`
}

type BoardMember struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Influence    float64     `json:"influence"`
	Satisfaction float64     `json:"satisfaction"`
	Personality  Personality `json:"personality"`
	SharePercent float64     `json:"share_percent"`
	LastVote     Vote        `json:"last_vote"`
}

type Office struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MaxEmployees  int     `json:"max_employees"`
	Rent          float64 `json:"rent"`
	RequiredLevel int     `json:"required_level"`
}

type Perk struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	MonthlyCost      float64 `json:"monthly_cost"`
	FatigueReduction float64 `json:"fatigue_reduction"`
	MotivationBoost  float64 `json:"motivation_boost"`
}

type InfrastructureItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Cost         float64  `json:"cost"`
	MonthlyCost  float64  `json:"monthly_cost"`
	Dependencies []string `json:"dependencies"`
	Condition    float64  `json:"condition"`
}

type Project struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Duration            float64           `json:"duration"`
	Progress            float64           `json:"progress"`
	Cost                float64           `json:"cost"`
	Budget              float64           `json:"budget"`
	TeamSize            int               `json:"team_size"`
	RequiredSpecialties map[Specialty]int `json:"required_specialties"`
	Reward              float64           `json:"reward"`
	ShareholderImpact   float64           `json:"shareholder_impact"`
	Status              ProjectStatus     `json:"status"`
	AssignedEmployees   []int64           `json:"assigned_employees"`
	// In-game day the tender lapses while still unassigned.
	ExpiresAt float64 `json:"expires_at"`
	StartedAt float64 `json:"started_at"`
}

type TemporaryBoost struct {
	ID            string    `json:"id"`
	Type          BoostType `json:"type"`
	Value         float64   `json:"value"`
	RemainingDays float64   `json:"remaining_days"`
	Cost          float64   `json:"cost"`
}

type MonthlyReport struct {
	Month              int           `json:"month"`
	Revenue            int64         `json:"revenue"`
	TotalSalaries      int64         `json:"total_salaries"`
	FixedCosts         int64         `json:"fixed_costs"`
	VariableCosts      int64         `json:"variable_costs"`
	MarketingBudget    int64         `json:"marketing_budget"`
	OfficeRent         int64         `json:"office_rent"`
	PerkCosts          int64         `json:"perk_costs"`
	InfrastructureCost int64         `json:"infrastructure_cost"`
	LoanPayments       int64         `json:"loan_payments"`
	TotalExpenses      int64         `json:"total_expenses"`
	Profit             int64         `json:"profit"`
	Taxes              int64         `json:"taxes"`
	NetProfit          int64         `json:"net_profit"`
	CashAfter          int64         `json:"cash_after"`
	CustomerBase       int64         `json:"customer_base"`
	NewCustomers       int64         `json:"new_customers"`
	ChurnedCustomers   int64         `json:"churned_customers"`
	EmployeeCount      int           `json:"employee_count"`
	Productivity       float64       `json:"productivity"`
	Satisfaction       float64       `json:"satisfaction"`
	EconomicCycle      EconomicCycle `json:"economic_cycle"`
	SharePrice         int64         `json:"share_price"`
	Settled            bool          `json:"settled"`
	Event              *Event        `json:"event"`
}

// Progress is the game-level record: calendar, reports and the event feed.
type Progress struct {
	CurrentMonth      int             `json:"current_month"`
	CurrentDay        float64         `json:"current_day"`
	Reports           []MonthlyReport `json:"reports"`
	EventHistory      []Event         `json:"event_history"`
	CurrentEvent      *Event          `json:"current_event"`
	GameOver          bool            `json:"game_over"`
	Achievements      []string        `json:"achievements"`
	CompletedProjects int             `json:"completed_projects"`
}
