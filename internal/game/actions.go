package game

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

var blockedNameFragments = []string{
	"admin",
	"shit",
	"fuck",
	"nazi",
}

func validateEntityName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 40 {
		return ErrInvalidName
	}
	lower := strings.ToLower(name)
	for _, frag := range blockedNameFragments {
		if strings.Contains(lower, frag) {
			return ErrInvalidName
		}
	}
	return nil
}

// Configure completes onboarding.
func (s *State) Configure(companyName, ceoName, appearance string) error {
	if err := validateEntityName(companyName); err != nil {
		return err
	}
	if err := validateEntityName(ceoName); err != nil {
		return err
	}
	s.Company.Name = strings.TrimSpace(companyName)
	s.Company.CEO.Name = strings.TrimSpace(ceoName)
	if strings.TrimSpace(appearance) != "" {
		s.Company.CEO.Appearance = strings.TrimSpace(appearance)
	}
	s.Company.IsConfigured = true
	return nil
}

func (s *State) HireEmployee(candidateID int64) error {
	idx := -1
	for i, c := range s.RecruitPool {
		if c.ID == candidateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCandidateNotFound
	}
	office, ok := s.CurrentOffice()
	if !ok || len(s.Employees) >= office.MaxEmployees {
		return ErrOfficeFull
	}
	if s.employeeIndex(candidateID) >= 0 {
		return ErrCandidateNotFound
	}
	c := s.RecruitPool[idx]
	s.RecruitPool = append(s.RecruitPool[:idx], s.RecruitPool[idx+1:]...)
	s.Employees = append(s.Employees, Employee{
		ID:         c.ID,
		Name:       c.Name,
		Role:       c.Role,
		Specialty:  c.Specialty,
		SkillLevel: clampInt(c.SkillLevel, 1, MaxSkill),
		Salary:     c.Salary,
		Motivation: clampPercent(c.Motivation),
		Opinions:   []string{},
	})
	return nil
}

func (s *State) FireEmployee(id int64) error {
	idx := s.employeeIndex(id)
	if idx < 0 {
		return ErrEmployeeNotFound
	}
	s.removeEmployeeAt(idx)
	for i := range s.Employees {
		e := &s.Employees[i]
		e.Motivation = clampPercent(e.Motivation - 3)
	}
	return nil
}

func (s *State) RaiseSalary(id int64, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	e, ok := s.Employee(id)
	if !ok {
		return ErrEmployeeNotFound
	}
	e.Salary += amount
	e.Motivation = clampPercent(e.Motivation + 10)
	e.AddOpinion("Appreciates the raise")
	return nil
}

// TrainingCost scales with the current skill level.
func TrainingCost(e Employee) float64 {
	return 1_000 * float64(e.SkillLevel)
}

func (s *State) TrainEmployee(id int64) error {
	e, ok := s.Employee(id)
	if !ok {
		return ErrEmployeeNotFound
	}
	if e.TrainingDaysRemaining > 0 {
		return ErrAlreadyTraining
	}
	if e.SkillLevel >= MaxSkill {
		return ErrMaxSkill
	}
	if e.IsOnStrike {
		return ErrOnStrike
	}
	cost := TrainingCost(*e)
	if s.Company.Cash < cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= cost
	e.TrainingDaysRemaining = TrainingDays
	return nil
}

// ResolveStrike negotiates an employee back to work for half a month's salary.
func (s *State) ResolveStrike(id int64) error {
	e, ok := s.Employee(id)
	if !ok {
		return ErrEmployeeNotFound
	}
	if !e.IsOnStrike {
		return ErrNotOnStrike
	}
	cost := e.Salary / 2
	if s.Company.Cash < cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= cost
	e.IsOnStrike = false
	e.StrikeDuration = 0
	e.Motivation = clampPercent(e.Motivation + 20)
	e.Fatigue = clampPercent(e.Fatigue - 30)
	e.AddOpinion("Management listened")
	return nil
}

func (s *State) SetMarketingBudget(channelID string, budget float64) error {
	if budget < 0 {
		budget = 0
	}
	for i := range s.MarketingChannels {
		if s.MarketingChannels[i].ID == channelID {
			s.MarketingChannels[i].Budget = budget
			return nil
		}
	}
	return ErrChannelNotFound
}

func (s *State) TakeLoan(amount float64, months int) (Loan, error) {
	if amount <= 0 || months <= 0 {
		return Loan{}, ErrInvalidAmount
	}
	loan := Loan{
		ID:              s.NextLoanID,
		Amount:          amount,
		InterestRate:    LoanMonthlyRate,
		RemainingMonths: months,
		MonthlyPayment:  LoanMonthlyPayment(amount, LoanMonthlyRate, months),
	}
	s.NextLoanID++
	s.Loans = append(s.Loans, loan)
	s.Company.Cash += amount
	return loan, nil
}

// RepayLoan settles every remaining installment at once, less whatever
// ticks already charged against the current one.
func (s *State) RepayLoan(id int64) error {
	for i := range s.Loans {
		l := &s.Loans[i]
		if l.ID != id {
			continue
		}
		due := l.MonthlyPayment*float64(l.RemainingMonths) - l.AccruedThisMonth
		if s.Company.Cash < due {
			return ErrInsufficientFunds
		}
		s.Company.Cash -= due
		s.Loans = append(s.Loans[:i], s.Loans[i+1:]...)
		return nil
	}
	return ErrLoanNotFound
}

// AccrueLoanPayments charges dayFraction of every installment against the
// current month and returns the amount. A loan never accrues more than one
// installment between two closes.
func (s *State) AccrueLoanPayments(dayFraction float64) float64 {
	var total float64
	for i := range s.Loans {
		l := &s.Loans[i]
		charge := math.Min(l.MonthlyPayment*dayFraction, l.MonthlyPayment-l.AccruedThisMonth)
		if charge <= 0 {
			continue
		}
		l.AccruedThisMonth += charge
		total += charge
	}
	return total
}

// ProcessLoanPayments books one installment on every loan and drops
// exhausted loans. It returns the nominal installments and the part of them
// ticks have not charged yet. It does not touch cash; the caller folds the
// amounts into expenses.
func (s *State) ProcessLoanPayments() (installments, outstanding float64) {
	kept := s.Loans[:0]
	for _, l := range s.Loans {
		if l.RemainingMonths <= 0 {
			continue
		}
		l.TotalPaid += l.MonthlyPayment
		l.RemainingMonths--
		installments += l.MonthlyPayment
		outstanding += math.Max(0, l.MonthlyPayment-l.AccruedThisMonth)
		l.AccruedThisMonth = 0
		if l.RemainingMonths > 0 {
			kept = append(kept, l)
		}
	}
	s.Loans = kept
	return installments, outstanding
}

func (s *State) BuyPerk(id string) error {
	p, ok := perkByID(id)
	if !ok {
		return ErrPerkNotFound
	}
	if containsString(s.Company.ActivePerks, p.ID) {
		return ErrAlreadyOwned
	}
	s.Company.ActivePerks = append(s.Company.ActivePerks, p.ID)
	return nil
}

func (s *State) RemovePerk(id string) error {
	for i, pid := range s.Company.ActivePerks {
		if pid == id {
			s.Company.ActivePerks = append(s.Company.ActivePerks[:i], s.Company.ActivePerks[i+1:]...)
			return nil
		}
	}
	return ErrNotOwned
}

func (s *State) MoveOffice(id string) error {
	var target *Office
	for i := range s.Offices {
		if s.Offices[i].ID == id {
			target = &s.Offices[i]
			break
		}
	}
	if target == nil {
		return ErrOfficeNotFound
	}
	if target.ID == s.Company.CurrentOfficeID {
		return ErrAlreadyOwned
	}
	if s.Company.Level < target.RequiredLevel {
		return ErrOfficeLocked
	}
	if len(s.Employees) > target.MaxEmployees {
		return ErrOfficeTooSmall
	}
	moving := target.Rent
	if s.Company.Cash < moving {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= moving
	s.Company.CurrentOfficeID = target.ID
	return nil
}

func (s *State) BuyInfrastructure(id string) error {
	idx := s.infraIndex(id)
	if idx < 0 {
		return ErrInfraNotFound
	}
	if s.Owns(id) {
		return ErrAlreadyOwned
	}
	item := &s.Infrastructure[idx]
	if s.Company.Cash < item.Cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= item.Cost
	item.Condition = 100
	s.Company.OwnedInfrastructure = append(s.Company.OwnedInfrastructure, id)
	return nil
}

// RepairCost scales with missing condition.
func RepairCost(item InfrastructureItem) float64 {
	return item.Cost * 0.5 * (100 - item.Condition) / 100
}

func (s *State) RepairInfrastructure(id string) error {
	idx := s.infraIndex(id)
	if idx < 0 {
		return ErrInfraNotFound
	}
	if !s.Owns(id) {
		return ErrNotOwned
	}
	item := &s.Infrastructure[idx]
	cost := RepairCost(*item)
	if s.Company.Cash < cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= cost
	item.Condition = 100
	return nil
}

// DecayInfrastructure lowers every owned item's condition.
func (s *State) DecayInfrastructure(amount float64) {
	for _, id := range s.Company.OwnedInfrastructure {
		if idx := s.infraIndex(id); idx >= 0 {
			item := &s.Infrastructure[idx]
			item.Condition = clampPercent(item.Condition - amount)
		}
	}
}

const MaxEquipmentLevel = 10

func EquipmentUpgradeCost(level int) float64 {
	return 20_000 * float64(level)
}

func (s *State) UpgradeEquipment() error {
	if s.Company.EquipmentLevel >= MaxEquipmentLevel {
		return ErrEquipmentMaxLevel
	}
	cost := EquipmentUpgradeCost(s.Company.EquipmentLevel)
	if s.Company.Cash < cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= cost
	s.Company.EquipmentLevel++
	s.Company.LastUpgradeMonth = s.Progress.CurrentMonth
	return nil
}

func (s *State) BuyBoost(t BoostType) (TemporaryBoost, error) {
	tmpl, ok := boostCatalog[t]
	if !ok {
		return TemporaryBoost{}, ErrUnknownBoost
	}
	if s.Company.Cash < tmpl.Cost {
		return TemporaryBoost{}, ErrInsufficientFunds
	}
	s.Company.Cash -= tmpl.Cost
	tmpl.ID = uuid.NewString()
	s.Boosts = append(s.Boosts, tmpl)
	return tmpl, nil
}

// DecayBoosts counts down boost durations and drops expired ones.
func (s *State) DecayBoosts(days float64) {
	kept := s.Boosts[:0]
	for _, b := range s.Boosts {
		b.RemainingDays -= days
		if b.RemainingDays > 0 {
			kept = append(kept, b)
		}
	}
	s.Boosts = kept
}

// PublishEvent makes ev the current event and appends it to the history.
func (s *State) PublishEvent(ev Event) {
	cp := ev
	s.Progress.CurrentEvent = &cp
	s.Progress.EventHistory = append(s.Progress.EventHistory, ev)
}

func (s *State) DismissEvent() {
	s.Progress.CurrentEvent = nil
}

func (s *State) UnlockAchievement(id string) bool {
	if containsString(s.Progress.Achievements, id) {
		return false
	}
	s.Progress.Achievements = append(s.Progress.Achievements, id)
	return true
}
