package game

import "math"

func (s *State) EmployeeCount() int {
	return len(s.Employees)
}

func (s *State) TotalSalaries() float64 {
	var total float64
	for _, e := range s.Employees {
		total += e.Salary
	}
	return total
}

func (s *State) boostSum(t BoostType) float64 {
	var sum float64
	for _, b := range s.Boosts {
		if b.Type == t && b.RemainingDays > 0 {
			sum += b.Value
		}
	}
	return sum
}

func (s *State) countSpecialty(sp Specialty) int {
	n := 0
	for _, e := range s.Employees {
		if e.Specialty == sp {
			n++
		}
	}
	return n
}

// EffectiveFatigue subtracts active fatigue boosts, floored at zero.
func (s *State) EffectiveFatigue(e Employee) float64 {
	return math.Max(0, e.Fatigue-s.boostSum(BoostFatigue))
}

// Productivity averages skill × motivation × fatigue penalty over employees
// not in training, then applies the management and motivation-boost multipliers.
func (s *State) Productivity() float64 {
	var total float64
	active := 0
	for _, e := range s.Employees {
		if !e.Active() {
			continue
		}
		fatiguePenalty := 1 - s.EffectiveFatigue(e)/200
		total += float64(e.SkillLevel) * (e.Motivation / 100) * fatiguePenalty
		active++
	}
	if active == 0 {
		return 0
	}
	mean := total / float64(active)
	mean *= 1 + 0.05*float64(s.countSpecialty(SpecialtyManagement))
	mean *= 1 + s.boostSum(BoostMotivation)/100
	return mean
}

func (s *State) SalesBonus() float64 {
	return 1 + 0.1*float64(s.countSpecialty(SpecialtySales))
}

func (s *State) TechBonus() float64 {
	return math.Min(0.5, 0.08*float64(s.countSpecialty(SpecialtyTech)))
}

func (s *State) HRBonus() float64 {
	return 2 * float64(s.countSpecialty(SpecialtyHR))
}

func (s *State) TotalMarketingBudget() float64 {
	var total float64
	for _, c := range s.MarketingChannels {
		total += c.Budget
	}
	return total
}

func (s *State) EstimatedNewCustomers() int64 {
	var reach float64
	for _, c := range s.MarketingChannels {
		reach += c.Budget * c.Efficiency
	}
	return Round(math.Round(reach) * s.SalesBonus())
}

func (s *State) SatisfactionScore() float64 {
	if s.Market.CustomerBase <= 0 {
		return 100
	}
	ratio := float64(len(s.Employees)) / float64(s.Market.CustomerBase)
	return math.Round(clampPercent(ratio * 2000))
}

func (s *State) AverageFatigue() float64 {
	if len(s.Employees) == 0 {
		return 0
	}
	var sum float64
	for _, e := range s.Employees {
		sum += e.Fatigue
	}
	return sum / float64(len(s.Employees))
}

func (s *State) AverageMotivation() float64 {
	if len(s.Employees) == 0 {
		return 0
	}
	var sum float64
	for _, e := range s.Employees {
		sum += e.Motivation
	}
	return sum / float64(len(s.Employees))
}

// StrikeRisk is the deterministic risk score.
func (s *State) StrikeRisk() float64 {
	fatigueTerm := math.Max(0, s.AverageFatigue()-50) * 2
	perkTerm := math.Max(0, 50-15*float64(len(s.Company.ActivePerks)))
	return clampPercent(fatigueTerm + perkTerm)
}

// StrikeRiskDisplay adds the ±1 jitter shown in real-time mode.
func (s *State) StrikeRiskDisplay(r Rand) float64 {
	return clampPercent(s.StrikeRisk() + jitter(r, 1))
}

// MissingDependencies counts dependencies of an item the company does not own.
func (s *State) MissingDependencies(item InfrastructureItem) int {
	missing := 0
	for _, dep := range item.Dependencies {
		if !s.Owns(dep) {
			missing++
		}
	}
	return missing
}

func (s *State) InfrastructureMalus() float64 {
	malus := 1.0
	for _, id := range s.Company.OwnedInfrastructure {
		idx := s.infraIndex(id)
		if idx < 0 {
			continue
		}
		malus *= math.Pow(0.85, float64(s.MissingDependencies(s.Infrastructure[idx])))
	}
	return malus
}

func (s *State) InfrastructureMonthlyCost() float64 {
	var total float64
	for _, id := range s.Company.OwnedInfrastructure {
		if idx := s.infraIndex(id); idx >= 0 {
			total += s.Infrastructure[idx].MonthlyCost
		}
	}
	return total
}

func (s *State) GeneralScore() float64 {
	score := math.Min(250, s.Company.Cash/2000) +
		10*float64(len(s.Employees)) +
		2*s.AverageMotivation() +
		30*float64(s.Company.EquipmentLevel) +
		2*s.Company.BoardSatisfaction
	return clamp(score, 0, 1000)
}

func (s *State) OfficeRent() float64 {
	office, ok := s.CurrentOffice()
	if !ok {
		return 0
	}
	return office.Rent
}

func (s *State) activePerks() []Perk {
	var out []Perk
	for _, id := range s.Company.ActivePerks {
		for _, p := range s.Perks {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (s *State) TotalPerkCosts() float64 {
	var total float64
	for _, p := range s.activePerks() {
		total += p.MonthlyCost
	}
	return total
}

func (s *State) PerkFatigueReduction() float64 {
	var total float64
	for _, p := range s.activePerks() {
		total += p.FatigueReduction
	}
	return total
}

func (s *State) PerkMotivationBoost() float64 {
	var total float64
	for _, p := range s.activePerks() {
		total += p.MotivationBoost
	}
	return total
}

func (s *State) TotalVariableCosts() float64 {
	return float64(len(s.Employees)) * s.Company.VariableCostPerEmployee
}

// LoanPaymentsDue is the sum of scheduled payments without processing them.
func (s *State) LoanPaymentsDue() float64 {
	var total float64
	for _, l := range s.Loans {
		total += l.MonthlyPayment
	}
	return total
}

// CEOShare is whatever equity the board does not hold.
func (s *State) CEOShare() float64 {
	var board float64
	for _, m := range s.Board {
		board += m.SharePercent
	}
	return 100 - board
}

// MonthsSinceUpgrade feeds the obsolescence malus.
func (s *State) MonthsSinceUpgrade() int {
	months := s.Progress.CurrentMonth - s.Company.LastUpgradeMonth
	if months < 0 {
		return 0
	}
	return months
}

func (s *State) ObsolescenceMalus() float64 {
	return math.Max(0.5, 1-0.1*float64(s.MonthsSinceUpgrade()))
}

// OnActiveProject reports whether the employee is on an active project's team.
func (s *State) OnActiveProject(id int64) bool {
	for _, p := range s.Projects {
		if p.Status != ProjectActive {
			continue
		}
		for _, assigned := range p.AssignedEmployees {
			if assigned == id {
				return true
			}
		}
	}
	return false
}

func (s *State) LastReport() (MonthlyReport, bool) {
	if len(s.Progress.Reports) == 0 {
		return MonthlyReport{}, false
	}
	return s.Progress.Reports[len(s.Progress.Reports)-1], true
}

func (s *State) CashHistory() []int64 {
	out := make([]int64, len(s.Progress.Reports))
	for i, r := range s.Progress.Reports {
		out[i] = r.CashAfter
	}
	return out
}

func (s *State) RevenueHistory() []int64 {
	out := make([]int64, len(s.Progress.Reports))
	for i, r := range s.Progress.Reports {
		out[i] = r.Revenue
	}
	return out
}

func (s *State) NetProfitHistory() []int64 {
	out := make([]int64, len(s.Progress.Reports))
	for i, r := range s.Progress.Reports {
		out[i] = r.NetProfit
	}
	return out
}
