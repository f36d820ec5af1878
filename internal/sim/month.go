package sim

import (
	"math"

	"bizdom/internal/game"
)

const (
	skillUpEveryMonths   = 6
	monthlyFatigueMin    = 5.0
	monthlyFatigueMax    = 15.0
	burnoutFatigue       = 80.0
	burnoutMotivationHit = 10.0
	wearMin              = 1.0
	wearMax              = 5.0
	motivationFloor      = 10.0
	competitorShareCap   = 40.0
	competitorShareTotal = 95.0
	cycleMinMonths       = 6
	cycleMaxMonths       = 12
)

// churnMultiplier punishes low satisfaction.
func churnMultiplier(satisfaction float64) float64 {
	switch {
	case satisfaction < 50:
		return 2
	case satisfaction < 70:
		return 1.5
	default:
		return 1
	}
}

// simulateMonth runs the ordered monthly pipeline. In settled mode the
// month was reached by ticks that already accrued operating P&L, drift and
// customer acquisition, so those steps only report and are not re-applied.
// The caller holds e.mu.
func (e *Engine) simulateMonth(settled bool) game.MonthlyReport {
	s, r := e.state, e.rand

	// 1. experience
	for i := range s.Employees {
		emp := &s.Employees[i]
		emp.MonthsEmployed++
		if emp.MonthsEmployed%skillUpEveryMonths == 0 && emp.SkillLevel < game.MaxSkill {
			emp.SkillLevel++
		}
	}

	if !settled {
		// 2. fatigue accrual
		perkRelief := s.PerkFatigueReduction()
		for i := range s.Employees {
			emp := &s.Employees[i]
			gain := monthlyFatigueMin + r.Float64()*(monthlyFatigueMax-monthlyFatigueMin) - perkRelief
			emp.Fatigue = clampPct(emp.Fatigue + gain)
			if emp.Fatigue > burnoutFatigue {
				emp.Motivation = clampPct(emp.Motivation - burnoutMotivationHit)
			}
		}
		// 3. perk motivation
		if boost := s.PerkMotivationBoost(); boost != 0 {
			for i := range s.Employees {
				s.Employees[i].Motivation = clampPct(s.Employees[i].Motivation + boost)
			}
		}
	}

	// 4. productivity
	productivity := s.Productivity()

	// 5. acquisition and market growth
	var newCustomers int64
	if !settled {
		newCustomers = s.EstimatedNewCustomers()
		base := s.Market.CustomerBase + newCustomers
		s.Market.CustomerBase = game.Round(float64(base) * (1 + s.Market.MarketGrowth))
	}

	// 6. churn
	churned := game.Round(float64(s.Market.CustomerBase) * s.Market.ChurnRate * churnMultiplier(s.Market.Satisfaction))
	if churned < 0 {
		churned = 0
	}
	s.Market.CustomerBase -= churned
	if s.Market.CustomerBase < 0 {
		s.Market.CustomerBase = 0
	}

	// 7. satisfaction
	s.Market.Satisfaction = s.SatisfactionScore()

	// 8. economic cycle
	e.advanceCycle()

	// 9-11. revenue, expenses, taxes
	revenue := GrossRevenue(s, productivity)
	installments, outstanding := s.ProcessLoanPayments()
	loans := outstanding
	if settled {
		loans = installments
	}
	ledger := CloseBooks(s, revenue, loans, 1)

	// 12. one event, one cash update
	ev := e.roller.Roll(r)
	eventDelta := s.ApplyEvent(r, ev)
	delta := eventDelta
	if settled {
		// ticks accrued the installments at the loans' age; book the rest
		delta -= outstanding
	} else {
		delta += ledger.NetProfit
	}
	s.Company.Cash += delta
	if ev != nil {
		e.publish(NoticeEvent, *ev)
	}

	// 13. usage wear
	if !settled {
		hr := s.HRBonus()
		for i := range s.Employees {
			emp := &s.Employees[i]
			wear := math.Max(0, wearMin+r.Float64()*(wearMax-wearMin)-hr)
			if emp.Motivation > motivationFloor {
				emp.Motivation = math.Max(motivationFloor, emp.Motivation-wear)
			}
		}
	}

	// 14. competitors
	growCompetitors(s.Competitors)

	// 15. share price, depreciation, board
	s.UpdateSharePrice(r, true)
	if !settled {
		s.DecayInfrastructure(e.opts.InfraDecayPerMonth)
		for _, bev := range s.BoardAutonomousActions(r, 1, e.opts.Board) {
			e.publish(NoticeEvent, bev)
		}
	}
	s.RefreshDerived()

	// 16. report
	report := game.MonthlyReport{
		Month:              s.Progress.CurrentMonth,
		Revenue:            game.Round(ledger.Revenue),
		TotalSalaries:      game.Round(ledger.Salaries),
		FixedCosts:         game.Round(ledger.Fixed),
		VariableCosts:      game.Round(ledger.Variable),
		MarketingBudget:    game.Round(ledger.Marketing),
		OfficeRent:         game.Round(ledger.Rent),
		PerkCosts:          game.Round(ledger.Perks),
		InfrastructureCost: game.Round(ledger.Infrastructure),
		LoanPayments:       game.Round(ledger.Loans),
		TotalExpenses:      game.Round(ledger.Expenses),
		Profit:             game.Round(ledger.Profit),
		Taxes:              game.Round(ledger.Taxes),
		NetProfit:          game.Round(ledger.NetProfit),
		CashAfter:          game.Round(s.Company.Cash),
		CustomerBase:       s.Market.CustomerBase,
		NewCustomers:       newCustomers,
		ChurnedCustomers:   churned,
		EmployeeCount:      s.EmployeeCount(),
		Productivity:       math.Round(productivity*100) / 100,
		Satisfaction:       s.Market.Satisfaction,
		EconomicCycle:      s.Market.EconomicCycle,
		SharePrice:         game.Round(s.Company.SharePrice),
		Settled:            settled,
		Event:              ev,
	}
	s.Progress.Reports = append(s.Progress.Reports, report)

	// 17. collaborators
	e.observe()
	rep := report
	e.emit(NoticeMonthClosed, nil, &rep)

	// 18. month counter
	s.Progress.CurrentMonth++

	// 19. bankruptcy
	if s.Company.Cash <= 0 {
		s.Progress.GameOver = true
		e.log.Warn("company bankrupt", "month", report.Month, "cash", s.Company.Cash)
		e.emit(NoticeGameOver, nil, &rep)
	}
	e.log.Info("month closed",
		"month", report.Month,
		"cash", report.CashAfter,
		"net_profit", report.NetProfit,
		"settled", settled,
	)

	// 20. autosave
	if e.opts.Autosave && e.store != nil {
		if raw, err := s.Snapshot(); err == nil {
			e.pending = raw
		} else {
			e.log.Warn("autosave snapshot failed", "err", err)
		}
	}
	return report
}

func (e *Engine) advanceCycle() {
	m := &e.state.Market
	m.CycleMonthsRemaining--
	if m.CycleMonthsRemaining > 0 {
		return
	}
	roll := e.rand.Float64()
	switch {
	case roll < 0.4:
		m.EconomicCycle = game.CycleStable
	case roll < 0.7:
		m.EconomicCycle = game.CycleGrowth
	default:
		m.EconomicCycle = game.CycleRecession
	}
	m.CycleMonthsRemaining = cycleMinMonths + e.rand.Intn(cycleMaxMonths-cycleMinMonths+1)
	if m.Demands == nil {
		m.Demands = map[game.Specialty]float64{}
	}
	for _, sp := range game.Specialties {
		m.Demands[sp] = math.Round(e.rand.Float64() * 100)
	}
}

func growCompetitors(cs []game.Competitor) {
	var total float64
	for i := range cs {
		c := &cs[i]
		c.MarketShare = math.Min(competitorShareCap, math.Max(0, c.MarketShare*(1+c.GrowthRate)))
		total += c.MarketShare
	}
	rescaleCompetitors(cs, total)
}

func rescaleCompetitors(cs []game.Competitor, total float64) {
	if total <= competitorShareTotal {
		return
	}
	k := competitorShareTotal / total
	for i := range cs {
		cs[i].MarketShare *= k
	}
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
