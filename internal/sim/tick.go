package sim

import (
	"fmt"
	"math"

	"bizdom/internal/game"
)

const (
	boundaryEpsilon  = 1e-6
	tickWearMin      = 1.0
	tickWearMax      = 5.0
	trainingSkillUp  = 1
	trainingMotivate = 10.0
)

// tick applies one fractional step. All accruals are linear in
// dayFraction; counts go through stochastic rounding so tiny steps still
// add up. The caller holds e.mu.
func (e *Engine) tick(dayFraction float64) TickReport {
	out := TickReport{DayFraction: dayFraction}
	if dayFraction <= 0 {
		return out
	}
	s, r := e.state, e.rand
	historyLen := len(s.Progress.EventHistory)
	dayBefore := s.Progress.CurrentDay
	s.Progress.CurrentDay += dayFraction * game.DaysPerMonth

	// 1. tenders
	s.ExpireTenders()
	if s.PendingTenders() < e.opts.MaxPendingTenders && chance(r, e.opts.TenderRate*dayFraction) {
		s.SpawnTender(r, e.opts.TenderLifetimeDays)
	}

	// 2. infrastructure decay
	s.DecayInfrastructure(e.opts.InfraDecayPerMonth * dayFraction)

	// 3. projects
	for _, ev := range s.AdvanceProjects(dayFraction) {
		kind := NoticeEvent
		if ev.Type == game.EventLevelUp {
			kind = NoticeLevelUp
		}
		e.publish(kind, ev)
	}

	// 4. prorated P&L
	e.accrue(dayFraction)

	// 5. workforce
	e.driftWorkforce(dayFraction)

	// 6. market
	e.moveMarket(dayFraction)

	// 7. share price and boosts
	s.UpdateSharePrice(r, math.Floor(s.Progress.CurrentDay) > math.Floor(dayBefore))
	s.DecayBoosts(dayFraction * game.DaysPerMonth)

	// 8. board
	for _, ev := range s.BoardAutonomousActions(r, dayFraction, e.opts.Board) {
		e.publish(NoticeEvent, ev)
	}
	s.RefreshDerived()

	e.observe()

	// Month boundary reached by the clock.
	for !s.Progress.GameOver && s.Progress.CurrentDay >= float64(s.Progress.CurrentMonth*game.DaysPerMonth)-boundaryEpsilon {
		out.Months = append(out.Months, e.simulateMonth(true))
	}
	out.GameOver = s.Progress.GameOver
	out.Events = append(out.Events, s.Progress.EventHistory[historyLen:]...)
	e.log.Debug("tick", "day", s.Progress.CurrentDay, "cash", s.Company.Cash)
	return out
}

// accrue books the prorated operating result. Revenue is discounted by
// equipment obsolescence and missing infrastructure, and investors take
// their share before the company sees it.
func (e *Engine) accrue(dayFraction float64) {
	s := e.state
	revenue := GrossRevenue(s, s.Productivity()) *
		s.ObsolescenceMalus() *
		s.InfrastructureMalus() *
		(1 - s.Company.InvestorShare) *
		dayFraction
	ledger := CloseBooks(s, revenue, s.AccrueLoanPayments(dayFraction), dayFraction)
	s.Company.Cash += ledger.NetProfit
	if s.Company.Cash < 0 {
		s.AdjustBoardSatisfaction(-e.opts.NegativeCashErosion * dayFraction)
	}
}

func (e *Engine) driftWorkforce(dayFraction float64) {
	s, r, o := e.state, e.rand, e.opts
	strikeSeconds := dayFraction * o.SecondsPerMonth
	trainingDays := dayFraction * game.DaysPerMonth
	risk := s.StrikeRisk() / 100
	perkRelief := s.PerkFatigueReduction()
	perkBoost := s.PerkMotivationBoost()
	hr := s.HRBonus()

	striking := 0
	for _, emp := range s.Employees {
		if emp.IsOnStrike {
			striking++
		}
	}

	var resigned []int64
	for i := range s.Employees {
		emp := &s.Employees[i]
		critical := s.OnActiveProject(emp.ID)

		if emp.IsOnStrike {
			emp.StrikeDuration += strikeSeconds
			emp.Motivation = clampPct(emp.Motivation - o.StrikeMotivationDecay*dayFraction)
			emp.Fatigue = clampPct(emp.Fatigue - o.StrikeFatigueRecovery*dayFraction)
			if emp.Fatigue < o.StrikeEndFatigue {
				emp.IsOnStrike = false
				emp.StrikeDuration = 0
				emp.AddOpinion("Rested and back at work")
				continue
			}
			if emp.StrikeDuration > o.StrikeResignSeconds && !critical {
				resigned = append(resigned, emp.ID)
			}
			continue
		}

		gain := monthlyFatigueMin + r.Float64()*(monthlyFatigueMax-monthlyFatigueMin) - perkRelief
		if !emp.Active() {
			gain = -perkRelief - monthlyFatigueMin
		}
		emp.Fatigue = clampPct(emp.Fatigue + gain*dayFraction)

		wear := math.Max(0, tickWearMin+r.Float64()*(tickWearMax-tickWearMin)-hr)
		motivation := emp.Motivation + (perkBoost-wear)*dayFraction
		if emp.Fatigue > burnoutFatigue {
			motivation -= burnoutMotivationHit * dayFraction
		}
		motivation -= o.DominoPenalty * float64(striking) * dayFraction
		emp.Motivation = clampPct(motivation)

		if emp.TrainingDaysRemaining > 0 {
			emp.TrainingDaysRemaining -= trainingDays
			if emp.TrainingDaysRemaining <= 0 {
				emp.TrainingDaysRemaining = 0
				emp.SkillLevel = min(game.MaxSkill, emp.SkillLevel+trainingSkillUp)
				emp.Motivation = clampPct(emp.Motivation + trainingMotivate)
				emp.AddOpinion("Finished training")
			}
		}

		if emp.Fatigue > o.StrikeFatigueThreshold && !critical && chance(r, o.StrikeRate*risk*dayFraction) {
			emp.IsOnStrike = true
			emp.StrikeDuration = 0
			emp.AddOpinion("Walked out")
			e.log.Info("strike started", "employee_id", emp.ID, "fatigue", emp.Fatigue)
			e.publish(NoticeStrike, game.Event{
				Name:        "Strike",
				Description: fmt.Sprintf("%s has gone on strike.", emp.Name),
				Type:        game.EventWarning,
				Icon:        "✊",
			})
		}
	}

	for _, id := range resigned {
		emp, ok := s.Employee(id)
		if !ok {
			continue
		}
		name := emp.Name
		if err := s.FireEmployee(id); err != nil {
			continue
		}
		e.log.Info("employee resigned", "employee_id", id)
		e.publish(NoticeResignation, game.Event{
			Name:        "Resignation",
			Description: fmt.Sprintf("%s quit after an unresolved strike.", name),
			Type:        game.EventEmployeeDeparture,
			Icon:        "🚪",
		})
	}
}

func (e *Engine) moveMarket(dayFraction float64) {
	s, r, o := e.state, e.rand, e.opts
	m := &s.Market

	idle := float64(e.now().UnixMilli()-m.LastActionTime)/1000 > o.InactivitySeconds
	base := float64(m.CustomerBase)
	if idle {
		m.CustomerBase -= game.StochasticRound(r, base*o.OrganicDecline*dayFraction)
	} else {
		m.CustomerBase += game.StochasticRound(r, base*m.OrganicGrowth*dayFraction)
	}
	m.CustomerBase += game.StochasticRound(r, float64(s.EstimatedNewCustomers())*dayFraction)
	if m.CustomerBase < 0 {
		m.CustomerBase = 0
	}
	m.Satisfaction = s.SatisfactionScore()

	var total float64
	for i := range s.Competitors {
		c := &s.Competitors[i]
		c.MarketShare = math.Min(competitorShareCap, math.Max(0, c.MarketShare+(r.Float64()*2-1)*o.CompetitorJitter*dayFraction))
		total += c.MarketShare
	}
	rescaleCompetitors(s.Competitors, total)

	if m.Demands == nil {
		m.Demands = map[game.Specialty]float64{}
	}
	for _, sp := range game.Specialties {
		m.Demands[sp] = clampPct(m.Demands[sp] + (r.Float64()*2-1)*o.DemandStep)
	}
}

func chance(r game.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return r.Float64() < p
}
