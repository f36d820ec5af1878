package sim

import "bizdom/internal/game"

// Ledger is one period's operating P&L. Ticks and months share it so the
// prorated and monthly paths cannot drift apart.
type Ledger struct {
	Revenue        float64
	Salaries       float64
	Fixed          float64
	Variable       float64
	Marketing      float64
	Rent           float64
	Perks          float64
	Infrastructure float64
	Loans          float64
	Expenses       float64
	Profit         float64
	Taxes          float64
	NetProfit      float64
}

// GrossRevenue is customers × price × productivity × cycle multiplier.
func GrossRevenue(s *game.State, productivity float64) float64 {
	return float64(s.Market.CustomerBase) * s.Company.RevenuePerCustomer * productivity * s.Market.EconomicCycle.Multiplier()
}

// CloseBooks scales every recurring cost by scale (1 for a month,
// dayFraction for a tick) and computes taxes on positive profit only.
// revenue and loans are already scaled by the caller.
func CloseBooks(s *game.State, revenue, loans, scale float64) Ledger {
	l := Ledger{
		Revenue:        revenue,
		Salaries:       s.TotalSalaries() * scale,
		Fixed:          s.Company.FixedCosts * scale,
		Variable:       s.TotalVariableCosts() * scale,
		Marketing:      s.TotalMarketingBudget() * scale,
		Rent:           s.OfficeRent() * scale,
		Perks:          s.TotalPerkCosts() * scale,
		Infrastructure: s.InfrastructureMonthlyCost() * scale,
		Loans:          loans,
	}
	l.Expenses = l.Salaries + l.Fixed + l.Variable + l.Marketing + l.Rent + l.Perks + l.Infrastructure + l.Loans
	l.Profit = l.Revenue - l.Expenses
	if l.Profit > 0 {
		l.Taxes = l.Profit * s.Company.TaxRate
	}
	l.NetProfit = l.Profit - l.Taxes
	return l
}
