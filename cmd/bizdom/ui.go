package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"bizdom/internal/game"
	"bizdom/internal/sim"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func renderSummary(s *game.State, sum sim.Summary) {
	accent.Printf("\n== %s (month %d, day %.1f) ==\n", orDash(s.Company.Name), sum.Month, sum.Day)
	fmt.Printf("CEO:            %s\n", orDash(s.Company.CEO.Name))
	fmt.Printf("Cash:           %s\n", colorizeMoney(sum.Cash))
	fmt.Printf("Customers:      %s\n", humanize.Comma(sum.CustomerBase))
	fmt.Printf("Satisfaction:   %.0f%%\n", sum.Satisfaction)
	fmt.Printf("Staff:          %d (%d on strike)\n", sum.EmployeeCount, sum.StrikingCount)
	fmt.Printf("Avg fatigue:    %.0f\n", sum.AverageFatigue)
	fmt.Printf("Productivity:   %.2f\n", s.Productivity())
	fmt.Printf("Strike risk:    %.0f%%\n", s.StrikeRisk())
	fmt.Printf("Office:         %s\n", sum.OfficeID)
	fmt.Printf("Level:          %d (%d projects delivered)\n", sum.Level, sum.CompletedProjects)
	fmt.Printf("Share price:    %s\n", money(s.Company.SharePrice))
	fmt.Printf("Board mood:     %.0f%%  CEO stake %.1f%%\n", s.Company.BoardSatisfaction, s.CEOShare())
	fmt.Printf("Cycle:          %s (%d months left)\n", s.Market.EconomicCycle, s.Market.CycleMonthsRemaining)
	if ev := s.Progress.CurrentEvent; ev != nil {
		fmt.Println()
		renderEvent(*ev)
	}
	if sum.GameOver {
		fmt.Println()
		printError("GAME OVER: the company is bankrupt. Run `bizdom new` to start again.")
	}
	fmt.Println()
}

func renderEvent(ev game.Event) {
	line := fmt.Sprintf("%s %s: %s", ev.Icon, ev.Name, ev.Description)
	switch ev.Type {
	case game.EventSuccess, game.EventGain, game.EventLevelUp:
		success.Println(line)
	case game.EventLoss, game.EventEmployeeDeparture:
		danger.Println(line)
	case game.EventWarning:
		warn.Println(line)
	default:
		neutral.Println(line)
	}
}

func renderStaff(s *game.State) {
	accent.Println("\n== STAFF ==")
	if len(s.Employees) == 0 {
		printInfo("Nobody works here yet. See `bizdom candidates`.")
		return
	}
	fmt.Printf("%-4s %-18s %-11s %5s %10s %6s %6s %-10s\n", "ID", "NAME", "SPECIALTY", "SKILL", "SALARY", "MOTIV", "FATIG", "STATUS")
	for _, e := range s.Employees {
		status := "working"
		switch {
		case e.IsOnStrike:
			status = danger.Sprint("striking")
		case e.TrainingDaysRemaining > 0:
			status = fmt.Sprintf("training %.0fd", math.Ceil(e.TrainingDaysRemaining))
		case s.OnActiveProject(e.ID):
			status = "project"
		}
		fmt.Printf("%-4d %-18s %-11s %5d %10s %6.0f %6.0f %-10s\n",
			e.ID, truncate(e.Name, 18), e.Specialty, e.SkillLevel, money(e.Salary), e.Motivation, e.Fatigue, status)
	}
	fmt.Println()
}

func renderCandidates(s *game.State) {
	accent.Println("\n== CANDIDATES ==")
	if len(s.RecruitPool) == 0 {
		printInfo("No candidates right now.")
		return
	}
	fmt.Printf("%-4s %-18s %-11s %5s %10s %6s\n", "ID", "NAME", "SPECIALTY", "SKILL", "SALARY", "MOTIV")
	for _, c := range s.RecruitPool {
		fmt.Printf("%-4d %-18s %-11s %5d %10s %6.0f\n",
			c.ID, truncate(c.Name, 18), c.Specialty, c.SkillLevel, money(c.Salary), c.Motivation)
	}
	fmt.Println()
}

func renderReport(r game.MonthlyReport) {
	accent.Printf("\n== MONTH %d REPORT ==\n", r.Month)
	fmt.Printf("Revenue:        %s\n", money(float64(r.Revenue)))
	fmt.Printf("Salaries:       %s\n", money(float64(r.TotalSalaries)))
	fmt.Printf("Fixed:          %s\n", money(float64(r.FixedCosts)))
	fmt.Printf("Variable:       %s\n", money(float64(r.VariableCosts)))
	fmt.Printf("Marketing:      %s\n", money(float64(r.MarketingBudget)))
	fmt.Printf("Rent:           %s\n", money(float64(r.OfficeRent)))
	fmt.Printf("Perks:          %s\n", money(float64(r.PerkCosts)))
	fmt.Printf("Infrastructure: %s\n", money(float64(r.InfrastructureCost)))
	fmt.Printf("Loans:          %s\n", money(float64(r.LoanPayments)))
	fmt.Printf("Taxes:          %s\n", money(float64(r.Taxes)))
	fmt.Printf("Net profit:     %s\n", colorizeMoney(float64(r.NetProfit)))
	fmt.Printf("Cash after:     %s\n", colorizeMoney(float64(r.CashAfter)))
	fmt.Printf("Customers:      %s (+%d / -%d)\n", humanize.Comma(r.CustomerBase), r.NewCustomers, r.ChurnedCustomers)
	if r.Event != nil {
		fmt.Println()
		renderEvent(*r.Event)
	}
	fmt.Println()
}

func renderProjects(s *game.State) {
	accent.Println("\n== PROJECTS ==")
	if len(s.Projects) == 0 {
		printInfo("No tenders on the table.")
		return
	}
	fmt.Printf("%-10s %-24s %-10s %8s %10s %10s %5s %-20s\n", "ID", "TITLE", "STATUS", "PROGRESS", "COST", "REWARD", "TEAM", "NEEDS")
	for _, p := range s.Projects {
		needs := make([]string, 0, len(p.RequiredSpecialties))
		for _, sp := range game.Specialties {
			if n := p.RequiredSpecialties[sp]; n > 0 {
				needs = append(needs, fmt.Sprintf("%s:%d", sp, n))
			}
		}
		fmt.Printf("%-10s %-24s %-10s %7.0f%% %10s %10s %2d/%-2d %-20s\n",
			truncate(p.ID, 10), truncate(p.Title, 24), p.Status, p.Progress,
			money(p.Cost), money(p.Reward), len(p.AssignedEmployees), p.TeamSize, strings.Join(needs, " "))
	}
	fmt.Println()
}

func renderBoard(s *game.State) {
	accent.Println("\n== BOARD ==")
	fmt.Printf("CEO stake %.1f%%, personal balance %s, board mood %.0f%%\n",
		s.CEOShare(), money(s.Company.CEO.PersonalBalance), s.Company.BoardSatisfaction)
	if len(s.Board) == 0 {
		printInfo("No outside shareholders.")
		return
	}
	fmt.Printf("%-14s %-18s %-13s %7s %6s %6s %-8s\n", "ID", "NAME", "PERSONALITY", "SHARE", "INFL", "MOOD", "LAST")
	for _, m := range s.Board {
		fmt.Printf("%-14s %-18s %-13s %6.1f%% %6.2f %6.0f %-8s\n",
			truncate(m.ID, 14), truncate(m.Name, 18), m.Personality, m.SharePercent, m.Influence, m.Satisfaction, m.LastVote)
	}
	fmt.Println()
}

func renderLoans(s *game.State) {
	accent.Println("\n== LOANS ==")
	if len(s.Loans) == 0 {
		printInfo("No open loans.")
		return
	}
	fmt.Printf("%-4s %12s %12s %8s %10s\n", "ID", "AMOUNT", "MONTHLY", "LEFT", "PAID")
	for _, l := range s.Loans {
		fmt.Printf("%-4d %12s %12s %8d %10s\n", l.ID, money(l.Amount), money(l.MonthlyPayment), l.RemainingMonths, money(l.TotalPaid))
	}
	fmt.Printf("Due each month: %s\n", money(s.LoanPaymentsDue()))
	fmt.Println()
}

func renderCatalog(s *game.State) {
	accent.Println("\n== OFFICES ==")
	for _, o := range s.Offices {
		mark := " "
		if o.ID == s.Company.CurrentOfficeID {
			mark = "*"
		}
		fmt.Printf("%s %-14s seats %-4d rent %-10s level %d\n", mark, o.ID, o.MaxEmployees, money(o.Rent), o.RequiredLevel)
	}
	accent.Println("\n== PERKS ==")
	for _, p := range s.Perks {
		mark := " "
		for _, id := range s.Company.ActivePerks {
			if id == p.ID {
				mark = "*"
			}
		}
		fmt.Printf("%s %-16s %10s/mo  fatigue -%.0f  motivation +%.0f\n", mark, p.ID, money(p.MonthlyCost), p.FatigueReduction, p.MotivationBoost)
	}
	accent.Println("\n== INFRASTRUCTURE ==")
	for _, it := range s.Infrastructure {
		mark := " "
		if s.Owns(it.ID) {
			mark = "*"
		}
		deps := "-"
		if len(it.Dependencies) > 0 {
			deps = strings.Join(it.Dependencies, ",")
		}
		fmt.Printf("%s %-14s %10s  %8s/mo  cond %3.0f%%  needs %s\n", mark, it.ID, money(it.Cost), money(it.MonthlyCost), it.Condition, deps)
	}
	fmt.Println()
}

func renderOK(msg string) error {
	printSuccess(msg)
	return nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func colorizeMoney(v float64) string {
	text := money(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + humanize.Comma(int64(math.Round(v))) + " €"
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
