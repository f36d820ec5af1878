package quest

import (
	"bizdom/internal/game"
	"bizdom/internal/sim"
)

type Milestone struct {
	ID          string
	Title       string
	Description string
	reached     func(sim.Summary) bool
}

var milestones = []Milestone{
	{ID: "growing_team", Title: "Growing Team", Description: "Employ four people.", reached: func(s sim.Summary) bool { return s.EmployeeCount >= 4 }},
	{ID: "team_of_ten", Title: "Team of Ten", Description: "Employ ten people.", reached: func(s sim.Summary) bool { return s.EmployeeCount >= 10 }},
	{ID: "customers_1000", Title: "Thousand Customers", Description: "Serve 1,000 customers.", reached: func(s sim.Summary) bool { return s.CustomerBase >= 1_000 }},
	{ID: "cash_250k", Title: "Quarter Million", Description: "Hold 250k in cash.", reached: func(s sim.Summary) bool { return s.Cash >= 250_000 }},
	{ID: "moved_up", Title: "Moving Up", Description: "Move into a loft or better.", reached: func(s sim.Summary) bool { return s.OfficeTier >= 3 }},
	{ID: "first_delivery", Title: "First Delivery", Description: "Complete a project.", reached: func(s sim.Summary) bool { return s.CompletedProjects >= 1 }},
	{ID: "level_three", Title: "Established", Description: "Reach business level 3.", reached: func(s sim.Summary) bool { return s.Level >= 3 }},
	{ID: "first_year", Title: "First Year", Description: "Survive twelve months.", reached: func(s sim.Summary) bool { return len(s.Reports) >= 12 && !s.GameOver }},
	{ID: "in_the_black", Title: "In the Black", Description: "Close a month with net profit.", reached: func(s sim.Summary) bool {
		return len(s.Reports) > 0 && s.Reports[len(s.Reports)-1].NetProfit > 0
	}},
	{ID: "well_rested", Title: "Well Rested", Description: "Keep average fatigue under 30 after three months.", reached: func(s sim.Summary) bool {
		return len(s.Reports) >= 3 && s.EmployeeCount > 0 && s.AverageFatigue < 30
	}},
}

func Milestones() []Milestone {
	return append([]Milestone(nil), milestones...)
}

func unlocked(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func checkMilestones(sum sim.Summary) []sim.Outcome {
	var out []sim.Outcome
	for _, m := range milestones {
		if unlocked(sum.Achievements, m.ID) || !m.reached(sum) {
			continue
		}
		out = append(out, sim.Outcome{
			AchievementID: m.ID,
			Event: &game.Event{
				ID:          achievementEventID,
				Name:        "Achievement: " + m.Title,
				Description: m.Description,
				Type:        game.EventSuccess,
				Icon:        "🏆",
				Probability: 1,
			},
		})
	}
	return out
}
