package game

import (
	"fmt"
	"strings"
)

var officeCatalog = []Office{
	{ID: "garage", Name: "Founder's Garage", MaxEmployees: 5, Rent: 500, RequiredLevel: 1},
	{ID: "coworking", Name: "Coworking Space", MaxEmployees: 12, Rent: 2_500, RequiredLevel: 1},
	{ID: "loft", Name: "City Loft", MaxEmployees: 25, Rent: 6_000, RequiredLevel: 2},
	{ID: "tower", Name: "Business Tower Floor", MaxEmployees: 60, Rent: 15_000, RequiredLevel: 3},
	{ID: "campus", Name: "Corporate Campus", MaxEmployees: MaxEmployees, Rent: 40_000, RequiredLevel: 5},
}

var perkCatalog = []Perk{
	{ID: "coffee", Name: "Premium Coffee", MonthlyCost: 300, FatigueReduction: 1, MotivationBoost: 1},
	{ID: "remote", Name: "Remote Fridays", MonthlyCost: 0, FatigueReduction: 2, MotivationBoost: 2},
	{ID: "gym", Name: "Gym Membership", MonthlyCost: 1_200, FatigueReduction: 3, MotivationBoost: 1},
	{ID: "health", Name: "Health Insurance", MonthlyCost: 2_500, FatigueReduction: 2, MotivationBoost: 3},
	{ID: "chef", Name: "On-site Chef", MonthlyCost: 4_000, FatigueReduction: 2, MotivationBoost: 4},
}

var infrastructureCatalog = []InfrastructureItem{
	{ID: "network", Name: "Office Network", Cost: 8_000, MonthlyCost: 200, Condition: 100},
	{ID: "servers", Name: "Server Room", Cost: 25_000, MonthlyCost: 900, Dependencies: []string{"network"}, Condition: 100},
	{ID: "cloud", Name: "Cloud Platform", Cost: 15_000, MonthlyCost: 1_500, Dependencies: []string{"network"}, Condition: 100},
	{ID: "security", Name: "Security Operations", Cost: 20_000, MonthlyCost: 700, Dependencies: []string{"network", "servers"}, Condition: 100},
	{ID: "analytics", Name: "Analytics Stack", Cost: 18_000, MonthlyCost: 600, Dependencies: []string{"cloud", "servers"}, Condition: 100},
}

var channelCatalog = []MarketingChannel{
	{ID: "social", Name: "Social Media", Budget: 2_000, Efficiency: 0.02},
	{ID: "search", Name: "Search Ads", Budget: 0, Efficiency: 0.015},
	{ID: "events", Name: "Trade Events", Budget: 0, Efficiency: 0.01},
	{ID: "print", Name: "Print & Radio", Budget: 0, Efficiency: 0.006},
}

var competitorCatalog = []Competitor{
	{ID: "nimbus", Name: "Nimbus Labs", MarketShare: 22, GrowthRate: 0.02},
	{ID: "cobalt", Name: "Cobalt Dynamics", MarketShare: 18, GrowthRate: 0.015},
	{ID: "zenith", Name: "Zenith Retail", MarketShare: 12, GrowthRate: 0.03},
}

var boostCatalog = map[BoostType]TemporaryBoost{
	BoostMotivation: {Type: BoostMotivation, Value: 10, RemainingDays: 7, Cost: 3_000},
	BoostFatigue:    {Type: BoostFatigue, Value: 20, RemainingDays: 5, Cost: 2_500},
}

type projectTemplate struct {
	Title               string
	Duration            float64
	Cost                float64
	Budget              float64
	TeamSize            int
	RequiredSpecialties map[Specialty]int
	Reward              float64
	ShareholderImpact   float64
}

var projectTemplates = []projectTemplate{
	{Title: "Landing Page Redesign", Duration: 10, Cost: 1_000, Budget: 1_500, TeamSize: 1, RequiredSpecialties: map[Specialty]int{SpecialtyCreative: 1}, Reward: 12_000, ShareholderImpact: 2},
	{Title: "CRM Integration", Duration: 20, Cost: 3_000, Budget: 4_000, TeamSize: 2, RequiredSpecialties: map[Specialty]int{SpecialtyTech: 1}, Reward: 30_000, ShareholderImpact: 4},
	{Title: "Regional Sales Push", Duration: 15, Cost: 2_000, Budget: 3_000, TeamSize: 2, RequiredSpecialties: map[Specialty]int{SpecialtySales: 2}, Reward: 25_000, ShareholderImpact: 3},
	{Title: "Mobile App Launch", Duration: 40, Cost: 8_000, Budget: 9_000, TeamSize: 3, RequiredSpecialties: map[Specialty]int{SpecialtyTech: 2, SpecialtyCreative: 1}, Reward: 90_000, ShareholderImpact: 8},
	{Title: "Recruitment Drive", Duration: 12, Cost: 1_500, Budget: 2_000, TeamSize: 1, RequiredSpecialties: map[Specialty]int{SpecialtyHR: 1}, Reward: 14_000, ShareholderImpact: 2},
	{Title: "Process Overhaul", Duration: 30, Cost: 5_000, Budget: 5_000, TeamSize: 2, RequiredSpecialties: map[Specialty]int{SpecialtyManagement: 1}, Reward: 55_000, ShareholderImpact: 6},
}

var starterEmployees = []Employee{
	{ID: 1, Name: "Maya Lee", Role: "Full-stack Developer", Specialty: SpecialtyTech, SkillLevel: 3, Salary: 6_000, Motivation: 80, Fatigue: 10},
	{ID: 2, Name: "Iris Knox", Role: "Account Executive", Specialty: SpecialtySales, SkillLevel: 3, Salary: 5_000, Motivation: 85, Fatigue: 10},
	{ID: 3, Name: "Tara Sol", Role: "Product Designer", Specialty: SpecialtyCreative, SkillLevel: 2, Salary: 4_500, Motivation: 90, Fatigue: 5},
}

var boardNames = []string{"Angel Fund", "Family Office", "Harbor Ventures", "Northwind Capital", "Seedling Partners", "Atlas Holdings", "Granite Equity", "Summit Growth"}

func candidatePool(target int) []RecruitCandidate {
	first := []string{"Ibrahim", "Marie", "Oumar", "Adama", "Ndeye", "Seydou", "Clarisse", "Jean-Paul", "Arun", "Noah", "Kian", "Lea", "Ravi", "Nora", "Evan", "Zara"}
	last := []string{"Bah", "Ndour", "Cisse", "Keita", "Fall", "Diop", "Ouedraogo", "Mbike", "Vale", "Pike", "Moss", "Rowe", "Jain", "Park", "Reid", "Cross"}
	roles := []struct {
		Title     string
		Specialty Specialty
	}{
		{"Mobile Developer", SpecialtyTech},
		{"Data Analyst", SpecialtyTech},
		{"Community Manager", SpecialtyCreative},
		{"DevOps Engineer", SpecialtyTech},
		{"HR Assistant", SpecialtyHR},
		{"Support Technician", SpecialtySales},
		{"Graphic Designer", SpecialtyCreative},
		{"Backend Developer", SpecialtyTech},
		{"Sales Lead", SpecialtySales},
		{"Operations Manager", SpecialtyManagement},
	}

	out := make([]RecruitCandidate, 0, target)
	for i := 0; i < target; i++ {
		role := roles[i%len(roles)]
		skill := 2 + (i*3)%4
		salary := float64(3_500 + skill*1_200 + (i%5)*250)
		out = append(out, RecruitCandidate{
			ID:         int64(100 + i),
			Name:       fmt.Sprintf("%s %s", first[i%len(first)], last[(i*7)%len(last)]),
			Role:       role.Title,
			Specialty:  role.Specialty,
			SkillLevel: skill,
			Salary:     salary,
			Motivation: float64(70 + (i*11)%25),
		})
	}
	return out
}

func Offices() []Office {
	return append([]Office(nil), officeCatalog...)
}

func Perks() []Perk {
	return append([]Perk(nil), perkCatalog...)
}

func perkByID(id string) (Perk, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range perkCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Perk{}, false
}

func infrastructureCatalogCopy() []InfrastructureItem {
	out := make([]InfrastructureItem, len(infrastructureCatalog))
	for i, item := range infrastructureCatalog {
		item.Dependencies = append([]string(nil), item.Dependencies...)
		out[i] = item
	}
	return out
}
