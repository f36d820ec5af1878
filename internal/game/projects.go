package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

const (
	ProjectsPerLevel      = 3
	projectFailurePenalty = 5.0
	progressScale         = 3000.0
)

// PendingTenders counts open offers.
func (s *State) PendingTenders() int {
	n := 0
	for _, p := range s.Projects {
		if p.Status == ProjectPending {
			n++
		}
	}
	return n
}

// ExpireTenders removes pending, unassigned offers past their deadline.
func (s *State) ExpireTenders() int {
	kept := s.Projects[:0]
	dropped := 0
	for _, p := range s.Projects {
		if p.Status == ProjectPending && len(p.AssignedEmployees) == 0 && p.ExpiresAt <= s.Progress.CurrentDay {
			dropped++
			continue
		}
		kept = append(kept, p)
	}
	s.Projects = kept
	return dropped
}

// SpawnTender adds a fresh offer from the template catalogue. Rewards scale
// gently with the business level.
func (s *State) SpawnTender(r Rand, lifetimeDays float64) Project {
	tmpl := projectTemplates[pick(r, len(projectTemplates))]
	scale := 1 + 0.25*float64(s.Company.Level-1)
	required := make(map[Specialty]int, len(tmpl.RequiredSpecialties))
	for sp, n := range tmpl.RequiredSpecialties {
		required[sp] = n
	}
	p := Project{
		ID:                  uuid.NewString(),
		Title:               tmpl.Title,
		Duration:            tmpl.Duration,
		Cost:                tmpl.Cost,
		Budget:              tmpl.Budget,
		TeamSize:            tmpl.TeamSize,
		RequiredSpecialties: required,
		Reward:              math.Round(tmpl.Reward * scale * (1 + jitter(r, 0.1))),
		ShareholderImpact:   tmpl.ShareholderImpact,
		Status:              ProjectPending,
		AssignedEmployees:   []int64{},
		ExpiresAt:           s.Progress.CurrentDay + lifetimeDays,
	}
	s.Projects = append(s.Projects, p)
	return p
}

// assignedElsewhere reports whether the employee already sits on a pending
// or active team.
func (s *State) assignedElsewhere(employeeID int64) bool {
	for _, p := range s.Projects {
		if p.Status != ProjectPending && p.Status != ProjectActive {
			continue
		}
		for _, id := range p.AssignedEmployees {
			if id == employeeID {
				return true
			}
		}
	}
	return false
}

func (s *State) AssignEmployee(projectID string, employeeID int64) error {
	idx := s.projectIndex(projectID)
	if idx < 0 {
		return ErrProjectNotFound
	}
	p := &s.Projects[idx]
	if p.Status != ProjectPending {
		return ErrProjectNotPending
	}
	e, ok := s.Employee(employeeID)
	if !ok {
		return ErrEmployeeNotFound
	}
	if e.IsOnStrike {
		return ErrOnStrike
	}
	if s.assignedElsewhere(employeeID) {
		return ErrEmployeeBusy
	}
	if len(p.AssignedEmployees) >= p.TeamSize {
		return ErrTeamFull
	}
	p.AssignedEmployees = append(p.AssignedEmployees, employeeID)
	return nil
}

func (s *State) UnassignEmployee(projectID string, employeeID int64) error {
	idx := s.projectIndex(projectID)
	if idx < 0 {
		return ErrProjectNotFound
	}
	p := &s.Projects[idx]
	if p.Status != ProjectPending {
		return ErrProjectNotPending
	}
	before := len(p.AssignedEmployees)
	p.AssignedEmployees = removeID(p.AssignedEmployees, employeeID)
	if len(p.AssignedEmployees) == before {
		return ErrNotAssigned
	}
	return nil
}

// StartProject activates a fully staffed tender and pays its activation fee.
func (s *State) StartProject(projectID string) error {
	idx := s.projectIndex(projectID)
	if idx < 0 {
		return ErrProjectNotFound
	}
	p := &s.Projects[idx]
	if p.Status != ProjectPending {
		return ErrProjectNotPending
	}
	if len(p.AssignedEmployees) < p.TeamSize {
		return ErrTeamIncomplete
	}
	have := map[Specialty]int{}
	for _, id := range p.AssignedEmployees {
		if e, ok := s.Employee(id); ok {
			have[e.Specialty]++
		}
	}
	for sp, need := range p.RequiredSpecialties {
		if have[sp] < need {
			return ErrTeamIncomplete
		}
	}
	if s.Company.Cash < p.Cost {
		return ErrInsufficientFunds
	}
	s.Company.Cash -= p.Cost
	p.Status = ProjectActive
	p.StartedAt = s.Progress.CurrentDay
	return nil
}

// TeamEfficiency combines the assigned team's average motivation, fatigue
// and skill. An empty team makes no progress.
func (s *State) TeamEfficiency(p Project) float64 {
	var motivation, fatigue, skill float64
	n := 0
	for _, id := range p.AssignedEmployees {
		idx := s.employeeIndex(id)
		if idx < 0 {
			continue
		}
		e := s.Employees[idx]
		motivation += e.Motivation
		fatigue += e.Fatigue
		skill += float64(e.SkillLevel)
		n++
	}
	if n == 0 {
		return 0
	}
	k := float64(n)
	return (0.5 + motivation/k/100) * (1 - fatigue/k/200) * (skill / k / 2.5)
}

// AdvanceProjects moves every active project forward by dayFraction of a
// month, debits its running budget, and settles completions and overruns.
func (s *State) AdvanceProjects(dayFraction float64) []Event {
	var out []Event
	for i := range s.Projects {
		p := &s.Projects[i]
		if p.Status != ProjectActive {
			continue
		}
		s.Company.Cash -= p.Budget / 30 * dayFraction
		if p.Duration > 0 {
			p.Progress += (progressScale / p.Duration) * dayFraction * s.TeamEfficiency(*p)
		}
		if p.Progress >= 100 {
			p.Progress = 100
			p.Status = ProjectCompleted
			s.Company.Cash += p.Reward
			s.AdjustBoardSatisfaction(p.ShareholderImpact)
			s.Progress.CompletedProjects++
			out = append(out, Event{
				Name:        "Project Delivered",
				Description: fmt.Sprintf("%s completed. Reward: %.0f.", p.Title, p.Reward),
				Type:        EventSuccess,
				ImpactValue: p.Reward,
				Icon:        "🏁",
			})
			if ev, ok := s.CheckLevelUp(); ok {
				out = append(out, ev)
			}
			continue
		}
		if s.Progress.CurrentDay-p.StartedAt > 2*p.Duration {
			p.Status = ProjectFailed
			s.AdjustBoardSatisfaction(-projectFailurePenalty)
			out = append(out, Event{
				Name:        "Project Failed",
				Description: fmt.Sprintf("%s overran its schedule and was cancelled.", p.Title),
				Type:        EventWarning,
				Icon:        "⚠️",
			})
		}
	}
	return out
}

// LevelForProjects is floor(completed/3)+1.
func LevelForProjects(completed int) int {
	if completed < 0 {
		completed = 0
	}
	return completed/ProjectsPerLevel + 1
}

// CheckLevelUp raises the business level when enough projects are done.
// The level never decreases.
func (s *State) CheckLevelUp() (Event, bool) {
	next := LevelForProjects(s.Progress.CompletedProjects)
	if next <= s.Company.Level {
		return Event{}, false
	}
	s.Company.Level = next
	var unlocked []string
	for _, o := range s.Offices {
		if o.RequiredLevel == next {
			unlocked = append(unlocked, o.Name)
		}
	}
	desc := fmt.Sprintf("Business reached level %d.", next)
	if len(unlocked) > 0 {
		desc += " New offices: " + strings.Join(unlocked, ", ") + "."
	}
	return Event{
		Name:        "Level Up",
		Description: desc,
		Type:        EventLevelUp,
		ImpactValue: float64(next),
		Icon:        "⭐",
	}, true
}
