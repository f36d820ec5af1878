package quest

import (
	"testing"

	"bizdom/internal/game"
	"bizdom/internal/sim"
)

// firstRand always picks the first template.
type firstRand struct{}

func (firstRand) Float64() float64 { return 0 }
func (firstRand) Intn(int) int     { return 0 }

func questOutcomes(out []sim.Outcome) []sim.Outcome {
	var qs []sim.Outcome
	for _, o := range out {
		if o.AchievementID == "" {
			qs = append(qs, o)
		}
	}
	return qs
}

func TestMilestonesUnlockOnce(t *testing.T) {
	sum := sim.Summary{EmployeeCount: 4, SpecialtyCounts: map[game.Specialty]int{}}
	out := checkMilestones(sum)
	if len(out) != 1 || out[0].AchievementID != "growing_team" {
		t.Fatalf("expected growing_team, got %+v", out)
	}
	if out[0].Event == nil || out[0].Event.Type != game.EventSuccess {
		t.Fatalf("milestone should carry a success event")
	}

	sum.Achievements = []string{"growing_team"}
	if out := checkMilestones(sum); len(out) != 0 {
		t.Fatalf("already unlocked milestone fired again: %+v", out)
	}
}

func TestMilestoneConditions(t *testing.T) {
	tests := []struct {
		name string
		sum  sim.Summary
		want string
	}{
		{name: "cash", sum: sim.Summary{Cash: 250_000}, want: "cash_250k"},
		{name: "office", sum: sim.Summary{OfficeTier: 3}, want: "moved_up"},
		{name: "profit", sum: sim.Summary{Reports: []game.MonthlyReport{{NetProfit: 1}}}, want: "in_the_black"},
		{name: "delivery", sum: sim.Summary{CompletedProjects: 1}, want: "first_delivery"},
	}
	for _, tc := range tests {
		out := checkMilestones(tc.sum)
		if len(out) != 1 || out[0].AchievementID != tc.want {
			t.Fatalf("%s: expected %s, got %+v", tc.name, tc.want, out)
		}
	}
}

func TestQuestOfferAndExpiry(t *testing.T) {
	tr := NewTracker(firstRand{})

	tr.Observe(sim.Summary{Day: 0, Satisfaction: 50})
	active := tr.Active()
	if len(active) != 1 || active[0].ID != "satisfaction_90" {
		t.Fatalf("expected the first template to be offered, got %+v", active)
	}
	if active[0].Deadline != 5 {
		t.Fatalf("deadline got=%.0f want=5", active[0].Deadline)
	}

	if out := questOutcomes(tr.Observe(sim.Summary{Day: 3, Satisfaction: 50})); len(out) != 0 {
		t.Fatalf("nothing should resolve before the deadline, got %+v", out)
	}
	if len(tr.Active()) != 1 {
		t.Fatalf("no second offer before the offer interval")
	}

	out := questOutcomes(tr.Observe(sim.Summary{Day: 6, Satisfaction: 50}))
	if len(out) != 1 || out[0].CashDelta != -15_000 {
		t.Fatalf("expected the failure penalty, got %+v", out)
	}
	if len(tr.Active()) != 0 {
		t.Fatalf("expired quest should be removed")
	}
}

func TestQuestCompletion(t *testing.T) {
	tr := NewTracker(firstRand{})

	out := questOutcomes(tr.Observe(sim.Summary{Day: 1, Satisfaction: 95}))
	if len(out) != 1 {
		t.Fatalf("expected one completion, got %+v", out)
	}
	if out[0].CashDelta != 50_000 || !out[0].MarkAction {
		t.Fatalf("unexpected reward %+v", out[0])
	}
	if tr.CompletedCount() != 1 {
		t.Fatalf("completed got=%d want=1", tr.CompletedCount())
	}
}

func TestGenerateSkipsDuplicates(t *testing.T) {
	tr := NewTracker(firstRand{})
	if _, ok := tr.Generate(0); !ok {
		t.Fatalf("first generate should offer a quest")
	}
	if _, ok := tr.Generate(1); ok {
		t.Fatalf("an active quest must not be offered twice")
	}
}

func TestGameOverOnlyChecksMilestones(t *testing.T) {
	tr := NewTracker(firstRand{})
	tr.Observe(sim.Summary{Day: 10, GameOver: true})
	if len(tr.Active()) != 0 {
		t.Fatalf("no quests should be offered after game over")
	}
}

func TestExportImportReset(t *testing.T) {
	tr := NewTracker(firstRand{})
	tr.Observe(sim.Summary{Day: 2, Satisfaction: 10})

	raw, err := tr.ExportState()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	other := NewTracker(firstRand{})
	if err := other.ImportState(raw); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := other.Active(); len(got) != 1 || got[0].Deadline != 7 {
		t.Fatalf("imported quests got=%+v", got)
	}
	if err := other.ImportState([]byte("nope")); err == nil {
		t.Fatalf("expected decode error")
	}

	other.Reset()
	if len(other.Active()) != 0 || other.CompletedCount() != 0 {
		t.Fatalf("reset should clear tracker state")
	}
}
