package sim

import "bizdom/internal/game"

// Options are the balance tunables of the tick engine. Rates named "per
// month" are multiplied by dayFraction on every tick.
type Options struct {
	SecondsPerMonth float64 `yaml:"seconds_per_month" json:"seconds_per_month"`

	MaxPendingTenders  int     `yaml:"max_pending_tenders" json:"max_pending_tenders"`
	TenderRate         float64 `yaml:"tender_rate" json:"tender_rate"`
	TenderLifetimeDays float64 `yaml:"tender_lifetime_days" json:"tender_lifetime_days"`

	InfraDecayPerMonth float64 `yaml:"infra_decay_per_month" json:"infra_decay_per_month"`

	StrikeRate             float64 `yaml:"strike_rate" json:"strike_rate"`
	StrikeFatigueThreshold float64 `yaml:"strike_fatigue_threshold" json:"strike_fatigue_threshold"`
	StrikeEndFatigue       float64 `yaml:"strike_end_fatigue" json:"strike_end_fatigue"`
	StrikeResignSeconds    float64 `yaml:"strike_resign_seconds" json:"strike_resign_seconds"`
	StrikeMotivationDecay  float64 `yaml:"strike_motivation_decay" json:"strike_motivation_decay"`
	StrikeFatigueRecovery  float64 `yaml:"strike_fatigue_recovery" json:"strike_fatigue_recovery"`
	DominoPenalty          float64 `yaml:"domino_penalty" json:"domino_penalty"`

	InactivitySeconds   float64 `yaml:"inactivity_seconds" json:"inactivity_seconds"`
	OrganicDecline      float64 `yaml:"organic_decline" json:"organic_decline"`
	CompetitorJitter    float64 `yaml:"competitor_jitter" json:"competitor_jitter"`
	DemandStep          float64 `yaml:"demand_step" json:"demand_step"`
	NegativeCashErosion float64 `yaml:"negative_cash_erosion" json:"negative_cash_erosion"`

	Board game.BoardRates `yaml:"board" json:"board"`

	Autosave bool `yaml:"autosave" json:"autosave"`
}

func DefaultOptions() Options {
	return Options{
		SecondsPerMonth:        300,
		MaxPendingTenders:      3,
		TenderRate:             4,
		TenderLifetimeDays:     10,
		InfraDecayPerMonth:     8,
		StrikeRate:             3,
		StrikeFatigueThreshold: 70,
		StrikeEndFatigue:       40,
		StrikeResignSeconds:    game.StrikeResignAfterSeconds,
		StrikeMotivationDecay:  20,
		StrikeFatigueRecovery:  20,
		DominoPenalty:          5,
		InactivitySeconds:      600,
		OrganicDecline:         0.05,
		CompetitorJitter:       0.5,
		DemandStep:             2,
		NegativeCashErosion:    10,
		Board:                  game.DefaultBoardRates(),
		Autosave:               true,
	}
}

// withDefaults fills zero values so a partial YAML file stays playable.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SecondsPerMonth <= 0 {
		o.SecondsPerMonth = d.SecondsPerMonth
	}
	if o.MaxPendingTenders <= 0 {
		o.MaxPendingTenders = d.MaxPendingTenders
	}
	if o.TenderRate <= 0 {
		o.TenderRate = d.TenderRate
	}
	if o.TenderLifetimeDays <= 0 {
		o.TenderLifetimeDays = d.TenderLifetimeDays
	}
	if o.InfraDecayPerMonth <= 0 {
		o.InfraDecayPerMonth = d.InfraDecayPerMonth
	}
	if o.StrikeRate <= 0 {
		o.StrikeRate = d.StrikeRate
	}
	if o.StrikeFatigueThreshold <= 0 {
		o.StrikeFatigueThreshold = d.StrikeFatigueThreshold
	}
	if o.StrikeEndFatigue <= 0 {
		o.StrikeEndFatigue = d.StrikeEndFatigue
	}
	if o.StrikeResignSeconds <= 0 {
		o.StrikeResignSeconds = d.StrikeResignSeconds
	}
	if o.StrikeMotivationDecay <= 0 {
		o.StrikeMotivationDecay = d.StrikeMotivationDecay
	}
	if o.StrikeFatigueRecovery <= 0 {
		o.StrikeFatigueRecovery = d.StrikeFatigueRecovery
	}
	if o.DominoPenalty <= 0 {
		o.DominoPenalty = d.DominoPenalty
	}
	if o.InactivitySeconds <= 0 {
		o.InactivitySeconds = d.InactivitySeconds
	}
	if o.OrganicDecline <= 0 {
		o.OrganicDecline = d.OrganicDecline
	}
	if o.CompetitorJitter <= 0 {
		o.CompetitorJitter = d.CompetitorJitter
	}
	if o.DemandStep <= 0 {
		o.DemandStep = d.DemandStep
	}
	if o.NegativeCashErosion <= 0 {
		o.NegativeCashErosion = d.NegativeCashErosion
	}
	if o.Board == (game.BoardRates{}) {
		o.Board = d.Board
	}
	return o
}

// DayFraction converts elapsed game seconds into a fraction of a month.
func (o Options) DayFraction(seconds float64) float64 {
	if o.SecondsPerMonth <= 0 || seconds <= 0 {
		return 0
	}
	return seconds / o.SecondsPerMonth
}
