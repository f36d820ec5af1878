package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"bizdom/internal/game"
	"bizdom/internal/sim"
)

// Scenario overrides the starting company.
type Scenario struct {
	CompanyName  string  `yaml:"company_name"`
	CEOName      string  `yaml:"ceo_name"`
	StartingCash float64 `yaml:"starting_cash"`
	Customers    int64   `yaml:"customers"`
}

// Balance is the optional YAML tuning file.
type Balance struct {
	Engine   sim.Options `yaml:"engine"`
	Scenario Scenario    `yaml:"scenario"`
}

// LoadBalance reads path; an empty path yields the defaults.
func LoadBalance(path string) (Balance, error) {
	b := Balance{Engine: sim.DefaultOptions()}
	path = strings.TrimSpace(path)
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse balance file: %w", err)
	}
	return b, nil
}

// NewState builds the starting state with the scenario applied. Invalid
// names are ignored and the game starts unconfigured.
func (b Balance) NewState() *game.State {
	s := game.NewState()
	if b.Scenario.StartingCash > 0 {
		s.Company.Cash = b.Scenario.StartingCash
	}
	if b.Scenario.Customers > 0 {
		s.Market.CustomerBase = b.Scenario.Customers
		s.Market.Satisfaction = s.SatisfactionScore()
	}
	if b.Scenario.CompanyName != "" && b.Scenario.CEOName != "" {
		_ = s.Configure(b.Scenario.CompanyName, b.Scenario.CEOName, "")
	}
	return s
}
