// Package config loads the trainer's HCL configuration file. A missing file
// yields the default configuration; a present file only needs to mention
// what it changes.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/game"
)

// Config represents the complete trainer configuration
type Config struct {
	Rules      *RulesConfig      `hcl:"rules,block"`
	UI         *UIConfig         `hcl:"ui,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// RulesConfig defines the table rules
type RulesConfig struct {
	DeckCount        int     `hcl:"deck_count,optional"`
	DealerHitsSoft17 bool    `hcl:"dealer_hits_soft_17,optional"`
	BlackjackPays    float64 `hcl:"blackjack_pays,optional"`
	DoubleAfterSplit bool    `hcl:"double_after_split,optional"`
	ResplitAces      bool    `hcl:"resplit_aces,optional"`
	Surrender        bool    `hcl:"surrender,optional"`
	Insurance        bool    `hcl:"insurance,optional"`
	MinBet           int     `hcl:"min_bet,optional"`
	MaxBet           int     `hcl:"max_bet,optional"`
	Penetration      float64 `hcl:"penetration,optional"`
}

// UIConfig contains presentation settings
type UIConfig struct {
	LogLevel  string `hcl:"log_level,optional"`
	LogFile   string `hcl:"log_file,optional"`
	Sound     bool   `hcl:"sound,optional"`
	Hints     bool   `hcl:"hints,optional"`
	DealDelay int    `hcl:"deal_delay_ms,optional"`
}

// SimulationConfig contains defaults for the simulate command
type SimulationConfig struct {
	Rounds          int   `hcl:"rounds,optional"`
	Bet             int   `hcl:"bet,optional"`
	Seed            int64 `hcl:"seed,optional"`
	StartingBalance int   `hcl:"starting_balance,optional"`
}

// DefaultConfig returns the default trainer configuration
func DefaultConfig() *Config {
	defaults := game.DefaultSettings()
	return &Config{
		Rules: &RulesConfig{
			DeckCount:        defaults.DeckCount,
			DealerHitsSoft17: defaults.DealerHitsSoft17,
			BlackjackPays:    defaults.BlackjackPays,
			DoubleAfterSplit: defaults.DoubleAfterSplit,
			ResplitAces:      defaults.ResplitAces,
			Surrender:        defaults.SurrenderAllowed,
			Insurance:        defaults.InsuranceAllowed,
			MinBet:           defaults.MinBet,
			MaxBet:           defaults.MaxBet,
			Penetration:      defaults.Penetration,
		},
		UI: &UIConfig{
			LogLevel:  "warn",
			LogFile:   "blackjack.log",
			Sound:     true,
			Hints:     false,
			DealDelay: 500,
		},
		Simulation: &SimulationConfig{
			Rounds:          10000,
			Bet:             10,
			StartingBalance: game.DefaultBalance,
		},
	}
}

// Load reads configuration from an HCL file, returning defaults if the file
// does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&config)
	return &config, nil
}

// applyDefaults fills unset values so a sparse config file behaves like the
// defaults it does not mention. Booleans inside a present block are taken
// literally.
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Rules == nil {
		config.Rules = defaults.Rules
	} else {
		r := config.Rules
		if r.DeckCount == 0 {
			r.DeckCount = defaults.Rules.DeckCount
		}
		if r.BlackjackPays == 0 {
			r.BlackjackPays = defaults.Rules.BlackjackPays
		}
		if r.MinBet == 0 {
			r.MinBet = defaults.Rules.MinBet
		}
		if r.MaxBet == 0 {
			r.MaxBet = defaults.Rules.MaxBet
		}
		if r.Penetration == 0 {
			r.Penetration = deck.DefaultPenetration
		}
	}

	if config.UI == nil {
		config.UI = defaults.UI
	} else {
		if config.UI.LogLevel == "" {
			config.UI.LogLevel = defaults.UI.LogLevel
		}
		if config.UI.LogFile == "" {
			config.UI.LogFile = defaults.UI.LogFile
		}
		if config.UI.DealDelay == 0 {
			config.UI.DealDelay = defaults.UI.DealDelay
		}
	}

	if config.Simulation == nil {
		config.Simulation = defaults.Simulation
	} else {
		if config.Simulation.Rounds == 0 {
			config.Simulation.Rounds = defaults.Simulation.Rounds
		}
		if config.Simulation.Bet == 0 {
			config.Simulation.Bet = defaults.Simulation.Bet
		}
		if config.Simulation.StartingBalance == 0 {
			config.Simulation.StartingBalance = defaults.Simulation.StartingBalance
		}
	}
}

// Settings converts the rules block into engine settings
func (c *Config) Settings() game.Settings {
	r := c.Rules
	return game.Settings{
		DeckCount:        r.DeckCount,
		DealerHitsSoft17: r.DealerHitsSoft17,
		BlackjackPays:    r.BlackjackPays,
		DoubleAfterSplit: r.DoubleAfterSplit,
		ResplitAces:      r.ResplitAces,
		SurrenderAllowed: r.Surrender,
		InsuranceAllowed: r.Insurance,
		MinBet:           r.MinBet,
		MaxBet:           r.MaxBet,
		Penetration:      r.Penetration,
	}
}
