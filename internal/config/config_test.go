package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/blackjack-trainer/internal/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rules.DeckCount != 6 {
		t.Errorf("DeckCount = %d, want 6", cfg.Rules.DeckCount)
	}
	if cfg.UI.DealDelay != 500 {
		t.Errorf("DealDelay = %d, want 500", cfg.UI.DealDelay)
	}
	if cfg.Simulation.Rounds != 10000 {
		t.Errorf("Rounds = %d, want 10000", cfg.Simulation.Rounds)
	}
}

func TestLoadSparseConfig(t *testing.T) {
	path := writeConfig(t, `
rules {
  deck_count = 2
  surrender  = false
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Rules.DeckCount != 2 {
		t.Errorf("DeckCount = %d, want 2", cfg.Rules.DeckCount)
	}
	if cfg.Rules.Surrender {
		t.Error("surrender should be disabled by the file")
	}
	// Unset values inside a present block fall back to defaults
	if cfg.Rules.MinBet != 10 {
		t.Errorf("MinBet = %d, want default 10", cfg.Rules.MinBet)
	}
	if cfg.Rules.BlackjackPays != 1.5 {
		t.Errorf("BlackjackPays = %v, want default 1.5", cfg.Rules.BlackjackPays)
	}
	// Missing blocks come back whole
	if cfg.UI == nil || cfg.UI.LogLevel != "warn" {
		t.Errorf("UI block = %+v, want defaults", cfg.UI)
	}
	if cfg.Simulation == nil || cfg.Simulation.Bet != 10 {
		t.Errorf("Simulation block = %+v, want defaults", cfg.Simulation)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
rules {
  deck_count          = 1
  dealer_hits_soft_17 = false
  blackjack_pays      = 1.2
  min_bet             = 25
  max_bet             = 1000
  penetration         = 0.5
}

ui {
  log_level     = "debug"
  hints         = true
  deal_delay_ms = 100
}

simulation {
  rounds = 500
  bet    = 25
  seed   = 42
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	settings := cfg.Settings()
	want := game.Settings{
		DeckCount:        1,
		DealerHitsSoft17: false,
		BlackjackPays:    1.2,
		MinBet:           25,
		MaxBet:           1000,
		Penetration:      0.5,
	}
	if settings != want {
		t.Errorf("Settings() = %+v, want %+v", settings, want)
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("converted settings should validate: %v", err)
	}

	if cfg.UI.LogLevel != "debug" || !cfg.UI.Hints || cfg.UI.DealDelay != 100 {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Simulation.Seed)
	}
}

func TestLoadInvalidHCL(t *testing.T) {
	path := writeConfig(t, `rules { deck_count = `)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestDefaultConfigMatchesEngineDefaults(t *testing.T) {
	if got, want := DefaultConfig().Settings(), game.DefaultSettings(); got != want {
		t.Errorf("DefaultConfig().Settings() = %+v, want %+v", got, want)
	}
}
