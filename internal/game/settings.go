package game

import (
	"fmt"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// DefaultBalance is the practice bankroll a fresh game starts with
const DefaultBalance = 10000

// MaxPlayerHands caps how many hands a single round can split into
const MaxPlayerHands = 4

// Settings holds the table rules. It persists across rounds and sessions.
type Settings struct {
	DeckCount        int     `json:"deckCount"`
	DealerHitsSoft17 bool    `json:"dealerHitsSoft17"`
	BlackjackPays    float64 `json:"blackjackPays"`
	DoubleAfterSplit bool    `json:"doubleAfterSplit"`
	ResplitAces      bool    `json:"resplitAces"`
	SurrenderAllowed bool    `json:"surrenderAllowed"`
	InsuranceAllowed bool    `json:"insuranceAllowed"`
	MinBet           int     `json:"minBet"`
	MaxBet           int     `json:"maxBet"`
	Penetration      float64 `json:"penetration"`
}

// DefaultSettings returns the standard six-deck 3:2 table
func DefaultSettings() Settings {
	return Settings{
		DeckCount:        6,
		DealerHitsSoft17: true,
		BlackjackPays:    1.5,
		DoubleAfterSplit: true,
		ResplitAces:      false,
		SurrenderAllowed: true,
		InsuranceAllowed: true,
		MinBet:           10,
		MaxBet:           9999999999,
		Penetration:      deck.DefaultPenetration,
	}
}

// Validate checks the settings for internal consistency
func (s Settings) Validate() error {
	if s.DeckCount < 1 || s.DeckCount > 8 {
		return fmt.Errorf("deck count must be between 1 and 8, got %d", s.DeckCount)
	}
	if s.MinBet <= 0 || s.MaxBet <= 0 || s.MinBet > s.MaxBet {
		return fmt.Errorf("bet limits invalid: min %d, max %d", s.MinBet, s.MaxBet)
	}
	if s.Penetration <= 0 || s.Penetration > 1 {
		return fmt.Errorf("penetration must be in (0,1], got %v", s.Penetration)
	}
	if s.BlackjackPays <= 0 {
		return fmt.Errorf("blackjack payout multiplier must be positive, got %v", s.BlackjackPays)
	}
	return nil
}

// Stats tracks cumulative results across rounds. Surrendered hands count
// toward HandsPlayed only; they are deliberately excluded from the
// won/lost/pushed tallies.
type Stats struct {
	HandsPlayed  int `json:"handsPlayed"`
	HandsWon     int `json:"handsWon"`
	HandsLost    int `json:"handsLost"`
	HandsPushed  int `json:"handsPushed"`
	Blackjacks   int `json:"blackjacks"`
	TotalWagered int `json:"totalWagered"`
	NetProfit    int `json:"netProfit"`
}

// Prefs holds presentation preferences persisted alongside the game state.
// The engine stores them opaquely for the UI.
type Prefs struct {
	Sound      bool `json:"soundEnabled"`
	Hints      bool `json:"hintsEnabled"`
	LastBet    int  `json:"lastBet"`
	Streak     int  `json:"streak"`
	BiggestWin int  `json:"biggestWin"`
}

// Snapshot is the persisted game state: everything that survives a restart.
type Snapshot struct {
	Balance  int      `json:"balance"`
	Settings Settings `json:"settings"`
	Stats    Stats    `json:"stats"`
	Prefs    Prefs    `json:"prefs"`
}

// Store persists snapshots between sessions. Implementations live outside the
// engine; a nil store simply disables persistence. Load returns (nil, nil)
// when no saved state exists.
type Store interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}
