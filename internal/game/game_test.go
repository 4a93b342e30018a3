package game

import (
	"errors"
	"testing"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// memStore is an in-memory Store for testing persistence wiring
type memStore struct {
	snapshot *Snapshot
	loadErr  error
	saves    int
}

func (s *memStore) Load() (*Snapshot, error) {
	return s.snapshot, s.loadErr
}

func (s *memStore) Save(snapshot *Snapshot) error {
	s.snapshot = snapshot
	s.saves++
	return nil
}

func TestNewGameRequiresRNG(t *testing.T) {
	if _, err := NewGame(nil); err == nil {
		t.Error("expected error for nil rng")
	}
}

func TestNewGameDefaults(t *testing.T) {
	g, err := NewGame(randutil.New(1))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if g.Balance() != DefaultBalance {
		t.Errorf("Balance() = %d, want %d", g.Balance(), DefaultBalance)
	}
	if g.State() != Betting {
		t.Errorf("State() = %s, want %s", g.State(), Betting)
	}
	if g.Settings() != DefaultSettings() {
		t.Errorf("Settings() = %+v, want defaults", g.Settings())
	}
}

func TestNewGameRejectsInvalidSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.DeckCount = 12
	if _, err := NewGame(randutil.New(1), WithSettings(settings)); err == nil {
		t.Error("expected error for invalid deck count")
	}

	settings = DefaultSettings()
	settings.MinBet = 100
	settings.MaxBet = 10
	if _, err := NewGame(randutil.New(1), WithSettings(settings)); err == nil {
		t.Error("expected error for inverted bet limits")
	}
}

func TestStoreRestoresState(t *testing.T) {
	saved := &Snapshot{
		Balance:  4321,
		Settings: DefaultSettings(),
		Stats:    Stats{HandsPlayed: 7, NetProfit: -100},
		Prefs:    Prefs{Hints: true, LastBet: 25},
	}
	store := &memStore{snapshot: saved}

	g, err := NewGame(randutil.New(1), WithStore(store), WithBalance(9999))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	if g.Balance() != 4321 {
		t.Errorf("Balance() = %d; saved state should override options", g.Balance())
	}
	if g.Stats().HandsPlayed != 7 {
		t.Errorf("Stats() = %+v, want restored stats", g.Stats())
	}
	if !g.Prefs().Hints || g.Prefs().LastBet != 25 {
		t.Errorf("Prefs() = %+v, want restored prefs", g.Prefs())
	}
}

func TestStoreLoadFailureFallsBack(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt")}
	g, err := NewGame(randutil.New(1), WithStore(store), WithBalance(500))
	if err != nil {
		t.Fatalf("NewGame should tolerate load failures: %v", err)
	}
	if g.Balance() != 500 {
		t.Errorf("Balance() = %d, want the option fallback", g.Balance())
	}
}

func TestStoreSavedOnMutation(t *testing.T) {
	store := &memStore{}
	g, err := NewGame(randutil.New(1),
		WithStore(store),
		WithShoe(deck.NewStackedShoe(
			deck.NewCard(deck.Spades, deck.Ten), deck.NewCard(deck.Hearts, deck.Nine),
			deck.NewCard(deck.Diamonds, deck.Seven), deck.NewCard(deck.Clubs, deck.Six),
			deck.NewCard(deck.Spades, deck.Two))),
	)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	if err := g.PlaceBet(100); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if store.saves == 0 {
		t.Error("placing a bet should persist a snapshot")
	}
	if err := g.Deal(); err != nil {
		t.Fatalf("Deal failed: %v", err)
	}
	if err := g.Stand(); err != nil {
		t.Fatalf("Stand failed: %v", err)
	}

	if store.snapshot == nil {
		t.Fatal("no snapshot saved")
	}
	if store.snapshot.Balance != g.Balance() {
		t.Errorf("saved balance %d does not match engine balance %d",
			store.snapshot.Balance, g.Balance())
	}
}

func TestUpdateSettings(t *testing.T) {
	g, err := NewGame(randutil.New(1))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	settings := g.Settings()
	settings.DeckCount = 2
	settings.SurrenderAllowed = false
	if err := g.UpdateSettings(settings); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if g.Settings().DeckCount != 2 {
		t.Errorf("DeckCount = %d, want 2", g.Settings().DeckCount)
	}

	settings.DeckCount = 0
	if err := g.UpdateSettings(settings); err == nil {
		t.Error("expected error for invalid deck count")
	}
	if g.Settings().DeckCount != 2 {
		t.Error("rejected update must not change settings")
	}
}

func TestAddChips(t *testing.T) {
	g, err := NewGame(randutil.New(1), WithBalance(100))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if err := g.AddChips(500); err != nil {
		t.Fatalf("AddChips failed: %v", err)
	}
	if g.Balance() != 600 {
		t.Errorf("Balance() = %d, want 600", g.Balance())
	}
	if err := g.AddChips(0); !errors.Is(err, ErrInvalidBet) {
		t.Errorf("AddChips(0): got %v, want ErrInvalidBet", err)
	}
}

func TestResetStats(t *testing.T) {
	g, err := NewGame(randutil.New(1))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	g.stats = Stats{HandsPlayed: 10, NetProfit: 50}
	g.ResetStats()
	if g.Stats() != (Stats{}) {
		t.Errorf("Stats() = %+v, want zeroed", g.Stats())
	}
}

func TestHint(t *testing.T) {
	g, err := NewGame(randutil.New(1), WithShoe(deck.NewStackedShoe(
		deck.NewCard(deck.Spades, deck.Eight), deck.NewCard(deck.Hearts, deck.Six),
		deck.NewCard(deck.Diamonds, deck.Eight), deck.NewCard(deck.Clubs, deck.Ten))))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	if _, ok := g.Hint(); ok {
		t.Error("no hint should be available before the deal")
	}

	if err := g.PlaceBet(10); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if err := g.Deal(); err != nil {
		t.Fatalf("Deal failed: %v", err)
	}

	action, ok := g.Hint()
	if !ok {
		t.Fatal("hint should be available on the player turn")
	}
	if action != strategy.Split {
		t.Errorf("hint for 8,8 vs 6 = %s, want SPLIT", action)
	}
}
