package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// Game is the round engine. It owns the shoe, the hands, the bankroll, and
// the cumulative statistics; everything outside the engine observes state
// through events or accessor snapshots.
type Game struct {
	rng    *rand.Rand
	logger *log.Logger
	bus    EventBus
	store  Store

	shoe    *deck.Shoe
	dealer  *Hand
	hands   []*Hand
	current int

	state             State
	roundID           string
	balance           int
	currentBet        int
	awaitingInsurance bool

	settings Settings
	stats    Stats
	prefs    Prefs
}

// GameOption configures a Game during creation
type GameOption func(*gameConfig)

type gameConfig struct {
	settings Settings
	balance  int
	store    Store
	bus      EventBus
	shoe     *deck.Shoe
	logger   *log.Logger
}

// WithSettings overrides the default table rules
func WithSettings(settings Settings) GameOption {
	return func(cfg *gameConfig) { cfg.settings = settings }
}

// WithBalance overrides the default starting balance
func WithBalance(balance int) GameOption {
	return func(cfg *gameConfig) { cfg.balance = balance }
}

// WithStore attaches a persistence store. Saved state loaded from the store
// takes precedence over option defaults, matching load-at-init semantics.
func WithStore(store Store) GameOption {
	return func(cfg *gameConfig) { cfg.store = store }
}

// WithEventBus replaces the default event bus
func WithEventBus(bus EventBus) GameOption {
	return func(cfg *gameConfig) { cfg.bus = bus }
}

// WithShoe replaces the shoe, typically with a stacked one for deterministic
// tests.
func WithShoe(shoe *deck.Shoe) GameOption {
	return func(cfg *gameConfig) { cfg.shoe = shoe }
}

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) GameOption {
	return func(cfg *gameConfig) { cfg.logger = logger }
}

// NewGame creates a game engine. The RNG is required to make randomness
// explicit and testing deterministic. If a store is attached, persisted
// balance/settings/stats are restored; any load failure falls back to the
// defaults and the game keeps running.
func NewGame(rng *rand.Rand, opts ...GameOption) (*Game, error) {
	if rng == nil {
		return nil, fmt.Errorf("rng is required for game creation")
	}

	cfg := &gameConfig{
		settings: DefaultSettings(),
		balance:  DefaultBalance,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	g := &Game{
		rng:      rng,
		logger:   cfg.logger,
		store:    cfg.store,
		dealer:   NewHand(),
		hands:    []*Hand{NewHand()},
		state:    Betting,
		balance:  cfg.balance,
		settings: cfg.settings,
	}

	g.bus = cfg.bus
	if g.bus == nil {
		g.bus = NewEventBus()
	}

	if g.store != nil {
		snap, err := g.store.Load()
		if err != nil {
			g.logger.Warn("Failed to load saved state, using defaults", "error", err)
		} else if snap != nil {
			g.balance = snap.Balance
			g.settings = snap.Settings
			g.stats = snap.Stats
			g.prefs = snap.Prefs
		}
	}

	if err := g.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	g.shoe = cfg.shoe
	if g.shoe == nil {
		shoe, err := deck.NewShoe(g.settings.DeckCount, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to create shoe: %w", err)
		}
		if err := shoe.SetPenetration(g.settings.Penetration); err != nil {
			return nil, fmt.Errorf("failed to set penetration: %w", err)
		}
		shoe.Shuffle()
		g.shoe = shoe
	}

	return g, nil
}

// GetEventBus returns the event bus for subscribing to game events
func (g *Game) GetEventBus() EventBus {
	return g.bus
}

// State returns the current state machine state
func (g *Game) State() State { return g.state }

// RoundID returns the identifier of the round in progress (or last played)
func (g *Game) RoundID() string { return g.roundID }

// Balance returns the current bankroll
func (g *Game) Balance() int { return g.balance }

// CurrentBet returns the main wager for the round in progress
func (g *Game) CurrentBet() int { return g.currentBet }

// Settings returns the active table rules
func (g *Game) Settings() Settings { return g.settings }

// Stats returns the cumulative statistics
func (g *Game) Stats() Stats { return g.stats }

// DealerHand returns the dealer's hand
func (g *Game) DealerHand() *Hand { return g.dealer }

// PlayerHands returns the player hands in play order
func (g *Game) PlayerHands() []*Hand { return g.hands }

// CurrentHandIndex returns the index of the active player hand
func (g *Game) CurrentHandIndex() int { return g.current }

// CurrentHand returns the active player hand
func (g *Game) CurrentHand() *Hand { return g.hands[g.current] }

// AwaitingInsurance reports whether the engine is waiting on an insurance
// decision before play continues.
func (g *Game) AwaitingInsurance() bool { return g.awaitingInsurance }

// Prefs returns the persisted presentation preferences
func (g *Game) Prefs() Prefs { return g.prefs }

// SetPrefs updates and persists the presentation preferences
func (g *Game) SetPrefs(prefs Prefs) {
	g.prefs = prefs
	g.saveState()
}

// CanHit reports whether the active hand may take another card
func (g *Game) CanHit() bool {
	return g.state == PlayerTurn && !g.awaitingInsurance &&
		!g.CurrentHand().Stood && !g.CurrentHand().IsBusted()
}

// CanStand reports whether the active hand may stand
func (g *Game) CanStand() bool {
	return g.CanHit()
}

// CanDouble reports whether the active hand may double down
func (g *Game) CanDouble() bool {
	if g.state != PlayerTurn || g.awaitingInsurance {
		return false
	}
	hand := g.CurrentHand()
	if hand.Split && !g.settings.DoubleAfterSplit {
		return false
	}
	return hand.CanDouble() && !hand.Stood && hand.Bet <= g.balance
}

// CanSplit reports whether the active hand may be split
func (g *Game) CanSplit() bool {
	if g.state != PlayerTurn || g.awaitingInsurance {
		return false
	}
	hand := g.CurrentHand()
	return hand.CanSplit(g.settings.ResplitAces) &&
		hand.Bet <= g.balance &&
		len(g.hands) < MaxPlayerHands
}

// CanSurrender reports whether the active hand may surrender
func (g *Game) CanSurrender() bool {
	if g.state != PlayerTurn || g.awaitingInsurance {
		return false
	}
	hand := g.CurrentHand()
	return g.settings.SurrenderAllowed && len(hand.Cards) == 2 && !hand.Split
}

// CanInsure reports whether an insurance decision is pending
func (g *Game) CanInsure() bool {
	return g.state == PlayerTurn && g.awaitingInsurance
}

// Hint returns the basic-strategy recommendation for the active hand, or
// false when no decision is pending.
func (g *Game) Hint() (strategy.Action, bool) {
	if g.state != PlayerTurn || g.awaitingInsurance || len(g.dealer.Cards) == 0 {
		return 0, false
	}
	hand := g.CurrentHand()
	in := strategy.Input{
		Total:        hand.Value(),
		Soft:         hand.IsSoft(),
		IsPair:       hand.CanSplit(g.settings.ResplitAces),
		DealerValue:  g.dealer.Cards[0].Value(),
		CanDouble:    g.CanDouble(),
		CanSplit:     g.CanSplit(),
		CanSurrender: g.CanSurrender(),
	}
	if in.IsPair {
		in.PairRank = hand.Cards[0].Rank
	}
	return strategy.Recommend(in), true
}

// Snapshot captures the persistable state of the game
func (g *Game) Snapshot() *Snapshot {
	return &Snapshot{
		Balance:  g.balance,
		Settings: g.settings,
		Stats:    g.stats,
		Prefs:    g.prefs,
	}
}

// UpdateSettings replaces the table rules. Deck count and penetration are
// forwarded to the shoe and take effect on the next reshuffle.
func (g *Game) UpdateSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	g.settings = settings
	if err := g.shoe.SetDeckCount(settings.DeckCount); err != nil {
		return err
	}
	if err := g.shoe.SetPenetration(settings.Penetration); err != nil {
		return err
	}
	g.saveState()
	return nil
}

// AddChips tops up the practice bankroll
func (g *Game) AddChips(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: top-up must be positive", ErrInvalidBet)
	}
	g.balance += amount
	g.publishBalance()
	g.saveState()
	return nil
}

// ResetStats clears the cumulative statistics
func (g *Game) ResetStats() {
	g.stats = Stats{}
	g.saveState()
}

func (g *Game) setState(state State) {
	g.state = state
	g.bus.Publish(NewStateChangedEvent(g.roundID, state))
}

func (g *Game) publishBalance() {
	g.bus.Publish(NewBalanceChangedEvent(g.balance))
}

func (g *Game) publishResult(result Result, net int) {
	g.logger.Debug("Round resolved", "round", g.roundID, "result", result, "net", net)
	g.bus.Publish(NewHandResultEvent(g.roundID, result, net))
}

func (g *Game) saveState() {
	if g.store == nil {
		return
	}
	if err := g.store.Save(g.Snapshot()); err != nil {
		g.logger.Warn("Failed to save game state", "error", err)
	}
}
