// Package simulator plays seeded rounds of flat-bet basic strategy against
// the engine and aggregates the results. It exists to answer "what does this
// rule set cost me" empirically, and doubles as an end-to-end exercise of the
// round state machine.
package simulator

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/statistics"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds          int
	Bet             int
	Seed            int64
	StartingBalance int
	Settings        game.Settings
	Logger          *log.Logger
	Progress        func(done, total int)
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns aggregate statistics. The same
// seed always produces the same sequence of rounds.
func (s *Simulator) Run() (*statistics.Statistics, error) {
	cfg := s.config
	if cfg.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", cfg.Rounds)
	}
	if cfg.Bet < cfg.Settings.MinBet || cfg.Bet > cfg.Settings.MaxBet {
		return nil, fmt.Errorf("bet %d outside table limits [%d, %d]",
			cfg.Bet, cfg.Settings.MinBet, cfg.Settings.MaxBet)
	}

	rng := randutil.New(cfg.Seed)
	g, err := game.NewGame(rng,
		game.WithSettings(cfg.Settings),
		game.WithBalance(cfg.StartingBalance),
		game.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	stats := &statistics.Statistics{}

	for round := 0; round < cfg.Rounds; round++ {
		// Splits and doubles can need up to 8x the base bet; top up rather
		// than letting the bankroll distort strategy.
		if g.Balance() < cfg.Bet*8 {
			if err := g.AddChips(cfg.StartingBalance); err != nil {
				return nil, err
			}
		}

		before := g.Balance()
		if err := s.playRound(g); err != nil {
			return nil, fmt.Errorf("round %d failed: %w", round+1, err)
		}

		result := statistics.RoundResult{
			NetUnits: float64(g.Balance()-before) / float64(cfg.Bet),
			Seed:     cfg.Seed,
			Splits:   len(g.PlayerHands()) - 1,
		}
		for _, hand := range g.PlayerHands() {
			if hand.IsBlackjack() {
				result.Blackjack = true
			}
			if hand.IsBusted() {
				result.Busted = true
			}
			if hand.Doubled {
				result.Doubled = true
			}
			if hand.Surrendered {
				result.Surrendered = true
			}
		}
		stats.Add(result)

		if err := g.NewRound(); err != nil {
			return nil, err
		}

		if cfg.Progress != nil && (round+1)%1000 == 0 {
			cfg.Progress(round+1, cfg.Rounds)
		}
	}

	return stats, nil
}

// playRound plays a single round to completion using basic strategy.
// Insurance is always declined; basic strategy never takes it.
func (s *Simulator) playRound(g *game.Game) error {
	if err := g.PlaceBet(s.config.Bet); err != nil {
		return err
	}
	if err := g.Deal(); err != nil {
		return err
	}
	if g.CanInsure() {
		if err := g.Insurance(false); err != nil {
			return err
		}
	}

	for g.State() == game.PlayerTurn {
		action, ok := g.Hint()
		if !ok {
			return fmt.Errorf("no recommendation available in state %s", g.State())
		}

		var err error
		switch action {
		case strategy.Stand:
			err = g.Stand()
		case strategy.Double:
			err = g.Double()
		case strategy.Split:
			err = g.Split()
		case strategy.Surrender:
			err = g.Surrender()
		default:
			err = g.Hit()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
