package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-trainer/internal/config"
	"github.com/lox/blackjack-trainer/internal/simulator"
	"github.com/lox/blackjack-trainer/internal/statistics"
)

// SimulateCmd autoplays basic strategy against the configured rules and
// reports the measured edge.
type SimulateCmd struct {
	Config  string `short:"c" default:"blackjack.hcl" help:"Path to HCL config file"`
	Rounds  int    `default:"0" help:"Number of rounds to simulate (0 uses config)"`
	Bet     int    `default:"0" help:"Flat bet per round (0 uses config)"`
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose bool   `help:"Verbose logging"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rounds := c.Rounds
	if rounds == 0 {
		rounds = cfg.Simulation.Rounds
	}
	bet := c.Bet
	if bet == 0 {
		bet = cfg.Simulation.Bet
	}
	seed := c.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	fmt.Printf("Simulating %d rounds at %d per hand (seed: %d)\n\n", rounds, bet, seed)

	sim := simulator.New(simulator.Config{
		Rounds:          rounds,
		Bet:             bet,
		Seed:            seed,
		StartingBalance: cfg.Simulation.StartingBalance,
		Settings:        cfg.Settings(),
		Logger:          logger,
		Progress: func(done, total int) {
			if done%10000 == 0 && done != total {
				fmt.Printf("  %d/%d rounds played\n", done, total)
			}
		},
	})

	start := time.Now()
	stats, err := sim.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	printReport(stats, cfg, time.Since(start))
	return nil
}

func printReport(stats *statistics.Statistics, cfg *config.Config, duration time.Duration) {
	mean := stats.Mean()
	low, high := stats.ConfidenceInterval95()
	roundsPerSec := float64(stats.Rounds) / duration.Seconds()

	fmt.Printf("\n=== RESULTS ===\n")
	fmt.Printf("Rounds played: %d\n", stats.Rounds)
	fmt.Printf("Total time: %v (%.0f rounds/sec)\n", duration.Round(time.Millisecond), roundsPerSec)
	fmt.Printf("Rules: %d decks, %s, blackjack pays %.2g:1\n",
		cfg.Rules.DeckCount, soft17Rule(cfg.Rules.DealerHitsSoft17), cfg.Rules.BlackjackPays)

	fmt.Printf("\n=== EDGE ===\n")
	fmt.Printf("Mean: %+.4f units/round\n", mean)
	fmt.Printf("Std Dev: %.4f units\n", stats.StdDev())
	fmt.Printf("Std Error: %.4f units\n", stats.StdError())
	fmt.Printf("95%% CI: [%+.4f, %+.4f] units/round\n", low, high)
	fmt.Printf("House edge: %.3f%% of the base bet\n", stats.EdgePercent())
	fmt.Printf("Median: %+.2f, P5: %+.2f, P95: %+.2f\n",
		stats.Median(), stats.Percentile(0.05), stats.Percentile(0.95))

	fmt.Printf("\n=== ROUND BREAKDOWN ===\n")
	fmt.Printf("Won: %d (%.1f%%), Lost: %d (%.1f%%), Pushed: %d (%.1f%%)\n",
		stats.WinRounds, pct(stats.WinRounds, stats.Rounds),
		stats.LossRounds, pct(stats.LossRounds, stats.Rounds),
		stats.PushRounds, pct(stats.PushRounds, stats.Rounds))
	fmt.Printf("Blackjacks: %d (%.2f%%)\n", stats.Blackjacks, pct(stats.Blackjacks, stats.Rounds))
	fmt.Printf("Busts: %d (%.1f%%)\n", stats.Busts, pct(stats.Busts, stats.Rounds))
	fmt.Printf("Doubles: %d, Splits: %d, Surrenders: %d\n",
		stats.Doubles, stats.Splits, stats.Surrenders)
	fmt.Printf("Units staked: %.0f (%.2f per round)\n",
		stats.UnitsStaked, stats.UnitsStaked/float64(stats.Rounds))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func soft17Rule(hits bool) string {
	if hits {
		return "dealer hits soft 17"
	}
	return "dealer stands on soft 17"
}
