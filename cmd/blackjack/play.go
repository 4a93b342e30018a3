package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-trainer/internal/config"
	"github.com/lox/blackjack-trainer/internal/game"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/store"
	"github.com/lox/blackjack-trainer/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct {
	Config string `short:"c" default:"blackjack.hcl" help:"Path to HCL config file"`
	State  string `default:"blackjack-state.json" help:"Path to the saved game state"`
	Seed   int64  `default:"0" help:"RNG seed (0 for random)"`
	Fresh  bool   `help:"Ignore saved state and start a fresh bankroll"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := newFileLogger(cfg.UI.LogFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting session", "seed", seed, "config", c.Config)

	opts := []game.GameOption{
		game.WithSettings(cfg.Settings()),
		game.WithLogger(logger),
	}
	if !c.Fresh {
		opts = append(opts, game.WithStore(store.NewFileStore(c.State, logger)))
	}

	g, err := game.NewGame(randutil.New(seed), opts...)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	// Without saved preferences the config file seeds them
	if g.Prefs() == (game.Prefs{}) {
		prefs := g.Prefs()
		prefs.Sound = cfg.UI.Sound
		prefs.Hints = cfg.UI.Hints
		g.SetPrefs(prefs)
	}

	lipgloss.SetColorProfile(termenv.ColorProfile())

	model := tui.NewModel(g, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	delay := time.Duration(cfg.UI.DealDelay) * time.Millisecond
	forwarder := tui.NewEventForwarder(program, quartz.NewReal(), delay)
	g.GetEventBus().Subscribe(forwarder)
	defer g.GetEventBus().Unsubscribe(forwarder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var eg errgroup.Group
	eg.Go(func() error {
		defer stop()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("tui exited: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		program.Quit()
		return nil
	})
	return eg.Wait()
}

// newFileLogger opens the session debug log. TUI programs own the terminal,
// so engine logging goes to a file instead of stderr.
func newFileLogger(path, level string) (*log.Logger, func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	closeLog := func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}
	return logger, closeLog, nil
}
