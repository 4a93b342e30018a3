package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"

	"github.com/lox/blackjack-trainer/internal/game"
)

// EngineEventMsg wraps an engine event for delivery into the Bubble Tea
// update loop.
type EngineEventMsg struct {
	Event game.GameEvent
}

// opDoneMsg signals that an engine operation finished, carrying the table
// view captured after it returned and any validation error it produced.
type opDoneMsg struct {
	view tableView
	err  error
}

// EventForwarder subscribes to the engine's event bus and forwards each
// event into the TUI program. Because the bus publishes synchronously, the
// engine blocks until the forwarder returns; sleeping here between dealer
// cards is what paces the dealer's draw sequence for the player. The clock
// is injectable so tests advance time instead of waiting.
type EventForwarder struct {
	program *tea.Program
	clock   quartz.Clock
	delay   time.Duration
}

// NewEventForwarder creates a forwarder pacing dealer cards by delay
func NewEventForwarder(program *tea.Program, clock quartz.Clock, delay time.Duration) *EventForwarder {
	return &EventForwarder{program: program, clock: clock, delay: delay}
}

// OnEvent implements game.EventSubscriber
func (f *EventForwarder) OnEvent(event game.GameEvent) {
	f.program.Send(EngineEventMsg{Event: event})

	if f.delay <= 0 {
		return
	}
	if card, ok := event.(game.CardDealtEvent); ok && card.Dealer {
		timer := f.clock.NewTimer(f.delay)
		<-timer.C
	}
}
