package game

import (
	"time"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for the notifications the engine emits toward the
// presentation layer
const (
	EventTypeStateChanged   EventType = "state_changed"
	EventTypeCardDealt      EventType = "card_dealt"
	EventTypeBalanceChanged EventType = "balance_changed"
	EventTypeHandResult     EventType = "hand_result"
	EventTypeReshuffle      EventType = "reshuffle"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a blackjack round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// StateChangedEvent is published on every state machine transition
type StateChangedEvent struct {
	RoundID   string
	State     State
	timestamp time.Time
}

func (e StateChangedEvent) EventType() EventType { return EventTypeStateChanged }
func (e StateChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewStateChangedEvent creates a new state change event
func NewStateChangedEvent(roundID string, state State) StateChangedEvent {
	return StateChangedEvent{RoundID: roundID, State: state, timestamp: time.Now()}
}

// CardDealtEvent is published once per card dealt or hole-card reveal.
// HandIndex identifies the player hand the card went to; Dealer is set for
// dealer cards instead. IsReveal distinguishes a face-down card being flipped
// from a fresh deal.
type CardDealtEvent struct {
	RoundID   string
	Card      deck.Card
	HandIndex int
	Dealer    bool
	IsReveal  bool
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(roundID string, card deck.Card, handIndex int, dealer, isReveal bool) CardDealtEvent {
	return CardDealtEvent{
		RoundID:   roundID,
		Card:      card,
		HandIndex: handIndex,
		Dealer:    dealer,
		IsReveal:  isReveal,
		timestamp: time.Now(),
	}
}

// BalanceChangedEvent is published on every balance mutation
type BalanceChangedEvent struct {
	Balance   int
	timestamp time.Time
}

func (e BalanceChangedEvent) EventType() EventType { return EventTypeBalanceChanged }
func (e BalanceChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewBalanceChangedEvent creates a new balance change event
func NewBalanceChangedEvent(balance int) BalanceChangedEvent {
	return BalanceChangedEvent{Balance: balance, timestamp: time.Now()}
}

// HandResultEvent is published once per round when the outcome is finalized.
// Net is the round's total winnings relative to the wagers placed.
type HandResultEvent struct {
	RoundID   string
	Result    Result
	Net       int
	timestamp time.Time
}

func (e HandResultEvent) EventType() EventType { return EventTypeHandResult }
func (e HandResultEvent) Timestamp() time.Time { return e.timestamp }

// NewHandResultEvent creates a new hand result event
func NewHandResultEvent(roundID string, result Result, net int) HandResultEvent {
	return HandResultEvent{RoundID: roundID, Result: result, Net: net, timestamp: time.Now()}
}

// ReshuffleEvent is published when the shoe is rebuilt and reshuffled
type ReshuffleEvent struct {
	DeckCount int
	timestamp time.Time
}

func (e ReshuffleEvent) EventType() EventType { return EventTypeReshuffle }
func (e ReshuffleEvent) Timestamp() time.Time { return e.timestamp }

// NewReshuffleEvent creates a new reshuffle event
func NewReshuffleEvent(deckCount int) ReshuffleEvent {
	return ReshuffleEvent{DeckCount: deckCount, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Publishing is
// synchronous: the engine does not proceed until every subscriber has seen
// the event, which is what gives the presentation layer its ordering
// guarantees.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// EventFunc adapts a function to the EventSubscriber interface
type EventFunc func(GameEvent)

// OnEvent calls the wrapped function
func (f EventFunc) OnEvent(event GameEvent) { f(event) }
