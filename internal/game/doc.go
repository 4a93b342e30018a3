// Package game implements the blackjack round engine: the betting/dealing/
// player-turn/dealer-turn/payout state machine, hand evaluation, bankroll and
// statistics tracking, and the event bus the presentation layer subscribes to.
//
// The engine is single-writer: callers invoke one operation at a time and
// every operation either completes fully or rejects with a validation error
// that leaves state untouched. Events are published synchronously in the
// order the mutations they describe occur, so a subscriber always observes a
// card before the engine deals the next one.
package game
