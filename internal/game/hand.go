package game

import (
	"strings"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// Hand is an ordered sequence of cards plus the wager and play flags attached
// to it. A round owns one dealer hand and up to four player hands.
type Hand struct {
	Cards        []deck.Card
	Bet          int
	InsuranceBet int
	Stood        bool
	Doubled      bool
	Split        bool
	Surrendered  bool
}

// NewHand creates an empty hand
func NewHand() *Hand {
	return &Hand{Cards: make([]deck.Card, 0, 8)}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

// value computes the hand total and whether it is soft. Aces count as 11
// first and are demoted to 1 one at a time while the total exceeds 21.
func (h *Hand) value() (total int, soft bool) {
	aces := 0
	for _, c := range h.Cards {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// Value returns the best blackjack total for the hand
func (h *Hand) Value() int {
	total, _ := h.value()
	return total
}

// IsSoft returns true if the hand counts an Ace as 11 without busting
func (h *Hand) IsSoft() bool {
	_, soft := h.value()
	return soft
}

// IsBusted returns true if the hand total exceeds 21
func (h *Hand) IsBusted() bool {
	return h.Value() > 21
}

// IsBlackjack returns true for a natural: exactly two cards totalling 21 on a
// hand that did not come from a split.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Value() == 21 && !h.Split
}

// CanDouble returns true if the hand itself is eligible to double down.
// Balance and state checks are the engine's responsibility.
func (h *Hand) CanDouble() bool {
	return len(h.Cards) == 2 && !h.Doubled && !h.Surrendered
}

// CanSplit returns true if the hand is a splittable pair. Ten-value cards all
// count as equal rank for splitting. A pair of Aces that itself came from a
// split may only be resplit when the rules allow it.
func (h *Hand) CanSplit(resplitAces bool) bool {
	if len(h.Cards) != 2 {
		return false
	}
	if h.Cards[0].Value() != h.Cards[1].Value() {
		return false
	}
	if h.Split && h.Cards[0].IsAce() && !resplitAces {
		return false
	}
	return true
}

// IsComplete returns true once the hand requires no further player decisions
func (h *Hand) IsComplete() bool {
	return h.Stood || h.Surrendered || h.IsBusted()
}

// Clear empties the hand and resets all flags and wagers
func (h *Hand) Clear() {
	h.Cards = h.Cards[:0]
	h.Bet = 0
	h.InsuranceBet = 0
	h.Stood = false
	h.Doubled = false
	h.Split = false
	h.Surrendered = false
}

// String returns the hand's cards separated by spaces (e.g., "A♠ 7♦")
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
