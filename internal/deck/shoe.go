package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// DefaultPenetration is the fraction of the shoe dealt before a reshuffle is due.
const DefaultPenetration = 0.75

// ErrEmptyShoe is returned when a deal is attempted on an exhausted shoe.
// The engine checks NeedsReshuffle before every round, so hitting this is a
// programming error rather than a normal game condition.
var ErrEmptyShoe = errors.New("shoe is empty")

// Shoe holds one or more shuffled decks and deals from the front. Dealt cards
// are discarded; a reshuffle rebuilds the full shoe rather than reusing them.
type Shoe struct {
	cards         []Card
	total         int
	deckCount     int
	nextDeckCount int
	penetration   float64
	stacked       []Card
	rng           *rand.Rand
}

// NewShoe creates a shoe of deckCount standard 52-card decks. The card order
// is undefined until Shuffle is called. The RNG is required to make
// randomness explicit and testing deterministic.
func NewShoe(deckCount int, rng *rand.Rand) (*Shoe, error) {
	if deckCount < 1 || deckCount > 8 {
		return nil, fmt.Errorf("deck count must be between 1 and 8, got %d", deckCount)
	}
	if rng == nil {
		return nil, errors.New("rng is required for shoe creation")
	}
	s := &Shoe{
		deckCount:     deckCount,
		nextDeckCount: deckCount,
		penetration:   DefaultPenetration,
		rng:           rng,
	}
	s.rebuild()
	return s, nil
}

// NewStackedShoe creates a shoe that deals the given cards in order and never
// reports needing a reshuffle. Reshuffling restores the original stack.
// Intended for deterministic tests.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	s := &Shoe{
		cards:         append([]Card(nil), stacked...),
		total:         len(stacked),
		deckCount:     1,
		nextDeckCount: 1,
		penetration:   1.0,
		stacked:       stacked,
	}
	return s
}

func (s *Shoe) rebuild() {
	s.deckCount = s.nextDeckCount
	s.cards = make([]Card, 0, s.deckCount*52)
	for d := 0; d < s.deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.total = len(s.cards)
}

// Shuffle randomizes the order of the remaining cards in the shoe
func (s *Shoe) Shuffle() {
	if s.stacked != nil {
		return
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Deal removes and returns the next card from the shoe
func (s *Shoe) Deal() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Total returns the number of cards the shoe held after its last rebuild
func (s *Shoe) Total() int {
	return s.total
}

// DeckCount returns the number of decks in the current shoe
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// Penetration returns the configured penetration fraction
func (s *Shoe) Penetration() float64 {
	return s.penetration
}

// NeedsReshuffle reports whether the fraction of undealt cards has fallen
// below 1 - penetration.
func (s *Shoe) NeedsReshuffle() bool {
	return float64(len(s.cards))/float64(s.total) < 1-s.penetration
}

// Reshuffle rebuilds the full shoe and shuffles it, discarding all previously
// dealt cards. A pending deck count change takes effect here.
func (s *Shoe) Reshuffle() {
	if s.stacked != nil {
		s.cards = append(s.cards[:0], s.stacked...)
		s.total = len(s.cards)
		return
	}
	s.rebuild()
	s.Shuffle()
}

// SetDeckCount changes the number of decks. The change takes effect on the
// next reshuffle; an in-progress shoe is never truncated.
func (s *Shoe) SetDeckCount(n int) error {
	if n < 1 || n > 8 {
		return fmt.Errorf("deck count must be between 1 and 8, got %d", n)
	}
	s.nextDeckCount = n
	return nil
}

// SetPenetration updates the reshuffle threshold
func (s *Shoe) SetPenetration(fraction float64) error {
	if fraction <= 0 || fraction > 1 {
		return fmt.Errorf("penetration must be in (0,1], got %v", fraction)
	}
	s.penetration = fraction
	return nil
}
