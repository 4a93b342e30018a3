// Package strategy implements the basic-strategy advisor: a pure decision
// table mapping the player's hand and the dealer's up-card to the
// mathematically preferred action. It never mutates game state.
package strategy

import "github.com/lox/blackjack-trainer/internal/deck"

// Action is a recommended play
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "HIT"
	case Stand:
		return "STAND"
	case Double:
		return "DOUBLE"
	case Split:
		return "SPLIT"
	case Surrender:
		return "SURRENDER"
	default:
		return "?"
	}
}

// Input captures everything the advisor needs about the table. Pair fields
// are only consulted when IsPair is set. DealerValue treats the dealer's Ace
// as 11.
type Input struct {
	Total        int
	Soft         bool
	IsPair       bool
	PairRank     deck.Rank
	DealerValue  int
	CanDouble    bool
	CanSplit     bool
	CanSurrender bool
}

// rule is a single predicate → action entry. Rules are evaluated in order and
// the first match wins, which keeps the table auditable against a printed
// strategy card.
type rule struct {
	name    string
	matches func(in Input) bool
	action  func(in Input) Action
}

// Recommend returns the basic-strategy action for the given situation
func Recommend(in Input) Action {
	for _, r := range rules {
		if r.matches(in) {
			return r.action(in)
		}
	}
	return Hit
}

var rules = []rule{
	{
		name:    "pairs",
		matches: func(in Input) bool { return in.IsPair && in.CanSplit },
		action:  pairAction,
	},
	{
		name:    "soft totals",
		matches: func(in Input) bool { return in.Soft },
		action:  softAction,
	},
	{
		name:    "hard totals",
		matches: func(in Input) bool { return true },
		action:  hardAction,
	},
}

// pairAction is the pair-splitting table keyed by pair rank
func pairAction(in Input) Action {
	d := in.DealerValue
	switch in.PairRank {
	case deck.Ace, deck.Eight:
		return Split
	case deck.Two, deck.Three:
		if d <= 7 {
			return Split
		}
		return Hit
	case deck.Four:
		if d == 5 || d == 6 {
			return Split
		}
		return Hit
	case deck.Five:
		if d <= 9 && in.CanDouble {
			return Double
		}
		return Hit
	case deck.Six:
		if d <= 6 {
			return Split
		}
		return Hit
	case deck.Seven:
		if d <= 7 {
			return Split
		}
		return Hit
	case deck.Nine:
		if d == 7 || d == 10 || d == 11 {
			return Stand
		}
		return Split
	case deck.Ten, deck.Jack, deck.Queen, deck.King:
		return Stand
	default:
		return hardAction(in)
	}
}

// softAction covers hands counting an Ace as 11
func softAction(in Input) Action {
	d := in.DealerValue
	switch {
	case in.Total >= 19:
		return Stand
	case in.Total == 18:
		if d <= 6 && in.CanDouble {
			return Double
		}
		if d <= 8 {
			return Stand
		}
		return Hit
	case in.Total == 17:
		if d >= 3 && d <= 6 && in.CanDouble {
			return Double
		}
		return Hit
	case in.Total >= 15:
		if d >= 4 && d <= 6 && in.CanDouble {
			return Double
		}
		return Hit
	case in.Total >= 13:
		if d >= 5 && d <= 6 && in.CanDouble {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}

// hardAction covers hard totals, including the two late-surrender spots
func hardAction(in Input) Action {
	d := in.DealerValue
	switch {
	case in.Total >= 17:
		return Stand
	case in.Total >= 13:
		if d <= 6 {
			return Stand
		}
		if in.Total == 16 && in.CanSurrender && d >= 9 {
			return Surrender
		}
		if in.Total == 15 && in.CanSurrender && d == 10 {
			return Surrender
		}
		return Hit
	case in.Total == 12:
		if d >= 4 && d <= 6 {
			return Stand
		}
		return Hit
	case in.Total == 11:
		if in.CanDouble {
			return Double
		}
		return Hit
	case in.Total == 10:
		if d <= 9 && in.CanDouble {
			return Double
		}
		return Hit
	case in.Total == 9:
		if d >= 3 && d <= 6 && in.CanDouble {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}
