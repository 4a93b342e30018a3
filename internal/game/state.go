package game

// State represents the round state machine
type State int

const (
	Betting State = iota
	Dealing
	PlayerTurn
	DealerTurn
	Payout
	GameOver
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Payout:
		return "payout"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Result classifies the outcome of a hand or round
type Result int

const (
	ResultWin Result = iota
	ResultLose
	ResultPush
	ResultBlackjack
	ResultSurrender
)

// String returns the string representation of a result
func (r Result) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLose:
		return "lose"
	case ResultPush:
		return "push"
	case ResultBlackjack:
		return "blackjack"
	case ResultSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}
