package game

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack-trainer/internal/gameid"
)

// PlaceBet debits the wager and arms the round. Valid only in BETTING.
func (g *Game) PlaceBet(amount int) error {
	if g.state != Betting {
		return fmt.Errorf("%w: cannot bet in %s", ErrInvalidState, g.state)
	}
	if amount < g.settings.MinBet || amount > g.settings.MaxBet {
		return fmt.Errorf("%w: bet %d must be between %d and %d",
			ErrInvalidBet, amount, g.settings.MinBet, g.settings.MaxBet)
	}
	if amount > g.balance {
		return fmt.Errorf("%w: bet %d exceeds balance %d", ErrInsufficientFunds, amount, g.balance)
	}

	g.currentBet = amount
	g.balance -= amount
	g.hands[0].Bet = amount
	g.stats.TotalWagered += amount

	g.publishBalance()
	g.saveState()
	return nil
}

// Deal starts the round: reshuffles the shoe if due, deals player/dealer/
// player/dealer with the hole card face down, then either waits on insurance,
// resolves a natural, or opens the player turn.
func (g *Game) Deal() error {
	if g.state != Betting || g.currentBet == 0 {
		return fmt.Errorf("%w: must place a bet before dealing", ErrInvalidState)
	}

	g.roundID = gameid.Generate()
	g.logger.Debug("Starting round", "round", g.roundID, "bet", g.currentBet)

	if g.shoe.NeedsReshuffle() {
		g.shoe.Reshuffle()
		g.bus.Publish(NewReshuffleEvent(g.shoe.DeckCount()))
		g.logger.Debug("Shoe reshuffled", "decks", g.shoe.DeckCount(), "cards", g.shoe.Remaining())
	}

	g.setState(Dealing)

	g.hands = []*Hand{NewHand()}
	g.hands[0].Bet = g.currentBet
	g.dealer.Clear()
	g.current = 0
	g.awaitingInsurance = false

	// Fixed deal order: player, dealer up, player, dealer hole
	if err := g.dealCard(g.hands[0], 0, false, true); err != nil {
		return err
	}
	if err := g.dealCard(g.dealer, 0, true, true); err != nil {
		return err
	}
	if err := g.dealCard(g.hands[0], 0, false, true); err != nil {
		return err
	}
	if err := g.dealCard(g.dealer, 0, true, false); err != nil {
		return err
	}

	if g.dealer.Cards[0].IsAce() && g.settings.InsuranceAllowed {
		g.awaitingInsurance = true
		g.setState(PlayerTurn)
		return nil
	}

	if g.hands[0].IsBlackjack() {
		g.resolveBlackjack()
		return nil
	}

	g.setState(PlayerTurn)
	return nil
}

// dealCard draws from the shoe into a hand and publishes the card event.
// The shoe can only run dry if the reshuffle contract was violated.
func (g *Game) dealCard(hand *Hand, handIndex int, dealer, faceUp bool) error {
	card, err := g.shoe.Deal()
	if err != nil {
		return fmt.Errorf("deal failed: %w", err)
	}
	card.FaceUp = faceUp
	hand.AddCard(card)
	g.bus.Publish(NewCardDealtEvent(g.roundID, card, handIndex, dealer, false))
	return nil
}

// revealHoleCard flips the dealer's second card face up
func (g *Game) revealHoleCard() {
	if len(g.dealer.Cards) < 2 || g.dealer.Cards[1].FaceUp {
		return
	}
	g.dealer.Cards[1].FaceUp = true
	g.bus.Publish(NewCardDealtEvent(g.roundID, g.dealer.Cards[1], 0, true, true))
}

// Hit deals one card to the active hand, advancing on a bust
func (g *Game) Hit() error {
	if !g.CanHit() {
		return fmt.Errorf("%w: cannot hit", ErrInvalidState)
	}
	if err := g.dealCard(g.CurrentHand(), g.current, false, true); err != nil {
		return err
	}
	if g.CurrentHand().IsBusted() {
		return g.advanceHand()
	}
	return nil
}

// Stand marks the active hand stood and advances
func (g *Game) Stand() error {
	if !g.CanStand() {
		return fmt.Errorf("%w: cannot stand", ErrInvalidState)
	}
	g.CurrentHand().Stood = true
	return g.advanceHand()
}

// Double doubles the wager, deals exactly one card, and forces a stand
func (g *Game) Double() error {
	if g.state != PlayerTurn || g.awaitingInsurance {
		return fmt.Errorf("%w: cannot double", ErrInvalidState)
	}
	hand := g.CurrentHand()
	if !hand.CanDouble() || hand.Stood || (hand.Split && !g.settings.DoubleAfterSplit) {
		return fmt.Errorf("%w: double not available", ErrRuleViolation)
	}
	if hand.Bet > g.balance {
		return fmt.Errorf("%w: cannot cover double of %d", ErrInsufficientFunds, hand.Bet)
	}

	additional := hand.Bet
	g.balance -= additional
	hand.Bet *= 2
	hand.Doubled = true
	g.stats.TotalWagered += additional
	g.publishBalance()

	if err := g.dealCard(hand, g.current, false, true); err != nil {
		return err
	}
	hand.Stood = true
	return g.advanceHand()
}

// Split moves the active hand's second card into a new hand inserted after
// it, debits an equal wager, and deals a replacement card to the original
// hand. The new hand's second card is dealt lazily when play reaches it.
func (g *Game) Split() error {
	if g.state != PlayerTurn || g.awaitingInsurance {
		return fmt.Errorf("%w: cannot split", ErrInvalidState)
	}
	hand := g.CurrentHand()
	if !hand.CanSplit(g.settings.ResplitAces) || len(g.hands) >= MaxPlayerHands {
		return fmt.Errorf("%w: split not available", ErrRuleViolation)
	}
	if hand.Bet > g.balance {
		return fmt.Errorf("%w: cannot cover split wager of %d", ErrInsufficientFunds, hand.Bet)
	}

	g.balance -= hand.Bet
	g.stats.TotalWagered += hand.Bet

	newHand := NewHand()
	newHand.Bet = hand.Bet
	newHand.Split = true
	newHand.AddCard(hand.Cards[len(hand.Cards)-1])
	hand.Cards = hand.Cards[:len(hand.Cards)-1]
	hand.Split = true

	g.hands = slices.Insert(g.hands, g.current+1, newHand)

	if err := g.dealCard(hand, g.current, false, true); err != nil {
		return err
	}
	g.publishBalance()
	return nil
}

// Surrender forfeits the hand for half the wager back
func (g *Game) Surrender() error {
	if g.state != PlayerTurn || g.awaitingInsurance {
		return fmt.Errorf("%w: cannot surrender", ErrInvalidState)
	}
	if !g.CanSurrender() {
		return fmt.Errorf("%w: surrender not available", ErrRuleViolation)
	}

	hand := g.CurrentHand()
	hand.Surrendered = true
	g.balance += hand.Bet / 2
	g.publishBalance()
	return g.advanceHand()
}

// Insurance resolves the pending insurance decision. Declining checks the
// dealer for blackjack directly; taking debits half the main wager as a side
// bet that pays 2:1 on a dealer blackjack. An unaffordable side bet fails
// silently and the blackjack check proceeds without it.
func (g *Game) Insurance(take bool) error {
	if !g.CanInsure() {
		return fmt.Errorf("%w: no insurance decision pending", ErrInvalidState)
	}
	g.awaitingInsurance = false

	if !take {
		if g.dealer.IsBlackjack() {
			g.resolveDealerBlackjack()
		}
		return nil
	}

	amount := g.CurrentHand().Bet / 2
	if amount <= g.balance {
		g.balance -= amount
		g.CurrentHand().InsuranceBet = amount
		g.publishBalance()
	} else {
		g.logger.Debug("Insurance skipped: insufficient balance", "needed", amount)
	}

	if g.dealer.IsBlackjack() {
		// Insurance pays 2:1; the credit lands before the dealer-blackjack
		// loss resolution so balance notifications arrive in that order.
		if bet := g.CurrentHand().InsuranceBet; bet > 0 {
			g.balance += bet * 3
			g.publishBalance()
		}
		g.resolveDealerBlackjack()
	}
	return nil
}

// advanceHand moves play to the next player hand, dealing a pending second
// card after a split, or begins the dealer turn when all hands are complete.
func (g *Game) advanceHand() error {
	if g.current < len(g.hands)-1 {
		g.current++
		if len(g.CurrentHand().Cards) == 1 {
			if err := g.dealCard(g.CurrentHand(), g.current, false, true); err != nil {
				return err
			}
		}
		return nil
	}
	return g.dealerTurn()
}

// dealerTurn reveals the hole card and draws to the house rule, unless every
// player hand already busted or surrendered.
func (g *Game) dealerTurn() error {
	allDone := true
	for _, hand := range g.hands {
		if !hand.IsBusted() && !hand.Surrendered {
			allDone = false
			break
		}
	}

	if allDone {
		g.revealHoleCard()
		g.resolveHands()
		return nil
	}

	g.setState(DealerTurn)
	g.revealHoleCard()

	for g.shouldDealerHit() {
		if err := g.dealCard(g.dealer, 0, true, true); err != nil {
			return err
		}
	}

	g.resolveHands()
	return nil
}

// shouldDealerHit applies the stand-on-17 rule, hitting soft 17 when the
// table plays H17.
func (g *Game) shouldDealerHit() bool {
	value := g.dealer.Value()
	if value < 17 {
		return true
	}
	return value == 17 && g.dealer.IsSoft() && g.settings.DealerHitsSoft17
}

// resolveBlackjack settles an immediate player natural against the hole card
func (g *Game) resolveBlackjack() {
	g.revealHoleCard()
	hand := g.hands[0]

	if g.dealer.IsBlackjack() {
		g.balance += hand.Bet
		g.stats.HandsPushed++
		g.publishResult(ResultPush, 0)
	} else {
		winnings := int(float64(hand.Bet) * (1 + g.settings.BlackjackPays))
		g.balance += winnings
		g.stats.HandsWon++
		g.stats.Blackjacks++
		g.stats.NetProfit += winnings - hand.Bet
		g.publishResult(ResultBlackjack, winnings-hand.Bet)
	}

	g.publishBalance()
	g.endRound()
}

// resolveDealerBlackjack settles every hand against a dealer natural. Player
// naturals push; everything else loses its main wager.
func (g *Game) resolveDealerBlackjack() {
	g.revealHoleCard()

	for _, hand := range g.hands {
		if hand.IsBlackjack() {
			g.balance += hand.Bet
			g.stats.HandsPushed++
		} else {
			g.stats.HandsLost++
			g.stats.NetProfit -= hand.Bet
		}
	}

	g.publishBalance()
	g.publishResult(ResultLose, 0)
	g.endRound()
}

// resolveHands settles every player hand against the dealer and pays out.
// Per-hand precedence: surrender, bust, dealer bust, total comparison.
// Surrendered hands touch no win/lose/push counters.
func (g *Game) resolveHands() {
	g.setState(Payout)

	dealerValue := g.dealer.Value()
	dealerBusted := g.dealer.IsBusted()
	totalWinnings := 0

	for _, hand := range g.hands {
		payout := 0
		switch {
		case hand.Surrendered:
			payout = hand.Bet / 2
		case hand.IsBusted():
			g.stats.HandsLost++
			g.stats.NetProfit -= hand.Bet
		case dealerBusted, hand.Value() > dealerValue:
			payout = hand.Bet * 2
			g.stats.HandsWon++
			g.stats.NetProfit += hand.Bet
		case hand.Value() < dealerValue:
			g.stats.HandsLost++
			g.stats.NetProfit -= hand.Bet
		default:
			payout = hand.Bet
			g.stats.HandsPushed++
		}
		g.balance += payout
		totalWinnings += payout - hand.Bet
	}

	g.stats.HandsPlayed++
	g.publishBalance()

	overall := ResultPush
	if totalWinnings > 0 {
		overall = ResultWin
	} else if totalWinnings < 0 {
		overall = ResultLose
	}
	g.publishResult(overall, totalWinnings)
	g.endRound()
}

func (g *Game) endRound() {
	g.setState(GameOver)
	g.saveState()
}

// NewRound resets the table for the next bet. Balance, statistics, and the
// shoe carry over.
func (g *Game) NewRound() error {
	if g.state != GameOver {
		return fmt.Errorf("%w: round still in progress", ErrInvalidState)
	}
	g.hands = []*Hand{NewHand()}
	g.dealer.Clear()
	g.current = 0
	g.currentBet = 0
	g.awaitingInsurance = false
	g.setState(Betting)
	return nil
}
