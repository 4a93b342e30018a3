// Package tui implements the interactive table as a Bubble Tea program. It
// renders from view snapshots captured after each engine operation plus the
// event stream, so it never reaches into engine state mid-mutation.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/game"
)

// handView is the renderable state of a single hand
type handView struct {
	cards       []deck.Card
	value       int
	bet         int
	stood       bool
	busted      bool
	blackjack   bool
	doubled     bool
	split       bool
	surrendered bool
}

// tableView is everything the View needs, captured while the engine is idle
type tableView struct {
	state             game.State
	balance           int
	currentBet        int
	dealer            []deck.Card
	dealerValue       int
	holeHidden        bool
	hands             []handView
	current           int
	awaitingInsurance bool
	canHit            bool
	canStand          bool
	canDouble         bool
	canSplit          bool
	canSurrender      bool
	hint              string
	stats             game.Stats
}

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	game   *game.Game
	logger *log.Logger

	betInput textinput.Model
	logView  viewport.Model
	gameLog  []string

	view       tableView
	resultLine string
	errLine    string

	hintsEnabled bool
	soundEnabled bool
	lastBet      int
	streak       int
	biggestWin   int

	busy        bool
	quitting    bool
	width       int
	height      int
	initialized bool
}

// NewModel creates a TUI model bound to a game engine. Persisted UI
// preferences are restored from the engine's snapshot.
func NewModel(g *game.Game, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "bet amount"
	ti.CharLimit = 12
	ti.Width = 14
	ti.Prompt = "$ "
	ti.Focus()

	vp := viewport.New(40, 6)

	prefs := g.Prefs()
	m := &Model{
		game:         g,
		logger:       logger.WithPrefix("tui"),
		betInput:     ti,
		logView:      vp,
		hintsEnabled: prefs.Hints,
		soundEnabled: prefs.Sound,
		lastBet:      prefs.LastBet,
		streak:       prefs.Streak,
		biggestWin:   prefs.BiggestWin,
	}
	if m.lastBet > 0 && m.lastBet <= g.Balance() {
		ti.SetValue(strconv.Itoa(m.lastBet))
		m.betInput = ti
	}
	m.view = captureView(g, m.hintsEnabled)
	return m
}

// captureView snapshots the engine for rendering. Must only be called while
// no engine operation is in flight.
func captureView(g *game.Game, hints bool) tableView {
	v := tableView{
		state:             g.State(),
		balance:           g.Balance(),
		currentBet:        g.CurrentBet(),
		current:           g.CurrentHandIndex(),
		awaitingInsurance: g.AwaitingInsurance(),
		canHit:            g.CanHit(),
		canStand:          g.CanStand(),
		canDouble:         g.CanDouble(),
		canSplit:          g.CanSplit(),
		canSurrender:      g.CanSurrender(),
		stats:             g.Stats(),
	}

	dealer := g.DealerHand()
	v.dealer = append(v.dealer, dealer.Cards...)
	for _, c := range dealer.Cards {
		if !c.FaceUp {
			v.holeHidden = true
		}
	}
	if v.holeHidden {
		if len(dealer.Cards) > 0 {
			v.dealerValue = dealer.Cards[0].Value()
		}
	} else {
		v.dealerValue = dealer.Value()
	}

	for _, h := range g.PlayerHands() {
		v.hands = append(v.hands, handView{
			cards:       append([]deck.Card(nil), h.Cards...),
			value:       h.Value(),
			bet:         h.Bet,
			stood:       h.Stood,
			busted:      h.IsBusted(),
			blackjack:   h.IsBlackjack(),
			doubled:     h.Doubled,
			split:       h.Split,
			surrendered: h.Surrendered,
		})
	}

	if hints {
		if action, ok := g.Hint(); ok {
			v.hint = action.String()
		}
	}
	return v
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// doOp runs an engine operation off the update loop and snapshots the table
// once it completes. Events published during the operation arrive as
// EngineEventMsg before the opDoneMsg.
func (m *Model) doOp(op func() error) tea.Cmd {
	m.busy = true
	m.errLine = ""
	g := m.game
	hints := m.hintsEnabled
	return func() tea.Msg {
		err := op()
		return opDoneMsg{view: captureView(g, hints), err: err}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		m.logView.Height = max(3, msg.Height-16)
		m.initialized = true
		return m, nil

	case EngineEventMsg:
		m.handleEngineEvent(msg.Event)
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.view = msg.view
		if msg.err != nil {
			m.errLine = msg.err.Error()
			m.logger.Debug("Operation rejected", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.savePrefs()
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)
	case "?":
		m.hintsEnabled = !m.hintsEnabled
		m.view.hint = ""
		if m.hintsEnabled {
			m.view = captureView(m.game, true)
		}
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch m.view.state {
	case game.Betting:
		return m.handleBettingKey(msg)
	case game.PlayerTurn:
		return m.handlePlayKey(msg)
	case game.GameOver:
		if msg.String() == "enter" || msg.String() == "n" || msg.String() == " " {
			m.resultLine = ""
			return m, m.doOp(m.game.NewRound)
		}
	}
	return m, nil
}

func (m *Model) handleBettingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		amount, err := strconv.Atoi(strings.TrimSpace(m.betInput.Value()))
		if err != nil || amount <= 0 {
			m.errLine = "enter a valid bet amount"
			return m, nil
		}
		m.lastBet = amount
		return m, m.doOp(func() error {
			if err := m.game.PlaceBet(amount); err != nil {
				return err
			}
			return m.game.Deal()
		})
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view.awaitingInsurance {
		switch msg.String() {
		case "y":
			return m, m.doOp(func() error { return m.game.Insurance(true) })
		case "n":
			return m, m.doOp(func() error { return m.game.Insurance(false) })
		}
		return m, nil
	}

	switch msg.String() {
	case "h":
		if m.view.canHit {
			return m, m.doOp(m.game.Hit)
		}
	case "s":
		if m.view.canStand {
			return m, m.doOp(m.game.Stand)
		}
	case "d":
		if m.view.canDouble {
			return m, m.doOp(m.game.Double)
		}
	case "p":
		if m.view.canSplit {
			return m, m.doOp(m.game.Split)
		}
	case "r":
		if m.view.canSurrender {
			return m, m.doOp(m.game.Surrender)
		}
	}
	return m, nil
}

// handleEngineEvent feeds the game log and the streak counters
func (m *Model) handleEngineEvent(event game.GameEvent) {
	line := formatEvent(event)
	if line != "" {
		m.gameLog = append(m.gameLog, line)
		if len(m.gameLog) > 200 {
			m.gameLog = m.gameLog[len(m.gameLog)-200:]
		}
		m.logView.SetContent(strings.Join(m.gameLog, "\n"))
		m.logView.GotoBottom()
	}

	if result, ok := event.(game.HandResultEvent); ok {
		m.resultLine = formatResult(result)
		switch result.Result {
		case game.ResultWin, game.ResultBlackjack:
			if m.streak < 0 {
				m.streak = 0
			}
			m.streak++
			if result.Net > m.biggestWin {
				m.biggestWin = result.Net
			}
		case game.ResultLose:
			if m.streak > 0 {
				m.streak = 0
			}
			m.streak--
		}
		m.savePrefs()
	}
}

func (m *Model) savePrefs() {
	m.game.SetPrefs(game.Prefs{
		Sound:      m.soundEnabled,
		Hints:      m.hintsEnabled,
		LastBet:    m.lastBet,
		Streak:     m.streak,
		BiggestWin: m.biggestWin,
	})
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" ♠ ♥ Blackjack Trainer ♦ ♣ "))
	b.WriteString("\n\n")

	b.WriteString(m.renderDealer())
	b.WriteString("\n")
	b.WriteString(m.renderHands())
	b.WriteString("\n")

	b.WriteString(BalanceStyle.Render(fmt.Sprintf("Balance $%d", m.view.balance)))
	if m.view.currentBet > 0 {
		b.WriteString(HandStyle.Render(fmt.Sprintf("   Bet $%d", m.view.currentBet)))
	}
	b.WriteString("\n")

	if m.view.hint != "" {
		b.WriteString(HintStyle.Render("Hint: " + m.view.hint))
		b.WriteString("\n")
	}
	if m.resultLine != "" {
		b.WriteString(m.resultLine)
		b.WriteString("\n")
	}
	if m.errLine != "" {
		b.WriteString(ErrorStyle.Render(m.errLine))
		b.WriteString("\n")
	}

	b.WriteString(m.renderPrompt())
	b.WriteString("\n")

	if m.initialized && len(m.gameLog) > 0 {
		b.WriteString(m.logView.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStats())
	return b.String()
}

func (m *Model) renderDealer() string {
	if len(m.view.dealer) == 0 {
		return DealerStyle.Render("Dealer:") + HiddenCardStyle.Render(" waiting for deal")
	}
	label := fmt.Sprintf("(%d)", m.view.dealerValue)
	if m.view.holeHidden {
		label = fmt.Sprintf("(%d + ?)", m.view.dealerValue)
	}
	return DealerStyle.Render("Dealer: ") + renderCards(m.view.dealer) + "  " + HiddenCardStyle.Render(label)
}

func (m *Model) renderHands() string {
	var lines []string
	for i, h := range m.view.hands {
		marker := "  "
		style := HandStyle
		if len(m.view.hands) > 1 && i == m.view.current &&
			(m.view.state == game.PlayerTurn || m.view.state == game.Dealing) {
			marker = "▸ "
			style = ActiveHandStyle
		}

		var tags []string
		switch {
		case h.blackjack:
			tags = append(tags, "blackjack!")
		case h.busted:
			tags = append(tags, "bust")
		case h.surrendered:
			tags = append(tags, "surrendered")
		case h.stood:
			tags = append(tags, "stood")
		}
		if h.doubled {
			tags = append(tags, "doubled")
		}

		line := fmt.Sprintf("%sYou: ", marker)
		if len(m.view.hands) > 1 {
			line = fmt.Sprintf("%sHand %d: ", marker, i+1)
		}
		rendered := style.Render(line) + renderCards(h.cards) +
			HiddenCardStyle.Render(fmt.Sprintf("  (%d)  $%d", h.value, h.bet))
		if len(tags) > 0 {
			rendered += " " + HiddenCardStyle.Render("["+strings.Join(tags, ", ")+"]")
		}
		lines = append(lines, rendered)
	}
	if len(lines) == 0 {
		return HiddenCardStyle.Render("  place a bet to start")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPrompt() string {
	switch m.view.state {
	case game.Betting:
		return m.betInput.View() + HelpStyle.Render("  enter: deal · ?: hints · q: quit")
	case game.PlayerTurn:
		if m.view.awaitingInsurance {
			return HelpStyle.Render("Dealer shows an Ace. Take insurance? y/n")
		}
		var keys []string
		if m.view.canHit {
			keys = append(keys, "h: hit")
		}
		if m.view.canStand {
			keys = append(keys, "s: stand")
		}
		if m.view.canDouble {
			keys = append(keys, "d: double")
		}
		if m.view.canSplit {
			keys = append(keys, "p: split")
		}
		if m.view.canSurrender {
			keys = append(keys, "r: surrender")
		}
		return HelpStyle.Render(strings.Join(keys, " · "))
	case game.GameOver:
		return HelpStyle.Render("enter: next hand · q: quit")
	default:
		return HelpStyle.Render("…")
	}
}

func (m *Model) renderStats() string {
	s := m.view.stats
	return StatsStyle.Render(fmt.Sprintf(
		"%d played · %dW %dL %dP · %d blackjacks · net %+d · streak %+d · best win %d",
		s.HandsPlayed, s.HandsWon, s.HandsLost, s.HandsPushed,
		s.Blackjacks, s.NetProfit, m.streak, m.biggestWin))
}

// renderCards renders a hand's cards, hiding face-down cards
func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		switch {
		case !c.FaceUp:
			parts[i] = HiddenCardStyle.Render("▮▮")
		case c.IsRed():
			parts[i] = RedCardStyle.Render(c.String())
		default:
			parts[i] = BlackCardStyle.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

// formatEvent turns an engine event into a game log line
func formatEvent(event game.GameEvent) string {
	switch e := event.(type) {
	case game.CardDealtEvent:
		if e.Dealer {
			switch {
			case e.IsReveal:
				return fmt.Sprintf("Dealer reveals %s", e.Card)
			case !e.Card.FaceUp:
				return "Dealer is dealt a card face down"
			default:
				return fmt.Sprintf("Dealer is dealt %s", e.Card)
			}
		}
		return fmt.Sprintf("You are dealt %s", e.Card)
	case game.ReshuffleEvent:
		return fmt.Sprintf("Shuffling %d decks", e.DeckCount)
	case game.StateChangedEvent:
		if e.State == game.DealerTurn {
			return "Dealer plays"
		}
		return ""
	default:
		return ""
	}
}

// formatResult renders the round outcome banner
func formatResult(result game.HandResultEvent) string {
	switch result.Result {
	case game.ResultBlackjack:
		return WinStyle.Render(fmt.Sprintf("Blackjack! You win $%d", result.Net))
	case game.ResultWin:
		return WinStyle.Render(fmt.Sprintf("You win $%d", result.Net))
	case game.ResultLose:
		if result.Net < 0 {
			return LoseStyle.Render(fmt.Sprintf("You lose $%d", -result.Net))
		}
		return LoseStyle.Render("Dealer wins")
	case game.ResultSurrender:
		return PushStyle.Render("Hand surrendered")
	default:
		return PushStyle.Render("Push, bets returned")
	}
}
