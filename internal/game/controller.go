package game

import (
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/holdemlabs/roomsrv/internal/deck"
	"github.com/holdemlabs/roomsrv/internal/engine"
	"github.com/holdemlabs/roomsrv/internal/gameid"
)

// Table is the controller's view of the room that owns it. All methods are
// called with the room lock held; Locker exposes that lock so timer callbacks
// can take it before touching state.
type Table interface {
	Config() Config
	SeatedPlayers() []*Player // ascending seat order
	PlayerBySeat(seat int) (*Player, bool)
	Playing() bool
	SetPlaying(bool)
	HostID() string
	// HostEliminated transfers hostship away from an eliminated host and
	// emits the corresponding room event.
	HostEliminated()
	Locker() sync.Locker
}

// Controller drives the hand state machine for a single room. Every entry
// point runs under the room's exclusive lock; the only self-initiated entry
// points are the turn timer and the inter-hand scheduler, which take the lock
// themselves.
type Controller struct {
	table  Table
	sink   EventSink
	clock  quartz.Clock
	rng    *rand.Rand
	logger *log.Logger

	state      *GameState
	handNumber int

	turnTimer     *quartz.Timer
	nextHandTimer *quartz.Timer
}

// NewController creates a controller for one room
func NewController(table Table, sink EventSink, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Controller {
	return &Controller{
		table:  table,
		sink:   sink,
		clock:  clock,
		rng:    rng,
		logger: logger.WithPrefix("game"),
	}
}

// State returns the current game state, nil before the first hand
func (c *Controller) State() *GameState {
	return c.state
}

// HandInProgress reports whether a hand is being played
func (c *Controller) HandInProgress() bool {
	return c.state != nil && c.state.Phase != PhaseIdle
}

// StartHand begins a new hand. Preconditions (two or more seated players with
// chips) are validated here; membership preconditions are the room's job.
func (c *Controller) StartHand() error {
	if c.HandInProgress() {
		return ErrGameInProgress
	}

	participants := c.eligiblePlayers()
	if len(participants) < 2 {
		return ErrNotEnoughPlayers
	}

	cfg := c.table.Config()
	c.handNumber++

	prevDealer := -1
	if c.state != nil {
		prevDealer = c.state.DealerSeat
	}

	state := &GameState{
		Phase:             PhasePreFlop,
		CurrentPlayerSeat: -1,
		HandID:            gameid.Generate(),
		RoundID:           gameid.Generate(),
		HandNumber:        c.handNumber,
		Deck:              deck.New(c.rng),
	}

	// Reset every seated player; zero-chip seats are eliminated, the rest
	// play this hand.
	seats := make([]int, 0, len(participants))
	for _, p := range c.table.SeatedPlayers() {
		p.ResetForNewHand()
		if p.Chips > 0 {
			p.Status = Active
		} else {
			p.Status = Eliminated
		}
	}
	for _, p := range participants {
		seats = append(seats, p.SeatIndex)
	}

	if prevDealer < 0 {
		state.DealerSeat = seats[c.rng.IntN(len(seats))]
	} else {
		state.DealerSeat = engine.NextDealer(seats, prevDealer)
	}
	state.SmallBlindSeat, state.BigBlindSeat = engine.BlindSeats(seats, state.DealerSeat)

	if dealer, ok := c.table.PlayerBySeat(state.DealerSeat); ok {
		dealer.IsDealer = true
	}

	// Post blinds. Short stacks post what they have and are all-in.
	sb, _ := c.table.PlayerBySeat(state.SmallBlindSeat)
	bb, _ := c.table.PlayerBySeat(state.BigBlindSeat)
	sb.DeductChips(cfg.SmallBlind)
	bb.DeductChips(cfg.BigBlind)

	// Posting the blind is not acting. The big blind keeps the option: when
	// unraised action limps around, the round waits for their check or raise.
	state.CurrentBet = cfg.BigBlind
	state.MinRaise = cfg.BigBlind

	// Two hole cards per active player, starting left of the dealer. The
	// deck is pre-shuffled so dealing two at a time is equivalent.
	order := dealOrder(seats, state.DealerSeat)
	for _, seat := range order {
		p, _ := c.table.PlayerBySeat(seat)
		if p.Status == Active || p.Status == AllIn {
			p.HoleCards = state.Deck.DealN(2)
		}
	}

	state.Pots = c.buildPots()
	c.state = state

	c.logger.Info("hand started",
		"hand", state.HandID,
		"number", state.HandNumber,
		"dealer", state.DealerSeat,
		"players", len(participants))

	c.sink.Broadcast(GameStartedEvent{
		HandID:         state.HandID,
		HandNumber:     state.HandNumber,
		DealerSeat:     state.DealerSeat,
		SmallBlindSeat: state.SmallBlindSeat,
		BigBlindSeat:   state.BigBlindSeat,
		SmallBlind:     cfg.SmallBlind,
		BigBlind:       cfg.BigBlind,
	})
	for _, p := range participants {
		if len(p.HoleCards) > 0 {
			c.sink.SendTo(p.ID, DealCardsEvent{HandID: state.HandID, Cards: p.HoleCards})
		}
	}

	first := engine.NextSeat(c.actingSeats(), state.BigBlindSeat)
	if first < 0 {
		// Blinds put everyone all-in; no betting is possible.
		c.sink.Broadcast(SyncStateEvent{})
		c.advancePhase()
		return nil
	}
	c.moveTurnTo(first)
	c.sink.Broadcast(SyncStateEvent{})
	return nil
}

// HandleAction validates and executes a player action. The request id has
// already been checked against the room's processed set.
func (c *Controller) HandleAction(playerID string, req ActionRequest) error {
	if !c.HandInProgress() {
		return ErrGameNotInProgress
	}
	state := c.state

	if req.RoundIndex != state.RoundIndex {
		return ErrStaleRequest
	}

	p := c.playerByID(playerID)
	if p == nil || !p.Seated() || p.SeatIndex != state.CurrentPlayerSeat {
		return ErrNotYourTurn
	}
	if !p.CanAct() || !p.IsCurrentTurn {
		return ErrCannotAct
	}

	var paid int
	switch req.Type {
	case ActionFold:
		p.Fold()

	case ActionCheck:
		if p.CurrentBet != state.CurrentBet {
			return ErrCannotCheck
		}
		p.HasActed = true

	case ActionCall:
		owed := state.CurrentBet - p.CurrentBet
		if owed <= 0 {
			return ErrNothingToCall
		}
		paid = p.DeductChips(owed) // short call is an implicit all-in
		p.HasActed = true

	case ActionRaise:
		increment := req.Amount - p.CurrentBet
		if increment > p.Chips {
			return ErrNotEnoughChips
		}
		if req.Amount < state.CurrentBet+state.MinRaise && increment != p.Chips {
			return ErrRaiseTooSmall
		}
		if req.Amount <= state.CurrentBet {
			return ErrRaiseTooSmall
		}
		prevBet := state.CurrentBet
		paid = p.DeductChips(increment)
		state.CurrentBet = req.Amount
		if raise := req.Amount - prevBet; raise > state.MinRaise {
			state.MinRaise = raise
		}
		c.reopenBetting(p)
		p.HasActed = true

	case ActionAllIn:
		paid = p.DeductChips(p.Chips)
		if p.CurrentBet > state.CurrentBet {
			// The shove raises. Undersized all-ins still clear the
			// acted flags, matching the original table rules.
			if raise := p.CurrentBet - state.CurrentBet; raise > state.MinRaise {
				state.MinRaise = raise
			}
			state.CurrentBet = p.CurrentBet
			c.reopenBetting(p)
		}
		p.HasActed = true

	default:
		return ErrCannotAct
	}

	c.disarmTimer()
	state.appendAction(p, req.Type, paid, false)

	c.sink.Broadcast(PlayerActedEvent{
		HandID:   state.HandID,
		RoundID:  state.RoundID,
		PlayerID: p.ID,
		Seat:     p.SeatIndex,
		Action:   req.Type,
		Amount:   paid,
		PotTotal: engine.PotTotal(c.buildPots()),
	})

	c.advanceAfterAction(p)
	return nil
}

// reopenBetting clears the acted flag of every other player still able to
// act, forcing them to respond to a raise.
func (c *Controller) reopenBetting(raiser *Player) {
	for _, p := range c.table.SeatedPlayers() {
		if p.ID != raiser.ID && p.CanAct() {
			p.HasActed = false
		}
	}
}

// advanceAfterAction decides what follows a successful action: hand end,
// phase advance, or passing the turn.
func (c *Controller) advanceAfterAction(actor *Player) {
	actor.IsCurrentTurn = false
	c.state.CurrentPlayerSeat = -1

	if len(c.playersInHand()) <= 1 {
		c.settleHand(false)
		return
	}

	if c.roundComplete() {
		c.advancePhase()
		return
	}

	c.moveTurnTo(engine.NextSeat(c.actingSeats(), actor.SeatIndex))
	c.sink.Broadcast(SyncStateEvent{})
}

// roundComplete implements the three completion conditions: one survivor,
// all non-all-in players acted and matched, or nobody left who can act.
func (c *Controller) roundComplete() bool {
	if len(c.playersInHand()) <= 1 {
		return true
	}
	acting := c.actingPlayers()
	if len(acting) == 0 {
		return true
	}
	for _, p := range acting {
		if !p.HasActed || p.CurrentBet != c.state.CurrentBet {
			return false
		}
	}
	return true
}

// advancePhase rolls the round's bets into the pot structure and deals the
// next street, fast-forwarding to showdown when betting can no longer happen.
func (c *Controller) advancePhase() {
	state := c.state
	cfg := c.table.Config()

	state.Pots = c.buildPots()
	for _, p := range c.table.SeatedPlayers() {
		p.ResetForNewRound()
	}

	if state.Phase == PhaseRiver {
		c.settleHand(true)
		return
	}

	switch state.Phase {
	case PhasePreFlop:
		state.Deck.Burn()
		state.CommunityCards = append(state.CommunityCards, state.Deck.DealN(3)...)
		state.Phase = PhaseFlop
	case PhaseFlop:
		state.Deck.Burn()
		state.CommunityCards = append(state.CommunityCards, state.Deck.DealN(1)...)
		state.Phase = PhaseTurn
	case PhaseTurn:
		state.Deck.Burn()
		state.CommunityCards = append(state.CommunityCards, state.Deck.DealN(1)...)
		state.Phase = PhaseRiver
	}

	state.RoundIndex++
	state.RoundID = gameid.Generate()
	state.CurrentBet = 0
	state.MinRaise = cfg.BigBlind

	c.sink.Broadcast(PhaseAdvancedEvent{
		HandID:         state.HandID,
		RoundID:        state.RoundID,
		RoundIndex:     state.RoundIndex,
		Phase:          state.Phase.String(),
		CommunityCards: state.CommunityCards,
		Pots:           state.Pots,
	})

	// If at most one contender can still bet, betting is over for the rest
	// of the hand; run out the board.
	if c.countNonAllInContenders() <= 1 {
		c.advancePhase()
		return
	}

	first := engine.FirstToActPostflop(c.actingSeats(), state.DealerSeat)
	if first < 0 {
		c.advancePhase()
		return
	}
	c.moveTurnTo(first)
	c.sink.Broadcast(SyncStateEvent{})
}

// settleHand ends the hand: single-survivor scoop or full showdown. It then
// eliminates busted players, hands off hostship if needed, and either ends
// the game or schedules the next hand.
func (c *Controller) settleHand(showdown bool) {
	state := c.state
	cfg := c.table.Config()
	c.disarmTimer()

	state.Pots = c.buildPots()
	contenders := c.playersInHand()

	seats := make(map[string]int)
	for _, p := range c.table.SeatedPlayers() {
		seats[p.ID] = p.SeatIndex
	}

	var awards []PotAward
	var disclosures []ShowdownHand

	if !showdown && len(contenders) == 1 {
		// Everyone else folded: the survivor collects every pot, nothing
		// is revealed.
		survivor := contenders[0]
		total := engine.PotTotal(state.Pots)
		survivor.AddChips(total)
		awards = []PotAward{{PlayerID: survivor.ID, Amount: total, PotIndex: 0}}
	} else {
		// Run out any missing board cards, then evaluate best five of
		// seven per contender.
		for len(state.CommunityCards) < 5 {
			state.Deck.Burn()
			need := 3
			if len(state.CommunityCards) >= 3 {
				need = 1
			}
			state.CommunityCards = append(state.CommunityCards, state.Deck.DealN(need)...)
		}

		scores := make(map[string]int64)
		values := make(map[string]engine.HandValue)
		for _, p := range contenders {
			cards := make([]deck.Card, 0, 7)
			cards = append(cards, p.HoleCards...)
			cards = append(cards, state.CommunityCards...)
			v := engine.Evaluate(cards)
			scores[p.ID] = v.Score
			values[p.ID] = v
		}

		for _, payout := range engine.AwardPots(state.Pots, scores, seats) {
			p := c.playerByID(payout.PlayerID)
			p.AddChips(payout.Amount)
			awards = append(awards, PotAward{
				PlayerID: payout.PlayerID,
				Amount:   payout.Amount,
				PotIndex: payout.PotIndex,
				Hand:     values[payout.PlayerID].Category.String(),
			})
		}

		for _, p := range contenders {
			disclosures = append(disclosures, ShowdownHand{
				PlayerID:  p.ID,
				Seat:      p.SeatIndex,
				HoleCards: p.HoleCards,
				Hand:      values[p.ID].Category.String(),
			})
		}
	}

	state.Phase = PhaseIdle
	state.CurrentPlayerSeat = -1

	var eliminated []string
	remaining := 0
	var lastStanding *Player
	for _, p := range c.table.SeatedPlayers() {
		if p.Chips == 0 {
			if p.Status != Eliminated {
				p.Status = Eliminated
				eliminated = append(eliminated, p.ID)
			}
		} else {
			remaining++
			lastStanding = p
		}
	}

	c.logger.Info("hand settled",
		"hand", state.HandID,
		"showdown", showdown || len(contenders) > 1,
		"awards", len(awards),
		"eliminated", len(eliminated))

	c.sink.Broadcast(HandResultEvent{
		HandID:         state.HandID,
		Awards:         awards,
		Pots:           state.Pots,
		CommunityCards: state.CommunityCards,
		ShowdownCards:  disclosures,
		Eliminated:     eliminated,
	})

	host := c.playerByID(c.table.HostID())
	if host != nil && host.Status == Eliminated {
		c.table.HostEliminated()
	}

	if remaining <= 1 {
		c.table.SetPlaying(false)
		winnerID := ""
		if lastStanding != nil {
			winnerID = lastStanding.ID
		}
		c.sink.Broadcast(GameEndedEvent{WinnerID: winnerID})
		c.sink.Broadcast(SyncStateEvent{})
		return
	}

	c.sink.Broadcast(SyncStateEvent{})
	c.scheduleNextHand(cfg)
}

// scheduleNextHand starts the following hand after the inter-hand delay,
// provided the game is still running by then.
func (c *Controller) scheduleNextHand(cfg Config) {
	c.nextHandTimer = c.clock.AfterFunc(cfg.InterHandDelay, func() {
		c.table.Locker().Lock()
		defer c.table.Locker().Unlock()

		if !c.table.Playing() || c.HandInProgress() {
			return
		}
		if err := c.StartHand(); err != nil {
			c.logger.Warn("could not start next hand", "error", err)
			c.table.SetPlaying(false)
			c.sink.Broadcast(SyncStateEvent{})
		}
	})
}

// moveTurnTo gives the turn to a seat, stamps the deadline and arms the
// action timer.
func (c *Controller) moveTurnTo(seat int) {
	state := c.state
	cfg := c.table.Config()

	p, ok := c.table.PlayerBySeat(seat)
	if !ok {
		return
	}
	p.IsCurrentTurn = true
	state.CurrentPlayerSeat = seat
	state.TurnDeadline = c.clock.Now().Add(cfg.TurnTimeout)

	c.armTimer(state.HandID, state.RoundID, seat)

	c.sink.Broadcast(PlayerTurnEvent{
		HandID:     state.HandID,
		RoundID:    state.RoundID,
		RoundIndex: state.RoundIndex,
		PlayerID:   p.ID,
		Seat:       seat,
		Deadline:   state.TurnDeadline,
		CurrentBet: state.CurrentBet,
		MinRaise:   state.MinRaise,
	})
}

// armTimer schedules the auto-action for the current turn. Disconnection
// does not pause it; a disconnected player times out like anyone else.
func (c *Controller) armTimer(handID, roundID string, seat int) {
	c.disarmTimer()
	cfg := c.table.Config()

	c.turnTimer = c.clock.AfterFunc(cfg.TurnTimeout, func() {
		c.table.Locker().Lock()
		defer c.table.Locker().Unlock()
		c.handleTimeout(handID, roundID, seat)
	})
}

func (c *Controller) disarmTimer() {
	if c.turnTimer != nil {
		c.turnTimer.Stop()
		c.turnTimer = nil
	}
}

// handleTimeout fires the synthetic action for a player who ran out the
// clock: CHECK when nothing is owed, otherwise FOLD.
func (c *Controller) handleTimeout(handID, roundID string, seat int) {
	state := c.state
	if !c.HandInProgress() || state.HandID != handID || state.RoundID != roundID {
		return
	}
	if state.CurrentPlayerSeat != seat {
		return
	}
	p, ok := c.table.PlayerBySeat(seat)
	if !ok || !p.CanAct() {
		return
	}

	action := ActionFold
	if p.CurrentBet == state.CurrentBet {
		action = ActionCheck
		p.HasActed = true
	} else {
		p.Fold()
	}

	c.logger.Info("turn timed out", "hand", handID, "seat", seat, "action", action)

	state.appendAction(p, action, 0, true)
	c.sink.Broadcast(PlayerActedEvent{
		HandID:   state.HandID,
		RoundID:  state.RoundID,
		PlayerID: p.ID,
		Seat:     seat,
		Action:   action,
		Amount:   0,
		Auto:     true,
		PotTotal: engine.PotTotal(c.buildPots()),
	})

	c.advanceAfterAction(p)
}

// StopTimers disarms the turn and inter-hand timers; used when the room is
// destroyed.
func (c *Controller) StopTimers() {
	c.disarmTimer()
	if c.nextHandTimer != nil {
		c.nextHandTimer.Stop()
		c.nextHandTimer = nil
	}
}

// buildPots recomputes the pot structure from every seated player's total
// hand contribution, including the bets of the round in progress.
func (c *Controller) buildPots() []engine.Pot {
	var contribs []engine.Contribution
	for _, p := range c.table.SeatedPlayers() {
		if p.TotalBetThisHand > 0 {
			contribs = append(contribs, engine.Contribution{
				PlayerID: p.ID,
				Seat:     p.SeatIndex,
				Amount:   p.TotalBetThisHand,
				Folded:   p.IsFolded,
			})
		}
	}
	return engine.BuildPots(contribs)
}

func (c *Controller) eligiblePlayers() []*Player {
	var out []*Player
	for _, p := range c.table.SeatedPlayers() {
		if p.Chips > 0 {
			out = append(out, p)
		}
	}
	return out
}

func (c *Controller) playersInHand() []*Player {
	var out []*Player
	for _, p := range c.table.SeatedPlayers() {
		if p.InHand() {
			out = append(out, p)
		}
	}
	return out
}

func (c *Controller) actingPlayers() []*Player {
	var out []*Player
	for _, p := range c.table.SeatedPlayers() {
		if p.CanAct() {
			out = append(out, p)
		}
	}
	return out
}

func (c *Controller) actingSeats() []int {
	var out []int
	for _, p := range c.actingPlayers() {
		out = append(out, p.SeatIndex)
	}
	return out
}

func (c *Controller) countNonAllInContenders() int {
	n := 0
	for _, p := range c.playersInHand() {
		if !p.IsAllIn {
			n++
		}
	}
	return n
}

func (c *Controller) playerByID(id string) *Player {
	for _, p := range c.table.SeatedPlayers() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func dealOrder(seats []int, dealer int) []int {
	order := make([]int, 0, len(seats))
	cur := dealer
	for range seats {
		cur = engine.NextSeat(seats, cur)
		order = append(order, cur)
	}
	return order
}
