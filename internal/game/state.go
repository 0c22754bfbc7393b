package game

import (
	"time"

	"github.com/holdemlabs/roomsrv/internal/deck"
	"github.com/holdemlabs/roomsrv/internal/engine"
)

// Phase represents the stage of a hand
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	return [...]string{"IDLE", "PRE_FLOP", "FLOP", "TURN", "RIVER", "SHOWDOWN"}[p]
}

// ActionType is a player betting action. The values double as the wire form.
type ActionType string

const (
	ActionFold  ActionType = "FOLD"
	ActionCheck ActionType = "CHECK"
	ActionCall  ActionType = "CALL"
	ActionRaise ActionType = "RAISE"
	ActionAllIn ActionType = "ALL_IN"
)

// ActionRequest is a client action against a versioned snapshot
type ActionRequest struct {
	Type       ActionType
	Amount     int
	RoundIndex int
	RequestID  string
}

// ActionRecord is one entry in the append-only per-hand action log
type ActionRecord struct {
	Order    int        `json:"order"`
	PlayerID string     `json:"playerId"`
	Seat     int        `json:"seat"`
	Action   ActionType `json:"action"`
	Amount   int        `json:"amount"`
	Phase    string     `json:"phase"`
	Auto     bool       `json:"auto,omitempty"`
}

// GameState is the per-room hand state. It is nil when no hand has ever been
// dealt; between hands the phase is IDLE.
type GameState struct {
	Phase          Phase
	CommunityCards []deck.Card
	Pots           []engine.Pot

	CurrentPlayerSeat int // -1 when nobody is to act
	DealerSeat        int
	SmallBlindSeat    int
	BigBlindSeat      int

	CurrentBet int
	MinRaise   int

	// RoundIndex increments once per betting round within the hand and
	// guards against late action retries from a previous round.
	RoundIndex int

	TurnDeadline time.Time

	HandID     string
	RoundID    string
	HandNumber int

	Deck *deck.Deck // remaining shoe, never serialized

	ActionHistory []ActionRecord
}

func (gs *GameState) appendAction(p *Player, action ActionType, amount int, auto bool) {
	gs.ActionHistory = append(gs.ActionHistory, ActionRecord{
		Order:    len(gs.ActionHistory),
		PlayerID: p.ID,
		Seat:     p.SeatIndex,
		Action:   action,
		Amount:   amount,
		Phase:    gs.Phase.String(),
		Auto:     auto,
	})
}
