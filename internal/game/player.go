package game

import "github.com/holdemlabs/roomsrv/internal/deck"

// Status represents a player's lifecycle state in a room
type Status int

const (
	Spectating Status = iota
	Waiting
	Active
	Folded
	AllIn
	Eliminated
)

func (s Status) String() string {
	return [...]string{"SPECTATING", "WAITING", "ACTIVE", "FOLDED", "ALL_IN", "ELIMINATED"}[s]
}

// Player is the per-seat state container. Mutators are unvalidated; the
// room manager and game controller validate before calling them.
type Player struct {
	ID       string
	Nickname string

	Chips            int
	CurrentBet       int // chips committed in the current betting round
	TotalBetThisHand int // chips committed across all rounds of the hand

	Status    Status
	SeatIndex int // -1 when unseated

	HoleCards []deck.Card

	HasActed      bool
	IsFolded      bool
	IsAllIn       bool
	IsCurrentTurn bool
	IsDealer      bool

	IsHost  bool
	IsReady bool

	// ConnectionID binds the player to a live connection; empty means
	// disconnected. Owned by the gateway.
	ConnectionID string
}

// NewPlayer creates an unseated spectator
func NewPlayer(id, nickname, connectionID string) *Player {
	return &Player{
		ID:           id,
		Nickname:     nickname,
		Status:       Spectating,
		SeatIndex:    -1,
		ConnectionID: connectionID,
	}
}

// Seated reports whether the player occupies a seat
func (p *Player) Seated() bool {
	return p.SeatIndex >= 0
}

// Connected reports whether the player has a live connection
func (p *Player) Connected() bool {
	return p.ConnectionID != ""
}

// CanAct reports whether the player may take a betting action
func (p *Player) CanAct() bool {
	return p.Seated() && p.Status == Active && !p.IsFolded && !p.IsAllIn
}

// InHand reports whether the player still contests the current hand
func (p *Player) InHand() bool {
	return len(p.HoleCards) > 0 && !p.IsFolded
}

// DeductChips moves up to n chips into the player's current bet, clamped to
// the available stack, and returns the amount actually paid. Reaching zero
// chips mid-hand marks the player all-in.
func (p *Player) DeductChips(n int) int {
	if n > p.Chips {
		n = p.Chips
	}
	if n < 0 {
		n = 0
	}
	p.Chips -= n
	p.CurrentBet += n
	p.TotalBetThisHand += n
	if p.Chips == 0 && p.TotalBetThisHand > 0 {
		p.IsAllIn = true
		p.Status = AllIn
	}
	return n
}

// AddChips credits pot winnings
func (p *Player) AddChips(n int) {
	p.Chips += n
}

// SitDown places the player at a seat. The caller has verified the seat is
// free.
func (p *Player) SitDown(seat int) {
	p.SeatIndex = seat
	p.Status = Waiting
}

// StandUp returns the player to spectating and clears per-hand state
func (p *Player) StandUp() {
	p.SeatIndex = -1
	p.Status = Spectating
	p.IsDealer = false
	p.IsReady = false
	p.ResetForNewHand()
}

// Fold marks the player out of the hand
func (p *Player) Fold() {
	p.IsFolded = true
	p.HasActed = true
	p.Status = Folded
}

// ResetForNewHand clears all per-hand state
func (p *Player) ResetForNewHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.TotalBetThisHand = 0
	p.HasActed = false
	p.IsFolded = false
	p.IsAllIn = false
	p.IsCurrentTurn = false
	p.IsDealer = false
	p.IsReady = false
}

// ResetForNewRound clears per-round state at a street boundary
func (p *Player) ResetForNewRound() {
	p.CurrentBet = 0
	p.HasActed = false
	p.IsCurrentTurn = false
}
