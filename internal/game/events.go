package game

import (
	"time"

	"github.com/holdemlabs/roomsrv/internal/deck"
	"github.com/holdemlabs/roomsrv/internal/engine"
)

// EventType identifies a typed outcome event produced by the controller or
// the room manager and fanned out by the gateway.
type EventType string

const (
	EventGameStarted   EventType = "GAME_STARTED"
	EventDealCards     EventType = "DEAL_CARDS"
	EventPlayerTurn    EventType = "PLAYER_TURN"
	EventPlayerActed   EventType = "PLAYER_ACTED"
	EventPhaseAdvanced EventType = "PHASE_ADVANCED"
	EventHandResult    EventType = "HAND_RESULT"
	EventGameEnded     EventType = "GAME_ENDED"
	EventSyncState     EventType = "SYNC_STATE"
)

// Event is any typed outcome event
type Event interface {
	EventType() EventType
}

// EventSink receives events while the room lock is held. Broadcast events go
// to every connection in the room; SendTo targets one player's connection.
type EventSink interface {
	Broadcast(ev Event)
	SendTo(playerID string, ev Event)
}

// GameStartedEvent announces a new hand
type GameStartedEvent struct {
	HandID         string `json:"handId"`
	HandNumber     int    `json:"handNumber"`
	DealerSeat     int    `json:"dealerSeat"`
	SmallBlindSeat int    `json:"smallBlindSeat"`
	BigBlindSeat   int    `json:"bigBlindSeat"`
	SmallBlind     int    `json:"smallBlind"`
	BigBlind       int    `json:"bigBlind"`
}

func (GameStartedEvent) EventType() EventType { return EventGameStarted }

// DealCardsEvent carries a single player's hole cards. Always private.
type DealCardsEvent struct {
	HandID string      `json:"handId"`
	Cards  []deck.Card `json:"cards"`
}

func (DealCardsEvent) EventType() EventType { return EventDealCards }

// PlayerTurnEvent announces whose turn it is and the action deadline
type PlayerTurnEvent struct {
	HandID     string    `json:"handId"`
	RoundID    string    `json:"roundId"`
	RoundIndex int       `json:"roundIndex"`
	PlayerID   string    `json:"playerId"`
	Seat       int       `json:"seat"`
	Deadline   time.Time `json:"deadline"`
	CurrentBet int       `json:"currentBet"`
	MinRaise   int       `json:"minRaise"`
}

func (PlayerTurnEvent) EventType() EventType { return EventPlayerTurn }

// PlayerActedEvent reports an accepted (or synthetic timeout) action
type PlayerActedEvent struct {
	HandID   string     `json:"handId"`
	RoundID  string     `json:"roundId"`
	PlayerID string     `json:"playerId"`
	Seat     int        `json:"seat"`
	Action   ActionType `json:"action"`
	Amount   int        `json:"amount"`
	Auto     bool       `json:"auto,omitempty"`
	PotTotal int        `json:"potTotal"`
}

func (PlayerActedEvent) EventType() EventType { return EventPlayerActed }

// PhaseAdvancedEvent reports a street change with the new community cards
type PhaseAdvancedEvent struct {
	HandID         string       `json:"handId"`
	RoundID        string       `json:"roundId"`
	RoundIndex     int          `json:"roundIndex"`
	Phase          string       `json:"phase"`
	CommunityCards []deck.Card  `json:"communityCards"`
	Pots           []engine.Pot `json:"pots"`
}

func (PhaseAdvancedEvent) EventType() EventType { return EventPhaseAdvanced }

// PotAward is one player's winnings from one pot
type PotAward struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	PotIndex int    `json:"potIndex"`
	Hand     string `json:"hand,omitempty"`
}

// ShowdownHand discloses a showdown participant's hole cards
type ShowdownHand struct {
	PlayerID  string      `json:"playerId"`
	Seat      int         `json:"seat"`
	HoleCards []deck.Card `json:"holeCards"`
	Hand      string      `json:"hand"`
}

// HandResultEvent reports settlement. ShowdownCards is empty when the hand
// ended with a single survivor and nothing is revealed.
type HandResultEvent struct {
	HandID         string         `json:"handId"`
	Awards         []PotAward     `json:"awards"`
	Pots           []engine.Pot   `json:"pots"`
	CommunityCards []deck.Card    `json:"communityCards"`
	ShowdownCards  []ShowdownHand `json:"showdownCards,omitempty"`
	Eliminated     []string       `json:"eliminatedPlayerIds,omitempty"`
}

func (HandResultEvent) EventType() EventType { return EventHandResult }

// GameEndedEvent reports that one player holds all the chips
type GameEndedEvent struct {
	WinnerID string `json:"winnerId"`
}

func (GameEndedEvent) EventType() EventType { return EventGameEnded }

// SyncStateEvent asks the gateway to push a full projected snapshot to every
// connection. The gateway builds the projection; the event itself carries
// nothing private.
type SyncStateEvent struct{}

func (SyncStateEvent) EventType() EventType { return EventSyncState }
