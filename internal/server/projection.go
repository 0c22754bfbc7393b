package server

import (
	"time"

	"github.com/holdemlabs/roomsrv/internal/deck"
	"github.com/holdemlabs/roomsrv/internal/engine"
	"github.com/holdemlabs/roomsrv/internal/game"
	"github.com/holdemlabs/roomsrv/internal/room"
)

// RoomSnapshot is the full room state as one viewer is allowed to see it.
// Hole cards appear only in the viewer's own entry; the deck is never
// serialized.
type RoomSnapshot struct {
	RoomID       string       `json:"roomId"`
	HostID       string       `json:"hostId"`
	IsPlaying    bool         `json:"isPlaying"`
	StateVersion uint64       `json:"stateVersion"`
	Config       ConfigView   `json:"config"`
	Players      []PlayerView `json:"players"`
	Seats        []string     `json:"seats"`
	Game         *GameView    `json:"game,omitempty"`
	YourPlayerID string       `json:"yourPlayerId,omitempty"`
}

// ConfigView is the client-visible room configuration
type ConfigView struct {
	InitialChips       int `json:"initialChips"`
	SmallBlind         int `json:"smallBlind"`
	BigBlind           int `json:"bigBlind"`
	MaxPlayers         int `json:"maxPlayers"`
	TurnTimeoutSeconds int `json:"turnTimeoutSeconds"`
}

// PlayerView is the public projection of a player
type PlayerView struct {
	ID            string      `json:"id"`
	Nickname      string      `json:"nickname"`
	Chips         int         `json:"chips"`
	CurrentBet    int         `json:"currentBet"`
	Status        string      `json:"status"`
	SeatIndex     int         `json:"seatIndex"`
	HoleCards     []deck.Card `json:"holeCards,omitempty"` // viewer's own only
	HasActed      bool        `json:"hasActed"`
	IsFolded      bool        `json:"isFolded"`
	IsAllIn       bool        `json:"isAllIn"`
	IsCurrentTurn bool        `json:"isCurrentTurn"`
	IsDealer      bool        `json:"isDealer"`
	IsHost        bool        `json:"isHost"`
	IsReady       bool        `json:"isReady"`
	IsConnected   bool        `json:"isConnected"`
}

// GameView is the public projection of the hand in progress
type GameView struct {
	Phase             string              `json:"phase"`
	CommunityCards    []deck.Card         `json:"communityCards"`
	Pots              []engine.Pot        `json:"pots"`
	CurrentPlayerSeat int                 `json:"currentPlayerSeat"`
	DealerSeat        int                 `json:"dealerSeat"`
	SmallBlindSeat    int                 `json:"smallBlindSeat"`
	BigBlindSeat      int                 `json:"bigBlindSeat"`
	CurrentBet        int                 `json:"currentBet"`
	MinRaise          int                 `json:"minRaise"`
	RoundIndex        int                 `json:"roundIndex"`
	TurnDeadline      *time.Time          `json:"turnDeadline,omitempty"`
	HandID            string              `json:"handId"`
	RoundID           string              `json:"roundId"`
	HandNumber        int                 `json:"handNumber"`
	ActionHistory     []game.ActionRecord `json:"actionHistory,omitempty"`
}

// ProjectRoom builds the snapshot a given viewer may see. The caller holds
// the room lock.
func ProjectRoom(r *room.Room, viewerID string) *RoomSnapshot {
	cfg := r.Config()
	snap := &RoomSnapshot{
		RoomID:       r.ID,
		HostID:       r.HostID(),
		IsPlaying:    r.Playing(),
		StateVersion: r.Version(),
		Config: ConfigView{
			InitialChips:       cfg.InitialChips,
			SmallBlind:         cfg.SmallBlind,
			BigBlind:           cfg.BigBlind,
			MaxPlayers:         cfg.MaxPlayers,
			TurnTimeoutSeconds: int(cfg.TurnTimeout / time.Second),
		},
		Seats:        append([]string(nil), r.SeatMap()...),
		YourPlayerID: viewerID,
	}

	for _, p := range r.Players() {
		snap.Players = append(snap.Players, projectPlayer(p, viewerID))
	}

	if gs := r.GameState(); gs != nil {
		snap.Game = projectGame(gs)
	}
	return snap
}

func projectPlayer(p *game.Player, viewerID string) PlayerView {
	view := PlayerView{
		ID:            p.ID,
		Nickname:      p.Nickname,
		Chips:         p.Chips,
		CurrentBet:    p.CurrentBet,
		Status:        p.Status.String(),
		SeatIndex:     p.SeatIndex,
		HasActed:      p.HasActed,
		IsFolded:      p.IsFolded,
		IsAllIn:       p.IsAllIn,
		IsCurrentTurn: p.IsCurrentTurn,
		IsDealer:      p.IsDealer,
		IsHost:        p.IsHost,
		IsReady:       p.IsReady,
		IsConnected:   p.Connected(),
	}
	if p.ID == viewerID {
		view.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	}
	return view
}

func projectGame(gs *game.GameState) *GameView {
	view := &GameView{
		Phase:             gs.Phase.String(),
		CommunityCards:    append([]deck.Card(nil), gs.CommunityCards...),
		Pots:              append([]engine.Pot(nil), gs.Pots...),
		CurrentPlayerSeat: gs.CurrentPlayerSeat,
		DealerSeat:        gs.DealerSeat,
		SmallBlindSeat:    gs.SmallBlindSeat,
		BigBlindSeat:      gs.BigBlindSeat,
		CurrentBet:        gs.CurrentBet,
		MinRaise:          gs.MinRaise,
		RoundIndex:        gs.RoundIndex,
		HandID:            gs.HandID,
		RoundID:           gs.RoundID,
		HandNumber:        gs.HandNumber,
		ActionHistory:     append([]game.ActionRecord(nil), gs.ActionHistory...),
	}
	if !gs.TurnDeadline.IsZero() && gs.CurrentPlayerSeat >= 0 {
		deadline := gs.TurnDeadline
		view.TurnDeadline = &deadline
	}
	return view
}
