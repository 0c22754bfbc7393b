package room

import "github.com/holdemlabs/roomsrv/internal/game"

// Room membership events, fanned out by the gateway like game events.

const (
	EventPlayerJoined      game.EventType = "PLAYER_JOINED"
	EventPlayerLeft        game.EventType = "PLAYER_LEFT"
	EventPlayerSat         game.EventType = "PLAYER_SAT"
	EventPlayerStood       game.EventType = "PLAYER_STOOD"
	EventPlayerKicked      game.EventType = "PLAYER_KICKED"
	EventHostTransferred   game.EventType = "HOST_TRANSFERRED"
	EventReadyStateChanged game.EventType = "READY_STATE_CHANGED"
)

// PlayerJoinedEvent announces a new spectator in the room
type PlayerJoinedEvent struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

func (PlayerJoinedEvent) EventType() game.EventType { return EventPlayerJoined }

// PlayerLeftEvent announces a departure
type PlayerLeftEvent struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

func (PlayerLeftEvent) EventType() game.EventType { return EventPlayerLeft }

// PlayerSatEvent announces a player taking a seat
type PlayerSatEvent struct {
	PlayerID  string `json:"playerId"`
	SeatIndex int    `json:"seatIndex"`
	Chips     int    `json:"chips"`
}

func (PlayerSatEvent) EventType() game.EventType { return EventPlayerSat }

// PlayerStoodEvent announces a player leaving their seat
type PlayerStoodEvent struct {
	PlayerID string `json:"playerId"`
}

func (PlayerStoodEvent) EventType() game.EventType { return EventPlayerStood }

// PlayerKickedEvent announces a removal by the host
type PlayerKickedEvent struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

func (PlayerKickedEvent) EventType() game.EventType { return EventPlayerKicked }

// HostTransferredEvent announces a change of host
type HostTransferredEvent struct {
	OldHostID string `json:"oldHostId"`
	NewHostID string `json:"newHostId"`
}

func (HostTransferredEvent) EventType() game.EventType { return EventHostTransferred }

// ReadyStateChangedEvent announces a ready toggle
type ReadyStateChangedEvent struct {
	PlayerID string `json:"playerId"`
	IsReady  bool   `json:"isReady"`
}

func (ReadyStateChangedEvent) EventType() game.EventType { return EventReadyStateChanged }
