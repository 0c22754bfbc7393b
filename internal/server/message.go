package server

import (
	"encoding/json"
	"time"

	"github.com/holdemlabs/roomsrv/internal/room"
)

// Message represents the base WebSocket message structure. StateVersion is
// stamped on every room-scoped server message so clients can detect gaps and
// discard out of order deliveries.
type Message struct {
	Type         MessageType     `json:"type"`
	Data         json.RawMessage `json:"data,omitempty"`
	StateVersion uint64          `json:"stateVersion,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	RequestID    string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	Nickname string `json:"nickname"`

	// Optional overrides; zero values fall back to the server defaults.
	InitialChips     int `json:"initialChips,omitempty"`
	SmallBlind       int `json:"smallBlind,omitempty"`
	BigBlind         int `json:"bigBlind,omitempty"`
	MaxPlayers       int `json:"maxPlayers,omitempty"`
	TurnTimeoutSecs  int `json:"turnTimeoutSeconds,omitempty"`
	InterHandWaitSec int `json:"interHandWaitSeconds,omitempty"`
}

type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
	PlayerID string `json:"playerId,omitempty"` // resume an existing seat
}

type SitDownData struct {
	SeatIndex int `json:"seatIndex"`
}

type PlayerActionData struct {
	Action     string `json:"action"`
	Amount     int    `json:"amount,omitempty"`
	RoundIndex int    `json:"roundIndex"`
}

type KickPlayerData struct {
	PlayerID string `json:"playerId"`
}

type ReconnectData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// Server → Client Messages

type RoomCreatedData struct {
	RoomID   string        `json:"roomId"`
	PlayerID string        `json:"playerId"`
	Room     *RoomSnapshot `json:"room"`
}

type RoomJoinedData struct {
	RoomID      string        `json:"roomId"`
	PlayerID    string        `json:"playerId"`
	IsReconnect bool          `json:"isReconnect"`
	Room        *RoomSnapshot `json:"room"`
}

type ReconnectedData struct {
	RoomID   string        `json:"roomId"`
	PlayerID string        `json:"playerId"`
	Room     *RoomSnapshot `json:"room"`
}

type RoomListData struct {
	Rooms []room.Summary `json:"rooms"`
}

type KickedData struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`

	// Being kicked ends the session; the client should drop its stored
	// {roomId, playerId} pair.
	ShouldClearSession bool `json:"shouldClearSession"`
}

type ErrorData struct {
	Code               string `json:"code"`
	Message            string `json:"message"`
	ShouldClearSession bool   `json:"shouldClearSession,omitempty"`
}
