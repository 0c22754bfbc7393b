package server

// Note: game and room events (GAME_STARTED, PLAYER_JOINED, etc.) are defined
// in internal/game/events.go and internal/room/events.go and are delivered as
// WebSocket messages under their own event types.

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeCreateRoom   MessageType = "CREATE_ROOM"
	MessageTypeJoinRoom     MessageType = "JOIN_ROOM"
	MessageTypeLeaveRoom    MessageType = "LEAVE_ROOM"
	MessageTypeListRooms    MessageType = "LIST_ROOMS"
	MessageTypeSitDown      MessageType = "SIT_DOWN"
	MessageTypeStandUp      MessageType = "STAND_UP"
	MessageTypePlayerReady  MessageType = "PLAYER_READY"
	MessageTypeStartGame    MessageType = "START_GAME"
	MessageTypePlayerAction MessageType = "PLAYER_ACTION"
	MessageTypeKickPlayer   MessageType = "KICK_PLAYER"
	MessageTypeReconnect    MessageType = "RECONNECT"

	// Server to client messages
	MessageTypeRoomCreated MessageType = "ROOM_CREATED"
	MessageTypeRoomJoined  MessageType = "ROOM_JOINED"
	MessageTypeRoomList    MessageType = "ROOM_LIST"
	MessageTypeReconnected MessageType = "RECONNECTED"
	MessageTypeKicked      MessageType = "KICKED"
	MessageTypeError       MessageType = "ERROR"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
