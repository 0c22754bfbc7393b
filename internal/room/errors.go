package room

import "github.com/holdemlabs/roomsrv/internal/game"

var (
	ErrRoomNotFound     = game.NewError("ROOM_NOT_FOUND", "room not found")
	ErrNotInRoom        = game.NewError("NOT_IN_ROOM", "player is not in this room")
	ErrNotHost          = game.NewError("NOT_HOST", "only the host may do that")
	ErrGameInProgress   = game.NewError("GAME_IN_PROGRESS", "not allowed while a hand is in progress")
	ErrSeatOccupied     = game.NewError("SEAT_OCCUPIED", "seat is already taken")
	ErrAlreadySeated    = game.NewError("ALREADY_SEATED", "player is already seated")
	ErrInvalidSeatIndex = game.NewError("INVALID_SEAT_INDEX", "seat index out of range")
	ErrNotSeated        = game.NewError("NOT_SEATED", "player is not seated")
	ErrCannotKickSelf   = game.NewError("CANNOT_KICK_SELF", "host cannot kick themselves")
	ErrTargetNotFound   = game.NewError("TARGET_NOT_FOUND", "target player not found")
	ErrPlayersNotReady  = game.NewError("PLAYERS_NOT_READY", "all seated players must be ready")
)

// ErrSessionGone is ErrRoomNotFound with the clear-session flag set, returned
// on reconnect attempts against rooms lost to a restart.
var ErrSessionGone = &game.CodedError{
	Code:               "ROOM_NOT_FOUND",
	Message:            "room no longer exists",
	ShouldClearSession: true,
}
