package game

// CodedError is a validation error carrying the wire error code delivered to
// the originating connection. These are client-caused and never mutate state.
type CodedError struct {
	Code               string
	Message            string
	ShouldClearSession bool
}

func (e *CodedError) Error() string {
	return e.Message
}

// NewError creates a coded validation error
func NewError(code, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

var (
	ErrGameNotInProgress = NewError("CANNOT_ACT", "no hand in progress")
	ErrDuplicateRequest  = NewError("DUPLICATE_REQUEST", "request already processed")
	ErrStaleRequest      = NewError("STALE_REQUEST", "action references a previous betting round")
	ErrNotYourTurn       = NewError("NOT_YOUR_TURN", "it is not your turn to act")
	ErrCannotAct         = NewError("CANNOT_ACT", "player cannot act")
	ErrCannotCheck       = NewError("CANNOT_CHECK_MUST_CALL", "cannot check, there is a bet to call")
	ErrNothingToCall     = NewError("NOTHING_TO_CALL", "there is no bet to call")
	ErrRaiseTooSmall     = NewError("RAISE_TOO_SMALL", "raise is below the minimum")
	ErrNotEnoughChips    = NewError("NOT_ENOUGH_CHIPS", "not enough chips")
	ErrNotEnoughPlayers  = NewError("NOT_ENOUGH_PLAYERS", "need at least two players with chips")
	ErrGameInProgress    = NewError("GAME_ALREADY_STARTED", "a hand is already in progress")
)
