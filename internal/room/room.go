package room

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/holdemlabs/roomsrv/internal/game"
)

// requestLogCapacity bounds the per-room set of processed request ids
const requestLogCapacity = 500

// Room owns its players, seat map and game state exclusively. Every mutation
// runs under the room's mutex, which makes the room a serial executor: no two
// transitions on the same room interleave. Rooms in different managers run
// concurrently with each other.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	cfg       game.Config
	hostID    string
	players   map[string]*game.Player
	joinOrder []string
	seats     []string // player id per seat, "" when empty
	isPlaying bool

	// stateVersion is stamped on every outbound event; strictly increasing
	// over the room's lifetime.
	stateVersion uint64

	processed *requestLog
	ctrl      *game.Controller
	sink      game.EventSink
	logger    *log.Logger
}

// game.Table implementation. All of these are called with the room lock held.

// Config returns the room's game settings
func (r *Room) Config() game.Config { return r.cfg }

// SeatedPlayers returns the seated players in ascending seat order
func (r *Room) SeatedPlayers() []*game.Player {
	out := make([]*game.Player, 0, len(r.seats))
	for _, id := range r.seats {
		if id != "" {
			out = append(out, r.players[id])
		}
	}
	return out
}

// PlayerBySeat returns the player occupying a seat
func (r *Room) PlayerBySeat(seat int) (*game.Player, bool) {
	if seat < 0 || seat >= len(r.seats) || r.seats[seat] == "" {
		return nil, false
	}
	return r.players[r.seats[seat]], true
}

// Playing reports whether the game loop is running
func (r *Room) Playing() bool { return r.isPlaying }

// SetPlaying flips the game loop flag
func (r *Room) SetPlaying(playing bool) { r.isPlaying = playing }

// HostID returns the current host's player id
func (r *Room) HostID() string { return r.hostID }

// HostEliminated transfers hostship to the first seated player who still has
// chips, emitting HOST_TRANSFERRED.
func (r *Room) HostEliminated() {
	for _, p := range r.SeatedPlayers() {
		if p.Status != game.Eliminated && p.ID != r.hostID {
			r.transferHost(p.ID)
			return
		}
	}
}

// Locker exposes the room mutex so controller timers can serialize with
// everything else.
func (r *Room) Locker() sync.Locker { return &r.mu }

// Accessors for the gateway. These require the room lock; the gateway takes
// it via Locker before projecting snapshots.

// Player returns a member by id
func (r *Room) Player(id string) (*game.Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Players returns all members in join order
func (r *Room) Players() []*game.Player {
	out := make([]*game.Player, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		out = append(out, r.players[id])
	}
	return out
}

// SeatMap returns the player id per seat, "" for empty seats
func (r *Room) SeatMap() []string { return r.seats }

// GameState returns the room's game state, nil before the first hand
func (r *Room) GameState() *game.GameState { return r.ctrl.State() }

// Version returns the current state version
func (r *Room) Version() uint64 { return r.stateVersion }

// BumpVersion increments and returns the state version. Called by the
// gateway once per dispatched event.
func (r *Room) BumpVersion() uint64 {
	r.stateVersion++
	return r.stateVersion
}

// MemberCount returns the number of members
func (r *Room) MemberCount() int { return len(r.players) }

// Operations. Each takes the room lock and emits events through the sink
// before releasing it, so event order matches mutation order.

// AddPlayer admits a new spectator
func (r *Room) AddPlayer(p *game.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = p
	r.joinOrder = append(r.joinOrder, p.ID)
	r.logger.Info("player joined", "player", p.ID, "nickname", p.Nickname)
	r.sink.Broadcast(PlayerJoinedEvent{PlayerID: p.ID, Nickname: p.Nickname})
}

// Rebind reattaches an existing member to a new connection. Player state and
// any running turn timer are untouched.
func (r *Room) Rebind(playerID, connectionID string) (*game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrTargetNotFound
	}
	p.ConnectionID = connectionID
	r.logger.Info("player reconnected", "player", playerID)
	r.sink.Broadcast(game.SyncStateEvent{})
	return p, nil
}

// MarkDisconnected clears a member's connection binding. Timers keep
// running; a disconnected player times out like anyone else.
func (r *Room) MarkDisconnected(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return
	}
	p.ConnectionID = ""
	r.logger.Info("player disconnected", "player", playerID)
	r.sink.Broadcast(game.SyncStateEvent{})
}

// SitDown seats a member and grants the configured starting stack
func (r *Room) SitDown(playerID string, seat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if seat < 0 || seat >= len(r.seats) {
		return ErrInvalidSeatIndex
	}
	if r.seats[seat] != "" {
		return ErrSeatOccupied
	}
	if p.Seated() {
		return ErrAlreadySeated
	}

	r.seats[seat] = playerID
	p.SitDown(seat)
	p.Chips = r.cfg.InitialChips

	r.logger.Info("player sat down", "player", playerID, "seat", seat)
	r.sink.Broadcast(PlayerSatEvent{PlayerID: playerID, SeatIndex: seat, Chips: p.Chips})
	return nil
}

// StandUp vacates a member's seat; rejected while a hand is in progress
func (r *Room) StandUp(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if !p.Seated() {
		return ErrNotSeated
	}
	if r.isPlaying {
		return ErrGameInProgress
	}

	r.seats[p.SeatIndex] = ""
	p.StandUp()
	p.Chips = 0

	r.logger.Info("player stood up", "player", playerID)
	r.sink.Broadcast(PlayerStoodEvent{PlayerID: playerID})
	return nil
}

// Kick removes a member. Host only, outside a running game, never yourself.
// The removed player is returned so the gateway can notify their connection.
func (r *Room) Kick(hostID, targetID string) (*game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hostID != r.hostID {
		return nil, ErrNotHost
	}
	if r.isPlaying {
		return nil, ErrGameInProgress
	}
	if hostID == targetID {
		return nil, ErrCannotKickSelf
	}
	target, ok := r.players[targetID]
	if !ok {
		return nil, ErrTargetNotFound
	}

	r.removeMember(target)
	r.logger.Info("player kicked", "player", targetID, "by", hostID)
	r.sink.Broadcast(PlayerKickedEvent{PlayerID: targetID, Nickname: target.Nickname})
	return target, nil
}

// Leave removes a member voluntarily. Seated players cannot leave during a
// hand; they can only disconnect. Returns true when the room is now empty.
func (r *Room) Leave(playerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return false, ErrNotInRoom
	}
	if r.isPlaying && p.Seated() {
		return false, ErrGameInProgress
	}

	wasHost := playerID == r.hostID
	r.removeMember(p)
	r.logger.Info("player left", "player", playerID)
	r.sink.Broadcast(PlayerLeftEvent{PlayerID: playerID, Nickname: p.Nickname})

	if len(r.players) == 0 {
		return true, nil
	}
	if wasHost {
		// Host succession follows join order.
		r.transferHost(r.joinOrder[0])
	}
	return false, nil
}

// SetReady marks a seated player ready for the next hand
func (r *Room) SetReady(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return ErrNotInRoom
	}
	if !p.Seated() {
		return ErrNotSeated
	}

	p.IsReady = true
	r.sink.Broadcast(ReadyStateChangedEvent{PlayerID: playerID, IsReady: true})
	return nil
}

// StartGame begins play. Host only; every other seated contender must have
// marked ready (the host is implicitly ready).
func (r *Room) StartGame(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.hostID {
		return ErrNotHost
	}
	if r.isPlaying || r.ctrl.HandInProgress() {
		return game.ErrGameInProgress
	}
	for _, p := range r.SeatedPlayers() {
		if p.ID == r.hostID || p.Status == game.Eliminated {
			continue
		}
		if !p.IsReady {
			return ErrPlayersNotReady
		}
	}

	r.isPlaying = true
	if err := r.ctrl.StartHand(); err != nil {
		r.isPlaying = false
		return err
	}
	return nil
}

// Action validates and executes a betting action. The request id check comes
// first so duplicate replays are rejected with no side effects.
func (r *Room) Action(playerID string, req game.ActionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return ErrNotInRoom
	}
	if r.processed.Contains(req.RequestID) {
		return game.ErrDuplicateRequest
	}

	if err := r.ctrl.HandleAction(playerID, req); err != nil {
		return err
	}
	r.processed.Add(req.RequestID)
	return nil
}

// Shutdown disarms the room's timers; called when the room is destroyed
func (r *Room) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctrl.StopTimers()
}

// removeMember deletes a player from the room entirely (lock held)
func (r *Room) removeMember(p *game.Player) {
	if p.Seated() {
		r.seats[p.SeatIndex] = ""
	}
	delete(r.players, p.ID)
	for i, id := range r.joinOrder {
		if id == p.ID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
}

// transferHost moves hostship (lock held)
func (r *Room) transferHost(newHostID string) {
	old := r.hostID
	if oldHost, ok := r.players[old]; ok {
		oldHost.IsHost = false
	}
	r.hostID = newHostID
	r.players[newHostID].IsHost = true
	r.logger.Info("host transferred", "from", old, "to", newHostID)
	r.sink.Broadcast(HostTransferredEvent{OldHostID: old, NewHostID: newHostID})
}
