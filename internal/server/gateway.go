package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/holdemlabs/roomsrv/internal/game"
	"github.com/holdemlabs/roomsrv/internal/room"
)

// Gateway owns the connection registry and translates between the wire
// protocol and room operations. It is the only layer that knows about
// WebSockets; rooms and the game controller emit events through sinks the
// gateway provides.
type Gateway struct {
	manager  *room.Manager
	defaults game.Config

	mu          sync.RWMutex
	connections map[string]*Connection

	logger *log.Logger
}

// NewGateway wires up a room manager whose rooms deliver events through this
// gateway's connections.
func NewGateway(clock quartz.Clock, defaults game.Config, logger *log.Logger) *Gateway {
	g := &Gateway{
		defaults:    defaults,
		connections: make(map[string]*Connection),
		logger:      logger.WithPrefix("gateway"),
	}
	g.manager = room.NewManager(clock, func(r *room.Room) game.EventSink {
		return &roomSink{gateway: g, room: r}
	}, logger)
	return g
}

// Manager exposes the room registry
func (g *Gateway) Manager() *room.Manager { return g.manager }

// Register adds a connection to the registry
func (g *Gateway) Register(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connections[c.id] = c
}

// ConnectionClosed drops a connection and marks its player disconnected.
// Player state and timers are untouched; the session survives for reconnect.
func (g *Gateway) ConnectionClosed(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.id)
	g.mu.Unlock()

	roomID, playerID := c.Session()
	if roomID == "" {
		return
	}
	if r, ok := g.manager.Get(roomID); ok {
		r.MarkDisconnected(playerID)
	}
}

// connByID looks up a live connection
func (g *Gateway) connByID(id string) (*Connection, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.connections[id]
	return c, ok
}

// ConnectionCount returns the number of live connections
func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

// Message handlers, invoked from connection read pumps.

func (g *Gateway) HandleCreateRoom(c *Connection, data CreateRoomData) {
	if data.Nickname == "" {
		c.sendError("INVALID_MESSAGE", "nickname is required")
		return
	}

	cfg := g.defaults
	if data.InitialChips > 0 {
		cfg.InitialChips = data.InitialChips
	}
	if data.SmallBlind > 0 {
		cfg.SmallBlind = data.SmallBlind
	}
	if data.BigBlind > 0 {
		cfg.BigBlind = data.BigBlind
	}
	if data.MaxPlayers > 0 {
		cfg.MaxPlayers = data.MaxPlayers
	}
	if data.TurnTimeoutSecs > 0 {
		cfg.TurnTimeout = time.Duration(data.TurnTimeoutSecs) * time.Second
	}
	if data.InterHandWaitSec > 0 {
		cfg.InterHandDelay = time.Duration(data.InterHandWaitSec) * time.Second
	}

	r, host := g.manager.CreateRoom(data.Nickname, c.id, cfg)
	c.SetSession(r.ID, host.ID)

	g.reply(c, MessageTypeRoomCreated, RoomCreatedData{
		RoomID:   r.ID,
		PlayerID: host.ID,
		Room:     g.snapshot(r, host.ID),
	})
}

func (g *Gateway) HandleJoinRoom(c *Connection, data JoinRoomData) {
	if data.Nickname == "" && data.PlayerID == "" {
		c.sendError("INVALID_MESSAGE", "nickname is required")
		return
	}

	r, p, isReconnect, err := g.manager.JoinRoom(data.RoomID, data.Nickname, c.id, data.PlayerID)
	if err != nil {
		g.sendCodedError(c, err)
		return
	}
	c.SetSession(r.ID, p.ID)

	g.reply(c, MessageTypeRoomJoined, RoomJoinedData{
		RoomID:      r.ID,
		PlayerID:    p.ID,
		IsReconnect: isReconnect,
		Room:        g.snapshot(r, p.ID),
	})
}

func (g *Gateway) HandleReconnect(c *Connection, data ReconnectData) {
	r, p, err := g.manager.Reconnect(data.RoomID, data.PlayerID, c.id)
	if err != nil {
		g.sendCodedError(c, err)
		return
	}
	c.SetSession(r.ID, p.ID)

	g.reply(c, MessageTypeReconnected, ReconnectedData{
		RoomID:   r.ID,
		PlayerID: p.ID,
		Room:     g.snapshot(r, p.ID),
	})
}

func (g *Gateway) HandleLeaveRoom(c *Connection) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}

	empty, err := r.Leave(playerID)
	if err != nil {
		g.sendCodedError(c, err)
		return
	}
	c.ClearSession()
	if empty {
		g.manager.Destroy(r.ID)
	}
}

func (g *Gateway) HandleListRooms(c *Connection) {
	g.reply(c, MessageTypeRoomList, RoomListData{Rooms: g.manager.List()})
}

func (g *Gateway) HandleSitDown(c *Connection, data SitDownData) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}
	if err := r.SitDown(playerID, data.SeatIndex); err != nil {
		g.sendCodedError(c, err)
	}
}

func (g *Gateway) HandleStandUp(c *Connection) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}
	if err := r.StandUp(playerID); err != nil {
		g.sendCodedError(c, err)
	}
}

func (g *Gateway) HandlePlayerReady(c *Connection) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}
	if err := r.SetReady(playerID); err != nil {
		g.sendCodedError(c, err)
	}
}

func (g *Gateway) HandleStartGame(c *Connection) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}
	if err := r.StartGame(playerID); err != nil {
		g.sendCodedError(c, err)
	}
}

func (g *Gateway) HandlePlayerAction(c *Connection, data PlayerActionData, requestID string) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}

	action := game.ActionType(data.Action)
	switch action {
	case game.ActionFold, game.ActionCheck, game.ActionCall, game.ActionRaise, game.ActionAllIn:
	default:
		c.sendError("INVALID_ACTION", "unknown action: "+data.Action)
		return
	}

	err := r.Action(playerID, game.ActionRequest{
		Type:       action,
		Amount:     data.Amount,
		RoundIndex: data.RoundIndex,
		RequestID:  requestID,
	})
	if err != nil {
		g.sendCodedError(c, err)
	}
}

func (g *Gateway) HandleKickPlayer(c *Connection, data KickPlayerData) {
	r, playerID, ok := g.sessionRoom(c)
	if !ok {
		return
	}

	target, err := r.Kick(playerID, data.PlayerID)
	if err != nil {
		g.sendCodedError(c, err)
		return
	}

	if tc, ok := g.connByID(target.ConnectionID); ok {
		tc.ClearSession()
		g.reply(tc, MessageTypeKicked, KickedData{
			RoomID:             r.ID,
			Reason:             "removed by host",
			ShouldClearSession: true,
		})
	}
}

// sessionRoom resolves the connection's bound room, sending an error when
// the connection is not in one.
func (g *Gateway) sessionRoom(c *Connection) (*room.Room, string, bool) {
	roomID, playerID := c.Session()
	if roomID == "" {
		g.sendCodedError(c, room.ErrNotInRoom)
		return nil, "", false
	}
	r, ok := g.manager.Get(roomID)
	if !ok {
		c.ClearSession()
		g.sendCodedError(c, room.ErrRoomNotFound)
		return nil, "", false
	}
	return r, playerID, true
}

// snapshot projects the room for a viewer under the room lock
func (g *Gateway) snapshot(r *room.Room, viewerID string) *RoomSnapshot {
	r.Locker().Lock()
	defer r.Locker().Unlock()
	return ProjectRoom(r, viewerID)
}

// reply sends a direct response, stamping the room version when present
func (g *Gateway) reply(c *Connection, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		g.logger.Error("failed to encode message", "type", mt, "error", err)
		return
	}
	switch d := data.(type) {
	case RoomCreatedData:
		msg.StateVersion = d.Room.StateVersion
	case RoomJoinedData:
		msg.StateVersion = d.Room.StateVersion
	case ReconnectedData:
		msg.StateVersion = d.Room.StateVersion
	}
	_ = c.SendMessage(msg)
}

// sendCodedError maps validation errors onto the wire error format
func (g *Gateway) sendCodedError(c *Connection, err error) {
	var coded *game.CodedError
	if errors.As(err, &coded) {
		c.sendErrorData(ErrorData{
			Code:               coded.Code,
			Message:            coded.Message,
			ShouldClearSession: coded.ShouldClearSession,
		})
		return
	}
	g.logger.Error("internal error", "error", err)
	c.sendError("INTERNAL_ERROR", "internal server error")
}

// roomSink delivers one room's events to its members' connections. Sink
// methods are invoked with the room lock held, so they read room state
// directly and must not call locking room methods.
type roomSink struct {
	gateway *Gateway
	room    *room.Room
}

// Broadcast fans an event out to every connected member. A SyncStateEvent is
// expanded into a per-viewer snapshot so hole cards stay private.
func (s *roomSink) Broadcast(ev game.Event) {
	version := s.room.BumpVersion()

	if _, ok := ev.(game.SyncStateEvent); ok {
		for _, p := range s.room.Players() {
			if !p.Connected() {
				continue
			}
			s.deliver(p.ConnectionID, MessageType(ev.EventType()), ProjectRoom(s.room, p.ID), version)
		}
		return
	}

	for _, p := range s.room.Players() {
		if !p.Connected() {
			continue
		}
		s.deliver(p.ConnectionID, MessageType(ev.EventType()), ev, version)
	}
}

// SendTo delivers a private event to one member
func (s *roomSink) SendTo(playerID string, ev game.Event) {
	version := s.room.BumpVersion()

	p, ok := s.room.Player(playerID)
	if !ok || !p.Connected() {
		return
	}
	s.deliver(p.ConnectionID, MessageType(ev.EventType()), ev, version)
}

func (s *roomSink) deliver(connectionID string, mt MessageType, payload interface{}, version uint64) {
	c, ok := s.gateway.connByID(connectionID)
	if !ok {
		return
	}
	msg, err := NewMessage(mt, payload)
	if err != nil {
		s.gateway.logger.Error("failed to encode event", "type", mt, "error", err)
		return
	}
	msg.StateVersion = version
	_ = c.SendMessage(msg)
}
