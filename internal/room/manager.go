package room

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/holdemlabs/roomsrv/internal/game"
	"github.com/holdemlabs/roomsrv/internal/randutil"
)

// SinkFactory builds the event sink for a newly created room. The gateway
// supplies one that fans events out to the room's connections.
type SinkFactory func(*Room) game.EventSink

// Summary is a lobby listing entry
type Summary struct {
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	IsPlaying   bool   `json:"isPlaying"`
	SmallBlind  int    `json:"smallBlind"`
	BigBlind    int    `json:"bigBlind"`
}

// Manager is the process-wide room registry. It hands out room ids and
// player ids; everything inside a room is the room's own business.
type Manager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	clock   quartz.Clock
	rng     *rand.Rand
	newSink SinkFactory
	logger  *log.Logger
}

// NewManager builds an empty registry
func NewManager(clock quartz.Clock, newSink SinkFactory, logger *log.Logger) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		clock:   clock,
		rng:     randutil.NewCrypto(),
		newSink: newSink,
		logger:  logger.WithPrefix("rooms"),
	}
}

// CreateRoom allocates a room with a fresh id and admits the creator as its
// host. The host joins as a spectator like everyone else.
func (m *Manager) CreateRoom(nickname, connectionID string, cfg game.Config) (*Room, *game.Player) {
	cfg = cfg.Normalize()

	m.mu.Lock()
	id := m.allocateID()

	host := game.NewPlayer(uuid.NewString(), nickname, connectionID)
	host.IsHost = true

	r := &Room{
		ID:        id,
		CreatedAt: m.clock.Now(),
		cfg:       cfg,
		hostID:    host.ID,
		players:   map[string]*game.Player{host.ID: host},
		joinOrder: []string{host.ID},
		seats:     make([]string, cfg.MaxPlayers),
		processed: newRequestLog(requestLogCapacity),
		logger:    m.logger.With("room", id),
	}
	r.sink = m.newSink(r)
	r.ctrl = game.NewController(r, r.sink, m.clock, randutil.NewCrypto(), r.logger)

	m.rooms[id] = r
	m.mu.Unlock()

	m.logger.Info("room created", "room", id, "host", host.ID, "maxPlayers", cfg.MaxPlayers)
	return r, host
}

// JoinRoom adds a player to a room. When existingPlayerID names a current
// member the connection is rebound to that member instead and the returned
// bool is true; otherwise a new spectator is created.
func (m *Manager) JoinRoom(roomID, nickname, connectionID, existingPlayerID string) (*Room, *game.Player, bool, error) {
	r, ok := m.Get(roomID)
	if !ok {
		return nil, nil, false, ErrRoomNotFound
	}

	if existingPlayerID != "" {
		if p, err := r.Rebind(existingPlayerID, connectionID); err == nil {
			return r, p, true, nil
		}
	}

	p := game.NewPlayer(uuid.NewString(), nickname, connectionID)
	r.AddPlayer(p)
	return r, p, false, nil
}

// Reconnect rebinds a dropped session. A missing room means the session is
// unrecoverable and the client should clear its stored identity.
func (m *Manager) Reconnect(roomID, playerID, connectionID string) (*Room, *game.Player, error) {
	r, ok := m.Get(roomID)
	if !ok {
		return nil, nil, ErrSessionGone
	}
	p, err := r.Rebind(playerID, connectionID)
	if err != nil {
		return nil, nil, ErrSessionGone
	}
	return r, p, nil
}

// Get looks up a room by id
func (m *Manager) Get(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	return r, ok
}

// Destroy stops a room's timers and drops it from the registry
func (m *Manager) Destroy(roomID string) {
	m.mu.Lock()
	r, ok := m.rooms[roomID]
	delete(m.rooms, roomID)
	m.mu.Unlock()

	if ok {
		r.Shutdown()
		m.logger.Info("room destroyed", "room", roomID)
	}
}

// List returns lobby summaries for every room
func (m *Manager) List() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, len(m.rooms))
	for _, r := range m.rooms {
		r.mu.Lock()
		out = append(out, Summary{
			RoomID:      r.ID,
			PlayerCount: len(r.players),
			MaxPlayers:  r.cfg.MaxPlayers,
			IsPlaying:   r.isPlaying,
			SmallBlind:  r.cfg.SmallBlind,
			BigBlind:    r.cfg.BigBlind,
		})
		r.mu.Unlock()
	}
	return out
}

// Count returns the number of live rooms
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// ShutdownAll disarms timers in every room; used on server shutdown
func (m *Manager) ShutdownAll() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Shutdown()
	}
}

// allocateID picks an unused 6 digit decimal id (lock held)
func (m *Manager) allocateID() string {
	for {
		id := fmt.Sprintf("%06d", m.rng.IntN(1000000))
		if _, taken := m.rooms[id]; !taken {
			return id
		}
	}
}
