package room

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdemlabs/roomsrv/internal/game"
)

// versioningSink records events and stamps the room version the way the
// gateway sink does.
type versioningSink struct {
	room     *Room
	events   []game.Event
	versions []uint64
}

func (s *versioningSink) Broadcast(ev game.Event) {
	s.events = append(s.events, ev)
	s.versions = append(s.versions, s.room.BumpVersion())
}

func (s *versioningSink) SendTo(_ string, ev game.Event) {
	s.events = append(s.events, ev)
	s.versions = append(s.versions, s.room.BumpVersion())
}

func (s *versioningSink) eventTypes() []game.EventType {
	out := make([]game.EventType, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.EventType())
	}
	return out
}

func newTestManager(t *testing.T) (*Manager, map[string]*versioningSink) {
	t.Helper()
	sinks := make(map[string]*versioningSink)
	m := NewManager(quartz.NewMock(t), func(r *Room) game.EventSink {
		s := &versioningSink{room: r}
		sinks[r.ID] = s
		return s
	}, log.New(io.Discard))
	return m, sinks
}

func seatPlayers(t *testing.T, m *Manager, r *Room, host *game.Player, n int) []*game.Player {
	t.Helper()
	players := []*game.Player{host}
	for i := 1; i < n; i++ {
		_, p, isReconnect, err := m.JoinRoom(r.ID, fmt.Sprintf("guest%d", i), fmt.Sprintf("conn%d", i), "")
		require.NoError(t, err)
		require.False(t, isReconnect)
		players = append(players, p)
	}
	for i, p := range players {
		require.NoError(t, r.SitDown(p.ID, i))
	}
	return players
}

func TestCreateRoomAssignsSixDigitID(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())

	assert.Len(t, r.ID, 6)
	assert.Equal(t, host.ID, r.HostID())
	assert.True(t, host.IsHost)
	assert.Equal(t, game.Spectating, host.Status)
	assert.Equal(t, 1, m.Count())
}

func TestSitDownGrantsStackOnce(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())

	require.NoError(t, r.SitDown(host.ID, 2))
	assert.Equal(t, 1000, host.Chips)
	assert.Equal(t, 2, host.SeatIndex)
	assert.Equal(t, game.Waiting, host.Status)

	assert.Equal(t, ErrAlreadySeated, r.SitDown(host.ID, 3))

	_, guest, _, err := m.JoinRoom(r.ID, "bob", "conn1", "")
	require.NoError(t, err)
	assert.Equal(t, ErrSeatOccupied, r.SitDown(guest.ID, 2))
	assert.Equal(t, ErrInvalidSeatIndex, r.SitDown(guest.ID, 99))
	assert.Equal(t, ErrInvalidSeatIndex, r.SitDown(guest.ID, -1))
}

func TestStartGameRequiresHostAndReady(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 3)

	assert.Equal(t, ErrNotHost, r.StartGame(players[1].ID))
	assert.Equal(t, ErrPlayersNotReady, r.StartGame(host.ID))

	require.NoError(t, r.SetReady(players[1].ID))
	assert.Equal(t, ErrPlayersNotReady, r.StartGame(host.ID))

	require.NoError(t, r.SetReady(players[2].ID))
	require.NoError(t, r.StartGame(host.ID))

	assert.True(t, r.Playing())
	assert.Equal(t, game.ErrGameInProgress, r.StartGame(host.ID))
}

func TestStandUpBlockedDuringGame(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 2)
	require.NoError(t, r.SetReady(players[1].ID))
	require.NoError(t, r.StartGame(host.ID))

	assert.Equal(t, ErrGameInProgress, r.StandUp(players[1].ID))
	_, err := r.Leave(players[1].ID)
	assert.Equal(t, ErrGameInProgress, err)
}

func TestLeaveTransfersHostByJoinOrder(t *testing.T) {
	t.Parallel()

	m, sinks := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 3)

	empty, err := r.Leave(host.ID)
	require.NoError(t, err)
	assert.False(t, empty)

	// Second joiner inherits the host role.
	assert.Equal(t, players[1].ID, r.HostID())
	assert.True(t, players[1].IsHost)

	var transferred bool
	for _, ev := range sinks[r.ID].events {
		if h, ok := ev.(HostTransferredEvent); ok {
			transferred = true
			assert.Equal(t, host.ID, h.OldHostID)
			assert.Equal(t, players[1].ID, h.NewHostID)
		}
	}
	assert.True(t, transferred, "HOST_TRANSFERRED should be emitted")
}

func TestLastLeaveEmptiesRoom(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())

	empty, err := r.Leave(host.ID)
	require.NoError(t, err)
	assert.True(t, empty)

	m.Destroy(r.ID)
	assert.Equal(t, 0, m.Count())
	_, ok := m.Get(r.ID)
	assert.False(t, ok)
}

func TestKickRules(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	_, guest, _, err := m.JoinRoom(r.ID, "bob", "conn1", "")
	require.NoError(t, err)

	_, err = r.Kick(guest.ID, host.ID)
	assert.Equal(t, ErrNotHost, err)

	_, err = r.Kick(host.ID, host.ID)
	assert.Equal(t, ErrCannotKickSelf, err)

	_, err = r.Kick(host.ID, "nobody")
	assert.Equal(t, ErrTargetNotFound, err)

	target, err := r.Kick(host.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, target.ID)
	assert.Equal(t, 1, r.MemberCount())
}

func TestJoinWithExistingIDRebinds(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, _ := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	_, guest, _, err := m.JoinRoom(r.ID, "bob", "conn1", "")
	require.NoError(t, err)

	// Same player id on a new connection resumes the session.
	_, p, isReconnect, err := m.JoinRoom(r.ID, "bob", "conn2", guest.ID)
	require.NoError(t, err)
	assert.True(t, isReconnect)
	assert.Same(t, guest, p)
	assert.Equal(t, "conn2", p.ConnectionID)

	// Unknown player id falls back to a fresh join.
	_, p2, isReconnect, err := m.JoinRoom(r.ID, "carol", "conn3", "bogus-id")
	require.NoError(t, err)
	assert.False(t, isReconnect)
	assert.NotEqual(t, guest.ID, p2.ID)
	assert.Equal(t, 3, r.MemberCount())
}

func TestReconnectAgainstMissingRoomClearsSession(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	_, _, err := m.Reconnect("000000", "some-player", "conn9")
	require.Error(t, err)

	coded, ok := err.(*game.CodedError)
	require.True(t, ok)
	assert.Equal(t, "ROOM_NOT_FOUND", coded.Code)
	assert.True(t, coded.ShouldClearSession)
}

func TestDisconnectKeepsSeatAndState(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	require.NoError(t, r.SitDown(host.ID, 0))

	r.MarkDisconnected(host.ID)
	assert.False(t, host.Connected())
	assert.Equal(t, 0, host.SeatIndex)
	assert.Equal(t, 1000, host.Chips)

	_, p, err := m.Reconnect(r.ID, host.ID, "conn0b")
	require.NoError(t, err)
	assert.Same(t, host, p)
	assert.True(t, p.Connected())
}

func TestDuplicateRequestRejectedWithoutSideEffects(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 2)
	require.NoError(t, r.SetReady(players[1].ID))
	require.NoError(t, r.StartGame(host.ID))

	state := r.GameState()
	actor, ok := r.PlayerBySeat(state.CurrentPlayerSeat)
	require.True(t, ok)

	req := game.ActionRequest{
		Type:       game.ActionCall,
		RoundIndex: state.RoundIndex,
		RequestID:  "dup-1",
	}
	require.NoError(t, r.Action(actor.ID, req))

	chipsAfter := actor.Chips
	err := r.Action(actor.ID, req)
	assert.Equal(t, game.ErrDuplicateRequest, err)
	assert.Equal(t, chipsAfter, actor.Chips, "replay must not move chips")
}

func TestFailedActionNotRecordedAsProcessed(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 2)
	require.NoError(t, r.SetReady(players[1].ID))
	require.NoError(t, r.StartGame(host.ID))

	state := r.GameState()
	actor, ok := r.PlayerBySeat(state.CurrentPlayerSeat)
	require.True(t, ok)

	// A rejected action must not burn its request id.
	bad := game.ActionRequest{Type: game.ActionCheck, RoundIndex: state.RoundIndex, RequestID: "retry-1"}
	assert.Equal(t, game.ErrCannotCheck, r.Action(actor.ID, bad))

	good := game.ActionRequest{Type: game.ActionCall, RoundIndex: state.RoundIndex, RequestID: "retry-1"}
	assert.NoError(t, r.Action(actor.ID, good))
}

func TestStateVersionStrictlyIncreases(t *testing.T) {
	t.Parallel()

	m, sinks := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 3)
	for _, p := range players[1:] {
		require.NoError(t, r.SetReady(p.ID))
	}
	require.NoError(t, r.StartGame(host.ID))

	versions := sinks[r.ID].versions
	require.NotEmpty(t, versions)
	for i := 1; i < len(versions); i++ {
		assert.Greater(t, versions[i], versions[i-1], "event %d", i)
	}
	assert.Equal(t, versions[len(versions)-1], r.Version())
}

func TestGameEventsFlowThroughRoomSink(t *testing.T) {
	t.Parallel()

	m, sinks := newTestManager(t)
	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	players := seatPlayers(t, m, r, host, 2)
	require.NoError(t, r.SetReady(players[1].ID))
	require.NoError(t, r.StartGame(host.ID))

	types := sinks[r.ID].eventTypes()
	assert.Contains(t, types, game.EventGameStarted)
	assert.Contains(t, types, game.EventDealCards)
	assert.Contains(t, types, game.EventPlayerTurn)
	assert.Contains(t, types, game.EventSyncState)
}

func TestListRoomsSummaries(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	r1, _ := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	_, _, _, err := m.JoinRoom(r1.ID, "bob", "conn1", "")
	require.NoError(t, err)
	m.CreateRoom("carol", "conn2", game.DefaultConfig())

	list := m.List()
	require.Len(t, list, 2)

	byID := map[string]Summary{}
	for _, s := range list {
		byID[s.RoomID] = s
	}
	assert.Equal(t, 2, byID[r1.ID].PlayerCount)
	assert.Equal(t, 6, byID[r1.ID].MaxPlayers)
	assert.False(t, byID[r1.ID].IsPlaying)
}
