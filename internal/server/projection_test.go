package server

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdemlabs/roomsrv/internal/game"
	"github.com/holdemlabs/roomsrv/internal/room"
)

type nopSink struct{}

func (nopSink) Broadcast(game.Event)      {}
func (nopSink) SendTo(string, game.Event) {}

func newPlayingRoom(t *testing.T) (*room.Room, []*game.Player) {
	t.Helper()

	m := room.NewManager(quartz.NewMock(t), func(*room.Room) game.EventSink {
		return nopSink{}
	}, log.New(io.Discard))

	r, host := m.CreateRoom("alice", "conn0", game.DefaultConfig())
	_, guest, _, err := m.JoinRoom(r.ID, "bob", "conn1", "")
	require.NoError(t, err)
	require.NoError(t, r.SitDown(host.ID, 0))
	require.NoError(t, r.SitDown(guest.ID, 1))
	require.NoError(t, r.SetReady(guest.ID))
	require.NoError(t, r.StartGame(host.ID))
	return r, []*game.Player{host, guest}
}

func TestProjectionHidesOtherHoleCards(t *testing.T) {
	t.Parallel()

	r, players := newPlayingRoom(t)
	host, guest := players[0], players[1]

	r.Locker().Lock()
	snap := ProjectRoom(r, host.ID)
	r.Locker().Unlock()

	require.Len(t, snap.Players, 2)
	for _, pv := range snap.Players {
		switch pv.ID {
		case host.ID:
			assert.Len(t, pv.HoleCards, 2, "viewer sees own cards")
		case guest.ID:
			assert.Empty(t, pv.HoleCards, "viewer must not see opponent cards")
		}
	}
	assert.Equal(t, host.ID, snap.YourPlayerID)
}

func TestProjectionSpectatorSeesNoHoleCards(t *testing.T) {
	t.Parallel()

	r, _ := newPlayingRoom(t)

	r.Locker().Lock()
	snap := ProjectRoom(r, "spectator-without-cards")
	r.Locker().Unlock()

	for _, pv := range snap.Players {
		assert.Empty(t, pv.HoleCards)
	}
}

func TestProjectionNeverSerializesDeck(t *testing.T) {
	t.Parallel()

	r, players := newPlayingRoom(t)

	r.Locker().Lock()
	snap := ProjectRoom(r, players[0].ID)
	r.Locker().Unlock()

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	gameView, ok := decoded["game"].(map[string]interface{})
	require.True(t, ok)
	_, hasDeck := gameView["Deck"]
	assert.False(t, hasDeck)
	_, hasDeck = gameView["deck"]
	assert.False(t, hasDeck)
}

func TestProjectionCarriesGameState(t *testing.T) {
	t.Parallel()

	r, _ := newPlayingRoom(t)

	r.Locker().Lock()
	snap := ProjectRoom(r, "")
	r.Locker().Unlock()

	require.NotNil(t, snap.Game)
	assert.Equal(t, "PRE_FLOP", snap.Game.Phase)
	assert.True(t, snap.IsPlaying)
	assert.GreaterOrEqual(t, snap.Game.CurrentPlayerSeat, 0)
	assert.Equal(t, 20, snap.Game.CurrentBet)
	assert.NotNil(t, snap.Game.TurnDeadline)
	assert.NotEmpty(t, snap.Game.HandID)
	assert.NotEmpty(t, snap.Game.RoundID, "round-scoped state carries the round id")
	assert.Len(t, snap.Seats, 6)
}

func TestMessageEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MessageTypeRoomList, RoomListData{})
	require.NoError(t, err)
	msg.StateVersion = 7

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, MessageTypeRoomList, back.Type)
	assert.Equal(t, uint64(7), back.StateVersion)
}
