package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	errs "chat-hub/errors"
	"chat-hub/protocol"
)

func Test_Authenticate_Unknown_User(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	conn, _ := f.attach()

	// When authenticating with an id no user owns
	_, err := f.hub.Authenticate(conn, "ghost")

	// Then the operation fails and the connection stays unbound
	req.ErrorIs(err, errs.ErrNotFound)
	req.EqualError(err, "User not found")
	req.Empty(conn.UserID())
}

func Test_Authenticate_Twice_Keeps_First_Identity(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	conn, _, alice := f.connectUser(t, "alice")

	bob, err := f.users.CreateUser("bob", "bob@example.com", "hash")
	req.NoError(err)

	// When the same connection re-authenticates as someone else
	_, err = f.hub.Authenticate(conn, bob.ID)

	// Then it is rejected and the first identity stands
	req.ErrorIs(err, errs.ErrAlreadyAuthenticated)
	req.Equal(alice.ID, conn.UserID())
}

func Test_Authenticate_Broadcasts_Online_Users(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)

	_, aliceSink, _ := f.connectUser(t, "alice")
	_, _, _ = f.connectUser(t, "bob")

	// Then alice observed the list growing to two, sorted by username
	broadcasts := aliceSink.Named(protocol.EventOnlineUsers)
	req.NotEmpty(broadcasts)
	last := broadcasts[len(broadcasts)-1].Data.([]domain.PresenceEntry)
	req.Len(last, 2)
	req.Equal("alice", last[0].Username)
	req.Equal("bob", last[1].Username)
}

func Test_Last_Connected_Wins(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	first, _, alice := f.connectUser(t, "alice")

	// When alice opens a second connection
	second, _ := f.attach()
	_, err := f.hub.Authenticate(second, alice.ID)
	req.NoError(err)

	// Then presence points at the second connection
	entry, ok := f.hub.Presence().Get(alice.ID)
	req.True(ok)
	req.Equal(second.ID, entry.ConnectionID)

	// And the first connection dropping does not erase her presence
	f.hub.Disconnect(first)
	entry, ok = f.hub.Presence().Get(alice.ID)
	req.True(ok)
	req.Equal(second.ID, entry.ConnectionID)

	// While the second dropping does
	f.hub.Disconnect(second)
	_, ok = f.hub.Presence().Get(alice.ID)
	req.False(ok)
}

func Test_Disconnect_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	conn, _, alice := f.connectUser(t, "alice")
	watcherConn, watcherSink, _ := f.connectUser(t, "bob")

	f.hub.Disconnect(conn)
	before := len(watcherSink.Named(protocol.EventOnlineUsers))

	// A second disconnect changes nothing
	f.hub.Disconnect(conn)
	req.Equal(before, len(watcherSink.Named(protocol.EventOnlineUsers)))

	_, ok := f.hub.Presence().Get(alice.ID)
	req.False(ok)
	req.NotEmpty(watcherConn.UserID())
}

func Test_Disconnect_Announces_Leave_To_Current_Room(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	alice, _, user := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", user.ID)

	req.NoError(f.hub.JoinRoom(alice, room.ID))
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	// When alice vanishes without leaving
	f.hub.Disconnect(alice)

	// Then bob sees the system notice
	messages := bobSink.Named(protocol.EventMessage)
	req.NotEmpty(messages)
	notice := asMessage(t, messages[len(messages)-1])
	req.Equal(domain.MessageSystem, notice.Kind)
	req.Equal("alice left the room", notice.Content)
}

func Test_Authenticate_Stamps_Connection_Time(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	connected := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	f.hub.now = func() time.Time { return connected }

	_, _, alice := f.connectUser(t, "alice")

	entry, ok := f.hub.Presence().Get(alice.ID)
	req.True(ok)
	req.Equal(connected, entry.ConnectedAt)
}

func Test_Superseded_Connection_Does_Not_Announce_Leave(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	first, _, alice := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", alice.ID)

	req.NoError(f.hub.JoinRoom(first, room.ID))
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	// When alice reconnects elsewhere and her stale connection drops
	second, _ := f.attach()
	_, err := f.hub.Authenticate(second, alice.ID)
	req.NoError(err)
	f.hub.Disconnect(first)

	// Then nobody is told she left; she is still live on the new connection
	for _, e := range bobSink.Named(protocol.EventMessage) {
		req.NotEqual("alice left the room", asMessage(t, e).Content)
	}
	_, ok := f.hub.Presence().Get(alice.ID)
	req.True(ok)
}

func Test_Disconnect_Persists_Offline_Flag(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	conn, _, alice := f.connectUser(t, "alice")

	stored, err := f.users.GetUser(alice.ID)
	req.NoError(err)
	req.True(stored.IsOnline)

	f.hub.Disconnect(conn)

	stored, err = f.users.GetUser(alice.ID)
	req.NoError(err)
	req.False(stored.IsOnline)
}
