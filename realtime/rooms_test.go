package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	errs "chat-hub/errors"
	"chat-hub/protocol"
)

func Test_Join_Requires_Authentication(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	conn, _ := f.attach()

	err := f.hub.JoinRoom(conn, "whatever")
	req.ErrorIs(err, errs.ErrUnauthenticated)
}

func Test_Join_Unknown_Room(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	conn, _, _ := f.connectUser(t, "alice")

	err := f.hub.JoinRoom(conn, "ghost")
	req.ErrorIs(err, errs.ErrNotFound)
	req.EqualError(err, "Room not found")
}

func Test_Join_Announces_To_Everyone_Including_Joiner(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	alice, aliceSink, user := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", user.ID)

	req.NoError(f.hub.JoinRoom(alice, room.ID))

	// When bob joins
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	// Then both subscribers see the system notice
	for _, sink := range []*recordSink{aliceSink, bobSink} {
		messages := sink.Named(protocol.EventMessage)
		req.NotEmpty(messages)
		notice := asMessage(t, messages[len(messages)-1])
		req.Equal(domain.MessageSystem, notice.Kind)
		req.Equal("bob joined the room", notice.Content)
		req.Nil(notice.Sender)
	}
	req.Equal(room.ID, bob.CurrentRoom())
}

func Test_Join_Does_Not_Touch_Persisted_Membership(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	_, _, creator := f.connectUser(t, "alice")
	bob, _, bobUser := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", creator.ID)

	req.NoError(f.hub.JoinRoom(bob, room.ID))

	stored, err := f.rooms.GetRoom(room.ID)
	req.NoError(err)
	req.False(stored.IsMember(bobUser.ID))
}

func Test_Leave_Announces_To_Remaining_Subscribers(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	alice, _, user := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", user.ID)

	req.NoError(f.hub.JoinRoom(alice, room.ID))
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	req.NoError(f.hub.LeaveRoom(alice, room.ID))

	messages := bobSink.Named(protocol.EventMessage)
	notice := asMessage(t, messages[len(messages)-1])
	req.Equal("alice left the room", notice.Content)
	req.Empty(alice.CurrentRoom())
}

func Test_Typing_Reaches_Everyone_But_The_Typist(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	alice, aliceSink, user := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", user.ID)
	req.NoError(f.hub.JoinRoom(alice, room.ID))
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	// When alice starts typing
	req.NoError(f.hub.SetTyping(alice, protocol.TypingPayload{RoomID: room.ID, IsTyping: true}))

	// Then bob sees it and alice does not hear her own echo
	typing := bobSink.Named(protocol.EventUserTyping)
	req.Len(typing, 1)
	payload := typing[0].Data.(protocol.UserTypingPayload)
	req.Equal("alice", payload.Username)
	req.True(payload.IsTyping)
	req.Empty(aliceSink.Named(protocol.EventUserTyping))

	// And stopping clears the indicator
	req.NoError(f.hub.SetTyping(alice, protocol.TypingPayload{RoomID: room.ID, IsTyping: false}))
	typing = bobSink.Named(protocol.EventUserTyping)
	req.Len(typing, 2)
	req.False(typing[1].Data.(protocol.UserTypingPayload).IsTyping)
}

func Test_Leaving_Clears_Typing_State(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	alice, _, user := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", user.ID)
	req.NoError(f.hub.JoinRoom(alice, room.ID))
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	req.NoError(f.hub.SetTyping(alice, protocol.TypingPayload{RoomID: room.ID, IsTyping: true}))
	req.NoError(f.hub.LeaveRoom(alice, room.ID))

	// Bob received the explicit clear before the leave notice
	typing := bobSink.Named(protocol.EventUserTyping)
	req.Len(typing, 2)
	req.False(typing[1].Data.(protocol.UserTypingPayload).IsTyping)
}

func Test_Expired_Typing_States_Are_Cleared(t *testing.T) {
	req := require.New(t)
	f := newHubFixture(t)
	alice, _, user := f.connectUser(t, "alice")
	bob, bobSink, _ := f.connectUser(t, "bob")
	room := f.createRoom(t, "general", user.ID)
	req.NoError(f.hub.JoinRoom(alice, room.ID))
	req.NoError(f.hub.JoinRoom(bob, room.ID))

	req.NoError(f.hub.SetTyping(alice, protocol.TypingPayload{RoomID: room.ID, IsTyping: true}))

	// When the clock jumps past the deadline
	f.hub.now = func() time.Time { return time.Now().UTC().Add(time.Minute) }
	f.hub.ExpireTyping()

	typing := bobSink.Named(protocol.EventUserTyping)
	req.Len(typing, 2)
	last := typing[1].Data.(protocol.UserTypingPayload)
	req.Equal("alice", last.Username)
	req.False(last.IsTyping)

	// A second sweep finds nothing left
	f.hub.ExpireTyping()
	req.Len(bobSink.Named(protocol.EventUserTyping), 2)
}
