package realtime

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	"chat-hub/observability"
	"chat-hub/protocol"
	"chat-hub/repositories"
)

// recordSink captures every consumed event for assertions.
type recordSink struct {
	mu     sync.Mutex
	events []protocol.Event
}

func (s *recordSink) Consume(e protocol.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordSink) Events() []protocol.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Event(nil), s.events...)
}

// Named returns the captured events carrying the given name, in order.
func (s *recordSink) Named(name string) []protocol.Event {
	return lo.Filter(s.Events(), func(e protocol.Event, _ int) bool {
		return e.Name == name
	})
}

type hubFixture struct {
	hub      *Hub
	users    repositories.UserRepository
	rooms    repositories.RoomRepository
	messages repositories.MessageRepository
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	f := &hubFixture{
		users:    repositories.NewUserRepository(db),
		rooms:    repositories.NewRoomRepository(db),
		messages: repositories.NewMessageRepository(db, log),
	}
	f.hub = NewHub(log, NewRegistry(), f.users, f.rooms, f.messages,
		nil, observability.NewStats(), 5*time.Second)
	return f
}

func (f *hubFixture) attach() (*Connection, *recordSink) {
	sink := &recordSink{}
	return f.hub.Attach(sink), sink
}

// connectUser registers the user and authenticates a fresh connection.
func (f *hubFixture) connectUser(t *testing.T, username string) (*Connection, *recordSink, domain.User) {
	t.Helper()
	user, err := f.users.CreateUser(username, username+"@example.com", "hash")
	require.NoError(t, err)
	conn, sink := f.attach()
	_, err = f.hub.Authenticate(conn, user.ID)
	require.NoError(t, err)
	return conn, sink, user
}

func (f *hubFixture) createRoom(t *testing.T, name, creatorID string) domain.Room {
	t.Helper()
	room, err := f.rooms.CreateRoom(name, domain.RoomPublic, creatorID)
	require.NoError(t, err)
	return room
}

func asMessage(t *testing.T, e protocol.Event) domain.Message {
	t.Helper()
	message, ok := e.Data.(domain.Message)
	require.True(t, ok, "event data is not a message")
	return message
}
