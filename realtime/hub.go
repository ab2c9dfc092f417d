package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-hub/contract"
	"chat-hub/observability"
	"chat-hub/protocol"
	"chat-hub/repositories"
)

// Hub owns the live state of the server: the presence table, the typing
// table and the set of open connections. All socket operations are Hub
// methods; the dispatcher maps inbound events onto them.
type Hub struct {
	log      *slog.Logger
	registry contract.IRegistry
	presence *PresenceTable
	typing   *TypingTable
	users    repositories.IUserRepository
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	search   *repositories.SearchIndex
	stats    *observability.Stats

	mu    sync.Mutex
	conns map[string]*Connection

	// broadcastMu serializes room fan-out so all subscribers observe
	// events in the same order the server emitted them.
	broadcastMu sync.Mutex

	now func() time.Time
}

func NewHub(
	log *slog.Logger,
	registry contract.IRegistry,
	users repositories.IUserRepository,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	search *repositories.SearchIndex,
	stats *observability.Stats,
	typingTTL time.Duration,
) *Hub {
	return &Hub{
		log:      log,
		registry: registry,
		presence: NewPresenceTable(),
		typing:   NewTypingTable(typingTTL),
		users:    users,
		rooms:    rooms,
		messages: messages,
		search:   search,
		stats:    stats,
		conns:    make(map[string]*Connection),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *Hub) Presence() *PresenceTable { return h.presence }

// Attach creates the Connection for a freshly accepted transport session
// and registers its sink. No presence is recorded until authenticate.
func (h *Hub) Attach(sink contract.EventSink) *Connection {
	conn := NewConnection(uuid.NewString(), sink)
	h.registry.Register(conn.ID, sink)

	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()

	h.stats.ConnOpened()
	h.log.Debug("Connection attached", "connection_id", conn.ID)
	return conn
}

func (h *Hub) broadcastRoom(roomID string, e protocol.Event) {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()
	for _, sink := range h.registry.SinksForRoom(roomID) {
		_ = sink.Consume(e)
	}
	h.stats.Broadcasted()
}

func (h *Hub) broadcastRoomExcept(roomID, exceptConnID string, e protocol.Event) {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()
	for _, sink := range h.registry.SinksForRoomExcept(roomID, exceptConnID) {
		_ = sink.Consume(e)
	}
	h.stats.Broadcasted()
}

func (h *Hub) broadcastAll(e protocol.Event) {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()
	for _, sink := range h.registry.AllSinks() {
		_ = sink.Consume(e)
	}
	h.stats.Broadcasted()
}
