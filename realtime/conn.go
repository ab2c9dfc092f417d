package realtime

import (
	"sync"

	"chat-hub/contract"
	errs "chat-hub/errors"
	"chat-hub/protocol"
)

// Connection is the transient server-side state of one live socket. The
// user identity is bound exactly once by authenticate; there is no
// re-authentication. Destroyed on transport disconnect.
type Connection struct {
	ID   string
	sink contract.EventSink

	mu            sync.Mutex
	userID        string
	currentRoomID string
}

func NewConnection(id string, sink contract.EventSink) *Connection {
	return &Connection{ID: id, sink: sink}
}

// BindUser sets the authenticated identity. A second call fails: the
// connection keeps its first identity.
func (c *Connection) BindUser(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return errs.ErrAlreadyAuthenticated
	}
	c.userID = userID
	return nil
}

// UserID returns the bound identity, or "" while unauthenticated.
func (c *Connection) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Connection) SetCurrentRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRoomID = roomID
}

func (c *Connection) CurrentRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRoomID
}

// Send pushes an event to this connection only. Delivery is best-effort,
// matching the sink contract.
func (c *Connection) Send(e protocol.Event) {
	_ = c.sink.Consume(e)
}
