package realtime

import (
	"chat-hub/domain"
	errs "chat-hub/errors"
	"chat-hub/protocol"
)

// Authenticate binds a user identity to a connection, exactly once. The
// user must exist; the presence entry replaces any prior entry for the
// same user (last-connected wins). The persisted online flag is written
// best-effort and never blocks the live behavior.
func (h *Hub) Authenticate(conn *Connection, userID string) (domain.PresenceEntry, error) {
	user, err := h.users.GetUser(userID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return domain.PresenceEntry{}, errs.Scoped(errs.ErrNotFound, "User not found")
		}
		return domain.PresenceEntry{}, err
	}

	if err := conn.BindUser(user.ID); err != nil {
		return domain.PresenceEntry{}, errs.Scoped(err, "Already authenticated")
	}

	entry := domain.PresenceEntry{
		UserID:       user.ID,
		ConnectionID: conn.ID,
		Username:     user.Username,
		Avatar:       user.AvatarURL,
		Role:         user.Role,
		ConnectedAt:  h.now(),
	}
	h.presence.Set(entry)

	if err := h.users.SetOnline(user.ID, true); err != nil {
		h.log.Warn("Failed to persist online flag", "user_id", user.ID, "error", err)
	}

	h.log.Info("Connection authenticated", "connection_id", conn.ID, "user_id", user.ID, "username", user.Username)
	h.broadcastOnlineUsers()
	return entry, nil
}

// Disconnect tears down a connection. Idempotent: a second call for the
// same connection is a no-op. Leaves the current room with a live notice,
// removes presence if it still belongs to this connection, and broadcasts
// the shrunken online list.
func (h *Hub) Disconnect(conn *Connection) {
	h.mu.Lock()
	_, live := h.conns[conn.ID]
	delete(h.conns, conn.ID)
	h.mu.Unlock()
	if !live {
		return
	}

	userID := conn.UserID()
	if roomID := conn.CurrentRoom(); roomID != "" {
		h.registry.Unsubscribe(conn.ID, roomID)
		h.clearTyping(roomID, userID, conn.ID)
		// Announce the departure only if this connection still owns the
		// presence entry; a superseded connection going away must not
		// report a user who is live elsewhere as gone.
		if entry, ok := h.presence.Get(userID); ok && entry.ConnectionID == conn.ID {
			notice := domain.SystemMessage(roomID, entry.Username+" left the room")
			h.broadcastRoom(roomID, protocol.Event{Name: protocol.EventMessage, Data: notice})
		}
	}

	h.registry.Deregister(conn.ID)
	h.stats.ConnClosed()

	if userID == "" {
		return
	}
	if removed := h.presence.Remove(userID, conn.ID); removed {
		if err := h.users.SetOnline(userID, false); err != nil {
			h.log.Warn("Failed to persist offline flag", "user_id", userID, "error", err)
		}
		h.broadcastOnlineUsers()
	}
	h.log.Info("Connection closed", "connection_id", conn.ID, "user_id", userID)
}

func (h *Hub) broadcastOnlineUsers() {
	snapshot := h.presence.Snapshot()
	h.stats.SetOnline(int64(len(snapshot)))
	h.broadcastAll(protocol.Event{Name: protocol.EventOnlineUsers, Data: snapshot})
}

// requireAuth resolves the connection's bound user, failing the operation
// before any state is touched when the connection never authenticated.
func (h *Hub) requireAuth(conn *Connection) (domain.PresenceEntry, error) {
	userID := conn.UserID()
	if userID == "" {
		return domain.PresenceEntry{}, errs.Scoped(errs.ErrUnauthenticated, "Not authenticated")
	}
	if entry, ok := h.presence.Get(userID); ok && entry.ConnectionID == conn.ID {
		return entry, nil
	}
	// Superseded by a newer connection of the same user; the identity is
	// still valid for message operations.
	user, err := h.users.GetUser(userID)
	if err != nil {
		return domain.PresenceEntry{}, errs.Scoped(errs.ErrUnauthenticated, "Not authenticated")
	}
	return domain.PresenceEntry{
		UserID:       user.ID,
		ConnectionID: conn.ID,
		Username:     user.Username,
		Avatar:       user.AvatarURL,
		Role:         user.Role,
	}, nil
}
