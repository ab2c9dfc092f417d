package realtime

import (
	"chat-hub/domain"
	errs "chat-hub/errors"
	"chat-hub/protocol"
)

// JoinRoom subscribes an authenticated connection to a room's broadcast
// group and announces the join with a non-persisted system message,
// delivered to every subscriber including the joiner. Persisted room
// membership is not required and not touched. A connection subscribes to
// at most one room; callers leave the previous room before joining a new
// one, the coordinator does not enforce it.
func (h *Hub) JoinRoom(conn *Connection, roomID string) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}
	if _, err := h.rooms.GetRoom(roomID); err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return errs.Scoped(errs.ErrNotFound, "Room not found")
		}
		return err
	}

	h.registry.Subscribe(conn.ID, roomID)
	conn.SetCurrentRoom(roomID)

	notice := domain.SystemMessage(roomID, entry.Username+" joined the room")
	h.broadcastRoom(roomID, protocol.Event{Name: protocol.EventMessage, Data: notice})
	h.log.Info("Joined room", "connection_id", conn.ID, "user_id", entry.UserID, "room_id", roomID)
	return nil
}

// LeaveRoom is the inverse of JoinRoom: unsubscribes, clears the current
// room and announces the departure to the remaining subscribers. Any
// typing state the user held in the room is cleared as well.
func (h *Hub) LeaveRoom(conn *Connection, roomID string) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}

	h.registry.Unsubscribe(conn.ID, roomID)
	conn.SetCurrentRoom("")
	h.clearTyping(roomID, entry.UserID, conn.ID)

	notice := domain.SystemMessage(roomID, entry.Username+" left the room")
	h.broadcastRoom(roomID, protocol.Event{Name: protocol.EventMessage, Data: notice})
	h.log.Info("Left room", "connection_id", conn.ID, "user_id", entry.UserID, "room_id", roomID)
	return nil
}

// SetTyping broadcasts a typing state to every other subscriber of the
// room. Fire and forget: never persisted, never acknowledged, last write
// wins. The table entry carries a deadline so the reaper can clear states
// from connections that dropped without sending isTyping=false.
func (h *Hub) SetTyping(conn *Connection, p protocol.TypingPayload) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}
	username := entry.Username
	if p.Username != "" {
		username = p.Username
	}
	h.typing.Set(p.RoomID, entry.UserID, username, p.IsTyping, h.now())
	h.broadcastRoomExcept(p.RoomID, conn.ID, protocol.Event{
		Name: protocol.EventUserTyping,
		Data: protocol.UserTypingPayload{Username: username, IsTyping: p.IsTyping},
	})
	return nil
}

// ExpireTyping clears every lapsed typing entry and broadcasts the clear,
// so clients don't keep painting a stale indicator. Called periodically
// by the reaper worker.
func (h *Hub) ExpireTyping() {
	for _, state := range h.typing.Expired(h.now()) {
		h.broadcastRoom(state.RoomID, protocol.Event{
			Name: protocol.EventUserTyping,
			Data: protocol.UserTypingPayload{Username: state.Username, IsTyping: false},
		})
	}
}

// clearTyping drops the user's typing entry for a room and tells the
// other subscribers to clear the indicator.
func (h *Hub) clearTyping(roomID, userID, exceptConnID string) {
	if state, ok := h.typing.Clear(roomID, userID); ok {
		h.broadcastRoomExcept(roomID, exceptConnID, protocol.Event{
			Name: protocol.EventUserTyping,
			Data: protocol.UserTypingPayload{Username: state.Username, IsTyping: false},
		})
	}
}
