package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-hub/domain"
	"chat-hub/protocol"
)

// typingQuietPeriod is how long after the last keystroke the client
// auto-clears its own typing state.
const typingQuietPeriod = 3 * time.Second

// Client wires the socket service, the REST bootstrap calls and the
// store together, and owns the room-switch orchestration.
type Client struct {
	log    *slog.Logger
	socket *Socket
	rest   *REST
	store  *Store

	userID   string
	username string

	typingMu    sync.Mutex
	typingTimer *time.Timer

	// OnEvent, when set, observes every applied server event; the
	// terminal client uses it to repaint.
	OnEvent func(name string)
}

func New(log *slog.Logger, socket *Socket, rest *REST, userID, username string) *Client {
	c := &Client{
		log:      log,
		socket:   socket,
		rest:     rest,
		store:    NewStore(),
		userID:   userID,
		username: username,
	}
	c.bind()
	return c
}

func (c *Client) Store() *Store { return c.store }

// Authenticate binds this connection to the logged-in user and starts
// the listen loop. Must be called before any room operation.
func (c *Client) Authenticate() error {
	return c.socket.Emit(protocol.EventAuthenticate, c.userID)
}

func (c *Client) Listen() error { return c.socket.Listen() }

// SetCurrentRoom performs the full switch: leave the previous room,
// subscribe to the new room's feed first, then fetch history and merge
// it under whatever arrived live in between.
func (c *Client) SetCurrentRoom(room domain.Room) error {
	if current := c.store.CurrentRoom(); current != nil {
		// Re-selecting the current room is a no-op; re-emitting joinRoom
		// would announce a duplicate join to the whole room.
		if current.ID == room.ID {
			return nil
		}
		if err := c.socket.Emit(protocol.EventLeaveRoom, protocol.LeaveRoomPayload{RoomID: current.ID, UserID: c.userID}); err != nil {
			return err
		}
	}
	c.store.SetCurrentRoom(&room)

	// Subscribe before fetching so no broadcast is missed; MergeHistory
	// de-duplicates any message seen both live and in the history page.
	if err := c.socket.Emit(protocol.EventJoinRoom, protocol.JoinRoomPayload{RoomID: room.ID, UserID: c.userID}); err != nil {
		return err
	}
	history, err := c.rest.GetMessages(room.ID, 0, 50)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	c.store.MergeHistory(history)
	return nil
}

func (c *Client) SendMessage(content string) error {
	room := c.store.CurrentRoom()
	if room == nil {
		return fmt.Errorf("no current room")
	}
	payload := protocol.SendMessagePayload{
		RoomID:  room.ID,
		UserID:  c.userID,
		Content: content,
		Type:    string(domain.MessageText),
	}
	if replyingTo := c.store.ReplyingTo(); replyingTo != nil {
		payload.ReplyTo = replyingTo.ID.String()
		c.store.SetReplyingTo(nil)
	}
	return c.socket.Emit(protocol.EventSendMessage, payload)
}

func (c *Client) React(messageID, emoji string) error {
	return c.socket.Emit(protocol.EventReactMessage, protocol.ReactPayload{
		MessageID: messageID, UserID: c.userID, Emoji: emoji,
	})
}

// NotifyTyping emits isTyping=true and (re)arms the quiet-period timer
// that auto-clears it. Call on every keystroke.
func (c *Client) NotifyTyping() error {
	room := c.store.CurrentRoom()
	if room == nil {
		return nil
	}
	roomID := room.ID

	c.typingMu.Lock()
	if c.typingTimer != nil {
		c.typingTimer.Stop()
	}
	c.typingTimer = time.AfterFunc(typingQuietPeriod, func() {
		_ = c.socket.Emit(protocol.EventTyping, protocol.TypingPayload{
			RoomID: roomID, Username: c.username, IsTyping: false,
		})
	})
	c.typingMu.Unlock()

	return c.socket.Emit(protocol.EventTyping, protocol.TypingPayload{
		RoomID: roomID, Username: c.username, IsTyping: true,
	})
}

// bind registers the store reducers for every server event.
func (c *Client) bind() {
	c.socket.On(protocol.EventMessage, func(data json.RawMessage) {
		var message domain.Message
		if err := json.Unmarshal(data, &message); err != nil {
			c.log.Warn("Bad message payload", "error", err)
			return
		}
		c.store.AddMessage(message)
		c.notify(protocol.EventMessage)
	})
	c.socket.On(protocol.EventMessageReaction, func(data json.RawMessage) {
		var message domain.Message
		if err := json.Unmarshal(data, &message); err != nil {
			return
		}
		c.store.UpdateMessageReactions(message.ID, message.Reactions)
		c.notify(protocol.EventMessageReaction)
	})
	c.socket.On(protocol.EventMessageEdited, func(data json.RawMessage) {
		var message domain.Message
		if err := json.Unmarshal(data, &message); err != nil {
			return
		}
		c.store.ReplaceMessage(message)
		c.notify(protocol.EventMessageEdited)
	})
	c.socket.On(protocol.EventMessageDeleted, func(data json.RawMessage) {
		var payload protocol.MessageDeletedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return
		}
		switch {
		case payload.Message != nil:
			c.store.ReplaceMessage(*payload.Message)
		case payload.MessageID != "":
			if id, err := uuid.Parse(payload.MessageID); err == nil {
				c.store.RemoveMessage(id)
			}
		}
		c.notify(protocol.EventMessageDeleted)
	})
	c.socket.On(protocol.EventOnlineUsers, func(data json.RawMessage) {
		var users []domain.PresenceEntry
		if err := json.Unmarshal(data, &users); err != nil {
			return
		}
		c.store.SetOnlineUsers(users)
		c.notify(protocol.EventOnlineUsers)
	})
	c.socket.On(protocol.EventUserTyping, func(data json.RawMessage) {
		var payload protocol.UserTypingPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return
		}
		c.store.SetTypingUser(payload.Username, payload.IsTyping)
		c.notify(protocol.EventUserTyping)
	})
	c.socket.On(protocol.EventError, func(data json.RawMessage) {
		var payload protocol.ErrorPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return
		}
		c.log.Warn("Server rejected operation", "message", payload.Message)
		c.notify(protocol.EventError)
	})
}

func (c *Client) notify(name string) {
	if c.OnEvent != nil {
		c.OnEvent(name)
	}
}
