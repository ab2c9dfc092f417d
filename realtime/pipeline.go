package realtime

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-hub/domain"
	errs "chat-hub/errors"
	"chat-hub/protocol"
	"chat-hub/repositories"
)

// The pipeline treats storage as the single source of truth: every
// mutation re-reads the message, applies the change, writes it back and
// only then broadcasts. Nothing caches message state across operations.

// SendMessage validates, persists and broadcasts a new message. The
// sender is the connection's bound identity; the room's lastActivityAt is
// bumped as a side effect.
func (h *Hub) SendMessage(conn *Connection, p protocol.SendMessagePayload) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}
	room, err := h.rooms.GetRoom(p.RoomID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return errs.Scoped(errs.ErrNotFound, "Room not found")
		}
		return err
	}
	kind := domain.MessageKind(p.Type)
	if !domain.ValidMessageKind(kind) || kind == domain.MessageSystem {
		return errs.Scopedf(errs.ErrValidation, "Invalid message type: %s", p.Type)
	}

	stored := repositories.StoredMessage{
		ID:           uuid.New(),
		RoomID:       p.RoomID,
		SenderID:     entry.UserID,
		Content:      p.Content,
		Kind:         kind,
		CodeLanguage: p.CodeLanguage,
		FileURL:      p.FileURL,
		FileName:     p.FileName,
		FileSize:     p.FileSize,
		FileType:     p.FileType,
		Reactions:    []domain.Reaction{},
		ReadBy:       []string{entry.UserID},
		CreatedAt:    h.now(),
	}
	if p.ReplyTo != "" {
		replyID, err := uuid.Parse(p.ReplyTo)
		if err != nil {
			return errs.Scoped(errs.ErrValidation, "Invalid replyTo message id")
		}
		if _, err := h.messages.GetMessage(replyID); err != nil {
			return errs.Scoped(errs.ErrNotFound, "Reply target not found")
		}
		stored.ReplyToID = &replyID
	}

	if err := h.messages.CreateMessage(stored); err != nil {
		return err
	}
	room.LastActivityAt = stored.CreatedAt
	if err := h.rooms.SaveRoom(room); err != nil {
		h.log.Warn("Failed to bump room activity", "room_id", room.ID, "error", err)
	}
	h.indexMessage(stored)

	message, err := h.populate(stored)
	if err != nil {
		return err
	}
	h.broadcastRoom(p.RoomID, protocol.Event{Name: protocol.EventMessage, Data: message})
	return nil
}

// EditMessage replaces a message body. Only the sender may edit; the
// message keeps its identity and gains the edited markers.
func (h *Hub) EditMessage(conn *Connection, p protocol.EditPayload) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}
	stored, err := h.loadMessage(p.MessageID)
	if err != nil {
		return err
	}
	if stored.SenderID != entry.UserID {
		return errs.Scoped(errs.ErrForbidden, "Not authorized to edit this message")
	}

	now := h.now()
	stored.Content = p.NewContent
	stored.IsEdited = true
	stored.EditedAt = &now
	if err := h.messages.SaveMessage(stored); err != nil {
		return err
	}
	h.indexMessage(stored)

	message, err := h.populate(stored)
	if err != nil {
		return err
	}
	h.broadcastRoom(stored.RoomID, protocol.Event{Name: protocol.EventMessageEdited, Data: message})
	return nil
}

// ReactToMessage toggles the user's reaction: the same emoji removes it,
// a different emoji replaces it, none adds one. The result never holds
// more than one reaction per user.
func (h *Hub) ReactToMessage(conn *Connection, p protocol.ReactPayload) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}
	stored, err := h.loadMessage(p.MessageID)
	if err != nil {
		return err
	}

	stored.Reactions = domain.ToggleReaction(stored.Reactions, entry.UserID, entry.Username, p.Emoji, h.now())
	if err := h.messages.SaveMessage(stored); err != nil {
		return err
	}

	message, err := h.populate(stored)
	if err != nil {
		return err
	}
	h.broadcastRoom(stored.RoomID, protocol.Event{Name: protocol.EventMessageReaction, Data: message})
	return nil
}

// DeleteMessage applies one of the two delete modes. forEveryone is
// sender-only, replaces the body with the placeholder and broadcasts to
// the room. forMe hides the message for the requester alone and answers
// only that connection; repeating it has no further effect.
func (h *Hub) DeleteMessage(conn *Connection, p protocol.DeletePayload) error {
	entry, err := h.requireAuth(conn)
	if err != nil {
		return err
	}
	stored, err := h.loadMessage(p.MessageID)
	if err != nil {
		return err
	}

	switch p.DeleteType {
	case protocol.DeleteForEveryone:
		if stored.SenderID != entry.UserID {
			return errs.Scoped(errs.ErrForbidden, "Not authorized to delete this message")
		}
		stored.Content = domain.DeletedPlaceholder
		stored.IsDeletedForEveryone = true
		if err := h.messages.SaveMessage(stored); err != nil {
			return err
		}
		if h.search != nil {
			if err := h.search.Remove(stored.ID); err != nil {
				h.log.Warn("Failed to drop message from search index", "message_id", stored.ID, "error", err)
			}
		}
		message, err := h.populate(stored)
		if err != nil {
			return err
		}
		h.broadcastRoom(stored.RoomID, protocol.Event{
			Name: protocol.EventMessageDeleted,
			Data: protocol.MessageDeletedPayload{Message: &message, DeleteType: protocol.DeleteForEveryone},
		})
		return nil

	case protocol.DeleteForMe:
		if !lo.Contains(stored.DeletedForUserIDs, entry.UserID) {
			stored.DeletedForUserIDs = append(stored.DeletedForUserIDs, entry.UserID)
			if err := h.messages.SaveMessage(stored); err != nil {
				return err
			}
		}
		conn.Send(protocol.Event{
			Name: protocol.EventMessageDeleted,
			Data: protocol.MessageDeletedPayload{MessageID: stored.ID.String(), DeleteType: protocol.DeleteForMe},
		})
		return nil

	default:
		return errs.Scopedf(errs.ErrValidation, "Invalid deleteType: %s", p.DeleteType)
	}
}

func (h *Hub) loadMessage(rawID string) (repositories.StoredMessage, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return repositories.StoredMessage{}, errs.Scoped(errs.ErrValidation, "Invalid message id")
	}
	stored, err := h.messages.GetMessage(id)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return repositories.StoredMessage{}, errs.Scoped(errs.ErrNotFound, "Message not found")
		}
		return repositories.StoredMessage{}, err
	}
	return stored, nil
}

func (h *Hub) indexMessage(stored repositories.StoredMessage) {
	if h.search == nil {
		return
	}
	if err := h.search.Index(stored); err != nil {
		h.log.Warn("Failed to index message", "message_id", stored.ID, "error", err)
	}
}

func (h *Hub) populate(stored repositories.StoredMessage) (domain.Message, error) {
	return PopulateMessage(h.users, h.messages, stored)
}
