//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-hub/domain"
	errs "chat-hub/errors"
)

type IMessageRepository interface {
	CreateMessage(message StoredMessage) error
	GetMessage(id uuid.UUID) (StoredMessage, error)
	SaveMessage(message StoredMessage) error
	GetMessagesPage(roomID string, page, limit int) ([]StoredMessage, error)
	DeleteMessagesByRoom(roomID string) ([]uuid.UUID, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// StoredMessage is the flat persisted form of a message. Sender and reply
// target are stored as ids and resolved into the populated domain.Message
// at broadcast time.
type StoredMessage struct {
	ID                   uuid.UUID          `json:"id"`
	RoomID               string             `json:"roomId"`
	SenderID             string             `json:"senderId"`
	Content              string             `json:"content"`
	Kind                 domain.MessageKind `json:"type"`
	CodeLanguage         string             `json:"codeLanguage,omitempty"`
	FileURL              string             `json:"fileUrl,omitempty"`
	FileName             string             `json:"fileName,omitempty"`
	FileSize             int64              `json:"fileSize,omitempty"`
	FileType             string             `json:"fileType,omitempty"`
	ReplyToID            *uuid.UUID         `json:"replyToId,omitempty"`
	Reactions            []domain.Reaction  `json:"reactions"`
	IsEdited             bool               `json:"isEdited"`
	EditedAt             *time.Time         `json:"editedAt,omitempty"`
	DeletedForUserIDs    []string           `json:"deletedForUserIds"`
	IsDeletedForEveryone bool               `json:"isDeletedForEveryone"`
	ReadBy               []string           `json:"readBy"`
	CreatedAt            time.Time          `json:"createdAt"`
}

// VisibleTo reports whether userID should still see the message after a
// delete-for-me.
func (m StoredMessage) VisibleTo(userID string) bool {
	return !lo.Contains(m.DeletedForUserIDs, userID)
}

// primaryKey is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func primaryKey(roomID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", roomID, at.UnixNano(), id))
}

func indexKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

// CreateMessage persists a message under its sortable primary key and an
// id index pointing at it, so GetMessage does not need the timestamp.
func (m MessageRepository) CreateMessage(message StoredMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := primaryKey(message.RoomID, message.CreatedAt, message.ID)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(indexKey(message.ID), key)
	})
}

func (m MessageRepository) GetMessage(id uuid.UUID) (StoredMessage, error) {
	var message StoredMessage
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(id))
		if err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		var key []byte
		if err := item.Value(func(value []byte) error {
			key = append([]byte(nil), value...)
			return nil
		}); err != nil {
			return err
		}
		record, err := txn.Get(key)
		if err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return record.Value(func(value []byte) error {
			return json.Unmarshal(value, &message)
		})
	})
	return message, err
}

// SaveMessage rewrites a mutated message at its original primary key.
// CreatedAt never changes, so the key stays stable across edits, reaction
// toggles and soft deletes.
func (m MessageRepository) SaveMessage(message StoredMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := primaryKey(message.RoomID, message.CreatedAt, message.ID)
	return m.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return txn.Set(key, data)
	})
}

// GetMessagesPage retrieves one page of a room's messages, newest first.
// Thanks to the padded timestamp in the key a reverse prefix scan yields
// reverse-chronological order; page N skips N*limit entries.
func (m MessageRepository) GetMessagesPage(roomID string, page, limit int) ([]StoredMessage, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 50
	}
	var messages []StoredMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", roomID)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key for this room, then walk back.
		seekKey := append(append([]byte(nil), prefix...), []byte("9999999999999999999")...)
		it.Seek(seekKey)

		skip := page * limit
		for ; it.ValidForPrefix(prefix); it.Next() {
			if skip > 0 {
				skip--
				continue
			}
			if len(messages) == limit {
				break
			}
			var message StoredMessage
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// DeleteMessagesByRoom hard-deletes every message of a room together with
// the id index entries. Returns the ids of the removed messages so callers
// can clean up the search index. This is the only path that removes
// message records from storage.
func (m MessageRepository) DeleteMessagesByRoom(roomID string) ([]uuid.UUID, error) {
	var removed []uuid.UUID
	err := m.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", roomID))
		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message StoredMessage
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &message)
			})
			if err != nil {
				it.Close()
				return err
			}
			removed = append(removed, message.ID)
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for i, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
			if err := txn.Delete(indexKey(removed[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Debug(fmt.Sprintf("Deleted %d messages for room %s", len(removed), roomID))
	return removed, nil
}
