//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"chat-hub/domain"
	errs "chat-hub/errors"
)

type IRoomRepository interface {
	CreateRoom(name string, kind domain.RoomKind, creatorID string) (domain.Room, error)
	GetRoom(id string) (domain.Room, error)
	ListRooms() ([]domain.Room, error)
	SaveRoom(room domain.Room) error
	DeleteRoom(id string) error
}

type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) RoomRepository {
	return RoomRepository{db: db}
}

// CreateRoom persists a room under "room:{id}". The creator becomes the
// first member and admin.
func (r RoomRepository) CreateRoom(name string, kind domain.RoomKind, creatorID string) (domain.Room, error) {
	now := time.Now().UTC()
	room := domain.Room{
		ID:             uuid.New().String(),
		Name:           name,
		Kind:           kind,
		MemberIDs:      []string{creatorID},
		AdminIDs:       []string{creatorID},
		CreatorID:      creatorID,
		LastActivityAt: now,
		CreatedAt:      now,
	}
	data, err := json.Marshal(room)
	if err != nil {
		return domain.Room{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("room:"+room.ID), data)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r RoomRepository) GetRoom(id string) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("room:" + id))
		if err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &room)
		})
	})
	return room, err
}

func (r RoomRepository) ListRooms() ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var room domain.Room
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &room)
			})
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	return rooms, err
}

// SaveRoom rewrites the full record at its key. Last write wins; the only
// concurrent writers are lastActivityAt bumps and membership changes.
func (r RoomRepository) SaveRoom(room domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte("room:" + room.ID)); err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return txn.Set([]byte("room:"+room.ID), data)
	})
}

func (r RoomRepository) DeleteRoom(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := []byte("room:" + id)
		if _, err := txn.Get(key); err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}
