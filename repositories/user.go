//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
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

type IUserRepository interface {
	CreateUser(username, email, hashedPassword string) (domain.User, error)
	GetUser(id string) (domain.User, error)
	GetUserByUsername(username string) (domain.User, error)
	SetOnline(id string, online bool) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

// CreateUser persists a new user and a username index entry.
// Keys: "user:{id}" holds the record, "username:{username}" -> id.
func (u UserRepository) CreateUser(username, email, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		indexKey := []byte("username:" + username)
		if _, err := txn.Get(indexKey); err == nil {
			return errs.ErrUserAlreadyExists
		}
		if err := txn.Set([]byte("user:"+user.ID), data); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte(user.ID))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u UserRepository) GetUser(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + id))
		if err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &user)
		})
	})
	return user, err
}

func (u UserRepository) GetUserByUsername(username string) (domain.User, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("username:" + username))
		if err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		return item.Value(func(value []byte) error {
			id = string(value)
			return nil
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return u.GetUser(id)
}

// SetOnline flips the persisted online flag. Callers treat failures as
// best-effort: presence truth lives in the in-process table, not here.
func (u UserRepository) SetOnline(id string, online bool) error {
	return u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + id)
		item, err := txn.Get(key)
		if err != nil {
			if errs.Is(err, badger.ErrKeyNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		var user domain.User
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &user)
		}); err != nil {
			return err
		}
		user.IsOnline = online
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}
