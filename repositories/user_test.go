package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	errs "chat-hub/errors"
)

func Test_Create_And_Fetch_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	// Given a registered user
	created, err := repository.CreateUser("alice", "alice@example.com", "$argon2id$hash")
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal(domain.RoleUser, created.Role)

	// Then both lookups resolve the same record
	byID, err := repository.GetUser(created.ID)
	req.NoError(err)
	req.Equal(created.Username, byID.Username)

	byName, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(created.ID, byName.ID)
}

func Test_Duplicate_Username_Rejected(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("alice", "alice@example.com", "hash")
	req.NoError(err)

	_, err = repository.CreateUser("alice", "other@example.com", "hash")
	req.ErrorIs(err, errs.ErrUserAlreadyExists)
}

func Test_Fetch_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetUser("nope")
	req.ErrorIs(err, errs.ErrNotFound)

	_, err = repository.GetUserByUsername("nobody")
	req.ErrorIs(err, errs.ErrNotFound)
}

func Test_SetOnline_Flag(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.CreateUser("alice", "alice@example.com", "hash")
	req.NoError(err)
	req.False(created.IsOnline)

	req.NoError(repository.SetOnline(created.ID, true))
	fetched, err := repository.GetUser(created.ID)
	req.NoError(err)
	req.True(fetched.IsOnline)

	req.NoError(repository.SetOnline(created.ID, false))
	fetched, err = repository.GetUser(created.ID)
	req.NoError(err)
	req.False(fetched.IsOnline)
}
