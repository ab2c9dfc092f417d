package repositories

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	errs "chat-hub/errors"
)

func Test_Create_Room_Sets_Creator_As_Member_And_Admin(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t))

	room, err := repository.CreateRoom("general", domain.RoomPublic, "alice")
	req.NoError(err)
	req.NotEmpty(room.ID)
	req.Equal([]string{"alice"}, room.MemberIDs)
	req.Equal([]string{"alice"}, room.AdminIDs)
	req.Equal("alice", room.CreatorID)

	fetched, err := repository.GetRoom(room.ID)
	req.NoError(err)
	req.Equal(room.Name, fetched.Name)
	req.Equal(room.Kind, fetched.Kind)
}

func Test_List_Rooms(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t))

	_, err := repository.CreateRoom("general", domain.RoomPublic, "alice")
	req.NoError(err)
	_, err = repository.CreateRoom("backstage", domain.RoomPrivate, "bob")
	req.NoError(err)

	rooms, err := repository.ListRooms()
	req.NoError(err)
	req.Len(rooms, 2)
	names := lo.Map(rooms, func(r domain.Room, _ int) string { return r.Name })
	req.ElementsMatch([]string{"general", "backstage"}, names)
}

func Test_Save_Room_Membership_And_Activity(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t))

	room, err := repository.CreateRoom("general", domain.RoomPublic, "alice")
	req.NoError(err)

	// When bob joins and activity is bumped
	room.MemberIDs = append(room.MemberIDs, "bob")
	room.LastActivityAt = time.Now().UTC().Add(time.Hour)
	req.NoError(repository.SaveRoom(room))

	fetched, err := repository.GetRoom(room.ID)
	req.NoError(err)
	req.True(fetched.IsMember("bob"))
	req.Equal(room.LastActivityAt.Unix(), fetched.LastActivityAt.Unix())
}

func Test_Save_Unknown_Room(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t))

	err := repository.SaveRoom(domain.Room{ID: "ghost"})
	req.ErrorIs(err, errs.ErrNotFound)
}

func Test_Delete_Room(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openTestDB(t))

	room, err := repository.CreateRoom("doomed", domain.RoomPublic, "alice")
	req.NoError(err)

	req.NoError(repository.DeleteRoom(room.ID))
	_, err = repository.GetRoom(room.ID)
	req.ErrorIs(err, errs.ErrNotFound)

	// Deleting twice reports not found
	req.ErrorIs(repository.DeleteRoom(room.ID), errs.ErrNotFound)
}
