package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-hub/domain"
	errs "chat-hub/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func textMessage(roomID, senderID, content string, at time.Time) StoredMessage {
	return StoredMessage{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		Kind:      domain.MessageText,
		Reactions: []domain.Reaction{},
		ReadBy:    []string{senderID},
		CreatedAt: at,
	}
}

func Test_Record_And_Fetch_Message_By_Id(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	// Given a stored message
	message := textMessage("room-1", "alice", "hello there", time.Now().UTC())
	req.NoError(repository.CreateMessage(message))

	// When fetching by id
	fetched, err := repository.GetMessage(message.ID)

	// Then the record round-trips
	req.NoError(err)
	req.Equal(message.ID, fetched.ID)
	req.Equal(message.Content, fetched.Content)
	req.Equal(message.SenderID, fetched.SenderID)
}

func Test_Fetch_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	_, err := repository.GetMessage(uuid.New())
	req.ErrorIs(err, errs.ErrNotFound)
}

func Test_Messages_Page_Is_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	// Given three messages written out of chronological order
	at := time.Now().UTC()
	oldest := textMessage("room-1", "alice", "first", at)
	middle := textMessage("room-1", "bob", "second", at.Add(1*time.Minute))
	newest := textMessage("room-1", "clara", "third", at.Add(2*time.Minute))
	for _, m := range []StoredMessage{middle, newest, oldest} {
		req.NoError(repository.CreateMessage(m))
	}

	// When fetching the first page
	page, err := repository.GetMessagesPage("room-1", 0, 10)

	// Then messages come back newest first
	req.NoError(err)
	req.Len(page, 3)
	req.Equal(newest.ID, page[0].ID)
	req.Equal(middle.ID, page[1].ID)
	req.Equal(oldest.ID, page[2].ID)
}

func Test_Messages_Pagination(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		m := textMessage("room-1", "alice", "msg", at.Add(time.Duration(i)*time.Second))
		ids = append(ids, m.ID)
		req.NoError(repository.CreateMessage(m))
	}

	// First page holds the two newest, second page the next two
	first, err := repository.GetMessagesPage("room-1", 0, 2)
	req.NoError(err)
	req.Len(first, 2)
	req.Equal(ids[4], first[0].ID)
	req.Equal(ids[3], first[1].ID)

	second, err := repository.GetMessagesPage("room-1", 1, 2)
	req.NoError(err)
	req.Len(second, 2)
	req.Equal(ids[2], second[0].ID)
	req.Equal(ids[1], second[1].ID)

	// Past the end is empty, not an error
	empty, err := repository.GetMessagesPage("room-1", 5, 2)
	req.NoError(err)
	req.Empty(empty)
}

func Test_Messages_Are_Scoped_By_Room(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	req.NoError(repository.CreateMessage(textMessage("room-1", "alice", "here", at)))
	req.NoError(repository.CreateMessage(textMessage("room-2", "bob", "elsewhere", at)))

	page, err := repository.GetMessagesPage("room-1", 0, 10)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal("here", page[0].Content)
}

func Test_Save_Message_Updates_In_Place(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	message := textMessage("room-1", "alice", "tpyo", time.Now().UTC())
	req.NoError(repository.CreateMessage(message))

	// When editing the content
	now := time.Now().UTC()
	message.Content = "typo"
	message.IsEdited = true
	message.EditedAt = &now
	req.NoError(repository.SaveMessage(message))

	// Then the edit is visible by id and in the page, without duplication
	fetched, err := repository.GetMessage(message.ID)
	req.NoError(err)
	req.Equal("typo", fetched.Content)
	req.True(fetched.IsEdited)

	page, err := repository.GetMessagesPage("room-1", 0, 10)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal("typo", page[0].Content)
}

func Test_Delete_Messages_By_Room(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	at := time.Now().UTC()
	doomed := textMessage("room-1", "alice", "going away", at)
	survivor := textMessage("room-2", "bob", "staying", at)
	req.NoError(repository.CreateMessage(doomed))
	req.NoError(repository.CreateMessage(survivor))

	// When cascading the room delete
	deleted, err := repository.DeleteMessagesByRoom("room-1")
	req.NoError(err)
	req.Equal([]uuid.UUID{doomed.ID}, deleted)

	// Then the room's messages and their id index are gone
	_, err = repository.GetMessage(doomed.ID)
	req.ErrorIs(err, errs.ErrNotFound)
	page, err := repository.GetMessagesPage("room-1", 0, 10)
	req.NoError(err)
	req.Empty(page)

	// And the other room is untouched
	_, err = repository.GetMessage(survivor.ID)
	req.NoError(err)
}

func Test_VisibleTo_After_Delete_For_Me(t *testing.T) {
	req := require.New(t)

	message := textMessage("room-1", "alice", "secret", time.Now().UTC())
	message.DeletedForUserIDs = []string{"bob"}

	req.True(message.VisibleTo("alice"))
	req.False(message.VisibleTo("bob"))
}
