package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-hub/domain"
)

func storeMessage(roomID, content string) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		Content:   content,
		Kind:      domain.MessageText,
		CreatedAt: time.Now().UTC(),
	}
}

func Test_Switching_Room_Drops_Room_Scoped_State(t *testing.T) {
	req := require.New(t)
	store := NewStore()
	general := domain.Room{ID: "room-1", Name: "general"}
	store.SetCurrentRoom(&general)

	m := storeMessage("room-1", "hello")
	store.AddMessage(m)
	store.SetTypingUser("bob", true)
	store.SetReplyingTo(&m)

	// When switching to another room
	store.SetCurrentRoom(&domain.Room{ID: "room-2", Name: "random"})

	// Then messages, typing set and reply target are gone
	req.Empty(store.Messages())
	req.Empty(store.TypingUsers())
	req.Nil(store.ReplyingTo())
	req.Equal("room-2", store.CurrentRoom().ID)
}

func Test_Messages_For_Other_Rooms_Are_Ignored(t *testing.T) {
	req := require.New(t)
	store := NewStore()
	store.SetCurrentRoom(&domain.Room{ID: "room-1"})

	store.AddMessage(storeMessage("room-1", "mine"))
	store.AddMessage(storeMessage("room-2", "elsewhere"))

	messages := store.Messages()
	req.Len(messages, 1)
	req.Equal("mine", messages[0].Content)
}

func Test_MergeHistory_Deduplicates_The_Join_Race(t *testing.T) {
	req := require.New(t)
	store := NewStore()
	store.SetCurrentRoom(&domain.Room{ID: "room-1"})

	// Given a message broadcast live between subscribe and fetch
	raced := storeMessage("room-1", "raced")
	fresh := storeMessage("room-1", "after the fetch")
	store.AddMessage(raced)
	store.AddMessage(fresh)

	// When the history page arrives also carrying the raced message
	older := storeMessage("room-1", "older")
	store.MergeHistory([]domain.Message{older, raced})

	// Then the raced message appears exactly once, history first
	messages := store.Messages()
	req.Len(messages, 3)
	req.Equal(older.ID, messages[0].ID)
	req.Equal(raced.ID, messages[1].ID)
	req.Equal(fresh.ID, messages[2].ID)
}

func Test_ReplaceMessage_Swaps_By_Id(t *testing.T) {
	req := require.New(t)
	store := NewStore()
	store.SetCurrentRoom(&domain.Room{ID: "room-1"})

	original := storeMessage("room-1", "tpyo")
	store.AddMessage(original)

	edited := original
	edited.Content = "typo"
	edited.IsEdited = true
	store.ReplaceMessage(edited)

	messages := store.Messages()
	req.Len(messages, 1)
	req.Equal("typo", messages[0].Content)
	req.True(messages[0].IsEdited)

	// Replacing an unknown message changes nothing
	store.ReplaceMessage(storeMessage("room-1", "ghost"))
	req.Len(store.Messages(), 1)
}

func Test_UpdateMessageReactions(t *testing.T) {
	req := require.New(t)
	store := NewStore()
	store.SetCurrentRoom(&domain.Room{ID: "room-1"})

	m := storeMessage("room-1", "react")
	store.AddMessage(m)

	reactions := []domain.Reaction{{UserID: "u1", Username: "bob", Emoji: "👍"}}
	store.UpdateMessageReactions(m.ID, reactions)
	req.Equal(reactions, store.Messages()[0].Reactions)

	// A reaction for a message in another room's list is a no-op
	store.UpdateMessageReactions(uuid.New(), reactions)
	req.Len(store.Messages(), 1)
}

func Test_RemoveMessage(t *testing.T) {
	req := require.New(t)
	store := NewStore()
	store.SetCurrentRoom(&domain.Room{ID: "room-1"})

	keep := storeMessage("room-1", "keep")
	drop := storeMessage("room-1", "drop")
	store.AddMessage(keep)
	store.AddMessage(drop)

	store.RemoveMessage(drop.ID)

	messages := store.Messages()
	req.Len(messages, 1)
	req.Equal(keep.ID, messages[0].ID)
}

func Test_Typing_Set_Is_Deduplicated_And_Sorted(t *testing.T) {
	req := require.New(t)
	store := NewStore()

	store.SetTypingUser("zoe", true)
	store.SetTypingUser("alice", true)
	store.SetTypingUser("alice", true)
	req.Equal([]string{"alice", "zoe"}, store.TypingUsers())

	store.SetTypingUser("zoe", false)
	req.Equal([]string{"alice"}, store.TypingUsers())

	// Clearing an absent name is harmless
	store.SetTypingUser("nobody", false)
	req.Equal([]string{"alice"}, store.TypingUsers())
}
