// This file defines Message records and their mutation rules: edit,
// reaction toggling, and the two delete modes. Messages are soft-deleted;
// only a room deletion removes them from storage.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageCode   MessageKind = "code"
	MessageFile   MessageKind = "file"
	MessageImage  MessageKind = "image"
	MessageSystem MessageKind = "system"
)

// DeletedPlaceholder replaces the body of a message deleted for everyone.
const DeletedPlaceholder = "This message was deleted"

type Reaction struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Emoji     string    `json:"emoji"`
	ReactedAt time.Time `json:"reactedAt"`
}

// ReplyRef is the populated reply target embedded in a broadcast message.
type ReplyRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Content  string    `json:"content"`
}

// Message is the populated form sent to clients: sender and reply target
// resolved, reactions carrying usernames. The flat persisted form lives in
// the repositories package.
type Message struct {
	ID                   uuid.UUID   `json:"id"`
	RoomID               string      `json:"roomId"`
	Sender               *UserRef    `json:"sender,omitempty"` // nil for system messages
	Content              string      `json:"content"`
	Kind                 MessageKind `json:"type"`
	CodeLanguage         string      `json:"codeLanguage,omitempty"`
	FileURL              string      `json:"fileUrl,omitempty"`
	FileName             string      `json:"fileName,omitempty"`
	FileSize             int64       `json:"fileSize,omitempty"`
	FileType             string      `json:"fileType,omitempty"`
	ReplyTo              *ReplyRef   `json:"replyTo,omitempty"`
	Reactions            []Reaction  `json:"reactions"`
	IsEdited             bool        `json:"isEdited"`
	EditedAt             *time.Time  `json:"editedAt,omitempty"`
	IsDeletedForEveryone bool        `json:"isDeletedForEveryone"`
	ReadBy               []string    `json:"readBy"`
	CreatedAt            time.Time   `json:"createdAt"`
}

func ValidMessageKind(k MessageKind) bool {
	switch k {
	case MessageText, MessageCode, MessageFile, MessageImage, MessageSystem:
		return true
	}
	return false
}

// SystemMessage builds a non-persisted system notice for a room, used for
// live join/leave announcements. It carries no sender.
func SystemMessage(roomID, content string) Message {
	return Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		Content:   content,
		Kind:      MessageSystem,
		Reactions: []Reaction{},
		ReadBy:    []string{},
		CreatedAt: time.Now().UTC(),
	}
}

// ToggleReaction applies the toggle rule to a reaction list: same emoji
// from the same user removes the reaction, a different emoji replaces it,
// no prior reaction adds one. The result holds at most one reaction per
// user. Returns the new list.
func ToggleReaction(reactions []Reaction, userID, username, emoji string, at time.Time) []Reaction {
	existing, found := lo.Find(reactions, func(r Reaction) bool { return r.UserID == userID })
	remaining := lo.Filter(reactions, func(r Reaction, _ int) bool { return r.UserID != userID })
	if found && existing.Emoji == emoji {
		return remaining
	}
	return append(remaining, Reaction{UserID: userID, Username: username, Emoji: emoji, ReactedAt: at})
}
