// Package protocol defines the wire protocol shared by server and client:
// event names and the JSON payloads carried under each of them. Field
// names follow the protocol exactly and must not be renamed.
package protocol

import (
	"encoding/json"

	"chat-hub/domain"
)

// Client-to-server events.
const (
	EventAuthenticate  = "authenticate"
	EventJoinRoom      = "joinRoom"
	EventLeaveRoom     = "leaveRoom"
	EventSendMessage   = "sendMessage"
	EventReactMessage  = "reactToMessage"
	EventEditMessage   = "editMessage"
	EventDeleteMessage = "deleteMessage"
	EventTyping        = "typing"
)

// Server-to-client events.
const (
	EventMessage         = "message"
	EventMessageReaction = "messageReaction"
	EventMessageEdited   = "messageEdited"
	EventMessageDeleted  = "messageDeleted"
	EventOnlineUsers     = "onlineUsers"
	EventUserTyping      = "userTyping"
	EventError           = "error"
)

const (
	DeleteForEveryone = "forEveryone"
	DeleteForMe       = "forMe"
)

// Event is an outbound frame: name plus an already-typed payload.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Inbound is a frame as read off the socket; Data stays raw until the
// dispatcher knows which payload type to decode it into.
type Inbound struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId"`
}

type LeaveRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId"`
}

type SendMessagePayload struct {
	RoomID       string `json:"roomId" validate:"required"`
	UserID       string `json:"userId"`
	Content      string `json:"content" validate:"required"`
	Type         string `json:"type" validate:"required"`
	CodeLanguage string `json:"codeLanguage,omitempty"`
	FileURL      string `json:"fileUrl,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	FileSize     int64  `json:"fileSize,omitempty"`
	FileType     string `json:"fileType,omitempty"`
	ReplyTo      string `json:"replyTo,omitempty"`
}

type ReactPayload struct {
	MessageID string `json:"messageId" validate:"required"`
	UserID    string `json:"userId"`
	Emoji     string `json:"emoji" validate:"required"`
}

type EditPayload struct {
	MessageID  string `json:"messageId" validate:"required"`
	UserID     string `json:"userId"`
	NewContent string `json:"newContent" validate:"required"`
}

type DeletePayload struct {
	MessageID  string `json:"messageId" validate:"required"`
	UserID     string `json:"userId"`
	DeleteType string `json:"deleteType" validate:"required,oneof=forEveryone forMe"`
}

type TypingPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// MessageDeletedPayload has two shapes: a room broadcast carrying the
// placeholder message for forEveryone, or a unicast carrying only the id
// for forMe.
type MessageDeletedPayload struct {
	Message    *domain.Message `json:"message,omitempty"`
	MessageID  string          `json:"messageId,omitempty"`
	DeleteType string          `json:"deleteType"`
}

type UserTypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
