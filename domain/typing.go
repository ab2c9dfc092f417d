package domain

import "time"

// TypingState is ephemeral and never persisted. Only the most recent value
// for a (room, user) pair is meaningful; ExpiresAt bounds how long a state
// survives a client that stops emitting without clearing it.
type TypingState struct {
	RoomID    string
	UserID    string
	Username  string
	ExpiresAt time.Time
}
