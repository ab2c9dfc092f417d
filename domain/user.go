// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	AvatarURL    string
	Role         Role
	IsOnline     bool
	CreatedAt    time.Time
}

// UserRef is the public projection of a user embedded in broadcast
// payloads (message sender, online list). It never carries credentials.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Role     Role   `json:"role"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Avatar: u.AvatarURL, Role: u.Role}
}
