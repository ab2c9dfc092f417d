package domain

import (
	"time"

	"github.com/samber/lo"
)

type RoomKind string

const (
	RoomPublic    RoomKind = "public"
	RoomPrivate   RoomKind = "private"
	RoomClassroom RoomKind = "classroom"
)

// Room is the persisted room record. MemberIDs is persisted membership,
// managed by the REST join/leave endpoints; it is unrelated to live
// broadcast subscriptions, which are transient and per-connection.
type Room struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Kind           RoomKind  `json:"kind"`
	MemberIDs      []string  `json:"memberIds"`
	AdminIDs       []string  `json:"adminIds"`
	CreatorID      string    `json:"creatorId"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (r Room) IsMember(userID string) bool {
	return lo.Contains(r.MemberIDs, userID)
}

// CanDelete reports whether userID may delete the room: its creator or
// one of its admins.
func (r Room) CanDelete(userID string) bool {
	return r.CreatorID == userID || lo.Contains(r.AdminIDs, userID)
}

func ValidRoomKind(k RoomKind) bool {
	switch k {
	case RoomPublic, RoomPrivate, RoomClassroom:
		return true
	}
	return false
}
