package domain

import "time"

// PresenceEntry binds a user to their live connection. Keyed by UserID:
// a user opening a second connection overwrites the first entry, so the
// table always reflects the last-connected session.
type PresenceEntry struct {
	UserID       string    `json:"userId"`
	ConnectionID string    `json:"-"`
	Username     string    `json:"username"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         Role      `json:"role"`
	ConnectedAt  time.Time `json:"connectedAt"`
}
