package realtime

import (
	"sync"
	"time"

	"chat-hub/domain"
)

// TypingTable holds ephemeral typing states, last write wins per
// (room, user). Entries carry a deadline so a connection that vanishes
// without clearing its state does not leave a stuck indicator; the reaper
// worker collects lapsed entries and broadcasts the clear.
type TypingTable struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]domain.TypingState // roomID|userID -> state
}

func NewTypingTable(ttl time.Duration) *TypingTable {
	return &TypingTable{ttl: ttl, entries: make(map[string]domain.TypingState)}
}

func typingKey(roomID, userID string) string {
	return roomID + "|" + userID
}

// Set records a typing state. isTyping=true upserts with a fresh
// deadline; isTyping=false clears the entry.
func (t *TypingTable) Set(roomID, userID, username string, isTyping bool, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := typingKey(roomID, userID)
	if !isTyping {
		delete(t.entries, key)
		return
	}
	t.entries[key] = domain.TypingState{
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		ExpiresAt: now.Add(t.ttl),
	}
}

// Clear removes the user's entry for a room, returning the state that was
// cleared. Used on leave and disconnect.
func (t *TypingTable) Clear(roomID, userID string) (domain.TypingState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := typingKey(roomID, userID)
	state, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	return state, ok
}

// Expired removes and returns every entry whose deadline has lapsed.
func (t *TypingTable) Expired(now time.Time) []domain.TypingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	var lapsed []domain.TypingState
	for key, state := range t.entries {
		if now.After(state.ExpiresAt) {
			lapsed = append(lapsed, state)
			delete(t.entries, key)
		}
	}
	return lapsed
}

func (t *TypingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
