package realtime

import (
	"sort"
	"sync"

	"chat-hub/domain"
)

// PresenceTable maps user identity to live connection metadata. It is
// rebuilt from nothing at process start and written only by the session
// manager; everything else reads snapshots. An entry exists iff its user
// has a live authenticated connection.
type PresenceTable struct {
	mu      sync.RWMutex
	entries map[string]domain.PresenceEntry // user id -> entry
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{entries: make(map[string]domain.PresenceEntry)}
}

// Set inserts or replaces the entry for a user. A user authenticating on
// a second connection overwrites the first: last-connected wins.
func (p *PresenceTable) Set(entry domain.PresenceEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[entry.UserID] = entry
}

// Remove drops the user's entry only if it still belongs to connID.
// A disconnect of a superseded connection must not erase the presence of
// the connection that replaced it.
func (p *PresenceTable) Remove(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[userID]
	if !ok || entry.ConnectionID != connID {
		return false
	}
	delete(p.entries, userID)
	return true
}

func (p *PresenceTable) Get(userID string) (domain.PresenceEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[userID]
	return entry, ok
}

func (p *PresenceTable) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Snapshot returns all entries sorted by username, giving broadcasts a
// stable order.
func (p *PresenceTable) Snapshot() []domain.PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snapshot := make([]domain.PresenceEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		snapshot = append(snapshot, entry)
	}
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Username < snapshot[j].Username
	})
	return snapshot
}
