package realtime

import (
	"sync"

	"chat-hub/contract"
)

type Set map[string]struct{}

// Registry tracks every registered connection sink and which connections
// are subscribed to which room's broadcast group. Subscriptions are
// per-connection and transient; they say nothing about persisted room
// membership.
type Registry struct {
	mu       sync.RWMutex
	sinks    map[string]contract.EventSink // connection id -> sink
	roomSubs map[string]Set                // room id -> subscribed connection ids
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:    make(map[string]contract.EventSink),
		roomSubs: make(map[string]Set),
	}
}

// Register records a connection's sink in the global directory. Done once
// at transport accept, before any room subscription.
func (r *Registry) Register(connID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[connID] = sink
}

// Deregister removes the connection from the directory and from every
// room group it still belongs to, ensuring no empty sets are left behind.
func (r *Registry) Deregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, connID)
	for roomID, members := range r.roomSubs {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.roomSubs, roomID)
		}
	}
}

// Subscribe assigns a connection to a room's broadcast group. If the room
// has no group yet, it is initialized on the fly.
func (r *Registry) Subscribe(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roomSubs[roomID]; !ok {
		r.roomSubs[roomID] = make(Set)
	}
	r.roomSubs[roomID][connID] = struct{}{}
}

// Unsubscribe removes a connection from a room group, dropping the group
// entirely once empty to prevent the map growing without bound.
func (r *Registry) Unsubscribe(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if members, ok := r.roomSubs[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.roomSubs, roomID)
		}
	}
}

func (r *Registry) Sink(connID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[connID]
	return sink, ok
}

// AllSinks returns every registered connection's sink, used for global
// broadcasts such as the online-user list.
func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]contract.EventSink, 0, len(r.sinks))
	for _, sink := range r.sinks {
		sinks = append(sinks, sink)
	}
	return sinks
}

// SinksForRoom resolves a room's subscribed connections into their active
// sinks. Returns nil if the room has no subscribers.
func (r *Registry) SinksForRoom(roomID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.roomSubs[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if sink, exists := r.sinks[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// SinksForRoomExcept is SinksForRoom minus one connection, used for
// typing broadcasts where the sender is excluded.
func (r *Registry) SinksForRoomExcept(roomID, exceptConnID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.roomSubs[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if connID == exceptConnID {
			continue
		}
		if sink, exists := r.sinks[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}
