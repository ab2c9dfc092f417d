// Package client holds the client-side pieces of the protocol: a socket
// service, a state store reconciling server broadcasts with local UI
// state, and a thin REST client for bootstrap calls.
package client

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-hub/domain"
)

// Store is a pure state-projection layer: reducers over server-confirmed
// events, no network, no retries. Transport failures are surfaced to the
// caller, never swallowed here.
type Store struct {
	mu          sync.Mutex
	rooms       []domain.Room
	currentRoom *domain.Room
	messages    []domain.Message
	onlineUsers []domain.PresenceEntry
	typingUsers map[string]struct{}
	replyingTo  *domain.Message
}

func NewStore() *Store {
	return &Store{typingUsers: make(map[string]struct{})}
}

func (s *Store) SetRooms(rooms []domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = rooms
}

func (s *Store) Rooms() []domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Room(nil), s.rooms...)
}

// SetCurrentRoom switches the active room and drops all room-scoped
// state: message list, typing set and reply target. The join/leave/fetch
// orchestration lives in Client, not here.
func (s *Store) SetCurrentRoom(room *domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentRoom = room
	s.messages = nil
	s.typingUsers = make(map[string]struct{})
	s.replyingTo = nil
}

func (s *Store) CurrentRoom() *domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRoom
}

// AddMessage appends a live broadcast. No de-duplication by id: the
// transport layer guarantees each broadcast is applied at most once.
// Messages for a room other than the current one are ignored.
func (s *Store) AddMessage(message domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentRoom == nil || message.RoomID != s.currentRoom.ID {
		return
	}
	s.messages = append(s.messages, message)
}

// MergeHistory folds a fetched history page under any live messages that
// arrived while the fetch was in flight, de-duplicating by message id.
// This closes the join-race window: the client subscribes first, fetches
// second, and a message broadcast in between appears exactly once.
func (s *Store) MergeHistory(history []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uuid.UUID]struct{}, len(history))
	for _, m := range history {
		seen[m.ID] = struct{}{}
	}
	live := lo.Filter(s.messages, func(m domain.Message, _ int) bool {
		_, dup := seen[m.ID]
		return !dup
	})
	s.messages = append(append([]domain.Message(nil), history...), live...)
}

func (s *Store) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

// ReplaceMessage swaps the stored copy of a message by id, used for
// edits and delete-for-everyone broadcasts. No-op if the message isn't
// in the current list.
func (s *Store) ReplaceMessage(message domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == message.ID {
			s.messages[i] = message
			return
		}
	}
}

// UpdateMessageReactions replaces the reactions array on the matching
// message. No-op when the message belongs to another room's list.
func (s *Store) UpdateMessageReactions(messageID uuid.UUID, reactions []domain.Reaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == messageID {
			s.messages[i].Reactions = reactions
			return
		}
	}
}

// RemoveMessage drops a message from the local list, used for the
// delete-for-me unicast.
func (s *Store) RemoveMessage(messageID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = lo.Filter(s.messages, func(m domain.Message, _ int) bool {
		return m.ID != messageID
	})
}

func (s *Store) SetOnlineUsers(users []domain.PresenceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onlineUsers = users
}

func (s *Store) OnlineUsers() []domain.PresenceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PresenceEntry(nil), s.onlineUsers...)
}

// SetTypingUser adds or removes a display name from the de-duplicated
// typing set.
func (s *Store) SetTypingUser(displayName string, isTyping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isTyping {
		s.typingUsers[displayName] = struct{}{}
		return
	}
	delete(s.typingUsers, displayName)
}

func (s *Store) TypingUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := lo.Keys(s.typingUsers)
	sort.Strings(names)
	return names
}

func (s *Store) SetReplyingTo(message *domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyingTo = message
}

func (s *Store) ReplyingTo() *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replyingTo
}
