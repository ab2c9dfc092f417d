package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"chat-hub/domain"
	errs "chat-hub/errors"
	"chat-hub/realtime"
	"chat-hub/repositories"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.ListRooms()
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, s.log, errs.Scoped(errs.ErrValidation, "Room name is required"))
		return
	}
	kind := domain.RoomKind(req.Kind)
	if req.Kind == "" {
		kind = domain.RoomPublic
	}
	if !domain.ValidRoomKind(kind) {
		writeError(w, s.log, errs.Scopedf(errs.ErrValidation, "Invalid room kind: %s", req.Kind))
		return
	}

	room, err := s.rooms.CreateRoom(req.Name, kind, requesterID(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// handleGetMessages serves one page of room history. Messages are stored
// and paged newest-first, then reversed so the response reads oldest to
// newest; messages the requester deleted for themselves are filtered out.
func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	if _, err := s.rooms.GetRoom(roomID); err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrNotFound, "Room not found"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	stored, err := s.messages.GetMessagesPage(roomID, page, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	requester := requesterID(r)
	visible := lo.Filter(stored, func(m repositories.StoredMessage, _ int) bool {
		return m.VisibleTo(requester)
	})

	messages := make([]domain.Message, 0, len(visible))
	// Reverse while populating: storage order is newest-first.
	for i := len(visible) - 1; i >= 0; i-- {
		message, err := realtime.PopulateMessage(s.users, s.messages, visible[i])
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		messages = append(messages, message)
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleSearchMessages(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	if _, err := s.rooms.GetRoom(roomID); err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrNotFound, "Room not found"))
		return
	}

	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	hits, total, err := s.search.SearchPaginated(r.Context(), query, roomID, page)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if hits == nil {
		hits = []repositories.SearchHit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "hits": hits})
}

// handleJoinRoom mutates persisted membership, unlike the socket
// joinRoom which only subscribes a connection to the live feed. Joining
// a room the user already belongs to is rejected.
func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrNotFound, "Room not found"))
		return
	}

	userID := requesterID(r)
	if room.IsMember(userID) {
		writeError(w, s.log, errs.ErrAlreadyMember)
		return
	}
	room.MemberIDs = append(room.MemberIDs, userID)
	if err := s.rooms.SaveRoom(room); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrNotFound, "Room not found"))
		return
	}

	userID := requesterID(r)
	room.MemberIDs = lo.Filter(room.MemberIDs, func(id string, _ int) bool { return id != userID })
	if err := s.rooms.SaveRoom(room); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// handleDeleteRoom removes the room and hard-deletes all of its messages,
// the one path where messages leave storage. Creator or admin only.
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrNotFound, "Room not found"))
		return
	}
	if !room.CanDelete(requesterID(r)) {
		writeError(w, s.log, errs.Scoped(errs.ErrForbidden, "Not authorized to delete this room"))
		return
	}

	removed, err := s.messages.DeleteMessagesByRoom(roomID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if s.search != nil {
		for _, id := range removed {
			if err := s.search.Remove(id); err != nil {
				s.log.Warn("Failed to drop message from search index", "message_id", id, "error", err)
			}
		}
	}
	if err := s.rooms.DeleteRoom(roomID); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
