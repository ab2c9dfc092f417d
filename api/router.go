package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"chat-hub/auth"
	"chat-hub/observability"
	"chat-hub/realtime"
	"chat-hub/repositories"
	"chat-hub/transport"
)

type Server struct {
	log      *slog.Logger
	users    repositories.IUserRepository
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	search   *repositories.SearchIndex
	stats    *observability.Stats
	tokens   auth.TokenService
}

func NewServer(
	log *slog.Logger,
	users repositories.IUserRepository,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	search *repositories.SearchIndex,
	stats *observability.Stats,
	tokens auth.TokenService,
) *Server {
	return &Server{
		log:      log,
		users:    users,
		rooms:    rooms,
		messages: messages,
		search:   search,
		stats:    stats,
		tokens:   tokens,
	}
}

// Router mounts the REST surface plus the websocket endpoint.
func (s *Server) Router(hub *realtime.Hub, dispatcher *realtime.Dispatcher) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/debug/stats", s.handleStats).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	r.HandleFunc("/rooms", s.requireAuth(s.handleListRooms)).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.requireAuth(s.handleCreateRoom)).Methods(http.MethodPost)
	r.HandleFunc("/rooms/{id}", s.requireAuth(s.handleDeleteRoom)).Methods(http.MethodDelete)
	r.HandleFunc("/rooms/{id}/messages", s.requireAuth(s.handleGetMessages)).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{id}/messages/search", s.requireAuth(s.handleSearchMessages)).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{id}/join", s.requireAuth(s.handleJoinRoom)).Methods(http.MethodPost)
	r.HandleFunc("/rooms/{id}/leave", s.requireAuth(s.handleLeaveRoom)).Methods(http.MethodPost)

	if hub != nil && dispatcher != nil {
		r.HandleFunc("/ws", transport.Handler(hub, dispatcher, s.log))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}
