package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"chat-hub/protocol"
)

// Socket is the thin event layer over one websocket connection: Emit
// sends named events, On registers a handler per server event, Listen
// pumps inbound frames to handlers until the connection drops.
type Socket struct {
	log *slog.Logger
	ws  *websocket.Conn

	writeMu   sync.Mutex
	handlerMu sync.RWMutex
	handlers  map[string]func(data json.RawMessage)
}

func Dial(url string, log *slog.Logger) (*Socket, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Socket{log: log, ws: ws, handlers: make(map[string]func(data json.RawMessage))}, nil
}

func (s *Socket) Emit(event string, data any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.ws.WriteJSON(protocol.Event{Name: event, Data: data})
}

// On registers the handler for one event name. Handlers run on the
// Listen goroutine; a handler must not block.
func (s *Socket) On(event string, handler func(data json.RawMessage)) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()
	s.handlers[event] = handler
}

// Listen reads frames until the connection closes and routes each one to
// its registered handler. Unhandled events are logged and skipped.
func (s *Socket) Listen() error {
	for {
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			return err
		}
		var frame protocol.Inbound
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.log.Warn("Malformed frame", "error", err)
			continue
		}
		s.handlerMu.RLock()
		handler, ok := s.handlers[frame.Name]
		s.handlerMu.RUnlock()
		if !ok {
			s.log.Debug("No handler for event", "event", frame.Name)
			continue
		}
		handler(frame.Data)
	}
}

func (s *Socket) Close() error {
	return s.ws.Close()
}
