// Package transport carries the socket protocol over websocket
// connections: one read loop per connection feeding the dispatcher, one
// buffered writer per connection draining broadcasts.
package transport

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"chat-hub/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades the HTTP request and runs the connection until the
// peer goes away. Disconnect cleanup is unconditional: presence removal,
// room-leave notice and the onlineUsers broadcast happen however the
// read loop ends.
func Handler(hub *realtime.Hub, dispatcher *realtime.Dispatcher, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("Websocket upgrade failed", "error", err)
			return
		}

		sink := newConnSink(ws, log)
		conn := hub.Attach(sink)
		defer func() {
			hub.Disconnect(conn)
			sink.Close()
		}()

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("Read error", "connection_id", conn.ID, "error", err)
				}
				return
			}
			dispatcher.Dispatch(conn, raw)
		}
	}
}
