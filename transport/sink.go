package transport

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat-hub/protocol"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// connSink adapts one websocket connection into an EventSink. Events are
// queued on a buffered channel drained by a single writer goroutine;
// Consume never blocks a broadcaster: when the buffer is full the frame
// is dropped and counted against the slow consumer, not the room.
type connSink struct {
	ws   *websocket.Conn
	log  *slog.Logger
	out  chan protocol.Event
	once sync.Once
	done chan struct{}
}

func newConnSink(ws *websocket.Conn, log *slog.Logger) *connSink {
	s := &connSink{
		ws:   ws,
		log:  log,
		out:  make(chan protocol.Event, sendBufferSize),
		done: make(chan struct{}),
	}
	go s.writePump()
	return s
}

func (s *connSink) Consume(e protocol.Event) error {
	select {
	case s.out <- e:
		return nil
	case <-s.done:
		return nil
	default:
		s.log.Warn("Dropping frame for slow consumer", "event", e.Name)
		return nil
	}
}

func (s *connSink) writePump() {
	for {
		select {
		case e := <-s.out:
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteJSON(e); err != nil {
				s.log.Debug("Write failed, closing sink", "error", err)
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *connSink) Close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.ws.Close()
	})
}
