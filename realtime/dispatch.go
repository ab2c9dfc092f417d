package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/go-playground/validator/v10"

	errs "chat-hub/errors"
	"chat-hub/protocol"
)

// Dispatcher maps each inbound event name to exactly one handler. A
// handler failure never tears down the connection or the process: the
// error is sent back as a scoped error event to the originating
// connection only.
type Dispatcher struct {
	log      *slog.Logger
	hub      *Hub
	validate *validator.Validate
	handlers map[string]handlerFunc
}

type handlerFunc func(conn *Connection, data json.RawMessage) error

func NewDispatcher(log *slog.Logger, hub *Hub) *Dispatcher {
	d := &Dispatcher{
		log:      log,
		hub:      hub,
		validate: validator.New(),
	}
	d.handlers = map[string]handlerFunc{
		protocol.EventAuthenticate:  d.handleAuthenticate,
		protocol.EventJoinRoom:      d.handleJoinRoom,
		protocol.EventLeaveRoom:     d.handleLeaveRoom,
		protocol.EventSendMessage:   d.handleSendMessage,
		protocol.EventReactMessage:  d.handleReact,
		protocol.EventEditMessage:   d.handleEdit,
		protocol.EventDeleteMessage: d.handleDelete,
		protocol.EventTyping:        d.handleTyping,
	}
	return d
}

// Dispatch decodes one frame and routes it. All errors become a scoped
// error event on the originating connection.
func (d *Dispatcher) Dispatch(conn *Connection, raw []byte) {
	d.hub.stats.EventHandled()

	var frame protocol.Inbound
	if err := json.Unmarshal(raw, &frame); err != nil {
		d.fail(conn, errs.Scoped(errs.ErrValidation, "Invalid frame"))
		return
	}
	handler, ok := d.handlers[frame.Name]
	if !ok {
		d.fail(conn, errs.Scopedf(errs.ErrValidation, "Unknown event: %s", frame.Name))
		return
	}
	if err := handler(conn, frame.Data); err != nil {
		d.fail(conn, err)
	}
}

func (d *Dispatcher) fail(conn *Connection, err error) {
	d.log.Debug("Event rejected", "connection_id", conn.ID, "error", err)
	conn.Send(protocol.Event{
		Name: protocol.EventError,
		Data: protocol.ErrorPayload{Message: err.Error()},
	})
}

// handleAuthenticate accepts both wire shapes: a bare userId string and
// an object carrying a userId field.
func (d *Dispatcher) handleAuthenticate(conn *Connection, data json.RawMessage) error {
	var userID string
	if err := json.Unmarshal(data, &userID); err != nil {
		var obj struct {
			UserID string `json:"userId"`
		}
		if err := json.Unmarshal(data, &obj); err != nil || obj.UserID == "" {
			return errs.Scoped(errs.ErrValidation, "Invalid authenticate payload")
		}
		userID = obj.UserID
	}
	_, err := d.hub.Authenticate(conn, userID)
	return err
}

func (d *Dispatcher) handleJoinRoom(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.JoinRoomPayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.JoinRoom(conn, p.RoomID)
}

func (d *Dispatcher) handleLeaveRoom(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.LeaveRoomPayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.LeaveRoom(conn, p.RoomID)
}

func (d *Dispatcher) handleSendMessage(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.SendMessagePayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.SendMessage(conn, p)
}

func (d *Dispatcher) handleReact(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.ReactPayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.ReactToMessage(conn, p)
}

func (d *Dispatcher) handleEdit(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.EditPayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.EditMessage(conn, p)
}

func (d *Dispatcher) handleDelete(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.DeletePayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.DeleteMessage(conn, p)
}

func (d *Dispatcher) handleTyping(conn *Connection, data json.RawMessage) error {
	p, err := decode[protocol.TypingPayload](d, data)
	if err != nil {
		return err
	}
	return d.hub.SetTyping(conn, p)
}

func decode[T any](d *Dispatcher, data json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, errs.Scoped(errs.ErrValidation, "Invalid payload")
	}
	if err := d.validate.Struct(payload); err != nil {
		return payload, errs.Scopedf(errs.ErrValidation, "Invalid payload: %v", err)
	}
	return payload, nil
}
