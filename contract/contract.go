//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-hub/protocol"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself; the supervisor recovers panics and
// restarts crashed workers.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker
// interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one delivery target for outbound events, normally backed
// by a websocket connection. Consume must not block the caller: a slow
// consumer drops frames instead of stalling a room broadcast.
type EventSink interface {
	Consume(e protocol.Event) error
}

// IRegistry tracks which connections receive which room's broadcasts.
type IRegistry interface {
	Register(connID string, sink EventSink)
	Deregister(connID string)
	Subscribe(connID, roomID string)
	Unsubscribe(connID, roomID string)
	Sink(connID string) (EventSink, bool)
	AllSinks() []EventSink
	SinksForRoom(roomID string) []EventSink
	SinksForRoomExcept(roomID, exceptConnID string) []EventSink
}
