package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Registry_Subscribe_And_Resolve(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	a, b, c := &recordSink{}, &recordSink{}, &recordSink{}

	registry.Register("conn-a", a)
	registry.Register("conn-b", b)
	registry.Register("conn-c", c)
	registry.Subscribe("conn-a", "room-1")
	registry.Subscribe("conn-b", "room-1")
	registry.Subscribe("conn-c", "room-2")

	req.Len(registry.SinksForRoom("room-1"), 2)
	req.Len(registry.SinksForRoom("room-2"), 1)
	req.Nil(registry.SinksForRoom("room-3"))
	req.Len(registry.AllSinks(), 3)

	sink, ok := registry.Sink("conn-a")
	req.True(ok)
	req.Same(a, sink)
}

func Test_Registry_Except_Excludes_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	a, b := &recordSink{}, &recordSink{}

	registry.Register("conn-a", a)
	registry.Register("conn-b", b)
	registry.Subscribe("conn-a", "room-1")
	registry.Subscribe("conn-b", "room-1")

	sinks := registry.SinksForRoomExcept("room-1", "conn-a")
	req.Len(sinks, 1)
	req.Same(b, sinks[0])
}

func Test_Registry_Unsubscribe_Drops_Empty_Groups(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("conn-a", &recordSink{})
	registry.Subscribe("conn-a", "room-1")

	registry.Unsubscribe("conn-a", "room-1")
	req.Nil(registry.SinksForRoom("room-1"))

	// Unsubscribing twice or from an unknown room is harmless
	registry.Unsubscribe("conn-a", "room-1")
	registry.Unsubscribe("conn-a", "room-9")
}

func Test_Registry_Deregister_Leaves_No_Trace(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	a, b := &recordSink{}, &recordSink{}
	registry.Register("conn-a", a)
	registry.Register("conn-b", b)
	registry.Subscribe("conn-a", "room-1")
	registry.Subscribe("conn-b", "room-1")

	registry.Deregister("conn-a")

	_, ok := registry.Sink("conn-a")
	req.False(ok)
	req.Len(registry.SinksForRoom("room-1"), 1)
	req.Len(registry.AllSinks(), 1)
}
