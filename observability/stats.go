// Package observability aggregates live counters and process metrics for
// the reporter worker and the /debug/stats endpoint.
package observability

import (
	"os"
	"runtime"
	"sync/atomic"

	"github.com/shirou/gopsutil/process"
)

type Stats struct {
	connections atomic.Int64
	online      atomic.Int64
	broadcasts  atomic.Uint64
	events      atomic.Uint64
}

// Snapshot is one point-in-time view of the server, JSON-ready.
type Snapshot struct {
	Connections    int64   `json:"connections"`
	OnlineUsers    int64   `json:"online_users"`
	Broadcasts     uint64  `json:"broadcasts"`
	EventsHandled  uint64  `json:"events_handled"`
	AllocMemMb     uint64  `json:"alloc_mem_mb"`
	NumGC          uint32  `json:"num_gc"`
	Goroutines     int     `json:"goroutines"`
	ProcessRssMb   uint64  `json:"process_rss_mb"`
	ProcessCPUPerc float64 `json:"process_cpu_percent"`
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) ConnOpened()       { s.connections.Add(1) }
func (s *Stats) ConnClosed()       { s.connections.Add(-1) }
func (s *Stats) SetOnline(n int64) { s.online.Store(n) }
func (s *Stats) Broadcasted()      { s.broadcasts.Add(1) }
func (s *Stats) EventHandled()     { s.events.Add(1) }

// Snapshot collects counters plus Go runtime and OS process metrics.
// Process metrics are best-effort; a gopsutil failure yields zeroes.
func (s *Stats) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snapshot := Snapshot{
		Connections:   s.connections.Load(),
		OnlineUsers:   s.online.Load(),
		Broadcasts:    s.broadcasts.Load(),
		EventsHandled: s.events.Load(),
		AllocMemMb:    mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
		Goroutines:    runtime.NumGoroutine(),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return snapshot
	}
	if memInfo, err := p.MemoryInfo(); err == nil && memInfo != nil {
		snapshot.ProcessRssMb = memInfo.RSS / 1024 / 1024
	}
	if cpu, err := p.CPUPercent(); err == nil {
		snapshot.ProcessCPUPerc = cpu
	}
	return snapshot
}
