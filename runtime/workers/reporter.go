package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-hub/observability"
)

// ReporterWorker logs a stats snapshot at a fixed interval so operators
// can follow connection counts, broadcast volume and process footprint
// without scraping the debug endpoint.
type ReporterWorker struct {
	log      *slog.Logger
	stats    *observability.Stats
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, stats *observability.Stats, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, stats: stats, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *ReporterWorker) report() {
	snapshot := w.stats.Snapshot()
	w.log.Info("server stats",
		"connections", snapshot.Connections,
		"online_users", snapshot.OnlineUsers,
		"broadcasts", snapshot.Broadcasts,
		"events_handled", snapshot.EventsHandled,
		"alloc_mem_mb", snapshot.AllocMemMb,
		"rss_mb", snapshot.ProcessRssMb,
		"cpu_percent", snapshot.ProcessCPUPerc,
		"goroutines", snapshot.Goroutines,
	)
}
