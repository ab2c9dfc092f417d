package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-hub/realtime"
)

// TypingReaperWorker periodically clears typing states whose deadline
// lapsed without the client emitting isTyping=false, broadcasting the
// clear so subscribers drop the stale indicator.
type TypingReaperWorker struct {
	log      *slog.Logger
	hub      *realtime.Hub
	interval time.Duration
}

func NewTypingReaperWorker(log *slog.Logger, hub *realtime.Hub, interval time.Duration) *TypingReaperWorker {
	return &TypingReaperWorker{log: log, hub: hub, interval: interval}
}

func (w *TypingReaperWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping typing reaper")
			return nil
		case <-ticker.C:
			w.hub.ExpireTyping()
		}
	}
}
