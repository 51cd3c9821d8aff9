package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/iamasit07/connect4-engine/internal/service/game"
)

type Worker struct {
	SessionManager *game.SessionManager
	IdleTimeout    time.Duration
	Interval       time.Duration
}

func NewWorker(sm *game.SessionManager, idleTimeout, interval time.Duration) *Worker {
	return &Worker{SessionManager: sm, IdleTimeout: idleTimeout, Interval: interval}
}

// Start runs a cleanup immediately and then on every tick until ctx is done.
func (w *Worker) Start(ctx context.Context) error {
	log.Printf("[CLEANUP] Background worker started (interval: %v, idle timeout: %v)", w.Interval, w.IdleTimeout)
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return nil
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() int {
	removed := w.SessionManager.CleanupIdleSessions(w.IdleTimeout)
	if removed > 0 {
		log.Printf("[CLEANUP] Removed %d idle sessions, %d still active", removed, w.SessionManager.Count())
	}
	return removed
}
