// Package worker holds long-running background loops started from main.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vetdesk/backoffice-api/internal/service/session"
)

// SessionCleanupWorker deletes expired session rows on an interval. Expired
// sessions are already rejected on read, so this only keeps the table small.
type SessionCleanupWorker struct {
	sessions *session.Service
	interval time.Duration
}

func NewSessionCleanupWorker(sessions *session.Service, interval time.Duration) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		sessions: sessions,
		interval: interval,
	}
}

func (w *SessionCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.sessions.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to purge expired sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("count", n).Msg("purged expired sessions")
			}
		}
	}
}
