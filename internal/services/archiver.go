package services

import (
	"context"
	"log/slog"
	"time"

	"ensembleplanner/internal/domain"
)

// ArchiveGrace is how long past its date an event stays un-archived.
const ArchiveGrace = 30 * time.Minute

// Archiver runs the time-driven archival sweep. A single conditional UPDATE
// flips every overdue non-archived event, so running it zero or many times,
// or concurrently, converges on the same state.
type Archiver struct {
	eventRepo domain.EventRepository
	logger    *slog.Logger
	interval  time.Duration
}

func NewArchiver(eventRepo domain.EventRepository, logger *slog.Logger, interval time.Duration) *Archiver {
	return &Archiver{
		eventRepo: eventRepo,
		logger:    logger,
		interval:  interval,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (a *Archiver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.RunOnce(ctx); err != nil {
				a.logger.Warn("archival sweep failed", "err", err)
			}
		}
	}
}

// RunOnce performs a single sweep and returns the number of events archived.
func (a *Archiver) RunOnce(ctx context.Context) (int64, error) {
	archived, err := a.eventRepo.ArchivePast(ctx, time.Now().Add(-ArchiveGrace))
	if err != nil {
		return 0, err
	}
	if archived > 0 {
		a.logger.Info("archival sweep", "archived", archived)
	}
	return archived, nil
}

// freshenEvent is the cheap on-demand archival check run before single-event
// reads and writes. Best effort: a failure is logged and the caller proceeds
// with possibly stale archival state.
func freshenEvent(ctx context.Context, repo domain.EventRepository, logger *slog.Logger, eventID string) {
	if _, err := repo.ArchiveIfPast(ctx, eventID, time.Now().Add(-ArchiveGrace)); err != nil {
		logger.Warn("on-demand archival check failed", "event_id", eventID, "err", err)
	}
}

// freshenAll runs a full sweep before listing operations, same best-effort
// policy as freshenEvent.
func freshenAll(ctx context.Context, repo domain.EventRepository, logger *slog.Logger) {
	if _, err := repo.ArchivePast(ctx, time.Now().Add(-ArchiveGrace)); err != nil {
		logger.Warn("archival sweep failed", "err", err)
	}
}
