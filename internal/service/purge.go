package service

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/domain"
)

// PurgeService permanently removes posts that were soft-deleted longer ago
// than the retention window. It runs from a cron schedule but can also be
// invoked directly.
type PurgeService struct {
	posts     domain.PostRepository
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewPurgeService(posts domain.PostRepository, retention time.Duration, logger *slog.Logger) *PurgeService {
	return &PurgeService{
		posts:     posts,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// RunOnce deletes everything past retention and returns the number of rows
// removed.
func (s *PurgeService) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention).Unix()
	purged, err := s.posts.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("purged soft-deleted posts", "count", purged, "retention", s.retention.String())
	}
	return purged, nil
}

// RunScheduled is the cron entrypoint. Errors are logged, not propagated,
// so one failed run never stops the schedule.
func (s *PurgeService) RunScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled purge failed", "error", err)
	}
}
