package storage

import (
	"context"
	"sync"
	"time"

	"glimpse/internal/middleware"
	"glimpse/internal/models"
	"glimpse/internal/observability"
)

// deletedPostSource is the slice of the post repository the sweeper needs.
type deletedPostSource interface {
	ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*models.Post, error)
	Purge(ctx context.Context, id uint) error
}

// Sweeper reconciles blob storage with the post table. Post deletion releases
// the blob inline when it can; when that release fails the soft-deleted row
// stays behind as a marker, and the sweeper retries the release before
// purging the row. A blob is never left behind without a row pointing at it.
type Sweeper struct {
	repo     deletedPostSource
	blobs    BlobStore
	interval time.Duration
	grace    time.Duration
	once     sync.Once
}

func NewSweeper(repo deletedPostSource, blobs BlobStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		repo:     repo,
		blobs:    blobs,
		interval: interval,
		grace:    interval,
	}
}

// Start runs the sweep loop until the context is cancelled. Repeat calls are
// no-ops.
func (s *Sweeper) Start(ctx context.Context) {
	s.once.Do(func() {
		go s.loop(ctx)
	})
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce processes every soft-deleted post older than the grace window.
// Exported so tests and operators can drive a sweep directly.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.grace)
	posts, err := s.repo.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Blob sweep listing failed", "error", err)
		return
	}

	for _, post := range posts {
		if post.MediaPath != "" {
			if err := s.blobs.Delete(ctx, post.MediaPath); err != nil {
				// Keep the row; next sweep retries the release.
				middleware.Logger.WarnContext(ctx, "Blob release failed, will retry",
					"post_id", post.ID, "media_path", post.MediaPath, "error", err)
				continue
			}
		}
		if err := s.repo.Purge(ctx, post.ID); err != nil {
			middleware.Logger.WarnContext(ctx, "Purge of deleted post failed",
				"post_id", post.ID, "error", err)
			continue
		}
		observability.BlobSweepPurged.Inc()
	}
}
