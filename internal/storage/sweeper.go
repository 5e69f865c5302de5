package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkrasnov/markethub/backend/internal/repositories"
)

// Sweeper periodically deletes uploaded objects that were never attached
// to an owning record. The object is deleted from storage first and the
// database row only afterwards, never the reverse, so a crash mid-sweep
// cannot leave a durable row pointing at nothing.
type Sweeper struct {
	uploads  repositories.UploadRepository
	storage  ObjectStorage
	interval time.Duration
	maxAge   time.Duration
}

// NewSweeper creates a Sweeper.
func NewSweeper(uploads repositories.UploadRepository, storage ObjectStorage, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{uploads: uploads, storage: storage, interval: interval, maxAge: maxAge}
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep removes all orphaned uploads older than the configured age:
// pending database rows with their objects, then stale temporary objects
// that were granted but never finalized and so have no row at all.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)

	orphans, err := s.uploads.ListOrphans(cutoff)
	if err != nil {
		slog.Error("list orphaned uploads", "error", err)
		return
	}

	removed := 0
	for _, orphan := range orphans {
		if err := s.storage.Remove(ctx, orphan.Key); err != nil {
			slog.Warn("remove orphaned object", "key", orphan.Key, "error", err)
			continue // keep the row so the next sweep retries
		}
		if err := s.uploads.DeleteUpload(orphan.ID); err != nil {
			slog.Warn("delete orphaned upload row", "upload_id", orphan.ID, "error", err)
			continue
		}
		removed++
	}

	staleKeys, err := s.storage.StaleTemporaryKeys(ctx, cutoff)
	if err != nil {
		slog.Error("list stale tmp objects", "error", err)
		staleKeys = nil
	}
	for _, key := range staleKeys {
		if err := s.storage.Remove(ctx, key); err != nil {
			slog.Warn("remove stale tmp object", "key", key, "error", err)
			continue
		}
		removed++
	}

	if len(orphans)+len(staleKeys) > 0 {
		slog.Info("upload sweep finished",
			"orphans", len(orphans),
			"stale_tmp", len(staleKeys),
			"removed", removed,
		)
	}
}
