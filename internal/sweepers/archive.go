// Package sweepers runs periodic maintenance in the background
package sweepers

import (
	"context"
	"fmt"
	"time"

	"github.com/presupuestos/budget-service/internal/archive"
	"github.com/rs/zerolog"
)

// importsPrefix is the archive prefix holding raw import files
const importsPrefix = "imports/"

// ArchiveSweeper periodically deletes raw import files older than the retention period
type ArchiveSweeper struct {
	archive   archive.Archive
	logger    *zerolog.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopChan  chan struct{}
}

// NewArchiveSweeper creates a new sweeper for import archive retention
func NewArchiveSweeper(a archive.Archive, logger *zerolog.Logger, interval, retention time.Duration) *ArchiveSweeper {
	return &ArchiveSweeper{
		archive:   a,
		logger:    logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (s *ArchiveSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("retention", s.retention).
		Msg("Starting archive sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Archive sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Archive sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep import archive")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *ArchiveSweeper) Stop() {
	close(s.stopChan)
}

// Sweep deletes expired import files and returns how many were removed.
// A file's age is taken from its archive metadata, falling back to the file modification time.
func (s *ArchiveSweeper) Sweep(ctx context.Context) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	s.logger.Debug().Msg("Running archive retention sweep")

	keys, err := s.archive.List(ctx, importsPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list archived imports: %w", err)
	}

	cutoff := s.now().Add(-s.retention)
	deleted := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		info, err := s.archive.GetInfo(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to read archived import")
			continue
		}

		archivedAt := info.ModifiedAt
		if info.Metadata != nil && !info.Metadata.ArchivedAt.IsZero() {
			archivedAt = info.Metadata.ArchivedAt
		}
		if !archivedAt.Before(cutoff) {
			continue
		}

		if err := s.archive.Delete(ctx, key); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete archived import")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info().
			Int("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Deleted expired import archives")
	}

	return deleted, nil
}
