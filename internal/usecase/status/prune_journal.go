package status

import (
	"context"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
)

// PruneJournalUseCase drops journal records older than the retention window.
type PruneJournalUseCase struct {
	journal   repository.StatusChangeRepository
	retention time.Duration
	logger    Logger
	now       func() time.Time
}

// NewPruneJournalUseCase creates a new PruneJournalUseCase.
// A retention of zero keeps every record.
func NewPruneJournalUseCase(journal repository.StatusChangeRepository, retention time.Duration, logger Logger) *PruneJournalUseCase {
	return &PruneJournalUseCase{
		journal:   journal,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *PruneJournalUseCase) WithClock(now func() time.Time) *PruneJournalUseCase {
	uc.now = now
	return uc
}

// Execute deletes expired records and returns how many were removed.
func (uc *PruneJournalUseCase) Execute(ctx context.Context) (int, error) {
	if uc.journal == nil || uc.retention <= 0 {
		return 0, nil
	}

	cutoff := uc.now().Add(-uc.retention)
	deleted, err := uc.journal.DeleteOlderThan(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning status journal: %w", err)
	}

	if deleted > 0 {
		uc.logger.Debug("pruned status journal",
			"deleted", deleted,
			"cutoff", cutoff.UTC().Format(time.RFC3339),
		)
	}
	return deleted, nil
}
