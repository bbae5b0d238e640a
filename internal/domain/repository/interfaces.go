package repository

import (
	"context"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
)

// StatusChangeRepository stores the journal of status decisions.
type StatusChangeRepository interface {
	// Save persists a new journal record.
	// Returns ErrAlreadyExists if a record with the same ID exists.
	Save(ctx context.Context, change *entity.StatusChange) error

	// FindByID retrieves a record by its ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id string) (*entity.StatusChange, error)

	// FindRecent returns up to limit records, newest first.
	// Returns empty slice if none found.
	FindRecent(ctx context.Context, limit int) ([]*entity.StatusChange, error)

	// FindLastWrite returns the most recent record whose action is "set".
	// Returns nil, nil if none found.
	FindLastWrite(ctx context.Context) (*entity.StatusChange, error)

	// DeleteOlderThan removes records that ran before the cutoff.
	// Returns the number of deleted records.
	DeleteOlderThan(ctx context.Context, cutoffUnix int64) (int, error)
}
