package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
)

const selectStatusChange = `
	SELECT id, ran_at, action, reason, status_text, status_emoji,
		status_expiration, event_summary, events_seen, events_kept, source
	FROM status_changes`

// StatusChangeRepository provides MySQL implementation of repository.StatusChangeRepository.
type StatusChangeRepository struct {
	db *sql.DB
}

// NewStatusChangeRepository creates a new MySQL-backed status change repository.
func NewStatusChangeRepository(db *sql.DB) *StatusChangeRepository {
	return &StatusChangeRepository{db: db}
}

// Save persists a new journal record.
func (r *StatusChangeRepository) Save(ctx context.Context, change *entity.StatusChange) error {
	query := `
		INSERT INTO status_changes (
			id, ran_at, action, reason, status_text, status_emoji,
			status_expiration, event_summary, events_seen, events_kept, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		change.ID, change.RanAt.Unix(), string(change.Action), change.Reason,
		optional(change.Status.Text), optional(change.Status.Emoji), change.Status.Expiration,
		optional(change.EventSummary), change.EventsSeen, change.EventsKept, change.Source,
	)
	if err != nil {
		if isDuplicateID(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("inserting status change: %w", err)
	}

	return nil
}

// FindByID retrieves a record by its ID.
// Returns nil, nil if not found.
func (r *StatusChangeRepository) FindByID(ctx context.Context, id string) (*entity.StatusChange, error) {
	row := r.db.QueryRowContext(ctx, selectStatusChange+` WHERE id = ?`, id)

	change, err := scanStatusChange(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding status change by ID: %w", err)
	}
	return change, nil
}

// FindRecent returns up to limit records, newest first.
// A limit of zero or less returns every record.
func (r *StatusChangeRepository) FindRecent(ctx context.Context, limit int) ([]*entity.StatusChange, error) {
	query := selectStatusChange + ` ORDER BY ran_at DESC, seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent status changes: %w", err)
	}
	defer rows.Close()

	changes := []*entity.StatusChange{}
	for rows.Next() {
		change, err := scanStatusChange(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning status change: %w", err)
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status changes: %w", err)
	}

	return changes, nil
}

// FindLastWrite returns the most recent record whose action is "set".
// Returns nil, nil if none found.
func (r *StatusChangeRepository) FindLastWrite(ctx context.Context) (*entity.StatusChange, error) {
	row := r.db.QueryRowContext(ctx,
		selectStatusChange+` WHERE action = ? ORDER BY ran_at DESC, seq DESC LIMIT 1`,
		string(entity.ActionSet),
	)

	change, err := scanStatusChange(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding last status write: %w", err)
	}
	return change, nil
}

// DeleteOlderThan removes records that ran before the cutoff.
func (r *StatusChangeRepository) DeleteOlderThan(ctx context.Context, cutoffUnix int64) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM status_changes WHERE ran_at < ?`, cutoffUnix)
	if err != nil {
		return 0, fmt.Errorf("deleting old status changes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return int(affected), nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStatusChange(s scanner) (*entity.StatusChange, error) {
	var (
		change       entity.StatusChange
		ranAt        int64
		action       string
		statusText   sql.NullString
		statusEmoji  sql.NullString
		eventSummary sql.NullString
	)

	if err := s.Scan(
		&change.ID, &ranAt, &action, &change.Reason,
		&statusText, &statusEmoji, &change.Status.Expiration,
		&eventSummary, &change.EventsSeen, &change.EventsKept, &change.Source,
	); err != nil {
		return nil, err
	}

	change.RanAt = time.Unix(ranAt, 0).UTC()
	change.Action = entity.ChangeAction(action)
	change.Status.Text = statusText.String
	change.Status.Emoji = statusEmoji.String
	change.EventSummary = eventSummary.String

	return &change, nil
}
