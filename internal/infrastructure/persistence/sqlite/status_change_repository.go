package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
)

const statusChangeColumns = `id, ran_at, action, reason, status_text, status_emoji,
	status_expiration, event_summary, events_seen, events_kept, source`

// StatusChangeRepository provides SQLite implementation of repository.StatusChangeRepository.
type StatusChangeRepository struct {
	db *sql.DB
}

// NewStatusChangeRepository creates a new SQLite-backed status change repository.
func NewStatusChangeRepository(db *sql.DB) *StatusChangeRepository {
	return &StatusChangeRepository{db: db}
}

// Save persists a new journal record.
// Run times are stored as Unix seconds.
func (r *StatusChangeRepository) Save(ctx context.Context, change *entity.StatusChange) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO status_changes (`+statusChangeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		change.ID, change.RanAt.Unix(), string(change.Action), change.Reason,
		optional(change.Status.Text), optional(change.Status.Emoji), change.Status.Expiration,
		optional(change.EventSummary), change.EventsSeen, change.EventsKept, change.Source,
	)

	if err != nil {
		if isDuplicateID(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("insert status change: %w", err)
	}

	return nil
}

// FindByID retrieves a record by its ID.
// Returns nil, nil if not found.
func (r *StatusChangeRepository) FindByID(ctx context.Context, id string) (*entity.StatusChange, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+statusChangeColumns+`
		FROM status_changes WHERE id = ?
	`, id)

	return scanStatusChange(row)
}

// FindRecent returns up to limit records, newest first.
// A limit of zero or less returns every record.
func (r *StatusChangeRepository) FindRecent(ctx context.Context, limit int) ([]*entity.StatusChange, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+statusChangeColumns+`
		FROM status_changes
		ORDER BY ran_at DESC, seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent status changes: %w", err)
	}
	defer rows.Close()

	return scanStatusChanges(rows)
}

// FindLastWrite returns the most recent record whose action is "set".
// Returns nil, nil if none found.
func (r *StatusChangeRepository) FindLastWrite(ctx context.Context) (*entity.StatusChange, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+statusChangeColumns+`
		FROM status_changes
		WHERE action = ?
		ORDER BY ran_at DESC, seq DESC
		LIMIT 1
	`, string(entity.ActionSet))

	return scanStatusChange(row)
}

// DeleteOlderThan removes records that ran before the cutoff.
func (r *StatusChangeRepository) DeleteOlderThan(ctx context.Context, cutoffUnix int64) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM status_changes WHERE ran_at < ?`, cutoffUnix)
	if err != nil {
		return 0, fmt.Errorf("delete old status changes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return int(affected), nil
}

// optional stores an unset status field or a run without an event as NULL.
func optional(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isDuplicateID reports whether err is a violation of the unique id column.
func isDuplicateID(err error) bool {
	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInto(s rowScanner) (*entity.StatusChange, error) {
	var (
		change       entity.StatusChange
		ranAt        int64
		action       string
		statusText   sql.NullString
		statusEmoji  sql.NullString
		eventSummary sql.NullString
	)

	err := s.Scan(
		&change.ID, &ranAt, &action, &change.Reason,
		&statusText, &statusEmoji, &change.Status.Expiration,
		&eventSummary, &change.EventsSeen, &change.EventsKept, &change.Source,
	)
	if err != nil {
		return nil, err
	}

	change.RanAt = time.Unix(ranAt, 0).UTC()
	change.Action = entity.ChangeAction(action)
	change.Status.Text = statusText.String
	change.Status.Emoji = statusEmoji.String
	change.EventSummary = eventSummary.String

	return &change, nil
}

// scanStatusChange scans a single row into a StatusChange entity.
func scanStatusChange(row *sql.Row) (*entity.StatusChange, error) {
	change, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan status change: %w", err)
	}
	return change, nil
}

// scanStatusChanges scans multiple rows into StatusChange entities.
func scanStatusChanges(rows *sql.Rows) ([]*entity.StatusChange, error) {
	changes := []*entity.StatusChange{}

	for rows.Next() {
		change, err := scanInto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan status change row: %w", err)
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return changes, nil
}
