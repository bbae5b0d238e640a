package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
)

func setupStatusChangeRepo(t *testing.T) *StatusChangeRepository {
	t.Helper()

	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewMigrator(db.Conn()).Up(ctx))

	_, err := db.Conn().ExecContext(ctx, "DELETE FROM status_changes")
	require.NoError(t, err)

	return NewStatusChangeRepository(db.Conn())
}

func TestStatusChangeRepository_Lifecycle(t *testing.T) {
	repo := setupStatusChangeRepo(t)
	ctx := context.Background()
	t0 := time.Date(2023, 11, 14, 22, 0, 0, 0, time.UTC)

	write := entity.NewStatusChange(entity.ActionSet, "in_meeting", t0).
		WithStatus(entity.InMeetingStatus(1700001800)).
		WithCounts(2, 1).
		FromSource("google")
	keep := entity.NewStatusChange(entity.ActionNone, "manual_status", t0.Add(time.Minute)).FromSource("google")
	old := entity.NewStatusChange(entity.ActionSet, "no_meeting", t0.Add(-72*time.Hour)).FromSource("google")

	for _, c := range []*entity.StatusChange{write, keep, old} {
		require.NoError(t, repo.Save(ctx, c))
	}
	assert.ErrorIs(t, repo.Save(ctx, write), repository.ErrAlreadyExists)

	got, err := repo.FindByID(ctx, write.ID)
	require.NoError(t, err)
	assert.Equal(t, write, got)

	missing, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	recent, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, keep.ID, recent[0].ID)
	assert.Equal(t, write.ID, recent[1].ID)

	last, err := repo.FindLastWrite(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, write.ID, last.ID)

	deleted, err := repo.DeleteOlderThan(ctx, t0.Add(-24*time.Hour).Unix())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
