package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneJournalUseCase_Execute(t *testing.T) {
	journal := &fakeJournal{deleted: 4}
	uc := NewPruneJournalUseCase(journal, 30*24*time.Hour, nopLogger{}).
		WithClock(func() time.Time { return fixedNow })

	deleted, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)
	assert.Equal(t, fixedNow.Add(-30*24*time.Hour).Unix(), journal.cutoff)
}

func TestPruneJournalUseCase_Disabled(t *testing.T) {
	journal := &fakeJournal{deleted: 4}

	deleted, err := NewPruneJournalUseCase(journal, 0, nopLogger{}).Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Zero(t, journal.cutoff)

	deleted, err = NewPruneJournalUseCase(nil, time.Hour, nopLogger{}).Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestPruneJournalUseCase_Error(t *testing.T) {
	journal := &fakeJournal{deleteErr: errors.New("disk full")}

	_, err := NewPruneJournalUseCase(journal, time.Hour, nopLogger{}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pruning status journal")
}
