package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("listing events: %w", NewCalendarError("events.list", cause, true))

	assert.ErrorIs(t, err, ErrCalendar)
	assert.NotErrorIs(t, err, ErrStatus)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindCalendar, KindOf(err))
	assert.True(t, IsTransient(err))
}

func TestError_Message(t *testing.T) {
	err := NewParseError("event abc: missing summary", nil)
	assert.Equal(t, "parse error: event abc: missing summary", err.Error())

	err = NewCredentialError("reading slack token", errors.New("no such file"))
	assert.Equal(t, "credential error: reading slack token: no such file", err.Error())
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(NewStatusError("users.profile.set", nil, false)))
}
