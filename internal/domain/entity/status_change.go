package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChangeAction records what a run did with the status.
type ChangeAction string

const (
	// ActionSet means the status was written.
	ActionSet ChangeAction = "set"
	// ActionNone means the current status was left as it is.
	ActionNone ChangeAction = "none"
	// ActionDryRun means a write was decided but skipped.
	ActionDryRun ChangeAction = "dry_run"
)

// StatusChange is a journal record of one run.
type StatusChange struct {
	// ID is the unique identifier for this run.
	ID string

	// RanAt is when the run made its decision.
	RanAt time.Time

	// Action is what the run did.
	Action ChangeAction

	// Reason is a short machine-friendly explanation, e.g. "in_meeting".
	Reason string

	// Status is the status written (or that would have been written).
	// Zero for ActionNone.
	Status Status

	// EventSummary is the summary of the event the status was derived from.
	EventSummary string

	// EventsSeen and EventsKept count events before and after filtering.
	EventsSeen int
	EventsKept int

	// Source names the calendar provider, e.g. "google".
	Source string
}

// NewStatusChange creates a journal record stamped with a fresh ID.
func NewStatusChange(action ChangeAction, reason string, ranAt time.Time) *StatusChange {
	return &StatusChange{
		ID:     uuid.New().String(),
		RanAt:  ranAt.UTC(),
		Action: action,
		Reason: reason,
	}
}

// WithStatus sets the status the run wrote.
func (c *StatusChange) WithStatus(status Status) *StatusChange {
	c.Status = status
	return c
}

// ForEvent records the event the status was derived from.
func (c *StatusChange) ForEvent(event *Event) *StatusChange {
	if event != nil {
		c.EventSummary = event.Summary
	}
	return c
}

// WithCounts records how many events were seen and kept.
func (c *StatusChange) WithCounts(seen, kept int) *StatusChange {
	c.EventsSeen = seen
	c.EventsKept = kept
	return c
}

// FromSource records the calendar provider name.
func (c *StatusChange) FromSource(source string) *StatusChange {
	c.Source = source
	return c
}

// Wrote reports whether the run actually changed the status.
func (c *StatusChange) Wrote() bool {
	return c.Action == ActionSet
}
