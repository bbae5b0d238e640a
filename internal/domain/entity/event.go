package entity

import (
	"fmt"
	"strings"
	"time"
)

// ResponseStatus is the viewer's own RSVP state for an event.
type ResponseStatus string

const (
	// ResponseUnset means no attendee entry was flagged as the viewer.
	ResponseUnset       ResponseStatus = ""
	ResponseAccepted    ResponseStatus = "accepted"
	ResponseDeclined    ResponseStatus = "declined"
	ResponseTentative   ResponseStatus = "tentative"
	ResponseNeedsAction ResponseStatus = "needsAction"
)

// Marker substrings used to derive the event flags. Matching is case-sensitive.
const (
	OutOfOfficeMarker = "out-of-office"
	LunchMarker       = "Lunch"
	CoffeeMarker      = "Coffee"
)

// Event is a normalized calendar item. It is built once per calendar item and
// never mutated.
type Event struct {
	// Summary is the event title.
	Summary string

	// Description is optional free text; empty when the item has none.
	Description string

	// StartTimestamp and EndTimestamp are Unix seconds in UTC.
	StartTimestamp int64
	EndTimestamp   int64

	// Response is the viewer's own RSVP state.
	Response ResponseStatus

	// OutOfOffice is true when Description contains OutOfOfficeMarker.
	OutOfOffice bool

	// LunchOrSnack is true when Summary contains LunchMarker or CoffeeMarker.
	// Nothing consults it yet.
	LunchOrSnack bool
}

// NewEvent builds an Event from already-parsed fields and derives the marker
// flags. Start and end are converted to UTC and truncated to whole seconds.
func NewEvent(summary, description string, start, end time.Time, response ResponseStatus) (Event, error) {
	if summary == "" {
		return Event{}, ErrMissingSummary
	}
	if start.IsZero() {
		return Event{}, ErrMissingStart
	}
	if end.IsZero() {
		return Event{}, ErrMissingEnd
	}

	startTS := start.UTC().Unix()
	endTS := end.UTC().Unix()
	if endTS < startTS {
		return Event{}, fmt.Errorf("%w: start %d, end %d", ErrEndBeforeStart, startTS, endTS)
	}

	return Event{
		Summary:        summary,
		Description:    description,
		StartTimestamp: startTS,
		EndTimestamp:   endTS,
		Response:       response,
		OutOfOffice:    strings.Contains(description, OutOfOfficeMarker),
		LunchOrSnack:   strings.Contains(summary, LunchMarker) || strings.Contains(summary, CoffeeMarker),
	}, nil
}

// IsUnconfirmed reports whether the viewer declined, has not answered, or
// answered tentatively.
func (e Event) IsUnconfirmed() bool {
	switch e.Response {
	case ResponseDeclined, ResponseNeedsAction, ResponseTentative:
		return true
	default:
		return false
	}
}

// Start returns the start as a UTC time.
func (e Event) Start() time.Time {
	return time.Unix(e.StartTimestamp, 0).UTC()
}

// End returns the end as a UTC time.
func (e Event) End() time.Time {
	return time.Unix(e.EndTimestamp, 0).UTC()
}
