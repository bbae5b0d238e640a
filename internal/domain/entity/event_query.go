package entity

import "time"

// EventQuery describes one calendar listing. Every provider orders results by
// start time, expands recurring events into single instances and leaves out
// cancelled events.
type EventQuery struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int
}

// NewEventQuery builds the query for the lookahead window starting at now.
func NewEventQuery(calendarID string, now time.Time, lookahead time.Duration, maxResults int) EventQuery {
	now = now.UTC()
	return EventQuery{
		CalendarID: calendarID,
		TimeMin:    now,
		TimeMax:    now.Add(lookahead),
		MaxResults: maxResults,
	}
}
