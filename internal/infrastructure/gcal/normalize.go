package gcal

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // event time zones are IANA names

	"google.golang.org/api/calendar/v3"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

const (
	dateLayout          = "2006-01-02"
	localDateTimeLayout = "2006-01-02T15:04:05"
)

var errMissingTime = errors.New("neither dateTime nor date is set")

// NormalizeEvent converts an API event into an entity.Event. Missing
// summary, start or end are parse errors.
func NormalizeEvent(item *calendar.Event) (entity.Event, error) {
	if item == nil {
		return entity.Event{}, domainerrors.NewParseError("nil calendar event", nil)
	}

	start, err := parseEventTime(item.Start)
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError(fmt.Sprintf("event %s: start", item.Id), err)
	}
	end, err := parseEventTime(item.End)
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError(fmt.Sprintf("event %s: end", item.Id), err)
	}

	ev, err := entity.NewEvent(item.Summary, item.Description, start, end, selfResponse(item.Attendees))
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError(fmt.Sprintf("event %s", item.Id), err)
	}
	return ev, nil
}

// selfResponse returns the RSVP of the attendee flagged as the viewer.
func selfResponse(attendees []*calendar.EventAttendee) entity.ResponseStatus {
	for _, a := range attendees {
		if a != nil && a.Self {
			return entity.ResponseStatus(a.ResponseStatus)
		}
	}
	return entity.ResponseUnset
}

// parseEventTime accepts a timed value (RFC 3339, or a local time plus
// timeZone) or an all-day date, which starts at midnight in timeZone (UTC
// when none is given). timeZone is ignored when dateTime carries an offset.
func parseEventTime(dt *calendar.EventDateTime) (time.Time, error) {
	if dt == nil {
		return time.Time{}, errMissingTime
	}

	switch {
	case dt.DateTime != "":
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t, nil
		}
		if dt.TimeZone == "" {
			return time.Time{}, fmt.Errorf("dateTime %q has no offset and no timeZone", dt.DateTime)
		}
		loc, err := eventLocation(dt.TimeZone)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.ParseInLocation(localDateTimeLayout, dt.DateTime, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("dateTime %q: %w", dt.DateTime, err)
		}
		return t, nil
	case dt.Date != "":
		loc, err := eventLocation(dt.TimeZone)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.ParseInLocation(dateLayout, dt.Date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", dt.Date, err)
		}
		return t, nil
	default:
		return time.Time{}, errMissingTime
	}
}

// eventLocation resolves an IANA zone name; empty means UTC.
func eventLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", name, err)
	}
	return loc, nil
}
