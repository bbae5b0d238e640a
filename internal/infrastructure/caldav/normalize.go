package caldav

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

// collectEvents flattens the VEVENTs of every calendar object, drops
// cancelled ones, orders by start and keeps at most maxResults.
func collectEvents(objects []caldav.CalendarObject, selfEmail string, loc *time.Location, maxResults int) ([]entity.Event, error) {
	events := make([]entity.Event, 0, len(objects))
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, comp := range obj.Data.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			if isCancelled(comp) {
				continue
			}
			ev, err := NormalizeComponent(comp, selfEmail, loc)
			if err != nil {
				return nil, fmt.Errorf("event in %s: %w", obj.Path, err)
			}
			events = append(events, ev)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTimestamp < events[j].StartTimestamp
	})
	if maxResults > 0 && len(events) > maxResults {
		events = events[:maxResults]
	}
	return events, nil
}

func isCancelled(comp *ical.Component) bool {
	prop := comp.Props.Get(ical.PropStatus)
	return prop != nil && strings.EqualFold(prop.Value, "CANCELLED")
}

// NormalizeComponent converts a VEVENT into an entity.Event. Floating times
// are interpreted in loc.
func NormalizeComponent(comp *ical.Component, selfEmail string, loc *time.Location) (entity.Event, error) {
	if comp == nil {
		return entity.Event{}, domainerrors.NewParseError("nil event", nil)
	}
	if loc == nil {
		loc = time.UTC
	}

	summary, err := comp.Props.Text(ical.PropSummary)
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError("SUMMARY", err)
	}
	description, err := comp.Props.Text(ical.PropDescription)
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError("DESCRIPTION", err)
	}

	event := &ical.Event{Component: comp}
	start, err := event.DateTimeStart(loc)
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError("DTSTART", err)
	}
	end, err := event.DateTimeEnd(loc)
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError("DTEND", err)
	}

	ev, err := entity.NewEvent(summary, description, start, end, selfResponse(comp, selfEmail))
	if err != nil {
		return entity.Event{}, domainerrors.NewParseError("invalid event", err)
	}
	return ev, nil
}

// selfResponse returns the participation status of the attendee whose
// calendar address matches selfEmail.
func selfResponse(comp *ical.Component, selfEmail string) entity.ResponseStatus {
	if selfEmail == "" {
		return entity.ResponseUnset
	}
	for _, attendee := range comp.Props.Values(ical.PropAttendee) {
		addr := strings.TrimPrefix(strings.ToLower(attendee.Value), "mailto:")
		if !strings.EqualFold(addr, selfEmail) {
			continue
		}
		return mapPartStat(attendee.Params.Get("PARTSTAT"))
	}
	return entity.ResponseUnset
}

func mapPartStat(partStat string) entity.ResponseStatus {
	switch strings.ToUpper(partStat) {
	case "ACCEPTED":
		return entity.ResponseAccepted
	case "DECLINED":
		return entity.ResponseDeclined
	case "TENTATIVE":
		return entity.ResponseTentative
	case "NEEDS-ACTION", "":
		// PARTSTAT defaults to NEEDS-ACTION.
		return entity.ResponseNeedsAction
	default:
		return entity.ResponseUnset
	}
}
