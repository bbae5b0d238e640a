package status

import "github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"

// Decision reasons, also used as metric and journal labels.
const (
	ReasonNoMeeting    = "no_meeting"
	ReasonManualStatus = "manual_status"
	ReasonOutOfOffice  = "out_of_office"
	ReasonInMeeting    = "in_meeting"
)

// Decision is the outcome of Decide.
type Decision struct {
	// Write is true when Status should replace the current status.
	Write bool

	// Status is the status to write. Zero when Write is false.
	Status entity.Status

	// Reason labels the branch taken.
	Reason string

	// Event is the event the status was derived from, if any.
	Event *entity.Event
}

// Decide picks the status for an already filtered event list.
//
// With no events, current must be the status as currently held by the
// messaging service: the default status is written only if current is the
// in-meeting status or empty. Otherwise the first event wins, since events
// arrive ordered by start time; no further tie-break is applied.
func Decide(filtered []entity.Event, current *entity.Status) Decision {
	if len(filtered) == 0 {
		if current != nil && current.IsReplaceable() {
			return Decision{Write: true, Status: entity.DefaultStatus(), Reason: ReasonNoMeeting}
		}
		return Decision{Reason: ReasonManualStatus}
	}

	ev := filtered[0]
	if ev.OutOfOffice {
		// Out-of-office never expires, unlike the in-meeting status.
		return Decision{Write: true, Status: entity.OutOfOfficeStatus(), Reason: ReasonOutOfOffice, Event: &ev}
	}

	return Decision{Write: true, Status: entity.InMeetingStatus(ev.EndTimestamp), Reason: ReasonInMeeting, Event: &ev}
}
