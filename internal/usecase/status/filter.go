package status

import "github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"

// FilterEvents drops events the viewer declined, answered tentatively or has
// not answered. Accepted events and events without an own RSVP are kept, in
// their original order. The result is never nil.
func FilterEvents(events []entity.Event) []entity.Event {
	kept := make([]entity.Event, 0, len(events))
	for _, ev := range events {
		if ev.IsUnconfirmed() {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}
