package entity

// Status is the chat custom status as held by the messaging service.
type Status struct {
	Text  string
	Emoji string

	// Expiration is Unix seconds; 0 means the status never expires.
	Expiration int64
}

// Texts and emoji of the statuses this tool writes.
const (
	DefaultStatusText  = "Working EST (0730 - 1530 PST)"
	DefaultStatusEmoji = ":home:"

	OutOfOfficeStatusText  = "Out-of-office"
	OutOfOfficeStatusEmoji = ":away:"

	InMeetingStatusText  = "In a meeting"
	InMeetingStatusEmoji = ":calendar:"
)

// DefaultStatus is written when no meeting is upcoming and the current
// status was set by this tool or is empty.
func DefaultStatus() Status {
	return Status{Text: DefaultStatusText, Emoji: DefaultStatusEmoji}
}

// OutOfOfficeStatus never expires, even though the event has an end time.
func OutOfOfficeStatus() Status {
	return Status{Text: OutOfOfficeStatusText, Emoji: OutOfOfficeStatusEmoji}
}

// InMeetingStatus expires when the meeting ends.
func InMeetingStatus(end int64) Status {
	return Status{Text: InMeetingStatusText, Emoji: InMeetingStatusEmoji, Expiration: end}
}

// IsReplaceable reports whether the status may be overwritten with the
// default status: it is either the in-meeting status or empty. Anything else
// was set by hand and is left alone.
func (s Status) IsReplaceable() bool {
	return s.Text == InMeetingStatusText || s.Text == ""
}
