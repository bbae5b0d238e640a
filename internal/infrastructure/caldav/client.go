// Package caldav reads upcoming events from a CalDAV server.
package caldav

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

// PrimaryCalendar selects the first calendar found in the user's calendar
// home instead of an explicit calendar path.
const PrimaryCalendar = "primary"

// Client is a CalDAV event source.
// Implements the status.EventSource interface.
type Client struct {
	client    *caldav.Client
	selfEmail string
	location  *time.Location
}

// NewClient creates a CalDAV client authenticating with HTTP basic auth.
// selfEmail identifies the viewer among event attendees.
func NewClient(baseURL, username, password, selfEmail string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, username, password), baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	return &Client{
		client:    c,
		selfEmail: selfEmail,
		location:  time.Local,
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return "caldav"
}

// ListUpcomingEvents runs a calendar-query REPORT over the query window with
// recurrences expanded by the server, drops cancelled events, orders by
// start time and caps the result at q.MaxResults.
func (c *Client) ListUpcomingEvents(ctx context.Context, q entity.EventQuery) ([]entity.Event, error) {
	calendarPath, err := c.resolveCalendar(ctx, q.CalendarID)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{{
				Name:     "VEVENT",
				AllProps: true,
			}},
			Expand: &caldav.CalendarExpandRequest{
				Start: q.TimeMin,
				End:   q.TimeMax,
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: q.TimeMin,
				End:   q.TimeMax,
			}},
		},
	}

	objects, err := c.client.QueryCalendar(ctx, calendarPath, query)
	if err != nil {
		return nil, categorizeCalDAVError(err, "query calendar")
	}

	return collectEvents(objects, c.selfEmail, c.location, q.MaxResults)
}

// resolveCalendar maps PrimaryCalendar to the first calendar in the home set.
func (c *Client) resolveCalendar(ctx context.Context, id string) (string, error) {
	if id != PrimaryCalendar {
		return id, nil
	}

	principal, err := c.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", categorizeCalDAVError(err, "find principal")
	}

	homeSet, err := c.client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", categorizeCalDAVError(err, "find home set")
	}

	cals, err := c.client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", categorizeCalDAVError(err, "find calendars")
	}
	for _, cal := range cals {
		if supportsEvents(cal) {
			return cal.Path, nil
		}
	}

	return "", domainerrors.NewCalendarError("no calendar with events found in "+homeSet, nil, false)
}

// supportsEvents reports whether a calendar accepts VEVENT. Servers that do
// not advertise supported components are assumed to.
func supportsEvents(cal caldav.Calendar) bool {
	if len(cal.SupportedComponentSet) == 0 {
		return true
	}
	for _, comp := range cal.SupportedComponentSet {
		if comp == "VEVENT" {
			return true
		}
	}
	return false
}

// categorizeCalDAVError wraps CalDAV errors as transient or permanent
// calendar errors.
func categorizeCalDAVError(err error, operation string) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewCalendarError(operation+": network error", err, true)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewCalendarError(operation+": context timeout", err, true)
	}

	return domainerrors.NewCalendarError(operation, err, false)
}
