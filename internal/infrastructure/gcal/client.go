// Package gcal reads upcoming events from Google Calendar.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

// Client wraps the Calendar API service.
// Implements the status.EventSource interface.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client on top of an already authorized HTTP
// client. endpoint overrides the API base URL (for tests); empty keeps the
// default.
func NewClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return "google"
}

// ListUpcomingEvents lists single (expanded) events in the query window,
// ordered by start time, without cancelled events.
func (c *Client) ListUpcomingEvents(ctx context.Context, q entity.EventQuery) ([]entity.Event, error) {
	res, err := c.svc.Events.List(q.CalendarID).
		TimeMin(q.TimeMin.Format(time.RFC3339)).
		TimeMax(q.TimeMax.Format(time.RFC3339)).
		MaxResults(int64(q.MaxResults)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, categorizeGoogleError(err, "listing calendar events")
	}

	events := make([]entity.Event, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Status == "cancelled" {
			continue
		}
		ev, err := NormalizeEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

// categorizeGoogleError wraps Calendar API errors as transient or permanent
// calendar errors.
func categorizeGoogleError(err error, operation string) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewCalendarError(operation+": network error", err, true)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewCalendarError(operation+": context timeout", err, true)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return domainerrors.NewCalendarError(operation+": rate limited", err, true)
		case apiErr.Code >= 500:
			return domainerrors.NewCalendarError(operation+": google server error", err, true)
		default:
			return domainerrors.NewCalendarError(fmt.Sprintf("%s: http %d", operation, apiErr.Code), err, false)
		}
	}

	// Default to permanent error
	return domainerrors.NewCalendarError(operation, err, false)
}
