package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/caldav"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/credentials"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/gcal"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/calendar-status/internal/usecase/status"
)

// Clients holds all external integration clients
type Clients struct {
	Calendar status.EventSource
	Slack    *slack.Client
}

func (app *Application) initializeClients(ctx context.Context) error {
	httpClient := &http.Client{Timeout: app.config.HTTPTimeout}

	calendar, err := app.newCalendarSource(ctx, httpClient)
	if err != nil {
		return err
	}

	token, err := credentials.ResolveSecret(app.config.Slack.Token, app.config.Slack.TokenFile)
	if err != nil {
		return fmt.Errorf("loading slack token: %w", err)
	}

	app.clients = &Clients{
		Calendar: calendar,
		Slack:    slack.NewClient(token, app.config.Slack.APIURL, httpClient),
	}

	app.logger.Debug("clients initialized",
		"calendar_provider", calendar.Name(),
		"status_target", app.clients.Slack.Name(),
	)

	return nil
}

func (app *Application) newCalendarSource(ctx context.Context, httpClient *http.Client) (status.EventSource, error) {
	cal := app.config.Calendar

	switch cal.Provider {
	case config.ProviderGoogle:
		authed, err := credentials.GoogleClient(ctx, cal.Google.CredentialsFile, cal.Google.TokenFile, httpClient)
		if err != nil {
			return nil, fmt.Errorf("loading google credentials: %w", err)
		}
		authed.Timeout = app.config.HTTPTimeout

		client, err := gcal.NewClient(ctx, authed, cal.Google.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating google calendar client: %w", err)
		}
		return client, nil

	case config.ProviderCalDAV:
		password, err := credentials.ResolveSecret(cal.CalDAV.Password, cal.CalDAV.PasswordFile)
		if err != nil {
			return nil, fmt.Errorf("loading caldav password: %w", err)
		}

		client, err := caldav.NewClient(cal.CalDAV.URL, cal.CalDAV.Username, password, cal.CalDAV.SelfEmail, httpClient)
		if err != nil {
			return nil, fmt.Errorf("creating caldav client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown calendar provider: %s", cal.Provider)
	}
}
