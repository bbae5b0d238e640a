// Package slack reads and writes the authenticated user's Slack status.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

// Client wraps the Slack API client with status operations.
// Implements the status.StatusClient interface.
type Client struct {
	api *slack.Client
}

// NewClient creates a new Slack client for a user token.
// apiURL overrides the API base URL when non-empty and must end with "/".
func NewClient(token, apiURL string, httpClient *http.Client) *Client {
	options := []slack.Option{}
	if apiURL != "" {
		options = append(options, slack.OptionAPIURL(apiURL))
	}
	if httpClient != nil {
		options = append(options, slack.OptionHTTPClient(httpClient))
	}

	return &Client{
		api: slack.New(token, options...),
	}
}

// GetStatus returns the user's current custom status.
func (c *Client) GetStatus(ctx context.Context) (entity.Status, error) {
	profile, err := c.api.GetUserProfileContext(ctx, &slack.GetUserProfileParameters{})
	if err != nil {
		return entity.Status{}, categorizeSlackError(err, "getting user profile")
	}
	if profile == nil {
		return entity.Status{}, domainerrors.NewStatusError("getting user profile: empty profile", nil, false)
	}

	return entity.Status{
		Text:       profile.StatusText,
		Emoji:      profile.StatusEmoji,
		Expiration: int64(profile.StatusExpiration),
	}, nil
}

// SetStatus replaces the user's custom status.
func (c *Client) SetStatus(ctx context.Context, status entity.Status) error {
	if err := c.api.SetUserCustomStatusContext(ctx, status.Text, status.Emoji, status.Expiration); err != nil {
		return categorizeSlackError(err, "setting user status")
	}
	return nil
}

// Name returns the status target identifier.
func (c *Client) Name() string {
	return "slack"
}

// categorizeSlackError wraps Slack API errors as transient or permanent domain errors.
func categorizeSlackError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for network errors (transient)
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewStatusError(fmt.Sprintf("%s: network error", operation), err, true)
	}

	// Rate limiting - transient
	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		return domainerrors.NewStatusError(
			fmt.Sprintf("%s: rate limited, retry after %s", operation, rateErr.RetryAfter),
			err,
			true,
		)
	}

	var codeErr slack.StatusCodeError
	if errors.As(err, &codeErr) {
		return domainerrors.NewStatusError(
			fmt.Sprintf("%s: http %d", operation, codeErr.Code),
			err,
			codeErr.Code >= 500,
		)
	}

	// Check for Slack API errors
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		switch slackErr.Err {
		// Server errors - transient
		case "ratelimited", "rate_limited", "internal_error", "fatal_error", "service_unavailable", "request_timeout":
			return domainerrors.NewStatusError(fmt.Sprintf("%s: %s", operation, slackErr.Err), err, true)

		// Client errors and unknown Slack errors - permanent
		default:
			return domainerrors.NewStatusError(fmt.Sprintf("%s: %s", operation, slackErr.Err), err, false)
		}
	}

	// Check for context errors (transient)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewStatusError(fmt.Sprintf("%s: context timeout", operation), err, true)
	}

	// Default to permanent error
	return domainerrors.NewStatusError(operation, err, false)
}
