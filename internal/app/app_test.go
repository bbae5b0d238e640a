package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
	"github.com/qj0r9j0vc2/calendar-status/internal/usecase/status"
)

const clientJSON = `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

// fakeAPIs serves the Google Calendar and Slack endpoints used by a run.
type fakeAPIs struct {
	mu          sync.Mutex
	events      string
	current     entity.Status
	slackErr    string
	sets        []map[string]any
	profileGets int
}

func (f *fakeAPIs) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendar/v3/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"kind":"calendar#events","items":[%s]}`, f.events)
	})
	mux.HandleFunc("/slack/users.profile.get", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.profileGets++
		w.Header().Set("Content-Type", "application/json")
		if f.slackErr != "" {
			_, _ = fmt.Fprintf(w, `{"ok":false,"error":%q}`, f.slackErr)
			return
		}
		_, _ = fmt.Fprintf(w, `{"ok":true,"profile":{"status_text":%q,"status_emoji":%q,"status_expiration":%d}}`,
			f.current.Text, f.current.Emoji, f.current.Expiration)
	})
	mux.HandleFunc("/slack/users.profile.set", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		require.NoError(t, r.ParseForm())
		var profile map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("profile")), &profile))
		f.sets = append(f.sets, profile)
		w.Header().Set("Content-Type", "application/json")
		if f.slackErr != "" {
			_, _ = fmt.Fprintf(w, `{"ok":false,"error":%q}`, f.slackErr)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"profile":{}}`))
	})
	return mux
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newTestApp writes credentials and a config pointing at the fake APIs.
func newTestApp(t *testing.T, apis *fakeAPIs, extra string) (*Application, string) {
	t.Helper()

	srv := httptest.NewServer(apis.handler(t))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	creds := writeFile(t, dir, "credentials.json", clientJSON)
	token := writeFile(t, dir, "token.json", `{"access_token":"ya29.test","token_type":"Bearer"}`)
	slackToken := writeFile(t, dir, "slack_token", "xoxp-test\n")
	metricsPath := filepath.Join(dir, "calendar_status.prom")

	cfg := fmt.Sprintf(`
calendar:
  provider: google
  google:
    credentials_file: %s
    token_file: %s
    endpoint: %s/calendar/v3/
slack:
  token_file: %s
  api_url: %s/slack/
storage:
  type: memory
logging:
  level: error
metrics:
  textfile_path: %s
%s`, creds, token, srv.URL, slackToken, srv.URL, metricsPath, extra)

	application, err := New(context.Background(), writeFile(t, dir, "config.yaml", cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	return application, metricsPath
}

func TestApplication_Run_InMeeting(t *testing.T) {
	apis := &fakeAPIs{events: `{
		"id":"e1","status":"confirmed","summary":"Planning",
		"start":{"dateTime":"2099-01-01T10:00:00Z"},"end":{"dateTime":"2099-01-01T10:30:00Z"},
		"attendees":[{"email":"me@example.com","self":true,"responseStatus":"accepted"}]
	}`}
	application, metricsPath := newTestApp(t, apis, "")

	result, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.ActionSet, result.Action)
	assert.Equal(t, status.ReasonInMeeting, result.Decision.Reason)
	assert.Zero(t, apis.profileGets)
	require.Len(t, apis.sets, 1)
	assert.Equal(t, entity.InMeetingStatusText, apis.sets[0]["status_text"])
	assert.EqualValues(t, 4070946600, apis.sets[0]["status_expiration"])

	recent, err := application.journal.FindRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Planning", recent[0].EventSummary)

	require.NoError(t, application.Shutdown())
	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "calendar_status_runs")
}

func TestApplication_Run_NoMeetingRestoresDefault(t *testing.T) {
	apis := &fakeAPIs{current: entity.InMeetingStatus(1700001800)}
	application, _ := newTestApp(t, apis, "")

	result, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, status.ReasonNoMeeting, result.Decision.Reason)
	assert.Equal(t, 1, apis.profileGets)
	require.Len(t, apis.sets, 1)
	assert.Equal(t, entity.DefaultStatusText, apis.sets[0]["status_text"])
}

func TestApplication_Run_ManualStatusKept(t *testing.T) {
	apis := &fakeAPIs{current: entity.Status{Text: "Focus time", Emoji: ":headphones:"}}
	application, _ := newTestApp(t, apis, "")

	result, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.ActionNone, result.Action)
	assert.Empty(t, apis.sets)
}

func TestApplication_Run_DryRun(t *testing.T) {
	apis := &fakeAPIs{current: entity.Status{}}
	application, _ := newTestApp(t, apis, "dry_run: true\n")

	result, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.ActionDryRun, result.Action)
	assert.Empty(t, apis.sets)
}

func TestApplication_Run_SlackFailure(t *testing.T) {
	apis := &fakeAPIs{slackErr: "invalid_auth"}
	application, _ := newTestApp(t, apis, "")

	_, err := application.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrStatus)
}

func TestNew_MissingCredentials(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", fmt.Sprintf(`
calendar:
  google:
    credentials_file: %s
    token_file: %s
slack:
  token: xoxp-test
logging:
  level: error
`, filepath.Join(dir, "missing.json"), filepath.Join(dir, "token.json")))

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCredential)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "config.yaml", "calendar:\n  provider: outlook\n")

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConfig)
}
