package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderGoogle, cfg.Calendar.Provider)
	assert.Equal(t, "primary", cfg.Calendar.ID)
	assert.Equal(t, 20*time.Minute, cfg.Calendar.Lookahead)
	assert.Equal(t, 3, cfg.Calendar.MaxResults)
	assert.Equal(t, "credentials.json", filepath.Base(cfg.Calendar.Google.CredentialsFile))
	assert.Equal(t, "token.json", filepath.Base(cfg.Calendar.Google.TokenFile))
	assert.Equal(t, "slack_token", filepath.Base(cfg.Slack.TokenFile))
	assert.Equal(t, StorageNone, cfg.Storage.Type)
	assert.False(t, cfg.IsJournalEnabled())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("TEST_CALDAV_PASSWORD", "s3cret")

	path := writeConfig(t, `
dry_run: true
http_timeout: 10s
calendar:
  provider: CalDAV
  id: /calendars/me/work/
  lookahead: 30m
  max_results: 5
  caldav:
    url: https://caldav.example.com
    username: me
    password: ${TEST_CALDAV_PASSWORD}
    self_email: me@example.com
slack:
  token_file: /run/secrets/slack
storage:
  type: sqlite
  sqlite:
    path: /var/lib/calendar-status/journal.db
logging:
  level: debug
  format: text
metrics:
  textfile_path: /var/lib/node_exporter/calendar_status.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ProviderCalDAV, cfg.Calendar.Provider)
	assert.Equal(t, "/calendars/me/work/", cfg.Calendar.ID)
	assert.Equal(t, 30*time.Minute, cfg.Calendar.Lookahead)
	assert.Equal(t, 5, cfg.Calendar.MaxResults)
	assert.Equal(t, "s3cret", cfg.Calendar.CalDAV.Password)
	assert.Equal(t, "me@example.com", cfg.Calendar.CalDAV.SelfEmail)
	assert.Equal(t, "/run/secrets/slack", cfg.Slack.TokenFile)
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.True(t, cfg.IsJournalEnabled())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/var/lib/node_exporter/calendar_status.prom", cfg.Metrics.TextfilePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warn
`)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SLACK_TOKEN", "xoxp-env")
	t.Setenv("CALENDAR_MAX_RESULTS", "7")
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "xoxp-env", cfg.Slack.Token)
	assert.Equal(t, 7, cfg.Calendar.MaxResults)
	assert.True(t, cfg.DryRun)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "calendar: [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConfig)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
calendar:
  provider: outlook
  max_results: 0
logging:
  level: verbose
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConfig)
	assert.Contains(t, err.Error(), "invalid calendar provider: outlook")
	assert.Contains(t, err.Error(), "calendar.max_results must be at least 1")
	assert.Contains(t, err.Error(), "invalid log level: verbose")
}

func validConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Provider:   ProviderGoogle,
			ID:         "primary",
			Lookahead:  20 * time.Minute,
			MaxResults: 3,
			Google: GoogleCalendarConfig{
				CredentialsFile: "/etc/cs/credentials.json",
				TokenFile:       "/etc/cs/token.json",
			},
		},
		Slack:       SlackConfig{TokenFile: "/etc/cs/slack_token"},
		Storage:     StorageConfig{Type: StorageNone},
		Logging:     LoggingConfig{Level: "info", Format: "json"},
		HTTPTimeout: 30 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing slack token",
			mutate:  func(c *Config) { c.Slack.TokenFile = "" },
			wantErr: "slack.token or slack.token_file is required",
		},
		{
			name:    "slack api url without trailing slash",
			mutate:  func(c *Config) { c.Slack.APIURL = "http://127.0.0.1:9999/api" },
			wantErr: "slack.api_url must end with a slash",
		},
		{
			name:    "zero lookahead",
			mutate:  func(c *Config) { c.Calendar.Lookahead = 0 },
			wantErr: "calendar.lookahead must be greater than 0",
		},
		{
			name:    "google without token file",
			mutate:  func(c *Config) { c.Calendar.Google.TokenFile = "" },
			wantErr: "calendar.google.token_file cannot be empty",
		},
		{
			name: "caldav without password",
			mutate: func(c *Config) {
				c.Calendar.Provider = ProviderCalDAV
				c.Calendar.CalDAV = CalDAVConfig{URL: "https://dav.example.com", Username: "me", SelfEmail: "me@example.com"}
			},
			wantErr: "calendar.caldav.password or calendar.caldav.password_file is required",
		},
		{
			name: "caldav with bad url",
			mutate: func(c *Config) {
				c.Calendar.Provider = ProviderCalDAV
				c.Calendar.CalDAV = CalDAVConfig{URL: "dav.example.com", Username: "me", Password: "x", SelfEmail: "me@example.com"}
			},
			wantErr: "calendar.caldav.url must be an absolute http or https URL",
		},
		{
			name:    "unknown storage",
			mutate:  func(c *Config) { c.Storage.Type = "redis" },
			wantErr: "invalid storage type: redis",
		},
		{
			name: "mysql missing fields",
			mutate: func(c *Config) {
				c.Storage.Type = StorageMySQL
				c.Storage.MySQL = MySQLConfig{Port: 3306, Timeout: time.Second, Pool: MySQLPoolConfig{MaxOpenConns: 1}}
			},
			wantErr: "storage.mysql.host cannot be empty",
		},
		{
			name: "mysql idle exceeds open",
			mutate: func(c *Config) {
				c.Storage.Type = StorageMySQL
				c.Storage.MySQL = MySQLConfig{
					Host: "db", Port: 3306, Database: "cs", Username: "u", Password: "p", Timeout: time.Second,
					Pool: MySQLPoolConfig{MaxOpenConns: 1, MaxIdleConns: 2},
				}
			},
			wantErr: "storage.mysql.pool.max_idle_conns cannot exceed max_open_conns",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_String_OmitsSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Slack.Token = "xoxp-secret"
	cfg.Calendar.CalDAV.Password = "hunter2"

	s := cfg.String()
	assert.NotContains(t, s, "xoxp-secret")
	assert.NotContains(t, s, "hunter2")
	assert.Contains(t, s, "provider=google")
}
