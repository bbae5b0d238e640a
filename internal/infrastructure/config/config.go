package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	domainerrors "github.com/qj0r9j0vc2/calendar-status/internal/domain/errors"
)

// Calendar providers.
const (
	ProviderGoogle = "google"
	ProviderCalDAV = "caldav"
)

// Storage types for the status journal.
const (
	StorageNone   = "none"
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
)

// Config holds all application configuration.
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`

	// DryRun decides and logs without writing the status.
	DryRun bool `mapstructure:"dry_run"`

	// HTTPTimeout bounds every outbound API call.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// CalendarConfig holds calendar query settings.
type CalendarConfig struct {
	Provider   string               `mapstructure:"provider"` // "google" or "caldav"
	ID         string               `mapstructure:"id"`
	Lookahead  time.Duration        `mapstructure:"lookahead"`
	MaxResults int                  `mapstructure:"max_results"`
	Google     GoogleCalendarConfig `mapstructure:"google"`
	CalDAV     CalDAVConfig         `mapstructure:"caldav"`
}

// GoogleCalendarConfig holds Google Calendar credential locations.
type GoogleCalendarConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"` // OAuth client JSON
	TokenFile       string `mapstructure:"token_file"`       // stored oauth2.Token JSON
	Endpoint        string `mapstructure:"endpoint"`         // API base URL override
}

// CalDAVConfig holds CalDAV server settings.
type CalDAVConfig struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password_file"`
	SelfEmail    string `mapstructure:"self_email"` // identifies the viewer among attendees
}

// SlackConfig holds Slack settings.
type SlackConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file"`
	APIURL    string `mapstructure:"api_url"` // API base URL override
}

// StorageConfig holds status journal settings.
type StorageConfig struct {
	Type      string        `mapstructure:"type"` // "none", "memory", "sqlite", or "mysql"
	Retention time.Duration `mapstructure:"retention"`
	SQLite    SQLiteConfig  `mapstructure:"sqlite"`
	MySQL     MySQLConfig   `mapstructure:"mysql"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"` // Database file path, use ":memory:" for in-memory
}

// MySQLConfig holds MySQL-specific settings.
type MySQLConfig struct {
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	Database  string          `mapstructure:"database"`
	Username  string          `mapstructure:"username"`
	Password  string          `mapstructure:"password"`
	Pool      MySQLPoolConfig `mapstructure:"pool"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	ParseTime bool            `mapstructure:"parse_time"`
	Charset   string          `mapstructure:"charset"`
}

// MySQLPoolConfig holds MySQL connection pool settings.
type MySQLPoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics output settings.
type MetricsConfig struct {
	// TextfilePath is where run metrics are written in the node_exporter
	// textfile format. Empty disables the output.
	TextfilePath string `mapstructure:"textfile_path"`
}

// envAliases maps config keys to short environment variable names accepted
// in addition to the derived ones (e.g. CALENDAR_PROVIDER).
var envAliases = map[string][]string{
	"slack.token":                      {"SLACK_TOKEN"},
	"calendar.google.credentials_file": {"GOOGLE_CREDENTIALS_FILE"},
	"calendar.google.token_file":       {"GOOGLE_TOKEN_FILE"},
	"calendar.caldav.password":         {"CALDAV_PASSWORD"},
	"logging.level":                    {"LOG_LEVEL"},
	"logging.format":                   {"LOG_FORMAT"},
	"storage.type":                     {"STORAGE_TYPE"},
	"storage.sqlite.path":              {"SQLITE_DATABASE_PATH"},
	"storage.mysql.host":               {"MYSQL_HOST"},
	"storage.mysql.port":               {"MYSQL_PORT"},
	"storage.mysql.database":           {"MYSQL_DATABASE"},
	"storage.mysql.username":           {"MYSQL_USERNAME"},
	"storage.mysql.password":           {"MYSQL_PASSWORD"},
}

// Load reads configuration from file and environment.
// A missing file is not an error; every setting has a default or an
// environment variable.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, domainerrors.NewConfigError("binding env for "+key, err)
		}
	}

	// Load from file if exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, domainerrors.NewConfigError("reading config file", err)
		}
		if err == nil {
			// Expand environment variables in YAML
			v.SetConfigType("yaml")
			if err := v.ReadConfig(strings.NewReader(os.ExpandEnv(string(data)))); err != nil {
				return nil, domainerrors.NewConfigError("parsing config file", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domainerrors.NewConfigError("decoding config", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, domainerrors.NewConfigError("validating config", err)
	}

	return cfg, nil
}

// setDefaults registers a default for every key so that environment
// variables are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	credDir := defaultCredentialsDir()

	v.SetDefault("dry_run", false)
	v.SetDefault("http_timeout", 30*time.Second)

	// Calendar defaults
	v.SetDefault("calendar.provider", ProviderGoogle)
	v.SetDefault("calendar.id", "primary")
	v.SetDefault("calendar.lookahead", 20*time.Minute)
	v.SetDefault("calendar.max_results", 3)
	v.SetDefault("calendar.google.credentials_file", filepath.Join(credDir, "credentials.json"))
	v.SetDefault("calendar.google.token_file", filepath.Join(credDir, "token.json"))
	v.SetDefault("calendar.google.endpoint", "")
	v.SetDefault("calendar.caldav.url", "")
	v.SetDefault("calendar.caldav.username", "")
	v.SetDefault("calendar.caldav.password", "")
	v.SetDefault("calendar.caldav.password_file", "")
	v.SetDefault("calendar.caldav.self_email", "")

	// Slack defaults
	v.SetDefault("slack.token", "")
	v.SetDefault("slack.token_file", filepath.Join(credDir, "slack_token"))
	v.SetDefault("slack.api_url", "")

	// Storage defaults
	v.SetDefault("storage.type", StorageNone)
	v.SetDefault("storage.retention", 30*24*time.Hour)
	v.SetDefault("storage.sqlite.path", filepath.Join(credDir, "journal.db"))
	v.SetDefault("storage.mysql.host", "")
	v.SetDefault("storage.mysql.port", 3306)
	v.SetDefault("storage.mysql.database", "")
	v.SetDefault("storage.mysql.username", "")
	v.SetDefault("storage.mysql.password", "")
	v.SetDefault("storage.mysql.timeout", 5*time.Second)
	v.SetDefault("storage.mysql.parse_time", true)
	v.SetDefault("storage.mysql.charset", "utf8mb4")
	v.SetDefault("storage.mysql.pool.max_open_conns", 2)
	v.SetDefault("storage.mysql.pool.max_idle_conns", 1)
	v.SetDefault("storage.mysql.pool.conn_max_lifetime", 3*time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.textfile_path", "")
}

// defaultCredentialsDir is where credential files are looked up when no
// explicit path is configured.
func defaultCredentialsDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "calendar-status")
}

// normalize cleans values that are compared case-insensitively.
func (c *Config) normalize() {
	c.Calendar.Provider = strings.ToLower(strings.TrimSpace(c.Calendar.Provider))
	c.Storage.Type = strings.ToLower(strings.TrimSpace(c.Storage.Type))
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Slack.Token = strings.TrimSpace(c.Slack.Token)
}

// IsJournalEnabled returns true if status changes are recorded.
func (c *Config) IsJournalEnabled() bool {
	return c.Storage.Type != StorageNone
}

// String renders a one-line summary with secrets omitted.
func (c *Config) String() string {
	return fmt.Sprintf("provider=%s calendar=%s lookahead=%s max_results=%d storage=%s dry_run=%t",
		c.Calendar.Provider, c.Calendar.ID, c.Calendar.Lookahead, c.Calendar.MaxResults, c.Storage.Type, c.DryRun)
}
