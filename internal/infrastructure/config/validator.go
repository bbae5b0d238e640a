package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateLogLevel checks if the log level is valid.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// ValidateLogFormat checks if the log format is valid.
func ValidateLogFormat(format string) error {
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
	return nil
}

// ValidateNonEmpty checks if a string is non-empty.
func ValidateNonEmpty(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateDuration checks if a duration is greater than zero.
func ValidateDuration(duration time.Duration, fieldName string) error {
	if duration <= 0 {
		return fmt.Errorf("%s must be greater than 0", fieldName)
	}
	return nil
}

// ValidatePort checks if a port number is valid.
func ValidatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", fieldName, port)
	}
	return nil
}

// ValidateURL checks that value is an absolute http(s) URL.
func ValidateURL(value string, fieldName string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an absolute http or https URL, got %q", fieldName, value)
	}
	return nil
}

// ValidateProvider checks if the calendar provider is known.
func ValidateProvider(provider string) error {
	switch provider {
	case ProviderGoogle, ProviderCalDAV:
		return nil
	default:
		return fmt.Errorf("invalid calendar provider: %s (must be google or caldav)", provider)
	}
}

// ValidateStorageType checks if the storage type is valid.
func ValidateStorageType(storageType string) error {
	validTypes := map[string]bool{
		StorageNone:   true,
		StorageMemory: true,
		StorageSQLite: true,
		StorageMySQL:  true,
	}
	if !validTypes[storageType] {
		return fmt.Errorf("invalid storage type: %s (must be none, memory, sqlite, or mysql)", storageType)
	}
	return nil
}

// Validate performs comprehensive validation on the configuration.
// Returns an error listing every problem found.
func (c *Config) Validate() error {
	var errors []string
	check := func(err error) {
		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	// Calendar validation
	check(ValidateProvider(c.Calendar.Provider))
	check(ValidateNonEmpty(c.Calendar.ID, "calendar.id"))
	check(ValidateDuration(c.Calendar.Lookahead, "calendar.lookahead"))
	if c.Calendar.MaxResults < 1 {
		errors = append(errors, "calendar.max_results must be at least 1")
	}

	switch c.Calendar.Provider {
	case ProviderGoogle:
		check(ValidateNonEmpty(c.Calendar.Google.CredentialsFile, "calendar.google.credentials_file"))
		check(ValidateNonEmpty(c.Calendar.Google.TokenFile, "calendar.google.token_file"))
		if c.Calendar.Google.Endpoint != "" {
			check(ValidateURL(c.Calendar.Google.Endpoint, "calendar.google.endpoint"))
		}
	case ProviderCalDAV:
		check(ValidateURL(c.Calendar.CalDAV.URL, "calendar.caldav.url"))
		check(ValidateNonEmpty(c.Calendar.CalDAV.Username, "calendar.caldav.username"))
		check(ValidateNonEmpty(c.Calendar.CalDAV.SelfEmail, "calendar.caldav.self_email"))
		if c.Calendar.CalDAV.Password == "" && c.Calendar.CalDAV.PasswordFile == "" {
			errors = append(errors, "calendar.caldav.password or calendar.caldav.password_file is required")
		}
	}

	// Slack validation
	if c.Slack.Token == "" && c.Slack.TokenFile == "" {
		errors = append(errors, "slack.token or slack.token_file is required")
	}
	if c.Slack.APIURL != "" {
		check(ValidateURL(c.Slack.APIURL, "slack.api_url"))
		if !strings.HasSuffix(c.Slack.APIURL, "/") {
			errors = append(errors, "slack.api_url must end with a slash")
		}
	}

	check(ValidateDuration(c.HTTPTimeout, "http_timeout"))

	// Storage validation
	check(ValidateStorageType(c.Storage.Type))
	if c.Storage.Retention < 0 {
		errors = append(errors, "storage.retention cannot be negative")
	}

	// SQLite-specific validation
	if c.Storage.Type == StorageSQLite {
		check(ValidateNonEmpty(c.Storage.SQLite.Path, "storage.sqlite.path"))
	}

	// MySQL-specific validation
	if c.Storage.Type == StorageMySQL {
		check(ValidateNonEmpty(c.Storage.MySQL.Host, "storage.mysql.host"))
		check(ValidatePort(c.Storage.MySQL.Port, "storage.mysql.port"))
		check(ValidateNonEmpty(c.Storage.MySQL.Database, "storage.mysql.database"))
		check(ValidateNonEmpty(c.Storage.MySQL.Username, "storage.mysql.username"))
		check(ValidateNonEmpty(c.Storage.MySQL.Password, "storage.mysql.password"))
		check(ValidateDuration(c.Storage.MySQL.Timeout, "storage.mysql.timeout"))

		// Connection pool validation
		if c.Storage.MySQL.Pool.MaxOpenConns < 1 {
			errors = append(errors, "storage.mysql.pool.max_open_conns must be at least 1")
		}
		if c.Storage.MySQL.Pool.MaxIdleConns < 0 {
			errors = append(errors, "storage.mysql.pool.max_idle_conns cannot be negative")
		}
		if c.Storage.MySQL.Pool.MaxIdleConns > c.Storage.MySQL.Pool.MaxOpenConns {
			errors = append(errors, "storage.mysql.pool.max_idle_conns cannot exceed max_open_conns")
		}
	}

	// Logging validation
	check(ValidateLogLevel(c.Logging.Level))
	check(ValidateLogFormat(c.Logging.Format))

	// Return all validation errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", joinErrors(errors))
	}

	return nil
}

// joinErrors joins multiple error messages with newlines and bullets.
func joinErrors(errors []string) string {
	return strings.Join(errors, "\n  - ")
}
