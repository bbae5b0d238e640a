// Package errors defines the error taxonomy shared by the use cases and the
// infrastructure adapters.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies which boundary of the run failed.
type Kind string

const (
	// KindCredential covers missing or unreadable credential files.
	KindCredential Kind = "credential"
	// KindCalendar covers calendar listing failures.
	KindCalendar Kind = "calendar"
	// KindStatus covers status read/write failures, including a write the
	// messaging service did not acknowledge.
	KindStatus Kind = "status"
	// KindParse covers calendar payloads missing required fields.
	KindParse Kind = "parse"
	// KindConfig covers invalid configuration.
	KindConfig Kind = "config"
)

// Error is a classified failure. Transient marks failures that a later run
// may not hit again (rate limits, network, timeouts).
type Error struct {
	Kind      Kind
	Message   string
	Err       error
	Transient bool
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, ErrParse) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks by kind.
var (
	ErrCredential = &Error{Kind: KindCredential}
	ErrCalendar   = &Error{Kind: KindCalendar}
	ErrStatus     = &Error{Kind: KindStatus}
	ErrParse      = &Error{Kind: KindParse}
	ErrConfig     = &Error{Kind: KindConfig}
)

// NewCredentialError creates a credential error.
func NewCredentialError(message string, err error) error {
	return &Error{Kind: KindCredential, Message: message, Err: err}
}

// NewCalendarError creates a calendar error.
func NewCalendarError(message string, err error, transient bool) error {
	return &Error{Kind: KindCalendar, Message: message, Err: err, Transient: transient}
}

// NewStatusError creates a status service error.
func NewStatusError(message string, err error, transient bool) error {
	return &Error{Kind: KindStatus, Message: message, Err: err, Transient: transient}
}

// NewParseError creates a parse error for a malformed calendar item.
func NewParseError(message string, err error) error {
	return &Error{Kind: KindParse, Message: message, Err: err}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, err error) error {
	return &Error{Kind: KindConfig, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTransient reports whether err is classified as transient.
func IsTransient(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Transient
	}
	return false
}
