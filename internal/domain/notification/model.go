package notification

import (
	"errors"
	"time"
)

// Severity of a notification.
type Severity string

// Severities
const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DisplayDuration is how long a notification stays visible without being superseded.
const DisplayDuration = 5 * time.Second

// ValidSeverities contains all valid severities.
var ValidSeverities = []Severity{SeveritySuccess, SeverityError, SeverityInfo}

// Domain errors
var (
	ErrInvalidSeverity = errors.New("notification severity must be one of: success, error, info")
)

// Notification is a transient user-facing status message.
// The zero value means nothing is showing.
type Notification struct {
	Text      string    `json:"text"`
	Severity  Severity  `json:"severity"`
	Visible   bool      `json:"visible"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Validate checks the severity is a known value.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notification) Validate() error {
	for _, s := range ValidSeverities {
		if s == n.Severity {
			return nil
		}
	}
	return ErrInvalidSeverity
}

// IsShowing returns true when there is text to display.
// INVARIANT: Notification fields are not mutated
func (n Notification) IsShowing() bool {
	return n.Visible && n.Text != ""
}

// Remaining returns how long the notification has left before it expires.
// Returns zero when it is not showing or has already expired.
func (n Notification) Remaining(now time.Time) time.Duration {
	if !n.IsShowing() {
		return 0
	}
	d := n.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
