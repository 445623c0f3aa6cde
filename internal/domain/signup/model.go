package signup

import (
	"errors"
	"strings"
)

// ErrIncomplete is returned when a submission is missing the email or the activity.
// It is a client-side no-op, never surfaced as a notification.
var ErrIncomplete = errors.New("email and activity are required")

// Intent is the transient state of the signup form.
type Intent struct {
	Email    string `json:"email"`
	Activity string `json:"activity"`
}

// Normalize trims surrounding whitespace from the email.
// Activity is a key of the service's collection and is kept byte for byte.
func (i Intent) Normalize() Intent {
	return Intent{
		Email:    strings.TrimSpace(i.Email),
		Activity: i.Activity,
	}
}

// Complete reports whether both fields are filled in. A whitespace-only field counts as empty.
// INVARIANT: Intent fields are not mutated
func (i Intent) Complete() bool {
	return strings.TrimSpace(i.Email) != "" && strings.TrimSpace(i.Activity) != ""
}

// Validate returns ErrIncomplete when a field is empty.
// PRE: none
// POST: Returns nil if both fields are set
func (i Intent) Validate() error {
	if !i.Complete() {
		return ErrIncomplete
	}
	return nil
}

// IsZero reports whether the form is blank.
func (i Intent) IsZero() bool {
	return i == Intent{}
}
