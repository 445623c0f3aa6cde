package notification

import (
	"testing"
	"time"
)

// TestNotification_Validate tests severity validation.
func TestNotification_Validate(t *testing.T) {
	for _, s := range ValidSeverities {
		n := Notification{Text: "x", Severity: s}
		if err := n.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", s, err)
		}
	}
	n := Notification{Text: "x", Severity: "warning"}
	if err := n.Validate(); err != ErrInvalidSeverity {
		t.Errorf("Validate(warning) = %v, want ErrInvalidSeverity", err)
	}
}

// TestNotification_IsShowing tests the showing predicate.
func TestNotification_IsShowing(t *testing.T) {
	if (Notification{}).IsShowing() {
		t.Error("zero notification should not be showing")
	}
	if (Notification{Text: "hi", Visible: false}).IsShowing() {
		t.Error("invisible notification should not be showing")
	}
	if (Notification{Visible: true}).IsShowing() {
		t.Error("empty text should not be showing")
	}
	if !(Notification{Text: "hi", Visible: true}).IsShowing() {
		t.Error("visible notification with text should be showing")
	}
}

// TestNotification_Remaining tests remaining lifetime.
func TestNotification_Remaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := Notification{Text: "hi", Visible: true, ShownAt: now, ExpiresAt: now.Add(DisplayDuration)}

	if got := n.Remaining(now); got != DisplayDuration {
		t.Errorf("Remaining(now) = %v, want %v", got, DisplayDuration)
	}
	if got := n.Remaining(now.Add(2 * time.Second)); got != 3*time.Second {
		t.Errorf("Remaining(+2s) = %v, want 3s", got)
	}
	if got := n.Remaining(now.Add(10 * time.Second)); got != 0 {
		t.Errorf("Remaining(+10s) = %v, want 0", got)
	}
	if got := (Notification{}).Remaining(now); got != 0 {
		t.Errorf("Remaining on zero = %v, want 0", got)
	}
}
