package signup

import (
	"errors"
	"testing"
)

// TestIntent_Validate tests the empty-field rule.
func TestIntent_Validate(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   error
	}{
		{"complete", Intent{Email: "ana@mergington.edu", Activity: "Chess Club"}, nil},
		{"missing email", Intent{Activity: "Chess Club"}, ErrIncomplete},
		{"missing activity", Intent{Email: "ana@mergington.edu"}, ErrIncomplete},
		{"blank email", Intent{Email: "   ", Activity: "Chess Club"}, ErrIncomplete},
		{"blank activity", Intent{Email: "ana@mergington.edu", Activity: " \t"}, ErrIncomplete},
		{"padded activity", Intent{Email: "ana@mergington.edu", Activity: "Chess Club "}, nil},
		{"both empty", Intent{}, ErrIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.intent.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestIntent_Normalize tests that only the email is trimmed.
func TestIntent_Normalize(t *testing.T) {
	got := Intent{Email: " ana@mergington.edu\n", Activity: "\tChess Club "}.Normalize()
	want := Intent{Email: "ana@mergington.edu", Activity: "\tChess Club "}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

// TestIntent_IsZero tests blank detection.
func TestIntent_IsZero(t *testing.T) {
	if !(Intent{}).IsZero() {
		t.Error("expected zero intent")
	}
	if (Intent{Email: "a"}).IsZero() {
		t.Error("expected non-zero intent")
	}
}
