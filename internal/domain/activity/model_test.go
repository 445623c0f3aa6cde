package activity

import (
	"errors"
	"testing"
)

func chessClub() Activity {
	return Activity{
		Name:            "Chess Club",
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
	}
}

// TestActivity_AvailableSpots tests spot arithmetic including over-subscription.
func TestActivity_AvailableSpots(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		count     int
		wantSpots int
		wantFull  bool
	}{
		{"room left", 12, 2, 10, false},
		{"one left", 3, 2, 1, false},
		{"exactly full", 2, 2, 0, true},
		{"over subscribed", 1, 3, -2, true},
		{"zero capacity", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Activity{Name: "Gym Class", MaxParticipants: tt.max}
			for i := 0; i < tt.count; i++ {
				a.Participants = append(a.Participants, string(rune('a'+i))+"@mergington.edu")
			}
			if got := a.AvailableSpots(); got != tt.wantSpots {
				t.Errorf("AvailableSpots() = %d, want %d", got, tt.wantSpots)
			}
			if got := a.IsFull(); got != tt.wantFull {
				t.Errorf("IsFull() = %v, want %v", got, tt.wantFull)
			}
		})
	}
}

// TestNewCollection_PreservesOrder tests that iteration follows construction order.
func TestNewCollection_PreservesOrder(t *testing.T) {
	c, err := NewCollection(
		Activity{Name: "Zebra Club", MaxParticipants: 1},
		Activity{Name: "Art Club", MaxParticipants: 2},
		Activity{Name: "Chess Club", MaxParticipants: 3},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Zebra Club", "Art Club", "Chess Club"}
	all := c.All()
	if len(all) != len(want) {
		t.Fatalf("got %d activities, want %d", len(all), len(want))
	}
	for i := range want {
		if all[i].Name != want[i] {
			t.Errorf("All()[%d].Name = %q, want %q", i, all[i].Name, want[i])
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

// TestNewCollection_RejectsDuplicates tests that duplicate names are rejected.
func TestNewCollection_RejectsDuplicates(t *testing.T) {
	_, err := NewCollection(chessClub(), chessClub())
	if !errors.Is(err, ErrDuplicateActivity) {
		t.Errorf("expected ErrDuplicateActivity, got %v", err)
	}
}

// TestNewCollection_KeepsServerValues tests that unusual values from the service are kept as sent.
func TestNewCollection_KeepsServerValues(t *testing.T) {
	tests := []struct {
		name string
		act  Activity
	}{
		{"empty name", Activity{Name: "", MaxParticipants: 3}},
		{"negative capacity", Activity{Name: "Art Club", MaxParticipants: -1}},
		{"padded name", Activity{Name: " Chess Club ", MaxParticipants: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCollection(tt.act)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := c.Get(tt.act.Name)
			if !ok {
				t.Fatalf("Get(%q) not found", tt.act.Name)
			}
			if got.Name != tt.act.Name || got.MaxParticipants != tt.act.MaxParticipants {
				t.Errorf("got %+v, want %+v", got, tt.act)
			}
		})
	}
}

// TestNewCollection_CopiesParticipants tests that the caller's slice is not shared.
func TestNewCollection_CopiesParticipants(t *testing.T) {
	a := chessClub()
	c, err := NewCollection(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Participants[0] = "mutated@mergington.edu"
	got, _ := c.Get("Chess Club")
	if got.Participants[0] != "michael@mergington.edu" {
		t.Errorf("collection shares participant slice with caller")
	}
}

// TestNewCollection_NilParticipants tests that nil participants become an empty list.
func TestNewCollection_NilParticipants(t *testing.T) {
	c, err := NewCollection(Activity{Name: "Debate Team", MaxParticipants: 14})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := c.Get("Debate Team")
	if !ok {
		t.Fatal("expected Debate Team to be present")
	}
	if got.Participants == nil {
		t.Error("expected non-nil participants")
	}
}

// TestCollection_Equal tests order-sensitive equality.
func TestCollection_Equal(t *testing.T) {
	a := Activity{Name: "A", MaxParticipants: 1}
	b := Activity{Name: "B", MaxParticipants: 1}
	ab, _ := NewCollection(a, b)
	ab2, _ := NewCollection(a, b)
	ba, _ := NewCollection(b, a)

	if !ab.Equal(ab2) {
		t.Error("expected identical collections to be equal")
	}
	if ab.Equal(ba) {
		t.Error("expected differently ordered collections to differ")
	}

	b.Participants = []string{"x@mergington.edu"}
	abChanged, _ := NewCollection(a, b)
	if ab.Equal(abChanged) {
		t.Error("expected participant change to break equality")
	}
}

// TestCollection_ZeroValue tests that the zero Collection is usable.
func TestCollection_ZeroValue(t *testing.T) {
	var c Collection
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if _, ok := c.Get("anything"); ok {
		t.Error("expected lookup on empty collection to fail")
	}
	if len(c.All()) != 0 {
		t.Error("expected All() to be empty")
	}
}
