package activity

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateActivity is returned when two activities share a name.
var ErrDuplicateActivity = errors.New("activity name appears more than once")

// Activity is a named extracurricular offering with a capacity and a participant list.
// Participants are student email addresses in the order the activities service returned them.
type Activity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// AvailableSpots returns MaxParticipants minus the current participant count.
// The result is not clamped; an over-subscribed activity reports a negative number.
// INVARIANT: Activity fields are not mutated
func (a Activity) AvailableSpots() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull returns true when no spots are left.
// INVARIANT: Activity fields are not mutated
func (a Activity) IsFull() bool {
	return a.AvailableSpots() <= 0
}

// Collection maps activity name to Activity and remembers the order the
// activities were received in. A Collection is never mutated after it is built.
type Collection struct {
	names  []string
	byName map[string]Activity
}

// NewCollection builds a collection preserving the order of acts.
// Field values are kept as the service sent them; an empty name or a negative capacity is not an error.
// PRE: every activity has a unique name
// POST: Returns a collection iterating in argument order
func NewCollection(acts ...Activity) (Collection, error) {
	c := Collection{
		names:  make([]string, 0, len(acts)),
		byName: make(map[string]Activity, len(acts)),
	}
	for _, a := range acts {
		if _, dup := c.byName[a.Name]; dup {
			return Collection{}, fmt.Errorf("activity %q: %w", a.Name, ErrDuplicateActivity)
		}
		a.Participants = slices.Clone(a.Participants)
		if a.Participants == nil {
			a.Participants = []string{}
		}
		c.names = append(c.names, a.Name)
		c.byName[a.Name] = a
	}
	return c, nil
}

// Len returns the number of activities.
func (c Collection) Len() int {
	return len(c.names)
}

// Get looks up an activity by name.
func (c Collection) Get(name string) (Activity, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// All returns the activities in received order.
func (c Collection) All() []Activity {
	out := make([]Activity, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n])
	}
	return out
}

// Equal reports whether both collections hold the same activities in the same order.
func (c Collection) Equal(other Collection) bool {
	if !slices.Equal(c.names, other.names) {
		return false
	}
	for _, n := range c.names {
		a, b := c.byName[n], other.byName[n]
		if a.Description != b.Description || a.Schedule != b.Schedule ||
			a.MaxParticipants != b.MaxParticipants || !slices.Equal(a.Participants, b.Participants) {
			return false
		}
	}
	return true
}
