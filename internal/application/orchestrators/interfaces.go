package orchestrators

import (
	"context"
	"time"

	"portal/internal/adapters/activitiesapi"
	"portal/internal/domain/activity"
	"portal/internal/domain/notification"
)

// ActivityLister fetches the full activity collection.
type ActivityLister interface {
	ListActivities(ctx context.Context) (activity.Collection, error)
}

// SignupClient registers a student for an activity.
type SignupClient interface {
	Signup(ctx context.Context, activityName, email string) (activitiesapi.Confirmation, error)
}

// RemovalClient unregisters a student from an activity.
type RemovalClient interface {
	RemoveParticipant(ctx context.Context, activityName, email string) (activitiesapi.Confirmation, error)
}

// ActivityStore receives freshly fetched collections.
type ActivityStore interface {
	Replace(c activity.Collection, fetchedAt time.Time)
}

// Notifier shows a transient status message.
type Notifier interface {
	Notify(text string, severity notification.Severity)
}

// Confirmer is the yes/no gate in front of destructive actions.
// Confirm blocks until the user answers.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// AlwaysConfirm accepts every prompt.
var AlwaysConfirm = ConfirmerFunc(func(context.Context, string) bool { return true })
