package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"portal/internal/domain/activity"
	"portal/internal/domain/notification"
)

// LoadFailedMessage is shown when the activity list cannot be fetched.
const LoadFailedMessage = "Failed to load activities. Please try again later."

// LoadActivitiesDeps holds dependencies for LoadActivities.
type LoadActivitiesDeps struct {
	Lister   ActivityLister
	Store    ActivityStore
	Notifier Notifier
	Now      func() time.Time
}

// ExecuteLoadActivities fetches the collection and replaces the store with it.
// PRE: Lister, Store and Notifier are set
// POST: On success the store holds exactly the fetched payload; on failure the store is
// untouched and an error notification with LoadFailedMessage is showing
func ExecuteLoadActivities(ctx context.Context, deps LoadActivitiesDeps) (activity.Collection, error) {
	if deps.Lister == nil || deps.Store == nil || deps.Notifier == nil {
		return activity.Collection{}, errors.New("load activities: lister, store and notifier are required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	col, err := deps.Lister.ListActivities(ctx)
	if err != nil {
		slog.Warn("activities_event", "event", "load_failed", "error", err)
		deps.Notifier.Notify(LoadFailedMessage, notification.SeverityError)
		return activity.Collection{}, err
	}

	deps.Store.Replace(col, now())
	slog.Debug("activities_event", "event", "loaded", "count", col.Len())
	return col, nil
}
