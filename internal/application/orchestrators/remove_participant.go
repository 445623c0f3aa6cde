package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portal/internal/adapters/activitiesapi"
	"portal/internal/domain/notification"
)

// ErrMissingParticipant is returned when the activity name or email is empty.
var ErrMissingParticipant = errors.New("activity name and email are required")

// removeFailedMessage is shown when a failure carries no message of its own.
const removeFailedMessage = "Failed to remove participant. Please try again."

// RemovePrompt is the question put to the Confirmer.
func RemovePrompt(email, activityName string) string {
	return fmt.Sprintf("Are you sure you want to remove %s from %s?", email, activityName)
}

// RemoveSuccessMessage is the banner text after a successful removal.
func RemoveSuccessMessage(email, activityName string) string {
	return fmt.Sprintf("Successfully removed %s from %s!", email, activityName)
}

// RemoveParticipantInput carries input for the remove participant orchestrator.
type RemoveParticipantInput struct {
	ActivityName string
	Email        string
}

// RemoveParticipantDeps holds dependencies for RemoveParticipant.
type RemoveParticipantDeps struct {
	Client    RemovalClient
	Confirmer Confirmer
	Notifier  Notifier
	// Refresh re-fetches the activity collection; called exactly once after a successful removal.
	Refresh func(ctx context.Context) error
}

// RemoveParticipantResult reports the outcome.
type RemoveParticipantResult struct {
	Confirmed bool
	Removed   bool
	Message   string // banner text, empty when declined
}

// ExecuteRemoveParticipant removes a participant after the Confirmer agrees.
// PRE: Client, Confirmer and Notifier are set; ActivityName and Email are non-empty
// POST: Declined issues no call and no notification. Success notifies success and refreshes
// once. Failure notifies error and does not refresh.
func ExecuteRemoveParticipant(ctx context.Context, input RemoveParticipantInput, deps RemoveParticipantDeps) (RemoveParticipantResult, error) {
	activityName := input.ActivityName
	email := strings.TrimSpace(input.Email)
	if strings.TrimSpace(activityName) == "" || email == "" {
		return RemoveParticipantResult{}, ErrMissingParticipant
	}
	if deps.Client == nil || deps.Confirmer == nil || deps.Notifier == nil {
		return RemoveParticipantResult{}, errors.New("remove participant: client, confirmer and notifier are required")
	}

	if !deps.Confirmer.Confirm(ctx, RemovePrompt(email, activityName)) {
		slog.Debug("participant_event", "event", "removal_declined", "activity", activityName)
		return RemoveParticipantResult{}, nil
	}

	if _, err := deps.Client.RemoveParticipant(ctx, activityName, email); err != nil {
		msg := activitiesapi.MessageOf(err, removeFailedMessage)
		deps.Notifier.Notify(msg, notification.SeverityError)
		slog.Info("participant_event", "event", "removal_rejected", "activity", activityName, "status", activitiesapi.StatusOf(err))
		return RemoveParticipantResult{Confirmed: true, Message: msg}, err
	}

	msg := RemoveSuccessMessage(email, activityName)
	deps.Notifier.Notify(msg, notification.SeveritySuccess)
	slog.Info("participant_event", "event", "participant_removed", "activity", activityName)

	if deps.Refresh != nil {
		if err := deps.Refresh(ctx); err != nil {
			slog.Warn("participant_event", "event", "refresh_failed", "error", err)
		}
	}
	return RemoveParticipantResult{Confirmed: true, Removed: true, Message: msg}, nil
}
