package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"portal/internal/adapters/activitiesapi"
	"portal/internal/domain/notification"
	"portal/internal/domain/signup"
)

// signupFailedMessage is shown when a failure carries no message of its own.
const signupFailedMessage = "Failed to sign up. Please try again."

// SignupSuccessMessage is the banner text after a successful signup.
func SignupSuccessMessage(email, activityName string) string {
	return fmt.Sprintf("Successfully signed up %s for %s!", email, activityName)
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	ActivityName string
	Email        string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	Client   SignupClient
	Notifier Notifier
	// Refresh re-fetches the activity collection; called exactly once after a successful signup.
	Refresh func(ctx context.Context) error
	// Confirmation, when set, emails the student after a successful signup.
	Confirmation *SignupConfirmationDeps
}

// SignupResult reports the outcome shown to the user.
type SignupResult struct {
	Accepted bool
	Message  string // banner text
}

// ExecuteSignup registers a student for an activity.
// PRE: Client and Notifier are set
// POST: Incomplete input returns signup.ErrIncomplete with no call and no notification.
// Success notifies success and refreshes once. Failure notifies error and does not refresh.
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	intent := signup.Intent{Email: input.Email, Activity: input.ActivityName}.Normalize()
	if err := intent.Validate(); err != nil {
		return SignupResult{}, err
	}
	if deps.Client == nil || deps.Notifier == nil {
		return SignupResult{}, errors.New("signup: client and notifier are required")
	}

	if _, err := deps.Client.Signup(ctx, intent.Activity, intent.Email); err != nil {
		msg := activitiesapi.MessageOf(err, signupFailedMessage)
		deps.Notifier.Notify(msg, notification.SeverityError)
		slog.Info("signup_event", "event", "signup_rejected", "activity", intent.Activity, "status", activitiesapi.StatusOf(err))
		return SignupResult{Message: msg}, err
	}

	msg := SignupSuccessMessage(intent.Email, intent.Activity)
	deps.Notifier.Notify(msg, notification.SeveritySuccess)
	slog.Info("signup_event", "event", "signed_up", "activity", intent.Activity)

	if deps.Refresh != nil {
		if err := deps.Refresh(ctx); err != nil {
			slog.Warn("signup_event", "event", "refresh_failed", "error", err)
		}
	}

	if deps.Confirmation != nil && deps.Confirmation.Sender != nil {
		_, err := ExecuteSendSignupConfirmation(ctx, SignupConfirmationInput{
			Email:        intent.Email,
			ActivityName: intent.Activity,
		}, *deps.Confirmation)
		if err != nil {
			slog.Warn("signup_event", "event", "confirmation_email_failed", "activity", intent.Activity, "error", err)
		}
	}

	return SignupResult{Accepted: true, Message: msg}, nil
}
