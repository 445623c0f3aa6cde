package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	emailAdapter "portal/internal/adapters/email"
)

var confirmationTemplate = template.Must(template.New("signup_confirmation").Parse(
	`<p>Hi {{.Email}},</p>
<p>You are now signed up for <strong>{{.ActivityName}}</strong> at Mergington High School.</p>
<p>If this wasn't you, ask a teacher to remove you from the activity.</p>`))

// SignupConfirmationInput carries input for the confirmation email.
type SignupConfirmationInput struct {
	Email        string
	ActivityName string
}

// SignupConfirmationDeps holds dependencies for SendSignupConfirmation.
type SignupConfirmationDeps struct {
	Sender      emailAdapter.Sender
	FromAddress string
	ReplyTo     string
}

// ExecuteSendSignupConfirmation emails a student that their signup went through.
// PRE: Email and ActivityName are non-empty; Sender is configured
// POST: Exactly one email is handed to the sender
func ExecuteSendSignupConfirmation(ctx context.Context, input SignupConfirmationInput, deps SignupConfirmationDeps) (emailAdapter.SendResult, error) {
	if input.Email == "" || input.ActivityName == "" {
		return emailAdapter.SendResult{}, errors.New("email and activity name are required")
	}
	if deps.Sender == nil {
		return emailAdapter.SendResult{}, errors.New("email sender is not configured")
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, input); err != nil {
		return emailAdapter.SendResult{}, fmt.Errorf("render confirmation: %w", err)
	}

	res, err := deps.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{input.Email},
		From:    deps.FromAddress,
		Subject: "You're signed up for " + input.ActivityName,
		HTML:    body.String(),
		ReplyTo: deps.ReplyTo,
		Tags:    map[string]string{"category": "signup_confirmation"},
	})
	if err != nil {
		return emailAdapter.SendResult{}, err
	}

	slog.Info("email_event", "event", "signup_confirmation_sent", "message_id", res.MessageID, "activity", input.ActivityName)
	return res, nil
}
