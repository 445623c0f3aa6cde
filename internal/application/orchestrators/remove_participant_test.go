package orchestrators

import (
	"context"
	"errors"
	"testing"

	"portal/internal/adapters/activitiesapi"
	"portal/internal/domain/notification"
)

type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (c *recordingConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

// TestExecuteRemoveParticipant_Confirmed tests the happy path after the user agrees.
func TestExecuteRemoveParticipant_Confirmed(t *testing.T) {
	client := &mockClient{}
	notifier := &mockNotifier{}
	confirmer := &recordingConfirmer{answer: true}
	refresh := &refreshCounter{}

	res, err := ExecuteRemoveParticipant(context.Background(), RemoveParticipantInput{
		ActivityName: "Chess Club", Email: "michael@mergington.edu",
	}, RemoveParticipantDeps{Client: client, Confirmer: confirmer, Notifier: notifier, Refresh: refresh.refresh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Confirmed || !res.Removed {
		t.Errorf("result = %+v", res)
	}
	wantPrompt := "Are you sure you want to remove michael@mergington.edu from Chess Club?"
	if len(confirmer.prompts) != 1 || confirmer.prompts[0] != wantPrompt {
		t.Errorf("prompts = %v", confirmer.prompts)
	}
	if len(client.removals) != 1 {
		t.Errorf("removals = %d, want 1", len(client.removals))
	}
	want := "Successfully removed michael@mergington.edu from Chess Club!"
	if got := notifier.last(); got.text != want || got.severity != notification.SeveritySuccess {
		t.Errorf("notice = %+v", got)
	}
	if refresh.calls != 1 {
		t.Errorf("refresh calls = %d, want 1", refresh.calls)
	}
}

// TestExecuteRemoveParticipant_Declined tests that declining is a silent no-op.
func TestExecuteRemoveParticipant_Declined(t *testing.T) {
	client := &mockClient{}
	notifier := &mockNotifier{}
	refresh := &refreshCounter{}

	res, err := ExecuteRemoveParticipant(context.Background(), RemoveParticipantInput{
		ActivityName: "Chess Club", Email: "michael@mergington.edu",
	}, RemoveParticipantDeps{Client: client, Confirmer: &recordingConfirmer{answer: false}, Notifier: notifier, Refresh: refresh.refresh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confirmed || res.Removed || res.Message != "" {
		t.Errorf("result = %+v, want zero", res)
	}
	if len(client.removals) != 0 || len(notifier.notices) != 0 || refresh.calls != 0 {
		t.Errorf("removals=%d notices=%d refresh=%d, want all zero", len(client.removals), len(notifier.notices), refresh.calls)
	}
}

// TestExecuteRemoveParticipant_NotFound tests that a 404 detail is shown and no refresh happens.
func TestExecuteRemoveParticipant_NotFound(t *testing.T) {
	client := &mockClient{removeErr: &activitiesapi.RequestError{
		Kind: activitiesapi.ApplicationError, Op: "remove participant", StatusCode: 404, Message: "Participant not found",
	}}
	notifier := &mockNotifier{}
	refresh := &refreshCounter{}

	res, err := ExecuteRemoveParticipant(context.Background(), RemoveParticipantInput{
		ActivityName: "Chess Club", Email: "ghost@mergington.edu",
	}, RemoveParticipantDeps{Client: client, Confirmer: AlwaysConfirm, Notifier: notifier, Refresh: refresh.refresh})
	if err == nil {
		t.Fatal("expected error")
	}
	if activitiesapi.StatusOf(err) != 404 {
		t.Errorf("status = %d, want 404", activitiesapi.StatusOf(err))
	}
	if !res.Confirmed || res.Removed || res.Message != "Participant not found" {
		t.Errorf("result = %+v", res)
	}
	if got := notifier.last(); got.severity != notification.SeverityError {
		t.Errorf("notice = %+v, want error", got)
	}
	if refresh.calls != 0 {
		t.Errorf("refresh calls = %d, want 0", refresh.calls)
	}
}

// TestExecuteRemoveParticipant_Guards tests input and dependency validation.
func TestExecuteRemoveParticipant_Guards(t *testing.T) {
	client := &mockClient{}
	_, err := ExecuteRemoveParticipant(context.Background(), RemoveParticipantInput{ActivityName: " ", Email: "a@b"},
		RemoveParticipantDeps{Client: client, Confirmer: AlwaysConfirm, Notifier: &mockNotifier{}})
	if !errors.Is(err, ErrMissingParticipant) {
		t.Errorf("err = %v, want ErrMissingParticipant", err)
	}
	_, err = ExecuteRemoveParticipant(context.Background(), RemoveParticipantInput{ActivityName: "Chess Club", Email: "a@b"},
		RemoveParticipantDeps{Client: client, Notifier: &mockNotifier{}})
	if err == nil {
		t.Error("expected error for nil confirmer")
	}
	if len(client.removals) != 0 {
		t.Errorf("removals = %d, want 0", len(client.removals))
	}
}

// TestExecuteRemoveParticipant_KeepsActivityKey tests that the activity name is sent as listed.
func TestExecuteRemoveParticipant_KeepsActivityKey(t *testing.T) {
	client := &mockClient{}
	_, err := ExecuteRemoveParticipant(context.Background(), RemoveParticipantInput{
		ActivityName: "Chess Club ", Email: " michael@mergington.edu",
	}, RemoveParticipantDeps{Client: client, Confirmer: AlwaysConfirm, Notifier: &mockNotifier{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.removals) != 1 || client.removals[0] != (call{"Chess Club ", "michael@mergington.edu"}) {
		t.Errorf("removals = %q", client.removals)
	}
}
