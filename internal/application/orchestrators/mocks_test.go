package orchestrators

import (
	"context"
	"sync"
	"time"

	"portal/internal/adapters/activitiesapi"
	emailAdapter "portal/internal/adapters/email"
	"portal/internal/domain/activity"
	"portal/internal/domain/notification"
)

// --- Mock activities client ---

type mockClient struct {
	mu         sync.Mutex
	collection activity.Collection
	listErr    error
	signupErr  error
	removeErr  error
	lists      int
	signups    []call
	removals   []call
}

type call struct {
	activity string
	email    string
}

// ListActivities returns the configured collection.
// PRE: none
// POST: Increments the list counter
func (m *mockClient) ListActivities(_ context.Context) (activity.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return activity.Collection{}, m.listErr
	}
	return m.collection, nil
}

// Signup records the call and returns the configured error.
// PRE: none
// POST: Call appended to signups
func (m *mockClient) Signup(_ context.Context, activityName, email string) (activitiesapi.Confirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups = append(m.signups, call{activityName, email})
	if m.signupErr != nil {
		return activitiesapi.Confirmation{}, m.signupErr
	}
	return activitiesapi.Confirmation{Message: "Signed up " + email + " for " + activityName}, nil
}

// RemoveParticipant records the call and returns the configured error.
// PRE: none
// POST: Call appended to removals
func (m *mockClient) RemoveParticipant(_ context.Context, activityName, email string) (activitiesapi.Confirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removals = append(m.removals, call{activityName, email})
	if m.removeErr != nil {
		return activitiesapi.Confirmation{}, m.removeErr
	}
	return activitiesapi.Confirmation{Message: "Removed " + email + " from " + activityName}, nil
}

// --- Mock notifier ---

type notice struct {
	text     string
	severity notification.Severity
}

type mockNotifier struct {
	notices []notice
}

// Notify records the notice.
func (m *mockNotifier) Notify(text string, severity notification.Severity) {
	m.notices = append(m.notices, notice{text, severity})
}

func (m *mockNotifier) last() notice {
	if len(m.notices) == 0 {
		return notice{}
	}
	return m.notices[len(m.notices)-1]
}

// --- Mock store ---

type mockStore struct {
	replaced  int
	current   activity.Collection
	fetchedAt time.Time
}

// Replace records the collection.
func (m *mockStore) Replace(c activity.Collection, fetchedAt time.Time) {
	m.replaced++
	m.current = c
	m.fetchedAt = fetchedAt
}

// --- Mock email sender ---

type mockSender struct {
	sent []emailAdapter.SendRequest
	err  error
}

// Send records the request.
// PRE: none
// POST: Request appended unless err is set
func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	if m.err != nil {
		return emailAdapter.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

// refreshCounter counts Refresh invocations.
type refreshCounter struct {
	calls int
	err   error
}

func (r *refreshCounter) refresh(context.Context) error {
	r.calls++
	return r.err
}

func mustCollection(acts ...activity.Activity) activity.Collection {
	c, err := activity.NewCollection(acts...)
	if err != nil {
		panic(err)
	}
	return c
}
