package web

import (
	"time"

	"portal/internal/application/portal"
	"portal/internal/domain/notification"
	"portal/internal/domain/signup"
)

type activityJSON struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	Available       int      `json:"available"`
	Full            bool     `json:"full"`
}

type notificationJSON struct {
	Text        string                `json:"text"`
	Severity    notification.Severity `json:"severity"`
	RemainingMs int64                 `json:"remaining_ms"`
}

// stateResponse is the JSON form of portal.View. Activities keep the service's order.
type stateResponse struct {
	Loaded       bool              `json:"loaded"`
	Loading      bool              `json:"loading"`
	FetchedAt    *time.Time        `json:"fetched_at,omitempty"`
	Activities   []activityJSON    `json:"activities"`
	Notification *notificationJSON `json:"notification"`
	Intent       signup.Intent     `json:"intent"`
}

type mutationResponse struct {
	OK           bool              `json:"ok"`
	Confirmed    *bool             `json:"confirmed,omitempty"`
	Notification *notificationJSON `json:"notification"`
}

func notificationFor(n notification.Notification, now time.Time) *notificationJSON {
	b := bannerFor(n, now)
	if b == nil {
		return nil
	}
	return &notificationJSON{Text: b.Text, Severity: b.Severity, RemainingMs: b.RemainingMs}
}

func stateFor(v portal.View, now time.Time) stateResponse {
	acts := make([]activityJSON, 0, len(v.Activities))
	for _, a := range v.Activities {
		participants := a.Participants
		if participants == nil {
			participants = []string{}
		}
		acts = append(acts, activityJSON{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
			Available:       a.AvailableSpots(),
			Full:            a.IsFull(),
		})
	}
	resp := stateResponse{
		Loaded:       v.Loaded,
		Loading:      v.Loading,
		Activities:   acts,
		Notification: notificationFor(v.Notification, now),
		Intent:       v.Intent,
	}
	if !v.FetchedAt.IsZero() {
		fetched := v.FetchedAt
		resp.FetchedAt = &fetched
	}
	return resp
}
