package web

import (
	"errors"
	"net/http"
	"time"

	"portal/internal/adapters/http/middleware"
	"portal/internal/adapters/http/perf"
	"portal/internal/application/orchestrators"
	"portal/internal/application/portal"
	"portal/internal/domain/signup"
)

const pageTitle = "Mergington High School Activities"

// firstPaintWait is how long the index page waits for a first load before showing the
// loading indicator. Tests can raise it.
var firstPaintWait = 300 * time.Millisecond

// perfWindow is the window summarised by /api/perf.
const perfWindow = 15 * time.Minute

func currentController(w http.ResponseWriter, r *http.Request) (*portal.Controller, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		internalError(w, errors.New("request has no page session"))
		return nil, false
	}
	return sess.Controller, true
}

// handleIndex renders the activity list and the signup form.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	ctl, ok := currentController(w, r)
	if !ok {
		return
	}
	if done := ctl.EnsureLoaded(r.Context()); done != nil {
		select {
		case <-done:
		case <-time.After(firstPaintWait):
		case <-r.Context().Done():
			return
		}
	}
	renderTemplate(w, r, "index.html", newPageData(r, pageTitle, ctl.View()))
}

// handleSignup handles POST /signup from the form or as JSON.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	ctl, ok := currentController(w, r)
	if !ok {
		return
	}

	var intent signup.Intent
	if isJSONRequest(r) {
		if err := strictDecode(r, &intent); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	} else {
		intent = signup.Intent{Email: r.FormValue("email"), Activity: r.FormValue("activity")}
	}

	accepted := ctl.SubmitSignup(r.Context(), intent)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		OK:           accepted,
		Notification: notificationFor(ctl.View().Notification, timeNow()),
	})
}

// handleConfirmRemove renders the yes/no page in front of a removal.
func handleConfirmRemove(w http.ResponseWriter, r *http.Request) {
	ctl, ok := currentController(w, r)
	if !ok {
		return
	}
	activityName, email := r.PathValue("activity"), r.PathValue("email")
	if activityName == "" || email == "" {
		http.Error(w, "activity and email are required", http.StatusBadRequest)
		return
	}

	data := newPageData(r, "Remove participant", ctl.View())
	data.View.Loading = false
	data.Prompt = orchestrators.RemovePrompt(email, activityName)
	data.Action = removePath(activityName, email)
	data.Activity = activityName
	data.Email = email
	renderTemplate(w, r, "confirm_remove.html", data)
}

// handleRemove handles the answer to the confirmation page.
// Form posts send confirm=yes|no; JSON clients send {"confirm": true|false}.
func handleRemove(w http.ResponseWriter, r *http.Request) {
	ctl, ok := currentController(w, r)
	if !ok {
		return
	}
	activityName, email := r.PathValue("activity"), r.PathValue("email")

	var yes bool
	if isJSONRequest(r) {
		var body struct {
			Confirm bool `json:"confirm"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		yes = body.Confirm
	} else {
		yes = r.FormValue("confirm") == "yes"
	}

	removed := ctl.HandleRemoveParticipant(withConfirmation(r.Context(), yes), activityName, email)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		OK:           removed,
		Confirmed:    &yes,
		Notification: notificationFor(ctl.View().Notification, timeNow()),
	})
}

// handleState returns the page session's view as JSON.
func handleState(w http.ResponseWriter, r *http.Request) {
	ctl, ok := currentController(w, r)
	if !ok {
		return
	}
	ctl.EnsureLoaded(r.Context())
	writeJSON(w, http.StatusOK, stateFor(ctl.View(), timeNow()))
}

// handlePerf returns request and upstream timing for the last perfWindow.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-perfWindow), 10))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
