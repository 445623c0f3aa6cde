package web

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"portal/internal/adapters/activitiesapi"
	"portal/internal/adapters/http/perf"
	"portal/internal/application/notifier"
	"portal/internal/application/portal"
	"portal/internal/domain/activity"
)

// --- Fake activities service ---

type fakeService struct {
	mu        sync.Mutex
	acts      []activity.Activity
	listErr   error
	mutations int
}

func (f *fakeService) ListActivities(_ context.Context) (activity.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return activity.Collection{}, f.listErr
	}
	return activity.NewCollection(f.acts...)
}

func (f *fakeService) Signup(_ context.Context, activityName, email string) (activitiesapi.Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	for i := range f.acts {
		if f.acts[i].Name != activityName {
			continue
		}
		if slices.Contains(f.acts[i].Participants, email) {
			return activitiesapi.Confirmation{}, &activitiesapi.RequestError{
				Kind: activitiesapi.ApplicationError, StatusCode: 400, Message: "Student is already signed up",
			}
		}
		f.acts[i].Participants = append(f.acts[i].Participants, email)
		return activitiesapi.Confirmation{Message: "Signed up " + email + " for " + activityName}, nil
	}
	return activitiesapi.Confirmation{}, &activitiesapi.RequestError{
		Kind: activitiesapi.ApplicationError, StatusCode: 404, Message: "Activity not found",
	}
}

func (f *fakeService) RemoveParticipant(_ context.Context, activityName, email string) (activitiesapi.Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	for i := range f.acts {
		if f.acts[i].Name != activityName {
			continue
		}
		for j, p := range f.acts[i].Participants {
			if p == email {
				f.acts[i].Participants = append(f.acts[i].Participants[:j:j], f.acts[i].Participants[j+1:]...)
				return activitiesapi.Confirmation{Message: "Unregistered " + email + " from " + activityName}, nil
			}
		}
	}
	return activitiesapi.Confirmation{}, &activitiesapi.RequestError{
		Kind: activitiesapi.ApplicationError, StatusCode: 404, Message: "Participant not found",
	}
}

func (f *fakeService) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

func seedActivities() []activity.Activity {
	return []activity.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn **strategies** and compete <script>alert(1)</script>",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu"},
		},
		{
			Name:            "Art Club",
			Description:     "Paint and draw",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 1,
			Participants:    []string{"amy@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act on stage",
			Schedule:        "Mondays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
		},
	}
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

// testEnv is a running portal behind httptest with a cookie-carrying client.
type testEnv struct {
	srv       *httptest.Server
	client    *http.Client
	collector *perf.Collector
}

func newTestEnv(t *testing.T, client portal.Client) *testEnv {
	t.Helper()
	prevWait := firstPaintWait
	firstPaintWait = 2 * time.Second

	collector := perf.NewCollector(100)
	handler := NewMux(Deps{
		Client:     client,
		Collector:  collector,
		CSRFKey:    bytes.Repeat([]byte{7}, 32),
		RateLimit:  1000,
		SessionTTL: time.Hour,
		NotifierOptions: []notifier.Option{
			notifier.WithAfterFunc(func(time.Duration, func()) notifier.Timer { return manualTimer{} }),
		},
	})
	srv := httptest.NewServer(handler)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	env := &testEnv{
		srv:       srv,
		collector: collector,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	t.Cleanup(func() {
		srv.Close()
		Close()
		firstPaintWait = prevWait
	})
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func (e *testEnv) getHTML(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	req.Header.Set("Accept", "text/html")
	return e.do(t, req)
}

func (e *testEnv) getJSON(t *testing.T, path string, v any) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	req.Header.Set("Accept", "application/json")
	resp, body := e.do(t, req)
	if v != nil {
		if err := json.Unmarshal([]byte(body), v); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, body)
		}
	}
	return resp
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return e.do(t, req)
}

func (e *testEnv) postJSON(t *testing.T, path string, payload any, v any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, body := e.do(t, req)
	if v != nil {
		if err := json.Unmarshal([]byte(body), v); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, body)
		}
	}
	return resp
}

var csrfFieldRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

// csrfToken loads the index page and returns the form token.
func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	_, body := e.getHTML(t, "/")
	m := csrfFieldRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no csrf field in page:\n%s", body)
	}
	return html.UnescapeString(m[1])
}
