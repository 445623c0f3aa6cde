// Package portal holds the per-page state of the signup portal: the activity view-state, the
// signup form intent and the status banner, and wires the orchestrators that mutate them.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"portal/internal/application/notifier"
	"portal/internal/application/orchestrators"
	"portal/internal/application/viewstate"
	"portal/internal/domain/activity"
	"portal/internal/domain/notification"
	"portal/internal/domain/signup"
)

// Client is the subset of the activities service the portal calls.
type Client interface {
	orchestrators.ActivityLister
	orchestrators.SignupClient
	orchestrators.RemovalClient
}

// Deps holds dependencies for a Controller.
type Deps struct {
	Client    Client
	Confirmer orchestrators.Confirmer
	// Mailer, when set, sends a confirmation email after each successful signup.
	Mailer *orchestrators.SignupConfirmationDeps
	Now    func() time.Time
	// NotifierOptions are passed to the banner controller (clock, timer factory, duration).
	NotifierOptions []notifier.Option
}

// Option is one entry of the signup form's activity dropdown.
type Option struct {
	Name      string
	Available int
	Full      bool
}

// View is the read model rendered by the templates.
type View struct {
	Activities   []activity.Activity
	Loaded       bool
	Loading      bool
	Notification notification.Notification
	Intent       signup.Intent
	Options      []Option
	FetchedAt    time.Time
}

// Controller owns one page session.
type Controller struct {
	client    Client
	confirmer orchestrators.Confirmer
	mailer    *orchestrators.SignupConfirmationDeps
	now       func() time.Time

	store *viewstate.Store
	notes *notifier.Controller

	mu       sync.Mutex
	intent   signup.Intent
	loading  bool
	loadDone chan struct{}
}

// New creates a controller with an empty store and an idle banner.
// PRE: deps.Client is set
// POST: Nothing is fetched until Start, EnsureLoaded or LoadActivities is called
func New(deps Deps) *Controller {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	opts := append([]notifier.Option{notifier.WithClock(now)}, deps.NotifierOptions...)
	return &Controller{
		client:    deps.Client,
		confirmer: deps.Confirmer,
		mailer:    deps.Mailer,
		now:       now,
		store:     viewstate.New(),
		notes:     notifier.New(opts...),
	}
}

// LoadActivities fetches the collection and replaces the store wholesale.
// PRE: none
// POST: Failure leaves the store untouched and shows the load failure banner
func (c *Controller) LoadActivities(ctx context.Context) error {
	_, err := orchestrators.ExecuteLoadActivities(ctx, orchestrators.LoadActivitiesDeps{
		Lister:   c.client,
		Store:    c.store,
		Notifier: c.notes,
		Now:      c.now,
	})
	return err
}

// Start kicks off the first load in the background.
// The returned channel is closed once that load resolves. Calling Start while a load is
// running returns the running load's channel.
func (c *Controller) Start(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(ctx)
}

// EnsureLoaded starts a background load only when nothing was ever loaded and no load is running.
// It returns nil when no load was started.
func (c *Controller) EnsureLoaded(ctx context.Context) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return c.loadDone
	}
	if _, loaded := c.store.Snapshot(); loaded {
		return nil
	}
	return c.startLocked(ctx)
}

func (c *Controller) startLocked(ctx context.Context) <-chan struct{} {
	if c.loading {
		return c.loadDone
	}
	c.loading = true
	done := make(chan struct{})
	c.loadDone = done

	// The page request that triggered the load ends before the load does.
	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		if err := c.LoadActivities(bg); err != nil {
			slog.Debug("portal_event", "event", "initial_load_failed", "error", err)
		}
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()
	return done
}

// HandleSignup registers email for activityName and refreshes the list on success.
// PRE: none
// POST: Returns true only when the service accepted the signup
func (c *Controller) HandleSignup(ctx context.Context, activityName, email string) bool {
	res, err := orchestrators.ExecuteSignup(ctx, orchestrators.SignupInput{
		ActivityName: activityName,
		Email:        email,
	}, orchestrators.SignupDeps{
		Client:       c.client,
		Notifier:     c.notes,
		Refresh:      c.LoadActivities,
		Confirmation: c.mailer,
	})
	if err != nil && !errors.Is(err, signup.ErrIncomplete) {
		slog.Debug("portal_event", "event", "signup_failed", "error", err)
	}
	return res.Accepted
}

// SubmitSignup is the form contract. The intent is retained until the service accepts it.
// PRE: none
// POST: Incomplete intent issues no call and no notification
func (c *Controller) SubmitSignup(ctx context.Context, intent signup.Intent) bool {
	intent = intent.Normalize()
	c.mu.Lock()
	c.intent = intent
	c.mu.Unlock()

	if !intent.Complete() {
		return false
	}
	if !c.HandleSignup(ctx, intent.Activity, intent.Email) {
		return false
	}

	c.mu.Lock()
	if c.intent == intent {
		c.intent = signup.Intent{}
	}
	c.mu.Unlock()
	return true
}

// HandleRemoveParticipant asks the Confirmer, then removes email from activityName.
// PRE: none
// POST: Declined issues no call and no notification. Returns true only when removed.
func (c *Controller) HandleRemoveParticipant(ctx context.Context, activityName, email string) bool {
	res, err := orchestrators.ExecuteRemoveParticipant(ctx, orchestrators.RemoveParticipantInput{
		ActivityName: activityName,
		Email:        email,
	}, orchestrators.RemoveParticipantDeps{
		Client:    c.client,
		Confirmer: c.confirmer,
		Notifier:  c.notes,
		Refresh:   c.LoadActivities,
	})
	if err != nil {
		slog.Debug("portal_event", "event", "removal_failed", "error", err)
	}
	return res.Removed
}

// Notify shows a banner on this page session.
func (c *Controller) Notify(text string, severity notification.Severity) {
	c.notes.Notify(text, severity)
}

// View returns a consistent snapshot for rendering.
func (c *Controller) View() View {
	col, loaded := c.store.Snapshot()

	c.mu.Lock()
	intent := c.intent
	loading := c.loading
	c.mu.Unlock()

	acts := col.All()
	options := make([]Option, 0, len(acts))
	for _, a := range acts {
		options = append(options, Option{Name: a.Name, Available: a.AvailableSpots(), Full: a.IsFull()})
	}

	return View{
		Activities:   acts,
		Loaded:       loaded,
		Loading:      loading && !loaded,
		Notification: c.notes.Current(),
		Intent:       intent,
		Options:      options,
		FetchedAt:    c.store.FetchedAt(),
	}
}

// Close stops the banner timer. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.notes.Stop()
}
