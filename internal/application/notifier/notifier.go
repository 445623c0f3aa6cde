// Package notifier holds the page's transient status message.
//
// A controller is either idle (nothing showing) or showing one message. Notify replaces
// whatever is showing and restarts the display window; the pending expiry for the replaced
// message is stopped, and a generation counter keeps a timer that already fired from
// clearing the newer message.
package notifier

import (
	"sync"
	"time"

	"portal/internal/domain/notification"
)

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Controller is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	current   notification.Notification
	timer     Timer
	gen       uint64
	ttl       time.Duration
	now       func() time.Time
	afterFunc AfterFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithAfterFunc overrides time.AfterFunc.
func WithAfterFunc(af AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = af }
}

// WithDuration overrides notification.DisplayDuration.
func WithDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// New creates an idle controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		ttl:       notification.DisplayDuration,
		now:       time.Now,
		afterFunc: realAfterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify shows text with severity, replacing any message already showing.
// PRE: severity is one of notification.ValidSeverities
// POST: Controller is showing the new message; the previous expiry timer is stopped
func (c *Controller) Notify(text string, severity notification.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	gen := c.gen

	now := c.now()
	c.current = notification.Notification{
		Text:      text,
		Severity:  severity,
		Visible:   true,
		ShownAt:   now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.timer = c.afterFunc(c.ttl, func() { c.expire(gen) })
}

// expire clears the message if it is still the one scheduled as gen.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.current = notification.Notification{}
	c.timer = nil
}

// Current returns a snapshot of what is showing; the zero value when idle.
func (c *Controller) Current() notification.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Clear dismisses the message immediately.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.gen++
	c.current = notification.Notification{}
}

// Stop cancels any pending expiry without changing what is showing.
// Used when the owning page session is discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
