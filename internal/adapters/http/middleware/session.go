package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"portal/internal/application/portal"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "page_session"

// SessionCookieName is the cookie carrying the page session token.
const SessionCookieName = "portal_session"

// SecureCookies marks session cookies Secure. Set by the web adapter in production.
var SecureCookies = false

// PageSession is one browser's portal state.
type PageSession struct {
	Token      string
	Controller *portal.Controller
	CreatedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *PageSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *PageSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore is an in-memory page session store.
// Sessions idle for longer than ttl are evicted and their controllers closed.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*PageSession
	ttl      time.Duration
	factory  func() *portal.Controller
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionStore creates a store that builds a controller per new session with factory.
// PRE: ttl > 0; factory is non-nil
// POST: A janitor goroutine sweeps idle sessions until Close
func NewSessionStore(ttl time.Duration, factory func() *portal.Controller) *SessionStore {
	ss := &SessionStore{
		sessions: make(map[string]*PageSession),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go ss.janitor(time.Minute)
	return ss
}

func (ss *SessionStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := ss.Sweep(); n > 0 {
				slog.Debug("session_event", "event", "swept", "count", n)
			}
		case <-ss.stop:
			return
		}
	}
}

// Create stores a new session and returns it.
// PRE: none
// POST: Session is stored under a fresh uuid token
func (ss *SessionStore) Create() *PageSession {
	now := ss.now()
	sess := &PageSession{
		Token:      uuid.NewString(),
		Controller: ss.factory(),
		CreatedAt:  now,
		lastSeen:   now,
	}
	ss.mu.Lock()
	ss.sessions[sess.Token] = sess
	ss.mu.Unlock()
	return sess
}

// Get retrieves a session by token and marks it as seen.
// PRE: token is non-empty
// POST: Returns the session if present and not idle past the ttl
func (ss *SessionStore) Get(token string) (*PageSession, bool) {
	ss.mu.RLock()
	sess, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := ss.now()
	if now.Sub(sess.idleSince()) > ss.ttl {
		ss.Delete(token)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Delete removes a session by token and stops its banner timer.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	sess, ok := ss.sessions[token]
	delete(ss.sessions, token)
	ss.mu.Unlock()
	if ok {
		sess.Controller.Close()
	}
}

// Sweep evicts every idle session and returns how many were removed.
func (ss *SessionStore) Sweep() int {
	now := ss.now()
	var expired []*PageSession

	ss.mu.Lock()
	for token, sess := range ss.sessions {
		if now.Sub(sess.idleSince()) > ss.ttl {
			expired = append(expired, sess)
			delete(ss.sessions, token)
		}
	}
	ss.mu.Unlock()

	for _, sess := range expired {
		sess.Controller.Close()
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Close stops the janitor and every session controller.
func (ss *SessionStore) Close() {
	ss.stopOnce.Do(func() { close(ss.stop) })

	ss.mu.Lock()
	sessions := ss.sessions
	ss.sessions = make(map[string]*PageSession)
	ss.mu.Unlock()

	for _, sess := range sessions {
		sess.Controller.Close()
	}
}

// sessionExempt reports paths that never need page state.
func sessionExempt(path string) bool {
	return strings.HasPrefix(path, "/static/") || path == "/healthz" || path == "/api/perf"
}

// Sessions returns middleware that attaches the caller's page session to the context,
// creating one (and setting the cookie) when the cookie is missing or stale.
func Sessions(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessionExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			var sess *PageSession
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sess, _ = store.Get(cookie.Value)
			}
			if sess == nil {
				sess = store.Create()
				SetSessionCookie(w, sess.Token, store.ttl)
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// GetSessionFromContext extracts the page session from the request context.
func GetSessionFromContext(ctx context.Context) (*PageSession, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*PageSession)
	return sess, ok && sess != nil
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess *PageSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}
