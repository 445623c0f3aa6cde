package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"

	"portal/internal/adapters/http/middleware"
	"portal/internal/adapters/http/perf"
	"portal/internal/application/notifier"
	"portal/internal/application/orchestrators"
	"portal/internal/application/portal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps holds everything the web adapter needs.
type Deps struct {
	Client    portal.Client
	Mailer    *orchestrators.SignupConfirmationDeps
	Collector *perf.Collector

	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int // requests per second per IP
	SessionTTL     time.Duration
	SlowRequest    time.Duration
	// AccessLogger receives one record per request; nil disables the access log.
	AccessLogger *slog.Logger

	// NotifierOptions are passed to every page session's banner controller.
	NotifierOptions []notifier.Option
}

// Global session store instance (set by NewMux)
var sessions *middleware.SessionStore

// Global rate limiter (set by NewMux)
var limiter *middleware.RateLimiter

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the portal.
// PRE: deps.Client is set; deps.CSRFKey is 32 bytes
// POST: Returns the full middleware-wrapped handler; Close releases sessions and timers
func NewMux(deps Deps) http.Handler {
	perfCollector = deps.Collector
	middleware.SecureCookies = deps.SecureCookies

	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	rate := deps.RateLimit
	if rate <= 0 {
		rate = 10
	}

	sessions = middleware.NewSessionStore(ttl, func() *portal.Controller {
		return portal.New(portal.Deps{
			Client:          deps.Client,
			Confirmer:       requestConfirmer,
			Mailer:          deps.Mailer,
			NotifierOptions: deps.NotifierOptions,
		})
	})
	limiter = middleware.NewRateLimiter(rate, time.Second)

	mux := http.NewServeMux()
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	registerRoutes(mux)

	// Request flow: access log -> Timing -> RateLimit -> Sessions -> CSRF -> SecurityHeaders -> mux
	chain := []func(http.Handler) http.Handler{
		middleware.SecurityHeaders,
		middleware.CSRF(deps.CSRFKey, middleware.CSRFOptions{
			Secure:         deps.SecureCookies,
			TrustedOrigins: deps.TrustedOrigins,
		}),
		middleware.Sessions(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Collector, deps.SlowRequest),
	}
	if deps.AccessLogger != nil {
		chain = append(chain, sloghttp.NewWithConfig(deps.AccessLogger.With("logger", "http"), sloghttp.Config{
			WithRequestID: false,
		}))
	}
	return middleware.Chain(mux, chain...)
}

// Close stops every page session and background janitor.
func Close() {
	if sessions != nil {
		sessions.Close()
	}
	if limiter != nil {
		limiter.Stop()
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /signup", handleSignup)
	mux.HandleFunc("GET /activities/{activity}/participants/{email}/remove", handleConfirmRemove)
	mux.HandleFunc("POST /activities/{activity}/participants/{email}/remove", handleRemove)
	mux.HandleFunc("GET /api/state", handleState)
	mux.HandleFunc("GET /api/perf", handlePerf)
	mux.HandleFunc("GET /healthz", handleHealth)
}
