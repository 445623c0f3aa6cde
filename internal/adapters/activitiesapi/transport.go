package activitiesapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"portal/internal/adapters/http/perf"
)

type routeKey struct{}

// withRoute tags a request with its route template so timings group by endpoint, not by activity name.
func withRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(routeKey{}).(string); ok {
		return v
	}
	return r.URL.Path
}

// TimingTransport records upstream call durations in a perf collector.
type TimingTransport struct {
	next      http.RoundTripper
	collector *perf.Collector
}

// NewTimingTransport wraps next; a nil next means http.DefaultTransport.
func NewTimingTransport(next http.RoundTripper, collector *perf.Collector) *TimingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &TimingTransport{next: next, collector: collector}
}

// RoundTrip implements http.RoundTripper.
// PRE: r is a valid outbound request
// POST: One KindUpstream entry recorded; response and error are passed through untouched
func (t *TimingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	path := r.Method + " " + routeFrom(r)
	t.collector.Record(perf.Entry{
		Kind:       perf.KindUpstream,
		Path:       path,
		StatusCode: status,
		DurationMs: durationMs,
		Timestamp:  start,
	})
	slog.Debug("upstream_call", "path", path, "status", status, "duration_ms", durationMs)
	return resp, err
}
