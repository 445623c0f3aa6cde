package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// EntryKind distinguishes portal requests from calls to the activities service.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindUpstream
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /" for requests, "POST /activities/{name}/signup" for upstream calls
	StatusCode int    // 0 when an upstream call never got a response
	DurationMs float64
	Timestamp  time.Time
}

// Failed reports whether the entry is an upstream call that errored or got a non-2xx status.
func (e Entry) Failed() bool {
	return e.Kind == KindUpstream && (e.StatusCode == 0 || e.StatusCode >= 300)
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, oldest entries are overwritten. Aggregation happens only on Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64 // total entries ever written (atomic)
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0, otherwise DefaultRingSize is used
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e is a valid Entry
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated timings computed on read.
type Snapshot struct {
	TotalRecorded   int64      `json:"total_recorded"`
	Requests        int        `json:"requests"`
	RequestP50Ms    float64    `json:"request_p50_ms"`
	RequestP95Ms    float64    `json:"request_p95_ms"`
	UpstreamCalls   int        `json:"upstream_calls"`
	UpstreamFailed  int        `json:"upstream_failed"`
	UpstreamP50Ms   float64    `json:"upstream_p50_ms"`
	UpstreamP95Ms   float64    `json:"upstream_p95_ms"`
	SlowestPaths    []PathStat `json:"slowest_paths"`
	SlowestUpstream []PathStat `json:"slowest_upstream"`
}

// PathStat aggregates timing for a single path.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"-"`
}

// Snapshot aggregates entries recorded at or after since, keeping the topN slowest paths per kind.
// PRE: topN >= 0
// POST: Returns percentiles and top-N lists; the buffer is not modified
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	var reqDur, upDur []float64
	reqStats := make(map[string]*PathStat)
	upStats := make(map[string]*PathStat)
	failed := 0

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats := reqStats
		if e.Kind == KindUpstream {
			stats = upStats
			upDur = append(upDur, e.DurationMs)
			if e.Failed() {
				failed++
			}
		} else {
			reqDur = append(reqDur, e.DurationMs)
		}
		s, ok := stats[e.Path]
		if !ok {
			s = &PathStat{Path: e.Path}
			stats[e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
	}

	slices.Sort(reqDur)
	slices.Sort(upDur)
	return Snapshot{
		TotalRecorded:   c.TotalRecorded(),
		Requests:        len(reqDur),
		RequestP50Ms:    percentile(reqDur, 50),
		RequestP95Ms:    percentile(reqDur, 95),
		UpstreamCalls:   len(upDur),
		UpstreamFailed:  failed,
		UpstreamP50Ms:   percentile(upDur, 50),
		UpstreamP95Ms:   percentile(upDur, 95),
		SlowestPaths:    topByAvg(reqStats, topN),
		SlowestUpstream: topByAvg(upStats, topN),
	}
}

// percentile returns the p-th percentile from a sorted slice, interpolating between ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	out := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
