package stats

import (
	"sync/atomic"
	"time"
)

// Stats holds process-local counters for the health and stats endpoints.
// The time-bucketed request metrics live in the shared store; these are
// cheap in-process diagnostics that survive a store outage.
type Stats struct {
	StartTime time.Time

	TotalRequests atomic.Int64
	FeedRequests  atomic.Int64
	AdminRequests atomic.Int64
	OtherRequests atomic.Int64

	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64

	totalResponseTime atomic.Int64 // microseconds
	responseCount     atomic.Int64
	maxResponseTime   atomic.Int64
}

var global = &Stats{
	StartTime: time.Now(),
}

// Get returns the global stats instance
func Get() *Stats {
	return global
}

// RecordRequest records a request against its endpoint class.
func (s *Stats) RecordRequest(class string) {
	s.TotalRequests.Add(1)
	switch class {
	case "feed":
		s.FeedRequests.Add(1)
	case "admin":
		s.AdminRequests.Add(1)
	default:
		s.OtherRequests.Add(1)
	}
}

// RecordStatusCode records a response status code
func (s *Stats) RecordStatusCode(code int) {
	switch {
	case code >= 200 && code < 300:
		s.Status2xx.Add(1)
	case code >= 400 && code < 500:
		s.Status4xx.Add(1)
	case code >= 500:
		s.Status5xx.Add(1)
	}
}

// RecordResponseTime records a response time
func (s *Stats) RecordResponseTime(duration time.Duration) {
	us := duration.Microseconds()
	s.totalResponseTime.Add(us)
	s.responseCount.Add(1)

	for {
		current := s.maxResponseTime.Load()
		if us <= current || s.maxResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
}

// Uptime returns the server uptime
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// AvgResponseTime returns the average response time
func (s *Stats) AvgResponseTime() time.Duration {
	count := s.responseCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(s.totalResponseTime.Load()/count) * time.Microsecond
}

// MaxResponseTime returns the maximum response time
func (s *Stats) MaxResponseTime() time.Duration {
	return time.Duration(s.maxResponseTime.Load()) * time.Microsecond
}

// Snapshot returns a point-in-time snapshot of all stats
func (s *Stats) Snapshot() map[string]interface{} {
	uptime := s.Uptime()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"start_time":     s.StartTime.Format(time.RFC3339),
			"uptime":         uptime.String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
		"requests": map[string]interface{}{
			"total": s.TotalRequests.Load(),
			"feed":  s.FeedRequests.Load(),
			"admin": s.AdminRequests.Load(),
			"other": s.OtherRequests.Load(),
		},
		"responses": map[string]interface{}{
			"2xx": s.Status2xx.Load(),
			"4xx": s.Status4xx.Load(),
			"5xx": s.Status5xx.Load(),
		},
		"response_times": map[string]interface{}{
			"avg": s.AvgResponseTime().String(),
			"max": s.MaxResponseTime().String(),
		},
	}
}
