package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"radio-metadata-go/cache"
	"radio-metadata-go/config"
	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
)

const (
	// Minimum gap between repeated alerts for the same feed.
	defaultAlertCooldown = 15 * time.Minute

	lastCheckTTL = 24 * time.Hour
)

// LatencyMonitor periodically times a fetch of every upstream feed, records
// last-check timestamps in the shared store for the dashboard, and pages
// when a feed is slow or down.
type LatencyMonitor struct {
	feeds     []config.Feed
	store     *cache.Store
	notifier  Notifier
	threshold time.Duration
	client    *http.Client

	mu        sync.Mutex
	lastAlert map[string]time.Time
}

// MonitorConfig holds latency monitor configuration.
type MonitorConfig struct {
	Feeds     []config.Feed
	Store     *cache.Store
	Notifier  Notifier
	Threshold time.Duration // latency at or above this pages
	Timeout   time.Duration // per-check request timeout
}

// NewLatencyMonitor creates a monitor.
func NewLatencyMonitor(cfg MonitorConfig) *LatencyMonitor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &LatencyMonitor{
		feeds:     cfg.Feeds,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		threshold: cfg.Threshold,
		client:    &http.Client{Timeout: timeout},
		lastAlert: make(map[string]time.Time),
	}
}

// Check times one fetch of every feed.
func (m *LatencyMonitor) Check(ctx context.Context) {
	now := time.Now().Format(time.RFC3339)
	m.store.Set(ctx, "last_feed_check", now, lastCheckTTL)

	for _, f := range m.feeds {
		latency, err := m.timeFetch(ctx, f.SourceURL)
		m.store.Set(ctx, "last_feed_check:"+f.Name, now, lastCheckTTL)

		if err != nil {
			log.Warnf("%s %s check failed: %v", logcolors.LogMonitor, f.Name, err)
			m.alert(f, m.client.Timeout, err)
			continue
		}

		log.Debugf("%s %s checked: %.2fs", logcolors.LogMonitor, f.Name, latency.Seconds())
		if latency >= m.threshold {
			m.alert(f, latency, nil)
		}
	}
}

func (m *LatencyMonitor) timeFetch(ctx context.Context, url string) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := m.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

func (m *LatencyMonitor) alert(f config.Feed, latency time.Duration, cause error) {
	if m.notifier == nil || !m.shouldAlert(f.Name) {
		return
	}

	summary := fmt.Sprintf("%s metadata feed response time error (%.2fs)", titleCase(f.Name), latency.Seconds())
	details := map[string]string{
		"latency":  fmt.Sprintf("%.2fs", latency.Seconds()),
		"feed_url": f.SourceURL,
	}
	if cause != nil {
		details["error"] = cause.Error()
	}

	status, err := m.notifier.Trigger(Event{
		Summary:   summary,
		Severity:  "warning",
		Source:    f.Name + "-feed",
		Component: "metadata-api",
		DedupKey:  "latency-" + f.Name,
		Details:   details,
	})
	if err != nil {
		log.Errorf("%s Alert for %s failed: %v", logcolors.LogMonitor, f.Name, err)
		return
	}
	log.Infof("%s Alert sent for %s: %d", logcolors.LogMonitor, f.Name, status)
}

// shouldAlert rate-limits alerts per feed.
func (m *LatencyMonitor) shouldAlert(feed string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, exists := m.lastAlert[feed]
	if !exists || time.Since(last) >= defaultAlertCooldown {
		m.lastAlert[feed] = time.Now()
		return true
	}
	return false
}

// Run starts the monitor loop, checking at the given interval until the
// context is cancelled. An immediate check runs first.
func (m *LatencyMonitor) Run(ctx context.Context, interval time.Duration) {
	log.Infof("%s Starting feed latency monitor (feeds: %d, interval: %v, threshold: %v)",
		logcolors.LogMonitor, len(m.feeds), interval, m.threshold)

	m.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
