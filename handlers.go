package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"radio-metadata-go/logcolors"
	"radio-metadata-go/services/notifier"
	"radio-metadata-go/stats"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func (a *app) homepage(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(htmlTemplate))
}

// getFeed serves /<name>-feed.json. It always answers 200 with a valid
// nowPlaying array; a dead upstream or dead store just means the array is
// empty.
func (a *app) getFeed(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("feed")

	f, ok := a.feedByName(mux.Vars(r)["feed"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	// Counters must never delay the response.
	client := clientID(r)
	go a.recorder.RecordRequest(context.Background(), f.Name, client)

	raw := a.fetcher.Fetch(r.Context(), f.SourceURL)
	tracks := a.normalizer.Normalize(r.Context(), raw)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"nowPlaying": tracks,
	})
}

// clientID identifies a client for unique-visitor counting. Proxied
// deployments get the originating address from X-Forwarded-For.
func clientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// getDashboard aggregates the operational picture: bucketed request totals
// and unique-visitor counts per feed, cache key counts, hit/miss counters,
// and a live health probe of every upstream.
func (a *app) getDashboard(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("admin")
	ctx := r.Context()

	feedBlocks := make([]feedMetrics, len(a.feeds))
	healthy := make([]bool, len(a.feeds))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range a.feeds {
		i, f := i, f
		g.Go(func() error {
			feedBlocks[i] = feedMetrics{
				Feed:   f.Name,
				Total:  a.recorder.FeedTotals(gctx, f.Name),
				Unique: a.recorder.FeedUniques(gctx, f.Name),
			}
			return nil
		})
		g.Go(func() error {
			healthy[i] = len(a.fetcher.Fetch(gctx, f.SourceURL)) > 0
			return nil
		})
	}
	g.Wait()

	feedStatus := make(map[string]string, len(a.feeds))
	overall := "ok"
	for i, f := range a.feeds {
		if healthy[i] {
			feedStatus[f.Name] = "ok"
		} else {
			feedStatus[f.Name] = "error"
			overall = "error"
		}
	}

	feedHits, feedMisses := a.recorder.CacheCounters(ctx, "feed")
	coverHits, coverMisses := a.recorder.CacheCounters(ctx, "cover")

	response := map[string]interface{}{
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"feeds":       feedBlocks,
		"status":      overall,
		"feed_status": feedStatus,
		"cache": map[string]interface{}{
			"feed_keys":  len(a.store.Keys(ctx, "feed:*")),
			"cover_keys": len(a.store.Keys(ctx, "cover:*")),
			"hits": map[string]int64{
				"feed":  feedHits,
				"cover": coverHits,
			},
			"misses": map[string]int64{
				"feed":  feedMisses,
				"cover": coverMisses,
			},
		},
	}

	if last, ok := a.store.Get(ctx, "last_feed_check"); ok {
		response["last_feed_check"] = last
	}
	for _, f := range a.feeds {
		if last, ok := a.store.Get(ctx, "last_feed_check:"+f.Name); ok {
			response["last_feed_check_"+f.Name] = last
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// triggerTestAlert fires one PagerDuty test event and reports the upstream
// status. Auth is enforced by the BasicAuth wrapper on the route.
func (a *app) triggerTestAlert(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("admin")
	w.Header().Set("Content-Type", "application/json")

	if a.notifier == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": "no alert routing key configured",
		})
		return
	}

	status, err := a.notifier.Trigger(notifier.Event{
		Summary:   "Manual test alert triggered from admin page",
		Severity:  "info",
		Source:    "admin-dashboard",
		Component: "radio-metadata",
		DedupKey:  "manual-admin-test",
	})
	if err != nil {
		log.Errorf("%s Test alert failed: %v", logcolors.LogNotifier, err)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "sent",
		"response": status,
	})
}

func (a *app) getHealthStatus(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")

	status := "ok"
	storeUp := a.store.Available(r.Context())
	if !storeUp {
		// Still serving, just without caching.
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"store":  storeUp,
		"uptime": stats.Get().Uptime().String(),
		"feeds":  len(a.feeds),
	})
}

func (a *app) getStats(w http.ResponseWriter, r *http.Request) {
	stats.Get().RecordRequest("other")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats.Get().Snapshot())
}
