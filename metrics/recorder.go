package metrics

import (
	"context"
	"fmt"
	"time"

	"radio-metadata-go/cache"
)

// Periods lists the calendar buckets every counter is kept under, in the
// order the dashboard reports them. The short names are part of the key
// contract ("metrics:<feed>:min:<bucket>" etc.) and must not change.
var Periods = []string{"min", "hour", "day", "week", "month", "year"}

// bucket formats a period's calendar bucket for a point in time. The layouts
// reproduce the strftime formats the key contract was built on, including
// %Y-%U weeks (Sunday-first week-of-year, days before the first Sunday in
// week 0).
func bucket(period string, t time.Time) string {
	switch period {
	case "min":
		return t.Format("2006-01-02-15-04")
	case "hour":
		return t.Format("2006-01-02-15")
	case "day":
		return t.Format("2006-01-02")
	case "week":
		yday := t.YearDay() - 1
		week := (yday + 7 - int(t.Weekday())) / 7
		return fmt.Sprintf("%d-%02d", t.Year(), week)
	case "month":
		return t.Format("2006-01")
	case "year":
		return t.Format("2006")
	}
	return ""
}

// CounterKeys returns the request-counter keys for a feed at time t, one per
// period, in Periods order.
func CounterKeys(feed string, t time.Time) []string {
	keys := make([]string, 0, len(Periods))
	for _, p := range Periods {
		keys = append(keys, fmt.Sprintf("metrics:%s:%s:%s", feed, p, bucket(p, t)))
	}
	return keys
}

// UniqueKeys returns the unique-visitor set keys for a feed at time t.
func UniqueKeys(feed string, t time.Time) []string {
	keys := make([]string, 0, len(Periods))
	for _, p := range Periods {
		keys = append(keys, fmt.Sprintf("unique:%s:%s:%s", feed, p, bucket(p, t)))
	}
	return keys
}

// Recorder writes request and cache counters to the shared store.
// Everything here is fire-and-forget: a dead store loses counts, never
// requests.
type Recorder struct {
	store     *cache.Store
	uniqueTTL time.Duration
	now       func() time.Time
}

// NewRecorder creates a Recorder. uniqueTTL bounds how long unique-visitor
// sets are retained.
func NewRecorder(store *cache.Store, uniqueTTL time.Duration) *Recorder {
	return &Recorder{
		store:     store,
		uniqueTTL: uniqueTTL,
		now:       time.Now,
	}
}

// RecordRequest bumps every calendar-bucket counter for a feed and adds the
// client to each bucket's unique-visitor set.
func (r *Recorder) RecordRequest(ctx context.Context, feed, clientID string) {
	now := r.now()
	r.store.IncrAll(ctx, CounterKeys(feed, now))
	for _, key := range UniqueKeys(feed, now) {
		r.store.SAddWithExpire(ctx, key, clientID, r.uniqueTTL)
	}
}

// RecordCacheEvent bumps the hit or miss counter for a cache type
// ("feed", "cover").
func (r *Recorder) RecordCacheEvent(ctx context.Context, cacheType, status string) {
	r.store.Incr(ctx, fmt.Sprintf("metrics:cache:%s:%s", cacheType, status))
}

// FeedTotals reads back the current-bucket counters for a feed, keyed by
// period name.
func (r *Recorder) FeedTotals(ctx context.Context, feed string) map[string]int64 {
	now := r.now()
	counts := r.store.MGetInts(ctx, CounterKeys(feed, now))

	totals := make(map[string]int64, len(Periods))
	for i, p := range Periods {
		totals[p] = counts[i]
	}
	return totals
}

// FeedUniques reads back the current-bucket unique-visitor counts for a
// feed, keyed by period name.
func (r *Recorder) FeedUniques(ctx context.Context, feed string) map[string]int64 {
	now := r.now()
	keys := UniqueKeys(feed, now)

	uniques := make(map[string]int64, len(Periods))
	for i, p := range Periods {
		uniques[p] = r.store.SCard(ctx, keys[i])
	}
	return uniques
}

// CacheCounters reads the hit and miss counters for a cache type.
func (r *Recorder) CacheCounters(ctx context.Context, cacheType string) (hits, misses int64) {
	hits = r.store.GetInt(ctx, fmt.Sprintf("metrics:cache:%s:hit", cacheType))
	misses = r.store.GetInt(ctx, fmt.Sprintf("metrics:cache:%s:miss", cacheType))
	return hits, misses
}
