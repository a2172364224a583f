package metrics

import (
	"context"
	"testing"
	"time"

	"radio-metadata-go/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testStore(t *testing.T) *cache.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewFromClient(client)
}

func TestBucketLayouts(t *testing.T) {
	// Wednesday July 9, 2025 14:30 UTC. July 9 is in the 27th Sunday-first
	// week of 2025.
	at := time.Date(2025, 7, 9, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   string
	}{
		{"min", "2025-07-09-14-30"},
		{"hour", "2025-07-09-14"},
		{"day", "2025-07-09"},
		{"week", "2025-27"},
		{"month", "2025-07"},
		{"year", "2025"},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			if got := bucket(tt.period, at); got != tt.want {
				t.Errorf("bucket(%q) = %q, want %q", tt.period, got, tt.want)
			}
		})
	}
}

func TestWeekBucketSundayFirst(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		// Jan 1 2025 is a Wednesday: days before the first Sunday are week 00.
		{"before first sunday", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025-00"},
		{"saturday still week zero", time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), "2025-00"},
		{"first sunday starts week one", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), "2025-01"},
		// Jan 1 2023 is itself a Sunday, so the year opens in week 01.
		{"year opening on sunday", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "2023-01"},
		{"late december", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), "2023-53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bucket("week", tt.at); got != tt.want {
				t.Errorf("bucket(week, %v) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}

func TestCounterKeyNamespace(t *testing.T) {
	at := time.Date(2025, 7, 9, 14, 30, 0, 0, time.UTC)

	keys := CounterKeys("east", at)
	if len(keys) != len(Periods) {
		t.Fatalf("Expected %d keys, got %d", len(Periods), len(keys))
	}
	if keys[0] != "metrics:east:min:2025-07-09-14-30" {
		t.Errorf("Unexpected minute key: %s", keys[0])
	}
	if keys[5] != "metrics:east:year:2025" {
		t.Errorf("Unexpected year key: %s", keys[5])
	}

	uniq := UniqueKeys("east", at)
	if uniq[2] != "unique:east:day:2025-07-09" {
		t.Errorf("Unexpected unique day key: %s", uniq[2])
	}
}

func TestRecordRequestCountsAndUniques(t *testing.T) {
	store := testStore(t)
	recorder := NewRecorder(store, 14*24*time.Hour)

	at := time.Date(2025, 7, 9, 14, 30, 0, 0, time.UTC)
	recorder.now = func() time.Time { return at }
	ctx := context.Background()

	recorder.RecordRequest(ctx, "east", "10.0.0.1")
	recorder.RecordRequest(ctx, "east", "10.0.0.1")
	recorder.RecordRequest(ctx, "east", "10.0.0.2")

	totals := recorder.FeedTotals(ctx, "east")
	for _, p := range Periods {
		if totals[p] != 3 {
			t.Errorf("totals[%s] = %d, want 3", p, totals[p])
		}
	}

	uniques := recorder.FeedUniques(ctx, "east")
	for _, p := range Periods {
		if uniques[p] != 2 {
			t.Errorf("uniques[%s] = %d, want 2", p, uniques[p])
		}
	}

	// A different feed's buckets stay untouched.
	west := recorder.FeedTotals(ctx, "west")
	if west["day"] != 0 {
		t.Errorf("west day total = %d, want 0", west["day"])
	}
}

func TestCacheCounters(t *testing.T) {
	store := testStore(t)
	recorder := NewRecorder(store, time.Hour)
	ctx := context.Background()

	recorder.RecordCacheEvent(ctx, "feed", "hit")
	recorder.RecordCacheEvent(ctx, "feed", "hit")
	recorder.RecordCacheEvent(ctx, "feed", "miss")
	recorder.RecordCacheEvent(ctx, "cover", "miss")

	hits, misses := recorder.CacheCounters(ctx, "feed")
	if hits != 2 || misses != 1 {
		t.Errorf("feed counters = %d/%d, want 2/1", hits, misses)
	}

	hits, misses = recorder.CacheCounters(ctx, "cover")
	if hits != 0 || misses != 1 {
		t.Errorf("cover counters = %d/%d, want 0/1", hits, misses)
	}
}
