package track

import (
	"context"
	"testing"
	"time"

	"radio-metadata-go/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return cache.NewFromClient(client), mr
}

func TestStartTimeStableWithinWindow(t *testing.T) {
	store, _ := testStore(t)
	tracker := NewStartTracker(store, 10*time.Minute)
	ctx := context.Background()

	fp := Fingerprint("Selah", "Wonderful Merciful Savior")

	first := tracker.StartTimeFor(ctx, fp)
	second := tracker.StartTimeFor(ctx, fp)

	if !first.Equal(second) {
		t.Errorf("Start time changed within window: %v then %v", first, second)
	}
	// The stored key carries whole seconds; the minted value must already be
	// truncated to match what later reads return.
	if first.Nanosecond() != 0 {
		t.Errorf("Minted start time has sub-second precision: %v", first)
	}
}

func TestStartTimeRemintedAfterWindow(t *testing.T) {
	store, mr := testStore(t)

	tracker := NewStartTracker(store, 10*time.Minute)
	now := time.Now()
	tracker.now = func() time.Time { return now }
	ctx := context.Background()

	fp := Fingerprint("Selah", "Wonderful Merciful Savior")
	first := tracker.StartTimeFor(ctx, fp)

	// The identity falls out of its window; the next poll is a new spin.
	mr.FastForward(11 * time.Minute)
	later := now.Add(11 * time.Minute)
	tracker.now = func() time.Time { return later }

	second := tracker.StartTimeFor(ctx, fp)
	if second.Equal(first) {
		t.Errorf("Expected a fresh start time after expiry, got the old one: %v", second)
	}
	if second.Unix() != later.Unix() {
		t.Errorf("Expected reminted start at %v, got %v", later, second)
	}
}

func TestStartTimeDistinctPerIdentity(t *testing.T) {
	store, _ := testStore(t)
	tracker := NewStartTracker(store, 10*time.Minute)
	ctx := context.Background()

	tracker.StartTimeFor(ctx, Fingerprint("Selah", "Wonderful Merciful Savior"))

	if !store.Available(ctx) {
		t.Fatal("Store should be reachable in this test")
	}
	if _, ok := store.Get(ctx, "track_start:"+Fingerprint("selah", "wonderful merciful savior")); !ok {
		t.Error("Expected track_start key for the normalized identity")
	}
	if _, ok := store.Get(ctx, "track_start:"+Fingerprint("Keith Green", "Your Love Broke Through")); ok {
		t.Error("Unexpected track_start key for an unobserved identity")
	}
}
