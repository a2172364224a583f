package track

import (
	"context"
	"strconv"
	"time"

	"radio-metadata-go/cache"
	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// StartTracker remembers when playback of a track identity was first
// observed. Polling clients then see a stable start time for as long as the
// identity stays inside its window, instead of a timestamp that jumps on
// every request.
type StartTracker struct {
	store  *cache.Store
	window time.Duration
	now    func() time.Time
}

// NewStartTracker creates a tracker whose observations expire after window.
func NewStartTracker(store *cache.Store, window time.Duration) *StartTracker {
	return &StartTracker{
		store:  store,
		window: window,
		now:    time.Now,
	}
}

// StartTimeFor returns the start time for a track identity. The first
// observation within the window mints "now" and caches it; later
// observations return the cached instant. Once the window expires the next
// observation mints a fresh start time; the track is presumed to have been
// recycled into rotation.
//
// With the store unreachable this degrades to "now" on every call.
func (t *StartTracker) StartTimeFor(ctx context.Context, fingerprint string) time.Time {
	key := "track_start:" + fingerprint

	if cached, ok := t.store.Get(ctx, key); ok {
		secs, err := strconv.ParseInt(cached, 10, 64)
		if err == nil {
			return time.Unix(secs, 0)
		}
		log.Warnf("%s Unreadable start time for %s, reminting", logcolors.LogTrackStart, fingerprint)
	}

	// The key stores whole seconds, so the minted instant is truncated the
	// same way; repeated calls within the window must agree exactly.
	start := time.Unix(t.now().Unix(), 0)
	t.store.Set(ctx, key, strconv.FormatInt(start.Unix(), 10), t.window)
	return start
}
