package feed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"radio-metadata-go/cache"
	"radio-metadata-go/logcolors"
	"radio-metadata-go/metrics"

	log "github.com/sirupsen/logrus"
)

// Fetcher pulls raw track lists from upstream metadata sources, memoized in
// the shared store under feed:<sourceURL> with a short TTL. It never returns
// an error: any upstream or decode failure yields an empty track list, so
// feed endpoints always have something valid to serve.
type Fetcher struct {
	store    *cache.Store
	recorder *metrics.Recorder
	client   *http.Client
	ttl      time.Duration
}

// NewFetcher creates a Fetcher. timeout bounds each upstream GET.
func NewFetcher(store *cache.Store, recorder *metrics.Recorder, ttl, timeout time.Duration) *Fetcher {
	return &Fetcher{
		store:    store,
		recorder: recorder,
		client:   &http.Client{Timeout: timeout},
		ttl:      ttl,
	}
}

// Fetch returns the current raw track list for a source URL. When the store
// is unreachable every Get is a miss and every Set a no-op, so this degrades
// to a plain passthrough fetch on its own.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) []RawTrack {
	if sourceURL == "" {
		return nil
	}

	key := "feed:" + sourceURL

	if cached, ok := f.store.Get(ctx, key); ok {
		tracks, err := decodeTracks([]byte(cached))
		if err == nil {
			f.recorder.RecordCacheEvent(ctx, "feed", "hit")
			return tracks
		}
		log.Warnf("%s Cached feed payload unreadable, refetching: %v", logcolors.LogCacheFeed, err)
	}
	f.recorder.RecordCacheEvent(ctx, "feed", "miss")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		log.Errorf("%s Bad source URL %s: %v", logcolors.LogFetch, sourceURL, err)
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Errorf("%s Fetch failed for %s: %v", logcolors.LogFetch, sourceURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorf("%s Fetch failed for %s: status %d", logcolors.LogFetch, sourceURL, resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("%s Read failed for %s: %v", logcolors.LogFetch, sourceURL, err)
		return nil
	}

	tracks, err := decodeTracks(body)
	if err != nil {
		log.Errorf("%s Malformed feed body from %s: %v", logcolors.LogFetch, sourceURL, err)
		return nil
	}

	f.store.Set(ctx, key, string(body), f.ttl)
	return tracks
}

func decodeTracks(body []byte) ([]RawTrack, error) {
	var tracks []RawTrack
	if err := json.Unmarshal(body, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}
