package artwork

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"radio-metadata-go/cache"
	"radio-metadata-go/logcolors"
	"radio-metadata-go/metrics"
	"radio-metadata-go/track"

	log "github.com/sirupsen/logrus"
)

// cachedResult is the wire form under cover:<fp>. Early deployments cached
// the image bytes themselves, either under imageData or as a base64 data:
// URI in imageUrl; those entries are obsolete and are bypassed so they age
// out without a manual flush.
type cachedResult struct {
	Result
	ImageData string `json:"imageData,omitempty"`
}

// ResolverConfig holds resolver tuning.
type ResolverConfig struct {
	CallSign      string        // station identification placeholder, never a real song
	CacheTTL      time.Duration // cover:<fp> TTL
	FailLimit     int64         // consecutive failures before suppression
	FailWindow    time.Duration // rolling window for fail:<fp>
	TargetSize    int           // preferred artwork pixel size
	SizeTolerance int           // acceptable deviation from TargetSize
}

// Resolver answers (artist, title) → artwork through the shared cache, with
// a per-track failure counter suppressing lookups for tracks that keep
// coming up empty. It never returns an error: every failure degrades to an
// empty Result.
type Resolver struct {
	store    *cache.Store
	snapshot *cache.Snapshot // optional, read while the store is down
	searcher Searcher
	recorder *metrics.Recorder
	cfg      ResolverConfig
}

// NewResolver wires a resolver. snapshot may be nil.
func NewResolver(store *cache.Store, snapshot *cache.Snapshot, searcher Searcher, recorder *metrics.Recorder, cfg ResolverConfig) *Resolver {
	return &Resolver{
		store:    store,
		snapshot: snapshot,
		searcher: searcher,
		recorder: recorder,
		cfg:      cfg,
	}
}

// Resolve returns artwork for a track, consulting in order: the call-sign
// short circuit, the failure counter, the shared cache, the local snapshot
// (only while the store is down), and finally the search strategy.
func (r *Resolver) Resolve(ctx context.Context, artist, title string) Result {
	if r.isCallSign(artist) || r.isCallSign(title) {
		// Station identification slot, not a song. No lookup, no counters.
		return Result{}
	}

	fp := track.Fingerprint(artist, title)
	coverKey := "cover:" + fp
	failKey := "fail:" + fp

	if fails := r.store.GetInt(ctx, failKey); fails >= r.cfg.FailLimit {
		log.Debugf("%s Lookup suppressed after %d failures", logcolors.FailCounterPrefix(fp), fails)
		return Result{}
	}

	if payload, ok := r.store.Get(ctx, coverKey); ok {
		if result, ok := decodeCached(payload); ok {
			r.recorder.RecordCacheEvent(ctx, "cover", "hit")
			return result
		}
		// Obsolete embedded-payload entry: fall through and refetch, the new
		// write replaces it.
		log.Infof("%s Bypassing obsolete cache entry for %s", logcolors.LogCacheArtwork, fp)
	}
	r.recorder.RecordCacheEvent(ctx, "cover", "miss")

	if r.snapshot != nil && !r.store.Available(ctx) {
		if payload, ok := r.snapshot.Get(fp); ok {
			if result, ok := decodeCached(payload); ok {
				log.Infof("%s Store down, served %s from snapshot", logcolors.LogSnapshot, fp)
				return result
			}
		}
	}

	candidates, err := r.searcher.Search(ctx, artist, title)
	if err != nil {
		log.Warnf("%s %s lookup failed for %q / %q: %v", logcolors.LogArtwork, r.searcher.Name(), artist, title, err)
		r.recordFailure(ctx, failKey)
		return Result{}
	}

	best := bestCandidate(candidates, r.cfg.TargetSize, r.cfg.SizeTolerance)
	if best == nil {
		log.Infof("%s No art within size tolerance for %q / %q", logcolors.LogArtwork, artist, title)
		r.recordFailure(ctx, failKey)
		return Result{}
	}

	if payload, err := json.Marshal(best.Result); err == nil {
		r.store.Set(ctx, coverKey, string(payload), r.cfg.CacheTTL)
		if r.snapshot != nil {
			r.snapshot.Put(fp, string(payload))
		}
	}
	return best.Result
}

func (r *Resolver) isCallSign(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), r.cfg.CallSign)
}

func (r *Resolver) recordFailure(ctx context.Context, failKey string) {
	count := r.store.IncrWithExpire(ctx, failKey, r.cfg.FailWindow)
	if count >= r.cfg.FailLimit {
		log.Infof("%s Suppressing further lookups for %v", logcolors.LogArtwork, r.cfg.FailWindow)
	}
}

// decodeCached parses a cached payload, rejecting the obsolete embedded
// image formats: a separate imageData field, or the older base64 data: URI
// written straight into imageUrl.
func decodeCached(payload string) (Result, bool) {
	var cached cachedResult
	if err := json.Unmarshal([]byte(payload), &cached); err != nil {
		return Result{}, false
	}
	if cached.ImageData != "" {
		return Result{}, false
	}
	if strings.HasPrefix(cached.ImageURL, "data:") {
		return Result{}, false
	}
	return cached.Result, true
}
