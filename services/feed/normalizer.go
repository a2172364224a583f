package feed

import (
	"context"
	"sync"
	"time"

	"radio-metadata-go/album"
	"radio-metadata-go/services/artwork"
	"radio-metadata-go/track"

	"github.com/google/uuid"
)

// NormalizerConfig holds normalizer tuning.
type NormalizerConfig struct {
	CallSign               string         // default artist for untagged slots
	Location               *time.Location // station time zone for output timestamps
	EnrichTimeout          time.Duration  // per-track budget for artwork + timing
	TrustUpstreamStartTime bool           // use upstream start_time instead of the tracker
}

// Normalizer turns raw upstream tracks into the public output schema. All
// per-track enrichment (artwork plus start time) runs concurrently and is
// joined before assembly, so a request costs one slow lookup, not the sum of
// them. The normalizer itself cannot fail: a track whose enrichment times
// out or errors simply ships with empty artwork fields.
type Normalizer struct {
	resolver  *artwork.Resolver
	tracker   *track.StartTracker
	overrides *album.Table
	cfg       NormalizerConfig
}

// NewNormalizer wires a normalizer.
func NewNormalizer(resolver *artwork.Resolver, tracker *track.StartTracker, overrides *album.Table, cfg NormalizerConfig) *Normalizer {
	return &Normalizer{
		resolver:  resolver,
		tracker:   tracker,
		overrides: overrides,
		cfg:       cfg,
	}
}

type enrichment struct {
	art   artwork.Result
	start time.Time
}

// Normalize maps raw tracks to normalized ones, order preserved. Index 0 is
// marked "playing", the rest "history". IDs are freshly generated on every
// call and are not stable across polls.
func (n *Normalizer) Normalize(ctx context.Context, raw []RawTrack) []NormalizedTrack {
	if len(raw) == 0 {
		return []NormalizedTrack{}
	}

	enriched := make([]enrichment, len(raw))

	var wg sync.WaitGroup
	for i := range raw {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			enriched[i] = n.enrich(ctx, raw[i])
		}(i)
	}
	wg.Wait()

	out := make([]NormalizedTrack, 0, len(raw))
	for i, t := range raw {
		artist, title := n.identity(t)

		status := StatusHistory
		if i == 0 {
			status = StatusPlaying
		}

		duration := t.Duration
		if duration == "" {
			duration = defaultDuration
		}

		out = append(out, NormalizedTrack{
			ID:             uuid.NewString(),
			Artist:         artist,
			Title:          title,
			Album:          n.effectiveAlbum(artist, title, t.Album),
			Time:           enriched[i].start.In(n.cfg.Location).Format(time.RFC3339),
			ImageURL:       enriched[i].art.ImageURL,
			ITunesTrackURL: enriched[i].art.ITunesTrackURL,
			PreviewURL:     enriched[i].art.PreviewURL,
			Duration:       duration,
			Status:         status,
			Type:           "song",
		})
	}
	return out
}

// enrich resolves artwork and start time for one track under its own
// timeout. A sibling track's failure or slowness never cancels this one.
func (n *Normalizer) enrich(ctx context.Context, t RawTrack) enrichment {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.EnrichTimeout)
	defer cancel()

	artist, title := n.identity(t)

	var e enrichment
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		e.art = n.resolver.Resolve(ctx, artist, title)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		e.start = n.startTime(ctx, t, artist, title)
	}()

	wg.Wait()
	return e
}

func (n *Normalizer) startTime(ctx context.Context, t RawTrack, artist, title string) time.Time {
	if n.cfg.TrustUpstreamStartTime && t.StartTime > 0 {
		return time.Unix(int64(t.StartTime), 0)
	}
	return n.tracker.StartTimeFor(ctx, track.Fingerprint(artist, title))
}

func (n *Normalizer) identity(t RawTrack) (artist, title string) {
	artist = t.Artist
	if artist == "" {
		artist = n.cfg.CallSign
	}
	return artist, t.Title
}

func (n *Normalizer) effectiveAlbum(artist, title, upstream string) string {
	if override, ok := n.overrides.Lookup(artist, title); ok {
		return override
	}
	return upstream
}
