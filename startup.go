package main

import (
	"context"
	"time"

	"radio-metadata-go/album"
	"radio-metadata-go/cache"
	"radio-metadata-go/config"
	"radio-metadata-go/logcolors"
	"radio-metadata-go/metrics"
	"radio-metadata-go/services/artwork"
	"radio-metadata-go/services/feed"
	"radio-metadata-go/services/notifier"
	"radio-metadata-go/track"

	log "github.com/sirupsen/logrus"
)

// app holds the wired service graph. Everything is constructed once at
// startup and injected; no component reaches for globals.
type app struct {
	conf       config.Config
	feeds      []config.Feed
	store      *cache.Store
	recorder   *metrics.Recorder
	fetcher    *feed.Fetcher
	normalizer *feed.Normalizer
	notifier   notifier.Notifier
}

// newApp builds the full pipeline from configuration.
func newApp(conf config.Config) *app {
	c := conf.Configuration

	store := cache.New(cache.Options{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	var snapshot *cache.Snapshot
	if c.SnapshotDBPath != "" {
		var err error
		snapshot, err = cache.OpenSnapshot(c.SnapshotDBPath)
		if err != nil {
			log.Warnf("%s Artwork snapshot disabled: %v", logcolors.LogSnapshot, err)
		}
	}

	location, err := time.LoadLocation(c.StationTimezone)
	if err != nil {
		log.Warnf("%s Unknown station timezone %q, using UTC", logcolors.LogConfig, c.StationTimezone)
		location = time.UTC
	}

	recorder := metrics.NewRecorder(store, seconds(c.UniqueVisitorTTLInSeconds))

	resolver := artwork.NewResolver(
		store,
		snapshot,
		artwork.NewITunesSearcher(seconds(c.LookupTimeoutInSeconds)),
		recorder,
		artwork.ResolverConfig{
			CallSign:      c.StationCallSign,
			CacheTTL:      seconds(c.ArtworkCacheTTLInSeconds),
			FailLimit:     int64(c.ArtworkFailLimit),
			FailWindow:    seconds(c.ArtworkFailWindowInSeconds),
			TargetSize:    c.ArtworkTargetSize,
			SizeTolerance: c.ArtworkSizeTolerance,
		},
	)

	normalizer := feed.NewNormalizer(
		resolver,
		track.NewStartTracker(store, seconds(c.TrackStartTTLInSeconds)),
		album.Load(c.AlbumOverridesPath),
		feed.NormalizerConfig{
			CallSign:               c.StationCallSign,
			Location:               location,
			EnrichTimeout:          seconds(c.FetchTimeoutInSeconds),
			TrustUpstreamStartTime: conf.FeatureFlags.TrustUpstreamStartTime,
		},
	)

	var pager notifier.Notifier
	if c.PagerDutyRoutingKey != "" {
		pager = notifier.NewPagerDuty(c.PagerDutyRoutingKey, c.PagerDutyEndpoint)
	} else {
		log.Warnf("%s No PagerDuty routing key configured, alerting disabled", logcolors.LogNotifier)
	}

	return &app{
		conf:       conf,
		feeds:      conf.Feeds(),
		store:      store,
		recorder:   recorder,
		fetcher:    feed.NewFetcher(store, recorder, seconds(c.FeedCacheTTLInSeconds), seconds(c.FetchTimeoutInSeconds)),
		normalizer: normalizer,
		notifier:   pager,
	}
}

// startLatencyMonitor runs the background feed health checks.
func (a *app) startLatencyMonitor(ctx context.Context) {
	c := a.conf.Configuration

	monitor := notifier.NewLatencyMonitor(notifier.MonitorConfig{
		Feeds:     a.feeds,
		Store:     a.store,
		Notifier:  a.notifier,
		Threshold: seconds(c.LatencyAlertThresholdInSeconds),
	})

	go monitor.Run(ctx, seconds(c.MonitorIntervalInSeconds))
}

// feedByName returns the configured feed for a public name.
func (a *app) feedByName(name string) (config.Feed, bool) {
	for _, f := range a.feeds {
		if f.Name == name {
			return f, true
		}
	}
	return config.Feed{}, false
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
