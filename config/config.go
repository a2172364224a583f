package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		Port          string `envconfig:"PORT" default:"8080"`
		AdminUsername string `envconfig:"ADMIN_USERNAME" default:""`
		AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`

		// PagerDuty Events v2 dispatch
		PagerDutyRoutingKey string `envconfig:"PAGERDUTY_ROUTING_KEY" default:""`
		PagerDutyEndpoint   string `envconfig:"PAGERDUTY_ENDPOINT" default:"https://events.pagerduty.com/v2/enqueue"`

		// Shared cache store
		RedisHost     string `envconfig:"REDIS_HOST" default:"127.0.0.1"`
		RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
		RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
		RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

		// Upstream feed sources. Empty URLs are skipped at startup.
		FeedEast    string `envconfig:"FEED_EAST" default:"https://yp.cdnstream1.com/metadata/2632_128/last/12.json"`
		FeedWest    string `envconfig:"FEED_WEST" default:"https://yp.cdnstream1.com/metadata/2638_128/last/12.json"`
		FeedWorship string `envconfig:"FEED_WORSHIP" default:"https://yp.cdnstream1.com/metadata/2878_128/last/12.json"`
		FeedFourth  string `envconfig:"FEED_FOURTH" default:""`
		FeedFifth   string `envconfig:"FEED_FIFTH" default:""`

		// TTL policy
		FeedCacheTTLInSeconds      int `envconfig:"FEED_CACHE_TTL_IN_SECONDS" default:"30"`
		ArtworkCacheTTLInSeconds   int `envconfig:"ARTWORK_CACHE_TTL_IN_SECONDS" default:"300"`
		ArtworkFailLimit           int `envconfig:"ARTWORK_FAIL_LIMIT" default:"3"`             // consecutive lookup failures before suppression
		ArtworkFailWindowInSeconds int `envconfig:"ARTWORK_FAIL_WINDOW_IN_SECONDS" default:"86400"` // rolling window for the failure counter
		TrackStartTTLInSeconds     int `envconfig:"TRACK_START_TTL_IN_SECONDS" default:"600"`
		UniqueVisitorTTLInSeconds  int `envconfig:"UNIQUE_VISITOR_TTL_IN_SECONDS" default:"1209600"` // 14 days

		// Network timeouts
		FetchTimeoutInSeconds  int `envconfig:"FETCH_TIMEOUT_IN_SECONDS" default:"5"`
		LookupTimeoutInSeconds int `envconfig:"LOOKUP_TIMEOUT_IN_SECONDS" default:"3"`

		// Station identity
		StationTimezone string `envconfig:"STATION_TIMEZONE" default:"America/Chicago"`
		StationCallSign string `envconfig:"STATION_CALL_SIGN" default:"Family Radio"`

		// Artwork candidate ranking
		ArtworkTargetSize    int `envconfig:"ARTWORK_TARGET_SIZE" default:"450"`
		ArtworkSizeTolerance int `envconfig:"ARTWORK_SIZE_TOLERANCE" default:"150"`

		// Optional local data
		AlbumOverridesPath string `envconfig:"ALBUM_OVERRIDES_PATH" default:""`
		SnapshotDBPath     string `envconfig:"SNAPSHOT_DB_PATH" default:""`

		RateLimitPerSecond  int `envconfig:"RATE_LIMIT_PER_SECOND" default:"10"`
		RateLimitBurstLimit int `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"20"`

		// Feed latency monitor
		MonitorIntervalInSeconds       int `envconfig:"MONITOR_INTERVAL_IN_SECONDS" default:"60"`
		LatencyAlertThresholdInSeconds int `envconfig:"LATENCY_ALERT_THRESHOLD_IN_SECONDS" default:"10"`
	}

	FeatureFlags struct {
		// When set, a track's upstream start_time field is trusted instead of
		// the track_start window. One source of truth per deployment.
		TrustUpstreamStartTime bool `envconfig:"FF_TRUST_UPSTREAM_START_TIME" default:"false"`
	}
}

// Feed pairs a public feed name with its upstream source URL.
type Feed struct {
	Name      string
	SourceURL string
}

// Feeds returns the configured feeds in their stable order, skipping any
// whose source URL is unset.
func (c Config) Feeds() []Feed {
	all := []Feed{
		{Name: "east", SourceURL: c.Configuration.FeedEast},
		{Name: "west", SourceURL: c.Configuration.FeedWest},
		{Name: "worship", SourceURL: c.Configuration.FeedWorship},
		{Name: "fourth", SourceURL: c.Configuration.FeedFourth},
		{Name: "fifth", SourceURL: c.Configuration.FeedFifth},
	}

	feeds := make([]Feed, 0, len(all))
	for _, f := range all {
		if f.SourceURL != "" {
			feeds = append(feeds, f)
		}
	}
	return feeds
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
