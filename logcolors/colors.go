package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Red    = "\033[31m"
)

// Cache and store log prefixes
const (
	LogStore        = Blue + "[Store]" + Reset
	LogSnapshot     = Blue + "[Snapshot]" + Reset
	LogCacheFeed    = Green + "[Cache:Feed]" + Reset
	LogCacheArtwork = Green + "[Cache:Artwork]" + Reset
)

// Pipeline log prefixes
const (
	LogFetch      = Blue + "[Fetch]" + Reset
	LogArtwork    = Cyan + "[Artwork]" + Reset
	LogSearch     = Blue + "[Search]" + Reset
	LogNormalize  = Cyan + "[Normalize]" + Reset
	LogTrackStart = Cyan + "[TrackStart]" + Reset
	LogOverrides  = Cyan + "[Overrides]" + Reset
)

// Middleware log prefixes
const (
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogAuth      = Purple + "[Auth]" + Reset
)

// Server/Init log prefixes
const (
	LogServer  = Green + "[Server]" + Reset
	LogConfig  = Cyan + "[Config]" + Reset
	LogMetrics = Blue + "[Metrics]" + Reset
)

// Notification log prefixes
const (
	LogNotifier = Cyan + "[Notifier]" + Reset
	LogMonitor  = Cyan + "[Monitor]" + Reset
)

// FailCounterPrefix returns a colored prefix for artwork failure counter logs
// with a shortened fingerprint so log lines stay readable.
func FailCounterPrefix(fingerprint string) string {
	short := fingerprint
	if len(short) > 8 {
		short = short[:8]
	}
	return Purple + "[FailCounter:" + short + "]" + Reset
}
