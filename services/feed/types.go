package feed

// RawTrack is one entry of the upstream metadata JSON. The field names are
// ID3 frame IDs, which is what the stream encoder emits. Everything is
// optional; upstream regularly omits fields and repeats tracks.
type RawTrack struct {
	Artist    string  `json:"TPE1"`
	Title     string  `json:"TIT2"`
	Album     string  `json:"TALB"`
	StartTime float64 `json:"start_time"` // epoch seconds, rarely present
	Duration  string  `json:"duration"`   // "HH:MM:SS"
}

// NormalizedTrack is the public output schema. Constructed fresh per
// request; the ID is new every time and nothing here is persisted.
type NormalizedTrack struct {
	ID             string `json:"id"`
	Artist         string `json:"artist"`
	Title          string `json:"title"`
	Album          string `json:"album"`
	Time           string `json:"time"` // ISO-8601 in the station time zone
	ImageURL       string `json:"imageUrl"`
	ITunesTrackURL string `json:"itunesTrackUrl"`
	PreviewURL     string `json:"previewUrl"`
	Duration       string `json:"duration"`
	Status         string `json:"status"` // "playing" for index 0, else "history"
	Type           string `json:"type"`   // always "song"
}

const (
	StatusPlaying = "playing"
	StatusHistory = "history"

	defaultDuration = "00:03:00"
)
