package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// iTunes serves square art at fixed sizes; the 100x100 URL can be rewritten
// to any of these.
var itunesSizes = []int{100, 450, 600}

// ITunesSearcher looks up cover art through the iTunes Search API. Song and
// album entities are queried concurrently (some releases only surface under
// one of the two) and every hit is expanded into one candidate per
// available size.
type ITunesSearcher struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

// NewITunesSearcher creates a searcher with the given lookup timeout.
func NewITunesSearcher(timeout time.Duration) *ITunesSearcher {
	return &ITunesSearcher{
		Endpoint: "https://itunes.apple.com/search",
		Client:   &http.Client{Timeout: timeout},
		Limit:    3,
	}
}

func (s *ITunesSearcher) Name() string {
	return "itunes"
}

type itunesResponse struct {
	Results []itunesResult `json:"results"`
}

type itunesResult struct {
	ArtworkURL100 string `json:"artworkUrl100"`
	TrackViewURL  string `json:"trackViewUrl"`
	PreviewURL    string `json:"previewUrl"`
}

// Search queries both entities and merges their candidates. A total failure
// of both queries is an error; one entity answering is enough.
func (s *ITunesSearcher) Search(ctx context.Context, artist, title string) ([]Candidate, error) {
	entities := []string{"song", "album"}
	results := make([][]itunesResult, len(entities))
	errs := make([]error, len(entities))

	var wg sync.WaitGroup
	for i, entity := range entities {
		wg.Add(1)
		go func(i int, entity string) {
			defer wg.Done()
			results[i], errs[i] = s.query(ctx, artist+" "+title, entity)
		}(i, entity)
	}
	wg.Wait()

	var candidates []Candidate
	answered := false
	for i, batch := range results {
		if errs[i] != nil {
			log.Warnf("%s iTunes %s query failed: %v", logcolors.LogSearch, entities[i], errs[i])
			continue
		}
		answered = true
		for _, r := range batch {
			candidates = append(candidates, expandSizes(r)...)
		}
	}

	if !answered {
		return nil, fmt.Errorf("itunes search failed for both entities: %w", errs[0])
	}
	return candidates, nil
}

func (s *ITunesSearcher) query(ctx context.Context, term, entity string) ([]itunesResult, error) {
	params := url.Values{
		"term":   {term},
		"entity": {entity},
		"limit":  {fmt.Sprintf("%d", s.Limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes returned status %d", resp.StatusCode)
	}

	var decoded itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Results, nil
}

// expandSizes turns one iTunes hit into candidates at every size iTunes can
// serve, by rewriting the 100x100 artwork URL.
func expandSizes(r itunesResult) []Candidate {
	if r.ArtworkURL100 == "" {
		return nil
	}

	candidates := make([]Candidate, 0, len(itunesSizes))
	for _, size := range itunesSizes {
		imageURL := r.ArtworkURL100
		if size != 100 {
			imageURL = strings.Replace(imageURL, "100x100", fmt.Sprintf("%dx%d", size, size), 1)
		}
		candidates = append(candidates, Candidate{
			Result: Result{
				ImageURL:       imageURL,
				ITunesTrackURL: r.TrackViewURL,
				PreviewURL:     r.PreviewURL,
			},
			Size: size,
		})
	}
	return candidates
}
