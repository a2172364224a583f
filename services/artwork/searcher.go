package artwork

import "context"

// Result is the public artwork payload attached to a normalized track. An
// empty ImageURL is a valid "no art found" answer, distinct from "not yet
// looked up".
type Result struct {
	ImageURL       string `json:"imageUrl"`
	ITunesTrackURL string `json:"itunesTrackUrl"`
	PreviewURL     string `json:"previewUrl"`
}

// Candidate is one artwork option produced by a search strategy, at a known
// pixel size (square).
type Candidate struct {
	Result Result
	Size   int
}

// Searcher is the pluggable strategy behind the resolver. Implementations
// query an external art source (or several at once) and return sized
// candidates; the resolver handles caching, suppression, and ranking, so a
// different commercial search API can back the same resolver unchanged.
type Searcher interface {
	// Name returns the strategy's identifier for logs.
	Name() string

	// Search returns artwork candidates for a track. An empty slice with a
	// nil error means the source answered but had no art.
	Search(ctx context.Context, artist, title string) ([]Candidate, error)
}

// bestCandidate ranks candidates by proximity to the target size: an exact
// match wins outright, otherwise the closest size within tolerance. Returns
// nil when nothing qualifies.
func bestCandidate(candidates []Candidate, target, tolerance int) *Candidate {
	var best *Candidate
	bestDelta := tolerance + 1

	for i := range candidates {
		c := &candidates[i]
		delta := c.Size - target
		if delta < 0 {
			delta = -delta
		}
		if delta == 0 {
			return c
		}
		if delta < bestDelta {
			best = c
			bestDelta = delta
		}
	}
	return best
}
