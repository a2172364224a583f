package artwork

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestITunesSearchQueriesBothEntities(t *testing.T) {
	var songQueries, albumQueries atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("entity") {
		case "song":
			songQueries.Add(1)
			fmt.Fprint(w, `{"results":[{"artworkUrl100":"https://a.example/art/100x100bb.jpg","trackViewUrl":"https://itunes.example/t/1","previewUrl":"https://a.example/p/1.m4a"}]}`)
		case "album":
			albumQueries.Add(1)
			fmt.Fprint(w, `{"results":[]}`)
		default:
			t.Errorf("Unexpected entity %q", r.URL.Query().Get("entity"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	searcher := NewITunesSearcher(2 * time.Second)
	searcher.Endpoint = server.URL

	candidates, err := searcher.Search(context.Background(), "Fernando Ortega", "Give Me Jesus")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if songQueries.Load() != 1 || albumQueries.Load() != 1 {
		t.Errorf("Queries song=%d album=%d, want 1 each", songQueries.Load(), albumQueries.Load())
	}

	// One hit expands into one candidate per servable size.
	if len(candidates) != 3 {
		t.Fatalf("Got %d candidates, want 3", len(candidates))
	}

	bySize := make(map[int]string, len(candidates))
	for _, c := range candidates {
		bySize[c.Size] = c.Result.ImageURL
	}
	if bySize[100] != "https://a.example/art/100x100bb.jpg" {
		t.Errorf("100px URL = %q", bySize[100])
	}
	if bySize[450] != "https://a.example/art/450x450bb.jpg" {
		t.Errorf("450px URL not rewritten: %q", bySize[450])
	}
	if bySize[600] != "https://a.example/art/600x600bb.jpg" {
		t.Errorf("600px URL not rewritten: %q", bySize[600])
	}
}

func TestITunesSearchOneEntityFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("entity") == "song" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"results":[{"artworkUrl100":"https://a.example/art/100x100bb.jpg"}]}`)
	}))
	defer server.Close()

	searcher := NewITunesSearcher(2 * time.Second)
	searcher.Endpoint = server.URL

	candidates, err := searcher.Search(context.Background(), "Selah", "Press On")
	if err != nil {
		t.Fatalf("One entity answering should suffice, got: %v", err)
	}
	if len(candidates) != 3 {
		t.Errorf("Got %d candidates, want 3", len(candidates))
	}
}

func TestITunesSearchBothEntitiesFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	searcher := NewITunesSearcher(2 * time.Second)
	searcher.Endpoint = server.URL

	if _, err := searcher.Search(context.Background(), "Selah", "Press On"); err == nil {
		t.Error("Expected an error when both entities fail")
	}
}

func TestExpandSizesSkipsArtlessHits(t *testing.T) {
	if got := expandSizes(itunesResult{TrackViewURL: "https://itunes.example/t/2"}); got != nil {
		t.Errorf("Expected no candidates without an artwork URL, got %d", len(got))
	}
}
