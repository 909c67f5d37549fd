package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelsync/httpx"
)

func newTestScraper(t *testing.T, handler http.Handler) (*Scraper, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := httpx.New(nil)
	t.Cleanup(func() { client.Close() })

	return New(server.URL, client), server
}

func TestListCandidates_FiltersAndDedupes(t *testing.T) {
	page := `<html><body>
		<article><a class="block-link" href="/detikupdate/video-banjir-jakarta">x</a></article>
		<article><a class="block-link" href="/detikupdate/video-banjir-jakarta">dup</a></article>
		<article><a class="block-link" href="/detikupdate/berita-tulisan-biasa">text article</a></article>
		<article><a class="block-link" href="https://20.detik.com/detikupdate/video-cuaca">abs</a></article>
	</body></html>`

	s, server := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))

	links, err := s.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates() error = %v", err)
	}

	want := []string{
		server.URL + "/detikupdate/video-banjir-jakarta",
		"https://20.detik.com/detikupdate/video-cuaca",
	}
	if len(links) != len(want) {
		t.Fatalf("ListCandidates() = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestListCandidates_ZeroIsNormal(t *testing.T) {
	s, _ := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no videos today</body></html>"))
	}))

	links, err := s.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates() error = %v, want nil for zero candidates", err)
	}
	if len(links) != 0 {
		t.Errorf("ListCandidates() = %v, want empty", links)
	}
}

func TestListCandidates_TransportFailure(t *testing.T) {
	s, server := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_ = server

	links, err := s.ListCandidates(context.Background())
	var discErr *DiscoveryError
	if !errors.As(err, &discErr) {
		t.Fatalf("ListCandidates() error = %v, want *DiscoveryError", err)
	}
	if len(links) != 0 {
		t.Errorf("ListCandidates() returned %v alongside error, want empty", links)
	}
}
