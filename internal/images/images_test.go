package images

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBabepediaURLSlug(t *testing.T) {
	fetcher := NewFetcher(WithBabepediaBaseURL("https://www.babepedia.com"))
	got := fetcher.BabepediaURL(" Jane Doe ")
	want := "https://www.babepedia.com/pics/Jane_Doe.jpg"
	if got != want {
		t.Fatalf("BabepediaURL = %q, want %q", got, want)
	}
}

func TestFetchBase64EncodesImage(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher()
	got, err := fetcher.FetchBase64(context.Background(), server.URL+"/pic.jpg")
	if err != nil {
		t.Fatalf("FetchBase64 returned error: %v", err)
	}
	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)
	if got != want {
		t.Fatalf("FetchBase64 = %q, want %q", got, want)
	}
}

func TestFetchBase64RejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not found</html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher()
	if _, err := fetcher.FetchBase64(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-image payload")
	}
}

func TestPerformerImageFallsThroughAliases(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/pics/JD.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0x01})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(WithBabepediaBaseURL(server.URL))
	got, err := fetcher.PerformerImage(context.Background(), "Jane Doe", []string{"JD"}, "")
	if err != nil {
		t.Fatalf("PerformerImage returned error: %v", err)
	}
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected encoding: %q", got)
	}
	if len(paths) != 2 || paths[0] != "/pics/Jane_Doe.jpg" || paths[1] != "/pics/JD.jpg" {
		t.Fatalf("unexpected fetch order: %v", paths)
	}
}

func TestPerformerImageFallbackURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fallback.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0x02})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(WithBabepediaBaseURL(server.URL))
	got, err := fetcher.PerformerImage(context.Background(), "Jane Doe", nil, server.URL+"/fallback.jpg")
	if err != nil {
		t.Fatalf("PerformerImage returned error: %v", err)
	}
	if got == "" {
		t.Fatal("expected fallback image")
	}
}

func TestPerformerImageNoneFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	fetcher := NewFetcher(WithBabepediaBaseURL(server.URL))
	got, err := fetcher.PerformerImage(context.Background(), "Jane Doe", []string{"JD"}, "")
	if err != nil {
		t.Fatalf("PerformerImage returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
