package porndb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchScenesUsesParseMode(t *testing.T) {
	var gotQuery string
	var gotParse string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotParse = r.URL.Query().Get("parse")
		_, _ = w.Write([]byte(`{"data":[{"title":"Scene One","date":"2021-04-01","site":{"name":"Site"}}]}`))
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	scenes, err := client.SearchScenes(context.Background(), "jane doe scene", true)
	if err != nil {
		t.Fatalf("SearchScenes returned error: %v", err)
	}
	if gotParse != "jane doe scene" || gotQuery != "" {
		t.Fatalf("expected parse query, got parse=%q q=%q", gotParse, gotQuery)
	}
	if len(scenes) != 1 || scenes[0].Title != "Scene One" {
		t.Fatalf("unexpected scenes: %+v", scenes)
	}
	if scenes[0].Site == nil || scenes[0].Site.Name != "Site" {
		t.Fatalf("site not decoded: %+v", scenes[0].Site)
	}

	if _, err := client.SearchScenes(context.Background(), "jane doe scene", false); err != nil {
		t.Fatalf("SearchScenes returned error: %v", err)
	}
	if gotQuery != "jane doe scene" {
		t.Fatalf("expected free-text query, got %q", gotQuery)
	}
}

func TestMalformedPayloadCountsFailures(t *testing.T) {
	broken := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 1; i <= 3; i++ {
		_, err := client.SearchScenes(context.Background(), "x", true)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: expected ErrUnavailable, got %v", i, err)
		}
		if client.ConsecutiveFailures() != i {
			t.Fatalf("attempt %d: failures = %d", i, client.ConsecutiveFailures())
		}
	}

	broken = false
	if _, err := client.SearchScenes(context.Background(), "x", true); err != nil {
		t.Fatalf("recovery search failed: %v", err)
	}
	if client.ConsecutiveFailures() != 0 {
		t.Fatalf("failures should reset, got %d", client.ConsecutiveFailures())
	}
}

func TestFindPerformerFetchesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/performers":
			_, _ = w.Write([]byte(`{"data":[{"id":"abc","name":"Jane Doe"}]}`))
		case "/api/performers/abc":
			_, _ = w.Write([]byte(`{"data":{"id":"abc","name":"Jane Doe","aliases":["Jane"],"extras":{"gender":"Female"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	performer, err := client.FindPerformer(context.Background(), "Jane Doe")
	if err != nil {
		t.Fatalf("FindPerformer returned error: %v", err)
	}
	if performer == nil || performer.ID != "abc" || len(performer.Aliases) != 1 {
		t.Fatalf("unexpected performer: %+v", performer)
	}
	if performer.Extras == nil || performer.Extras.Gender != "Female" {
		t.Fatalf("extras not decoded: %+v", performer.Extras)
	}
}

func TestPerformerImageURLRejectsPlaceholderAndAmbiguity(t *testing.T) {
	image := "https://cdn.example/performers/jane.jpg"
	hits := 1
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := `{"data":[`
		for i := 0; i < hits; i++ {
			if i > 0 {
				payload += ","
			}
			payload += `{"id":"abc","name":"Jane","image":"` + image + `"}`
		}
		payload += `]}`
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, err := client.PerformerImageURL(context.Background(), "Jane")
	if err != nil || got != image {
		t.Fatalf("expected image url, got %q err=%v", got, err)
	}

	image = "https://cdn.example/default.png"
	if got, _ := client.PerformerImageURL(context.Background(), "Jane"); got != "" {
		t.Fatalf("placeholder should be rejected, got %q", got)
	}

	image = "https://cdn.example/performers/jane.jpg"
	hits = 2
	if got, _ := client.PerformerImageURL(context.Background(), "Jane"); got != "" {
		t.Fatalf("ambiguous hits should be rejected, got %q", got)
	}
}

func TestStashGenderMapping(t *testing.T) {
	cases := map[string]string{
		GenderFemale:            "FEMALE",
		GenderMale:              "MALE",
		GenderTransgenderFemale: "TRANSGENDER_FEMALE",
		GenderTransgenderMale:   "TRANSGENDER_MALE",
		GenderIntersex:          "INTERSEX",
		"Unknown":               "",
	}
	for in, want := range cases {
		if got := StashGender(in); got != want {
			t.Fatalf("StashGender(%q) = %q, want %q", in, got, want)
		}
	}
}
