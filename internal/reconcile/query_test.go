package reconcile

import (
	"errors"
	"testing"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

func TestBuildQueryFromTitle(t *testing.T) {
	scene := stash.Scene{Title: "Scene Title", Path: "/media/whatever.mp4"}
	query, err := BuildQuery(scene, Options{})
	if err != nil {
		t.Fatalf("BuildQuery returned error: %v", err)
	}
	if query != "Scene Title" {
		t.Fatalf("query = %q", query)
	}
}

func TestBuildQueryFromPosixPath(t *testing.T) {
	scene := stash.Scene{Path: "/media/porn/SiteName/Jane.Doe.Scene.1080p.mp4"}
	opts := Options{ParseWithFilename: true, CleanFilename: true}
	query, err := BuildQuery(scene, opts)
	if err != nil {
		t.Fatalf("BuildQuery returned error: %v", err)
	}
	if query != "Jane Doe Scene" {
		t.Fatalf("query = %q", query)
	}
}

func TestBuildQueryFromWindowsPath(t *testing.T) {
	scene := stash.Scene{Path: `C:\media\SiteName\Jane Doe Scene.mp4`}
	opts := Options{ParseWithFilename: true}
	query, err := BuildQuery(scene, opts)
	if err != nil {
		t.Fatalf("BuildQuery returned error: %v", err)
	}
	if query != "Jane Doe Scene" {
		t.Fatalf("query = %q", query)
	}
}

func TestBuildQueryPrependsDirsInnermostFirst(t *testing.T) {
	scene := stash.Scene{Path: "/media/Studio/Series/scene.mp4"}
	opts := Options{ParseWithFilename: true, DirsInQuery: 2}
	query, err := BuildQuery(scene, opts)
	if err != nil {
		t.Fatalf("BuildQuery returned error: %v", err)
	}
	if query != "Studio Series scene" {
		t.Fatalf("query = %q", query)
	}
}

func TestBuildQueryDirsCappedByDepth(t *testing.T) {
	scene := stash.Scene{Path: "/only/scene.mp4"}
	opts := Options{ParseWithFilename: true, DirsInQuery: 5}
	query, err := BuildQuery(scene, opts)
	if err != nil {
		t.Fatalf("BuildQuery returned error: %v", err)
	}
	if query != "only scene" {
		t.Fatalf("query = %q", query)
	}
}

func TestBuildQueryRejectsRelativePath(t *testing.T) {
	scene := stash.Scene{Path: "relative/path/scene.mp4"}
	opts := Options{ParseWithFilename: true}
	if _, err := BuildQuery(scene, opts); !errors.Is(err, ErrPathParse) {
		t.Fatalf("expected ErrPathParse, got %v", err)
	}
}
