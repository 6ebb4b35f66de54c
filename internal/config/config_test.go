package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "[stash]\nurl = \"http://127.0.0.1:9999\"\n")
	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.PornDB.BaseURL != defaultPornDBBaseURL {
		t.Fatalf("porndb base url = %q", cfg.PornDB.BaseURL)
	}
	if !cfg.Fields.Title || !cfg.Fields.Performers {
		t.Fatal("field flags should default to true")
	}
	if cfg.Create.Performers {
		t.Fatal("create flags should default to false")
	}
	if cfg.Disambiguation.AmbiguousTag != defaultAmbiguousTag {
		t.Fatalf("ambiguous tag = %q", cfg.Disambiguation.AmbiguousTag)
	}
	if !cfg.Query.ParseWithFilename {
		t.Fatal("parse_with_filename should default to true")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"[stash]",
		`url = "https://stash.local:9999/"`,
		"[fields]",
		"title = false",
		"[query]",
		"dirs_in_query = 2",
		"[studios]",
		"compact_names = true",
	}, "\n"))
	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Stash.URL != "https://stash.local:9999" {
		t.Fatalf("stash url should be trimmed, got %q", cfg.Stash.URL)
	}
	if cfg.Fields.Title {
		t.Fatal("fields.title override ignored")
	}
	if cfg.Query.DirsInQuery != 2 {
		t.Fatalf("dirs_in_query = %d", cfg.Query.DirsInQuery)
	}
	if !cfg.Studios.CompactNames {
		t.Fatal("compact_names override ignored")
	}
}

func TestLoadRejectsMissingStashURL(t *testing.T) {
	path := writeConfig(t, "[porndb]\nbase_url = \"https://metadataapi.net\"\n")
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error for missing stash.url")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad stash url", func(c *Config) { c.Stash.URL = "not a url" }},
		{"password without username", func(c *Config) { c.Stash.Password = "hunter2" }},
		{"negative dirs", func(c *Config) { c.Query.DirsInQuery = -1 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Stash.URL = "http://127.0.0.1:9999"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := writeConfig(t, SampleConfig())
	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Run.ScrapeTag != defaultScrapeTag {
		t.Fatalf("scrape tag = %q", cfg.Run.ScrapeTag)
	}
}
