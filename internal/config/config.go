package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Stash contains connection settings for the Stash library store.
type Stash struct {
	URL      string `toml:"url"`
	APIKey   string `toml:"api_key"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// PornDB contains connection settings for the ThePornDB metadata API.
type PornDB struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// Fields selects which scene fields are overwritten from scraped data.
type Fields struct {
	Details    bool `toml:"details"`
	Date       bool `toml:"date"`
	CoverImage bool `toml:"cover_image"`
	Studio     bool `toml:"studio"`
	Tags       bool `toml:"tags"`
	Performers bool `toml:"performers"`
	Title      bool `toml:"title"`
	URL        bool `toml:"url"`
}

// Create selects which entity kinds may be created in Stash when scraped data
// references something the catalog does not have yet.
type Create struct {
	Studios    bool `toml:"studios"`
	Tags       bool `toml:"tags"`
	Performers bool `toml:"performers"`
}

// Disambiguation controls how multi-candidate search results are narrowed.
type Disambiguation struct {
	Auto         bool   `toml:"auto"`
	Manual       bool   `toml:"manual"`
	AmbiguousTag string `toml:"ambiguous_tag"`
	UnmatchedTag string `toml:"unmatched_tag"`
}

// Aliases controls how unverified site-name-to-canonical-name links are
// handled during identity resolution.
type Aliases struct {
	TrustPornDB            bool `toml:"trust_porndb"`
	ConfirmQuestionable    bool `toml:"confirm_questionable"`
	TagAmbiguousPerformers bool `toml:"tag_ambiguous_performers"`
}

// Query controls how the search string is derived from a scene.
type Query struct {
	ParseWithFilename bool `toml:"parse_with_filename"`
	CleanFilename     bool `toml:"clean_filename"`
	DirsInQuery       int  `toml:"dirs_in_query"`
}

// Performers controls performer matching, creation, and title inclusion.
type Performers struct {
	OnlyAddFemale   bool `toml:"only_add_female"`
	ScrapeFreeones  bool `toml:"scrape_freeones"`
	BabepediaImages bool `toml:"babepedia_images"`
	IncludeInTitle  bool `toml:"include_in_title"`
	MaleInTitle     bool `toml:"male_in_title"`
}

// Studios controls studio matching behavior.
type Studios struct {
	CompactNames bool `toml:"compact_names"`
}

// Run contains run-wide behavior: scrape marker tag, rescrape policy, and the
// single-writer lock file.
type Run struct {
	ScrapeTag      string `toml:"scrape_tag"`
	RescrapeScenes bool   `toml:"rescrape_scenes"`
	LockPath       string `toml:"lock_path"`
}

// History contains configuration for the local run-history store.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the scraper.
//
// Configuration sections by subsystem:
//   - Stash: library store connection
//   - PornDB: external metadata source connection
//   - Fields: which scene fields are overwritten on a successful match
//   - Create: which missing entities may be created in Stash
//   - Disambiguation: multi-candidate narrowing policy and status tags
//   - Aliases: trust policy for unverified performer aliases
//   - Query: search string derivation from path or title
//   - Performers: gender filtering, enrichment, title inclusion
//   - Studios: compact name matching
//   - Run: scrape marker tag, rescrape policy, lock file
//   - History: local sqlite run history
//   - Logging: log format and level
type Config struct {
	Stash          Stash          `toml:"stash"`
	PornDB         PornDB         `toml:"porndb"`
	Fields         Fields         `toml:"fields"`
	Create         Create         `toml:"create"`
	Disambiguation Disambiguation `toml:"disambiguation"`
	Aliases        Aliases        `toml:"aliases"`
	Query          Query          `toml:"query"`
	Performers     Performers     `toml:"performers"`
	Studios        Studios        `toml:"studios"`
	Run            Run            `toml:"run"`
	History        History        `toml:"history"`
	Logging        Logging        `toml:"logging"`
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stashscraper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Stash.URL = strings.TrimRight(strings.TrimSpace(c.Stash.URL), "/")
	c.PornDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.PornDB.BaseURL), "/")

	for _, field := range []*string{&c.Run.LockPath, &c.History.Path} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
