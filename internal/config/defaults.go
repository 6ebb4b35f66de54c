package config

const (
	defaultPornDBBaseURL = "https://metadataapi.net"
	defaultScrapeTag     = "scraped_from_theporndb"
	defaultAmbiguousTag  = "theporndb_ambiguous"
	defaultLockPath      = "~/.local/share/stashscraper/scrape.lock"
	defaultHistoryPath   = "~/.local/share/stashscraper/history.db"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		PornDB: PornDB{
			BaseURL: defaultPornDBBaseURL,
		},
		Fields: Fields{
			Details:    true,
			Date:       true,
			CoverImage: true,
			Studio:     true,
			Tags:       true,
			Performers: true,
			Title:      true,
			URL:        true,
		},
		Disambiguation: Disambiguation{
			AmbiguousTag: defaultAmbiguousTag,
		},
		Aliases: Aliases{
			ConfirmQuestionable:    true,
			TagAmbiguousPerformers: true,
		},
		Query: Query{
			ParseWithFilename: true,
			CleanFilename:     true,
		},
		Performers: Performers{
			OnlyAddFemale:  true,
			IncludeInTitle: true,
		},
		Run: Run{
			ScrapeTag: defaultScrapeTag,
			LockPath:  defaultLockPath,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
