package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/catalog"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/config"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/history"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/images"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/reconcile"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

type scrapeFlags struct {
	query             string
	tags              []string
	maxScenes         int
	rescrape          bool
	noRescrape        bool
	disambiguateOnly  bool
	verifyAliasesOnly bool
	manDisambiguate   bool
	autoDisambiguate  bool
	manVerifyAliases  bool
}

func newScrapeCommand(configFlag *string) *cobra.Command {
	var flags scrapeFlags

	cmd := &cobra.Command{
		Use:   "scrape [query]",
		Short: "Scrape metadata for matching scenes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.query = strings.Join(args, " ")
			return runScrape(cmd.Context(), *configFlag, flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.tags, "tag", "t", nil, "Only scrape scenes carrying this tag (repeatable)")
	cmd.Flags().IntVar(&flags.maxScenes, "max-scenes", 0, "Stop after this many scenes (0 = no limit)")
	cmd.Flags().BoolVar(&flags.rescrape, "rescrape", false, "Rescrape scenes already marked as scraped")
	cmd.Flags().BoolVar(&flags.noRescrape, "no-rescrape", false, "Skip scenes already marked as scraped")
	cmd.Flags().BoolVar(&flags.disambiguateOnly, "disambiguate-only", false, "Only scrape scenes tagged as ambiguous")
	cmd.Flags().BoolVar(&flags.verifyAliasesOnly, "verify-aliases-only", false, "Only scrape scenes tagged with an unconfirmed alias")
	cmd.Flags().BoolVar(&flags.manDisambiguate, "man-disambiguate", false, "Prompt to choose between ambiguous results")
	cmd.Flags().BoolVar(&flags.autoDisambiguate, "auto-disambiguate", false, "Take the top result when ambiguous")
	cmd.Flags().BoolVar(&flags.manVerifyAliases, "man-verify-aliases", false, "Prompt to confirm questionable aliases")

	return cmd
}

func runScrape(ctx context.Context, configPath string, flags scrapeFlags) error {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyScrapeFlags(cfg, flags)

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One run at a time: concurrent runs would race on entity creation.
	if cfg.Run.LockPath != "" {
		lock := flock.New(cfg.Run.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire run lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another run holds the lock at %s", cfg.Run.LockPath)
		}
		defer func() { _ = lock.Unlock() }()
	}

	stashOpts := []stash.Option{stash.WithLogger(logger)}
	if cfg.Stash.APIKey != "" {
		stashOpts = append(stashOpts, stash.WithAPIKey(cfg.Stash.APIKey))
	}
	if cfg.Stash.Username != "" {
		stashOpts = append(stashOpts, stash.WithBasicAuth(cfg.Stash.Username, cfg.Stash.Password))
	}
	library, err := stash.New(cfg.Stash.URL, stashOpts...)
	if err != nil {
		return err
	}

	source, err := porndb.New(cfg.PornDB.BaseURL, porndb.WithAPIKey(cfg.PornDB.APIKey), porndb.WithLogger(logger))
	if err != nil {
		return err
	}

	var fetcher *images.Fetcher
	if cfg.Performers.BabepediaImages {
		fetcher = images.NewFetcher(images.WithLogger(logger))
	} else {
		fetcher = images.NewFetcher(images.WithLogger(logger), images.WithBabepediaBaseURL(""))
	}

	logger.Info("loading catalog snapshot")
	snapshot, err := catalog.Load(ctx, library)
	if err != nil {
		return err
	}

	runner := reconcile.NewRunner(reconcile.RunnerConfig{
		Library:  library,
		Source:   source,
		Images:   fetcher,
		Catalog:  snapshot,
		Prompter: newConsolePrompter(),
		Options:  runnerOptions(cfg),
		Logger:   logger,
	})
	if err := runner.Prepare(ctx); err != nil {
		return err
	}

	scenes, err := findScenes(ctx, library, snapshot, cfg, flags)
	if err != nil {
		return err
	}
	logger.Info("scenes selected", logging.Int("count", len(scenes)))

	results, runErr := runner.Run(ctx, scenes)

	if cfg.History.Enabled && cfg.History.Path != "" {
		if err := recordResults(ctx, cfg.History.Path, runID, results); err != nil {
			logger.Error("recording run history failed", logging.Error(err))
		}
	}

	fmt.Println(summaryTable(results))
	return runErr
}

// applyScrapeFlags lets command-line switches override the configuration the
// same way the config file sets them.
func applyScrapeFlags(cfg *config.Config, flags scrapeFlags) {
	if flags.rescrape {
		cfg.Run.RescrapeScenes = true
	}
	if flags.noRescrape {
		cfg.Run.RescrapeScenes = false
	}
	if flags.manDisambiguate {
		cfg.Disambiguation.Manual = true
	}
	if flags.autoDisambiguate {
		cfg.Disambiguation.Auto = true
	}
	if flags.manVerifyAliases {
		cfg.Aliases.ConfirmQuestionable = true
	}
}

// findScenes selects the scenes to reconcile: free-text query, required
// tags, the special only-modes, and the rescrape exclusion.
func findScenes(ctx context.Context, library *stash.Client, snapshot *catalog.Snapshot, cfg *config.Config, flags scrapeFlags) ([]stash.Scene, error) {
	required := append([]string(nil), flags.tags...)
	if flags.disambiguateOnly {
		if cfg.Disambiguation.AmbiguousTag == "" {
			return nil, fmt.Errorf("disambiguate-only requires an ambiguous tag in the configuration")
		}
		required = append(required, cfg.Disambiguation.AmbiguousTag)
	}
	if flags.verifyAliasesOnly {
		required = append(required, "ThePornDB Unconfirmed Alias")
	}

	findOpts := stash.FindScenesOptions{
		Query:     flags.query,
		MaxScenes: flags.maxScenes,
	}
	for _, name := range required {
		tag := snapshot.TagByName(name)
		if tag == nil {
			return nil, fmt.Errorf("tag %q not found in stash", name)
		}
		findOpts.RequiredTagIDs = append(findOpts.RequiredTagIDs, tag.ID)
	}
	if !cfg.Run.RescrapeScenes && cfg.Run.ScrapeTag != "" {
		if tag := snapshot.TagByName(cfg.Run.ScrapeTag); tag != nil {
			findOpts.ExcludedTagIDs = append(findOpts.ExcludedTagIDs, tag.ID)
		}
	}
	return library.FindScenes(ctx, findOpts)
}

func runnerOptions(cfg *config.Config) reconcile.Options {
	return reconcile.Options{
		Fields: reconcile.FieldFlags{
			Title:      cfg.Fields.Title,
			Details:    cfg.Fields.Details,
			URL:        cfg.Fields.URL,
			Date:       cfg.Fields.Date,
			CoverImage: cfg.Fields.CoverImage,
			Studio:     cfg.Fields.Studio,
			Tags:       cfg.Fields.Tags,
			Performers: cfg.Fields.Performers,
		},
		CreateStudios:          cfg.Create.Studios,
		CreateTags:             cfg.Create.Tags,
		CreatePerformers:       cfg.Create.Performers,
		ManualDisambiguate:     cfg.Disambiguation.Manual,
		AutoDisambiguate:       cfg.Disambiguation.Auto,
		AmbiguousTag:           cfg.Disambiguation.AmbiguousTag,
		UnmatchedTag:           cfg.Disambiguation.UnmatchedTag,
		ScrapeTag:              cfg.Run.ScrapeTag,
		TrustAliases:           cfg.Aliases.TrustPornDB,
		ConfirmAliases:         cfg.Aliases.ConfirmQuestionable,
		TagAmbiguousPerformers: cfg.Aliases.TagAmbiguousPerformers,
		ParseWithFilename:      cfg.Query.ParseWithFilename,
		CleanFilename:          cfg.Query.CleanFilename,
		DirsInQuery:            cfg.Query.DirsInQuery,
		OnlyAddFemale:          cfg.Performers.OnlyAddFemale,
		ScrapeFreeones:         cfg.Performers.ScrapeFreeones,
		IncludeInTitle:         cfg.Performers.IncludeInTitle,
		MaleInTitle:            cfg.Performers.MaleInTitle,
		CompactStudioNames:     cfg.Studios.CompactNames,
	}
}

func recordResults(ctx context.Context, path, runID string, results []reconcile.SceneResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, result := range results {
		errText := ""
		if result.Err != nil {
			errText = result.Err.Error()
		}
		if err := store.Record(ctx, runID, result.SceneID, result.Query, string(result.Outcome), errText); err != nil {
			return err
		}
	}
	return nil
}
