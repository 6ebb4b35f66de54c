package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/catalog"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

// ErrSourceDown aborts a run after too many consecutive malformed responses
// from the metadata source.
var ErrSourceDown = errors.New("metadata source appears to be down")

// Outcome classifies how a scene's reconciliation attempt ended.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeAmbiguous Outcome = "ambiguous"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// SceneResult records one scene's attempt for the run summary.
type SceneResult struct {
	SceneID string
	Title   string
	Query   string
	Outcome Outcome
	Err     error
}

// Runner reconciles scenes one at a time, fully to completion, sharing one
// catalog snapshot and one alias registry across the run.
type Runner struct {
	library  Library
	source   MetadataSource
	images   ImageSource
	catalog  *catalog.Snapshot
	registry *AliasRegistry
	prompter Prompter
	opts     Options
	logger   *slog.Logger

	scrapeTagID    string
	ambiguousTagID string
	unmatchedTagID string
	unconfirmedID  string
}

// RunnerConfig collects the collaborators for NewRunner.
type RunnerConfig struct {
	Library  Library
	Source   MetadataSource
	Images   ImageSource
	Catalog  *catalog.Snapshot
	Prompter Prompter
	Options  Options
	Logger   *slog.Logger
}

// NewRunner creates a runner with a fresh alias registry.
func NewRunner(cfg RunnerConfig) *Runner {
	opts := cfg.Options
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 3
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		library:  cfg.Library,
		source:   cfg.Source,
		images:   cfg.Images,
		catalog:  cfg.Catalog,
		registry: NewAliasRegistry(),
		prompter: cfg.Prompter,
		opts:     opts,
		logger:   logger,
	}
}

// Prepare ensures the run's status tags exist and caches their ids. Must be
// called before Run or ReconcileScene.
func (r *Runner) Prepare(ctx context.Context) error {
	var err error
	if r.opts.ScrapeTag != "" {
		if r.scrapeTagID, err = r.statusTagID(ctx, r.opts.ScrapeTag); err != nil {
			return err
		}
	}
	if r.opts.AmbiguousTag != "" {
		if r.ambiguousTagID, err = r.statusTagID(ctx, r.opts.AmbiguousTag); err != nil {
			return err
		}
	}
	if r.opts.UnmatchedTag != "" {
		if r.unmatchedTagID, err = r.statusTagID(ctx, r.opts.UnmatchedTag); err != nil {
			return err
		}
	}
	if r.unconfirmedID, err = r.statusTagID(ctx, unconfirmedAliasTag); err != nil {
		return err
	}
	return nil
}

// Run reconciles each scene in order. It stops early when the metadata
// source looks down or the context is canceled; results for scenes already
// processed are returned either way.
func (r *Runner) Run(ctx context.Context, scenes []stash.Scene) ([]SceneResult, error) {
	results := make([]SceneResult, 0, len(scenes))
	for _, scene := range scenes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := r.ReconcileScene(ctx, scene)
		results = append(results, result)

		if result.Err != nil {
			r.logger.Error("scene reconciliation failed",
				logging.String(logging.FieldSceneID, scene.ID),
				logging.String(logging.FieldQuery, result.Query),
				logging.Error(result.Err),
			)
		} else {
			r.logger.Info("scene processed",
				logging.String(logging.FieldSceneID, scene.ID),
				logging.String(logging.FieldQuery, result.Query),
				logging.String("outcome", string(result.Outcome)),
			)
		}

		if r.source.ConsecutiveFailures() > r.opts.FailureThreshold {
			return results, ErrSourceDown
		}
	}
	return results, nil
}

// ReconcileScene runs the full pipeline for one scene: query, search,
// narrow, resolve, apply.
func (r *Runner) ReconcileScene(ctx context.Context, scene stash.Scene) SceneResult {
	result := SceneResult{SceneID: scene.ID, Title: scene.Title}

	query, err := BuildQuery(scene, r.opts)
	if err != nil {
		result.Outcome = OutcomeSkipped
		result.Err = err
		return result
	}
	result.Query = query

	r.logger.Info("grabbing data", logging.String(logging.FieldQuery, query))

	candidates, err := r.source.SearchScenes(ctx, query, true)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	if len(candidates) == 0 {
		if candidates, err = r.source.SearchScenes(ctx, query, false); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = err
			return result
		}
	}

	narrower := &Disambiguator{
		Search: func(ctx context.Context, refined string) ([]porndb.Scene, error) {
			return r.source.SearchScenes(ctx, refined, true)
		},
		Prompter: r.prompter,
		Opts:     r.opts,
		Logger:   r.logger,
	}
	if candidates, err = narrower.Narrow(ctx, scene, query, candidates); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	switch {
	case len(candidates) == 0:
		result.Outcome = OutcomeNoMatch
		result.Err = r.markUnmatched(ctx, scene)
	case len(candidates) > 1:
		result.Outcome = OutcomeAmbiguous
		result.Err = r.markAmbiguous(ctx, scene)
	default:
		if err := r.applyScrape(ctx, scene, candidates[0]); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = err
		} else {
			result.Outcome = OutcomeMatched
		}
	}
	return result
}

// markUnmatched tags a zero-candidate scene for later reprocessing. With no
// unmatched tag configured the scene is left untouched.
func (r *Runner) markUnmatched(ctx context.Context, scene stash.Scene) error {
	if r.unmatchedTagID == "" {
		return nil
	}
	plan := NewPlan(scene)
	if plan.HasTag(r.unmatchedTagID) {
		return nil
	}
	plan.AddTag(r.unmatchedTagID)
	return r.updateScene(ctx, plan.Build())
}

// markAmbiguous tags a still-ambiguous scene and stops processing it.
func (r *Runner) markAmbiguous(ctx context.Context, scene stash.Scene) error {
	if r.ambiguousTagID == "" {
		return nil
	}
	plan := NewPlan(scene)
	if plan.HasTag(r.ambiguousTagID) {
		return nil
	}
	plan.AddTag(r.ambiguousTagID)
	return r.updateScene(ctx, plan.Build())
}

// applyScrape merges the single surviving candidate into the scene.
func (r *Runner) applyScrape(ctx context.Context, scene stash.Scene, candidate porndb.Scene) error {
	plan := NewPlan(scene)

	// Status tags from earlier attempts come off first and are re-added
	// only if the current attempt re-triggers the condition. This is what
	// makes repeated runs idempotent and self-correcting.
	plan.RemoveTag(r.ambiguousTagID)
	plan.RemoveTag(r.unmatchedTagID)
	plan.RemoveTag(r.unconfirmedID)

	if r.opts.Fields.Details {
		plan.SetDetails(candidate.Description)
	}
	if r.opts.Fields.Date {
		plan.SetDate(candidate.Date)
	}
	if r.opts.Fields.URL {
		plan.SetURL(candidate.URL)
	}
	if r.opts.Fields.CoverImage && candidate.Background != nil {
		if err := r.setCoverImage(ctx, plan, candidate.Background.Small); err != nil {
			return err
		}
	}

	if r.opts.Fields.Studio {
		studioID, err := r.resolveStudio(ctx, candidate.Site)
		if err != nil {
			return err
		}
		if studioID != "" {
			plan.SetStudio(studioID)
		}
	}

	var titleNames []string
	if r.opts.Fields.Performers {
		names, err := r.resolvePerformers(ctx, plan, scene, candidate)
		if err != nil {
			return err
		}
		titleNames = names
	}

	if r.opts.Fields.Tags {
		for _, tag := range candidate.Tags {
			id, err := r.resolveTag(ctx, tag.Name)
			if err != nil {
				return err
			}
			plan.AddTag(id)
		}
	}
	plan.AddTag(r.scrapeTagID)

	if r.opts.Fields.Title {
		if r.opts.IncludeInTitle {
			plan.SetTitle(BuildTitle(titleNames, candidate.Title))
		} else {
			plan.SetTitle(BuildTitle(nil, candidate.Title))
		}
	}

	return r.updateScene(ctx, plan.Build())
}

// resolvePerformers resolves each performer credit on the candidate, applies
// the side effects the resolver asked for, and returns the display names that
// join the title prefix.
func (r *Runner) resolvePerformers(ctx context.Context, plan *Plan, scene stash.Scene, candidate porndb.Scene) ([]string, error) {
	site := ""
	if candidate.Site != nil {
		site = candidate.Site.Name
	}
	resolver := &Resolver{
		Catalog:  r.catalog,
		Registry: r.registry,
		Library:  r.library,
		Source:   r.source,
		Prompter: r.prompter,
		Opts:     r.opts,
		Logger:   r.logger,
	}

	var titleNames []string
	for _, performer := range candidate.Performers {
		resolution, err := resolver.Resolve(ctx, performer, scene, site)
		if err != nil {
			return nil, err
		}
		r.registry.Apply(resolution.Registry)

		switch resolution.Kind {
		case ResolutionMatched:
			plan.AddPerformer(resolution.PerformerID)
			if resolution.Update != nil {
				if err := r.library.UpdatePerformer(ctx, *resolution.Update); err != nil {
					return nil, fmt.Errorf("update performer %q: %w", resolution.Name, err)
				}
			}
		case ResolutionCreate:
			id, err := r.createPerformer(ctx, *resolution.Create)
			if err != nil {
				return nil, err
			}
			plan.AddPerformer(id)
		case ResolutionUnverifiable:
			tagID, err := r.statusTagID(ctx, resolution.TagName)
			if err != nil {
				return nil, err
			}
			plan.AddTag(tagID)
		case ResolutionSkipped:
			continue
		}

		if resolution.InTitle {
			titleNames = append(titleNames, resolution.Name)
		}
	}
	return titleNames, nil
}

// createPerformer materializes a new performer: Freeones enrichment when
// enabled, then the image source chain, then the store write and snapshot
// append so later lookups in this run see it.
func (r *Runner) createPerformer(ctx context.Context, input stash.PerformerInput) (string, error) {
	if r.opts.ScrapeFreeones {
		hints, err := r.library.ScrapePerformerFreeones(ctx, input.Name)
		if err != nil {
			r.logger.Debug("freeones enrichment failed",
				logging.String("performer", input.Name),
				logging.Error(err),
			)
		} else if hints != nil {
			mergeHints(&input, hints)
		}
	}

	fallbackURL := ""
	if r.images != nil {
		if url, err := r.source.PerformerImageURL(ctx, input.Name); err == nil {
			fallbackURL = url
		}
		image, err := r.images.PerformerImage(ctx, input.Name, input.Aliases, fallbackURL)
		if err != nil {
			return "", err
		}
		input.Image = image
	}

	r.logger.Info("creating performer", logging.String("performer", input.Name))
	id, err := r.library.CreatePerformer(ctx, input)
	if err != nil {
		return "", fmt.Errorf("create performer %q: %w", input.Name, err)
	}
	r.catalog.AddPerformer(stash.Performer{ID: id, Name: input.Name, Aliases: input.Aliases})
	return id, nil
}

func (r *Runner) setCoverImage(ctx context.Context, plan *Plan, imageURL string) error {
	if imageURL == "" || containsFold(imageURL, "default.png") {
		return nil
	}
	image, err := r.images.FetchBase64(ctx, imageURL)
	if err != nil {
		r.logger.Debug("cover image fetch failed",
			logging.String("url", imageURL),
			logging.Error(err),
		)
		return nil
	}
	plan.SetCoverImage(image)
	return nil
}

// updateScene writes the plan. Rejected writes are logged with the attempted
// payload and never retried: retrying a rejected write risks duplicate side
// effects.
func (r *Runner) updateScene(ctx context.Context, update stash.SceneUpdate) error {
	if err := r.library.UpdateScene(ctx, update); err != nil {
		r.logger.Error("scene update rejected",
			logging.String(logging.FieldSceneID, update.ID),
			logging.Any("payload", update),
			logging.Error(err),
		)
		return fmt.Errorf("update scene %s: %w", update.ID, err)
	}
	return nil
}

// mergeHints fills creation attributes from the Freeones scraper without
// overwriting values the parent profile already supplied.
func mergeHints(input *stash.PerformerInput, hints *stash.PerformerHints) {
	if input.Birthdate == "" {
		input.Birthdate = hints.Birthdate
	}
	if input.Measurements == "" {
		input.Measurements = hints.Measurements
	}
	if input.Tattoos == "" {
		input.Tattoos = hints.Tattoos
	}
	if input.Piercings == "" {
		input.Piercings = hints.Piercings
	}
	for _, alias := range hints.Aliases {
		input.Aliases = appendUnique(input.Aliases, alias)
	}
}
