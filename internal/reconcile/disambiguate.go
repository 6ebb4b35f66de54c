package reconcile

import (
	"context"
	"log/slog"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

// Disambiguator narrows a multi-candidate search result to at most one
// candidate. A returned list that is still longer than one is the terminal
// ambiguous state; the caller applies the ambiguous-tag policy.
type Disambiguator struct {
	// Search re-queries the metadata source with a refined query string.
	Search   func(ctx context.Context, query string) ([]porndb.Scene, error)
	Prompter Prompter
	Opts     Options
	Logger   *slog.Logger
}

// Narrow applies the narrowing sequence: studio-refined re-query, then
// date-refined re-query (both only when the query was not filename-derived,
// which is already maximally specific), then title deduplication, then the
// configured terminal policy. Studio comes before date: studio names are
// less noisy discriminators than dates.
func (d *Disambiguator) Narrow(ctx context.Context, scene stash.Scene, query string, candidates []porndb.Scene) ([]porndb.Scene, error) {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if len(candidates) > 1 && !d.Opts.ParseWithFilename && scene.Studio != nil && scene.Studio.Name != "" {
		query = query + " " + scene.Studio.Name
		refined, err := d.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(refined) > 0 {
			candidates = refined
		}
	}

	if len(candidates) > 1 && !d.Opts.ParseWithFilename && scene.Date != "" {
		query = query + " " + scene.Date
		refined, err := d.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(refined) > 0 {
			candidates = refined
		}
	}

	candidates = dedupeByTitle(candidates)

	if len(candidates) > 1 && d.Opts.ManualDisambiguate && d.Prompter != nil {
		selection, err := d.Prompter.ChooseCandidate(scene, candidates)
		if err != nil {
			return nil, err
		}
		if selection >= 1 && selection <= len(candidates) {
			return candidates[selection-1 : selection], nil
		}
		// 0 means none of the above: leave the full list so the caller
		// treats the scene as ambiguous.
		return candidates, nil
	}

	if len(candidates) > 1 && d.Opts.AutoDisambiguate {
		logger.Info("auto disambiguating",
			logging.String(logging.FieldQuery, query),
			logging.String("matched_title", candidates[0].Title),
		)
		return candidates[:1], nil
	}

	return candidates, nil
}

// dedupeByTitle drops candidates whose titles are identical strings. The
// source sometimes returns the same logical scene twice; a list collapsing to
// one entry here is treated like a single-candidate response.
func dedupeByTitle(candidates []porndb.Scene) []porndb.Scene {
	if len(candidates) <= 1 {
		return candidates
	}
	seen := make(map[string]bool, len(candidates))
	deduped := candidates[:0]
	for _, candidate := range candidates {
		if seen[candidate.Title] {
			continue
		}
		seen[candidate.Title] = true
		deduped = append(deduped, candidate)
	}
	return deduped
}
