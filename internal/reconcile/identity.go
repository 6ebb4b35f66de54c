package reconcile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/catalog"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/textutil"
)

// ResolutionKind classifies the outcome of resolving one scene performer.
type ResolutionKind int

const (
	// ResolutionSkipped drops the performer with no side effects.
	ResolutionSkipped ResolutionKind = iota
	// ResolutionMatched links an existing catalog performer.
	ResolutionMatched
	// ResolutionCreate asks the run context to create a new performer.
	ResolutionCreate
	// ResolutionUnverifiable tags the scene for later reprocessing.
	ResolutionUnverifiable
)

// Resolution is the decision for one scene performer. The resolver never
// mutates shared state itself: registry additions and stored-performer
// updates come back as Registry and Update for the run context to apply.
type Resolution struct {
	Kind        ResolutionKind
	PerformerID string
	// Name is the display name adopted for the performer (site name or
	// canonical parent name).
	Name string
	// InTitle reports whether the name joins the title-prefix list.
	InTitle bool
	// Create carries the new performer's attributes when Kind is
	// ResolutionCreate.
	Create *stash.PerformerInput
	// TagName is the status tag to add when Kind is
	// ResolutionUnverifiable.
	TagName  string
	Registry *RegistryCommand
	Update   *stash.PerformerUpdate
}

// Resolver decides how one external performer reference maps onto the
// catalog: existing performer, new performer, or unverifiable identity.
type Resolver struct {
	Catalog  *catalog.Snapshot
	Registry *AliasRegistry
	Library  Library
	Source   MetadataSource
	Prompter Prompter
	Opts     Options
	Logger   *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// Resolve decides the fate of one scene performer credit. scene supplies the
// file path for the title-inclusion heuristics; site is the candidate's
// producing site name.
func (r *Resolver) Resolve(ctx context.Context, performer porndb.ScenePerformer, scene stash.Scene, site string) (Resolution, error) {
	siteName := performer.Name
	filtered := notFemale(performer)
	nameInPath := containsFold(scene.Path, siteName)

	// The path-substring check overrides gender filtering: a credited name
	// in the file name is strong evidence regardless of listed gender.
	if r.Opts.OnlyAddFemale && filtered && !nameInPath {
		return Resolution{Kind: ResolutionSkipped}, nil
	}

	if match := r.Catalog.PerformerByName(siteName); match != nil {
		return Resolution{
			Kind:        ResolutionMatched,
			PerformerID: match.ID,
			Name:        siteName,
			InTitle:     r.titleEligible(filtered),
		}, nil
	}

	if performer.Parent == nil || performer.Parent.Name == "" {
		if r.Opts.TagAmbiguousPerformers {
			r.logger().Info("performer not linked to a cross-site identity, tagging scene",
				logging.String("performer", siteName),
			)
			return Resolution{
				Kind:    ResolutionUnverifiable,
				Name:    siteName,
				InTitle: nameInPath,
				TagName: ambiguousPerformerTagPrefix + siteName,
			}, nil
		}
		return Resolution{Kind: ResolutionSkipped}, nil
	}

	parentName := performer.Parent.Name
	trusted := r.Opts.TrustAliases ||
		!strings.Contains(strings.TrimSpace(siteName), " ") ||
		r.areAliases(ctx, siteName, parentName, site)

	var registryCmd *RegistryCommand
	var update *stash.PerformerUpdate
	if !trusted {
		if !r.Opts.ConfirmAliases || r.Prompter == nil {
			r.logger().Info("alias could not be verified, tagging scene",
				logging.String("performer", siteName),
				logging.String("alias_of", parentName),
			)
			return Resolution{
				Kind:    ResolutionUnverifiable,
				Name:    siteName,
				InTitle: nameInPath,
				TagName: unconfirmedAliasTag,
			}, nil
		}
		decision, err := r.Prompter.ConfirmAlias(siteName, parentName, site)
		if err != nil {
			return Resolution{}, err
		}
		switch decision {
		case AliasAcceptOnce:
		case AliasAcceptAlways:
			registryCmd = &RegistryCommand{Canonical: parentName, Alias: siteName}
		case AliasAcceptSite:
			registryCmd = &RegistryCommand{Canonical: parentName, Alias: r.siteScoped(siteName, site)}
		default:
			return Resolution{
				Kind:    ResolutionUnverifiable,
				Name:    siteName,
				InTitle: nameInPath,
				TagName: unconfirmedAliasTag,
			}, nil
		}
	}

	if match := r.Catalog.PerformerByName(parentName); match != nil {
		if registryCmd != nil {
			// Persist the confirmed alias on the stored performer too.
			update = &stash.PerformerUpdate{
				ID:      match.ID,
				Aliases: appendUnique(match.Aliases, registryCmd.Alias),
			}
		}
		return Resolution{
			Kind:        ResolutionMatched,
			PerformerID: match.ID,
			Name:        parentName,
			InTitle:     r.titleEligible(filtered),
			Registry:    registryCmd,
			Update:      update,
		}, nil
	}

	if !r.creationEligible(performer, scene, filtered) || !r.Opts.CreatePerformers {
		return Resolution{Kind: ResolutionSkipped, Registry: registryCmd}, nil
	}
	input := performerInput(performer)
	if registryCmd != nil {
		input.Aliases = appendUnique(input.Aliases, registryCmd.Alias)
	}
	return Resolution{
		Kind:     ResolutionCreate,
		Name:     parentName,
		InTitle:  r.titleEligible(filtered),
		Create:   &input,
		Registry: registryCmd,
	}, nil
}

// creationEligible applies the new-performer gate: a title mention, a
// disabled gender filter, or a passing gender all qualify.
func (r *Resolver) creationEligible(performer porndb.ScenePerformer, scene stash.Scene, filtered bool) bool {
	if containsFold(scene.Title, performer.Name) {
		return true
	}
	if !r.Opts.OnlyAddFemale {
		return true
	}
	return !filtered
}

func (r *Resolver) titleEligible(filtered bool) bool {
	if !r.Opts.OnlyAddFemale || r.Opts.MaleInTitle {
		return true
	}
	return !filtered
}

// areAliases reports whether two performer names refer to the same identity.
// Each name's alias set is assembled from the run registry, the catalog's
// stored aliases, the Freeones scraper, and the metadata source; a name
// matches only against the other name's aliases, never alias against alias.
// Site-scoped registry entries of the form "name (site)" count when the
// scene's site matches.
func (r *Resolver) areAliases(ctx context.Context, first, second, site string) bool {
	if textutil.FoldEqual(first, second) {
		return true
	}
	if r.Opts.CompactStudioNames {
		site = textutil.CompactName(site)
	}

	firstAliases := r.aliasEvidence(ctx, first)
	secondAliases := r.aliasEvidence(ctx, second)

	if containsName(secondAliases, first) || containsName(firstAliases, second) {
		return true
	}
	if site != "" {
		if containsName(secondAliases, r.siteScoped(first, site)) || containsName(firstAliases, r.siteScoped(second, site)) {
			return true
		}
	}
	return false
}

// aliasEvidence gathers every known alternate name for name. Evidence-source
// failures degrade to an empty contribution; a metadata-source outage is
// handled by the run loop's failure counter, not here.
func (r *Resolver) aliasEvidence(ctx context.Context, name string) []string {
	aliases := []string{name}
	aliases = append(aliases, r.Registry.Aliases(name)...)

	if match := r.Catalog.PerformerByName(name); match != nil {
		aliases = append(aliases, match.Aliases...)
	}

	if r.Library != nil {
		hints, err := r.Library.ScrapePerformerFreeones(ctx, name)
		if err != nil {
			r.logger().Debug("freeones alias lookup failed",
				logging.String("performer", name),
				logging.Error(err),
			)
		} else if hints != nil {
			aliases = append(aliases, hints.Aliases...)
		}
	}

	if r.Source != nil {
		parent, err := r.Source.FindPerformer(ctx, name)
		if err != nil {
			r.logger().Debug("metadata source alias lookup failed",
				logging.String("performer", name),
				logging.Error(err),
			)
		} else if parent != nil {
			aliases = append(aliases, parent.Aliases...)
		}
	}
	return aliases
}

func (r *Resolver) siteScoped(name, site string) string {
	if r.Opts.CompactStudioNames {
		site = textutil.CompactName(site)
	}
	return name + " (" + site + ")"
}

// notFemale mirrors the gender filter: a parent profile listing a non-female
// gender, or a site-level credit listing male with no parent gender, fails
// the filter. Unknown genders pass.
func notFemale(performer porndb.ScenePerformer) bool {
	if performer.Parent != nil && performer.Parent.Extras != nil {
		return performer.Parent.Extras.Gender != porndb.GenderFemale
	}
	if performer.Extra != nil && performer.Extra.Gender == porndb.GenderMale {
		return true
	}
	return false
}

// performerInput copies creation attributes from the parent profile.
func performerInput(performer porndb.ScenePerformer) stash.PerformerInput {
	input := stash.PerformerInput{Name: performer.Parent.Name}
	if extras := performer.Parent.Extras; extras != nil {
		input.Birthdate = extras.Birthday
		input.Measurements = extras.Measurements
		input.Tattoos = extras.Tattoos
		input.Piercings = extras.Piercings
		input.Gender = porndb.StashGender(extras.Gender)
	}
	if len(performer.Parent.Aliases) > 1 {
		input.Aliases = append([]string(nil), performer.Parent.Aliases...)
	}
	return input
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsName(names []string, want string) bool {
	for _, name := range names {
		if textutil.FoldEqual(name, want) {
			return true
		}
	}
	return false
}

func appendUnique(names []string, name string) []string {
	if containsName(names, name) {
		return names
	}
	return append(append([]string(nil), names...), name)
}
