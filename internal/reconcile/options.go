package reconcile

import (
	"context"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

// Tag names generated per performer when identity cannot be verified. These
// are fixed, not configurable, so re-runs can find and strip them.
const (
	unconfirmedAliasTag         = "ThePornDB Unconfirmed Alias"
	ambiguousPerformerTagPrefix = "ThePornDB Ambiguous Performer: "
)

// FieldFlags selects which scene fields a successful match overwrites.
type FieldFlags struct {
	Title      bool
	Details    bool
	URL        bool
	Date       bool
	CoverImage bool
	Studio     bool
	Tags       bool
	Performers bool
}

// Options controls reconciliation behavior for a run.
type Options struct {
	Fields FieldFlags

	CreateStudios    bool
	CreateTags       bool
	CreatePerformers bool

	// Terminal disambiguation policy when narrowing leaves more than one
	// candidate. Manual wins over auto when both are set.
	ManualDisambiguate bool
	AutoDisambiguate   bool

	// Status tags. Empty string disables the corresponding tagging.
	AmbiguousTag string
	UnmatchedTag string
	ScrapeTag    string

	TrustAliases           bool
	ConfirmAliases         bool
	TagAmbiguousPerformers bool

	ParseWithFilename bool
	CleanFilename     bool
	DirsInQuery       int

	OnlyAddFemale bool
	// ScrapeFreeones enriches newly created performers from the Freeones
	// scraper. Alias verification consults Freeones regardless.
	ScrapeFreeones bool
	IncludeInTitle bool
	MaleInTitle    bool

	CompactStudioNames bool

	// Consecutive malformed responses from the metadata source before the
	// run aborts.
	FailureThreshold int
}

// Library is the subset of the catalog store the engine mutates.
type Library interface {
	UpdateScene(ctx context.Context, update stash.SceneUpdate) error
	CreatePerformer(ctx context.Context, input stash.PerformerInput) (string, error)
	UpdatePerformer(ctx context.Context, update stash.PerformerUpdate) error
	CreateStudio(ctx context.Context, input stash.StudioInput) (string, error)
	CreateTag(ctx context.Context, name string) (string, error)
	ScrapePerformerFreeones(ctx context.Context, name string) (*stash.PerformerHints, error)
}

// MetadataSource is the external scene metadata service.
type MetadataSource interface {
	SearchScenes(ctx context.Context, query string, parse bool) ([]porndb.Scene, error)
	FindPerformer(ctx context.Context, name string) (*porndb.Performer, error)
	PerformerImageURL(ctx context.Context, name string) (string, error)
	ConsecutiveFailures() int
}

// ImageSource fetches artwork as base64 data URIs.
type ImageSource interface {
	PerformerImage(ctx context.Context, name string, aliases []string, fallbackURL string) (string, error)
	FetchBase64(ctx context.Context, rawURL string) (string, error)
}

// AliasDecision is the operator's answer to an alias confirmation prompt.
type AliasDecision int

const (
	// AliasReject declines the alias for this attempt.
	AliasReject AliasDecision = iota
	// AliasAcceptOnce trusts the alias for this scene only.
	AliasAcceptOnce
	// AliasAcceptAlways trusts the alias for the rest of the run.
	AliasAcceptAlways
	// AliasAcceptSite trusts the alias whenever this site reports it.
	AliasAcceptSite
)

// Prompter blocks for operator input in the manual modes. Implementations
// that cannot prompt (no terminal) should return the skip/reject answers.
type Prompter interface {
	// ChooseCandidate presents the candidate list and returns a 1-based
	// selection, or 0 to skip the scene and leave it ambiguous.
	ChooseCandidate(scene stash.Scene, candidates []porndb.Scene) (int, error)
	// ConfirmAlias asks whether siteName should be trusted as an alias of
	// parentName as reported by site.
	ConfirmAlias(siteName, parentName, site string) (AliasDecision, error)
}
