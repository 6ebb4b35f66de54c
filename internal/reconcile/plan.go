package reconcile

import (
	"sort"
	"strings"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/textutil"
)

// Plan is the mutation being assembled for one scene. It starts as a copy of
// the scene's persisted state so unresolved fields are preserved, never
// blanked, and it keeps tag and performer ids as sets so an entity discovered
// through two paths is still applied once.
type Plan struct {
	sceneID      string
	title        *string
	details      *string
	url          *string
	date         *string
	studioID     *string
	coverImage   *string
	tagIDs       map[string]struct{}
	performerIDs map[string]struct{}
}

// NewPlan starts a plan from the scene's current state.
func NewPlan(scene stash.Scene) *Plan {
	plan := &Plan{
		sceneID:      scene.ID,
		tagIDs:       make(map[string]struct{}, len(scene.Tags)),
		performerIDs: make(map[string]struct{}, len(scene.Performers)),
	}
	for _, tag := range scene.Tags {
		plan.tagIDs[tag.ID] = struct{}{}
	}
	for _, performer := range scene.Performers {
		plan.performerIDs[performer.ID] = struct{}{}
	}
	return plan
}

// SetTitle overwrites the title field.
func (p *Plan) SetTitle(title string) { p.title = &title }

// SetDetails overwrites the details field.
func (p *Plan) SetDetails(details string) { p.details = &details }

// SetURL overwrites the url field.
func (p *Plan) SetURL(url string) { p.url = &url }

// SetDate overwrites the date field.
func (p *Plan) SetDate(date string) { p.date = &date }

// SetStudio overwrites the studio reference.
func (p *Plan) SetStudio(id string) { p.studioID = &id }

// SetCoverImage overwrites the cover image with a base64 data URI.
func (p *Plan) SetCoverImage(image string) { p.coverImage = &image }

// AddTag adds a tag id to the set. Empty ids are ignored.
func (p *Plan) AddTag(id string) {
	if id != "" {
		p.tagIDs[id] = struct{}{}
	}
}

// RemoveTag drops a tag id from the set.
func (p *Plan) RemoveTag(id string) {
	delete(p.tagIDs, id)
}

// HasTag reports whether the tag id is in the set.
func (p *Plan) HasTag(id string) bool {
	_, ok := p.tagIDs[id]
	return ok
}

// AddPerformer adds a performer id to the set. Empty ids are ignored.
func (p *Plan) AddPerformer(id string) {
	if id != "" {
		p.performerIDs[id] = struct{}{}
	}
}

// Build produces the update payload. Id sets are emitted sorted so repeated
// runs produce identical payloads.
func (p *Plan) Build() stash.SceneUpdate {
	update := stash.SceneUpdate{
		ID:           p.sceneID,
		Title:        p.title,
		Details:      p.details,
		URL:          p.url,
		Date:         p.date,
		StudioID:     p.studioID,
		CoverImage:   p.coverImage,
		TagIDs:       sortedKeys(p.tagIDs),
		PerformerIDs: sortedKeys(p.performerIDs),
	}
	return update
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// BuildTitle prefixes the joined performer names to the external title, first
// stripping each name off the front of the title so it is not repeated.
func BuildTitle(names []string, externalTitle string) string {
	title := externalTitle
	for _, name := range names {
		title = strings.TrimSpace(textutil.TrimLeadingName(title, name))
	}
	prefix := textutil.JoinNames(names)
	if prefix == "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(prefix + " " + title)
}
