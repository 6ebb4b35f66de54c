package reconcile

import (
	"context"
	"fmt"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

type fakeLibrary struct {
	updates           []stash.SceneUpdate
	createdPerformers []stash.PerformerInput
	performerUpdates  []stash.PerformerUpdate
	createdStudios    []stash.StudioInput
	createdTags       []string
	freeones          map[string]*stash.PerformerHints
	updateErr         error
	nextID            int
}

func (f *fakeLibrary) UpdateScene(ctx context.Context, update stash.SceneUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeLibrary) CreatePerformer(ctx context.Context, input stash.PerformerInput) (string, error) {
	f.createdPerformers = append(f.createdPerformers, input)
	f.nextID++
	return fmt.Sprintf("perf-%d", f.nextID), nil
}

func (f *fakeLibrary) UpdatePerformer(ctx context.Context, update stash.PerformerUpdate) error {
	f.performerUpdates = append(f.performerUpdates, update)
	return nil
}

func (f *fakeLibrary) CreateStudio(ctx context.Context, input stash.StudioInput) (string, error) {
	f.createdStudios = append(f.createdStudios, input)
	f.nextID++
	return fmt.Sprintf("studio-%d", f.nextID), nil
}

func (f *fakeLibrary) CreateTag(ctx context.Context, name string) (string, error) {
	f.createdTags = append(f.createdTags, name)
	f.nextID++
	return fmt.Sprintf("tag-%d", f.nextID), nil
}

func (f *fakeLibrary) ScrapePerformerFreeones(ctx context.Context, name string) (*stash.PerformerHints, error) {
	return f.freeones[name], nil
}

type fakeSource struct {
	parseResults map[string][]porndb.Scene
	textResults  map[string][]porndb.Scene
	performers   map[string]*porndb.Performer
	imageURLs    map[string]string
	queries      []string
	failures     int
}

func (f *fakeSource) SearchScenes(ctx context.Context, query string, parse bool) ([]porndb.Scene, error) {
	f.queries = append(f.queries, query)
	if parse {
		return f.parseResults[query], nil
	}
	return f.textResults[query], nil
}

func (f *fakeSource) FindPerformer(ctx context.Context, name string) (*porndb.Performer, error) {
	return f.performers[name], nil
}

func (f *fakeSource) PerformerImageURL(ctx context.Context, name string) (string, error) {
	return f.imageURLs[name], nil
}

func (f *fakeSource) ConsecutiveFailures() int { return f.failures }

type fakeImages struct {
	performerImages map[string]string
	fetched         map[string]string
}

func (f *fakeImages) PerformerImage(ctx context.Context, name string, aliases []string, fallbackURL string) (string, error) {
	return f.performerImages[name], nil
}

func (f *fakeImages) FetchBase64(ctx context.Context, rawURL string) (string, error) {
	if encoded, ok := f.fetched[rawURL]; ok {
		return encoded, nil
	}
	return "", fmt.Errorf("no image at %s", rawURL)
}

type fakePrompter struct {
	selection     int
	aliasDecision AliasDecision
	choosePrompts int
	aliasPrompts  int
}

func (f *fakePrompter) ChooseCandidate(scene stash.Scene, candidates []porndb.Scene) (int, error) {
	f.choosePrompts++
	return f.selection, nil
}

func (f *fakePrompter) ConfirmAlias(siteName, parentName, site string) (AliasDecision, error) {
	f.aliasPrompts++
	return f.aliasDecision, nil
}
