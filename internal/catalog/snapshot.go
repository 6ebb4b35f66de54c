package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/textutil"
)

// Loader loads the full entity lists from the library store.
type Loader interface {
	AllPerformers(ctx context.Context) ([]stash.Performer, error)
	AllStudios(ctx context.Context) ([]stash.Studio, error)
	AllTags(ctx context.Context) ([]stash.Tag, error)
}

// Snapshot is the in-memory, run-scoped copy of library performers, studios,
// and tags used for matching. It is owned by one reconciliation run and passed
// by handle into each component; entities created during the run are appended
// so every later lookup in the same run observes them. Entries are never
// removed.
type Snapshot struct {
	performers []stash.Performer
	studios    []stash.Studio
	tags       []stash.Tag
}

// Load builds a snapshot from the library store.
func Load(ctx context.Context, loader Loader) (*Snapshot, error) {
	performers, err := loader.AllPerformers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	studios, err := loader.AllStudios(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	tags, err := loader.AllTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return &Snapshot{performers: performers, studios: studios, tags: tags}, nil
}

// NewSnapshot builds a snapshot from explicit entity lists.
func NewSnapshot(performers []stash.Performer, studios []stash.Studio, tags []stash.Tag) *Snapshot {
	return &Snapshot{performers: performers, studios: studios, tags: tags}
}

// PerformerByName finds a performer whose name or alias list matches name,
// case-insensitively. Extra aliases are then tried against performer names
// only: an input alias never matches a stored alias, which keeps two aliased
// identities from chaining into one.
func (s *Snapshot) PerformerByName(name string, extraAliases ...string) *stash.Performer {
	if p := s.performerByName(name, true); p != nil {
		return p
	}
	for _, alias := range extraAliases {
		if p := s.performerByName(alias, false); p != nil {
			return p
		}
	}
	return nil
}

func (s *Snapshot) performerByName(name string, checkAliases bool) *stash.Performer {
	for i := range s.performers {
		p := &s.performers[i]
		if textutil.FoldEqual(p.Name, name) {
			return p
		}
		if !checkAliases {
			continue
		}
		for _, alias := range p.Aliases {
			if textutil.FoldEqual(alias, name) {
				return p
			}
		}
	}
	return nil
}

// StudioByName finds a studio by case-insensitive name. With compact set,
// whitespace is stripped from both sides of the comparison so catalogs that
// store studio names without spaces still match.
func (s *Snapshot) StudioByName(name string, compact bool) *stash.Studio {
	want := strings.TrimSpace(name)
	if compact {
		want = textutil.CompactName(want)
	}
	for i := range s.studios {
		have := strings.TrimSpace(s.studios[i].Name)
		if compact {
			have = textutil.CompactName(have)
		}
		if strings.EqualFold(have, want) {
			return &s.studios[i]
		}
	}
	return nil
}

// TagByName finds a tag whose normalized key equals the normalized key of
// name. First match wins.
func (s *Snapshot) TagByName(name string) *stash.Tag {
	want := textutil.NormalizeKey(name)
	for i := range s.tags {
		if textutil.NormalizeKey(s.tags[i].Name) == want {
			return &s.tags[i]
		}
	}
	return nil
}

// AddPerformer appends a newly created performer to the snapshot.
func (s *Snapshot) AddPerformer(p stash.Performer) {
	s.performers = append(s.performers, p)
}

// AddStudio appends a newly created studio to the snapshot.
func (s *Snapshot) AddStudio(st stash.Studio) {
	s.studios = append(s.studios, st)
}

// AddTag appends a newly created tag to the snapshot.
func (s *Snapshot) AddTag(t stash.Tag) {
	s.tags = append(s.tags, t)
}
