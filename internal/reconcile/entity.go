package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/textutil"
)

// resolveStudio maps a candidate's site onto a catalog studio id, creating
// the studio when allowed. Empty id means the studio field stays untouched.
func (r *Runner) resolveStudio(ctx context.Context, site *porndb.Site) (string, error) {
	if site == nil || site.Name == "" {
		return "", nil
	}
	name := site.Name
	if r.opts.CompactStudioNames {
		name = textutil.CompactName(name)
	}
	if match := r.catalog.StudioByName(name, r.opts.CompactStudioNames); match != nil {
		return match.ID, nil
	}
	if !r.opts.CreateStudios {
		return "", nil
	}

	input := stash.StudioInput{Name: name, URL: site.URL}
	if site.Logo != "" && !strings.Contains(site.Logo, "default.png") {
		logo, err := r.images.FetchBase64(ctx, site.Logo)
		if err != nil {
			r.logger.Debug("studio logo fetch failed",
				logging.String("studio", name),
				logging.Error(err),
			)
		} else {
			input.Image = logo
		}
	}
	r.logger.Info("creating studio", logging.String("studio", name))
	id, err := r.library.CreateStudio(ctx, input)
	if err != nil {
		return "", fmt.Errorf("create studio %q: %w", name, err)
	}
	r.catalog.AddStudio(stash.Studio{ID: id, Name: name, URL: site.URL})
	return id, nil
}

// resolveTag maps a free-text label onto a catalog tag id, creating the tag
// under its canonical spelling when allowed. Empty id means the label is
// dropped.
func (r *Runner) resolveTag(ctx context.Context, label string) (string, error) {
	name := textutil.CanonicalTagName(label)
	if name == "" {
		return "", nil
	}
	if match := r.catalog.TagByName(name); match != nil {
		return match.ID, nil
	}
	if !r.opts.CreateTags {
		r.logger.Debug("tag not in catalog, dropping", logging.String("tag", name))
		return "", nil
	}
	return r.createTag(ctx, name)
}

// statusTagID looks up a status tag, creating it if missing. Status tags are
// always created regardless of the create-tags flag: they are the engine's
// own bookkeeping, not scraped labels.
func (r *Runner) statusTagID(ctx context.Context, name string) (string, error) {
	if match := r.catalog.TagByName(name); match != nil {
		return match.ID, nil
	}
	return r.createTag(ctx, name)
}

func (r *Runner) createTag(ctx context.Context, name string) (string, error) {
	id, err := r.library.CreateTag(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create tag %q: %w", name, err)
	}
	r.catalog.AddTag(stash.Tag{ID: id, Name: name})
	return id, nil
}
