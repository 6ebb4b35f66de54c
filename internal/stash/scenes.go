package stash

import (
	"context"
	"fmt"
)

const findScenesQuery = `
query FindScenes($filter: FindFilterType!, $scene_filter: SceneFilterType) {
  findScenes(filter: $filter, scene_filter: $scene_filter) {
    count
    scenes {
      id
      title
      details
      url
      date
      rating
      path
      studio { id name }
      performers { id name }
      tags { id name }
    }
  }
}`

const updateSceneQuery = `
mutation SceneUpdate($input: SceneUpdateInput!) {
  sceneUpdate(input: $input) { id }
}`

const scenesPerPage = 100

// FindScenesOptions filters a scene search.
type FindScenesOptions struct {
	Query          string
	RequiredTagIDs []string
	ExcludedTagIDs []string
	MaxScenes      int
}

type findScenesPayload struct {
	FindScenes struct {
		Count  int     `json:"count"`
		Scenes []Scene `json:"scenes"`
	} `json:"findScenes"`
}

// FindScenes returns scenes matching the options, newest first. Pages are
// fetched iteratively so large catalogs never load through recursion.
// Exclusions are applied client-side because the scene filter carries a
// single tag modifier.
func (c *Client) FindScenes(ctx context.Context, opts FindScenesOptions) ([]Scene, error) {
	excluded := make(map[string]struct{}, len(opts.ExcludedTagIDs))
	for _, id := range opts.ExcludedTagIDs {
		excluded[id] = struct{}{}
	}

	var scenes []Scene
	for page := 1; ; page++ {
		perPage := scenesPerPage
		if opts.MaxScenes > 0 && opts.MaxScenes < perPage {
			perPage = opts.MaxScenes
		}
		filter := map[string]any{
			"q":         opts.Query,
			"page":      page,
			"per_page":  perPage,
			"sort":      "created_at",
			"direction": "DESC",
		}
		variables := map[string]any{"filter": filter}
		if len(opts.RequiredTagIDs) > 0 {
			variables["scene_filter"] = map[string]any{
				"tags": map[string]any{"modifier": "INCLUDES", "value": opts.RequiredTagIDs},
			}
		}

		var payload findScenesPayload
		if err := c.call(ctx, findScenesQuery, variables, &payload); err != nil {
			return nil, fmt.Errorf("find scenes page %d: %w", page, err)
		}

		batch := payload.FindScenes.Scenes
		for _, scene := range batch {
			if sceneHasTag(scene, excluded) {
				continue
			}
			scenes = append(scenes, scene)
			if opts.MaxScenes > 0 && len(scenes) >= opts.MaxScenes {
				return scenes, nil
			}
		}

		if len(batch) < perPage || page*perPage >= payload.FindScenes.Count {
			return scenes, nil
		}
	}
}

func sceneHasTag(scene Scene, ids map[string]struct{}) bool {
	if len(ids) == 0 {
		return false
	}
	for _, tag := range scene.Tags {
		if _, ok := ids[tag.ID]; ok {
			return true
		}
	}
	return false
}

// UpdateScene applies a partial scene mutation.
func (c *Client) UpdateScene(ctx context.Context, update SceneUpdate) error {
	variables := map[string]any{"input": update}
	if err := c.call(ctx, updateSceneQuery, variables, nil); err != nil {
		return fmt.Errorf("update scene %s: %w", update.ID, err)
	}
	return nil
}
