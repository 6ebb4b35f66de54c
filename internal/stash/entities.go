package stash

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const allPerformersQuery = `
{
  allPerformers { id name aliases }
}`

const allStudiosQuery = `
{
  allStudios { id name url }
}`

const allTagsQuery = `
{
  allTags { id name }
}`

const createPerformerQuery = `
mutation PerformerCreate($input: PerformerCreateInput!) {
  performerCreate(input: $input) { id }
}`

const updatePerformerQuery = `
mutation PerformerUpdate($input: PerformerUpdateInput!) {
  performerUpdate(input: $input) { id }
}`

const createStudioQuery = `
mutation StudioCreate($input: StudioCreateInput!) {
  studioCreate(input: $input) { id }
}`

const createTagQuery = `
mutation TagCreate($input: TagCreateInput!) {
  tagCreate(input: $input) { id }
}`

const scrapePerformerListQuery = `
query ScrapePerformerList($query: String!) {
  scrapePerformerList(scraper_id: "builtin_freeones", query: $query) {
    name url twitter instagram birthdate ethnicity country eye_color height
    measurements fake_tits career_length tattoos piercings aliases
  }
}`

// performerPayload matches the wire shape of allPerformers. Aliases arrive as
// either a comma-delimited string or a list depending on the Stash version.
type performerPayload struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Aliases json.RawMessage `json:"aliases"`
}

func splitAliases(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return splitCommaList(joined)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}

func splitCommaList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// AllPerformers loads every performer with its alias list.
func (c *Client) AllPerformers(ctx context.Context) ([]Performer, error) {
	var payload struct {
		AllPerformers []performerPayload `json:"allPerformers"`
	}
	if err := c.call(ctx, allPerformersQuery, nil, &payload); err != nil {
		return nil, fmt.Errorf("load performers: %w", err)
	}
	performers := make([]Performer, 0, len(payload.AllPerformers))
	for _, p := range payload.AllPerformers {
		performers = append(performers, Performer{ID: p.ID, Name: p.Name, Aliases: splitAliases(p.Aliases)})
	}
	return performers, nil
}

// AllStudios loads every studio.
func (c *Client) AllStudios(ctx context.Context) ([]Studio, error) {
	var payload struct {
		AllStudios []Studio `json:"allStudios"`
	}
	if err := c.call(ctx, allStudiosQuery, nil, &payload); err != nil {
		return nil, fmt.Errorf("load studios: %w", err)
	}
	return payload.AllStudios, nil
}

// AllTags loads every tag.
func (c *Client) AllTags(ctx context.Context) ([]Tag, error) {
	var payload struct {
		AllTags []Tag `json:"allTags"`
	}
	if err := c.call(ctx, allTagsQuery, nil, &payload); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return payload.AllTags, nil
}

func performerInputMap(input PerformerInput) map[string]any {
	m := map[string]any{"name": input.Name}
	setIfPresent := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			m[key] = value
		}
	}
	setIfPresent("birthdate", input.Birthdate)
	setIfPresent("measurements", input.Measurements)
	setIfPresent("tattoos", input.Tattoos)
	setIfPresent("piercings", input.Piercings)
	setIfPresent("gender", input.Gender)
	setIfPresent("image", input.Image)
	if len(input.Aliases) > 0 {
		m["aliases"] = strings.Join(input.Aliases, ", ")
	}
	return m
}

// CreatePerformer creates a performer and returns its id.
func (c *Client) CreatePerformer(ctx context.Context, input PerformerInput) (string, error) {
	var payload struct {
		PerformerCreate struct {
			ID string `json:"id"`
		} `json:"performerCreate"`
	}
	variables := map[string]any{"input": performerInputMap(input)}
	if err := c.call(ctx, createPerformerQuery, variables, &payload); err != nil {
		return "", fmt.Errorf("create performer %q: %w", input.Name, err)
	}
	return payload.PerformerCreate.ID, nil
}

// UpdatePerformer applies a partial performer mutation.
func (c *Client) UpdatePerformer(ctx context.Context, update PerformerUpdate) error {
	m := map[string]any{"id": update.ID}
	setIfPresent := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			m[key] = value
		}
	}
	setIfPresent("name", update.Name)
	setIfPresent("birthdate", update.Birthdate)
	setIfPresent("measurements", update.Measurements)
	setIfPresent("tattoos", update.Tattoos)
	setIfPresent("piercings", update.Piercings)
	setIfPresent("gender", update.Gender)
	if len(update.Aliases) > 0 {
		m["aliases"] = strings.Join(update.Aliases, ", ")
	}
	variables := map[string]any{"input": m}
	if err := c.call(ctx, updatePerformerQuery, variables, nil); err != nil {
		return fmt.Errorf("update performer %s: %w", update.ID, err)
	}
	return nil
}

// CreateStudio creates a studio and returns its id.
func (c *Client) CreateStudio(ctx context.Context, input StudioInput) (string, error) {
	m := map[string]any{"name": input.Name}
	if strings.TrimSpace(input.URL) != "" {
		m["url"] = input.URL
	}
	if strings.TrimSpace(input.Image) != "" {
		m["image"] = input.Image
	}
	var payload struct {
		StudioCreate struct {
			ID string `json:"id"`
		} `json:"studioCreate"`
	}
	variables := map[string]any{"input": m}
	if err := c.call(ctx, createStudioQuery, variables, &payload); err != nil {
		return "", fmt.Errorf("create studio %q: %w", input.Name, err)
	}
	return payload.StudioCreate.ID, nil
}

// CreateTag creates a tag and returns its id.
func (c *Client) CreateTag(ctx context.Context, name string) (string, error) {
	var payload struct {
		TagCreate struct {
			ID string `json:"id"`
		} `json:"tagCreate"`
	}
	variables := map[string]any{"input": map[string]any{"name": name}}
	if err := c.call(ctx, createTagQuery, variables, &payload); err != nil {
		return "", fmt.Errorf("create tag %q: %w", name, err)
	}
	return payload.TagCreate.ID, nil
}

// hintsPayload matches the wire shape of scrapePerformerList entries; aliases
// arrive comma-delimited.
type hintsPayload struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Twitter      string `json:"twitter"`
	Instagram    string `json:"instagram"`
	Birthdate    string `json:"birthdate"`
	Ethnicity    string `json:"ethnicity"`
	Country      string `json:"country"`
	EyeColor     string `json:"eye_color"`
	Height       string `json:"height"`
	Measurements string `json:"measurements"`
	FakeTits     string `json:"fake_tits"`
	CareerLength string `json:"career_length"`
	Tattoos      string `json:"tattoos"`
	Piercings    string `json:"piercings"`
	Aliases      string `json:"aliases"`
}

// ScrapePerformerFreeones runs the built-in Freeones scraper for a performer
// name and returns alias hints, or nil when the scraper has no result.
func (c *Client) ScrapePerformerFreeones(ctx context.Context, name string) (*PerformerHints, error) {
	var payload struct {
		ScrapePerformerList []hintsPayload `json:"scrapePerformerList"`
	}
	variables := map[string]any{"query": name}
	if err := c.call(ctx, scrapePerformerListQuery, variables, &payload); err != nil {
		return nil, fmt.Errorf("scrape freeones %q: %w", name, err)
	}
	if len(payload.ScrapePerformerList) == 0 {
		return nil, nil
	}
	first := payload.ScrapePerformerList[0]
	hints := &PerformerHints{
		URL:          first.URL,
		Twitter:      first.Twitter,
		Instagram:    first.Instagram,
		Birthdate:    first.Birthdate,
		Ethnicity:    first.Ethnicity,
		Country:      first.Country,
		EyeColor:     first.EyeColor,
		Height:       first.Height,
		Measurements: first.Measurements,
		FakeTits:     first.FakeTits,
		CareerLength: first.CareerLength,
		Tattoos:      first.Tattoos,
		Piercings:    first.Piercings,
		Aliases:      splitCommaList(first.Aliases),
	}
	return hints, nil
}
