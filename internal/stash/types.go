package stash

// Ref is an id/name reference to a catalog entity as embedded in a scene.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Scene is Stash's view of one scene record.
type Scene struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Details    string `json:"details"`
	URL        string `json:"url"`
	Date       string `json:"date"`
	Rating     *int   `json:"rating"`
	Path       string `json:"path"`
	Studio     *Ref   `json:"studio"`
	Performers []Ref  `json:"performers"`
	Tags       []Ref  `json:"tags"`
}

// SceneUpdate is the partial-update payload for the sceneUpdate mutation.
// Nil pointer fields are omitted and leave the stored value untouched; the
// id sets are always sent in full.
type SceneUpdate struct {
	ID           string   `json:"id"`
	Title        *string  `json:"title,omitempty"`
	Details      *string  `json:"details,omitempty"`
	URL          *string  `json:"url,omitempty"`
	Date         *string  `json:"date,omitempty"`
	Rating       *int     `json:"rating,omitempty"`
	StudioID     *string  `json:"studio_id,omitempty"`
	CoverImage   *string  `json:"cover_image,omitempty"`
	PerformerIDs []string `json:"performer_ids"`
	TagIDs       []string `json:"tag_ids"`
}

// Performer is a catalog performer with its alias list.
type Performer struct {
	ID      string
	Name    string
	Aliases []string
}

// PerformerInput carries the attributes for performer creation.
type PerformerInput struct {
	Name         string
	Birthdate    string
	Measurements string
	Tattoos      string
	Piercings    string
	Gender       string
	Image        string
	Aliases      []string
}

// PerformerUpdate carries a partial performer mutation.
type PerformerUpdate struct {
	ID           string
	Name         string
	Birthdate    string
	Measurements string
	Tattoos      string
	Piercings    string
	Gender       string
	Aliases      []string
}

// Studio is a catalog studio.
type Studio struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StudioInput carries the attributes for studio creation.
type StudioInput struct {
	Name  string
	URL   string
	Image string
}

// Tag is a catalog tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PerformerHints is the result of an auxiliary alias-scraper lookup
// (Stash's built-in Freeones scraper).
type PerformerHints struct {
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
	Aliases      []string
}
