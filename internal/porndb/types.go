package porndb

// Scene is one search result from the scenes endpoint. Fields the API omits
// stay at their zero value; nested objects are pointers so presence can be
// checked before dereferencing.
type Scene struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	URL         string           `json:"url"`
	Site        *Site            `json:"site"`
	Background  *Background      `json:"background"`
	Performers  []ScenePerformer `json:"performers"`
	Tags        []Tag            `json:"tags"`
}

// Site identifies the producing site/studio of a scene.
type Site struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Logo string `json:"logo"`
}

// Background holds cover image references for a scene.
type Background struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// Tag is a free-text scene label.
type Tag struct {
	Name string `json:"tag"`
}

// ScenePerformer is a site-specific performer credit. A credit with no parent
// link is, by definition, unverifiable against other sites.
type ScenePerformer struct {
	Name   string          `json:"name"`
	Extra  *PerformerExtra `json:"extra"`
	Parent *Performer      `json:"parent"`
}

// Performer is a canonical cross-site performer identity.
type Performer struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Image   string          `json:"image"`
	Aliases []string        `json:"aliases"`
	Extras  *PerformerExtra `json:"extras"`
}

// PerformerExtra carries optional performer attributes.
type PerformerExtra struct {
	Gender       string `json:"gender"`
	Birthday     string `json:"birthday"`
	Measurements string `json:"measurements"`
	Tattoos      string `json:"tattoos"`
	Piercings    string `json:"piercings"`
}

// Gender values reported by the API.
const (
	GenderFemale            = "Female"
	GenderMale              = "Male"
	GenderTransgenderMale   = "Transgender Male"
	GenderTransgenderFemale = "Transgender Female"
	GenderIntersex          = "Intersex"
)

// StashGender maps an API gender label onto the Stash gender enum. Unknown
// labels map to the empty string and are omitted from mutations.
func StashGender(gender string) string {
	switch gender {
	case GenderFemale:
		return "FEMALE"
	case GenderMale:
		return "MALE"
	case GenderTransgenderMale:
		return "TRANSGENDER_MALE"
	case GenderTransgenderFemale:
		return "TRANSGENDER_FEMALE"
	case GenderIntersex:
		return "INTERSEX"
	default:
		return ""
	}
}
