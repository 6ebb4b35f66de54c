package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stopWords are orientation/position descriptors that fragment tag names into
// near-duplicate spellings ("POV Standing" vs "Standing POV" vs "POV").
// They are dropped before comparison and canonicalization.
var stopWords = map[string]struct{}{
	"pov":      {},
	"standing": {},
	"sitting":  {},
	"kneeling": {},
	"lying":    {},
	"reverse":  {},
}

var titleCaser = cases.Title(language.Und)

// tokens splits a free-text label into lowercase word tokens. Case is folded,
// punctuation and parentheses separate words, and whitespace collapses.
func tokens(name string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// NormalizeKey maps a free-text label (tag name, studio name) to its canonical
// comparison key: case-folded, punctuation and stop words stripped, remaining
// tokens joined without whitespace. Two labels match when their keys are equal;
// labels made up entirely of stop words reduce to the empty key and therefore
// match each other.
func NormalizeKey(name string) string {
	kept := make([]string, 0, 4)
	for _, tok := range tokens(name) {
		if _, skip := stopWords[tok]; skip {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, "")
}

// CanonicalTagName produces the stored spelling for a tag: punctuation and
// stop-word descriptors stripped, then title-cased. When stripping leaves
// nothing (the label was all descriptors), the cleaned label is title-cased
// as-is so tag creation never produces an empty name.
func CanonicalTagName(name string) string {
	all := tokens(name)
	kept := make([]string, 0, len(all))
	for _, tok := range all {
		if _, skip := stopWords[tok]; skip {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		kept = all
	}
	return titleCaser.String(strings.Join(kept, " "))
}

// CompactName removes all whitespace from a name. Catalogs that store studio
// names without spaces ("BrazzersExxtra") match against external names with
// spaces through this form.
func CompactName(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// FoldEqual reports whether two names are equal under simple case folding and
// whitespace trimming.
func FoldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// TrimLeadingName removes name from the front of s when s starts with it,
// ignoring case, and trims the leftover whitespace. Used to keep performer
// names out of titles that already begin with them.
func TrimLeadingName(s, name string) string {
	if name == "" {
		return strings.TrimSpace(s)
	}
	if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
		return strings.TrimSpace(s[len(name):])
	}
	return strings.TrimSpace(s)
}

// JoinNames renders a human-readable name list: "A", "A and B", or
// "A, B, and C" for three or more.
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
