package textutil

import "testing"

func TestNormalizeKeyMatchesAcrossSpellings(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
	}{
		{"hyphen and parens", "Face-Sitting (Hard)", "face sitting hard"},
		{"compact whitespace", "  Deep   Throat ", "Deep Throat"},
		{"stop words reduce to base key", " - POV (Standing) ", "pov standing"},
		{"stop word absent entirely", "POV Cowgirl", "Cowgirl"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if NormalizeKey(tc.a) != NormalizeKey(tc.b) {
				t.Fatalf("keys differ: %q -> %q, %q -> %q", tc.a, NormalizeKey(tc.a), tc.b, NormalizeKey(tc.b))
			}
		})
	}
}

func TestNormalizeKeyDistinguishesDifferentTags(t *testing.T) {
	if NormalizeKey("Anal") == NormalizeKey("Oral") {
		t.Fatal("distinct tags should not share a key")
	}
}

func TestCanonicalTagName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"big-tits", "Big Tits"},
		{"blonde (natural)", "Blonde Natural"},
		{"POV doggystyle", "Doggystyle"},
		{" - POV (Standing) ", "Pov Standing"}, // all stop words: keep cleaned label
	}
	for _, tc := range cases {
		if got := CanonicalTagName(tc.in); got != tc.want {
			t.Fatalf("CanonicalTagName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompactName(t *testing.T) {
	if got := CompactName("Brazzers Exxtra"); got != "BrazzersExxtra" {
		t.Fatalf("CompactName = %q", got)
	}
}

func TestTrimLeadingName(t *testing.T) {
	if got := TrimLeadingName("Jane Doe does X", "Jane Doe"); got != "does X" {
		t.Fatalf("TrimLeadingName = %q", got)
	}
	if got := TrimLeadingName("Stars Jane Doe", "Jane Doe"); got != "Stars Jane Doe" {
		t.Fatalf("TrimLeadingName should only strip prefixes, got %q", got)
	}
	if got := TrimLeadingName("jane doe does X", "Jane Doe"); got != "does X" {
		t.Fatalf("TrimLeadingName should ignore case, got %q", got)
	}
}

func TestJoinNames(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"Jane"}, "Jane"},
		{[]string{"Jane", "Joan"}, "Jane and Joan"},
		{[]string{"Jane", "Joan", "June"}, "Jane, Joan, and June"},
	}
	for _, tc := range cases {
		if got := JoinNames(tc.in); got != tc.want {
			t.Fatalf("JoinNames(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
