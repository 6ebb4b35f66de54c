package textutil

import (
	"regexp"
	"strings"
)

// releaseTagPatterns match resolution markers, scene-release group suffixes,
// and codec tags commonly embedded in downloaded filenames. Matched
// case-insensitively and removed before a filename is used as a search query.
var releaseTagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)MP4-(.+?)$`),
	regexp.MustCompile(`(?i) XXX `),
	regexp.MustCompile(`(?i)1080p`),
	regexp.MustCompile(`(?i)720p`),
	regexp.MustCompile(`(?i)WMV-(.+?)$`),
	regexp.MustCompile(`(?i)-UNKNOWN`),
	regexp.MustCompile(`(?i) x264-(.+?)$`),
	regexp.MustCompile(`(?i)DVDRip`),
	regexp.MustCompile(`(?i)WEBRIP`),
	regexp.MustCompile(`(?i)WEB`),
	regexp.MustCompile(`(?i)\[PRiVATE\]`),
	regexp.MustCompile(`(?i)HEVC`),
	regexp.MustCompile(`(?i)x265`),
	regexp.MustCompile(`(?i)PRT-xpost`),
	regexp.MustCompile(`(?i)-xpost`),
	regexp.MustCompile(`(?i)480p`),
	regexp.MustCompile(`(?i) SD`),
	regexp.MustCompile(`(?i) HD`),
	regexp.MustCompile(`'`),
	regexp.MustCompile(`&`),
}

// ScrubFileName cleans a filename for use as a metadata search query:
// separator periods become spaces and release-tag tokens are stripped.
func ScrubFileName(name string) string {
	clean := strings.ReplaceAll(name, ".", " ")
	for _, pattern := range releaseTagPatterns {
		clean = pattern.ReplaceAllString(clean, "")
	}
	return strings.TrimSpace(clean)
}
