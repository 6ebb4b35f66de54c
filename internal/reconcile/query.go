package reconcile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/textutil"
)

// ErrPathParse marks a scene whose file path matches neither a Windows-style
// nor a POSIX-style absolute path. The scene is skipped, not fatal.
var ErrPathParse = errors.New("unrecognized scene path")

var (
	windowsPathRE = regexp.MustCompile(`^[A-Za-z]:\\(?:(.+)\\)?([^\\]+)\.([^.\\]+)$`)
	posixPathRE   = regexp.MustCompile(`^/(?:(.+)/)?([^/]+)\.([^./]+)$`)
)

// BuildQuery derives the metadata-source search string for a scene. With
// filename parsing enabled it uses the file's base name, optionally scrubbed
// of release tokens and prefixed with up to DirsInQuery ancestor directory
// names, innermost first. Otherwise it uses the stored title.
func BuildQuery(scene stash.Scene, opts Options) (string, error) {
	if !opts.ParseWithFilename {
		return scene.Title, nil
	}

	var fileName string
	var dirs []string
	if match := windowsPathRE.FindStringSubmatch(scene.Path); match != nil {
		fileName = match[2]
		if match[1] != "" {
			dirs = strings.Split(match[1], `\`)
		}
	} else if match := posixPathRE.FindStringSubmatch(scene.Path); match != nil {
		fileName = match[2]
		if match[1] != "" {
			dirs = strings.Split(match[1], "/")
		}
	} else {
		return "", fmt.Errorf("%w: %q", ErrPathParse, scene.Path)
	}

	if opts.CleanFilename {
		fileName = textutil.ScrubFileName(fileName)
	}

	query := fileName
	for i := 0; i < opts.DirsInQuery && len(dirs) > 0; i++ {
		query = dirs[len(dirs)-1] + " " + query
		dirs = dirs[:len(dirs)-1]
	}
	return query, nil
}
