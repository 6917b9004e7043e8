package importer

import (
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL-safe identifier from a human-readable title:
// lowercase, strip everything outside [a-z0-9 _-], collapse runs of
// whitespace/underscores/hyphens into single hyphens, trim the ends.
// It is deterministic and makes no uniqueness guarantee; slug conflicts
// surface as unique-constraint violations at the store.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
